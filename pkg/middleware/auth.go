package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/httputil"
)

type contextKeyType string

const actorKey contextKeyType = "actor"

// Known actor roles.
const (
	RoleUser     = "user"
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

// Actor is the authenticated principal attached to a request.
type Actor struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenVerifier validates a bearer token and returns the actor it encodes.
// The user service injects its JWT manager here; tests inject stubs.
type TokenVerifier func(token string) (*Actor, error)

// Auth validates the Authorization header and stores the Actor in context.
// Requests without a valid bearer token get 401 UNAUTHORIZED.
func Auth(verify TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeUnauthorized(w, "missing authorization header")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeUnauthorized(w, "authorization header must be 'Bearer <token>'")
				return
			}

			actor, err := verify(parts[1])
			if err != nil {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequireRole rejects authenticated requests whose actor role is not in the
// allowed set. Must be mounted after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeUnauthorized(w, "authentication required")
				return
			}
			if _, ok := allowed[actor.Role]; !ok {
				httputil.WriteJSON(w, http.StatusForbidden, httputil.Response{
					Success: false,
					Error:   &httputil.ErrorBody{Code: "FORBIDDEN_ROLE", Message: "insufficient permissions"},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithActor stores the actor in the context. Exported for tests.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(actorKey).(*Actor)
	return actor, ok
}

// RequireActor returns the actor or an UNAUTHORIZED error. Services call
// this at the top of every mutating operation.
func RequireActor(ctx context.Context) (*Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.ID == "" {
		return nil, apperrors.Unauthorized("authentication required")
	}
	return actor, nil
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
		Success: false,
		Error:   &httputil.ErrorBody{Code: "UNAUTHORIZED", Message: message},
	})
}
