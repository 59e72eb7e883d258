package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/health"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/services/cart/internal/domain"
	cartredis "github.com/itsGurdevSingh/UrbanPocket/services/cart/internal/repository/redis"
	"github.com/itsGurdevSingh/UrbanPocket/services/cart/internal/service"
)

// tokens understood by the stub verifier.
const (
	customerID      = "665f1e1f1e1f1e1f1e1f1e1f"
	otherCustomerID = "665f1e1f1e1f1e1f1e1f1e20"
)

func stubVerifier(token string) (*middleware.Actor, error) {
	switch token {
	case "customer-token":
		return &middleware.Actor{ID: customerID, Role: middleware.RoleCustomer}, nil
	case "other-token":
		return &middleware.Actor{ID: otherCustomerID, Role: middleware.RoleCustomer}, nil
	default:
		return nil, apperrors.Unauthorized("invalid token")
	}
}

type fixture struct {
	router http.Handler
}

// newFixture runs the cart stack against an in-process Redis.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := cartredis.NewCartRepository(client, 24*time.Hour)
	svc := service.NewCartService(repo, logger, 24*time.Hour)

	return &fixture{router: NewRouter(RouterDeps{
		Carts:  svc,
		Health: health.NewHandler(),
		Verify: stubVerifier,
		Logger: logger,
	})}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) domain.Cart {
	t.Helper()
	env := decodeEnvelope(t, rec)
	var cart domain.Cart
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	return cart
}

func addBody() map[string]any {
	return map[string]any{
		"variant_id": "variant-1",
		"name":       "Whole Milk 1L",
		"sku":        "MILK-1L",
		"unit_price": 6500,
		"currency":   "INR",
		"quantity":   2,
	}
}

func TestCartRoutes_RequireAuth(t *testing.T) {
	f := newFixture(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/cart"},
		{http.MethodDelete, "/api/cart"},
		{http.MethodPost, "/api/cart/items"},
		{http.MethodPut, "/api/cart/items/variant-1"},
		{http.MethodDelete, "/api/cart/items/variant-1"},
	} {
		rec := f.do(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestGetCart_EmptyForNewUser(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/cart", "customer-token", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	assert.Equal(t, customerID, cart.UserID)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.Version)
}

func TestAddItem_ThenGetCart(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cart/items", "customer-token", addBody())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/cart", "customer-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "variant-1", cart.Items[0].VariantID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, int64(6500), cart.Items[0].UnitPrice)
	assert.Equal(t, "INR", cart.Currency)
	assert.Equal(t, 1, cart.Version)
}

func TestAddItem_MergesSameVariant(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cart/items", "customer-token", addBody())
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/cart/items", "customer-token", addBody())
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeCart(t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, 2, cart.Version)
}

func TestAddItem_ValidationError(t *testing.T) {
	f := newFixture(t)

	body := addBody()
	body["quantity"] = 0
	delete(body, "variant_id")

	rec := f.do(t, http.MethodPost, "/api/cart/items", "customer-token", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestAddItem_CurrencyMismatch(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cart/items", "customer-token", addBody())
	require.Equal(t, http.StatusOK, rec.Code)

	body := addBody()
	body["variant_id"] = "variant-2"
	body["currency"] = "USD"
	rec = f.do(t, http.MethodPost, "/api/cart/items", "customer-token", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateItem_SetsQuantity(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cart/items", "customer-token", addBody())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPut, "/api/cart/items/variant-1", "customer-token", map[string]any{"quantity": 9})
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 9, cart.Items[0].Quantity)
}

func TestUpdateItem_ZeroRemovesLine(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cart/items", "customer-token", addBody())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPut, "/api/cart/items/variant-1", "customer-token", map[string]any{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	assert.Empty(t, cart.Items)
}

func TestUpdateItem_UnknownVariant(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cart/items", "customer-token", addBody())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPut, "/api/cart/items/variant-missing", "customer-token", map[string]any{"quantity": 3})

	require.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CART_ITEM_NOT_FOUND", env.Error.Code)
}

func TestUpdateItem_MissingCart(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPut, "/api/cart/items/variant-1", "customer-token", map[string]any{"quantity": 3})

	require.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CART_NOT_FOUND", env.Error.Code)
}

func TestRemoveItem_DeletesLine(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cart/items", "customer-token", addBody())
	require.Equal(t, http.StatusOK, rec.Code)
	body := addBody()
	body["variant_id"] = "variant-2"
	rec = f.do(t, http.MethodPost, "/api/cart/items", "customer-token", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/cart/items/variant-1", "customer-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "variant-2", cart.Items[0].VariantID)
}

func TestClearCart_EmptiesCart(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cart/items", "customer-token", addBody())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/cart", "customer-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/cart", "customer-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.Version)
}

func TestCarts_IsolatedPerUser(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cart/items", "customer-token", addBody())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/cart", "other-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	assert.Equal(t, otherCustomerID, cart.UserID)
	assert.Empty(t, cart.Items)
}

func TestHealthLive(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health/live", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}
