// Package service implements the user business logic: registration,
// login, token refresh, and profile access.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/itsGurdevSingh/UrbanPocket/pkg/auth"
	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/services/user/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/user/internal/repository"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// UserService implements the business logic for user and auth operations.
type UserService struct {
	users  repository.UserRepository
	jwt    *auth.JWTManager
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, jwt *auth.JWTManager, logger *slog.Logger) *UserService {
	return &UserService{users: users, jwt: jwt, logger: logger}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Email    string
	Password string
}

// Register creates a new account, hashes the password, and returns the
// user with a fresh token pair. Admin accounts cannot be self-registered.
func (s *UserService) Register(ctx context.Context, input *RegisterInput) (*domain.User, *domain.TokenPair, error) {
	if err := validatePassword(input.Password); err != nil {
		return nil, nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if role != domain.RoleCustomer && role != domain.RoleSeller {
		return nil, nil, apperrors.Validation("role must be customer or seller",
			apperrors.FieldError{Field: "role", Message: "must be customer or seller"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           primitive.NewObjectID(),
		Email:        input.Email,
		PasswordHash: string(hashed),
		Name:         input.Name,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.tokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID.Hex()),
		slog.String("role", user.Role),
	)
	return user, tokens, nil
}

// Login authenticates with email and password. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, input *LoginInput) (*domain.User, *domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}
	if !user.IsActive {
		return nil, nil, apperrors.Unauthorized("account is deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	tokens, err := s.tokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID.Hex()))
	return user, tokens, nil
}

// Refresh validates a refresh token and issues a new pair. The user is
// reloaded so a deactivated account cannot renew its session.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired refresh token")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired refresh token")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired refresh token")
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("account is deactivated")
	}

	return s.tokenPair(user)
}

// Me returns the authenticated user's account.
func (s *UserService) Me(ctx context.Context) (*domain.User, error) {
	actor, err := middleware.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(actor.ID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid actor identity")
	}
	return s.users.GetByID(ctx, id)
}

func (s *UserService) tokenPair(user *domain.User) (*domain.TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength),
			apperrors.FieldError{Field: "password", Message: "too short"})
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.Validation("password must contain an uppercase letter, a lowercase letter, and a digit",
			apperrors.FieldError{Field: "password", Message: "must mix upper, lower, and digits"})
	}
	return nil
}
