package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/itsGurdevSingh/UrbanPocket/pkg/auth"
	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/services/user/internal/domain"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func newUserService(users *mockUserRepository) *UserService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	jwt := auth.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewUserService(users, jwt, logger)
}

func TestRegisterHashesPasswordAndIssuesTokens(t *testing.T) {
	users := new(mockUserRepository)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	svc := newUserService(users)

	user, tokens, err := svc.Register(context.Background(), &RegisterInput{
		Email:    "jo@example.com",
		Password: "Sup3rSecret",
		Name:     "Jo",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "Sup3rSecret", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Sup3rSecret")))
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	users.AssertExpectations(t)
}

func TestRegisterRejectsWeakPasswords(t *testing.T) {
	svc := newUserService(new(mockUserRepository))

	for _, password := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		_, _, err := svc.Register(context.Background(), &RegisterInput{
			Email:    "jo@example.com",
			Password: password,
			Name:     "Jo",
		})

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr, password)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code, password)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc := newUserService(new(mockUserRepository))

	_, _, err := svc.Register(context.Background(), &RegisterInput{
		Email:    "jo@example.com",
		Password: "Sup3rSecret",
		Name:     "Jo",
		Role:     domain.RoleAdmin,
	})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestRegisterSellerRoleAllowed(t *testing.T) {
	users := new(mockUserRepository)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	svc := newUserService(users)

	user, _, err := svc.Register(context.Background(), &RegisterInput{
		Email:    "shop@example.com",
		Password: "Sup3rSecret",
		Name:     "Shop",
		Role:     domain.RoleSeller,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, user.Role)
}

func activeUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{
		ID:           primitive.NewObjectID(),
		Email:        "jo@example.com",
		PasswordHash: string(hash),
		Name:         "Jo",
		Role:         domain.RoleCustomer,
		IsActive:     true,
	}
}

func TestLoginSuccess(t *testing.T) {
	user := activeUser(t, "Sup3rSecret")
	users := new(mockUserRepository)
	users.On("GetByEmail", mock.Anything, "jo@example.com").Return(user, nil)
	svc := newUserService(users)

	got, tokens, err := svc.Login(context.Background(), &LoginInput{Email: "jo@example.com", Password: "Sup3rSecret"})

	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	user := activeUser(t, "Sup3rSecret")
	users := new(mockUserRepository)
	users.On("GetByEmail", mock.Anything, "jo@example.com").Return(user, nil)
	users.On("GetByEmail", mock.Anything, "nobody@example.com").
		Return(nil, apperrors.NotFound("USER_NOT_FOUND", "user", "nobody@example.com"))
	svc := newUserService(users)

	_, _, wrongPass := svc.Login(context.Background(), &LoginInput{Email: "jo@example.com", Password: "wrong"})
	_, _, unknown := svc.Login(context.Background(), &LoginInput{Email: "nobody@example.com", Password: "Sup3rSecret"})

	var errA, errB *apperrors.AppError
	require.ErrorAs(t, wrongPass, &errA)
	require.ErrorAs(t, unknown, &errB)
	assert.Equal(t, errA.Code, errB.Code)
	assert.Equal(t, errA.Message, errB.Message)
}

func TestLoginDeactivatedAccountRejected(t *testing.T) {
	user := activeUser(t, "Sup3rSecret")
	user.IsActive = false
	users := new(mockUserRepository)
	users.On("GetByEmail", mock.Anything, "jo@example.com").Return(user, nil)
	svc := newUserService(users)

	_, _, err := svc.Login(context.Background(), &LoginInput{Email: "jo@example.com", Password: "Sup3rSecret"})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	user := activeUser(t, "Sup3rSecret")
	users := new(mockUserRepository)
	users.On("GetByEmail", mock.Anything, "jo@example.com").Return(user, nil)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	svc := newUserService(users)

	_, tokens, err := svc.Login(context.Background(), &LoginInput{Email: "jo@example.com", Password: "Sup3rSecret"})
	require.NoError(t, err)

	fresh, err := svc.Refresh(context.Background(), tokens.RefreshToken)

	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEmpty(t, fresh.RefreshToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	user := activeUser(t, "Sup3rSecret")
	users := new(mockUserRepository)
	users.On("GetByEmail", mock.Anything, "jo@example.com").Return(user, nil)
	svc := newUserService(users)

	_, tokens, err := svc.Login(context.Background(), &LoginInput{Email: "jo@example.com", Password: "Sup3rSecret"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), tokens.AccessToken)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func TestRefreshDeactivatedAccountRejected(t *testing.T) {
	user := activeUser(t, "Sup3rSecret")
	users := new(mockUserRepository)
	users.On("GetByEmail", mock.Anything, "jo@example.com").Return(user, nil)
	svc := newUserService(users)

	_, tokens, err := svc.Login(context.Background(), &LoginInput{Email: "jo@example.com", Password: "Sup3rSecret"})
	require.NoError(t, err)

	user.IsActive = false
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	_, err = svc.Refresh(context.Background(), tokens.RefreshToken)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func TestMeLoadsActorAccount(t *testing.T) {
	user := activeUser(t, "Sup3rSecret")
	users := new(mockUserRepository)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	svc := newUserService(users)

	ctx := middleware.WithActor(context.Background(), &middleware.Actor{ID: user.ID.Hex(), Role: user.Role})
	got, err := svc.Me(ctx)

	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
}

func TestMeRequiresAuthentication(t *testing.T) {
	svc := newUserService(new(mockUserRepository))

	_, err := svc.Me(context.Background())

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}
