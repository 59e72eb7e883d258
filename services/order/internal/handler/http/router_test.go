package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/itsGurdevSingh/UrbanPocket/pkg/errors"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/health"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/middleware"
	"github.com/itsGurdevSingh/UrbanPocket/pkg/pagination"
	"github.com/itsGurdevSingh/UrbanPocket/services/order/internal/domain"
	"github.com/itsGurdevSingh/UrbanPocket/services/order/internal/service"
)

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	if args.Error(0) == nil && order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	return args.Error(0)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByUser(ctx context.Context, userID primitive.ObjectID, page pagination.Params) ([]domain.Order, int64, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Get(1).(int64), args.Error(2)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// --- Fixture ---

// tokens understood by the stub verifier.
var (
	customerID = primitive.NewObjectID()
	otherID    = primitive.NewObjectID()
	adminID    = primitive.NewObjectID()
)

func stubVerifier(token string) (*middleware.Actor, error) {
	switch token {
	case "customer-token":
		return &middleware.Actor{ID: customerID.Hex(), Role: middleware.RoleCustomer}, nil
	case "other-token":
		return &middleware.Actor{ID: otherID.Hex(), Role: middleware.RoleCustomer}, nil
	case "admin-token":
		return &middleware.Actor{ID: adminID.Hex(), Role: middleware.RoleAdmin}, nil
	default:
		return nil, apperrors.Unauthorized("invalid token")
	}
}

type fixture struct {
	orders *mockOrderRepo
	router http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	f := &fixture{orders: new(mockOrderRepo)}
	f.router = NewRouter(RouterDeps{
		Orders: service.NewOrderService(f.orders, logger),
		Health: health.NewHandler(),
		Verify: stubVerifier,
		Logger: logger,
	})
	return f
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

func createBody() map[string]any {
	return map[string]any{
		"currency": "INR",
		"items": []map[string]any{
			{"variant_id": "variant-1", "name": "Whole Milk 1L", "quantity": 2, "unit_price": 6500},
		},
	}
}

func storedOrder(userID primitive.ObjectID) *domain.Order {
	now := time.Now().UTC().Add(-time.Hour)
	return &domain.Order{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Items: []domain.OrderItem{
			{VariantID: "variant-1", Name: "Whole Milk 1L", Quantity: 2, UnitPrice: 6500},
		},
		Amount:    13000,
		Currency:  "INR",
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderRoutes_RequireAuth(t *testing.T) {
	f := newFixture(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/order/create"},
		{http.MethodGet, "/api/order/getAll"},
		{http.MethodGet, "/api/order/" + primitive.NewObjectID().Hex()},
		{http.MethodPatch, "/api/order/" + primitive.NewObjectID().Hex() + "/cancel"},
	} {
		rec := f.do(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestCreateOrder_Success(t *testing.T) {
	f := newFixture(t)

	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.UserID == customerID && o.Amount == 13000 && o.Status == domain.StatusPending
	})).Return(nil)

	rec := f.do(t, http.MethodPost, "/api/order/create", "customer-token", createBody())

	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	var order domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, int64(13000), order.Amount)
	assert.Equal(t, domain.StatusPending, order.Status)
}

func TestCreateOrder_ValidationError(t *testing.T) {
	f := newFixture(t)

	body := createBody()
	body["items"] = []map[string]any{}

	rec := f.do(t, http.MethodPost, "/api/order/create", "customer-token", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	f.orders.AssertNotCalled(t, "Create")
}

func TestListOrders_PageShape(t *testing.T) {
	f := newFixture(t)

	f.orders.On("ListByUser", mock.Anything, customerID, pagination.Params{Page: 2, Limit: 5, Skip: 5}).
		Return([]domain.Order{*storedOrder(customerID)}, int64(6), nil)

	rec := f.do(t, http.MethodGet, "/api/order/getAll?page=2&limit=5", "customer-token", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	var page struct {
		Items []domain.Order `json:"items"`
		Total int64          `json:"total"`
		Page  int            `json:"page"`
		Limit int            `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(6), page.Total)
	assert.Equal(t, 2, page.Page)
}

func TestListOrders_RejectsBadPagination(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/order/getAll?page=0", "customer-token", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.orders.AssertNotCalled(t, "ListByUser")
}

func TestGetOrder_ForbiddenForOtherCustomer(t *testing.T) {
	f := newFixture(t)

	stored := storedOrder(customerID)
	f.orders.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

	rec := f.do(t, http.MethodGet, "/api/order/"+stored.ID.Hex(), "other-token", nil)

	require.Equal(t, http.StatusForbidden, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN_NOT_OWNER", env.Error.Code)
}

func TestGetOrder_AdminReadsAny(t *testing.T) {
	f := newFixture(t)

	stored := storedOrder(customerID)
	f.orders.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

	rec := f.do(t, http.MethodGet, "/api/order/"+stored.ID.Hex(), "admin-token", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetOrder_MalformedID(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/order/not-an-id", "customer-token", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.orders.AssertNotCalled(t, "GetByID")
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newFixture(t)

	id := primitive.NewObjectID()
	f.orders.On("GetByID", mock.Anything, id).
		Return(nil, apperrors.NotFound("ORDER_NOT_FOUND", "order", id.Hex()))

	rec := f.do(t, http.MethodGet, "/api/order/"+id.Hex(), "customer-token", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ORDER_NOT_FOUND", env.Error.Code)
}

func TestCancelOrder_Pending(t *testing.T) {
	f := newFixture(t)

	stored := storedOrder(customerID)
	cancelled := *stored
	cancelled.Status = domain.StatusCancelled
	f.orders.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
	f.orders.On("UpdateStatus", mock.Anything, stored.ID, domain.StatusCancelled).Return(&cancelled, nil)

	rec := f.do(t, http.MethodPatch, "/api/order/"+stored.ID.Hex()+"/cancel", "customer-token", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	var order domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, domain.StatusCancelled, order.Status)
}

func TestCancelOrder_ConflictWhenConfirmed(t *testing.T) {
	f := newFixture(t)

	stored := storedOrder(customerID)
	stored.Status = domain.StatusConfirmed
	f.orders.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

	rec := f.do(t, http.MethodPatch, "/api/order/"+stored.ID.Hex()+"/cancel", "customer-token", nil)

	require.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ORDER_NOT_CANCELLABLE", env.Error.Code)
	f.orders.AssertNotCalled(t, "UpdateStatus")
}

func TestHealthLive(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health/live", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}
