package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	customerapp "github.com/Rokin-Inteligencia/roksell-sub000/internal/application/customer"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/customer"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/dto"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	middleware.SetupValidator()
}

// MockCustomerRepository is a mock implementation of customer.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*customer.Customer, error) {
	args := m.Called(ctx, tenantID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByDocument(ctx context.Context, tenantID uuid.UUID, document string) (*customer.Customer, error) {
	args := m.Called(ctx, tenantID, document)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter customer.CustomerFilter) ([]*customer.Customer, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*customer.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) ExistsByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (bool, error) {
	args := m.Called(ctx, tenantID, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// newCustomerRouter wires the customer routes behind a fake JWT context
func newCustomerRouter(h *CustomerHandler, tenantID, userID uuid.UUID) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		setJWTContext(c, tenantID, userID)
		c.Next()
	})
	group := router.Group("/customers")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.GetByID)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	group.POST("/:id/addresses", h.AddAddress)
	group.PUT("/:id/addresses/:index", h.UpdateAddress)
	group.DELETE("/:id/addresses/:index", h.RemoveAddress)
	return router
}

func newTestCustomer(t *testing.T, tenantID uuid.UUID) *customer.Customer {
	t.Helper()
	cust, err := customer.NewCustomer(tenantID, "Maria Souza", "11999887766")
	require.NoError(t, err)
	return cust
}

func TestCustomerHandlerCreate(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("creates customer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("ExistsByPhone", mock.Anything, tenantID, "11999887766").Return(false, nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*customer.Customer")).Return(nil)

		h := NewCustomerHandler(customerapp.NewCustomerService(repo))
		router := newCustomerRouter(h, tenantID, userID)

		body, _ := json.Marshal(map[string]string{
			"name":  "Maria Souza",
			"phone": "(11) 99988-7766",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/customers", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Maria Souza", data["name"])
		assert.Equal(t, "11999887766", data["phone"])

		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate phone", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("ExistsByPhone", mock.Anything, tenantID, "11999887766").Return(true, nil)

		h := NewCustomerHandler(customerapp.NewCustomerService(repo))
		router := newCustomerRouter(h, tenantID, userID)

		body, _ := json.Marshal(map[string]string{
			"name":  "Maria Souza",
			"phone": "11999887766",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/customers", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeAlreadyExists, resp.Error.Code)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		h := NewCustomerHandler(customerapp.NewCustomerService(repo))
		router := newCustomerRouter(h, tenantID, userID)

		body, _ := json.Marshal(map[string]string{"phone": "11999887766"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/customers", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		repo.AssertNotCalled(t, "ExistsByPhone", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("requires session", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		h := NewCustomerHandler(customerapp.NewCustomerService(repo))

		router := gin.New()
		router.POST("/customers", h.Create)

		body, _ := json.Marshal(map[string]string{
			"name":  "Maria Souza",
			"phone": "11999887766",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/customers", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCustomerHandlerGetByID(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("returns customer", func(t *testing.T) {
		cust := newTestCustomer(t, tenantID)

		repo := new(MockCustomerRepository)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, cust.ID).Return(cust, nil)

		h := NewCustomerHandler(customerapp.NewCustomerService(repo))
		router := newCustomerRouter(h, tenantID, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/customers/"+cust.ID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, cust.ID.String(), data["id"])
	})

	t.Run("invalid id", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		h := NewCustomerHandler(customerapp.NewCustomerService(repo))
		router := newCustomerRouter(h, tenantID, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/customers/not-a-uuid", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		customerID := uuid.New()

		repo := new(MockCustomerRepository)
		repo.On("FindByIDForTenant", mock.Anything, tenantID, customerID).Return(nil, shared.ErrNotFound)

		h := NewCustomerHandler(customerapp.NewCustomerService(repo))
		router := newCustomerRouter(h, tenantID, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/customers/"+customerID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "CUSTOMER_NOT_FOUND", resp.Error.Code)
	})
}

func TestCustomerHandlerList(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	first := newTestCustomer(t, tenantID)
	second, err := customer.NewCustomer(tenantID, "João Lima", "21988776655")
	require.NoError(t, err)

	repo := new(MockCustomerRepository)
	repo.On("FindAll", mock.Anything, tenantID, mock.AnythingOfType("customer.CustomerFilter")).
		Return([]*customer.Customer{first, second}, int64(2), nil)

	h := NewCustomerHandler(customerapp.NewCustomerService(repo))
	router := newCustomerRouter(h, tenantID, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/customers?search=ma&page=1&page_size=20", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)

	items, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestCustomerHandlerAddAddress(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()
	cust := newTestCustomer(t, tenantID)

	repo := new(MockCustomerRepository)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, cust.ID).Return(cust, nil)
	repo.On("Update", mock.Anything, cust).Return(nil)

	h := NewCustomerHandler(customerapp.NewCustomerService(repo))
	router := newCustomerRouter(h, tenantID, userID)

	body, _ := json.Marshal(map[string]string{
		"label":    "Casa",
		"cep":      "01310-100",
		"street":   "Avenida Paulista",
		"number":   "1578",
		"district": "Bela Vista",
		"city":     "São Paulo",
		"state":    "SP",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/customers/"+cust.ID.String()+"/addresses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	addresses, ok := data["addresses"].([]any)
	require.True(t, ok)
	assert.Len(t, addresses, 1)

	repo.AssertExpectations(t)
}

func TestCustomerHandlerRemoveAddressInvalidIndex(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()
	cust := newTestCustomer(t, tenantID)

	repo := new(MockCustomerRepository)
	h := NewCustomerHandler(customerapp.NewCustomerService(repo))
	router := newCustomerRouter(h, tenantID, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/customers/"+cust.ID.String()+"/addresses/abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestCustomerHandlerDelete(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()
	cust := newTestCustomer(t, tenantID)

	repo := new(MockCustomerRepository)
	repo.On("FindByIDForTenant", mock.Anything, tenantID, cust.ID).Return(cust, nil)
	repo.On("Delete", mock.Anything, cust.ID).Return(nil)

	h := NewCustomerHandler(customerapp.NewCustomerService(repo))
	router := newCustomerRouter(h, tenantID, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/customers/"+cust.ID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	repo.AssertExpectations(t)
}
