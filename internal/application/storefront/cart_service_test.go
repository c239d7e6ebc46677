package storefront

import (
	"context"
	"testing"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/catalog"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/shared/valueobject"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/store"
	"github.com/Rokin-Inteligencia/roksell-sub000/internal/domain/storefront"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartStore is a mock implementation of storefront.CartStore
type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Get(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string) (*storefront.Cart, error) {
	args := m.Called(ctx, tenantID, storeID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.Cart), args.Error(1)
}

func (m *MockCartStore) Save(ctx context.Context, cart *storefront.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockCartStore) Delete(ctx context.Context, tenantID, storeID uuid.UUID, sessionID string) error {
	args := m.Called(ctx, tenantID, storeID, sessionID)
	return args.Error(0)
}

var _ storefront.CartStore = (*MockCartStore)(nil)

type cartMocks struct {
	cartStore   *MockCartStore
	storeRepo   *MockStoreRepository
	productRepo *MockProductRepository
	groupRepo   *MockAdditionalGroupRepository
}

func newCartMocks() *cartMocks {
	return &cartMocks{
		cartStore:   new(MockCartStore),
		storeRepo:   new(MockStoreRepository),
		productRepo: new(MockProductRepository),
		groupRepo:   new(MockAdditionalGroupRepository),
	}
}

func (m *cartMocks) service() *CartService {
	return NewCartService(m.cartStore, m.storeRepo, m.productRepo, m.groupRepo)
}

func newTestCart(t *testing.T, st *store.Store) *storefront.Cart {
	cart, err := storefront.NewCart(uuid.NewString(), st.TenantID, st.ID)
	require.NoError(t, err)
	return cart
}

// newBordaGroup builds a required single-pick crust group with one
// active item
func newBordaGroup(t *testing.T, st *store.Store) (*catalog.AdditionalGroup, *catalog.AdditionalItem) {
	borda, err := catalog.NewAdditionalGroup(st.TenantID, st.ID, "Escolha a borda", 1, 1)
	require.NoError(t, err)
	catupiry, err := borda.AddItem("Borda de Catupiry", valueobject.NewMoneyBRLFromFloat(6.00))
	require.NoError(t, err)
	return borda, catupiry
}

func TestCartService_GetCart_MintsSession(t *testing.T) {
	m := newCartMocks()
	service := m.service()

	st := newStorefrontTestStore(t)
	m.storeRepo.On("FindByIDForTenant", mock.Anything, st.TenantID, st.ID).Return(st, nil)
	m.cartStore.On("Save", mock.Anything, mock.Anything).Return(nil)

	response, err := service.GetCart(context.Background(), st.TenantID, st.ID, "")

	require.NoError(t, err)
	assert.NotEmpty(t, response.SessionID)
	assert.Empty(t, response.Items)
	assert.True(t, response.Subtotal.IsZero())
	m.cartStore.AssertExpectations(t)
}

func TestCartService_GetCart_ReturnsPricedCart(t *testing.T) {
	m := newCartMocks()
	service := m.service()

	st := newStorefrontTestStore(t)
	margherita := newStorefrontTestProduct(t, st, "Pizza Margherita", 45.90)
	cart := newTestCart(t, st)
	_, err := cart.AddItem(margherita.ID, 2, nil, "")
	require.NoError(t, err)

	m.storeRepo.On("FindByIDForTenant", mock.Anything, st.TenantID, st.ID).Return(st, nil)
	m.cartStore.On("Get", mock.Anything, st.TenantID, st.ID, cart.SessionID).Return(cart, nil)
	m.productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{margherita.ID}).
		Return([]*catalog.Product{margherita}, nil)

	response, err := service.GetCart(context.Background(), st.TenantID, st.ID, cart.SessionID)

	require.NoError(t, err)
	assert.Equal(t, cart.SessionID, response.SessionID)
	require.Len(t, response.Items, 1)
	assert.Equal(t, "Pizza Margherita", response.Items[0].ProductName)
	assert.True(t, response.Items[0].LineTotal.Equal(decimal.NewFromFloat(91.80)))
	assert.True(t, response.Subtotal.Equal(decimal.NewFromFloat(91.80)))
	assert.Equal(t, 2, response.TotalQuantity)
	m.cartStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartService_AddItem_Success(t *testing.T) {
	m := newCartMocks()
	service := m.service()

	st := newStorefrontTestStore(t)
	margherita := newStorefrontTestProduct(t, st, "Pizza Margherita", 45.90)

	m.storeRepo.On("FindByIDForTenant", mock.Anything, st.TenantID, st.ID).Return(st, nil)
	m.productRepo.On("FindByIDForStore", mock.Anything, st.ID, margherita.ID).Return(margherita, nil)
	m.productRepo.On("LoadAdditionalGroups", mock.Anything, margherita).Return(nil)
	m.cartStore.On("Save", mock.Anything, mock.Anything).Return(nil)
	m.productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{margherita.ID}).
		Return([]*catalog.Product{margherita}, nil)

	response, err := service.AddItem(context.Background(), st.TenantID, st.ID, "",
		AddCartItemRequest{ProductID: margherita.ID, Quantity: 1})

	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	assert.True(t, response.Items[0].Available)
	assert.True(t, response.Subtotal.Equal(decimal.NewFromFloat(45.90)))
	m.cartStore.AssertExpectations(t)
}

func TestCartService_AddItem_ProductNotFound(t *testing.T) {
	m := newCartMocks()
	service := m.service()

	st := newStorefrontTestStore(t)
	productID := uuid.New()
	m.storeRepo.On("FindByIDForTenant", mock.Anything, st.TenantID, st.ID).Return(st, nil)
	m.productRepo.On("FindByIDForStore", mock.Anything, st.ID, productID).Return(nil, shared.ErrNotFound)

	_, err := service.AddItem(context.Background(), st.TenantID, st.ID, "",
		AddCartItemRequest{ProductID: productID, Quantity: 1})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PRODUCT_NOT_FOUND", domainErr.Code)
	m.cartStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartService_AddItem_SoldOutProduct(t *testing.T) {
	m := newCartMocks()
	service := m.service()

	st := newStorefrontTestStore(t)
	margherita := newStorefrontTestProduct(t, st, "Pizza Margherita", 45.90)
	require.NoError(t, margherita.EnableStockTracking(0))

	m.storeRepo.On("FindByIDForTenant", mock.Anything, st.TenantID, st.ID).Return(st, nil)
	m.productRepo.On("FindByIDForStore", mock.Anything, st.ID, margherita.ID).Return(margherita, nil)

	_, err := service.AddItem(context.Background(), st.TenantID, st.ID, "",
		AddCartItemRequest{ProductID: margherita.ID, Quantity: 1})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PRODUCT_UNAVAILABLE", domainErr.Code)
	m.cartStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartService_AddItem_RequiredGroupMissing(t *testing.T) {
	m := newCartMocks()
	service := m.service()

	st := newStorefrontTestStore(t)
	borda, _ := newBordaGroup(t, st)
	margherita := newStorefrontTestProduct(t, st, "Pizza Margherita", 45.90)
	margherita.AdditionalGroupIDs = []uuid.UUID{borda.ID}

	m.storeRepo.On("FindByIDForTenant", mock.Anything, st.TenantID, st.ID).Return(st, nil)
	m.productRepo.On("FindByIDForStore", mock.Anything, st.ID, margherita.ID).Return(margherita, nil)
	m.productRepo.On("LoadAdditionalGroups", mock.Anything, margherita).Return(nil)
	m.groupRepo.On("FindByIDs", mock.Anything, []uuid.UUID{borda.ID}).
		Return([]*catalog.AdditionalGroup{borda}, nil)

	_, err := service.AddItem(context.Background(), st.TenantID, st.ID, "",
		AddCartItemRequest{ProductID: margherita.ID, Quantity: 1})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SELECTION_BELOW_MIN", domainErr.Code)
	m.cartStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartService_AddItem_ForeignGroupRejected(t *testing.T) {
	m := newCartMocks()
	service := m.service()

	st := newStorefrontTestStore(t)
	margherita := newStorefrontTestProduct(t, st, "Pizza Margherita", 45.90)

	m.storeRepo.On("FindByIDForTenant", mock.Anything, st.TenantID, st.ID).Return(st, nil)
	m.productRepo.On("FindByIDForStore", mock.Anything, st.ID, margherita.ID).Return(margherita, nil)
	m.productRepo.On("LoadAdditionalGroups", mock.Anything, margherita).Return(nil)

	_, err := service.AddItem(context.Background(), st.TenantID, st.ID, "",
		AddCartItemRequest{
			ProductID:  margherita.ID,
			Quantity:   1,
			Selections: []CartSelectionRequest{{GroupID: uuid.New(), ItemIDs: []uuid.UUID{uuid.New()}}},
		})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SELECTION_INVALID", domainErr.Code)
	m.groupRepo.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestCartService_AddItem_WithAdditionals(t *testing.T) {
	m := newCartMocks()
	service := m.service()

	st := newStorefrontTestStore(t)
	borda, catupiry := newBordaGroup(t, st)
	margherita := newStorefrontTestProduct(t, st, "Pizza Margherita", 45.90)
	margherita.AdditionalGroupIDs = []uuid.UUID{borda.ID}

	m.storeRepo.On("FindByIDForTenant", mock.Anything, st.TenantID, st.ID).Return(st, nil)
	m.productRepo.On("FindByIDForStore", mock.Anything, st.ID, margherita.ID).Return(margherita, nil)
	m.productRepo.On("LoadAdditionalGroups", mock.Anything, margherita).Return(nil)
	m.groupRepo.On("FindByIDs", mock.Anything, []uuid.UUID{borda.ID}).
		Return([]*catalog.AdditionalGroup{borda}, nil)
	m.cartStore.On("Save", mock.Anything, mock.Anything).Return(nil)
	m.productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{margherita.ID}).
		Return([]*catalog.Product{margherita}, nil)

	response, err := service.AddItem(context.Background(), st.TenantID, st.ID, "",
		AddCartItemRequest{
			ProductID:  margherita.ID,
			Quantity:   1,
			Selections: []CartSelectionRequest{{GroupID: borda.ID, ItemIDs: []uuid.UUID{catupiry.ID}}},
		})

	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	line := response.Items[0]
	assert.True(t, line.AddonsPrice.Equal(decimal.NewFromFloat(6.00)))
	assert.True(t, line.LineTotal.Equal(decimal.NewFromFloat(51.90)))
	require.Len(t, line.Selections, 1)
	require.Len(t, line.Selections[0].Items, 1)
	assert.Equal(t, "Borda de Catupiry", line.Selections[0].Items[0].Name)
	assert.True(t, response.Subtotal.Equal(decimal.NewFromFloat(51.90)))
}

func TestCartService_UpdateItem_ChangesQuantity(t *testing.T) {
	m := newCartMocks()
	service := m.service()

	st := newStorefrontTestStore(t)
	margherita := newStorefrontTestProduct(t, st, "Pizza Margherita", 45.90)
	cart := newTestCart(t, st)
	item, err := cart.AddItem(margherita.ID, 1, nil, "")
	require.NoError(t, err)

	m.storeRepo.On("FindByIDForTenant", mock.Anything, st.TenantID, st.ID).Return(st, nil)
	m.cartStore.On("Get", mock.Anything, st.TenantID, st.ID, cart.SessionID).Return(cart, nil)
	m.cartStore.On("Save", mock.Anything, cart).Return(nil)
	m.productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{margherita.ID}).
		Return([]*catalog.Product{margherita}, nil)

	response, err := service.UpdateItem(context.Background(), st.TenantID, st.ID, cart.SessionID,
		item.ID, UpdateCartItemRequest{Quantity: 3})

	require.NoError(t, err)
	assert.Equal(t, 3, response.TotalQuantity)
	assert.True(t, response.Subtotal.Equal(decimal.NewFromFloat(137.70)))
	m.cartStore.AssertExpectations(t)
}

func TestCartService_UpdateItem_MissingCart(t *testing.T) {
	m := newCartMocks()
	service := m.service()

	st := newStorefrontTestStore(t)
	m.storeRepo.On("FindByIDForTenant", mock.Anything, st.TenantID, st.ID).Return(st, nil)
	m.cartStore.On("Get", mock.Anything, st.TenantID, st.ID, "gone-session").Return(nil, nil)

	_, err := service.UpdateItem(context.Background(), st.TenantID, st.ID, "gone-session",
		uuid.New(), UpdateCartItemRequest{Quantity: 2})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CART_NOT_FOUND", domainErr.Code)
}

func TestCartService_RemoveItem_Success(t *testing.T) {
	m := newCartMocks()
	service := m.service()

	st := newStorefrontTestStore(t)
	margherita := newStorefrontTestProduct(t, st, "Pizza Margherita", 45.90)
	guarana := newStorefrontTestProduct(t, st, "Guaraná Antarctica 2L", 12.00)
	cart := newTestCart(t, st)
	item, err := cart.AddItem(margherita.ID, 1, nil, "")
	require.NoError(t, err)
	_, err = cart.AddItem(guarana.ID, 1, nil, "")
	require.NoError(t, err)

	m.storeRepo.On("FindByIDForTenant", mock.Anything, st.TenantID, st.ID).Return(st, nil)
	m.cartStore.On("Get", mock.Anything, st.TenantID, st.ID, cart.SessionID).Return(cart, nil)
	m.cartStore.On("Save", mock.Anything, cart).Return(nil)
	m.productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{guarana.ID}).
		Return([]*catalog.Product{guarana}, nil)

	response, err := service.RemoveItem(context.Background(), st.TenantID, st.ID, cart.SessionID, item.ID)

	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	assert.Equal(t, "Guaraná Antarctica 2L", response.Items[0].ProductName)
	assert.True(t, response.Subtotal.Equal(decimal.NewFromFloat(12.00)))
}

func TestCartService_Clear_DropsCart(t *testing.T) {
	m := newCartMocks()
	service := m.service()

	st := newStorefrontTestStore(t)
	m.storeRepo.On("FindByIDForTenant", mock.Anything, st.TenantID, st.ID).Return(st, nil)
	m.cartStore.On("Delete", mock.Anything, st.TenantID, st.ID, "sess-1").Return(nil)

	response, err := service.Clear(context.Background(), st.TenantID, st.ID, "sess-1")

	require.NoError(t, err)
	assert.Equal(t, "sess-1", response.SessionID)
	assert.Empty(t, response.Items)
	assert.True(t, response.Subtotal.IsZero())
	m.cartStore.AssertExpectations(t)
	m.cartStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
