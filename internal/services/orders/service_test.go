package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"qrdine-system/internal/apperrors"
	"qrdine-system/internal/database/models"
	"qrdine-system/internal/tenant"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FindTableByID(ctx context.Context, tableID string) (*models.Table, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Table), args.Error(1)
}

func (m *mockStore) FindTableForRestaurant(ctx context.Context, restaurantID, tableID, tableNumber string) (*models.Table, error) {
	args := m.Called(ctx, restaurantID, tableID, tableNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Table), args.Error(1)
}

func (m *mockStore) FindMenuItem(ctx context.Context, restaurantID, menuItemID string) (*models.MenuItem, error) {
	args := m.Called(ctx, restaurantID, menuItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuItem), args.Error(1)
}

func (m *mockStore) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	if order.ID == "" {
		order.ID = "order-1"
	}
	return args.Error(0)
}

func (m *mockStore) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *mockStore) DeleteOrder(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *mockStore) GetOrderWithItems(ctx context.Context, orderID string) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockStore) UpdateOrderScoped(ctx context.Context, restaurantID, orderID, fromStatus string, updates map[string]interface{}) (int64, error) {
	args := m.Called(ctx, restaurantID, orderID, fromStatus, updates)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) GetOrderStatus(ctx context.Context, restaurantID, orderID string) (string, error) {
	args := m.Called(ctx, restaurantID, orderID)
	return args.String(0), args.Error(1)
}

func (m *mockStore) ListOrders(ctx context.Context, restaurantID, status string) ([]models.Order, error) {
	args := m.Called(ctx, restaurantID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockStore) ListOrdersBetween(ctx context.Context, restaurantID string, from, to time.Time) ([]models.Order, error) {
	args := m.Called(ctx, restaurantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func activeTable() *models.Table {
	return &models.Table{
		ID:           "table-1",
		RestaurantID: "rest-1",
		TableNumber:  "7",
		IsActive:     true,
	}
}

func TestCreateOrder_ComputesExactTotal(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()

	store.On("FindTableByID", ctx, "table-1").Return(activeTable(), nil)
	store.On("FindMenuItem", ctx, "rest-1", "item-burger").Return(&models.MenuItem{
		ID: "item-burger", RestaurantID: "rest-1", Name: "Burger", Price: "9.50",
	}, nil)
	store.On("FindMenuItem", ctx, "rest-1", "item-fries").Return(&models.MenuItem{
		ID: "item-fries", RestaurantID: "rest-1", Name: "Fries", Price: "3.25",
	}, nil)

	var captured *models.Order
	store.On("CreateOrder", ctx, mock.AnythingOfType("*models.Order")).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*models.Order)
	}).Return(nil)
	store.On("CreateOrderItems", ctx, mock.AnythingOfType("[]models.OrderItem")).Return(nil)
	store.On("GetOrderWithItems", ctx, "order-1").Return(&models.Order{ID: "order-1"}, nil)

	_, err := svc.Create(ctx, CreateOrderInput{
		TableID: "table-1",
		Items: []LineRequest{
			{MenuItemID: "item-burger", Quantity: 2},
			{MenuItemID: "item-fries", Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, captured)

	// 9.50*2 + 3.25 = 22.25, exact decimal arithmetic
	assert.Equal(t, "22.25", captured.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, captured.Status)
	assert.Equal(t, "7", captured.TableNumber)
	assert.Equal(t, "rest-1", captured.RestaurantID)
}

func TestCreateOrder_SnapshotsNameAndPrice(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()

	store.On("FindTableByID", ctx, "table-1").Return(activeTable(), nil)
	store.On("FindMenuItem", ctx, "rest-1", "item-1").Return(&models.MenuItem{
		ID: "item-1", RestaurantID: "rest-1", Name: "Pasta", Price: "12.00",
	}, nil)
	store.On("CreateOrder", ctx, mock.Anything).Return(nil)

	var capturedItems []models.OrderItem
	store.On("CreateOrderItems", ctx, mock.AnythingOfType("[]models.OrderItem")).Run(func(args mock.Arguments) {
		capturedItems = args.Get(1).([]models.OrderItem)
	}).Return(nil)
	store.On("GetOrderWithItems", ctx, "order-1").Return(&models.Order{ID: "order-1"}, nil)

	_, err := svc.Create(ctx, CreateOrderInput{
		TableID: "table-1",
		Items:   []LineRequest{{MenuItemID: "item-1", Quantity: 3}},
	})
	require.NoError(t, err)
	require.Len(t, capturedItems, 1)

	assert.Equal(t, "Pasta", capturedItems[0].ItemName)
	assert.Equal(t, "12.00", capturedItems[0].UnitPrice)
	assert.Equal(t, "36.00", capturedItems[0].TotalPrice)
	assert.Equal(t, "order-1", capturedItems[0].OrderID)
}

func TestCreateOrder_RollsBackOnItemFailure(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()

	store.On("FindTableByID", ctx, "table-1").Return(activeTable(), nil)
	store.On("FindMenuItem", ctx, "rest-1", "item-1").Return(&models.MenuItem{
		ID: "item-1", RestaurantID: "rest-1", Name: "Soup", Price: "5.00",
	}, nil)
	store.On("CreateOrder", ctx, mock.Anything).Return(nil)
	store.On("CreateOrderItems", ctx, mock.Anything).Return(errors.New("insert failed"))
	store.On("DeleteOrder", ctx, "order-1").Return(nil)

	_, err := svc.Create(ctx, CreateOrderInput{
		TableID: "table-1",
		Items:   []LineRequest{{MenuItemID: "item-1", Quantity: 1}},
	})
	require.Error(t, err)

	store.AssertCalled(t, "DeleteOrder", ctx, "order-1")
	store.AssertNotCalled(t, "GetOrderWithItems", ctx, "order-1")
}

func TestCreateOrder_InactiveTableForbidden(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()

	table := activeTable()
	table.IsActive = false
	store.On("FindTableByID", ctx, "table-1").Return(table, nil)

	_, err := svc.Create(ctx, CreateOrderInput{
		TableID: "table-1",
		Items:   []LineRequest{{MenuItemID: "item-1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCreateOrder_RestaurantMismatchConflict(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()

	store.On("FindTableByID", ctx, "table-1").Return(activeTable(), nil)

	_, err := svc.Create(ctx, CreateOrderInput{
		RestaurantID: "rest-other",
		TableID:      "table-1",
		Items:        []LineRequest{{MenuItemID: "item-1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreateOrder_CrossTenantItemInvisible(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()

	store.On("FindTableByID", ctx, "table-1").Return(activeTable(), nil)
	// The item belongs to another restaurant, so the scoped lookup misses.
	store.On("FindMenuItem", ctx, "rest-1", "foreign-item").Return(nil, apperrors.ErrNotFound)

	_, err := svc.Create(ctx, CreateOrderInput{
		TableID: "table-1",
		Items:   []LineRequest{{MenuItemID: "foreign-item", Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	store.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCreateOrder_RejectsEmptyAndInvalidLines(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateOrderInput{TableID: "table-1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	store.On("FindTableByID", ctx, "table-1").Return(activeTable(), nil)
	_, err = svc.Create(ctx, CreateOrderInput{
		TableID: "table-1",
		Items:   []LineRequest{{MenuItemID: "item-1", Quantity: 0}},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateManual_SynthesizesNotes(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()
	tc := tenant.Context{RestaurantID: "rest-1"}

	store.On("FindTableForRestaurant", ctx, "rest-1", "", "7").Return(activeTable(), nil)

	var captured *models.Order
	store.On("CreateOrder", ctx, mock.AnythingOfType("*models.Order")).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*models.Order)
	}).Return(nil)
	store.On("CreateOrderItems", ctx, mock.Anything).Return(nil)
	store.On("GetOrderWithItems", ctx, "order-1").Return(&models.Order{ID: "order-1"}, nil)

	amount := 45.0
	_, err := svc.CreateManual(ctx, tc, ManualOrderInput{
		TableNumber:   "7",
		Summary:       "2x Lunch special",
		PaymentMethod: "cash",
		TotalAmount:   &amount,
	})
	require.NoError(t, err)
	require.NotNil(t, captured)
	require.NotNil(t, captured.Notes)

	assert.Equal(t, "Manual order • 2x Lunch special • Payment: cash", *captured.Notes)
	assert.Equal(t, "45.00", captured.TotalAmount)
}

func TestCreateManual_NoItemsRequiresPositiveTotal(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()
	tc := tenant.Context{RestaurantID: "rest-1"}

	store.On("FindTableForRestaurant", ctx, "rest-1", "table-1", "").Return(activeTable(), nil)

	_, err := svc.CreateManual(ctx, tc, ManualOrderInput{TableID: "table-1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	zero := 0.0
	_, err = svc.CreateManual(ctx, tc, ManualOrderInput{TableID: "table-1", TotalAmount: &zero})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateManual_InactiveTableInvalid(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()
	tc := tenant.Context{RestaurantID: "rest-1"}

	table := activeTable()
	table.IsActive = false
	store.On("FindTableForRestaurant", ctx, "rest-1", "table-1", "").Return(table, nil)

	amount := 10.0
	_, err := svc.CreateManual(ctx, tc, ManualOrderInput{TableID: "table-1", TotalAmount: &amount})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestBuildManualNotes(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		payment string
		want    string
	}{
		{"both", "3x Pizza", "card", "Manual order • 3x Pizza • Payment: card"},
		{"summary only", "3x Pizza", "", "Manual order • 3x Pizza"},
		{"payment only", "", "cash", "Manual order • Payment: cash"},
		{"neither", "", "", "Manual order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildManualNotes(tt.summary, tt.payment))
		})
	}
}
