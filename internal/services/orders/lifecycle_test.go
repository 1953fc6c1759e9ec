package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"qrdine-system/internal/apperrors"
	"qrdine-system/internal/database/models"
	"qrdine-system/internal/tenant"
)

func TestAcceptOrder(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()
	tc := tenant.Context{RestaurantID: "rest-1"}

	store.On("UpdateOrderScoped", ctx, "rest-1", "order-1", "", mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["status"] == models.OrderStatusAccepted && updates["preparation_time"] == 20
	})).Return(int64(1), nil)
	store.On("GetOrderWithItems", ctx, "order-1").Return(&models.Order{ID: "order-1", Status: models.OrderStatusAccepted}, nil)

	prep := 20
	order, err := svc.Accept(ctx, tc, "order-1", &prep)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAccepted, order.Status)
}

func TestAcceptOrder_PrepTimeOptional(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()
	tc := tenant.Context{RestaurantID: "rest-1"}

	store.On("UpdateOrderScoped", ctx, "rest-1", "order-1", "", mock.MatchedBy(func(updates map[string]interface{}) bool {
		_, hasPrep := updates["preparation_time"]
		return updates["status"] == models.OrderStatusAccepted && !hasPrep
	})).Return(int64(1), nil)
	store.On("GetOrderWithItems", ctx, "order-1").Return(&models.Order{ID: "order-1", Status: models.OrderStatusAccepted}, nil)

	order, err := svc.Accept(ctx, tc, "order-1", nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAccepted, order.Status)
	assert.Nil(t, order.PreparationTime)
}

func TestAcceptOrder_RejectsNegativePrepTime(t *testing.T) {
	svc := NewService(new(mockStore))

	negative := -5
	_, err := svc.Accept(context.Background(), tenant.Context{RestaurantID: "rest-1"}, "order-1", &negative)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAcceptOrder_OtherTenantInvisible(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()
	tc := tenant.Context{RestaurantID: "rest-2"}

	// The order exists but belongs to rest-1, so the scoped update touches
	// nothing.
	store.On("UpdateOrderScoped", ctx, "rest-2", "order-1", "", mock.Anything).Return(int64(0), nil)

	prep := 15
	_, err := svc.Accept(ctx, tc, "order-1", &prep)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRejectOrder_DefaultReason(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()
	tc := tenant.Context{RestaurantID: "rest-1"}

	store.On("UpdateOrderScoped", ctx, "rest-1", "order-1", models.OrderStatusPending, mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["rejection_reason"] == "No reason provided"
	})).Return(int64(1), nil)
	store.On("GetOrderWithItems", ctx, "order-1").Return(&models.Order{ID: "order-1", Status: models.OrderStatusRejected}, nil)

	order, err := svc.Reject(ctx, tc, "order-1", "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusRejected, order.Status)
}

func TestRejectOrder_NotPending(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()
	tc := tenant.Context{RestaurantID: "rest-1"}

	store.On("UpdateOrderScoped", ctx, "rest-1", "order-1", models.OrderStatusPending, mock.Anything).Return(int64(0), nil)
	store.On("GetOrderStatus", ctx, "rest-1", "order-1").Return(models.OrderStatusCooking, nil)

	_, err := svc.Reject(ctx, tc, "order-1", "out of stock")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, err.Error(), models.OrderStatusCooking)
}

func TestRejectOrder_UnknownOrder(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()
	tc := tenant.Context{RestaurantID: "rest-1"}

	store.On("UpdateOrderScoped", ctx, "rest-1", "missing", models.OrderStatusPending, mock.Anything).Return(int64(0), nil)
	store.On("GetOrderStatus", ctx, "rest-1", "missing").Return("", apperrors.ErrNotFound)

	_, err := svc.Reject(ctx, tc, "missing", "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFinishOrder(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()
	tc := tenant.Context{RestaurantID: "rest-1"}

	store.On("UpdateOrderScoped", ctx, "rest-1", "order-1", "", mock.MatchedBy(func(updates map[string]interface{}) bool {
		_, hasTimestamp := updates["finished_at"]
		return updates["status"] == models.OrderStatusFinished && hasTimestamp
	})).Return(int64(1), nil)
	store.On("GetOrderWithItems", ctx, "order-1").Return(&models.Order{ID: "order-1", Status: models.OrderStatusFinished}, nil)

	order, err := svc.Finish(ctx, tc, "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusFinished, order.Status)
}

func TestFinishOrder_SecondCallKeepsFinished(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()
	tc := tenant.Context{RestaurantID: "rest-1"}

	// The blind scoped update matches regardless of current status, so a
	// repeat finish re-confirms without regressing state.
	store.On("UpdateOrderScoped", ctx, "rest-1", "order-1", "", mock.Anything).Return(int64(1), nil).Twice()
	store.On("GetOrderWithItems", ctx, "order-1").Return(&models.Order{ID: "order-1", Status: models.OrderStatusFinished}, nil)

	first, err := svc.Finish(ctx, tc, "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusFinished, first.Status)

	second, err := svc.Finish(ctx, tc, "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusFinished, second.Status)
}

func TestGetOrder_ScopedToTenant(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()

	store.On("GetOrderWithItems", ctx, "order-1").Return(&models.Order{ID: "order-1", RestaurantID: "rest-1"}, nil)

	_, err := svc.Get(ctx, tenant.Context{RestaurantID: "rest-2"}, "order-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	order, err := svc.Get(ctx, tenant.Context{RestaurantID: "rest-1"}, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
}

func TestListOrders_ValidatesStatus(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()
	tc := tenant.Context{RestaurantID: "rest-1"}

	_, err := svc.List(ctx, tc, "burnt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	store.On("ListOrders", ctx, "rest-1", models.OrderStatusPending).Return([]models.Order{}, nil)
	_, err = svc.List(ctx, tc, models.OrderStatusPending)
	assert.NoError(t, err)
}

func TestStats_CountsAndRevenue(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store)
	ctx := context.Background()
	tc := tenant.Context{RestaurantID: "rest-1"}

	day := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	store.On("ListOrdersBetween", ctx, "rest-1", mock.Anything, mock.Anything).Return([]models.Order{
		{Status: models.OrderStatusFinished, TotalAmount: "22.25"},
		{Status: models.OrderStatusFinished, TotalAmount: "10.00"},
		{Status: models.OrderStatusPending, TotalAmount: "99.99"},
		{Status: models.OrderStatusRejected, TotalAmount: "15.00"},
		{Status: models.OrderStatusCooking, TotalAmount: "8.00"},
	}, nil)

	stats, err := svc.Stats(ctx, tc, day)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-14", stats.Date)
	assert.Equal(t, 5, stats.TotalOrders)
	assert.Equal(t, 2, stats.Finished)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 1, stats.Cooking)
	assert.Equal(t, 0, stats.Accepted)
	// Only finished orders bill: 22.25 + 10.00
	assert.Equal(t, "32.25", stats.TotalRevenue.StringFixed(2))
}
