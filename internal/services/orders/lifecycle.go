package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"qrdine-system/internal/apperrors"
	"qrdine-system/internal/database/models"
	"qrdine-system/internal/tenant"
)

var validStatuses = map[string]bool{
	models.OrderStatusPending:  true,
	models.OrderStatusAccepted: true,
	models.OrderStatusCooking:  true,
	models.OrderStatusFinished: true,
	models.OrderStatusRejected: true,
}

// Accept moves an order to accepted. The preparation time estimate is
// optional; omitting it stores no estimate.
func (s *Service) Accept(ctx context.Context, tc tenant.Context, orderID string, prepMinutes *int) (*models.Order, error) {
	if prepMinutes != nil && *prepMinutes < 0 {
		return nil, fmt.Errorf("%w: preparation time cannot be negative", apperrors.ErrInvalidInput)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      models.OrderStatusAccepted,
		"accepted_at": now,
		"updated_at":  now,
	}
	if prepMinutes != nil && *prepMinutes > 0 {
		updates["preparation_time"] = *prepMinutes
	}
	return s.applyTransition(ctx, tc, orderID, "", updates)
}

// Reject closes an order that has not been accepted yet. Rejecting from any
// later state is a conflict, not a silent overwrite.
func (s *Service) Reject(ctx context.Context, tc tenant.Context, orderID, reason string) (*models.Order, error) {
	if reason == "" {
		reason = "No reason provided"
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":           models.OrderStatusRejected,
		"rejection_reason": reason,
		"rejected_at":      now,
		"updated_at":       now,
	}

	rows, err := s.store.UpdateOrderScoped(ctx, tc.RestaurantID, orderID, models.OrderStatusPending, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Zero rows means either the order is invisible to this tenant or it
		// already left pending; a status lookup tells the two apart.
		current, statusErr := s.store.GetOrderStatus(ctx, tc.RestaurantID, orderID)
		if statusErr != nil {
			if errors.Is(statusErr, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: order not found", apperrors.ErrNotFound)
			}
			return nil, statusErr
		}
		return nil, fmt.Errorf("%w: order is %s and can no longer be rejected", apperrors.ErrConflict, current)
	}

	return s.store.GetOrderWithItems(ctx, orderID)
}

// StartCooking marks an accepted order as in preparation.
func (s *Service) StartCooking(ctx context.Context, tc tenant.Context, orderID string) (*models.Order, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":             models.OrderStatusCooking,
		"cooking_started_at": now,
		"updated_at":         now,
	}
	return s.applyTransition(ctx, tc, orderID, "", updates)
}

// Finish marks an order as completed and ready for billing.
func (s *Service) Finish(ctx context.Context, tc tenant.Context, orderID string) (*models.Order, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":      models.OrderStatusFinished,
		"finished_at": now,
		"updated_at":  now,
	}
	return s.applyTransition(ctx, tc, orderID, "", updates)
}

func (s *Service) applyTransition(ctx context.Context, tc tenant.Context, orderID, fromStatus string, updates map[string]interface{}) (*models.Order, error) {
	rows, err := s.store.UpdateOrderScoped(ctx, tc.RestaurantID, orderID, fromStatus, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: order not found", apperrors.ErrNotFound)
	}
	return s.store.GetOrderWithItems(ctx, orderID)
}

// Get returns a single order with its lines, scoped to the tenant.
func (s *Service) Get(ctx context.Context, tc tenant.Context, orderID string) (*models.Order, error) {
	order, err := s.store.GetOrderWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.RestaurantID != tc.RestaurantID {
		return nil, fmt.Errorf("%w: order not found", apperrors.ErrNotFound)
	}
	return order, nil
}

// Status returns the current lifecycle state of an order without tenant
// scoping; customers poll this with the order ID they were handed.
func (s *Service) Status(ctx context.Context, orderID string) (*models.Order, error) {
	return s.store.GetOrderWithItems(ctx, orderID)
}

// List returns the tenant's orders, newest first, optionally filtered by
// status.
func (s *Service) List(ctx context.Context, tc tenant.Context, status string) ([]models.Order, error) {
	if status != "" && !validStatuses[status] {
		return nil, fmt.Errorf("%w: unknown order status %q", apperrors.ErrInvalidInput, status)
	}
	return s.store.ListOrders(ctx, tc.RestaurantID, status)
}

// DayStats summarises one calendar day of orders.
type DayStats struct {
	Date         string          `json:"date"`
	TotalOrders  int             `json:"total_orders"`
	Pending      int             `json:"pending"`
	Accepted     int             `json:"accepted"`
	Cooking      int             `json:"cooking"`
	Finished     int             `json:"finished"`
	Rejected     int             `json:"rejected"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// Stats computes per-status counts and finished-order revenue for the given
// day. Revenue only counts finished orders; rejected and in-flight ones do
// not bill.
func (s *Service) Stats(ctx context.Context, tc tenant.Context, day time.Time) (*DayStats, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.Add(24*time.Hour - time.Nanosecond)

	orders, err := s.store.ListOrdersBetween(ctx, tc.RestaurantID, from, to)
	if err != nil {
		return nil, err
	}

	stats := &DayStats{
		Date:         from.Format("2006-01-02"),
		TotalOrders:  len(orders),
		TotalRevenue: decimal.Zero,
	}
	for _, o := range orders {
		switch o.Status {
		case models.OrderStatusPending:
			stats.Pending++
		case models.OrderStatusAccepted:
			stats.Accepted++
		case models.OrderStatusCooking:
			stats.Cooking++
		case models.OrderStatusFinished:
			stats.Finished++
			amount, parseErr := decimal.NewFromString(o.TotalAmount)
			if parseErr != nil {
				return nil, fmt.Errorf("invalid stored total for order %s: %w", o.ID, parseErr)
			}
			stats.TotalRevenue = stats.TotalRevenue.Add(amount)
		case models.OrderStatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}
