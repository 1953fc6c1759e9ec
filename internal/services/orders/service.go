package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"qrdine-system/internal/apperrors"
	"qrdine-system/internal/database/models"
	"qrdine-system/internal/tenant"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type LineRequest struct {
	MenuItemID          string
	Quantity            int
	SpecialInstructions *string
}

type CreateOrderInput struct {
	// RestaurantID is optional; when the customer supplies one it must match
	// the restaurant owning the table.
	RestaurantID  string
	TableID       string
	CustomerName  *string
	CustomerPhone *string
	Notes         *string
	Items         []LineRequest
}

type ManualOrderInput struct {
	TableID       string
	TableNumber   string
	CustomerName  *string
	Summary       string
	PaymentMethod string
	TotalAmount   *float64
	Items         []LineRequest
}

// Create composes a customer order: validates the table, captures item name
// and price by value, accumulates the total, and persists order plus lines as
// one logical unit. The store has no multi-statement transactions, so a line
// failure triggers a compensating delete of the order record.
func (s *Service) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if in.TableID == "" || len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: table ID and at least one item are required", apperrors.ErrInvalidInput)
	}

	table, err := s.store.FindTableByID(ctx, in.TableID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: table not found", apperrors.ErrNotFound)
		}
		return nil, err
	}
	if !table.IsActive {
		return nil, fmt.Errorf("%w: table is inactive", apperrors.ErrForbidden)
	}
	if in.RestaurantID != "" && in.RestaurantID != table.RestaurantID {
		return nil, fmt.Errorf("%w: restaurant mismatch for provided table", apperrors.ErrConflict)
	}

	lines, total, err := s.buildLines(ctx, table.RestaurantID, in.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		RestaurantID:  table.RestaurantID,
		TableID:       table.ID,
		TableNumber:   table.TableNumber,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		TotalAmount:   total.StringFixed(2),
		Status:        models.OrderStatusPending,
		Notes:         in.Notes,
	}

	return s.persist(ctx, order, lines)
}

// CreateManual composes a staff walk-in/phone order. Linked menu lines are
// optional; without them an explicit positive total is required.
func (s *Service) CreateManual(ctx context.Context, tc tenant.Context, in ManualOrderInput) (*models.Order, error) {
	if in.TableID == "" && in.TableNumber == "" {
		return nil, fmt.Errorf("%w: table selection is required", apperrors.ErrInvalidInput)
	}

	table, err := s.store.FindTableForRestaurant(ctx, tc.RestaurantID, in.TableID, in.TableNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: table not found", apperrors.ErrNotFound)
		}
		return nil, err
	}
	if !table.IsActive {
		return nil, fmt.Errorf("%w: table is inactive", apperrors.ErrInvalidInput)
	}

	lines, computedTotal, err := s.buildLines(ctx, tc.RestaurantID, in.Items)
	if err != nil {
		return nil, err
	}

	total := computedTotal
	if len(lines) == 0 {
		if in.TotalAmount == nil || *in.TotalAmount <= 0 {
			return nil, fmt.Errorf("%w: total amount must be greater than zero", apperrors.ErrInvalidInput)
		}
		total = decimal.NewFromFloat(*in.TotalAmount).Round(2)
	}

	notes := buildManualNotes(in.Summary, in.PaymentMethod)
	order := &models.Order{
		RestaurantID: tc.RestaurantID,
		TableID:      table.ID,
		TableNumber:  table.TableNumber,
		CustomerName: trimmedOrNil(in.CustomerName),
		TotalAmount:  total.StringFixed(2),
		Status:       models.OrderStatusPending,
		Notes:        &notes,
	}

	return s.persist(ctx, order, lines)
}

func (s *Service) buildLines(ctx context.Context, restaurantID string, items []LineRequest) ([]models.OrderItem, decimal.Decimal, error) {
	lines := make([]models.OrderItem, 0, len(items))
	total := decimal.Zero

	for _, req := range items {
		if req.MenuItemID == "" || req.Quantity <= 0 {
			return nil, decimal.Zero, fmt.Errorf("%w: invalid menu item selection", apperrors.ErrInvalidInput)
		}

		item, err := s.store.FindMenuItem(ctx, restaurantID, req.MenuItemID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				// A cross-tenant reference lands here too: the other tenant's
				// item is invisible and must not leak.
				return nil, decimal.Zero, fmt.Errorf("%w: menu item %s not found", apperrors.ErrNotFound, req.MenuItemID)
			}
			return nil, decimal.Zero, err
		}

		unitPrice, err := decimal.NewFromString(item.Price)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("invalid stored price for menu item %s: %w", item.ID, err)
		}

		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
		total = total.Add(lineTotal)

		lines = append(lines, models.OrderItem{
			MenuItemID:          item.ID,
			ItemName:            item.Name,
			Quantity:            req.Quantity,
			UnitPrice:           unitPrice.StringFixed(2),
			TotalPrice:          lineTotal.StringFixed(2),
			SpecialInstructions: req.SpecialInstructions,
		})
	}

	return lines, total, nil
}

func (s *Service) persist(ctx context.Context, order *models.Order, lines []models.OrderItem) (*models.Order, error) {
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	for i := range lines {
		lines[i].OrderID = order.ID
	}

	if err := s.store.CreateOrderItems(ctx, lines); err != nil {
		// Compensating rollback: remove the headless order before surfacing
		// the failure. A crash between these two statements can still orphan
		// the order record; known limitation.
		if delErr := s.store.DeleteOrder(ctx, order.ID); delErr != nil {
			log.Printf("order %s rollback failed: %v", order.ID, delErr)
		}
		return nil, err
	}

	return s.store.GetOrderWithItems(ctx, order.ID)
}

func buildManualNotes(summary, paymentMethod string) string {
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(summary); s != "" {
		parts = append(parts, s)
	}
	if p := strings.TrimSpace(paymentMethod); p != "" {
		parts = append(parts, "Payment: "+p)
	}
	if len(parts) == 0 {
		return "Manual order"
	}
	return "Manual order • " + strings.Join(parts, " • ")
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
