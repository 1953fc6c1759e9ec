package waiter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"qrdine-system/internal/apperrors"
	"qrdine-system/internal/database/models"
	"qrdine-system/internal/tenant"
)

const (
	maxCustomerMessageLen = 280
	maxResponseMessageLen = 180
	listLimit             = 50
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateInput struct {
	TableID string
	// RestaurantID is optional; when supplied it must match the table's owner.
	RestaurantID string
	Message      *string
}

// Create opens a waiter call from a customer at a table. The optional message
// is capped, not rejected, when it runs long.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.WaiterCall, error) {
	if in.TableID == "" {
		return nil, fmt.Errorf("%w: table ID is required", apperrors.ErrInvalidInput)
	}

	var table models.Table
	err := s.db.WithContext(ctx).Where("id = ?", in.TableID).First(&table).Error
	if err != nil {
		if errors.Is(apperrors.FromDB(err), apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: table not found", apperrors.ErrNotFound)
		}
		return nil, apperrors.FromDB(err)
	}
	if !table.IsActive {
		return nil, fmt.Errorf("%w: table is inactive", apperrors.ErrForbidden)
	}
	if in.RestaurantID != "" && in.RestaurantID != table.RestaurantID {
		return nil, fmt.Errorf("%w: restaurant mismatch for provided table", apperrors.ErrConflict)
	}

	call := &models.WaiterCall{
		RestaurantID:    table.RestaurantID,
		TableID:         table.ID,
		TableNumber:     table.TableNumber,
		CustomerMessage: capMessage(in.Message, maxCustomerMessageLen),
		Status:          models.CallStatusOpen,
	}
	if err := s.db.WithContext(ctx).Create(call).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}
	return call, nil
}

// Status lets the customer poll a call they created. The call ID alone is
// guessable, so the caller must also present the table ID it was opened from.
func (s *Service) Status(ctx context.Context, callID, tableID string) (*models.WaiterCall, error) {
	if tableID == "" {
		return nil, fmt.Errorf("%w: table ID is required", apperrors.ErrInvalidInput)
	}

	var call models.WaiterCall
	err := s.db.WithContext(ctx).Where("id = ? AND table_id = ?", callID, tableID).First(&call).Error
	if err != nil {
		if errors.Is(apperrors.FromDB(err), apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: waiter call not found", apperrors.ErrNotFound)
		}
		return nil, apperrors.FromDB(err)
	}
	return &call, nil
}

// List returns the tenant's most recent calls. Without a status filter it
// hides resolved calls so the staff view stays an actionable queue.
func (s *Service) List(ctx context.Context, tc tenant.Context, status string) ([]models.WaiterCall, error) {
	cond, arg, err := listConditions(status)
	if err != nil {
		return nil, err
	}

	var calls []models.WaiterCall
	err = s.db.WithContext(ctx).
		Where("restaurant_id = ?", tc.RestaurantID).
		Where(cond, arg).
		Order("created_at desc").
		Limit(listLimit).
		Find(&calls).Error
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return calls, nil
}

func listConditions(status string) (string, string, error) {
	if status == "" {
		return "status <> ?", models.CallStatusResolved, nil
	}
	if status != models.CallStatusOpen && status != models.CallStatusResponded && status != models.CallStatusResolved {
		return "", "", fmt.Errorf("%w: unknown call status %q", apperrors.ErrInvalidInput, status)
	}
	return "status = ?", status, nil
}

// Respond marks an open call as responded with a staff message.
func (s *Service) Respond(ctx context.Context, tc tenant.Context, callID string, message *string) (*models.WaiterCall, error) {
	capped := capMessage(message, maxResponseMessageLen)
	if capped == nil {
		return nil, fmt.Errorf("%w: response message is required", apperrors.ErrInvalidInput)
	}

	now := time.Now()
	return s.applyUpdate(ctx, tc, callID, map[string]interface{}{
		"status":           models.CallStatusResponded,
		"response_message": *capped,
		"responded_at":     now,
		"updated_at":       now,
	})
}

// Resolve closes a call.
func (s *Service) Resolve(ctx context.Context, tc tenant.Context, callID string) (*models.WaiterCall, error) {
	now := time.Now()
	return s.applyUpdate(ctx, tc, callID, map[string]interface{}{
		"status":      models.CallStatusResolved,
		"resolved_at": now,
		"updated_at":  now,
	})
}

func (s *Service) applyUpdate(ctx context.Context, tc tenant.Context, callID string, updates map[string]interface{}) (*models.WaiterCall, error) {
	res := s.db.WithContext(ctx).
		Model(&models.WaiterCall{}).
		Where("id = ? AND restaurant_id = ?", callID, tc.RestaurantID).
		Updates(updates)
	if res.Error != nil {
		return nil, apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: waiter call not found", apperrors.ErrNotFound)
	}

	var call models.WaiterCall
	if err := s.db.WithContext(ctx).Where("id = ?", callID).First(&call).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}
	return &call, nil
}

func capMessage(message *string, max int) *string {
	if message == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*message)
	if trimmed == "" {
		return nil
	}
	runes := []rune(trimmed)
	if len(runes) > max {
		trimmed = string(runes[:max])
	}
	return &trimmed
}
