package labels

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"qrdine-system/internal/apperrors"
	"qrdine-system/internal/database/models"
	"qrdine-system/internal/tenant"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type Input struct {
	MenuItemID string
	LabelName  string
	TicketID   *string
	PreparedBy *string
	PreparedAt *time.Time
	ExpiresAt  *time.Time
	PrintedBy  *string
	PrintedAt  *time.Time
	TrackCode  *string
	Notes      *string
}

// Create registers a prepared-item label. Missing ticket ID, track code and
// printed-at are filled with generated defaults.
func (s *Service) Create(ctx context.Context, tc tenant.Context, in Input) (*models.ItemLabel, error) {
	name := strings.TrimSpace(in.LabelName)
	if in.MenuItemID == "" || name == "" {
		return nil, fmt.Errorf("%w: menu item and label name are required", apperrors.ErrInvalidInput)
	}
	if in.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: expiry time is required", apperrors.ErrInvalidInput)
	}

	var item models.MenuItem
	err := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", in.MenuItemID, tc.RestaurantID).
		First(&item).Error
	if err != nil {
		if errors.Is(apperrors.FromDB(err), apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: menu item not found", apperrors.ErrNotFound)
		}
		return nil, apperrors.FromDB(err)
	}

	now := time.Now()
	label := &models.ItemLabel{
		RestaurantID: tc.RestaurantID,
		MenuItemID:   in.MenuItemID,
		LabelName:    name,
		TicketID:     defaultTicketID(in.TicketID),
		PreparedBy:   in.PreparedBy,
		PreparedAt:   now,
		ExpiresAt:    *in.ExpiresAt,
		PrintedBy:    in.PrintedBy,
		TrackCode:    defaultTrackCode(in.TrackCode),
		Notes:        in.Notes,
	}
	if in.PreparedAt != nil {
		label.PreparedAt = *in.PreparedAt
	}
	if in.PrintedAt != nil {
		label.PrintedAt = in.PrintedAt
	} else {
		label.PrintedAt = &now
	}

	if err := s.db.WithContext(ctx).Create(label).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}
	return label, nil
}

func (s *Service) List(ctx context.Context, tc tenant.Context) ([]models.ItemLabel, error) {
	var labels []models.ItemLabel
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", tc.RestaurantID).
		Order("created_at desc").
		Find(&labels).Error
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return labels, nil
}

func (s *Service) Get(ctx context.Context, tc tenant.Context, labelID string) (*models.ItemLabel, error) {
	var label models.ItemLabel
	err := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", labelID, tc.RestaurantID).
		First(&label).Error
	if err != nil {
		if errors.Is(apperrors.FromDB(err), apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: label not found", apperrors.ErrNotFound)
		}
		return nil, apperrors.FromDB(err)
	}
	return &label, nil
}

func (s *Service) Update(ctx context.Context, tc tenant.Context, labelID string, in Input) (*models.ItemLabel, error) {
	updates := map[string]interface{}{}
	if name := strings.TrimSpace(in.LabelName); name != "" {
		updates["label_name"] = name
	}
	if in.PreparedBy != nil {
		updates["prepared_by"] = *in.PreparedBy
	}
	if in.PreparedAt != nil {
		updates["prepared_at"] = *in.PreparedAt
	}
	if in.ExpiresAt != nil {
		updates["expires_at"] = *in.ExpiresAt
	}
	if in.PrintedBy != nil {
		updates["printed_by"] = *in.PrintedBy
	}
	if in.PrintedAt != nil {
		updates["printed_at"] = *in.PrintedAt
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrInvalidInput)
	}

	res := s.db.WithContext(ctx).
		Model(&models.ItemLabel{}).
		Where("id = ? AND restaurant_id = ?", labelID, tc.RestaurantID).
		Updates(updates)
	if res.Error != nil {
		return nil, apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: label not found", apperrors.ErrNotFound)
	}
	return s.Get(ctx, tc, labelID)
}

func (s *Service) Delete(ctx context.Context, tc tenant.Context, labelID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", labelID, tc.RestaurantID).
		Delete(&models.ItemLabel{})
	if res.Error != nil {
		return apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: label not found", apperrors.ErrNotFound)
	}
	return nil
}

// defaultTicketID yields "TKT-" plus the first segment of a fresh UUID,
// uppercased.
func defaultTicketID(provided *string) string {
	if provided != nil && strings.TrimSpace(*provided) != "" {
		return strings.TrimSpace(*provided)
	}
	return "TKT-" + strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
}

// defaultTrackCode yields a zero-padded three digit code.
func defaultTrackCode(provided *string) string {
	if provided != nil && strings.TrimSpace(*provided) != "" {
		return strings.TrimSpace(*provided)
	}
	return fmt.Sprintf("%03d", rand.Intn(1000))
}
