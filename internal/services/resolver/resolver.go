package resolver

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"qrdine-system/internal/apperrors"
	"qrdine-system/internal/database/models"
)

// Store is the restaurant/table lookup surface the resolver runs on. The gorm
// implementation hides the optional-column schema fallback so callers never
// see schema versioning.
type Store interface {
	FindRestaurantByID(ctx context.Context, id string) (*models.Restaurant, error)
	FindTableByID(ctx context.Context, id string) (*models.Table, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Resolve turns an opaque public identifier into a tenant context. The id is
// tried as a restaurant first; only a not-found falls through to the table
// path, any other failure is propagated.
func (s *Service) Resolve(ctx context.Context, identifier string) (*models.Restaurant, *models.Table, error) {
	restaurant, err := s.store.FindRestaurantByID(ctx, identifier)
	if err == nil {
		return restaurant, nil, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil, err
	}

	table, err := s.store.FindTableByID(ctx, identifier)
	if err != nil {
		return nil, nil, err
	}

	restaurant, err = s.store.FindRestaurantByID(ctx, table.RestaurantID)
	if err != nil {
		return nil, nil, err
	}

	return restaurant, table, nil
}

// fallbackRestaurantColumns is the column set known to every schema version;
// the service-availability columns arrived later.
var fallbackRestaurantColumns = []string{
	"id", "name", "email", "password_hash", "phone", "address",
	"logo_url", "theme_color", "is_active", "created_at", "updated_at",
}

var optionalRestaurantColumns = []string{
	"is_accepting_orders", "service_hours", "offline_notice",
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) FindRestaurantByID(ctx context.Context, id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&restaurant).Error
	if err == nil {
		return &restaurant, nil
	}
	if !apperrors.IsColumnMissing(err) {
		return nil, apperrors.FromDB(err)
	}

	restaurant = models.Restaurant{}
	if err := g.db.WithContext(ctx).
		Select(fallbackRestaurantColumns).
		Where("id = ?", id).
		First(&restaurant).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}
	ApplyAvailabilityDefaults(&restaurant)
	return &restaurant, nil
}

func (g *GormStore) FindTableByID(ctx context.Context, id string) (*models.Table, error) {
	var table models.Table
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&table).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}
	return &table, nil
}

// UpdateRestaurantProfile applies a partial update and returns the fresh row.
// When the update names the optional availability columns against a schema
// that lacks them, they are stripped and the update retried.
func (g *GormStore) UpdateRestaurantProfile(ctx context.Context, id string, updates map[string]interface{}) (*models.Restaurant, error) {
	if len(updates) > 0 {
		err := g.db.WithContext(ctx).
			Model(&models.Restaurant{}).
			Where("id = ?", id).
			Updates(updates).Error
		if err != nil && apperrors.IsColumnMissing(err) {
			stripped := stripOptionalColumns(updates)
			if len(stripped) > 0 {
				err = g.db.WithContext(ctx).
					Model(&models.Restaurant{}).
					Where("id = ?", id).
					Updates(stripped).Error
			} else {
				err = nil
			}
		}
		if err != nil {
			return nil, apperrors.FromDB(err)
		}
	}
	return g.FindRestaurantByID(ctx, id)
}

func stripOptionalColumns(updates map[string]interface{}) map[string]interface{} {
	stripped := make(map[string]interface{}, len(updates))
	for k, v := range updates {
		stripped[k] = v
	}
	for _, col := range optionalRestaurantColumns {
		delete(stripped, col)
	}
	return stripped
}

// ApplyAvailabilityDefaults fills the optional availability fields on a row
// read through the reduced column set.
func ApplyAvailabilityDefaults(r *models.Restaurant) {
	if r == nil {
		return
	}
	r.IsAcceptingOrders = true
	r.ServiceHours = nil
	r.OfflineNotice = nil
}
