package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"qrdine-system/internal/apperrors"
	"qrdine-system/internal/database/models"
	"qrdine-system/internal/services/resolver"
	"qrdine-system/internal/tenant"
)

const (
	menuCachePrefix = "menu:"
	menuCacheTTL    = 5 * time.Minute
)

type Service struct {
	db       *gorm.DB
	redis    *redis.Client
	resolver *resolver.Service
}

func NewService(db *gorm.DB, rdb *redis.Client, res *resolver.Service) *Service {
	return &Service{db: db, redis: rdb, resolver: res}
}

// PublicMenu is what an unauthenticated customer sees after scanning a QR
// code: restaurant identity plus the active slice of the menu.
type PublicMenu struct {
	Restaurant PublicRestaurant      `json:"restaurant"`
	Table      *models.Table         `json:"table,omitempty"`
	Categories []models.MenuCategory `json:"categories"`
}

type PublicRestaurant struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	LogoURL           *string `json:"logo_url"`
	ThemeColor        *string `json:"theme_color"`
	IsAcceptingOrders bool    `json:"is_accepting_orders"`
	ServiceHours      *string `json:"service_hours"`
	OfflineNotice     *string `json:"offline_notice"`
}

// Public resolves the scanned identifier (restaurant or table ID) and returns
// the customer-facing menu: active categories with available items only.
func (s *Service) Public(ctx context.Context, identifier string) (*PublicMenu, error) {
	restaurant, table, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if !restaurant.IsActive {
		return nil, fmt.Errorf("%w: restaurant is not available", apperrors.ErrForbidden)
	}

	categories, err := s.activeCategories(ctx, restaurant.ID)
	if err != nil {
		return nil, err
	}

	return &PublicMenu{
		Restaurant: PublicRestaurant{
			ID:                restaurant.ID,
			Name:              restaurant.Name,
			LogoURL:           restaurant.LogoURL,
			ThemeColor:        restaurant.ThemeColor,
			IsAcceptingOrders: restaurant.IsAcceptingOrders,
			ServiceHours:      restaurant.ServiceHours,
			OfflineNotice:     restaurant.OfflineNotice,
		},
		Table:      table,
		Categories: categories,
	}, nil
}

func (s *Service) activeCategories(ctx context.Context, restaurantID string) ([]models.MenuCategory, error) {
	cacheKey := menuCachePrefix + restaurantID
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var categories []models.MenuCategory
			if json.Unmarshal([]byte(cached), &categories) == nil {
				return categories, nil
			}
		}
	}

	var categories []models.MenuCategory
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Order("sort_order asc").
		Preload("MenuItems", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_available = ?", true).Order("sort_order asc")
		}).
		Find(&categories).Error
	if err != nil {
		return nil, apperrors.FromDB(err)
	}

	if s.redis != nil {
		if data, err := json.Marshal(categories); err == nil {
			if err := s.redis.Set(ctx, cacheKey, data, menuCacheTTL).Err(); err != nil {
				log.Printf("failed to cache menu for %s: %v", restaurantID, err)
			}
		}
	}
	return categories, nil
}

func (s *Service) invalidateCache(ctx context.Context, restaurantID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, menuCachePrefix+restaurantID).Err(); err != nil {
		log.Printf("failed to invalidate menu cache for %s: %v", restaurantID, err)
	}
}

// ListCategories returns all of the tenant's categories with their items,
// including inactive ones.
func (s *Service) ListCategories(ctx context.Context, tc tenant.Context) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", tc.RestaurantID).
		Order("sort_order asc").
		Preload("MenuItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		}).
		Find(&categories).Error
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return categories, nil
}

// ListCategoryItems returns every item of one of the tenant's categories.
func (s *Service) ListCategoryItems(ctx context.Context, tc tenant.Context, categoryID string) ([]models.MenuItem, error) {
	var category models.MenuCategory
	err := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", categoryID, tc.RestaurantID).
		First(&category).Error
	if err != nil {
		if errors.Is(apperrors.FromDB(err), apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: category not found", apperrors.ErrNotFound)
		}
		return nil, apperrors.FromDB(err)
	}

	var items []models.MenuItem
	err = s.db.WithContext(ctx).
		Where("category_id = ? AND restaurant_id = ?", categoryID, tc.RestaurantID).
		Order("sort_order asc").
		Find(&items).Error
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return items, nil
}

type CategoryInput struct {
	Name        string
	Description *string
	SortOrder   *int
	IsActive    *bool
}

func (s *Service) CreateCategory(ctx context.Context, tc tenant.Context, in CategoryInput) (*models.MenuCategory, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", apperrors.ErrInvalidInput)
	}

	category := &models.MenuCategory{
		RestaurantID: tc.RestaurantID,
		Name:         name,
		Description:  in.Description,
		IsActive:     true,
	}
	if in.SortOrder != nil {
		category.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}

	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}
	s.invalidateCache(ctx, tc.RestaurantID)
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, tc tenant.Context, categoryID string, in CategoryInput) (*models.MenuCategory, error) {
	updates := map[string]interface{}{}
	if name := strings.TrimSpace(in.Name); name != "" {
		updates["name"] = name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.SortOrder != nil {
		updates["sort_order"] = *in.SortOrder
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrInvalidInput)
	}

	res := s.db.WithContext(ctx).
		Model(&models.MenuCategory{}).
		Where("id = ? AND restaurant_id = ?", categoryID, tc.RestaurantID).
		Updates(updates)
	if res.Error != nil {
		return nil, apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: category not found", apperrors.ErrNotFound)
	}

	s.invalidateCache(ctx, tc.RestaurantID)

	var category models.MenuCategory
	if err := s.db.WithContext(ctx).Where("id = ?", categoryID).First(&category).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}
	return &category, nil
}

func (s *Service) DeleteCategory(ctx context.Context, tc tenant.Context, categoryID string) error {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("category_id = ? AND restaurant_id = ?", categoryID, tc.RestaurantID).
		Count(&count).Error; err != nil {
		return apperrors.FromDB(err)
	}
	if count > 0 {
		return fmt.Errorf("%w: category still has menu items", apperrors.ErrConflict)
	}

	res := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", categoryID, tc.RestaurantID).
		Delete(&models.MenuCategory{})
	if res.Error != nil {
		return apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: category not found", apperrors.ErrNotFound)
	}

	s.invalidateCache(ctx, tc.RestaurantID)
	return nil
}

type ItemInput struct {
	CategoryID   string
	Name         string
	Description  *string
	Price        string
	ImageURL     *string
	IsAvailable  *bool
	IsVegetarian *bool
	IsVegan      *bool
	Allergens    []string
	SortOrder    *int
}

func (s *Service) CreateItem(ctx context.Context, tc tenant.Context, in ItemInput) (*models.MenuItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.CategoryID == "" {
		return nil, fmt.Errorf("%w: item name and category are required", apperrors.ErrInvalidInput)
	}

	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}

	var category models.MenuCategory
	err = s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", in.CategoryID, tc.RestaurantID).
		First(&category).Error
	if err != nil {
		if errors.Is(apperrors.FromDB(err), apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: category not found", apperrors.ErrNotFound)
		}
		return nil, apperrors.FromDB(err)
	}

	item := &models.MenuItem{
		RestaurantID: tc.RestaurantID,
		CategoryID:   in.CategoryID,
		Name:         name,
		Description:  in.Description,
		Price:        price.StringFixed(2),
		ImageURL:     in.ImageURL,
		IsAvailable:  true,
		Allergens:    in.Allergens,
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if in.IsVegetarian != nil {
		item.IsVegetarian = *in.IsVegetarian
	}
	if in.IsVegan != nil {
		item.IsVegan = *in.IsVegan
	}
	if in.SortOrder != nil {
		item.SortOrder = *in.SortOrder
	}

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}
	s.invalidateCache(ctx, tc.RestaurantID)
	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, tc tenant.Context, itemID string, in ItemInput) (*models.MenuItem, error) {
	updates := map[string]interface{}{}
	if name := strings.TrimSpace(in.Name); name != "" {
		updates["name"] = name
	}
	if in.CategoryID != "" {
		var category models.MenuCategory
		err := s.db.WithContext(ctx).
			Where("id = ? AND restaurant_id = ?", in.CategoryID, tc.RestaurantID).
			First(&category).Error
		if err != nil {
			if errors.Is(apperrors.FromDB(err), apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: category not found", apperrors.ErrNotFound)
			}
			return nil, apperrors.FromDB(err)
		}
		updates["category_id"] = in.CategoryID
	}
	if in.Price != "" {
		price, err := parsePrice(in.Price)
		if err != nil {
			return nil, err
		}
		updates["price"] = price.StringFixed(2)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.ImageURL != nil {
		updates["image_url"] = *in.ImageURL
	}
	if in.IsAvailable != nil {
		updates["is_available"] = *in.IsAvailable
	}
	if in.IsVegetarian != nil {
		updates["is_vegetarian"] = *in.IsVegetarian
	}
	if in.IsVegan != nil {
		updates["is_vegan"] = *in.IsVegan
	}
	if in.Allergens != nil {
		updates["allergens"] = models.StringArray(in.Allergens)
	}
	if in.SortOrder != nil {
		updates["sort_order"] = *in.SortOrder
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrInvalidInput)
	}

	res := s.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ? AND restaurant_id = ?", itemID, tc.RestaurantID).
		Updates(updates)
	if res.Error != nil {
		return nil, apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: menu item not found", apperrors.ErrNotFound)
	}

	s.invalidateCache(ctx, tc.RestaurantID)

	var item models.MenuItem
	if err := s.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}
	return &item, nil
}

func (s *Service) DeleteItem(ctx context.Context, tc tenant.Context, itemID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", itemID, tc.RestaurantID).
		Delete(&models.MenuItem{})
	if res.Error != nil {
		return apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: menu item not found", apperrors.ErrNotFound)
	}

	s.invalidateCache(ctx, tc.RestaurantID)
	return nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid price", apperrors.ErrInvalidInput)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: price cannot be negative", apperrors.ErrInvalidInput)
	}
	return price, nil
}
