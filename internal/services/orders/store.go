package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"qrdine-system/internal/apperrors"
	"qrdine-system/internal/database/models"
)

// Store is the persistence surface of the order core. The backing store only
// guarantees per-statement atomicity, so order composition drives the
// parent/children writes (and the compensating delete) through this interface
// one statement at a time.
type Store interface {
	FindTableByID(ctx context.Context, tableID string) (*models.Table, error)
	FindTableForRestaurant(ctx context.Context, restaurantID, tableID, tableNumber string) (*models.Table, error)
	FindMenuItem(ctx context.Context, restaurantID, menuItemID string) (*models.MenuItem, error)

	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	DeleteOrder(ctx context.Context, orderID string) error
	GetOrderWithItems(ctx context.Context, orderID string) (*models.Order, error)

	// UpdateOrderScoped applies updates filtered by order id AND restaurant id
	// (and, when fromStatus is non-empty, by current status), returning the
	// number of rows touched. A cross-tenant order is invisible here.
	UpdateOrderScoped(ctx context.Context, restaurantID, orderID, fromStatus string, updates map[string]interface{}) (int64, error)
	GetOrderStatus(ctx context.Context, restaurantID, orderID string) (string, error)

	ListOrders(ctx context.Context, restaurantID, status string) ([]models.Order, error)
	ListOrdersBetween(ctx context.Context, restaurantID string, from, to time.Time) ([]models.Order, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) FindTableByID(ctx context.Context, tableID string) (*models.Table, error) {
	var table models.Table
	if err := g.db.WithContext(ctx).Where("id = ?", tableID).First(&table).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}
	return &table, nil
}

func (g *GormStore) FindTableForRestaurant(ctx context.Context, restaurantID, tableID, tableNumber string) (*models.Table, error) {
	query := g.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if tableID != "" {
		query = query.Where("id = ?", tableID)
	} else {
		query = query.Where("table_number = ?", tableNumber)
	}

	var table models.Table
	if err := query.First(&table).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}
	return &table, nil
}

func (g *GormStore) FindMenuItem(ctx context.Context, restaurantID, menuItemID string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := g.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", menuItemID, restaurantID).
		First(&item).Error
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return &item, nil
}

func (g *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return apperrors.FromDB(g.db.WithContext(ctx).Omit("OrderItems").Create(order).Error)
}

func (g *GormStore) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return apperrors.FromDB(g.db.WithContext(ctx).Create(&items).Error)
}

func (g *GormStore) DeleteOrder(ctx context.Context, orderID string) error {
	return apperrors.FromDB(g.db.WithContext(ctx).Where("id = ?", orderID).Delete(&models.Order{}).Error)
}

func (g *GormStore) GetOrderWithItems(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := g.db.WithContext(ctx).
		Preload("OrderItems").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return &order, nil
}

func (g *GormStore) UpdateOrderScoped(ctx context.Context, restaurantID, orderID, fromStatus string, updates map[string]interface{}) (int64, error) {
	query := g.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND restaurant_id = ?", orderID, restaurantID)
	if fromStatus != "" {
		query = query.Where("status = ?", fromStatus)
	}

	res := query.Updates(updates)
	if res.Error != nil {
		return 0, apperrors.FromDB(res.Error)
	}
	return res.RowsAffected, nil
}

func (g *GormStore) GetOrderStatus(ctx context.Context, restaurantID, orderID string) (string, error) {
	var order models.Order
	err := g.db.WithContext(ctx).
		Select("status").
		Where("id = ? AND restaurant_id = ?", orderID, restaurantID).
		First(&order).Error
	if err != nil {
		return "", apperrors.FromDB(err)
	}
	return order.Status, nil
}

func (g *GormStore) ListOrders(ctx context.Context, restaurantID, status string) ([]models.Order, error) {
	query := g.db.WithContext(ctx).
		Preload("OrderItems").
		Where("restaurant_id = ?", restaurantID).
		Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}
	return orders, nil
}

func (g *GormStore) ListOrdersBetween(ctx context.Context, restaurantID string, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := g.db.WithContext(ctx).
		Where("restaurant_id = ? AND created_at BETWEEN ? AND ?", restaurantID, from, to).
		Find(&orders).Error
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return orders, nil
}
