package tables

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"qrdine-system/internal/apperrors"
	"qrdine-system/internal/database/models"
	"qrdine-system/internal/tenant"
)

const qrImageSize = 256

type Service struct {
	db            *gorm.DB
	publicBaseURL string
	qrDir         string
}

func NewService(db *gorm.DB, publicBaseURL, qrDir string) *Service {
	return &Service{db: db, publicBaseURL: strings.TrimRight(publicBaseURL, "/"), qrDir: qrDir}
}

func (s *Service) List(ctx context.Context, tc tenant.Context) ([]models.Table, error) {
	var tables []models.Table
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", tc.RestaurantID).
		Order("table_number asc").
		Find(&tables).Error
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return tables, nil
}

func (s *Service) Get(ctx context.Context, tc tenant.Context, tableID string) (*models.Table, error) {
	var table models.Table
	err := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", tableID, tc.RestaurantID).
		First(&table).Error
	if err != nil {
		if errors.Is(apperrors.FromDB(err), apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: table not found", apperrors.ErrNotFound)
		}
		return nil, apperrors.FromDB(err)
	}
	return &table, nil
}

// Create adds a table with a number unique within the restaurant and writes
// its QR code image.
func (s *Service) Create(ctx context.Context, tc tenant.Context, tableNumber string) (*models.Table, error) {
	tableNumber = strings.TrimSpace(tableNumber)
	if tableNumber == "" {
		return nil, fmt.Errorf("%w: table number is required", apperrors.ErrInvalidInput)
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Table{}).
		Where("restaurant_id = ? AND table_number = ?", tc.RestaurantID, tableNumber).
		Count(&count).Error
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: table number already exists", apperrors.ErrConflict)
	}

	table := &models.Table{
		RestaurantID: tc.RestaurantID,
		TableNumber:  tableNumber,
		IsActive:     true,
	}
	// The composite unique index backstops the pre-check under concurrency.
	if err := s.db.WithContext(ctx).Create(table).Error; err != nil {
		if derr := apperrors.FromDB(err); errors.Is(derr, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: table number already exists", apperrors.ErrConflict)
		}
		return nil, apperrors.FromDB(err)
	}

	if err := s.writeQRCode(ctx, table); err != nil {
		log.Printf("failed to generate QR code for table %s: %v", table.ID, err)
	}
	return table, nil
}

type UpdateInput struct {
	TableNumber *string
	IsActive    *bool
}

func (s *Service) Update(ctx context.Context, tc tenant.Context, tableID string, in UpdateInput) (*models.Table, error) {
	updates := map[string]interface{}{}
	if in.TableNumber != nil {
		number := strings.TrimSpace(*in.TableNumber)
		if number == "" {
			return nil, fmt.Errorf("%w: table number cannot be empty", apperrors.ErrInvalidInput)
		}
		var count int64
		err := s.db.WithContext(ctx).
			Model(&models.Table{}).
			Where("restaurant_id = ? AND table_number = ? AND id <> ?", tc.RestaurantID, number, tableID).
			Count(&count).Error
		if err != nil {
			return nil, apperrors.FromDB(err)
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: table number already exists", apperrors.ErrConflict)
		}
		updates["table_number"] = number
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrInvalidInput)
	}

	res := s.db.WithContext(ctx).
		Model(&models.Table{}).
		Where("id = ? AND restaurant_id = ?", tableID, tc.RestaurantID).
		Updates(updates)
	if res.Error != nil {
		return nil, apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: table not found", apperrors.ErrNotFound)
	}

	return s.Get(ctx, tc, tableID)
}

// Delete removes the table and its QR image file. A missing image file is
// not an error.
func (s *Service) Delete(ctx context.Context, tc tenant.Context, tableID string) error {
	table, err := s.Get(ctx, tc, tableID)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", tableID, tc.RestaurantID).
		Delete(&models.Table{})
	if res.Error != nil {
		return apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: table not found", apperrors.ErrNotFound)
	}

	if err := os.Remove(s.qrFilePath(table.ID)); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove QR image for table %s: %v", table.ID, err)
	}
	return nil
}

// GenerateOne rewrites the QR image for a single table.
func (s *Service) GenerateOne(ctx context.Context, tc tenant.Context, tableID string) (*models.Table, error) {
	table, err := s.Get(ctx, tc, tableID)
	if err != nil {
		return nil, err
	}
	if err := s.writeQRCode(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return s.Get(ctx, tc, tableID)
}

// GenerateAll rewrites QR images for every table of the restaurant, for
// example after the public base URL changes.
func (s *Service) GenerateAll(ctx context.Context, tc tenant.Context) (int, error) {
	tables, err := s.List(ctx, tc)
	if err != nil {
		return 0, err
	}

	generated := 0
	for i := range tables {
		if err := s.writeQRCode(ctx, &tables[i]); err != nil {
			log.Printf("failed to generate QR code for table %s: %v", tables[i].ID, err)
			continue
		}
		generated++
	}
	return generated, nil
}

func (s *Service) writeQRCode(ctx context.Context, table *models.Table) error {
	if err := os.MkdirAll(s.qrDir, 0o755); err != nil {
		return err
	}

	menuURL := fmt.Sprintf("%s/menu/%s", s.publicBaseURL, table.ID)
	if err := qrcode.WriteFile(menuURL, qrcode.Medium, qrImageSize, s.qrFilePath(table.ID)); err != nil {
		return err
	}

	qrURL := fmt.Sprintf("%s/qr/%s.png", s.publicBaseURL, table.ID)
	return apperrors.FromDB(s.db.WithContext(ctx).
		Model(&models.Table{}).
		Where("id = ?", table.ID).
		Update("qr_code_url", qrURL).Error)
}

func (s *Service) qrFilePath(tableID string) string {
	return filepath.Join(s.qrDir, tableID+".png")
}
