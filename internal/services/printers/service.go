package printers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"gorm.io/gorm"

	"qrdine-system/internal/apperrors"
	"qrdine-system/internal/database/models"
	"qrdine-system/internal/tenant"
)

const dispatchTimeout = 5 * time.Second

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type Input struct {
	Name             string
	PrinterType      string
	ConnectionString *string
	PrintNodeID      *string
	IsActive         *bool
}

func (s *Service) Create(ctx context.Context, tc tenant.Context, in Input) (*models.Printer, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.PrinterType == "" {
		return nil, fmt.Errorf("%w: printer name and type are required", apperrors.ErrInvalidInput)
	}

	printer := &models.Printer{
		RestaurantID:     tc.RestaurantID,
		Name:             name,
		PrinterType:      in.PrinterType,
		ConnectionString: in.ConnectionString,
		PrintNodeID:      in.PrintNodeID,
		IsActive:         true,
	}
	if in.IsActive != nil {
		printer.IsActive = *in.IsActive
	}

	if err := s.db.WithContext(ctx).Create(printer).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}
	return printer, nil
}

func (s *Service) List(ctx context.Context, tc tenant.Context) ([]models.Printer, error) {
	var printers []models.Printer
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", tc.RestaurantID).
		Order("name asc").
		Find(&printers).Error
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return printers, nil
}

func (s *Service) Update(ctx context.Context, tc tenant.Context, printerID string, in Input) (*models.Printer, error) {
	updates := map[string]interface{}{}
	if name := strings.TrimSpace(in.Name); name != "" {
		updates["name"] = name
	}
	if in.PrinterType != "" {
		updates["printer_type"] = in.PrinterType
	}
	if in.ConnectionString != nil {
		updates["connection_string"] = *in.ConnectionString
	}
	if in.PrintNodeID != nil {
		updates["printnode_id"] = *in.PrintNodeID
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrInvalidInput)
	}

	res := s.db.WithContext(ctx).
		Model(&models.Printer{}).
		Where("id = ? AND restaurant_id = ?", printerID, tc.RestaurantID).
		Updates(updates)
	if res.Error != nil {
		return nil, apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: printer not found", apperrors.ErrNotFound)
	}

	var printer models.Printer
	if err := s.db.WithContext(ctx).Where("id = ?", printerID).First(&printer).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}
	return &printer, nil
}

func (s *Service) Delete(ctx context.Context, tc tenant.Context, printerID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", printerID, tc.RestaurantID).
		Delete(&models.Printer{})
	if res.Error != nil {
		return apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: printer not found", apperrors.ErrNotFound)
	}
	return nil
}

// PrintOrder renders a kitchen ticket and sends it to the named printer. Only
// escpos printers with a host:port connection string can be dispatched to.
func (s *Service) PrintOrder(ctx context.Context, tc tenant.Context, printerID, restaurantName string, order *models.Order) error {
	printer, err := s.find(ctx, tc, printerID)
	if err != nil {
		return err
	}
	return s.dispatch(ctx, printer, RenderKitchenTicket(restaurantName, order))
}

// PrintLabel renders and dispatches a prepared-item label.
func (s *Service) PrintLabel(ctx context.Context, tc tenant.Context, printerID string, label *models.ItemLabel) error {
	printer, err := s.find(ctx, tc, printerID)
	if err != nil {
		return err
	}
	return s.dispatch(ctx, printer, RenderItemLabel(label))
}

// Default returns the restaurant's first active escpos printer.
func (s *Service) Default(ctx context.Context, tc tenant.Context) (*models.Printer, error) {
	var printer models.Printer
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_active = ? AND printer_type = ?", tc.RestaurantID, true, models.PrinterTypeESCPOS).
		Order("created_at asc").
		First(&printer).Error
	if err != nil {
		if errors.Is(apperrors.FromDB(err), apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no active printer configured", apperrors.ErrNotFound)
		}
		return nil, apperrors.FromDB(err)
	}
	return &printer, nil
}

func (s *Service) find(ctx context.Context, tc tenant.Context, printerID string) (*models.Printer, error) {
	var printer models.Printer
	err := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", printerID, tc.RestaurantID).
		First(&printer).Error
	if err != nil {
		if errors.Is(apperrors.FromDB(err), apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: printer not found", apperrors.ErrNotFound)
		}
		return nil, apperrors.FromDB(err)
	}
	return &printer, nil
}

func (s *Service) dispatch(ctx context.Context, printer *models.Printer, payload []byte) error {
	if !printer.IsActive {
		return fmt.Errorf("%w: printer is inactive", apperrors.ErrConflict)
	}
	if printer.PrinterType != models.PrinterTypeESCPOS {
		return fmt.Errorf("%w: only escpos printers can be dispatched to", apperrors.ErrInvalidInput)
	}
	if printer.ConnectionString == nil || *printer.ConnectionString == "" {
		return fmt.Errorf("%w: printer has no network address", apperrors.ErrInvalidInput)
	}

	dialer := net.Dialer{Timeout: dispatchTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", *printer.ConnectionString)
	if err != nil {
		return fmt.Errorf("failed to reach printer %s: %w", printer.Name, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(dispatchTimeout)); err != nil {
		return err
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("failed to print on %s: %w", printer.Name, err)
	}
	return nil
}
