package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"qrdine-system/internal/apperrors"
	"qrdine-system/internal/database/models"
	"qrdine-system/internal/services/resolver"
	"qrdine-system/internal/tenant"
	"qrdine-system/internal/utils"
)

const bcryptCost = 12

type Service struct {
	db        *gorm.DB
	profiles  *resolver.GormStore
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewService(db *gorm.DB, jwtSecret []byte, tokenTTL time.Duration) *Service {
	return &Service{
		db:        db,
		profiles:  resolver.NewGormStore(db),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    *string
	Address  *string
}

type AuthResult struct {
	Restaurant *models.Restaurant
	Token      string
	ExpiresAt  time.Time
}

// Register creates a restaurant account and opens a session for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: name, email and a password of at least 8 characters are required", apperrors.ErrInvalidInput)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Restaurant{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: email is already registered", apperrors.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	restaurant := &models.Restaurant{
		Name:              name,
		Email:             email,
		PasswordHash:      string(hash),
		Phone:             in.Phone,
		Address:           in.Address,
		IsActive:          true,
		IsAcceptingOrders: true,
	}
	// The unique index on email closes the window between the count check and
	// this insert; a losing racer surfaces as a conflict.
	if err := s.db.WithContext(ctx).Create(restaurant).Error; err != nil {
		if derr := apperrors.FromDB(err); errors.Is(derr, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: email is already registered", apperrors.ErrConflict)
		}
		return nil, apperrors.FromDB(err)
	}

	return s.openSession(ctx, restaurant)
}

// Login authenticates by email and password. Deactivated accounts cannot log
// in even with valid credentials.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrInvalidInput)
	}

	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&restaurant).Error
	if err != nil {
		if errors.Is(apperrors.FromDB(err), apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, apperrors.FromDB(err)
	}

	if !restaurant.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", apperrors.ErrForbidden)
	}
	if bcrypt.CompareHashAndPassword([]byte(restaurant.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	return s.openSession(ctx, &restaurant)
}

// Logout revokes the presented session token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return apperrors.FromDB(s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error)
}

// Profile returns the tenant's own restaurant record.
func (s *Service) Profile(ctx context.Context, tc tenant.Context) (*models.Restaurant, error) {
	restaurant, err := s.profiles.FindRestaurantByID(ctx, tc.RestaurantID)
	if err != nil {
		return nil, err
	}
	return restaurant, nil
}

type ProfileUpdate struct {
	Name              *string
	Phone             *string
	Address           *string
	LogoURL           *string
	ThemeColor        *string
	IsAcceptingOrders *bool
	ServiceHours      *string
	OfflineNotice     *string
}

// UpdateProfile applies a partial update to the tenant's restaurant record.
// Availability fields ride through the resolver store so schemas without
// those columns degrade instead of failing.
func (s *Service) UpdateProfile(ctx context.Context, tc tenant.Context, in ProfileUpdate) (*models.Restaurant, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrInvalidInput)
		}
		updates["name"] = name
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.LogoURL != nil {
		updates["logo_url"] = *in.LogoURL
	}
	if in.ThemeColor != nil {
		updates["theme_color"] = *in.ThemeColor
	}
	if in.IsAcceptingOrders != nil {
		updates["is_accepting_orders"] = *in.IsAcceptingOrders
	}
	if in.ServiceHours != nil {
		updates["service_hours"] = *in.ServiceHours
	}
	if in.OfflineNotice != nil {
		updates["offline_notice"] = *in.OfflineNotice
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrInvalidInput)
	}

	return s.profiles.UpdateRestaurantProfile(ctx, tc.RestaurantID, updates)
}

func (s *Service) openSession(ctx context.Context, restaurant *models.Restaurant) (*AuthResult, error) {
	token, expiresAt, err := utils.GenerateToken(s.jwtSecret, restaurant.ID, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	session := &models.Session{
		RestaurantID: restaurant.ID,
		Token:        token,
		ExpiresAt:    expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}

	return &AuthResult{Restaurant: restaurant, Token: token, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
