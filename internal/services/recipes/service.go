package recipes

import (
	"context"
	"errors"
	"fmt"
	"strings"

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
	Name         string
	Category     *string
	Description  *string
	PrepTime     *string
	PortionYield *int
	Ingredients  []string
	Instructions []string
}

func (s *Service) Create(ctx context.Context, tc tenant.Context, in Input) (*models.Recipe, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: recipe name is required", apperrors.ErrInvalidInput)
	}

	recipe := &models.Recipe{
		RestaurantID: tc.RestaurantID,
		Name:         name,
		Category:     in.Category,
		Description:  in.Description,
		PrepTime:     in.PrepTime,
		PortionYield: 1,
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
	}
	if in.PortionYield != nil {
		if *in.PortionYield <= 0 {
			return nil, fmt.Errorf("%w: portion yield must be positive", apperrors.ErrInvalidInput)
		}
		recipe.PortionYield = *in.PortionYield
	}

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, apperrors.FromDB(err)
	}
	return recipe, nil
}

func (s *Service) List(ctx context.Context, tc tenant.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", tc.RestaurantID).
		Order("name asc").
		Find(&recipes).Error
	if err != nil {
		return nil, apperrors.FromDB(err)
	}
	return recipes, nil
}

func (s *Service) Get(ctx context.Context, tc tenant.Context, recipeID string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", recipeID, tc.RestaurantID).
		First(&recipe).Error
	if err != nil {
		if errors.Is(apperrors.FromDB(err), apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: recipe not found", apperrors.ErrNotFound)
		}
		return nil, apperrors.FromDB(err)
	}
	return &recipe, nil
}

func (s *Service) Update(ctx context.Context, tc tenant.Context, recipeID string, in Input) (*models.Recipe, error) {
	updates := map[string]interface{}{}
	if name := strings.TrimSpace(in.Name); name != "" {
		updates["name"] = name
	}
	if in.Category != nil {
		updates["category"] = *in.Category
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.PrepTime != nil {
		updates["prep_time"] = *in.PrepTime
	}
	if in.PortionYield != nil {
		if *in.PortionYield <= 0 {
			return nil, fmt.Errorf("%w: portion yield must be positive", apperrors.ErrInvalidInput)
		}
		updates["portion_yield"] = *in.PortionYield
	}
	if in.Ingredients != nil {
		updates["ingredients"] = models.StringArray(in.Ingredients)
	}
	if in.Instructions != nil {
		updates["instructions"] = models.StringArray(in.Instructions)
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrInvalidInput)
	}

	res := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ? AND restaurant_id = ?", recipeID, tc.RestaurantID).
		Updates(updates)
	if res.Error != nil {
		return nil, apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: recipe not found", apperrors.ErrNotFound)
	}
	return s.Get(ctx, tc, recipeID)
}

func (s *Service) Delete(ctx context.Context, tc tenant.Context, recipeID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", recipeID, tc.RestaurantID).
		Delete(&models.Recipe{})
	if res.Error != nil {
		return apperrors.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: recipe not found", apperrors.ErrNotFound)
	}
	return nil
}
