package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrdine-system/internal/services/menu"
)

type MenuHandler struct {
	menu *menu.Service
}

func NewMenuHandler(svc *menu.Service) *MenuHandler {
	return &MenuHandler{menu: svc}
}

type CategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

type MenuItemRequest struct {
	CategoryID   string   `json:"category_id"`
	Name         string   `json:"name"`
	Description  *string  `json:"description"`
	Price        string   `json:"price"`
	ImageURL     *string  `json:"image_url"`
	IsAvailable  *bool    `json:"is_available"`
	IsVegetarian *bool    `json:"is_vegetarian"`
	IsVegan      *bool    `json:"is_vegan"`
	Allergens    []string `json:"allergens"`
	SortOrder    *int     `json:"sort_order"`
}

// Public serves the customer-facing menu; the identifier may be a restaurant
// or a table ID.
func (h *MenuHandler) Public(c *gin.Context) {
	result, err := h.menu.Public(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Menu retrieved successfully", result))
}

func (h *MenuHandler) ListCategories(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	categories, err := h.menu.ListCategories(c.Request.Context(), tc)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Categories retrieved successfully", categories))
}

func (h *MenuHandler) ListCategoryItems(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	items, err := h.menu.ListCategoryItems(c.Request.Context(), tc, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Menu items retrieved successfully", items))
}

func (h *MenuHandler) CreateCategory(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	category, err := h.menu.CreateCategory(c.Request.Context(), tc, menu.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("Category created successfully", category))
}

func (h *MenuHandler) UpdateCategory(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	category, err := h.menu.UpdateCategory(c.Request.Context(), tc, c.Param("id"), menu.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Category updated successfully", category))
}

func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	if err := h.menu.DeleteCategory(c.Request.Context(), tc, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Category deleted successfully", nil))
}

func (h *MenuHandler) CreateItem(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	item, err := h.menu.CreateItem(c.Request.Context(), tc, menu.ItemInput{
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		IsAvailable:  req.IsAvailable,
		IsVegetarian: req.IsVegetarian,
		IsVegan:      req.IsVegan,
		Allergens:    req.Allergens,
		SortOrder:    req.SortOrder,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("Menu item created successfully", item))
}

func (h *MenuHandler) UpdateItem(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	item, err := h.menu.UpdateItem(c.Request.Context(), tc, c.Param("id"), menu.ItemInput{
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		IsAvailable:  req.IsAvailable,
		IsVegetarian: req.IsVegetarian,
		IsVegan:      req.IsVegan,
		Allergens:    req.Allergens,
		SortOrder:    req.SortOrder,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Menu item updated successfully", item))
}

func (h *MenuHandler) DeleteItem(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	if err := h.menu.DeleteItem(c.Request.Context(), tc, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Menu item deleted successfully", nil))
}
