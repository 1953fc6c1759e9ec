package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrdine-system/internal/services/recipes"
)

type RecipeHandler struct {
	recipes *recipes.Service
}

func NewRecipeHandler(svc *recipes.Service) *RecipeHandler {
	return &RecipeHandler{recipes: svc}
}

type RecipeRequest struct {
	Name         string   `json:"name"`
	Category     *string  `json:"category"`
	Description  *string  `json:"description"`
	PrepTime     *string  `json:"prep_time"`
	PortionYield *int     `json:"portion_yield"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

func (r RecipeRequest) toInput() recipes.Input {
	return recipes.Input{
		Name:         r.Name,
		Category:     r.Category,
		Description:  r.Description,
		PrepTime:     r.PrepTime,
		PortionYield: r.PortionYield,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
	}
}

func (h *RecipeHandler) Create(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), tc, req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("Recipe created successfully", recipe))
}

func (h *RecipeHandler) List(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	list, err := h.recipes.List(c.Request.Context(), tc)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Recipes retrieved successfully", list))
}

func (h *RecipeHandler) Get(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), tc, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Recipe retrieved successfully", recipe))
}

func (h *RecipeHandler) Update(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), tc, c.Param("id"), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Recipe updated successfully", recipe))
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), tc, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Recipe deleted successfully", nil))
}
