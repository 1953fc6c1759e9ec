package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrdine-system/internal/services/tables"
)

type TableHandler struct {
	tables *tables.Service
}

func NewTableHandler(svc *tables.Service) *TableHandler {
	return &TableHandler{tables: svc}
}

type CreateTableRequest struct {
	TableNumber string `json:"table_number" binding:"required"`
}

type UpdateTableRequest struct {
	TableNumber *string `json:"table_number"`
	IsActive    *bool   `json:"is_active"`
}

func (h *TableHandler) List(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	list, err := h.tables.List(c.Request.Context(), tc)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Tables retrieved successfully", list))
}

func (h *TableHandler) Create(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	table, err := h.tables.Create(c.Request.Context(), tc, req.TableNumber)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("Table created successfully", table))
}

func (h *TableHandler) Update(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	table, err := h.tables.Update(c.Request.Context(), tc, c.Param("id"), tables.UpdateInput{
		TableNumber: req.TableNumber,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Table updated successfully", table))
}

func (h *TableHandler) Delete(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	if err := h.tables.Delete(c.Request.Context(), tc, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Table deleted successfully", nil))
}

func (h *TableHandler) GenerateQRCode(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	table, err := h.tables.GenerateOne(c.Request.Context(), tc, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("QR code generated successfully", table))
}

func (h *TableHandler) GenerateQRCodes(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	generated, err := h.tables.GenerateAll(c.Request.Context(), tc)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("QR codes generated successfully", map[string]interface{}{
		"generated": generated,
	}))
}
