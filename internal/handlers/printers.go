package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrdine-system/internal/services/auth"
	"qrdine-system/internal/services/labels"
	"qrdine-system/internal/services/orders"
	"qrdine-system/internal/services/printers"
)

type PrinterHandler struct {
	printers *printers.Service
	orders   *orders.Service
	labels   *labels.Service
	auth     *auth.Service
}

func NewPrinterHandler(p *printers.Service, o *orders.Service, l *labels.Service, a *auth.Service) *PrinterHandler {
	return &PrinterHandler{printers: p, orders: o, labels: l, auth: a}
}

type PrinterRequest struct {
	Name             string  `json:"name"`
	PrinterType      string  `json:"printer_type"`
	ConnectionString *string `json:"connection_string"`
	PrintNodeID      *string `json:"printnode_id"`
	IsActive         *bool   `json:"is_active"`
}

type PrintOrderRequest struct {
	PrinterID string `json:"printer_id" binding:"required"`
	OrderID   string `json:"order_id" binding:"required"`
}

type PrintLabelRequest struct {
	PrinterID string `json:"printer_id" binding:"required"`
	LabelID   string `json:"label_id" binding:"required"`
}

func (h *PrinterHandler) List(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	list, err := h.printers.List(c.Request.Context(), tc)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Printers retrieved successfully", list))
}

func (h *PrinterHandler) Create(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req PrinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	printer, err := h.printers.Create(c.Request.Context(), tc, printers.Input{
		Name:             req.Name,
		PrinterType:      req.PrinterType,
		ConnectionString: req.ConnectionString,
		PrintNodeID:      req.PrintNodeID,
		IsActive:         req.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("Printer created successfully", printer))
}

func (h *PrinterHandler) Update(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req PrinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	printer, err := h.printers.Update(c.Request.Context(), tc, c.Param("id"), printers.Input{
		Name:             req.Name,
		PrinterType:      req.PrinterType,
		ConnectionString: req.ConnectionString,
		PrintNodeID:      req.PrintNodeID,
		IsActive:         req.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Printer updated successfully", printer))
}

func (h *PrinterHandler) Delete(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	if err := h.printers.Delete(c.Request.Context(), tc, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Printer deleted successfully", nil))
}

// PrintOrder sends a kitchen ticket for the given order to the given printer.
func (h *PrinterHandler) PrintOrder(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req PrintOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	order, err := h.orders.Get(c.Request.Context(), tc, req.OrderID)
	if err != nil {
		writeError(c, err)
		return
	}

	restaurant, err := h.auth.Profile(c.Request.Context(), tc)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.printers.PrintOrder(c.Request.Context(), tc, req.PrinterID, restaurant.Name, order); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Order sent to printer", nil))
}

type PrintOrderByIDRequest struct {
	PrinterID string `json:"printer_id"`
}

// PrintOrderByID sends a kitchen ticket for the order in the path to the
// printer named in the body, or to the restaurant's default escpos printer
// when none is named.
func (h *PrinterHandler) PrintOrderByID(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req PrintOrderByIDRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
			return
		}
	}

	order, err := h.orders.Get(c.Request.Context(), tc, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	printerID := req.PrinterID
	if printerID == "" {
		printer, derr := h.printers.Default(c.Request.Context(), tc)
		if derr != nil {
			writeError(c, derr)
			return
		}
		printerID = printer.ID
	}

	restaurant, err := h.auth.Profile(c.Request.Context(), tc)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.printers.PrintOrder(c.Request.Context(), tc, printerID, restaurant.Name, order); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Order sent to printer", nil))
}

// PrintLabel sends a prepared-item label to the given printer.
func (h *PrinterHandler) PrintLabel(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req PrintLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	label, err := h.labels.Get(c.Request.Context(), tc, req.LabelID)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.printers.PrintLabel(c.Request.Context(), tc, req.PrinterID, label); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Label sent to printer", nil))
}
