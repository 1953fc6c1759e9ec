package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"qrdine-system/internal/services/orders"
)

type OrderHandler struct {
	orders *orders.Service
}

func NewOrderHandler(svc *orders.Service) *OrderHandler {
	return &OrderHandler{orders: svc}
}

type OrderItemRequest struct {
	MenuItemID          string  `json:"menu_item_id" binding:"required"`
	Quantity            int     `json:"quantity" binding:"required,gt=0"`
	SpecialInstructions *string `json:"special_instructions"`
}

type CreateOrderRequest struct {
	RestaurantID  string             `json:"restaurant_id"`
	TableID       string             `json:"table_id" binding:"required"`
	CustomerName  *string            `json:"customer_name"`
	CustomerPhone *string            `json:"customer_phone"`
	Notes         *string            `json:"notes"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type ManualOrderRequest struct {
	TableID       string             `json:"table_id"`
	TableNumber   string             `json:"table_number"`
	CustomerName  *string            `json:"customer_name"`
	Summary       string             `json:"summary"`
	PaymentMethod string             `json:"payment_method"`
	TotalAmount   *float64           `json:"total_amount"`
	Items         []OrderItemRequest `json:"items"`
}

type AcceptOrderRequest struct {
	PreparationTime *int `json:"preparation_time"`
}

type RejectOrderRequest struct {
	Reason string `json:"reason"`
}

func toLineRequests(items []OrderItemRequest) []orders.LineRequest {
	lines := make([]orders.LineRequest, 0, len(items))
	for _, item := range items {
		lines = append(lines, orders.LineRequest{
			MenuItemID:          item.MenuItemID,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		})
	}
	return lines
}

// Create is the public customer endpoint behind the QR code.
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	order, err := h.orders.Create(c.Request.Context(), orders.CreateOrderInput{
		RestaurantID:  req.RestaurantID,
		TableID:       req.TableID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
		Items:         toLineRequests(req.Items),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("Order placed successfully", order))
}

// Status is the public polling endpoint; the order ID acts as the capability.
func (h *OrderHandler) Status(c *gin.Context) {
	order, err := h.orders.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Order status retrieved successfully", order))
}

func (h *OrderHandler) CreateManual(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req ManualOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	order, err := h.orders.CreateManual(c.Request.Context(), tc, orders.ManualOrderInput{
		TableID:       req.TableID,
		TableNumber:   req.TableNumber,
		CustomerName:  req.CustomerName,
		Summary:       req.Summary,
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   req.TotalAmount,
		Items:         toLineRequests(req.Items),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("Manual order created successfully", order))
}

func (h *OrderHandler) List(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	status := c.Param("status")
	if status == "" {
		status = c.Query("status")
	}

	list, err := h.orders.List(c.Request.Context(), tc, status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Orders retrieved successfully", list))
}

func (h *OrderHandler) Get(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), tc, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Order retrieved successfully", order))
}

func (h *OrderHandler) Accept(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req AcceptOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
			return
		}
	}

	order, err := h.orders.Accept(c.Request.Context(), tc, c.Param("id"), req.PreparationTime)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Order accepted successfully", order))
}

func (h *OrderHandler) Reject(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req RejectOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
			return
		}
	}

	order, err := h.orders.Reject(c.Request.Context(), tc, c.Param("id"), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Order rejected", order))
}

func (h *OrderHandler) StartCooking(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	order, err := h.orders.StartCooking(c.Request.Context(), tc, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Order is now cooking", order))
}

func (h *OrderHandler) Finish(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	order, err := h.orders.Finish(c.Request.Context(), tc, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Order finished", order))
}

func (h *OrderHandler) Stats(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid date format, expected YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	stats, err := h.orders.Stats(c.Request.Context(), tc, day)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Order statistics retrieved successfully", stats))
}
