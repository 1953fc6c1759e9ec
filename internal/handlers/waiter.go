package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrdine-system/internal/services/waiter"
)

type WaiterHandler struct {
	waiter *waiter.Service
}

func NewWaiterHandler(svc *waiter.Service) *WaiterHandler {
	return &WaiterHandler{waiter: svc}
}

type CreateWaiterCallRequest struct {
	TableID      string  `json:"table_id" binding:"required"`
	RestaurantID string  `json:"restaurant_id"`
	Message      *string `json:"message"`
}

type RespondWaiterCallRequest struct {
	Message *string `json:"message"`
}

// Create is the public customer endpoint for calling a waiter.
func (h *WaiterHandler) Create(c *gin.Context) {
	var req CreateWaiterCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	call, err := h.waiter.Create(c.Request.Context(), waiter.CreateInput{
		TableID:      req.TableID,
		RestaurantID: req.RestaurantID,
		Message:      req.Message,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("Waiter called successfully", call))
}

// Status is the public polling endpoint for a call's state. The caller must
// supply the table the call belongs to via the tableId query parameter.
func (h *WaiterHandler) Status(c *gin.Context) {
	call, err := h.waiter.Status(c.Request.Context(), c.Param("id"), c.Query("tableId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Call status retrieved successfully", call))
}

func (h *WaiterHandler) List(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	calls, err := h.waiter.List(c.Request.Context(), tc, c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Waiter calls retrieved successfully", calls))
}

func (h *WaiterHandler) Respond(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req RespondWaiterCallRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
			return
		}
	}

	call, err := h.waiter.Respond(c.Request.Context(), tc, c.Param("id"), req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Call responded", call))
}

func (h *WaiterHandler) Resolve(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	call, err := h.waiter.Resolve(c.Request.Context(), tc, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Call resolved", call))
}
