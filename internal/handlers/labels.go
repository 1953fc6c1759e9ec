package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"qrdine-system/internal/services/labels"
)

type LabelHandler struct {
	labels *labels.Service
}

func NewLabelHandler(svc *labels.Service) *LabelHandler {
	return &LabelHandler{labels: svc}
}

type LabelRequest struct {
	MenuItemID string     `json:"menu_item_id"`
	LabelName  string     `json:"label_name"`
	TicketID   *string    `json:"ticket_id"`
	PreparedBy *string    `json:"prepared_by"`
	PreparedAt *time.Time `json:"prepared_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	PrintedBy  *string    `json:"printed_by"`
	PrintedAt  *time.Time `json:"printed_at"`
	TrackCode  *string    `json:"track_code"`
	Notes      *string    `json:"notes"`
}

func (r LabelRequest) toInput() labels.Input {
	return labels.Input{
		MenuItemID: r.MenuItemID,
		LabelName:  r.LabelName,
		TicketID:   r.TicketID,
		PreparedBy: r.PreparedBy,
		PreparedAt: r.PreparedAt,
		ExpiresAt:  r.ExpiresAt,
		PrintedBy:  r.PrintedBy,
		PrintedAt:  r.PrintedAt,
		TrackCode:  r.TrackCode,
		Notes:      r.Notes,
	}
}

func (h *LabelHandler) Create(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	label, err := h.labels.Create(c.Request.Context(), tc, req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("Label created successfully", label))
}

func (h *LabelHandler) List(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	list, err := h.labels.List(c.Request.Context(), tc)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Labels retrieved successfully", list))
}

func (h *LabelHandler) Get(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	label, err := h.labels.Get(c.Request.Context(), tc, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Label retrieved successfully", label))
}

func (h *LabelHandler) Update(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	var req LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	label, err := h.labels.Update(c.Request.Context(), tc, c.Param("id"), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Label updated successfully", label))
}

func (h *LabelHandler) Delete(c *gin.Context) {
	tc, ok := requireTenant(c)
	if !ok {
		return
	}

	if err := h.labels.Delete(c.Request.Context(), tc, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Label deleted successfully", nil))
}
