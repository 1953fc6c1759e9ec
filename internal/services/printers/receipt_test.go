package printers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"qrdine-system/internal/database/models"
)

func TestOrderNumber(t *testing.T) {
	assert.Equal(t, "A1B2C3D4", OrderNumber("a1b2c3d4-e5f6-7890-abcd-ef1234567890"))
	assert.Equal(t, "ABC", OrderNumber("abc"))
}

func TestRenderKitchenTicket(t *testing.T) {
	instructions := "no onions"
	notes := "Allergy at the table"
	order := &models.Order{
		ID:          "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		TableNumber: "12",
		TotalAmount: "31.50",
		Notes:       &notes,
		CreatedAt:   time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC),
		OrderItems: []models.OrderItem{
			{ItemName: "Burger", Quantity: 2, TotalPrice: "19.00", SpecialInstructions: &instructions},
			{ItemName: "Fries", Quantity: 1, TotalPrice: "12.50"},
		},
	}

	payload := string(RenderKitchenTicket("Trattoria", order))

	assert.Contains(t, payload, "Trattoria")
	assert.Contains(t, payload, "ORDER #A1B2C3D4")
	assert.Contains(t, payload, "Table: 12")
	assert.Contains(t, payload, "2x Burger")
	assert.Contains(t, payload, ">> no onions")
	assert.Contains(t, payload, "$19.00")
	assert.Contains(t, payload, "1x Fries")
	assert.Contains(t, payload, "$12.50")
	assert.Contains(t, payload, "Notes: Allergy at the table")
	assert.Contains(t, payload, "TOTAL: 31.50")
	// starts with printer init, ends with feed-and-cut
	assert.Equal(t, string(escInit), payload[:2])
	assert.Equal(t, string(escFeedAndCut), payload[len(payload)-len(escFeedAndCut):])
}

func TestRenderItemLabel(t *testing.T) {
	preparedBy := "Ana"
	label := &models.ItemLabel{
		LabelName:  "Tomato Sauce",
		TicketID:   "TKT-A1B2C3D4",
		TrackCode:  "042",
		PreparedBy: &preparedBy,
		PreparedAt: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		ExpiresAt:  time.Date(2025, 3, 16, 9, 0, 0, 0, time.UTC),
	}

	payload := string(RenderItemLabel(label))

	assert.Contains(t, payload, "Tomato Sauce")
	assert.Contains(t, payload, "TKT-A1B2C3D4  #042")
	assert.Contains(t, payload, "By: Ana")
	assert.Contains(t, payload, "Expires:  09:00 16/03")
}
