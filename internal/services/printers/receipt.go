package printers

import (
	"bytes"
	"fmt"

	"qrdine-system/internal/database/models"
)

// ESC/POS control sequences.
var (
	escInit       = []byte{0x1b, 0x40}
	escAlignLeft  = []byte{0x1b, 0x61, 0x00}
	escAlignMid   = []byte{0x1b, 0x61, 0x01}
	escBoldOn     = []byte{0x1b, 0x45, 0x01}
	escBoldOff    = []byte{0x1b, 0x45, 0x00}
	escDoubleOn   = []byte{0x1d, 0x21, 0x11}
	escDoubleOff  = []byte{0x1d, 0x21, 0x00}
	escFeedAndCut = []byte{0x1b, 0x64, 0x04, 0x1d, 0x56, 0x00}
)

// RenderKitchenTicket produces the raw ESC/POS byte stream for an order
// ticket: centered header, table and time, each item with quantity, any
// special instructions and its line total, then notes and the order total.
func RenderKitchenTicket(restaurantName string, order *models.Order) []byte {
	var buf bytes.Buffer

	buf.Write(escInit)
	buf.Write(escAlignMid)
	buf.Write(escDoubleOn)
	buf.WriteString(restaurantName + "\n")
	buf.Write(escDoubleOff)
	buf.Write(escBoldOn)
	buf.WriteString("ORDER #" + OrderNumber(order.ID) + "\n")
	buf.Write(escBoldOff)
	buf.WriteString("--------------------------------\n")

	buf.Write(escAlignLeft)
	buf.WriteString("Table: " + order.TableNumber + "\n")
	if order.CustomerName != nil && *order.CustomerName != "" {
		buf.WriteString("Customer: " + *order.CustomerName + "\n")
	}
	buf.WriteString("Time: " + order.CreatedAt.Format("15:04 02/01/2006") + "\n")
	buf.WriteString("--------------------------------\n")

	for _, item := range order.OrderItems {
		buf.Write(escBoldOn)
		buf.WriteString(fmt.Sprintf("%dx %s\n", item.Quantity, item.ItemName))
		buf.Write(escBoldOff)
		if item.SpecialInstructions != nil && *item.SpecialInstructions != "" {
			buf.WriteString("   >> " + *item.SpecialInstructions + "\n")
		}
		buf.WriteString("   $" + item.TotalPrice + "\n")
	}

	if order.Notes != nil && *order.Notes != "" {
		buf.WriteString("--------------------------------\n")
		buf.WriteString("Notes: " + *order.Notes + "\n")
	}

	buf.WriteString("--------------------------------\n")
	buf.Write(escBoldOn)
	buf.WriteString("TOTAL: " + order.TotalAmount + "\n")
	buf.Write(escBoldOff)
	buf.Write(escFeedAndCut)

	return buf.Bytes()
}

// RenderItemLabel produces the ESC/POS stream for a prepared-item label with
// its ticket ID, track code and expiry.
func RenderItemLabel(label *models.ItemLabel) []byte {
	var buf bytes.Buffer

	buf.Write(escInit)
	buf.Write(escAlignMid)
	buf.Write(escBoldOn)
	buf.WriteString(label.LabelName + "\n")
	buf.Write(escBoldOff)
	buf.WriteString(label.TicketID + "  #" + label.TrackCode + "\n")

	buf.Write(escAlignLeft)
	buf.WriteString("Prepared: " + label.PreparedAt.Format("15:04 02/01") + "\n")
	buf.WriteString("Expires:  " + label.ExpiresAt.Format("15:04 02/01") + "\n")
	if label.PreparedBy != nil && *label.PreparedBy != "" {
		buf.WriteString("By: " + *label.PreparedBy + "\n")
	}
	buf.Write(escFeedAndCut)

	return buf.Bytes()
}

// OrderNumber derives the short human-facing order number from the order ID:
// the first eight characters, uppercased.
func OrderNumber(orderID string) string {
	number := orderID
	if len(number) > 8 {
		number = number[:8]
	}
	return toUpperASCII(number)
}

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}
