package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order lifecycle states. Initial state is pending; finished and rejected are
// terminal.
const (
	OrderStatusPending  = "pending"
	OrderStatusAccepted = "accepted"
	OrderStatusCooking  = "cooking"
	OrderStatusFinished = "finished"
	OrderStatusRejected = "rejected"
)

const (
	CallStatusOpen      = "open"
	CallStatusResponded = "responded"
	CallStatusResolved  = "resolved"
)

// Printer transports. Only escpos printers are dispatched to directly;
// printnode entries are records for an external relay.
const (
	PrinterTypeESCPOS    = "escpos"
	PrinterTypePrintNode = "printnode"
)

// StringArray stores an ordered list of strings (allergens, ingredients,
// instructions) as a JSON text column.
type StringArray []string

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = []string{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan StringArray: %v", value)
	}
	return json.Unmarshal(bytes, a)
}

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

type Restaurant struct {
	ID           string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string  `gorm:"type:varchar(128);not null" json:"name"`
	Email        string  `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"type:varchar(128);not null" json:"-"`
	Phone        *string `gorm:"type:varchar(32)" json:"phone"`
	Address      *string `gorm:"type:text" json:"address"`
	LogoURL      *string `gorm:"type:varchar(256)" json:"logo_url"`
	ThemeColor   *string `gorm:"type:varchar(32)" json:"theme_color"`
	IsActive     bool    `gorm:"not null;default:true" json:"is_active"`

	// Optional service-availability columns; older schemas may not have them,
	// see the resolver's reduced-column fallback.
	IsAcceptingOrders bool    `gorm:"not null;default:true" json:"is_accepting_orders"`
	ServiceHours      *string `gorm:"type:text" json:"service_hours"`
	OfflineNotice     *string `gorm:"type:text" json:"offline_notice"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type Session struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID string    `gorm:"type:uuid;index;not null" json:"restaurant_id"`
	Token        string    `gorm:"type:varchar(512);uniqueIndex;not null" json:"-"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type Table struct {
	ID           string  `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID string  `gorm:"type:uuid;not null;uniqueIndex:idx_restaurant_table" json:"restaurant_id"`
	TableNumber  string  `gorm:"type:varchar(16);not null;uniqueIndex:idx_restaurant_table" json:"table_number"`
	IsActive     bool    `gorm:"not null;default:true" json:"is_active"`
	QRCodeURL    *string `gorm:"type:varchar(256)" json:"qr_code_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type MenuCategory struct {
	ID           string  `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID string  `gorm:"type:uuid;index;not null" json:"restaurant_id"`
	Name         string  `gorm:"type:varchar(128);not null" json:"name"`
	Description  *string `gorm:"type:text" json:"description"`
	SortOrder    int     `gorm:"not null;default:0" json:"sort_order"`
	IsActive     bool    `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	MenuItems []MenuItem `gorm:"foreignKey:CategoryID" json:"menu_items,omitempty"`
}

func (c *MenuCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type MenuItem struct {
	ID           string      `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID string      `gorm:"type:uuid;index;not null" json:"restaurant_id"`
	CategoryID   string      `gorm:"type:uuid;index;not null" json:"category_id"`
	Name         string      `gorm:"type:varchar(128);not null" json:"name"`
	Description  *string     `gorm:"type:text" json:"description"`
	Price        string      `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL     *string     `gorm:"type:varchar(256)" json:"image_url"`
	IsAvailable  bool        `gorm:"not null;default:true" json:"is_available"`
	IsVegetarian bool        `gorm:"not null;default:false" json:"is_vegetarian"`
	IsVegan      bool        `gorm:"not null;default:false" json:"is_vegan"`
	Allergens    StringArray `gorm:"type:text" json:"allergens"`
	SortOrder    int         `gorm:"not null;default:0" json:"sort_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type Order struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID string `gorm:"type:uuid;index;not null" json:"restaurant_id"`
	TableID      string `gorm:"type:uuid;index;not null" json:"table_id"`
	// Snapshot of the table number at creation time.
	TableNumber   string  `gorm:"type:varchar(16);not null" json:"table_number"`
	CustomerName  *string `gorm:"type:varchar(128)" json:"customer_name"`
	CustomerPhone *string `gorm:"type:varchar(32)" json:"customer_phone"`
	TotalAmount   string  `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status        string  `gorm:"type:varchar(16);index;not null;default:'pending'" json:"status"`
	Notes         *string `gorm:"type:text" json:"notes"`

	PreparationTime *int    `json:"preparation_time"`
	RejectionReason *string `gorm:"type:text" json:"rejection_reason"`

	AcceptedAt       *time.Time `json:"accepted_at"`
	RejectedAt       *time.Time `json:"rejected_at"`
	CookingStartedAt *time.Time `json:"cooking_started_at"`
	FinishedAt       *time.Time `json:"finished_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem is immutable once created; name and unit price are captured by
// value so later menu edits never alter historical orders.
type OrderItem struct {
	ID                  string  `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID             string  `gorm:"type:uuid;index;not null" json:"order_id"`
	MenuItemID          string  `gorm:"type:uuid;not null" json:"menu_item_id"`
	ItemName            string  `gorm:"type:varchar(128);not null" json:"item_name"`
	Quantity            int     `gorm:"not null" json:"quantity"`
	UnitPrice           string  `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice          string  `gorm:"type:decimal(10,2);not null" json:"total_price"`
	SpecialInstructions *string `gorm:"type:text" json:"special_instructions"`

	CreatedAt time.Time `json:"created_at"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type WaiterCall struct {
	ID              string     `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID    string     `gorm:"type:uuid;index;not null" json:"restaurant_id"`
	TableID         string     `gorm:"type:uuid;index;not null" json:"table_id"`
	TableNumber     string     `gorm:"type:varchar(16);not null" json:"table_number"`
	CustomerMessage *string    `gorm:"type:varchar(280)" json:"customer_message"`
	ResponseMessage *string    `gorm:"type:varchar(180)" json:"response_message"`
	Status          string     `gorm:"type:varchar(16);index;not null;default:'open'" json:"status"`
	RespondedAt     *time.Time `json:"responded_at"`
	ResolvedAt      *time.Time `json:"resolved_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *WaiterCall) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

type Printer struct {
	ID               string  `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID     string  `gorm:"type:uuid;index;not null" json:"restaurant_id"`
	Name             string  `gorm:"type:varchar(128);not null" json:"name"`
	PrinterType      string  `gorm:"type:varchar(32);not null" json:"printer_type"`
	ConnectionString *string `gorm:"type:varchar(256)" json:"connection_string"`
	PrintNodeID      *string `gorm:"type:varchar(64)" json:"printnode_id"`
	IsActive         bool    `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Printer) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Recipe struct {
	ID           string      `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID string      `gorm:"type:uuid;index;not null" json:"restaurant_id"`
	Name         string      `gorm:"type:varchar(128);not null" json:"name"`
	Category     *string     `gorm:"type:varchar(64)" json:"category"`
	Description  *string     `gorm:"type:text" json:"description"`
	PrepTime     *string     `gorm:"type:varchar(32)" json:"prep_time"`
	PortionYield int         `gorm:"not null;default:1" json:"portion_yield"`
	Ingredients  StringArray `gorm:"type:text" json:"ingredients"`
	Instructions StringArray `gorm:"type:text" json:"instructions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type ItemLabel struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID string     `gorm:"type:uuid;index;not null" json:"restaurant_id"`
	MenuItemID   string     `gorm:"type:uuid;not null" json:"menu_item_id"`
	LabelName    string     `gorm:"type:varchar(128);not null" json:"label_name"`
	TicketID     string     `gorm:"type:varchar(32);not null" json:"ticket_id"`
	PreparedBy   *string    `gorm:"type:varchar(128)" json:"prepared_by"`
	PreparedAt   time.Time  `gorm:"not null" json:"prepared_at"`
	ExpiresAt    time.Time  `gorm:"not null" json:"expires_at"`
	PrintedBy    *string    `gorm:"type:varchar(128)" json:"printed_by"`
	PrintedAt    *time.Time `json:"printed_at"`
	TrackCode    string     `gorm:"type:varchar(3);not null" json:"track_code"`
	Notes        *string    `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *ItemLabel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
