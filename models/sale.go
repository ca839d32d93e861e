package models

import "time"

// PaymentMethod type for payment methods
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentEFT  PaymentMethod = "eft"
)

// Valid reports whether the payment method is one of the accepted values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentEFT:
		return true
	}
	return false
}

// SaleStatus type for the fulfillment status of online orders.
// In-person sales are completed at the counter and never transition.
type SaleStatus string

const (
	SalePending   SaleStatus = "pending"
	SaleCompleted SaleStatus = "completed"
	SaleCancelled SaleStatus = "cancelled"
)

// Sale represents the sales table. Financial fields (total, lines) are
// immutable after creation; only status and handler attribution change
// post-creation, via the fulfillment workflow.
type Sale struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	SaleNumber      string        `gorm:"type:varchar(30);not null;unique" json:"sale_number"`
	TotalAmount     float64       `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaymentMethod   PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	CustomerName    *string       `gorm:"type:varchar(200)" json:"customer_name,omitempty"`
	CustomerContact *string       `gorm:"type:varchar(200)" json:"customer_contact,omitempty"`
	SoldBy          *uint         `json:"sold_by,omitempty"`
	IsOnline        bool          `gorm:"not null;default:false" json:"is_online"`
	Status          SaleStatus    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	HandledBy       *uint         `json:"handled_by,omitempty"`
	HandledAt       *time.Time    `json:"handled_at,omitempty"`
	SaleDate        time.Time     `gorm:"not null" json:"sale_date"`
	CreatedAt       time.Time     `json:"created_at"`
}

// TableName specifies the table name for Sale
func (Sale) TableName() string {
	return "sales"
}

// SaleItem represents the sale_items table. Item name and unit price are
// denormalized at sale time so historical receipts are unaffected by later
// catalog edits.
type SaleItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SaleID      uint      `gorm:"not null;index" json:"sale_id"`
	InventoryID uint      `gorm:"not null" json:"inventory_id"`
	ItemName    string    `gorm:"type:varchar(200);not null" json:"item_name"`
	Quantity    int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice   float64   `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal    float64   `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	CreatedAt   time.Time `json:"created_at"`

	// Relationships
	Sale Sale `gorm:"foreignKey:SaleID" json:"sale,omitempty"`
}

// TableName specifies the table name for SaleItem
func (SaleItem) TableName() string {
	return "sale_items"
}

// SaleCounter backs the sale number generator with one row per day.
// The counter is bumped with an atomic UPDATE inside the checkout
// transaction, so allocated numbers are unique and monotonic within a day.
type SaleCounter struct {
	Day     string `gorm:"type:varchar(8);primaryKey" json:"day"`
	Counter int    `gorm:"not null;default:0" json:"counter"`
}

// TableName specifies the table name for SaleCounter
func (SaleCounter) TableName() string {
	return "sale_counters"
}
