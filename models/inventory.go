package models

import "time"

// InventoryItem represents the inventory table
type InventoryItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ItemCode     string    `gorm:"type:varchar(50);not null;unique" json:"item_code"`
	ItemName     string    `gorm:"type:varchar(200);not null" json:"item_name"`
	Category     string    `gorm:"type:varchar(100);not null" json:"category"`
	Description  *string   `gorm:"type:text" json:"description,omitempty"`
	ImageURL     *string   `gorm:"type:varchar(500)" json:"image_url,omitempty"`
	Quantity     int       `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	UnitPrice    float64   `gorm:"type:decimal(12,2);not null;check:unit_price >= 0" json:"unit_price"`
	ReorderLevel int       `gorm:"not null;default:10" json:"reorder_level"`
	Supplier     *string   `gorm:"type:varchar(200)" json:"supplier,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for InventoryItem
func (InventoryItem) TableName() string {
	return "inventory"
}
