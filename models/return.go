package models

import "time"

// ReturnStatus type for the returns state machine
type ReturnStatus string

const (
	ReturnPending   ReturnStatus = "pending"
	ReturnApproved  ReturnStatus = "approved"
	ReturnRejected  ReturnStatus = "rejected"
	ReturnCompleted ReturnStatus = "completed"
)

// Return represents the returns table. A return weakly references its sale:
// lookup only, no cascading ownership.
type Return struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	SaleID        uint         `gorm:"not null;index" json:"sale_id"`
	Reason        string       `gorm:"type:text;not null" json:"reason"`
	WarrantyClaim bool         `gorm:"not null;default:false" json:"warranty_claim"`
	Status        ReturnStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	RefundAmount  *float64     `gorm:"type:decimal(12,2)" json:"refund_amount,omitempty"`
	Notes         *string      `gorm:"type:text" json:"notes,omitempty"`
	RequestedBy   *uint        `json:"requested_by,omitempty"`
	ProcessedBy   *uint        `json:"processed_by,omitempty"`
	ProcessedAt   *time.Time   `json:"processed_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`

	// Relationships
	Sale Sale `gorm:"foreignKey:SaleID" json:"sale,omitempty"`
}

// TableName specifies the table name for Return
func (Return) TableName() string {
	return "returns"
}
