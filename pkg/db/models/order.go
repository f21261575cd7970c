package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the durable record of a completed purchase. Immutable after
// checkout except for staff correction edits.
type Order struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID    uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;index"`
	TotalQuantity int             `gorm:"column:total_quantity;not null"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Lines         []OrderLine     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Customer      *Customer       `gorm:"foreignKey:CustomerID"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
