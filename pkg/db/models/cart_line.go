package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one product+quantity entry within a cart. One line per product
// per cart; adds accumulate onto the existing line.
type CartLine struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	AddedAt   time.Time `gorm:"column:added_at;autoCreateTime"`
}
