package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the storefront profile orders and carts hang off.
//
// IdentityID is nil for customers created during anonymous checkout; Email is
// the unique business key either way.
type Customer struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	IdentityID  *uuid.UUID `gorm:"column:identity_id;type:uuid;uniqueIndex"`
	Name        string     `gorm:"column:name;not null;default:''"`
	Email       string     `gorm:"column:email;not null;uniqueIndex"`
	Phone       string     `gorm:"column:phone;not null;default:''"`
	Address     string     `gorm:"column:address;not null;default:''"`
	PostalCode  *int       `gorm:"column:postal_code"`
	AvatarImage *string    `gorm:"column:avatar_image"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
