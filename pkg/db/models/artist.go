package models

import (
	"time"

	"github.com/google/uuid"
)

// Artist represents a catalog artist with 1-N products.
type Artist struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Description string    `gorm:"column:description;not null;default:''"`
	Photo       *string   `gorm:"column:photo"`
	Products    []Product `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
