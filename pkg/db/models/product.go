package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/enums"
)

// Product represents one sellable record-store listing.
//
// Stock is the available-to-sell unit count; checkout is the only writer that
// may decrement it and must never leave it negative.
type Product struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ArtistID    uuid.UUID         `gorm:"column:artist_id;type:uuid;not null;index"`
	Name        string            `gorm:"column:name;not null"`
	Genre       enums.Genre       `gorm:"column:genre;not null"`
	Kind        enums.ProductKind `gorm:"column:kind;not null"`
	Description string            `gorm:"column:description;not null;default:''"`
	Stock       int               `gorm:"column:stock;not null;default:0"`
	Price       decimal.Decimal   `gorm:"column:price;type:numeric(8,2);not null"`
	IsNew       bool              `gorm:"column:is_new;not null;default:false"`
	Image       *string           `gorm:"column:image"`
	Artist      *Artist           `gorm:"foreignKey:ArtistID"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
