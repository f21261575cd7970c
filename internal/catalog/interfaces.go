package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/pagination"
)

// Repository defines persistence operations for artists and products.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateArtist(ctx context.Context, artist *models.Artist) (*models.Artist, error)
	FindArtistByID(ctx context.Context, id uuid.UUID) (*models.Artist, error)
	ListArtists(ctx context.Context, params pagination.Params) (*ArtistList, error)
	UpdateArtist(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteArtist(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductByName(ctx context.Context, name string, artistName *string) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SaveProduct(ctx context.Context, product *models.Product) error

	// LockProductsForUpdate acquires FOR UPDATE row locks on exactly the
	// given product ids and returns the locked rows keyed by id. Must be
	// called inside a transaction.
	LockProductsForUpdate(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)

	// DecrementStock lowers a product's stock by qty inside the caller's
	// transaction, flooring the result at zero.
	DecrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

// ProductFilters narrows product listings.
type ProductFilters struct {
	ArtistID *uuid.UUID
	Genre    *string
	Kind     *string
	IsNew    *bool
}

// ProductList is one page of products plus the cursor for the next page.
type ProductList struct {
	Products   []models.Product
	NextCursor *string
}

// ArtistList is one page of artists plus the cursor for the next page.
type ArtistList struct {
	Artists    []models.Artist
	NextCursor *string
}
