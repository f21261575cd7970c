package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/enums"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/pagination"
)

// Service exposes catalog operations for controllers and checkout.
type Service interface {
	CreateArtist(ctx context.Context, input CreateArtistInput) (*models.Artist, error)
	GetArtist(ctx context.Context, id uuid.UUID) (*models.Artist, error)
	ListArtists(ctx context.Context, params pagination.Params) (*ArtistList, error)
	UpdateArtist(ctx context.Context, id uuid.UUID, input UpdateArtistInput) error
	DeleteArtist(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductByName(ctx context.Context, name string, artistName *string) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// CreateArtistInput carries the fields accepted when registering an artist.
type CreateArtistInput struct {
	Name        string
	Description string
	Photo       *string
}

// UpdateArtistInput carries optional artist profile edits.
type UpdateArtistInput struct {
	Name        *string
	Description *string
	Photo       *string
}

// CreateProductInput carries the fields accepted when listing a product.
type CreateProductInput struct {
	ArtistID    uuid.UUID
	Name        string
	Genre       string
	Kind        string
	Description string
	Stock       int
	Price       decimal.Decimal
	IsNew       bool
	Image       *string
}

// UpdateProductInput carries optional product edits.
type UpdateProductInput struct {
	Name        *string
	Genre       *string
	Kind        *string
	Description *string
	Stock       *int
	Price       *decimal.Decimal
	IsNew       *bool
	Image       *string
}

func (s *service) CreateArtist(ctx context.Context, input CreateArtistInput) (*models.Artist, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artist name is required")
	}

	artist := &models.Artist{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Photo:       input.Photo,
	}
	created, err := s.repo.CreateArtist(ctx, artist)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating artist")
	}
	return created, nil
}

func (s *service) GetArtist(ctx context.Context, id uuid.UUID) (*models.Artist, error) {
	artist, err := s.repo.FindArtistByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "artist not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetching artist")
	}
	return artist, nil
}

func (s *service) ListArtists(ctx context.Context, params pagination.Params) (*ArtistList, error) {
	list, err := s.repo.ListArtists(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing artists")
	}
	return list, nil
}

func (s *service) UpdateArtist(ctx context.Context, id uuid.UUID, input UpdateArtistInput) error {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "artist name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Photo != nil {
		updates["photo"] = *input.Photo
	}
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if _, err := s.GetArtist(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateArtist(ctx, id, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating artist")
	}
	return nil
}

func (s *service) DeleteArtist(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetArtist(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteArtist(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting artist")
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	genre, err := enums.ParseGenre(input.Genre)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	kind, err := enums.ParseProductKind(input.Kind)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if _, err := s.GetArtist(ctx, input.ArtistID); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          uuid.New(),
		ArtistID:    input.ArtistID,
		Name:        name,
		Genre:       genre,
		Kind:        kind,
		Description: strings.TrimSpace(input.Description),
		Stock:       input.Stock,
		Price:       input.Price,
		IsNew:       input.IsNew,
		Image:       input.Image,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return created, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetching product")
	}
	return product, nil
}

func (s *service) FindProductByName(ctx context.Context, name string, artistName *string) (*models.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	product, err := s.repo.FindProductByName(ctx, name, artistName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up product by name")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error) {
	if filters.Genre != nil {
		if _, err := enums.ParseGenre(*filters.Genre); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
	}
	if filters.Kind != nil {
		if _, err := enums.ParseProductKind(*filters.Kind); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
	}
	list, err := s.repo.ListProducts(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return list, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) error {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Genre != nil {
		genre, err := enums.ParseGenre(*input.Genre)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		updates["genre"] = genre
	}
	if input.Kind != nil {
		kind, err := enums.ParseProductKind(*input.Kind)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		updates["kind"] = kind
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		updates["stock"] = *input.Stock
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.IsNew != nil {
		updates["is_new"] = *input.IsNew
	}
	if input.Image != nil {
		updates["image"] = *input.Image
	}
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateProduct(ctx, id, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}
