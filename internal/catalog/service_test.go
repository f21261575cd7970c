package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/pagination"
)

func paginationParams(limit int) pagination.Params {
	return pagination.Params{Limit: limit}
}

func TestServiceCreateProductValidation(t *testing.T) {
	t.Parallel()

	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	artist := seedArtist(t, db, "Los Bunkers")

	_, err = svc.CreateProduct(ctx, CreateProductInput{
		ArtistID: artist.ID,
		Name:     "",
		Genre:    "rock",
		Kind:     "vinyl",
		Price:    decimal.NewFromInt(10),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.CreateProduct(ctx, CreateProductInput{
		ArtistID: artist.ID,
		Name:     "Vida de Perros",
		Genre:    "polka",
		Kind:     "vinyl",
		Price:    decimal.NewFromInt(10),
	})
	require.Error(t, err)

	_, err = svc.CreateProduct(ctx, CreateProductInput{
		ArtistID: uuid.New(),
		Name:     "Vida de Perros",
		Genre:    "rock",
		Kind:     "vinyl",
		Price:    decimal.NewFromInt(10),
	})
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		ArtistID: artist.ID,
		Name:     "Vida de Perros",
		Genre:    "rock",
		Kind:     "vinyl",
		Stock:    12,
		Price:    decimal.RequireFromString("24.50"),
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, 12, created.Stock)
}

func TestServiceGetProductNotFound(t *testing.T) {
	t.Parallel()

	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	_, err = svc.GetProduct(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceUpdateProductRejectsNegativeStock(t *testing.T) {
	t.Parallel()

	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	artist := seedArtist(t, db, "Enjambre")
	product := seedProduct(t, db, artist.ID, "Proaño", 4, "27.00")

	negative := -1
	err = svc.UpdateProduct(ctx, product.ID, UpdateProductInput{Stock: &negative})
	require.Error(t, err)

	five := 5
	require.NoError(t, svc.UpdateProduct(ctx, product.ID, UpdateProductInput{Stock: &five}))

	updated, err := svc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 5, updated.Stock)
}
