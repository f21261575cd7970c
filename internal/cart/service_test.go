package cart

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/catalog"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/enums"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS artists (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  photo TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  artist_id TEXT NOT NULL,
  name TEXT NOT NULL,
  genre TEXT NOT NULL,
  kind TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  stock INTEGER NOT NULL DEFAULT 0,
  price NUMERIC NOT NULL,
  is_new INTEGER NOT NULL DEFAULT 0,
  image TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS cart_lines (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  added_at DATETIME,
  UNIQUE (cart_id, product_id)
);`}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newCartService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	catalogSvc, err := catalog.NewService(catalog.NewRepository(db))
	require.NoError(t, err)
	svc, err := NewService(NewRepository(db), catalogSvc)
	require.NoError(t, err)
	return svc
}

func seedCartProduct(t *testing.T, db *gorm.DB, stock int, price string) *models.Product {
	t.Helper()
	artist := &models.Artist{ID: uuid.New(), Name: "Artist " + uuid.NewString()}
	require.NoError(t, db.Create(artist).Error)
	product := &models.Product{
		ID:       uuid.New(),
		ArtistID: artist.ID,
		Name:     "Album " + uuid.NewString(),
		Genre:    enums.GenreRock,
		Kind:     enums.ProductKindVinyl,
		Stock:    stock,
		Price:    decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	customerID := uuid.New()
	product := seedCartProduct(t, db, 10, "15.00")

	line, err := svc.AddItem(ctx, customerID, product.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 3, line.Quantity)

	line, err = svc.AddItem(ctx, customerID, product.ID, 4)
	require.NoError(t, err)
	require.Equal(t, 7, line.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.CartLine{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddItemOutOfStock(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	product := seedCartProduct(t, db, 0, "15.00")

	_, err := svc.AddItem(context.Background(), uuid.New(), product.ID, 1)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeOutOfStock, typed.Code())
}

func TestAddItemInsufficientStockReportsHeadroom(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	customerID := uuid.New()
	product := seedCartProduct(t, db, 5, "10.00")

	_, err := svc.AddItem(ctx, customerID, product.ID, 3)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, customerID, product.ID, 3)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	require.True(t, strings.Contains(typed.Message(), "2"), "message %q should report remaining headroom", typed.Message())

	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, 2, details["remaining"])
}

func TestUpdateItemZeroQuantityDeletesLine(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	customerID := uuid.New()
	product := seedCartProduct(t, db, 5, "10.00")

	line, err := svc.AddItem(ctx, customerID, product.ID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateItem(ctx, customerID, line.ID, 0))

	var count int64
	require.NoError(t, db.Model(&models.CartLine{}).Where("id = ?", line.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestUpdateItemRespectsStockBound(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	customerID := uuid.New()
	product := seedCartProduct(t, db, 5, "10.00")

	line, err := svc.AddItem(ctx, customerID, product.ID, 3)
	require.NoError(t, err)

	err = svc.UpdateItem(ctx, customerID, line.ID, 6)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())

	// Exactly stock is allowed.
	require.NoError(t, svc.UpdateItem(ctx, customerID, line.ID, 5))

	updated, err := NewRepository(db).FindLineByID(ctx, line.ID)
	require.NoError(t, err)
	require.Equal(t, 5, updated.Quantity)
}

func TestUpdateItemIgnoresForeignLine(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()
	product := seedCartProduct(t, db, 5, "10.00")

	line, err := svc.AddItem(ctx, owner, product.ID, 2)
	require.NoError(t, err)

	// Another customer touching the line must not change it.
	require.NoError(t, svc.UpdateItem(ctx, intruder, line.ID, 5))
	require.NoError(t, svc.RemoveItem(ctx, intruder, line.ID))

	kept, err := NewRepository(db).FindLineByID(ctx, line.ID)
	require.NoError(t, err)
	require.Equal(t, 2, kept.Quantity)
}

func TestRemoveItemMissingLineIsNoOp(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartService(t, db)

	require.NoError(t, svc.RemoveItem(context.Background(), uuid.New(), uuid.New()))
}

func TestViewCartComputesTotalsAndStockIssue(t *testing.T) {
	t.Parallel()

	db := setupCartTestDB(t)
	svc := newCartService(t, db)
	ctx := context.Background()
	customerID := uuid.New()

	healthy := seedCartProduct(t, db, 10, "10.00")
	depleted := seedCartProduct(t, db, 3, "20.00")

	_, err := svc.AddItem(ctx, customerID, healthy.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, customerID, depleted.ID, 3)
	require.NoError(t, err)

	view, err := svc.ViewCart(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	require.False(t, view.HasStockIssue)
	require.True(t, view.Total.Equal(decimal.RequireFromString("80.00")), "total %s", view.Total)

	// Another checkout drains the second product.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", depleted.ID).Update("stock", 1).Error)

	view, err = svc.ViewCart(ctx, customerID)
	require.NoError(t, err)
	require.True(t, view.HasStockIssue)
}
