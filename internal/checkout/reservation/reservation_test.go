package reservation

import (
	"context"
	"sync"
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

func setupReservationTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:reservation_" + uuid.NewString() + "?mode=memory&cache=shared"
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
);`}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedReservationProduct(t *testing.T, db *gorm.DB, stock int, price string) *models.Product {
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

func newEngine(t *testing.T, db *gorm.DB) *Engine {
	t.Helper()
	engine, err := NewEngine(catalog.NewRepository(db))
	require.NoError(t, err)
	return engine
}

func productStock(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return product.Stock
}

func TestReserveDecrementsStock(t *testing.T) {
	t.Parallel()

	db := setupReservationTestDB(t)
	engine := newEngine(t, db)
	ctx := context.Background()
	first := seedReservationProduct(t, db, 5, "10.00")
	second := seedReservationProduct(t, db, 2, "25.00")

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := engine.Reserve(ctx, tx, []Demand{
			{ProductID: first.ID, Quantity: 3},
			{ProductID: second.ID, Quantity: 2},
		})
		require.NoError(t, err)
		require.Len(t, locked, 2)
		// Snapshots keep pre-decrement stock.
		require.Equal(t, 5, locked[first.ID].Stock)
		return nil
	})
	require.NoError(t, err)

	require.Equal(t, 2, productStock(t, db, first.ID))
	require.Equal(t, 0, productStock(t, db, second.ID))
}

func TestReserveMergesDuplicateDemands(t *testing.T) {
	t.Parallel()

	db := setupReservationTestDB(t)
	engine := newEngine(t, db)
	product := seedReservationProduct(t, db, 10, "10.00")

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := engine.Reserve(context.Background(), tx, []Demand{
			{ProductID: product.ID, Quantity: 2},
			{ProductID: product.ID, Quantity: 3},
		})
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 5, productStock(t, db, product.ID))
}

func TestReserveOutOfStockAbortsBatch(t *testing.T) {
	t.Parallel()

	db := setupReservationTestDB(t)
	engine := newEngine(t, db)
	healthy := seedReservationProduct(t, db, 5, "10.00")
	drained := seedReservationProduct(t, db, 0, "10.00")

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := engine.Reserve(context.Background(), tx, []Demand{
			{ProductID: healthy.ID, Quantity: 1},
			{ProductID: drained.ID, Quantity: 1},
		})
		return err
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeOutOfStock, typed.Code())

	// The rollback left the healthy product untouched.
	require.Equal(t, 5, productStock(t, db, healthy.ID))
}

func TestReserveInsufficientStockCarriesDetails(t *testing.T) {
	t.Parallel()

	db := setupReservationTestDB(t)
	engine := newEngine(t, db)
	product := seedReservationProduct(t, db, 2, "10.00")

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := engine.Reserve(context.Background(), tx, []Demand{
			{ProductID: product.ID, Quantity: 3},
		})
		return err
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())

	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, 2, details["stock"])
	require.Equal(t, 3, details["requested"])
	require.Equal(t, 2, productStock(t, db, product.ID))
}

func TestReserveUnknownProduct(t *testing.T) {
	t.Parallel()

	db := setupReservationTestDB(t)
	engine := newEngine(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := engine.Reserve(context.Background(), tx, []Demand{
			{ProductID: uuid.New(), Quantity: 1},
		})
		return err
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

// rowLockRepo stands in for Postgres row locks: LockProductsForUpdate blocks
// while another reservation holds the lock, and release models the end of the
// surrounding transaction.
type rowLockRepo struct {
	catalog.Repository
	mu   sync.Mutex
	byID map[uuid.UUID]*models.Product
}

func (r *rowLockRepo) LockProductsForUpdate(_ context.Context, _ *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	r.mu.Lock()
	out := make(map[uuid.UUID]*models.Product, len(ids))
	for _, id := range ids {
		if product, ok := r.byID[id]; ok {
			snapshot := *product
			out[id] = &snapshot
		}
	}
	return out, nil
}

func (r *rowLockRepo) DecrementStock(_ context.Context, _ *gorm.DB, id uuid.UUID, qty int) error {
	product := r.byID[id]
	product.Stock -= qty
	if product.Stock < 0 {
		product.Stock = 0
	}
	return nil
}

func (r *rowLockRepo) release() {
	r.mu.Unlock()
}

func TestReserveConcurrentContendersExactlyOneWins(t *testing.T) {
	t.Parallel()

	db := setupReservationTestDB(t)
	product := &models.Product{
		ID:    uuid.New(),
		Name:  "Kind of Blue",
		Stock: 3,
		Price: decimal.RequireFromString("10.00"),
	}
	repo := &rowLockRepo{byID: map[uuid.UUID]*models.Product{product.ID: product}}
	engine, err := NewEngine(repo)
	require.NoError(t, err)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			errs <- func() error {
				defer repo.release()
				_, err := engine.Reserve(context.Background(), db, []Demand{{ProductID: product.ID, Quantity: 3}})
				return err
			}()
		}()
	}

	var failures []error
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			failures = append(failures, err)
		}
	}

	require.Len(t, failures, 1, "exactly one contender must lose")
	typed := pkgerrors.As(failures[0])
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeOutOfStock, typed.Code())
	require.Zero(t, product.Stock)
}

func TestReserveRejectsInvalidDemands(t *testing.T) {
	t.Parallel()

	db := setupReservationTestDB(t)
	engine := newEngine(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := engine.Reserve(context.Background(), tx, nil)
		return err
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := engine.Reserve(context.Background(), tx, []Demand{
			{ProductID: uuid.New(), Quantity: 0},
		})
		return err
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
