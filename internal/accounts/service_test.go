package accounts

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/pagination"
)

func setupAccountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:accounts_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	customers := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  identity_id TEXT UNIQUE,
  name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL UNIQUE,
  phone TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  postal_code INTEGER,
  avatar_image TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(customers).Error)
	return db
}

func newAccountsService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), nil)
	require.NoError(t, err)
	return svc
}

func seedCustomer(t *testing.T, db *gorm.DB, customer models.Customer) *models.Customer {
	t.Helper()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	require.NoError(t, db.Create(&customer).Error)
	return &customer
}

func TestResolvePrefersLinkedIdentity(t *testing.T) {
	t.Parallel()

	db := setupAccountsTestDB(t)
	svc := newAccountsService(t, db)
	ctx := context.Background()

	identityID := uuid.New()
	existing := seedCustomer(t, db, models.Customer{
		IdentityID: &identityID,
		Name:       "Kevin",
		Email:      "kevin@example.com",
	})

	resolved, err := svc.Resolve(ctx, ResolveInput{
		IdentityID: &identityID,
		Name:       "Kevin Cardiel",
		Address:    "Av. Reforma 1",
	})
	require.NoError(t, err)
	require.Equal(t, existing.ID, resolved.ID)
	require.Equal(t, "Kevin Cardiel", resolved.Name)
	require.Equal(t, "Av. Reforma 1", resolved.Address)

	var stored models.Customer
	require.NoError(t, db.First(&stored, "id = ?", existing.ID).Error)
	require.Equal(t, "Kevin Cardiel", stored.Name)
	require.Equal(t, "kevin@example.com", stored.Email)
}

func TestResolveByEmailFindsOrCreates(t *testing.T) {
	t.Parallel()

	db := setupAccountsTestDB(t)
	svc := newAccountsService(t, db)
	ctx := context.Background()

	seedCustomer(t, db, models.Customer{Name: "Ana", Email: "ana@example.com"})

	resolved, err := svc.Resolve(ctx, ResolveInput{Email: "ANA@example.com", Address: "Calle 5"})
	require.NoError(t, err)
	require.Equal(t, "Ana", resolved.Name)
	require.Equal(t, "Calle 5", resolved.Address)

	created, err := svc.Resolve(ctx, ResolveInput{Email: "new@example.com"})
	require.NoError(t, err)
	require.Equal(t, AnonymousName, created.Name)
	require.Equal(t, "new@example.com", created.Email)
}

func TestResolveAnonymousGeneratesUniqueEmails(t *testing.T) {
	t.Parallel()

	db := setupAccountsTestDB(t)
	svc := newAccountsService(t, db)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, ResolveInput{})
	require.NoError(t, err)
	second, err := svc.Resolve(ctx, ResolveInput{})
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
	require.NotEqual(t, first.Email, second.Email)
	require.True(t, strings.HasPrefix(first.Email, "anon_"))
	require.True(t, strings.HasSuffix(first.Email, "@local"))
	require.Equal(t, AnonymousName, first.Name)
}

func TestSyncFromIdentityCreatesAndLinks(t *testing.T) {
	t.Parallel()

	db := setupAccountsTestDB(t)
	svc := newAccountsService(t, db)
	ctx := context.Background()

	identity := &models.Identity{ID: uuid.New(), Username: "kevin", Email: "kevin@example.com"}

	created, err := svc.SyncFromIdentity(ctx, identity)
	require.NoError(t, err)
	require.NotNil(t, created.IdentityID)
	require.Equal(t, identity.ID, *created.IdentityID)
	require.Equal(t, "kevin", created.Name)

	identity.Username = "kevin_c"
	updated, err := svc.SyncFromIdentity(ctx, identity)
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)

	var stored models.Customer
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	require.Equal(t, "kevin_c", stored.Name)
}

func TestSyncFromIdentityAdoptsExistingEmailCustomer(t *testing.T) {
	t.Parallel()

	db := setupAccountsTestDB(t)
	svc := newAccountsService(t, db)
	ctx := context.Background()

	orphan := seedCustomer(t, db, models.Customer{Name: "Ana", Email: "ana@example.com"})
	identity := &models.Identity{ID: uuid.New(), Username: "ana", Email: "ana@example.com"}

	linked, err := svc.SyncFromIdentity(ctx, identity)
	require.NoError(t, err)
	require.Equal(t, orphan.ID, linked.ID)
	require.NotNil(t, linked.IdentityID)
	require.Equal(t, identity.ID, *linked.IdentityID)
}

func TestListCustomersReturnsPlaceholderWhenTableMissing(t *testing.T) {
	t.Parallel()

	dsn := "file:accounts_missing_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	svc := newAccountsService(t, db)

	list, err := svc.ListCustomers(context.Background(), pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.True(t, list.IsPlaceholder())
	require.Empty(t, list.Customers)
}

func TestUpdateCustomerNotFound(t *testing.T) {
	t.Parallel()

	db := setupAccountsTestDB(t)
	svc := newAccountsService(t, db)

	name := "Nadie"
	err := svc.UpdateCustomer(context.Background(), uuid.New(), UpdateCustomerInput{Name: &name})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
