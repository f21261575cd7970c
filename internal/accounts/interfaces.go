package accounts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/pagination"
)

// Repository defines persistence operations for customers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	FindCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindCustomerByIdentity(ctx context.Context, identityID uuid.UUID) (*models.Customer, error)
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	ListCustomers(ctx context.Context, params pagination.Params) ([]models.Customer, *string, error)
	CountCustomers(ctx context.Context) (int64, error)
}

// CustomerList is the stable shape the admin layer consumes regardless of
// whether the customers table is fully migrated. Exactly one of the two
// slices is populated.
type CustomerList struct {
	Customers    []models.Customer
	Placeholders []CustomerPlaceholder
	NextCursor   *string
}

// IsPlaceholder reports whether the list fell back to placeholder records.
func (l *CustomerList) IsPlaceholder() bool {
	return l != nil && l.Placeholders != nil
}

// CustomerPlaceholder is the passive row shown while the schema is
// mid-migration and real customer rows cannot be read.
type CustomerPlaceholder struct {
	Label string `json:"label"`
}
