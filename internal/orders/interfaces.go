package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/pagination"
)

// Repository defines persistence operations for the order ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateLine(ctx context.Context, line *models.OrderLine) (*models.OrderLine, error)

	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, params pagination.Params, filters OrderFilters) (*OrderList, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error

	FindLineByID(ctx context.Context, lineID uuid.UUID) (*models.OrderLine, error)
	ListLinesByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error)
	UpdateLine(ctx context.Context, lineID uuid.UUID, updates map[string]any) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error

	CountOrders(ctx context.Context) (int64, error)
}

// OrderFilters narrows order listings.
type OrderFilters struct {
	CustomerID *uuid.UUID
}

// OrderList is one page of orders plus the cursor for the next page.
type OrderList struct {
	Orders     []models.Order
	NextCursor *string
}
