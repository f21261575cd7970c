package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
)

// Repository defines persistence operations for carts and cart lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	GetOrCreateCart(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	FindCartByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)

	FindLineByID(ctx context.Context, lineID uuid.UUID) (*models.CartLine, error)
	FindLineByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartLine, error)
	CreateLine(ctx context.Context, line *models.CartLine) (*models.CartLine, error)
	UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	ListLines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error)
	DeleteLinesByCart(ctx context.Context, cartID uuid.UUID) error
}

// LineView pairs a cart line with its derived subtotal.
type LineView struct {
	Line     models.CartLine
	Subtotal decimal.Decimal
}

// View is the full cart presentation: lines, total, and a staleness flag set
// when any line no longer fits the product's current stock.
type View struct {
	Cart          *models.Cart
	Lines         []LineView
	Total         decimal.Decimal
	HasStockIssue bool
}
