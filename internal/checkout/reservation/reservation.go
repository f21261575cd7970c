// Package reservation implements row-locked stock reservation for the
// checkout flow. All demands in a batch succeed or none of them do.
package reservation

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/catalog"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
)

// Demand asks for a quantity of a single product.
type Demand struct {
	ProductID uuid.UUID
	Quantity  int
}

// Engine reserves stock under FOR UPDATE row locks.
type Engine struct {
	products catalog.Repository
}

func NewEngine(products catalog.Repository) (*Engine, error) {
	if products == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &Engine{products: products}, nil
}

// Reserve locks the product rows named by the demands, re-checks stock
// under the lock and decrements it, flooring at zero. It must run inside
// the caller's transaction; the locks are released when that transaction
// commits or rolls back. On any failed demand the whole batch fails with
// a typed error and nothing is decremented.
//
// The returned map holds the locked products keyed by id, with stock and
// price as they were before the decrement so callers can snapshot them.
func (e *Engine) Reserve(ctx context.Context, tx *gorm.DB, demands []Demand) (map[uuid.UUID]*models.Product, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reservation requires a transaction")
	}
	if len(demands) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to reserve")
	}

	merged := make(map[uuid.UUID]int, len(demands))
	for _, d := range demands {
		if d.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation demand missing product id")
		}
		if d.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation quantity must be positive")
		}
		merged[d.ProductID] += d.Quantity
	}

	ids := make([]uuid.UUID, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	// Deterministic lock order keeps concurrent batches from deadlocking.
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	locked, err := e.products.LockProductsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to lock products for reservation")
	}

	for _, id := range ids {
		qty := merged[id]
		product, ok := locked[id]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product no longer exists").
				WithDetails(map[string]any{"product_id": id})
		}
		if product.Stock <= 0 {
			return nil, pkgerrors.Newf(pkgerrors.CodeOutOfStock, "%q is out of stock", product.Name).
				WithDetails(map[string]any{"product_id": product.ID})
		}
		if qty > product.Stock {
			return nil, pkgerrors.Newf(pkgerrors.CodeInsufficientStock, "only %d unit(s) of %q left in stock", product.Stock, product.Name).
				WithDetails(map[string]any{"product_id": product.ID, "stock": product.Stock, "requested": qty})
		}
	}

	for _, id := range ids {
		if err := e.products.DecrementStock(ctx, tx, id, merged[id]); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to decrement reserved stock")
		}
	}

	return locked, nil
}
