package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/catalog"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
)

// Service exposes the cart operations the storefront uses.
type Service interface {
	// AddItem accumulates quantity onto the customer's line for the product,
	// creating the cart and line as needed. Fails typed when the product is
	// out of stock or the accumulated quantity exceeds it.
	AddItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*models.CartLine, error)

	// UpdateItem overwrites a line's quantity. Zero or negative quantity
	// deletes the line instead of erroring. The line must belong to the
	// customer's cart.
	UpdateItem(ctx context.Context, customerID, lineID uuid.UUID, quantity int) error

	// RemoveItem deletes the customer's line. Removing an already-deleted
	// line is a no-op, not an error.
	RemoveItem(ctx context.Context, customerID, lineID uuid.UUID) error

	// ViewCart returns the customer's lines with subtotals plus a staleness
	// flag when stock no longer covers a line.
	ViewCart(ctx context.Context, customerID uuid.UUID) (*View, error)
}

type service struct {
	repo    Repository
	catalog catalog.Service
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, catalogSvc catalog.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &service{repo: repo, catalog: catalogSvc}, nil
}

func (s *service) AddItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*models.CartLine, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Stock <= 0 {
		return nil, pkgerrors.Newf(pkgerrors.CodeOutOfStock, "%q is out of stock", product.Name)
	}

	cart, err := s.repo.GetOrCreateCart(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	existing := 0
	line, err := s.repo.FindLineByProduct(ctx, cart.ID, productID)
	switch {
	case err == nil:
		existing = line.Quantity
	case errors.Is(err, gorm.ErrRecordNotFound):
		line = nil
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart line")
	}

	requested := existing + quantity
	if requested > product.Stock {
		remaining := product.Stock - existing
		return nil, pkgerrors.
			Newf(pkgerrors.CodeInsufficientStock, "only %d more unit(s) of %q available", remaining, product.Name).
			WithDetails(map[string]any{"remaining": remaining, "stock": product.Stock})
	}

	if line == nil {
		created, err := s.repo.CreateLine(ctx, &models.CartLine{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  requested,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart line")
		}
		return created, nil
	}

	if err := s.repo.UpdateLineQuantity(ctx, line.ID, requested); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart line")
	}
	line.Quantity = requested
	return line, nil
}

func (s *service) UpdateItem(ctx context.Context, customerID, lineID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, customerID, lineID)
	}

	line, err := s.ownedLine(ctx, customerID, lineID)
	if err != nil {
		// A checkout's line deletion is authoritative; updating a line it
		// already removed is a no-op.
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil
		}
		return err
	}

	product, err := s.catalog.GetProduct(ctx, line.ProductID)
	if err != nil {
		return err
	}
	if quantity > product.Stock {
		return pkgerrors.
			Newf(pkgerrors.CodeInsufficientStock, "only %d unit(s) of %q available", product.Stock, product.Name).
			WithDetails(map[string]any{"remaining": product.Stock, "stock": product.Stock})
	}

	if err := s.repo.UpdateLineQuantity(ctx, lineID, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart line")
	}
	return nil
}

func (s *service) RemoveItem(ctx context.Context, customerID, lineID uuid.UUID) error {
	_, err := s.ownedLine(ctx, customerID, lineID)
	if err != nil {
		// A line deleted out from under the customer, by a concurrent
		// checkout for example, is already gone.
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil
		}
		return err
	}
	if err := s.repo.DeleteLine(ctx, lineID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting cart line")
	}
	return nil
}

// ownedLine fetches the line and verifies it belongs to the customer's cart.
// A line in someone else's cart reads as not found.
func (s *service) ownedLine(ctx context.Context, customerID, lineID uuid.UUID) (*models.CartLine, error) {
	line, err := s.repo.FindLineByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart line")
	}

	cart, err := s.repo.FindCartByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if cart.ID != line.CartID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return line, nil
}

func (s *service) ViewCart(ctx context.Context, customerID uuid.UUID) (*View, error) {
	cart, err := s.repo.GetOrCreateCart(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	lines, err := s.repo.ListLines(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cart lines")
	}

	view := &View{Cart: cart, Total: decimal.Zero}
	for _, line := range lines {
		subtotal := decimal.Zero
		if line.Product != nil {
			subtotal = line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			if line.Product.Stock <= 0 || line.Quantity > line.Product.Stock {
				view.HasStockIssue = true
			}
		}
		view.Lines = append(view.Lines, LineView{Line: line, Subtotal: subtotal})
		view.Total = view.Total.Add(subtotal)
	}
	return view, nil
}
