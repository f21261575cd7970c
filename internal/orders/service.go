package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/pagination"
)

// Service exposes the order ledger: admin corrections and history reads.
// Orders are produced by checkout, never created through this surface.
type Service interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, params pagination.Params) (*OrderList, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*OrderList, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error

	GetLine(ctx context.Context, lineID uuid.UUID) (*models.OrderLine, error)
	ListOrderLines(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error)
	UpdateLine(ctx context.Context, lineID uuid.UUID, input UpdateLineInput) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

// UpdateOrderInput carries admin correction edits to an order.
type UpdateOrderInput struct {
	TotalQuantity *int
	TotalAmount   *decimal.Decimal
}

// UpdateLineInput carries admin correction edits to an order line.
type UpdateLineInput struct {
	Quantity  *int
	UnitPrice *decimal.Decimal
	Total     *decimal.Decimal
}

// TrackingCode derives the display tracking reference for an order. It is
// computed, never stored.
func TrackingCode(id uuid.UUID) string {
	compact := strings.ReplaceAll(id.String(), "-", "")
	return "TRK" + strings.ToUpper(compact[:6])
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.ListOrders(ctx, params, OrderFilters{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list orders")
	}
	return list, nil
}

func (s *service) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	list, err := s.repo.ListOrders(ctx, params, OrderFilters{CustomerID: &customerID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list customer orders")
	}
	return list, nil
}

func (s *service) UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) error {
	updates := map[string]any{}
	if input.TotalQuantity != nil {
		if *input.TotalQuantity < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "total quantity cannot be negative")
		}
		updates["total_quantity"] = *input.TotalQuantity
	}
	if input.TotalAmount != nil {
		if input.TotalAmount.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "total amount cannot be negative")
		}
		updates["total_amount"] = *input.TotalAmount
	}
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no order fields to update")
	}

	if _, err := s.GetOrder(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateOrder(ctx, id, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update order")
	}
	return nil
}

func (s *service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetOrder(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete order")
	}
	return nil
}

func (s *service) GetLine(ctx context.Context, lineID uuid.UUID) (*models.OrderLine, error) {
	line, err := s.repo.FindLineByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order line")
	}
	return line, nil
}

func (s *service) ListOrderLines(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	lines, err := s.repo.ListLinesByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list order lines")
	}
	return lines, nil
}

func (s *service) UpdateLine(ctx context.Context, lineID uuid.UUID, input UpdateLineInput) error {
	updates := map[string]any{}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		updates["quantity"] = *input.Quantity
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		updates["unit_price"] = *input.UnitPrice
	}
	if input.Total != nil {
		if input.Total.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "line total cannot be negative")
		}
		updates["total"] = *input.Total
	}
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no line fields to update")
	}

	if _, err := s.GetLine(ctx, lineID); err != nil {
		return err
	}
	if err := s.repo.UpdateLine(ctx, lineID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update order line")
	}
	return nil
}

func (s *service) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	if _, err := s.GetLine(ctx, lineID); err != nil {
		return err
	}
	if err := s.repo.DeleteLine(ctx, lineID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete order line")
	}
	return nil
}
