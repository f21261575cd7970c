// Package checkout converts carts and direct purchase requests into
// durable orders while preventing overselling under concurrent buyers.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/accounts"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/cart"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/catalog"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/checkout/reservation"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/orders"
	dbpkg "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/enums"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/logger"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/metrics"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/outbox"
)

const (
	pathCart   = "cart"
	pathDirect = "direct"
)

// DirectInput carries the free-form fields of a no-cart purchase.
type DirectInput struct {
	ProductName string
	ArtistName  string
	Quantity    int
	RawPrice    string
}

// PlaceOrderInput is the public checkout request: customer profile fields
// plus the direct-purchase fields used when the customer has no cart lines.
type PlaceOrderInput struct {
	Customer accounts.ResolveInput
	Direct   DirectInput
}

// Result is what the confirmation view needs.
type Result struct {
	Order        *models.Order
	TrackingCode string
}

// Service places orders. FromCart reserves stock under row locks and is
// all-or-nothing; Direct takes no locks and may leave an order without a
// line when the product lookup misses.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*Result, error)
	FromCart(ctx context.Context, customerID uuid.UUID) (*Result, error)
	Direct(ctx context.Context, customerID uuid.UUID, input DirectInput) (*Result, error)
}

type service struct {
	client    *dbpkg.Client
	engine    *reservation.Engine
	carts     cart.Repository
	products  catalog.Repository
	orders    orders.Repository
	customers accounts.Service
	events    *outbox.Service
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
}

// NewService builds a checkout service with the required dependencies.
// Metrics may be nil.
func NewService(
	client *dbpkg.Client,
	engine *reservation.Engine,
	carts cart.Repository,
	products catalog.Repository,
	ordersRepo orders.Repository,
	customers accounts.Service,
	events *outbox.Service,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if engine == nil {
		return nil, fmt.Errorf("reservation engine required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if customers == nil {
		return nil, fmt.Errorf("accounts service required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	return &service{
		client:    client,
		engine:    engine,
		carts:     carts,
		products:  products,
		orders:    ordersRepo,
		customers: customers,
		events:    events,
		metrics:   checkoutMetrics,
		logg:      logg,
	}, nil
}

// PlaceOrder resolves the customer and dispatches to the cart path when the
// customer has cart lines, otherwise to the direct path.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*Result, error) {
	customer, err := s.customers.Resolve(ctx, input.Customer)
	if err != nil {
		return nil, err
	}

	existing, err := s.carts.FindCartByCustomer(ctx, customer.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load cart")
	}
	if existing != nil {
		lines, err := s.carts.ListLines(ctx, existing.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load cart lines")
		}
		if len(lines) > 0 {
			return s.FromCart(ctx, customer.ID)
		}
	}
	return s.Direct(ctx, customer.ID, input.Direct)
}

// FromCart converts the customer's cart into an order inside one
// transaction. Stock is re-checked under FOR UPDATE row locks; any failed
// line aborts the whole checkout and leaves the cart untouched.
func (s *service) FromCart(ctx context.Context, customerID uuid.UUID) (*Result, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	existing, err := s.carts.FindCartByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load cart")
	}
	lines, err := s.carts.ListLines(ctx, existing.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load cart lines")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	s.metrics.IncAttempt(pathCart)
	started := time.Now()

	var order *models.Order
	txErr := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		demands := make([]reservation.Demand, 0, len(lines))
		for _, line := range lines {
			demands = append(demands, reservation.Demand{ProductID: line.ProductID, Quantity: line.Quantity})
		}

		locked, err := s.engine.Reserve(ctx, tx, demands)
		if err != nil {
			return err
		}

		totalQuantity := 0
		totalAmount := decimal.Zero
		for _, line := range lines {
			product := locked[line.ProductID]
			totalQuantity += line.Quantity
			totalAmount = totalAmount.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		ordersTx := s.orders.WithTx(tx)
		order = &models.Order{
			ID:            uuid.New(),
			CustomerID:    customerID,
			TotalQuantity: totalQuantity,
			TotalAmount:   totalAmount,
		}
		if _, err := ordersTx.CreateOrder(ctx, order); err != nil {
			return err
		}

		for _, line := range lines {
			product := locked[line.ProductID]
			orderLine := &models.OrderLine{
				ID:         uuid.New(),
				OrderID:    order.ID,
				CustomerID: customerID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  product.Price,
				Total:      product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
			}
			if _, err := ordersTx.CreateLine(ctx, orderLine); err != nil {
				return err
			}
		}

		if err := s.carts.WithTx(tx).DeleteLinesByCart(ctx, existing.ID); err != nil {
			return err
		}

		return s.emitOrderCreated(ctx, tx, order, pathCart)
	})

	s.metrics.ObserveReservation(pathCart, time.Since(started))
	if txErr != nil {
		return nil, s.failCart(ctx, txErr)
	}

	s.metrics.ObserveOrderTotal(order.TotalAmount.InexactFloat64())
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "cart checkout completed")
	}
	return &Result{Order: order, TrackingCode: orders.TrackingCode(order.ID)}, nil
}

// Direct places a no-cart order. The order row is created before the
// product lookup, so an unmatched product name still leaves a durable
// order without lines. No row locks are taken on this path.
func (s *service) Direct(ctx context.Context, customerID uuid.UUID, input DirectInput) (*Result, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	unitPrice := ParsePrice(input.RawPrice)
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	s.metrics.IncAttempt(pathDirect)

	order := &models.Order{
		ID:            uuid.New(),
		CustomerID:    customerID,
		TotalQuantity: quantity,
		TotalAmount:   total,
	}
	if _, err := s.orders.CreateOrder(ctx, order); err != nil {
		s.metrics.IncFailure(pathDirect, string(pkgerrors.CodeInternal))
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create order")
	}

	product, err := s.matchProduct(ctx, input)
	if err != nil {
		s.metrics.IncFailure(pathDirect, string(pkgerrors.CodeInternal))
		return nil, err
	}
	if product == nil {
		// Deliberate fallback: the order stays with no line.
		if s.logg != nil {
			s.logg.Warn(s.logg.WithOrderID(ctx, order.ID.String()), "direct checkout without product match")
		}
		return &Result{Order: order, TrackingCode: orders.TrackingCode(order.ID)}, nil
	}

	if product.Stock <= 0 {
		s.metrics.IncFailure(pathDirect, string(pkgerrors.CodeOutOfStock))
		return nil, pkgerrors.Newf(pkgerrors.CodeOutOfStock, "%q is out of stock", product.Name).
			WithDetails(formFields(input))
	}
	if quantity > product.Stock {
		s.metrics.IncFailure(pathDirect, string(pkgerrors.CodeInsufficientStock))
		return nil, pkgerrors.Newf(pkgerrors.CodeInsufficientStock, "only %d unit(s) of %q left in stock", product.Stock, product.Name).
			WithDetails(formFields(input))
	}

	line := &models.OrderLine{
		ID:         uuid.New(),
		OrderID:    order.ID,
		CustomerID: customerID,
		ProductID:  product.ID,
		Quantity:   quantity,
		UnitPrice:  product.Price,
		Total:      total,
	}
	if _, err := s.orders.CreateLine(ctx, line); err != nil {
		s.metrics.IncFailure(pathDirect, string(pkgerrors.CodeInternal))
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create order line")
	}
	if err := s.products.DecrementStock(ctx, nil, product.ID, quantity); err != nil {
		s.metrics.IncFailure(pathDirect, string(pkgerrors.CodeInternal))
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to decrement stock")
	}

	s.metrics.ObserveOrderTotal(total.InexactFloat64())
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "direct checkout completed")
	}
	return &Result{Order: order, TrackingCode: orders.TrackingCode(order.ID)}, nil
}

func (s *service) matchProduct(ctx context.Context, input DirectInput) (*models.Product, error) {
	name := strings.TrimSpace(input.ProductName)
	if name == "" {
		return nil, nil
	}
	var artistName *string
	if artist := strings.TrimSpace(input.ArtistName); artist != "" {
		artistName = &artist
	}
	product, err := s.products.FindProductByName(ctx, name, artistName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to look up product")
	}
	return product, nil
}

func (s *service) emitOrderCreated(ctx context.Context, tx *gorm.DB, order *models.Order, path string) error {
	return s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         &outbox.ActorRef{CustomerID: order.CustomerID},
		Data: map[string]any{
			"order_id":       order.ID,
			"customer_id":    order.CustomerID,
			"total_quantity": order.TotalQuantity,
			"total_amount":   order.TotalAmount,
			"path":           path,
		},
		Version: 1,
	})
}

// failCart maps a cart-path transaction failure: stock errors keep their
// typed codes, everything else collapses to a generic retryable abort.
func (s *service) failCart(ctx context.Context, err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeOutOfStock, pkgerrors.CodeInsufficientStock, pkgerrors.CodeNotFound, pkgerrors.CodeValidation:
			s.metrics.IncFailure(pathCart, string(typed.Code()))
			return typed
		}
	}
	s.metrics.IncFailure(pathCart, string(pkgerrors.CodeTxAborted))
	if s.logg != nil {
		s.logg.Error(ctx, "cart checkout aborted", err)
	}
	return pkgerrors.Wrap(pkgerrors.CodeTxAborted, err, "checkout could not be completed")
}

func formFields(input DirectInput) map[string]any {
	return map[string]any{
		"artist":  input.ArtistName,
		"product": input.ProductName,
		"price":   input.RawPrice,
	}
}
