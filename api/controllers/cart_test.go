package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/middleware"
	cartsvc "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/cart"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
)

type stubCartService struct {
	line *models.CartLine
	view *cartsvc.View
	err  error

	lastCustomerID uuid.UUID
	lastProductID  uuid.UUID
	lastQuantity   int
}

func (s *stubCartService) AddItem(_ context.Context, customerID, productID uuid.UUID, quantity int) (*models.CartLine, error) {
	s.lastCustomerID = customerID
	s.lastProductID = productID
	s.lastQuantity = quantity
	return s.line, s.err
}

func (s *stubCartService) UpdateItem(_ context.Context, customerID, _ uuid.UUID, quantity int) error {
	s.lastCustomerID = customerID
	s.lastQuantity = quantity
	return s.err
}

func (s *stubCartService) RemoveItem(_ context.Context, customerID, _ uuid.UUID) error {
	s.lastCustomerID = customerID
	return s.err
}

func (s *stubCartService) ViewCart(_ context.Context, customerID uuid.UUID) (*cartsvc.View, error) {
	s.lastCustomerID = customerID
	return s.view, s.err
}

func withCustomerContext(req *http.Request, customerID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithCustomerID(req.Context(), customerID.String()))
}

func TestCartViewReturnsLinesAndTotal(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	product := &models.Product{ID: uuid.New(), Name: "Kind of Blue", Price: decimal.RequireFromString("29.99")}
	view := &cartsvc.View{
		Cart: &models.Cart{ID: uuid.New(), CustomerID: customerID},
		Lines: []cartsvc.LineView{{
			Line:     models.CartLine{ID: uuid.New(), ProductID: product.ID, Quantity: 2, Product: product},
			Subtotal: decimal.RequireFromString("59.98"),
		}},
		Total: decimal.RequireFromString("59.98"),
	}
	svc := &stubCartService{view: view}
	handler := CartView(svc, nil)

	req := withCustomerContext(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), customerID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastCustomerID != customerID {
		t.Fatalf("expected customer id forwarded, got %s", svc.lastCustomerID)
	}
	var envelope struct {
		Data cartViewResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != "59.98" {
		t.Fatalf("unexpected total: %s", envelope.Data.Total)
	}
	if len(envelope.Data.Lines) != 1 || envelope.Data.Lines[0].ProductName != "Kind of Blue" {
		t.Fatalf("unexpected lines: %+v", envelope.Data.Lines)
	}
}

func TestCartViewRequiresCustomerContext(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	handler := CartView(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestCartAddLineForwardsPayload(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	productID := uuid.New()
	svc := &stubCartService{line: &models.CartLine{ID: uuid.New(), ProductID: productID, Quantity: 3}}
	handler := CartAddLine(svc, nil)

	body := `{"product_id":"` + productID.String() + `","quantity":3}`
	req := withCustomerContext(httptest.NewRequest(http.MethodPost, "/api/v1/cart/lines", strings.NewReader(body)), customerID)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.lastProductID != productID || svc.lastQuantity != 3 {
		t.Fatalf("unexpected forwarded payload: product=%s quantity=%d", svc.lastProductID, svc.lastQuantity)
	}
}

func TestCartAddLineStockFailure(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeInsufficientStock, `only 1 unit(s) of "Kind of Blue" left in stock`)}
	handler := CartAddLine(svc, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":5}`
	req := withCustomerContext(httptest.NewRequest(http.MethodPost, "/api/v1/cart/lines", strings.NewReader(body)), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestCartUpdateLineAllowsZeroQuantity(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	handler := CartUpdateLine(svc, nil)

	lineID := uuid.New()
	rc := chi.NewRouteContext()
	rc.URLParams.Add("lineID", lineID.String())
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/lines/"+lineID.String(), strings.NewReader(`{"quantity":0}`))
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	req = withCustomerContext(req, uuid.New())
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastQuantity != 0 {
		t.Fatalf("expected quantity 0 forwarded, got %d", svc.lastQuantity)
	}
}
