package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/responses"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/validators"
	cartsvc "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/cart"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/logger"
)

// CartView returns the authenticated customer's cart with subtotals and a
// staleness flag when stock no longer covers a line.
func CartView(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.ViewCart(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartViewResponse(view))
	}
}

// CartAddLine accumulates a quantity onto the customer's line for a product.
func CartAddLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addCartLineRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.AddItem(r.Context(), customerID, body.ProductID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, cartLineResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			AddedAt:   line.AddedAt,
		})
	}
}

// CartUpdateLine overwrites a line's quantity; zero or negative removes it.
func CartUpdateLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineID, err := pathUUID(r, "lineID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCartLineRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateItem(r.Context(), customerID, lineID, body.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// CartRemoveLine deletes a line. Removing a missing line succeeds.
func CartRemoveLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineID, err := pathUUID(r, "lineID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveItem(r.Context(), customerID, lineID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

type addCartLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type updateCartLineRequest struct {
	Quantity int `json:"quantity"`
}

type cartLineResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	UnitPrice   string    `json:"unit_price,omitempty"`
	Quantity    int       `json:"quantity"`
	Subtotal    string    `json:"subtotal,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

type cartViewResponse struct {
	CartID        *uuid.UUID         `json:"cart_id,omitempty"`
	Lines         []cartLineResponse `json:"lines"`
	Total         string             `json:"total"`
	HasStockIssue bool               `json:"has_stock_issue"`
}

func newCartViewResponse(view *cartsvc.View) cartViewResponse {
	resp := cartViewResponse{Lines: []cartLineResponse{}, Total: "0.00"}
	if view == nil {
		return resp
	}
	if view.Cart != nil {
		resp.CartID = &view.Cart.ID
	}
	for _, lv := range view.Lines {
		line := cartLineResponse{
			ID:        lv.Line.ID,
			ProductID: lv.Line.ProductID,
			Quantity:  lv.Line.Quantity,
			Subtotal:  lv.Subtotal.StringFixed(2),
			AddedAt:   lv.Line.AddedAt,
		}
		if lv.Line.Product != nil {
			line.ProductName = lv.Line.Product.Name
			line.UnitPrice = lv.Line.Product.Price.StringFixed(2)
		}
		resp.Lines = append(resp.Lines, line)
	}
	resp.Total = view.Total.StringFixed(2)
	resp.HasStockIssue = view.HasStockIssue
	return resp
}
