package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/middleware"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/responses"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/validators"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/accounts"
	checkoutsvc "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/checkout"
	ordersvc "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/orders"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/logger"
)

// Checkout places an order for the caller. Authenticated customers with cart
// lines go through the reserving cart path; everyone else falls back to the
// direct purchase path driven by the free-form product fields.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := body.toInput()
		if raw := middleware.IdentityIDFromContext(r.Context()); raw != "" {
			identityID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid identity id"))
				return
			}
			input.Customer.IdentityID = &identityID
		}

		result, err := svc.PlaceOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckoutResponse(result))
	}
}

type checkoutRequest struct {
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	PostalCode *int   `json:"postal_code,omitempty"`

	Product  string `json:"product,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Quantity int    `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Price    string `json:"price,omitempty"`
}

func (b checkoutRequest) toInput() checkoutsvc.PlaceOrderInput {
	return checkoutsvc.PlaceOrderInput{
		Customer: accounts.ResolveInput{
			Email:      validators.SanitizeString(b.Email, 254),
			Name:       validators.SanitizeString(b.Name, 120),
			Phone:      validators.SanitizeString(b.Phone, 30),
			Address:    validators.SanitizeString(b.Address, 255),
			PostalCode: b.PostalCode,
		},
		Direct: checkoutsvc.DirectInput{
			ProductName: validators.SanitizeString(b.Product, 150),
			ArtistName:  validators.SanitizeString(b.Artist, 150),
			Quantity:    b.Quantity,
			RawPrice:    validators.SanitizeString(b.Price, 32),
		},
	}
}

type checkoutResponse struct {
	OrderID       uuid.UUID `json:"order_id"`
	TrackingCode  string    `json:"tracking_code"`
	TotalQuantity int       `json:"total_quantity"`
	TotalAmount   string    `json:"total_amount"`
	CreatedAt     time.Time `json:"created_at"`
}

func newCheckoutResponse(result *checkoutsvc.Result) checkoutResponse {
	if result == nil || result.Order == nil {
		return checkoutResponse{}
	}
	return checkoutResponse{
		OrderID:       result.Order.ID,
		TrackingCode:  result.TrackingCode,
		TotalQuantity: result.Order.TotalQuantity,
		TotalAmount:   result.Order.TotalAmount.StringFixed(2),
		CreatedAt:     result.Order.CreatedAt,
	}
}

// CheckoutConfirmation is the post-purchase view: the order summary plus its
// derived tracking code.
func CheckoutConfirmation(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutResponse{
			OrderID:       order.ID,
			TrackingCode:  ordersvc.TrackingCode(order.ID),
			TotalQuantity: order.TotalQuantity,
			TotalAmount:   order.TotalAmount.StringFixed(2),
			CreatedAt:     order.CreatedAt,
		})
	}
}
