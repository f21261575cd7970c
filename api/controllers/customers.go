package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/middleware"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/responses"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/validators"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/accounts"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/logger"
)

// CustomerMe returns the profile linked to the authenticated identity.
func CustomerMe(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		identityID, err := identityIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.GetCustomerByIdentity(r.Context(), identityID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCustomerResponse(customer))
	}
}

// CustomerUpdateMe applies partial profile edits for the authenticated customer.
func CustomerUpdateMe(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		identityID, err := identityIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.GetCustomerByIdentity(r.Context(), identityID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateCustomer(r.Context(), customer.ID, body.toInput()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// AdminListCustomers returns one page of the customer book. Staff only.
func AdminListCustomers(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListCustomers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if list.IsPlaceholder() {
			responses.WriteSuccess(w, customerListResponse{
				Placeholders: list.Placeholders,
				Customers:    []customerResponse{},
			})
			return
		}

		customers := make([]customerResponse, 0, len(list.Customers))
		for i := range list.Customers {
			customers = append(customers, newCustomerResponse(&list.Customers[i]))
		}
		responses.WriteSuccess(w, customerListResponse{Customers: customers, NextCursor: list.NextCursor})
	}
}

// AdminGetCustomer returns one customer profile. Staff only.
func AdminGetCustomer(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		id, err := pathUUID(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.GetCustomer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCustomerResponse(customer))
	}
}

// AdminUpdateCustomer edits any customer profile. Staff only.
func AdminUpdateCustomer(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		id, err := pathUUID(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateCustomer(r.Context(), id, body.toInput()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// AdminDeleteCustomer removes a customer. Staff only.
func AdminDeleteCustomer(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable"))
			return
		}

		id, err := pathUUID(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCustomer(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type updateCustomerRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	PostalCode  *int    `json:"postal_code,omitempty"`
	AvatarImage *string `json:"avatar_image,omitempty"`
}

func (r updateCustomerRequest) toInput() accounts.UpdateCustomerInput {
	return accounts.UpdateCustomerInput{
		Name:        sanitizePtr(r.Name, 120),
		Email:       sanitizePtr(r.Email, 254),
		Phone:       sanitizePtr(r.Phone, 30),
		Address:     sanitizePtr(r.Address, 255),
		PostalCode:  r.PostalCode,
		AvatarImage: r.AvatarImage,
	}
}

func sanitizePtr(value *string, maxLen int) *string {
	if value == nil {
		return nil
	}
	clean := validators.SanitizeString(*value, maxLen)
	return &clean
}

type customerResponse struct {
	ID          uuid.UUID  `json:"id"`
	IdentityID  *uuid.UUID `json:"identity_id,omitempty"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`
	PostalCode  *int       `json:"postal_code,omitempty"`
	AvatarImage *string    `json:"avatar_image,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type customerListResponse struct {
	Customers    []customerResponse             `json:"customers"`
	Placeholders []accounts.CustomerPlaceholder `json:"placeholders,omitempty"`
	NextCursor   *string                        `json:"next_cursor,omitempty"`
}

func newCustomerResponse(customer *models.Customer) customerResponse {
	if customer == nil {
		return customerResponse{}
	}
	return customerResponse{
		ID:          customer.ID,
		IdentityID:  customer.IdentityID,
		Name:        customer.Name,
		Email:       customer.Email,
		Phone:       customer.Phone,
		Address:     customer.Address,
		PostalCode:  customer.PostalCode,
		AvatarImage: customer.AvatarImage,
		CreatedAt:   customer.CreatedAt,
		UpdatedAt:   customer.UpdatedAt,
	}
}

func identityIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.IdentityIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "identity context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid identity id")
	}
	return id, nil
}

func customerIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.CustomerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "customer context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id")
	}
	return id, nil
}
