package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/logger"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/pagination"
)

// Service resolves and manages customer profiles.
type Service interface {
	// Resolve finds or creates the customer a checkout should be billed to,
	// preferring the authenticated identity, then the supplied email, then a
	// synthesized anonymous profile.
	Resolve(ctx context.Context, input ResolveInput) (*models.Customer, error)

	// SyncFromIdentity creates or updates the customer profile linked to an
	// identity. Called explicitly at registration and identity-update
	// boundaries.
	SyncFromIdentity(ctx context.Context, identity *models.Identity) (*models.Customer, error)

	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GetCustomerByIdentity(ctx context.Context, identityID uuid.UUID) (*models.Customer, error)
	ListCustomers(ctx context.Context, params pagination.Params) (*CustomerList, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds an accounts service with the required dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// ResolveInput carries the caller-supplied profile fields for resolution.
type ResolveInput struct {
	IdentityID *uuid.UUID
	Email      string
	Name       string
	Phone      string
	Address    string
	PostalCode *int
}

// UpdateCustomerInput carries optional customer profile edits.
type UpdateCustomerInput struct {
	Name        *string
	Email       *string
	Phone       *string
	Address     *string
	PostalCode  *int
	AvatarImage *string
}

func (s *service) Resolve(ctx context.Context, input ResolveInput) (*models.Customer, error) {
	email := strings.TrimSpace(input.Email)

	if input.IdentityID != nil {
		customer, err := s.repo.FindCustomerByIdentity(ctx, *input.IdentityID)
		switch {
		case err == nil:
			if err := s.applyProfileFields(ctx, customer, input); err != nil {
				return nil, err
			}
			return customer, nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Identity not yet linked; fall through to email/anonymous.
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving customer by identity")
		}
	}

	if email != "" {
		customer, err := s.repo.FindCustomerByEmail(ctx, email)
		switch {
		case err == nil:
			if err := s.applyProfileFields(ctx, customer, input); err != nil {
				return nil, err
			}
			return customer, nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			return s.createCustomer(ctx, input, email)
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving customer by email")
		}
	}

	anonEmail, err := anonymousEmail()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "synthesizing anonymous email")
	}
	return s.createCustomer(ctx, input, anonEmail)
}

func (s *service) createCustomer(ctx context.Context, input ResolveInput, email string) (*models.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = AnonymousName
	}

	customer := &models.Customer{
		ID:         uuid.New(),
		IdentityID: input.IdentityID,
		Name:       name,
		Email:      email,
		Phone:      strings.TrimSpace(input.Phone),
		Address:    strings.TrimSpace(input.Address),
		PostalCode: input.PostalCode,
	}
	created, err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "customer email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating customer")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithCustomerID(ctx, created.ID.String()), "customer created")
	}
	return created, nil
}

// applyProfileFields overwrites the stored profile with any non-empty values
// from the current request and persists the result.
func (s *service) applyProfileFields(ctx context.Context, customer *models.Customer, input ResolveInput) error {
	updates := map[string]any{}
	if name := strings.TrimSpace(input.Name); name != "" && name != customer.Name {
		updates["name"] = name
		customer.Name = name
	}
	if email := strings.TrimSpace(input.Email); email != "" && email != customer.Email {
		updates["email"] = email
		customer.Email = email
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" && phone != customer.Phone {
		updates["phone"] = phone
		customer.Phone = phone
	}
	if address := strings.TrimSpace(input.Address); address != "" && address != customer.Address {
		updates["address"] = address
		customer.Address = address
	}
	if input.PostalCode != nil {
		updates["postal_code"] = *input.PostalCode
		customer.PostalCode = input.PostalCode
	}
	if len(updates) == 0 {
		return nil
	}
	if err := s.repo.UpdateCustomer(ctx, customer.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating customer profile")
	}
	return nil
}

func (s *service) SyncFromIdentity(ctx context.Context, identity *models.Identity) (*models.Customer, error) {
	if identity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identity is required")
	}

	customer, err := s.repo.FindCustomerByIdentity(ctx, identity.ID)
	switch {
	case err == nil:
		updates := map[string]any{}
		if identity.Username != "" && identity.Username != customer.Name {
			updates["name"] = identity.Username
			customer.Name = identity.Username
		}
		if identity.Email != "" && identity.Email != customer.Email {
			updates["email"] = identity.Email
			customer.Email = identity.Email
		}
		if len(updates) > 0 {
			if err := s.repo.UpdateCustomer(ctx, customer.ID, updates); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "syncing customer from identity")
			}
		}
		return customer, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Link an existing customer row created earlier by email checkout.
		if identity.Email != "" {
			existing, err := s.repo.FindCustomerByEmail(ctx, identity.Email)
			if err == nil {
				identityID := identity.ID
				if err := s.repo.UpdateCustomer(ctx, existing.ID, map[string]any{"identity_id": identityID}); err != nil {
					return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "linking customer to identity")
				}
				existing.IdentityID = &identityID
				return existing, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up customer by identity email")
			}
		}

		identityID := identity.ID
		email := identity.Email
		if email == "" {
			generated, genErr := anonymousEmail()
			if genErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, genErr, "synthesizing email for identity")
			}
			email = generated
		}
		created, err := s.repo.CreateCustomer(ctx, &models.Customer{
			ID:         uuid.New(),
			IdentityID: &identityID,
			Name:       identity.Username,
			Email:      email,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating customer for identity")
		}
		return created, nil
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer for identity")
	}
}

func (s *service) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindCustomerByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetching customer")
	}
	return customer, nil
}

func (s *service) GetCustomerByIdentity(ctx context.Context, identityID uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindCustomerByIdentity(ctx, identityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetching customer by identity")
	}
	return customer, nil
}

// ListCustomers returns real records, or placeholder rows when the customers
// table cannot be read because its migration has not been applied yet.
func (s *service) ListCustomers(ctx context.Context, params pagination.Params) (*CustomerList, error) {
	customers, next, err := s.repo.ListCustomers(ctx, params)
	if err != nil {
		if dbpkg.IsMissingRelation(err) {
			if s.logg != nil {
				s.logg.Warn(ctx, "customers table unavailable, serving placeholder list")
			}
			return &CustomerList{
				Placeholders: []CustomerPlaceholder{{Label: "customer data pending migration"}},
			}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customers")
	}
	return &CustomerList{Customers: customers, NextCursor: next}, nil
}

func (s *service) UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) error {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "customer name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "customer email cannot be empty")
		}
		updates["email"] = email
	}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		updates["address"] = strings.TrimSpace(*input.Address)
	}
	if input.PostalCode != nil {
		updates["postal_code"] = *input.PostalCode
	}
	if input.AvatarImage != nil {
		updates["avatar_image"] = *input.AvatarImage
	}
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateCustomer(ctx, id, updates); err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "customer email already registered")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating customer")
	}
	return nil
}

func (s *service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting customer")
	}
	return nil
}
