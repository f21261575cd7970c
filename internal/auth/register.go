package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/accounts"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/config"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/security"
)

// RegisterService handles storefront signups. A registered identity always
// gets a linked customer profile through the accounts sync.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*IdentityDTO, error)
	RegisterStaff(ctx context.Context, req StaffRegisterRequest) (*IdentityDTO, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	Customers      accounts.Service
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          *db.Client
	customers   accounts.Service
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Customers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "accounts service required")
	}
	return &registerService{
		db:          params.DB,
		customers:   params.Customers,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*IdentityDTO, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	identity, err := s.createIdentity(ctx, username, email, passwordHash, false)
	if err != nil {
		return nil, err
	}

	// Non-staff signups always get a customer profile. A sync failure here
	// must surface, not vanish.
	if _, err := s.customers.SyncFromIdentity(ctx, identity); err != nil {
		return nil, err
	}

	if req.Name != "" || req.Phone != "" || req.Address != "" || req.PostalCode != nil {
		customer, err := s.customers.GetCustomerByIdentity(ctx, identity.ID)
		if err != nil {
			return nil, err
		}
		update := accounts.UpdateCustomerInput{PostalCode: req.PostalCode}
		if req.Name != "" {
			update.Name = &req.Name
		}
		if req.Phone != "" {
			update.Phone = &req.Phone
		}
		if req.Address != "" {
			update.Address = &req.Address
		}
		if err := s.customers.UpdateCustomer(ctx, customer.ID, update); err != nil {
			return nil, err
		}
	}

	return FromModel(identity), nil
}

// RegisterStaff bootstraps a staff identity without a customer profile. The
// router only mounts this surface outside production.
func (s *registerService) RegisterStaff(ctx context.Context, req StaffRegisterRequest) (*IdentityDTO, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	identity, err := s.createIdentity(ctx, username, email, passwordHash, true)
	if err != nil {
		return nil, err
	}
	return FromModel(identity), nil
}

func (s *registerService) createIdentity(ctx context.Context, username, email, passwordHash string, isStaff bool) (*models.Identity, error) {
	var identity *models.Identity
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		if _, err := repo.FindByUsername(ctx, username); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}

		created, err := repo.Create(ctx, &models.Identity{
			ID:           uuid.New(),
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
			IsStaff:      isStaff,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create identity")
		}
		identity = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return identity, nil
}
