package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db/models"
)

// RegisterRequest captures the storefront signup payload.
type RegisterRequest struct {
	Username   string `json:"username" validate:"required,min=3"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	PostalCode *int   `json:"postal_code,omitempty"`
}

// StaffRegisterRequest captures the staff bootstrap payload. Staff identities
// carry no customer profile, so there are no contact fields here.
type StaffRegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the expired access token and its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// IdentityDTO is the public projection of an identity.
type IdentityDTO struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	IsStaff     bool       `json:"is_staff"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// TokenResponse contains the token pair and identity produced by login,
// registration and refresh.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	Identity     *IdentityDTO `json:"identity"`
	CustomerID   *uuid.UUID   `json:"customer_id,omitempty"`
}

// FromModel converts an identity row into its DTO.
func FromModel(identity *models.Identity) *IdentityDTO {
	if identity == nil {
		return nil
	}
	return &IdentityDTO{
		ID:          identity.ID,
		Username:    identity.Username,
		Email:       identity.Email,
		IsStaff:     identity.IsStaff,
		LastLoginAt: identity.LastLoginAt,
	}
}
