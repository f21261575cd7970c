package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	IdentityID uuid.UUID
	Username   string
	CustomerID *uuid.UUID
	IsStaff    bool
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	IdentityID uuid.UUID  `json:"identity_id"`
	Username   string     `json:"username"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	IsStaff    bool       `json:"is_staff"`
	jwt.RegisteredClaims
}
