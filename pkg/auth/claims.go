package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims identify the creator behind a dashboard session.
type AccessTokenClaims struct {
	CreatorID uuid.UUID `json:"creator_id"`
	Slug      string    `json:"slug,omitempty"`
	jwt.RegisteredClaims
}

// AccessTokenPayload is the input for minting an access token.
type AccessTokenPayload struct {
	CreatorID uuid.UUID
	Slug      string
	JTI       string
}
