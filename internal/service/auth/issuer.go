package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultRole is the database role claim carried by user tokens.
const DefaultRole = "authenticated"

// TokenRequest describes a token to mint.
type TokenRequest struct {
	Subject  uuid.UUID
	Email    string
	Role     string
	UserType string
	// TTL is the token lifetime. A negative TTL yields an already expired token.
	TTL time.Duration
}

// Issuer signs HS256 tokens in the shape Verifier accepts. It backs the
// development token tool and tests; production tokens come from the identity
// provider sharing the secret.
type Issuer struct {
	secret   []byte
	timeFunc func() time.Time
}

// NewIssuer creates an Issuer for secret.
func NewIssuer(secret string) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &Issuer{secret: []byte(secret), timeFunc: time.Now}, nil
}

// Issue signs a token for req.
func (i *Issuer) Issue(req TokenRequest) (string, error) {
	now := i.timeFunc()
	role := req.Role
	if role == "" {
		role = DefaultRole
	}

	claims := tokenClaims{
		Email: req.Email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   req.Subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(req.TTL)),
			ID:        uuid.NewString(),
		},
	}
	if req.UserType != "" {
		claims.UserMetadata = map[string]any{"user_type": req.UserType}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}
	return signed, nil
}
