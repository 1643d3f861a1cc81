package auth

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/carehire/carehire-api/internal/store"
)

// Claims is the verified identity carried by a token.
type Claims struct {
	Subject   uuid.UUID      `json:"sub"`
	Email     string         `json:"email,omitempty"`
	Role      string         `json:"role,omitempty"`
	UserType  string         `json:"user_type,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	IssuedAt  time.Time      `json:"issued_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Identity is a verified caller: its claims plus the raw token they were read
// from. The raw token is forwarded verbatim to the store.
type Identity struct {
	Claims
	Token string `json:"-"`
	raw   map[string]any
}

// Credential returns the store credential for this identity. A nil identity
// yields the anonymous credential.
func (id *Identity) Credential() store.Credential {
	if id == nil {
		return store.Credential{}
	}
	return store.Credential{
		Token:   id.Token,
		Subject: id.Subject.String(),
		Role:    id.Role,
		Claims:  id.raw,
	}
}

// tokenClaims is the wire shape of the token payload.
type tokenClaims struct {
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// userType reads the marketplace role a user picked at sign-up.
func (c *tokenClaims) userType() string {
	if v, ok := c.UserMetadata["user_type"].(string); ok {
		return v
	}
	return ""
}

// asMap returns the payload as a generic claim set.
func (c *tokenClaims) asMap() map[string]any {
	b, err := json.Marshal(c)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}
