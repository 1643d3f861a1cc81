package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/carehire/carehire-api/internal/platform/logger"
)

const bearerScheme = "Bearer"

// Verifier validates HS256 bearer tokens signed with a shared secret.
// Verification is local; no network calls are made.
type Verifier struct {
	secret    []byte
	timeFunc  func() time.Time // Injectable for testing
	clockSkew time.Duration    // Allowed time difference for validation to handle clock drift
}

// VerifierOption customises a Verifier.
type VerifierOption func(*Verifier)

// WithTimeFunc overrides the clock used to check token lifetimes.
func WithTimeFunc(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.timeFunc = now
	}
}

// WithClockSkew sets the leeway applied to exp and iat checks.
func WithClockSkew(d time.Duration) VerifierOption {
	return func(v *Verifier) {
		v.clockSkew = d
	}
}

// NewVerifier creates a Verifier for secret. An empty secret is allowed; every
// verification then fails with ErrServerMisconfigured.
func NewVerifier(secret string, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		secret:    []byte(secret),
		timeFunc:  time.Now,
		clockSkew: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Configured reports whether a signing secret is present.
func (v *Verifier) Configured() bool {
	return len(v.secret) > 0
}

// ParseBearer extracts the token from an Authorization header value, which
// must be exactly "Bearer <token>".
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != bearerScheme || parts[1] == "" {
		return "", ErrMalformedHeader
	}
	return parts[1], nil
}

// VerifyHeader parses an Authorization header and verifies its token.
func (v *Verifier) VerifyHeader(ctx context.Context, header string) (*Identity, error) {
	if !v.Configured() {
		return nil, ErrServerMisconfigured
	}
	token, err := ParseBearer(header)
	if err != nil {
		return nil, err
	}
	return v.Verify(ctx, token)
}

// Verify validates tokenString and returns the identity it carries. The
// subject must be a UUID.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	log := logger.FromContext(ctx)

	if !v.Configured() {
		return nil, ErrServerMisconfigured
	}

	now := v.timeFunc()
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(v.clockSkew),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time {
			return now
		}),
	}

	var claims tokenClaims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.secret, nil
		},
		parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug("token validation failed: token expired", "error", err)
			return nil, ErrExpiredToken
		}
		log.Debug("token validation failed",
			"error", err,
			"error_type", fmt.Sprintf("%T", err))
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		log.Debug("token validation failed: subject is not a uuid")
		return nil, ErrInvalidToken
	}

	id := &Identity{
		Claims: Claims{
			Subject:  subject,
			Email:    claims.Email,
			Role:     claims.Role,
			UserType: claims.userType(),
			Metadata: claims.UserMetadata,
		},
		Token: tokenString,
		raw:   claims.asMap(),
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}
