package shared

import (
	"context"

	"github.com/google/uuid"

	"github.com/carehire/carehire-api/internal/service/auth"
)

// ContextKey is the type of request context keys set by this package.
type ContextKey string

// Context keys for request-scoped values.
const (
	// CorrelationIDKey holds the request's correlation id.
	CorrelationIDKey ContextKey = "correlationID"

	// IdentityKey holds the verified caller identity.
	IdentityKey ContextKey = "identity"
)

// CorrelationHeader carries the correlation id in requests and responses.
const CorrelationHeader = "X-Correlation-ID"

// maxCorrelationIDLength bounds correlation ids accepted from callers.
const maxCorrelationIDLength = 128

// NewCorrelationID returns a fresh random correlation id. It is safe for
// concurrent use and shares no state between calls.
func NewCorrelationID() string {
	return uuid.NewString()
}

// CorrelationIDFrom returns inbound when it is a usable correlation id and a
// new one otherwise.
func CorrelationIDFrom(inbound string) string {
	if inbound == "" || len(inbound) > maxCorrelationIDLength {
		return NewCorrelationID()
	}
	for _, r := range inbound {
		if r < 0x21 || r > 0x7e {
			return NewCorrelationID()
		}
	}
	return inbound
}

// WithCorrelationID returns a copy of ctx carrying id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// CorrelationID returns the correlation id in ctx, or "" when none was set.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(CorrelationIDKey).(string)
	return id
}

// WithIdentity returns a copy of ctx carrying the verified caller.
func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFrom returns the verified caller in ctx, or nil for anonymous
// requests.
func IdentityFrom(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(IdentityKey).(*auth.Identity)
	return id
}
