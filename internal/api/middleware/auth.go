package middleware

import (
	"errors"
	"net/http"

	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/apperr"
	"github.com/carehire/carehire-api/internal/platform/logger"
	"github.com/carehire/carehire-api/internal/service/auth"
)

// Authenticator verifies bearer tokens and stores the caller identity in the
// request context.
type Authenticator struct {
	verifier *auth.Verifier
	faults   *shared.FaultHandler
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(verifier *auth.Verifier, faults *shared.FaultHandler) *Authenticator {
	if verifier == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("verifier cannot be nil")
	}
	if faults == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("fault handler cannot be nil")
	}
	return &Authenticator{verifier: verifier, faults: faults}
}

// Required rejects requests without a valid bearer token with 401, or with
// 500 when no signing secret is configured. No handler runs for a rejected
// request.
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := a.verifier.VerifyHeader(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			a.faults.Respond(w, r, authError(err))
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.WithIdentity(r.Context(), id)))
	})
}

// Optional attaches the caller identity when a valid bearer token is present
// and otherwise lets the request through anonymously. A presented token on a
// server without a signing secret still fails with 500.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := a.verifier.VerifyHeader(r.Context(), header)
		if errors.Is(err, auth.ErrServerMisconfigured) {
			a.faults.Respond(w, r, authError(err))
			return
		}
		if err != nil {
			logger.FromContext(r.Context()).DebugContext(r.Context(),
				"ignoring unusable credential on optional route", "reason", err.Error())
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.WithIdentity(r.Context(), id)))
	})
}

// authError maps verifier failures to caller-visible errors.
func authError(err error) error {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return apperr.Unauthorized(apperr.CodeNoToken, "No authentication token provided")
	case errors.Is(err, auth.ErrMalformedHeader):
		return apperr.Unauthorized(apperr.CodeMalformedHeader, "Authorization header must be 'Bearer <token>'")
	case errors.Is(err, auth.ErrExpiredToken):
		return apperr.Unauthorized(apperr.CodeTokenExpired, "Token has expired")
	case errors.Is(err, auth.ErrServerMisconfigured):
		return apperr.Misconfigured("Server authentication is not configured")
	default:
		return apperr.Unauthorized(apperr.CodeInvalidToken, "Invalid token").WithCause(err)
	}
}
