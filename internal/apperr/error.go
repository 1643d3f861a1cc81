package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error.
type Kind int

// Error kinds.
const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindUnauthorized
	KindForbidden
	KindConflict
	KindDatabase
	KindBadRequest
	KindRateLimited
)

var kindNames = map[Kind]string{
	KindInternal:     "InternalError",
	KindNotFound:     "NotFoundError",
	KindValidation:   "ValidationError",
	KindUnauthorized: "UnauthorizedError",
	KindForbidden:    "ForbiddenError",
	KindConflict:     "ConflictError",
	KindDatabase:     "DatabaseError",
	KindBadRequest:   "BadRequestError",
	KindRateLimited:  "RateLimitError",
}

// String returns the class name reported in the "error" field of envelopes.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindInternal]
}

// Machine-readable codes that are not derived from the persistence taxonomy.
const (
	CodeInternal          = "INTERNAL_ERROR"
	CodeValidation        = "VALIDATION_ERROR"
	CodeBadRequest        = "BAD_REQUEST"
	CodeForbidden         = "FORBIDDEN"
	CodeConflict          = "CONFLICT"
	CodeMaxEntries        = "MAX_ENTRIES_EXCEEDED"
	CodeNoToken           = "NO_TOKEN"
	CodeMalformedHeader   = "MALFORMED_HEADER"
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeMisconfigured     = "SERVER_MISCONFIGURED"
	CodeRateLimited       = "RATE_LIMITED"
	CodeRouteNotFound     = "ROUTE_NOT_FOUND"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeProfileNotFound   = "PROFILE_NOT_FOUND"
	CodeStorageNotEnabled = "STORAGE_UNAVAILABLE"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
}

// Error is a failure that is safe to report to the caller. Message and Code
// are shown verbatim; Err is the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Details []FieldError
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithCause returns a copy of e carrying err as its cause.
func (e *Error) WithCause(err error) *Error {
	c := *e
	c.Err = err
	return &c
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of kind k.
func IsKind(err error, k Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == k
}

// NotFound reports a missing resource, e.g. NotFound("Job").
func NotFound(resource string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: resource + " not found",
	}
}

// ProfileNotFound reports that the caller has no owner profile of the given kind.
func ProfileNotFound(kind string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Code:    CodeProfileNotFound,
		Message: kind + " profile not found",
	}
}

// Validation reports invalid input fields.
func Validation(details []FieldError) *Error {
	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: "Validation failed",
		Details: details,
	}
}

// BadRequest reports a request that cannot be processed as sent.
func BadRequest(message string) *Error {
	return &Error{
		Kind:    KindBadRequest,
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
	}
}

// Unauthorized reports a missing or rejected credential.
func Unauthorized(code, message string) *Error {
	return &Error{
		Kind:    KindUnauthorized,
		Status:  http.StatusUnauthorized,
		Code:    code,
		Message: message,
	}
}

// Forbidden reports an authenticated caller acting on a resource it does not own.
func Forbidden(message string) *Error {
	return &Error{
		Kind:    KindForbidden,
		Status:  http.StatusForbidden,
		Code:    CodeForbidden,
		Message: message,
	}
}

// Conflict reports a resource that already exists.
func Conflict(message string) *Error {
	return &Error{
		Kind:    KindConflict,
		Status:  http.StatusConflict,
		Code:    CodeConflict,
		Message: message,
	}
}

// MaxEntries reports that an owner already holds the maximum number of rows of
// a capped resource kind.
func MaxEntries(resource string, limit int) *Error {
	return &Error{
		Kind:    KindDatabase,
		Status:  http.StatusBadRequest,
		Code:    CodeMaxEntries,
		Message: fmt.Sprintf("Maximum of %d %s entries allowed", limit, resource),
	}
}

// Misconfigured reports a server-side configuration fault.
func Misconfigured(message string) *Error {
	return &Error{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Code:    CodeMisconfigured,
		Message: message,
	}
}

// Internal wraps an unexpected failure. The cause is never shown to callers in
// production.
func Internal(err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: "An unexpected error occurred",
		Err:     err,
	}
}

// Unavailable reports a dependency that is not configured or not reachable.
func Unavailable(code, message string) *Error {
	return &Error{
		Kind:    KindInternal,
		Status:  http.StatusServiceUnavailable,
		Code:    code,
		Message: message,
	}
}

// RateLimited reports a caller that exhausted its request budget.
func RateLimited() *Error {
	return &Error{
		Kind:    KindRateLimited,
		Status:  http.StatusTooManyRequests,
		Code:    CodeRateLimited,
		Message: "Too many requests, please try again later",
	}
}

// RouteNotFound reports a request for a path no route serves.
func RouteNotFound(method, path string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Code:    CodeRouteNotFound,
		Message: fmt.Sprintf("Route %s %s not found", method, path),
	}
}

// MethodNotAllowed reports a known path requested with an unsupported method.
func MethodNotAllowed(method string) *Error {
	return &Error{
		Kind:    KindBadRequest,
		Status:  http.StatusMethodNotAllowed,
		Code:    CodeMethodNotAllowed,
		Message: "Method " + method + " is not allowed on this route",
	}
}
