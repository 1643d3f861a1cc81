package store

import (
	"errors"
	"fmt"
)

// SQLSTATE codes the store surfaces. Codes are PostgreSQL's, so any backend
// implementing the contract reports failures in the same vocabulary.
const (
	CodeUniqueViolation       = "23505"
	CodeForeignKeyViolation   = "23503"
	CodeNotNullViolation      = "23502"
	CodeCheckViolation        = "23514"
	CodeInvalidText           = "22P02"
	CodeInsufficientPrivilege = "42501"
	CodeNoRows                = "P0002"
	CodeTooManyRows           = "P0003"
	CodeInvalidAuthorization  = "28000"
	CodeInvalidPassword       = "28P01"
)

// Error is a failure reported by the row store.
type Error struct {
	Code       string // SQLSTATE
	Message    string
	Details    string
	Hint       string
	Constraint string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("store error %s: %s", e.Code, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying driver error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same code, so sentinels below work with
// errors.Is regardless of message or wrapped cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinel store errors.
var (
	// ErrNotFound is returned when a single-row expectation matched zero rows.
	ErrNotFound = &Error{Code: CodeNoRows, Message: "no rows returned"}

	// ErrMultipleRows is returned when a single-row expectation matched more than one row.
	ErrMultipleRows = &Error{Code: CodeTooManyRows, Message: "multiple rows returned"}

	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = &Error{Code: CodeUniqueViolation, Message: "duplicate key value"}

	// ErrPermissionDenied is returned when a row-level policy rejects the operation.
	ErrPermissionDenied = &Error{Code: CodeInsufficientPrivilege, Message: "permission denied"}
)

// CodeOf returns the SQLSTATE carried by err, or "" when err is not a store error.
func CodeOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsNotFound reports whether err is a zero-row result.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate reports whether err is a uniqueness violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
