package apperr

import (
	"net/http"
	"unicode"

	"github.com/carehire/carehire-api/internal/store"
)

// Mapping is the caller-facing rendering of one persistence error code.
type Mapping struct {
	Message string
	Status  int
	Code    string
	Kind    Kind
	// Subject marks messages that read naturally prefixed with the resource
	// name ("Job not found").
	Subject bool
}

// taxonomy is read-only after package initialisation.
var taxonomy = map[string]Mapping{
	store.CodeUniqueViolation: {
		Message: "already exists", Status: http.StatusConflict,
		Code: "DUPLICATE_RESOURCE", Kind: KindConflict, Subject: true,
	},
	store.CodeForeignKeyViolation: {
		Message: "referenced record does not exist", Status: http.StatusBadRequest,
		Code: "INVALID_REFERENCE", Kind: KindDatabase,
	},
	store.CodeNotNullViolation: {
		Message: "required field is missing", Status: http.StatusBadRequest,
		Code: "MISSING_FIELD", Kind: KindDatabase,
	},
	store.CodeCheckViolation: {
		Message: "value does not meet requirements", Status: http.StatusBadRequest,
		Code: "CONSTRAINT_VIOLATION", Kind: KindDatabase,
	},
	store.CodeInvalidText: {
		Message: "invalid input syntax", Status: http.StatusBadRequest,
		Code: "INVALID_INPUT", Kind: KindBadRequest,
	},
	store.CodeInsufficientPrivilege: {
		Message: "not permitted", Status: http.StatusForbidden,
		Code: "PERMISSION_DENIED", Kind: KindForbidden,
	},
	store.CodeNoRows: {
		Message: "not found", Status: http.StatusNotFound,
		Code: "NOT_FOUND", Kind: KindNotFound, Subject: true,
	},
	store.CodeTooManyRows: {
		Message: "multiple records found", Status: http.StatusConflict,
		Code: "MULTIPLE_RECORDS", Kind: KindConflict,
	},
	store.CodeInvalidAuthorization: {
		Message: "authentication failed", Status: http.StatusUnauthorized,
		Code: "AUTHENTICATION_FAILED", Kind: KindUnauthorized,
	},
	store.CodeInvalidPassword: {
		Message: "authentication failed", Status: http.StatusUnauthorized,
		Code: "AUTHENTICATION_FAILED", Kind: KindUnauthorized,
	},
}

var unknown = Mapping{
	Message: "unexpected error",
	Status:  http.StatusInternalServerError,
	Code:    "DATABASE_ERROR",
	Kind:    KindDatabase,
}

// Lookup returns the mapping for a persistence error code. Unrecognised codes,
// including the empty code, map to a generic 500.
func Lookup(code string) Mapping {
	if m, ok := taxonomy[code]; ok {
		return m
	}
	return unknown
}

// FromStore converts a persistence failure into an *Error. resource names the
// entity involved ("Job", "Profile") and is used in subject-style messages.
// An err that already carries an *Error is returned unchanged; nil yields nil.
func FromStore(err error, resource string) *Error {
	if err == nil {
		return nil
	}
	if ae, ok := As(err); ok {
		return ae
	}

	m := Lookup(store.CodeOf(err))
	msg := capitalize(m.Message)
	if m.Subject && resource != "" {
		msg = resource + " " + m.Message
	}
	return &Error{
		Kind:    m.Kind,
		Status:  m.Status,
		Code:    m.Code,
		Message: msg,
		Err:     err,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

