package service

import (
	"strings"

	"github.com/oapi-codegen/nullable"

	"github.com/carehire/carehire-api/internal/apperr"
	"github.com/carehire/carehire-api/internal/store"
)

// setNullable copies a tri-state field into v: absent fields are skipped,
// explicit nulls clear the column and values are written as given.
func setNullable[T any](v store.Values, column string, n nullable.Nullable[T]) {
	if !n.IsSpecified() {
		return
	}
	if n.IsNull() {
		v[column] = nil
		return
	}
	v[column] = n.MustGet()
}

// setPtr copies a non-nullable optional field into v when it was supplied.
func setPtr[T any](v store.Values, column string, p *T) {
	if p != nil {
		v[column] = *p
	}
}

// orNil returns *p, or an untyped nil for a nil pointer, so that full
// replacements clear optional columns.
func orNil[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// sanitizeNullable strips markup from a specified, non-null text value.
func (b base) sanitizeNullable(n nullable.Nullable[string]) nullable.Nullable[string] {
	if !n.IsSpecified() || n.IsNull() {
		return n
	}
	return nullable.NewNullableWithValue(b.sanitizer.Text(n.MustGet()))
}

// likePattern turns free text into a case-insensitive "contains" pattern.
// Pattern metacharacters in the input are dropped.
func likePattern(s string) string {
	s = strings.NewReplacer("%", "", "_", "", `\`, "").Replace(strings.TrimSpace(s))
	return "%" + s + "%"
}

// errNoFields rejects an update payload that changes nothing.
var errNoFields = apperr.BadRequest("No fields to update")

func fieldError(field, message string) *apperr.Error {
	return apperr.Validation([]apperr.FieldError{{Field: field, Message: message}})
}
