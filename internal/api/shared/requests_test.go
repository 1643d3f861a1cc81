package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oapi-codegen/nullable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carehire/carehire-api/internal/apperr"
)

type address struct {
	City string `json:"city" validate:"required"`
}

type profileRequest struct {
	FirstName string                    `json:"first_name" validate:"required,max=10"`
	Years     *int                      `json:"years_experience" validate:"omitnil,gte=0,lte=70"`
	Website   nullable.Nullable[string] `json:"website" validate:"omitempty,url"`
	Avail     string                    `json:"availability" validate:"omitempty,oneof=immediate two_weeks"`
	Address   *address                  `json:"address"`
}

func post(body string) (*httptest.ResponseRecorder, *http.Request) {
	return httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/profile", strings.NewReader(body))
}

func TestBind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		valid  bool
		kind   apperr.Kind
		fields []string
	}{
		{name: "valid", body: `{"first_name":"John","years_experience":3,"website":"https://x.io"}`, valid: true},
		{name: "null website skips url rule", body: `{"first_name":"John","website":null}`, valid: true},
		{name: "empty body", body: ``, kind: apperr.KindBadRequest},
		{name: "malformed", body: `{"first_name":`, kind: apperr.KindBadRequest},
		{name: "unknown field", body: `{"first_name":"John","admin":true}`, kind: apperr.KindBadRequest},
		{name: "wrong type", body: `{"first_name":42}`, kind: apperr.KindBadRequest},
		{name: "missing required", body: `{}`, kind: apperr.KindValidation, fields: []string{"first_name"}},
		{
			name:   "several invalid fields",
			body:   `{"first_name":"Johnathan Smith","years_experience":80,"website":"nope","availability":"later"}`,
			kind:   apperr.KindValidation,
			fields: []string{"first_name", "years_experience", "website", "availability"},
		},
		{name: "nested path", body: `{"first_name":"J","address":{}}`, kind: apperr.KindValidation, fields: []string{"address.city"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, r := post(tt.body)
			var req profileRequest
			err := Bind(w, r, &req)
			if tt.valid {
				require.NoError(t, err)
				return
			}
			appErr, ok := apperr.As(err)
			require.True(t, ok, "expected *apperr.Error, got %v", err)
			assert.Equal(t, tt.kind, appErr.Kind)
			assert.Equal(t, http.StatusBadRequest, appErr.Status)

			var got []string
			for _, d := range appErr.Details {
				got = append(got, d.Field)
				assert.NotEmpty(t, d.Message)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	t.Parallel()

	w, r := post(`{"first_name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`)
	var req profileRequest
	err := DecodeJSON(w, r, &req)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
	assert.Contains(t, err.Error(), "too large")
}

func TestDecodeJSONDoesNotEchoInput(t *testing.T) {
	t.Parallel()

	w, r := post(`{"first_name":"John","secret_field":"s3cr3t"}`)
	var req profileRequest
	err := DecodeJSON(w, r, &req)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.NotContains(t, appErr.Message, "s3cr3t")
}

func TestTagMessages(t *testing.T) {
	t.Parallel()

	w, r := post(`{"first_name":"","availability":"later"}`)
	var req profileRequest
	appErr, ok := apperr.As(Bind(w, r, &req))
	require.True(t, ok)

	msgs := map[string]string{}
	for _, d := range appErr.Details {
		msgs[d.Field] = d.Message
	}
	assert.Equal(t, "is required", msgs["first_name"])
	assert.Equal(t, "must be one of: immediate, two_weeks", msgs["availability"])
}
