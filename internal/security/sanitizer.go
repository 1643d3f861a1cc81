// Package security strips markup from free-text fields before they are stored.
//
// Bios, job descriptions and cover letters are plain text. Any HTML a client
// submits is removed with a strict bluemonday policy so stored text can never
// carry script or event-handler payloads into a consumer that renders it.
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer converts untrusted input into plain text.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a Sanitizer that allows no elements at all. It is safe
// for concurrent use.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text removes all markup from s, decodes entities so "&" stays "&", and trims
// surrounding whitespace.
func (s *Sanitizer) Text(in string) string {
	if in == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in)))
}

// TextPtr is Text for optional fields. nil stays nil.
func (s *Sanitizer) TextPtr(in *string) *string {
	if in == nil {
		return nil
	}
	out := s.Text(*in)
	return &out
}
