// Package sanitize strips markup from user-supplied free text before it
// is stored. Comment bodies and lead-form messages are rendered back to
// other visitors, so they must never carry HTML.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy removes all HTML elements and attributes, keeping text content.
var policy = bluemonday.StrictPolicy()

// Text returns s with all HTML stripped and surrounding whitespace trimmed.
func Text(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}

// Fields sanitizes every value of a string map in place and returns it.
func Fields(m map[string]string) map[string]string {
	for k, v := range m {
		m[k] = Text(v)
	}
	return m
}
