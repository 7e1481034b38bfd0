// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespaceRun collapses consecutive whitespace into a single separator.
	whitespaceRun = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// wellFormed matches a complete slug: lowercase alphanumeric runs
	// separated by single hyphens.
	wellFormed = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "ASW 1200!!" → "asw-1200"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespaceRun.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// WithTimestamp creates a slug from the given string and appends a Unix
// millisecond suffix so repeated names stay unique.
// Example: "ASW 1200!!" → "asw-1200-1756710000000"
func WithTimestamp(s string) string {
	base := Generate(s)
	ts := time.Now().UnixMilli()
	if base == "" {
		return fmt.Sprintf("%d", ts)
	}
	return fmt.Sprintf("%s-%d", base, ts)
}

// Valid reports whether s is a well-formed slug with no leading or
// trailing hyphen.
func Valid(s string) bool {
	return wellFormed.MatchString(s)
}
