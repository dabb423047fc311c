// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

// Task titles/descriptions and reward text are free-form user input that
// ends up in JSON payloads consumed by browsers. Everything is stored as
// plain text; markup is stripped on the way in.

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// StripTags removes all HTML markup from s, returning plain text.
func StripTags(s string) string {
	return strict.Sanitize(s)
}

// CleanText strips markup and trims surrounding whitespace. Use on any
// free-text field before it is written to the store.
func CleanText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// IsPlainText reports whether s contains no HTML tag pair at all.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}
