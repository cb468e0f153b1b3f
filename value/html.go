package value

import (
	"html"
	"regexp"
	"strings"
)

var (
	// HTML tag patterns
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	htmlCommentRegex = regexp.MustCompile(`<!--[\s\S]*?-->`)
	multiSpaceRegex  = regexp.MustCompile(`\s+`)

	// Block-level breaks become spaces so words do not run together
	brTagRegex    = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockEndRegex = regexp.MustCompile(`(?i)</(?:p|div|li|h[1-6]|blockquote|tr)>`)
)

// StripHTML removes HTML tags from a string, decodes HTML entities and
// collapses whitespace.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	s = htmlCommentRegex.ReplaceAllString(s, "")
	s = blockEndRegex.ReplaceAllString(s, " ")
	s = brTagRegex.ReplaceAllString(s, " ")
	s = htmlTagRegex.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	return NormalizeWhitespace(s)
}

// IsHTML checks if a string appears to contain HTML markup.
func IsHTML(s string) bool {
	return htmlTagRegex.MatchString(s)
}

// NormalizeWhitespace normalizes all whitespace to single spaces and trims.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(multiSpaceRegex.ReplaceAllString(s, " "))
}
