// Package value provides the typing policy applied to metadata values
// before they become ontology literals.
//
// These helpers solve common problems:
//   - Whitespace trimming and empty-as-absent handling
//   - Numeric coercion with a string fallback
//   - Date literal typing by lexical precision
//   - Markup stripping for free text
package value

import "strings"

// TextOption configures text cleanup behavior.
type TextOption func(*textConfig)

type textConfig struct {
	stripHTML bool
}

// WithStripHTML removes markup and decodes entities.
func WithStripHTML() TextOption {
	return func(c *textConfig) {
		c.stripHTML = true
	}
}

// Clean trims surrounding whitespace and applies the given options.
// The empty string means the value is absent.
func Clean(s string, opts ...TextOption) string {
	cfg := textConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.stripHTML {
		s = StripHTML(s)
	}
	return strings.TrimSpace(s)
}

// CleanSlice cleans every entry and drops the ones that end up empty.
// It returns nil when nothing remains.
func CleanSlice(values []string, opts ...TextOption) []string {
	var out []string
	for _, v := range values {
		if v = Clean(v, opts...); v != "" {
			out = append(out, v)
		}
	}
	return out
}
