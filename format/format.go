// Package format defines the interface for metadata dialect plugins.
package format

import (
	"io"

	"github.com/zeebo/errs"

	"github.com/ESIPFed/eskg/hub"
)

// MalformedInputError is the error class for documents that are not
// well-formed XML or lack the dialect's root element or namespace.
var MalformedInputError = errs.Class("malformed input")

// Format defines the interface that all dialect plugins must implement.
type Format interface {
	// Name returns the format identifier (e.g., "dif")
	Name() string

	// Description returns a human-readable format description
	Description() string

	// Extensions returns file extensions associated with this format
	Extensions() []string

	// CanParse returns true if this format can parse the given input
	CanParse(peek []byte) bool
}

// Parser is a format that can parse one source document into a record.
type Parser interface {
	Format

	// Parse reads one document and returns its record. Implementations
	// hold no state between calls and are safe for concurrent use.
	Parse(r io.Reader, opts *ParseOptions) (*hub.Record, error)
}

// ParseOptions contains options for parsing.
type ParseOptions struct {
	// StripHTML removes HTML from free-text fields
	StripHTML bool

	// SourceName is an identifier for the source (for error messages)
	SourceName string
}

// NewParseOptions creates ParseOptions with defaults.
func NewParseOptions() *ParseOptions {
	return &ParseOptions{}
}
