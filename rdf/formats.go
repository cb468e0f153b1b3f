package rdf

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Format identifies an RDF serialization.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatRDFXML produces RDF/XML (.owl) output.
	FormatRDFXML Format = "rdfxml"
)

// FormatInfo provides metadata about a serialization.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string

	// Aliases are alternative spellings accepted by ParseFormat.
	Aliases []string

	// CanRead reports whether a reader exists for the format.
	CanRead bool
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
		Aliases:     []string{"ttl", "n3"},
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
		Aliases:     []string{"nt", "n-triple", "n-triples"},
		CanRead:     true,
	},
	FormatRDFXML: {
		Name:        FormatRDFXML,
		MIMEType:    "application/rdf+xml",
		Extension:   ".owl",
		Description: "RDF/XML - XML serialization used by OWL tooling",
		Aliases:     []string{"rdf/xml", "rdf", "xml", "owl", "rdf/xml-abbrev"},
		CanRead:     true,
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat resolves a format name or alias, case-insensitively.
func ParseFormat(name string) (Format, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for f, info := range FormatRegistry {
		if n == string(f) {
			return f, nil
		}
		for _, a := range info.Aliases {
			if n == a {
				return f, nil
			}
		}
	}
	return "", fmt.Errorf("unknown RDF format: %q", name)
}

// FormatNames returns the canonical format names, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// Write serializes the graph in the given format. Prefixes map prefix
// labels to namespace IRIs and are used where the format supports them.
func Write(w io.Writer, g *Graph, format Format, prefixes map[string]string) error {
	switch format {
	case FormatTurtle:
		return WriteTurtle(w, g, prefixes)
	case FormatNTriples:
		return WriteNTriples(w, g)
	case FormatRDFXML:
		return WriteRDFXML(w, g, prefixes)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Read parses a document in the given format into a new graph. Relative
// IRIs are resolved against base.
func Read(r io.Reader, format Format, base string) (*Graph, error) {
	switch format {
	case FormatNTriples:
		return ReadNTriples(r)
	case FormatRDFXML:
		return ReadRDFXML(r, base)
	default:
		return nil, fmt.Errorf("reading %s is not supported", format)
	}
}

// DefaultPrefixes returns the standard namespace prefixes.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":  RDFNamespace,
		"rdfs": RDFSNamespace,
		"owl":  OWLNamespace,
		"xsd":  XSDNamespace,
	}
}
