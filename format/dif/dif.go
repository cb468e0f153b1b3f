// Package dif provides a format plugin for GCMD Directory Interchange
// Format (DIF) dataset descriptions, as served by the PO.DAAC metadata
// web service.
package dif

import (
	"bytes"

	"github.com/ESIPFed/eskg/format"
)

// Version is the DIF schema version the decoder targets.
const Version = "9.8.2"

// Namespace is the DIF 9 XML namespace. Documents in other namespaces
// are accepted as long as the root element is DIF.
const Namespace = "http://gcmd.gsfc.nasa.gov/Aboutus/xml/dif/"

// Format implements the DIF format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format = (*Format)(nil)
	_ format.Parser = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "dif"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "GCMD Directory Interchange Format (DIF v" + Version + ")"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"dif", "xml"}
}

// CanParse returns true if the input looks like DIF XML.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] != '<' {
		return false
	}

	if !bytes.Contains(peek, []byte("<DIF")) {
		return false
	}

	patterns := [][]byte{
		[]byte("gcmd.gsfc.nasa.gov"),
		[]byte("/xml/dif/"),
		[]byte("<Entry_ID"),
	}
	for _, pattern := range patterns {
		if bytes.Contains(peek, pattern) {
			return true
		}
	}

	return false
}

func init() {
	format.Register(&Format{})
}
