package value

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ESIPFed/eskg/rdf"
)

// doubleLexical is the xsd:double lexical space without INF and NaN.
var doubleLexical = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)

// CoerceNumeric types a nominally numeric value. When the trimmed text is
// a finite decimal or scientific number it returns an xsd:double literal
// carrying that text unchanged, and true. Otherwise it returns the
// original text as a plain literal and false; the caller decides whether
// to log the fallback.
func CoerceNumeric(text string) (rdf.Literal, bool) {
	trimmed := strings.TrimSpace(text)
	if !doubleLexical.MatchString(trimmed) {
		return rdf.NewLiteral(text), false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return rdf.NewLiteral(text), false
	}
	return rdf.NewTypedLiteral(trimmed, rdf.XSDDouble), true
}
