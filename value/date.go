package value

import (
	"regexp"
	"strings"

	"github.com/ESIPFed/eskg/rdf"
)

// DatePrecision indicates the granularity of a date.
type DatePrecision int

const (
	PrecisionUnknown DatePrecision = iota
	PrecisionYear
	PrecisionMonth
	PrecisionDay
	PrecisionTime
)

// Common date patterns
var (
	isoDateRegex     = regexp.MustCompile(`^-?(\d{4})(?:-(\d{2})(?:-(\d{2}))?)?$`)
	isoDateTimeRegex = regexp.MustCompile(`^-?\d{4}-\d{2}-\d{2}T\d{2}:\d{2}`)
)

// Precision reports the granularity of an ISO 8601 date string. It looks
// only at the shape of the text and does not check calendar correctness.
func Precision(s string) DatePrecision {
	s = strings.TrimSpace(s)
	if isoDateTimeRegex.MatchString(s) {
		return PrecisionTime
	}
	matches := isoDateRegex.FindStringSubmatch(s)
	switch {
	case matches == nil:
		return PrecisionUnknown
	case matches[3] != "":
		return PrecisionDay
	case matches[2] != "":
		return PrecisionMonth
	default:
		return PrecisionYear
	}
}

// DateDatatype picks the XSD datatype for a date value by its precision.
// Values of unknown shape are typed xsd:date.
func DateDatatype(s string) rdf.IRI {
	switch Precision(s) {
	case PrecisionTime:
		return rdf.XSDDateTime
	case PrecisionYear:
		return rdf.XSDGYear
	case PrecisionMonth:
		return rdf.XSDGYearMonth
	default:
		return rdf.XSDDate
	}
}

// DateLiteral returns the typed literal for a date value.
func DateLiteral(s string) rdf.Literal {
	return rdf.NewTypedLiteral(s, DateDatatype(s))
}
