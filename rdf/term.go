// Package rdf provides a small RDF term model, a statement-set graph, and
// Turtle, N-Triples and RDF/XML serializers sufficient for publishing
// ontology individuals and loading published vocabularies.
package rdf

import (
	"fmt"
	"strings"
)

// Well-known namespaces.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
	XMLNamespace  = "http://www.w3.org/XML/1998/namespace"
)

// Frequently used vocabulary terms.
const (
	Type           IRI = RDFNamespace + "type"
	SubClassOf     IRI = RDFSNamespace + "subClassOf"
	Label          IRI = RDFSNamespace + "label"
	Comment        IRI = RDFSNamespace + "comment"
	OWLClass       IRI = OWLNamespace + "Class"
	OWLOntology    IRI = OWLNamespace + "Ontology"
	OWLImports     IRI = OWLNamespace + "imports"
	OWLVersionInfo IRI = OWLNamespace + "versionInfo"

	XSDString     IRI = XSDNamespace + "string"
	XSDDouble     IRI = XSDNamespace + "double"
	XSDDate       IRI = XSDNamespace + "date"
	XSDDateTime   IRI = XSDNamespace + "dateTime"
	XSDGYear      IRI = XSDNamespace + "gYear"
	XSDGYearMonth IRI = XSDNamespace + "gYearMonth"
)

// Term is an RDF node: an IRI, a blank node or a literal.
// String returns the N-Triples form of the term.
type Term interface {
	String() string
	term()
}

// IRI is an absolute IRI reference.
type IRI string

func (IRI) term() {}

func (i IRI) String() string {
	return "<" + escapeIRI(string(i)) + ">"
}

// LocalName returns the part of the IRI after the last '#' or '/'.
func (i IRI) LocalName() string {
	s := string(i)
	if idx := strings.LastIndexAny(s, "#/"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

// Namespace returns the IRI up to and including the last '#' or '/'.
func (i IRI) Namespace() string {
	s := string(i)
	if idx := strings.LastIndexAny(s, "#/"); idx >= 0 {
		return s[:idx+1]
	}
	return ""
}

// Blank is a blank node identified by a document-local label.
type Blank string

func (Blank) term() {}

func (b Blank) String() string {
	return "_:" + string(b)
}

// Literal is a plain, language-tagged or datatyped literal.
// A literal never carries both a language tag and a datatype.
type Literal struct {
	Lexical  string
	Datatype IRI
	Lang     string
}

func (Literal) term() {}

// NewLiteral creates a plain literal.
func NewLiteral(lexical string) Literal {
	return Literal{Lexical: lexical}
}

// NewLangLiteral creates a language-tagged literal.
func NewLangLiteral(lexical, lang string) Literal {
	return Literal{Lexical: lexical, Lang: strings.ToLower(lang)}
}

// NewTypedLiteral creates a datatyped literal. xsd:string is folded into
// a plain literal.
func NewTypedLiteral(lexical string, datatype IRI) Literal {
	if datatype == XSDString {
		datatype = ""
	}
	return Literal{Lexical: lexical, Datatype: datatype}
}

func (l Literal) String() string {
	s := `"` + escapeLiteral(l.Lexical) + `"`
	switch {
	case l.Lang != "":
		return s + "@" + l.Lang
	case l.Datatype != "":
		return s + "^^" + l.Datatype.String()
	}
	return s
}

// Triple is one RDF statement. Triples are comparable and can be used as
// map keys.
type Triple struct {
	Subject   Term
	Predicate IRI
	Object    Term
}

func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s .", t.Subject, t.Predicate, t.Object)
}

func escapeLiteral(s string) string {
	if !strings.ContainsAny(s, "\\\"\n\r\t") {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func escapeIRI(s string) string {
	if !strings.ContainsAny(s, "<>\"{}|^`\\ ") {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '<', '>', '"', '{', '}', '|', '^', '`', '\\', ' ':
			fmt.Fprintf(&sb, `\u%04X`, r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
