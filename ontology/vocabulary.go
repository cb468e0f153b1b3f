package ontology

import (
	"context"
	"strings"

	"github.com/zeebo/errs"

	"github.com/ESIPFed/eskg/rdf"
)

// VocabularyLoadError is the error class for a base vocabulary that cannot
// be fetched, parsed or does not define the expected classes. It is
// fatal to a run.
var VocabularyLoadError = errs.Class("vocabulary load")

// Vocabulary is a loaded base vocabulary.
type Vocabulary struct {
	URI    string
	Format rdf.Format
	Graph  *rdf.Graph
}

// LoadVocabulary fetches and parses the vocabulary at uri. A nil loader
// selects DefaultLoader.
func LoadVocabulary(ctx context.Context, loader Loader, uri string, format rdf.Format) (*Vocabulary, error) {
	if loader == nil {
		loader = DefaultLoader()
	}
	if uri == "" {
		return nil, VocabularyLoadError.New("no vocabulary URI configured")
	}

	rc, err := loader.Load(ctx, uri)
	if err != nil {
		return nil, VocabularyLoadError.Wrap(err)
	}
	defer rc.Close()

	g, err := rdf.Read(rc, format, uri)
	if err != nil {
		return nil, VocabularyLoadError.New("parsing %s: %v", uri, err)
	}
	if g.Len() == 0 {
		return nil, VocabularyLoadError.New("vocabulary %s has no statements", uri)
	}

	return &Vocabulary{URI: uri, Format: format, Graph: g}, nil
}

// Classes returns every IRI typed owl:Class or rdfs:Class, in document
// order.
func (v *Vocabulary) Classes() []rdf.IRI {
	seen := make(map[rdf.IRI]bool)
	var out []rdf.IRI
	for _, class := range []rdf.IRI{rdf.OWLClass, rdf.RDFSNamespace + "Class"} {
		for _, t := range v.Graph.Match(nil, rdf.Type, class) {
			if iri, ok := t.Subject.(rdf.IRI); ok && !seen[iri] {
				seen[iri] = true
				out = append(out, iri)
			}
		}
	}
	return out
}

// ResolveClass finds a class by full IRI or by local name. When several
// classes share the local name, the one in preferNS wins.
func (v *Vocabulary) ResolveClass(name, preferNS string) (rdf.IRI, error) {
	classes := v.Classes()
	if strings.Contains(name, "://") {
		for _, c := range classes {
			if string(c) == name {
				return c, nil
			}
		}
		return "", VocabularyLoadError.New("class %s is not defined by %s", name, v.URI)
	}

	var matches []rdf.IRI
	for _, c := range classes {
		if c.LocalName() == name {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return "", VocabularyLoadError.New("class %q is not defined by %s", name, v.URI)
	case 1:
		return matches[0], nil
	}
	for _, c := range matches {
		if c.Namespace() == preferNS {
			return c, nil
		}
	}
	return "", VocabularyLoadError.New("class name %q is ambiguous in %s", name, v.URI)
}
