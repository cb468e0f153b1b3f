package ontology

import (
	"bytes"
	"io"

	"github.com/ESIPFed/eskg/rdf"
)

// Model is the result of one projection: the dataset subclass declaration
// and the individuals, plus the vocabulary when it was included.
type Model struct {
	graph       *rdf.Graph
	individuals []rdf.IRI
	byEntry     map[string]rdf.IRI
	prefixes    map[string]string
}

func newModel(prefixes map[string]string) *Model {
	all := rdf.DefaultPrefixes()
	for k, v := range prefixes {
		all[k] = v
	}
	return &Model{
		graph:    rdf.NewGraph(),
		byEntry:  make(map[string]rdf.IRI),
		prefixes: all,
	}
}

// Graph returns the model's statements.
func (m *Model) Graph() *rdf.Graph {
	return m.graph
}

// Individuals returns the individual IRIs in first-projected order.
func (m *Model) Individuals() []rdf.IRI {
	return m.individuals
}

// Individual returns the statements about the individual for entryID, or
// nil when no record had that id.
func (m *Model) Individual(entryID string) []rdf.Triple {
	ind, ok := m.byEntry[entryID]
	if !ok {
		return nil
	}
	return m.graph.Match(ind, "", nil)
}

// Prefixes returns the namespace prefixes used when serializing.
func (m *Model) Prefixes() map[string]string {
	return m.prefixes
}

// Write serializes the model.
func (m *Model) Write(w io.Writer, format rdf.Format) error {
	return rdf.Write(w, m.graph, format, m.prefixes)
}

// Encode serializes the model into a byte slice.
func (m *Model) Encode(format rdf.Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Write(&buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
