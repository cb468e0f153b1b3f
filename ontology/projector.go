package ontology

import (
	"net/url"
	"time"

	"github.com/ESIPFed/eskg/hub"
	"github.com/ESIPFed/eskg/mapping"
	"github.com/ESIPFed/eskg/rdf"
	"github.com/ESIPFed/eskg/value"
)

// Projector turns records into ontology individuals.
type Projector struct {
	cfg       Config
	vocab     *Vocabulary
	baseClass rdf.IRI
	subClass  rdf.IRI
}

// NewProjector resolves the configured base class in the vocabulary. An
// unresolvable class is a VocabularyLoadError.
func NewProjector(cfg Config, vocab *Vocabulary) (*Projector, error) {
	if vocab == nil {
		return nil, VocabularyLoadError.New("no vocabulary loaded")
	}
	base, err := vocab.ResolveClass(cfg.BaseClass, cfg.ClassNamespace)
	if err != nil {
		return nil, err
	}
	return &Projector{
		cfg:       cfg,
		vocab:     vocab,
		baseClass: base,
		subClass:  rdf.IRI(cfg.ClassNamespace + cfg.SubClass),
	}, nil
}

// BaseClass returns the resolved vocabulary dataset class.
func (p *Projector) BaseClass() rdf.IRI {
	return p.baseClass
}

// IndividualIRI returns the IRI of the individual for an entry id.
func (p *Projector) IndividualIRI(entryID string) rdf.IRI {
	return rdf.IRI(p.cfg.ClassNamespace + url.PathEscape(entryID))
}

// Project builds a fresh model holding one individual per distinct entry
// id. Records sharing an entry id project onto the same individual; each
// property the later record asserts replaces the earlier values.
func (p *Projector) Project(records *hub.Collection) (*Model, error) {
	m := newModel(p.cfg.Prefixes)
	log := p.cfg.logger()

	if p.cfg.IncludeVocabulary {
		m.graph.AddAll(p.vocab.Graph)
	}
	if p.cfg.OntologyIRI != "" {
		ont := rdf.IRI(p.cfg.OntologyIRI)
		m.graph.Add(rdf.Triple{Subject: ont, Predicate: rdf.Type, Object: rdf.OWLOntology})
		m.graph.Add(rdf.Triple{Subject: ont, Predicate: rdf.OWLImports, Object: rdf.IRI(p.vocab.URI)})
	}
	m.graph.Add(rdf.Triple{Subject: p.subClass, Predicate: rdf.Type, Object: rdf.OWLClass})
	m.graph.Add(rdf.Triple{Subject: p.subClass, Predicate: rdf.SubClassOf, Object: p.baseClass})

	stamp := rdf.NewTypedLiteral(p.cfg.now().UTC().Format(time.RFC3339), rdf.XSDDateTime)

	for _, rec := range records.All() {
		ind := p.IndividualIRI(rec.EntryID)
		statements := p.statements(rec, ind, stamp)

		if _, seen := m.byEntry[rec.EntryID]; seen {
			replaced := make(map[rdf.IRI]bool)
			for _, t := range statements {
				if !replaced[t.Predicate] {
					m.graph.Remove(ind, t.Predicate)
					replaced[t.Predicate] = true
				}
			}
			log.Debug("entry id seen before, later values win", "entry_id", rec.EntryID)
		} else {
			m.byEntry[rec.EntryID] = ind
			m.individuals = append(m.individuals, ind)
		}

		for _, t := range statements {
			m.graph.Add(t)
		}
	}

	return m, nil
}

func (p *Projector) statements(rec *hub.Record, ind rdf.IRI, stamp rdf.Literal) []rdf.Triple {
	out := []rdf.Triple{
		{Subject: ind, Predicate: rdf.Type, Object: p.subClass},
		{Subject: ind, Predicate: rdf.OWLVersionInfo, Object: stamp},
	}

	mapping.Walk(rec, func(n *mapping.Node, text string) {
		prop := p.cfg.Naming.Property(n)
		out = append(out, rdf.Triple{
			Subject:   ind,
			Predicate: rdf.IRI(p.cfg.PropertyNamespace + prop),
			Object:    p.literal(rec.EntryID, prop, n.Kind, text),
		})
	})
	return out
}

func (p *Projector) literal(entryID, prop string, kind mapping.Kind, text string) rdf.Literal {
	switch kind {
	case mapping.KindText:
		if p.cfg.Language != "" {
			return rdf.NewLangLiteral(text, p.cfg.Language)
		}
	case mapping.KindNumeric:
		lit, ok := value.CoerceNumeric(text)
		if !ok {
			p.cfg.logger().Debug("numeric coercion fell back to string",
				"entry_id", entryID, "property", prop, "text", text)
			if p.cfg.OnFallback != nil {
				p.cfg.OnFallback(entryID, prop, text)
			}
		}
		return lit
	case mapping.KindDate:
		return value.DateLiteral(text)
	}
	return rdf.NewLiteral(text)
}
