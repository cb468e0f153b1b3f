// Package ontology projects metadata records onto individuals of a
// published vocabulary.
package ontology

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ESIPFed/eskg/mapping"
)

// Config parameterizes a projection. It is built once per run and never
// modified afterwards.
type Config struct {
	// ClassNamespace prefixes the dataset subclass and every individual
	ClassNamespace string
	// PropertyNamespace prefixes every asserted property
	PropertyNamespace string
	// BaseClass is the vocabulary's dataset class, by local name or IRI
	BaseClass string
	// SubClass is the local name of the source-scoped subclass
	SubClass string
	Naming   mapping.Naming
	// Language tags text literals
	Language string
	// OntologyIRI, when set, adds an owl:Ontology header importing the
	// vocabulary
	OntologyIRI string
	// IncludeVocabulary copies the vocabulary statements into the model
	IncludeVocabulary bool
	// Prefixes are used by serializations that support them
	Prefixes map[string]string

	// Now stamps individuals; defaults to time.Now
	Now func() time.Time
	// Logger defaults to slog.Default()
	Logger *slog.Logger
	// OnFallback is called when a numeric value is kept as a string
	OnFallback func(entryID, property, text string)
}

// ConfigFromProfile builds a Config from a mapping profile.
func ConfigFromProfile(p *mapping.Profile) (Config, error) {
	if err := p.Validate(); err != nil {
		return Config{}, err
	}
	naming, err := p.NamingRules()
	if err != nil {
		return Config{}, fmt.Errorf("profile %s: %w", p.Name, err)
	}

	prefixes := make(map[string]string, len(p.Prefixes))
	for k, v := range p.Prefixes {
		prefixes[k] = v
	}

	return Config{
		ClassNamespace:    p.ClassNamespace,
		PropertyNamespace: p.PropertyNamespace,
		BaseClass:         p.BaseClass,
		SubClass:          p.SubClass,
		Naming:            naming,
		Language:          p.GetLanguage(),
		OntologyIRI:       p.OntologyIRI,
		IncludeVocabulary: p.IncludeVocabulary,
		Prefixes:          prefixes,
	}, nil
}

func (c *Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
