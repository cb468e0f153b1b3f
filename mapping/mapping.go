// Package mapping provides the declarative field-mapping table shared by
// the dialect parser and the ontology projector, and the profiles that
// configure how the table is published.
package mapping

// Profile represents a complete publishing configuration for one source
// catalog and target vocabulary.
type Profile struct {
	// Name is the profile identifier
	Name string `yaml:"name" json:"name"`

	// Dialect is the source metadata format (e.g., "dif")
	Dialect string `yaml:"dialect" json:"dialect"`

	// Version is the dialect version this profile targets (e.g., "9.8.2")
	Version string `yaml:"version,omitempty" json:"version,omitempty"`

	// Description provides human-readable documentation
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Vocabulary describes the published base vocabulary
	Vocabulary VocabularyConfig `yaml:"vocabulary" json:"vocabulary"`

	// ClassNamespace is the namespace of the dataset classes and individuals
	ClassNamespace string `yaml:"class_namespace" json:"class_namespace"`

	// PropertyNamespace is the namespace of the asserted properties
	PropertyNamespace string `yaml:"property_namespace" json:"property_namespace"`

	// BaseClass is the vocabulary class every dataset belongs to (local
	// name or full IRI)
	BaseClass string `yaml:"base_class" json:"base_class"`

	// SubClass is the source-scoped subclass declared before projection
	SubClass string `yaml:"sub_class" json:"sub_class"`

	// Naming is the property naming strategy ("path" or "flat")
	Naming string `yaml:"naming,omitempty" json:"naming,omitempty"`

	// PropertyPrefix starts every derived property name
	PropertyPrefix string `yaml:"property_prefix,omitempty" json:"property_prefix,omitempty"`

	// Language is the tag put on text literals
	Language string `yaml:"language,omitempty" json:"language,omitempty"`

	// Segments renames path tags before property names are derived
	Segments map[string]string `yaml:"segments,omitempty" json:"segments,omitempty"`

	// Properties maps tag paths to fixed property local names
	Properties map[string]string `yaml:"properties,omitempty" json:"properties,omitempty"`

	// Prefixes are namespace prefixes declared in serialized output
	Prefixes map[string]string `yaml:"prefixes,omitempty" json:"prefixes,omitempty"`

	// OntologyIRI, when set, names an owl:Ontology that imports the
	// vocabulary
	OntologyIRI string `yaml:"ontology_iri,omitempty" json:"ontology_iri,omitempty"`

	// IncludeVocabulary copies the vocabulary into the published model
	IncludeVocabulary bool `yaml:"include_vocabulary,omitempty" json:"include_vocabulary,omitempty"`

	// Options contains parser options
	Options ProfileOptions `yaml:"options,omitempty" json:"options,omitempty"`
}

// VocabularyConfig locates the base vocabulary document.
type VocabularyConfig struct {
	URI    string `yaml:"uri" json:"uri"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// ProfileOptions contains dialect-specific options.
type ProfileOptions struct {
	// StripHTML strips HTML from text fields
	StripHTML bool `yaml:"strip_html,omitempty" json:"strip_html,omitempty"`
}

// VersionedName returns the profile name with version (e.g., "podaac@9.8.2")
func (p *Profile) VersionedName() string {
	if p.Version != "" {
		return p.Name + "@" + p.Version
	}
	return p.Name
}

// NamingRules returns the property naming rules described by the profile.
func (p *Profile) NamingRules() (Naming, error) {
	strategy, err := ParseStrategy(p.Naming)
	if err != nil {
		return Naming{}, err
	}
	prefix := p.PropertyPrefix
	if prefix == "" {
		prefix = "has"
	}
	return Naming{
		Strategy:  strategy,
		Prefix:    prefix,
		Segments:  p.Segments,
		Overrides: p.Properties,
	}, nil
}

// GetLanguage returns the text literal language tag with a default.
func (p *Profile) GetLanguage() string {
	if p.Language != "" {
		return p.Language
	}
	return "en"
}
