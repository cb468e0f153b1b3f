package mapping

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var embeddedProfiles embed.FS

// ProfileRegistry holds loaded profiles.
type ProfileRegistry struct {
	profiles map[string]*Profile
}

// NewProfileRegistry creates a new profile registry with embedded profiles loaded.
func NewProfileRegistry() (*ProfileRegistry, error) {
	r := &ProfileRegistry{
		profiles: make(map[string]*Profile),
	}

	// Load embedded profiles
	entries, err := embeddedProfiles.ReadDir("profiles")
	if err != nil {
		return r, nil // No embedded profiles, that's okay
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := embeddedProfiles.ReadFile("profiles/" + entry.Name())
		if err != nil {
			continue
		}

		profile, err := parseProfile(data)
		if err != nil {
			continue
		}

		// Use filename without extension as profile name if not set
		if profile.Name == "" {
			profile.Name = strings.TrimSuffix(entry.Name(), ".yaml")
		}
		r.profiles[profile.Name] = profile
	}

	return r, nil
}

// LoadProfile loads a profile from a file path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	return parseProfile(data)
}

// LoadProfileFromString loads a profile from YAML content.
func LoadProfileFromString(content string) (*Profile, error) {
	return parseProfile([]byte(content))
}

func parseProfile(data []byte) (*Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parsing profile YAML: %w", err)
	}
	return &profile, nil
}

// Get retrieves a profile by name.
func (r *ProfileRegistry) Get(name string) (*Profile, bool) {
	p, ok := r.profiles[name]
	return p, ok
}

// List returns all registered profile names, sorted.
func (r *ProfileRegistry) List() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFromDirectory loads all profiles from a directory.
func (r *ProfileRegistry) LoadFromDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading profile directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		profile, err := LoadProfile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue // Skip invalid profiles
		}

		if profile.Name == "" {
			profile.Name = strings.TrimSuffix(entry.Name(), ".yaml")
		}
		r.profiles[profile.Name] = profile
	}

	return nil
}

// MergeProfiles merges a custom profile over a base profile.
// Custom fields override base fields.
func MergeProfiles(base, custom *Profile) *Profile {
	merged := *base
	if custom.Name != "" {
		merged.Name = custom.Name
	}
	merged.Segments = mergeMaps(base.Segments, custom.Segments)
	merged.Properties = mergeMaps(base.Properties, custom.Properties)
	merged.Prefixes = mergeMaps(base.Prefixes, custom.Prefixes)

	for _, f := range []struct{ dst *string; src string }{
		{&merged.Dialect, custom.Dialect},
		{&merged.Version, custom.Version},
		{&merged.Description, custom.Description},
		{&merged.Vocabulary.URI, custom.Vocabulary.URI},
		{&merged.Vocabulary.Format, custom.Vocabulary.Format},
		{&merged.ClassNamespace, custom.ClassNamespace},
		{&merged.PropertyNamespace, custom.PropertyNamespace},
		{&merged.BaseClass, custom.BaseClass},
		{&merged.SubClass, custom.SubClass},
		{&merged.Naming, custom.Naming},
		{&merged.PropertyPrefix, custom.PropertyPrefix},
		{&merged.Language, custom.Language},
		{&merged.OntologyIRI, custom.OntologyIRI},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
	if custom.Options.StripHTML {
		merged.Options.StripHTML = true
	}
	if custom.IncludeVocabulary {
		merged.IncludeVocabulary = true
	}

	return &merged
}

func mergeMaps(base, custom map[string]string) map[string]string {
	if len(base) == 0 && len(custom) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(custom))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range custom {
		out[k] = v
	}
	return out
}

// Validate checks that the profile names everything a projection needs.
func (p *Profile) Validate() error {
	var missing []string
	if p.ClassNamespace == "" {
		missing = append(missing, "class_namespace")
	}
	if p.PropertyNamespace == "" {
		missing = append(missing, "property_namespace")
	}
	if p.BaseClass == "" {
		missing = append(missing, "base_class")
	}
	if p.SubClass == "" {
		missing = append(missing, "sub_class")
	}
	if len(missing) > 0 {
		return fmt.Errorf("profile %q: missing %s", p.Name, strings.Join(missing, ", "))
	}
	if _, err := ParseStrategy(p.Naming); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	for path := range p.Properties {
		if n, ok := Lookup(path); !ok || n.IsGroup() {
			return fmt.Errorf("profile %q: property override for unknown field %q", p.Name, path)
		}
	}
	return nil
}
