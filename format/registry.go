package format

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Registry holds registered formats.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format
}

// DefaultRegistry is the global format registry. Dialect packages add
// themselves from init.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new format registry.
func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[string]Format),
	}
}

// Register adds a format to the registry, replacing any format with the
// same name.
func (r *Registry) Register(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formats[strings.ToLower(f.Name())] = f
}

// Get retrieves a format by name.
func (r *Registry) Get(name string) (Format, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formats[strings.ToLower(name)]
	return f, ok
}

// GetParser retrieves a parser by name.
func (r *Registry) GetParser(name string) (Parser, error) {
	f, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", name)
	}
	p, ok := f.(Parser)
	if !ok {
		return nil, fmt.Errorf("format %s does not support parsing", name)
	}
	return p, nil
}

// List returns all registered format names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ordered returns the formats in name order so detection is deterministic.
func (r *Registry) ordered() []Format {
	names := r.List()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Format, 0, len(names))
	for _, name := range names {
		if f, ok := r.formats[name]; ok {
			out = append(out, f)
		}
	}
	return out
}

// DetectFormat detects the format of a document. Content sniffing wins
// over the file extension, since dialects commonly share ".xml".
func (r *Registry) DetectFormat(filename string, peek []byte) (Format, error) {
	if f, err := r.DetectFromContent(peek); err == nil {
		return f, nil
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext != "" {
		var matches []Format
		for _, f := range r.ordered() {
			for _, fext := range f.Extensions() {
				if ext == fext {
					matches = append(matches, f)
				}
			}
		}
		if len(matches) == 1 {
			return matches[0], nil
		}
	}

	return nil, fmt.Errorf("could not detect format for %s", filename)
}

// DetectFromContent attempts to detect format from content alone.
func (r *Registry) DetectFromContent(peek []byte) (Format, error) {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 {
		return nil, fmt.Errorf("could not detect format from empty content")
	}

	for _, f := range r.ordered() {
		if f.CanParse(peek) {
			return f, nil
		}
	}

	return nil, fmt.Errorf("could not detect format from content")
}

// Register adds a format to the default registry.
func Register(f Format) {
	DefaultRegistry.Register(f)
}

// Get retrieves a format from the default registry.
func Get(name string) (Format, bool) {
	return DefaultRegistry.Get(name)
}

// GetParser retrieves a parser from the default registry.
func GetParser(name string) (Parser, error) {
	return DefaultRegistry.GetParser(name)
}

// DetectFormat detects format using the default registry.
func DetectFormat(filename string, peek []byte) (Format, error) {
	return DefaultRegistry.DetectFormat(filename, peek)
}

// List returns the format names of the default registry.
func List() []string {
	return DefaultRegistry.List()
}
