// Package config provides the run configuration for eskg.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ESIPFed/eskg/rdf"
)

// Config represents the complete run configuration
type Config struct {
	// Profile names the embedded mapping profile (default "podaac")
	Profile string `yaml:"profile"`
	// ProfileFile loads a custom profile merged over Profile
	ProfileFile string           `yaml:"profile_file"`
	Vocabulary  VocabularyConfig `yaml:"vocabulary"`
	Storage     StorageConfig    `yaml:"storage"`
	Parse       ParseConfig      `yaml:"parse"`
	Acquire     AcquireConfig    `yaml:"acquire"`
}

// VocabularyConfig overrides the profile's base vocabulary location
type VocabularyConfig struct {
	// URI is a URL or local path (empty = use the profile's)
	URI string `yaml:"uri"`
	// Format is the vocabulary serialization (e.g. "RDF/XML")
	Format string `yaml:"format"`
	// CacheDir caches fetched vocabularies (empty = ~/.eskg/cache/vocabulary/v1)
	CacheDir string `yaml:"cache_dir"`
}

// StorageConfig selects where the projected ontology goes
type StorageConfig struct {
	// Target is "file" or "remote"
	Target string `yaml:"target"`
	// FilePath may contain {name}, {timestamp} and {ext}
	FilePath string `yaml:"file_path"`
	// RemoteEndpoint is the ontology repository base URL
	RemoteEndpoint string `yaml:"remote_endpoint"`
	// Format is the output serialization (default rdfxml)
	Format string `yaml:"format"`
}

// ParseConfig configures document parsing
type ParseConfig struct {
	StripHTML   bool `yaml:"strip_html"`
	Concurrency int  `yaml:"concurrency"`
}

// AcquireConfig configures the PO.DAAC web service client
type AcquireConfig struct {
	BaseURL     string `yaml:"base_url"`
	PageSize    int    `yaml:"page_size"`
	Concurrency int    `yaml:"concurrency"`
}

// Default returns a Config with defaults
func Default() *Config {
	return &Config{
		Profile: "podaac",
		Storage: StorageConfig{
			Target: "file",
			Format: string(rdf.FormatRDFXML),
		},
		Parse: ParseConfig{
			Concurrency: 4,
		},
		Acquire: AcquireConfig{
			BaseURL:     "https://podaac.jpl.nasa.gov/ws",
			PageSize:    400,
			Concurrency: 4,
		},
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	for _, f := range []struct{ dst *string; src string }{
		{&c.Profile, other.Profile},
		{&c.ProfileFile, other.ProfileFile},
		{&c.Vocabulary.URI, other.Vocabulary.URI},
		{&c.Vocabulary.Format, other.Vocabulary.Format},
		{&c.Vocabulary.CacheDir, other.Vocabulary.CacheDir},
		{&c.Storage.Target, other.Storage.Target},
		{&c.Storage.FilePath, other.Storage.FilePath},
		{&c.Storage.RemoteEndpoint, other.Storage.RemoteEndpoint},
		{&c.Storage.Format, other.Storage.Format},
		{&c.Acquire.BaseURL, other.Acquire.BaseURL},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}

	if other.Parse.StripHTML {
		c.Parse.StripHTML = true
	}
	if other.Parse.Concurrency != 0 {
		c.Parse.Concurrency = other.Parse.Concurrency
	}
	if other.Acquire.PageSize != 0 {
		c.Acquire.PageSize = other.Acquire.PageSize
	}
	if other.Acquire.Concurrency != 0 {
		c.Acquire.Concurrency = other.Acquire.Concurrency
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Storage.Target {
	case "file":
	case "remote":
		if c.Storage.RemoteEndpoint == "" {
			return fmt.Errorf("storage.remote_endpoint is required when storage.target is remote")
		}
	default:
		return fmt.Errorf("storage.target must be file or remote, got %q", c.Storage.Target)
	}
	if _, err := rdf.ParseFormat(c.Storage.Format); err != nil {
		return fmt.Errorf("storage.format: %w", err)
	}
	if c.Vocabulary.Format != "" {
		if _, err := rdf.ParseFormat(c.Vocabulary.Format); err != nil {
			return fmt.Errorf("vocabulary.format: %w", err)
		}
	}
	if c.Parse.Concurrency < 1 {
		return fmt.Errorf("parse.concurrency must be at least 1")
	}
	if c.Acquire.PageSize < 1 || c.Acquire.Concurrency < 1 {
		return fmt.Errorf("acquire.page_size and acquire.concurrency must be at least 1")
	}
	return nil
}

// Get returns the value for one of the flat keys storage and the
// pipeline read: storage-target, file-path, remote-endpoint,
// vocabulary-uri, vocabulary-format and storage-format.
func (c *Config) Get(key string) (string, bool) {
	var v string
	switch key {
	case "storage-target":
		v = c.Storage.Target
	case "file-path":
		v = c.Storage.FilePath
	case "remote-endpoint":
		v = c.Storage.RemoteEndpoint
	case "vocabulary-uri":
		v = c.Vocabulary.URI
	case "vocabulary-format":
		v = c.Vocabulary.Format
	case "storage-format":
		v = c.Storage.Format
	default:
		return "", false
	}
	return v, v != ""
}
