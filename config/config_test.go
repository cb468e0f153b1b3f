package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if v, ok := cfg.Get("storage-target"); !ok || v != "file" {
		t.Errorf("storage-target = %q, %v", v, ok)
	}
	if _, ok := cfg.Get("file-path"); ok {
		t.Error("file-path should be unset by default")
	}
	if _, ok := cfg.Get("unknown-key"); ok {
		t.Error("unknown keys should not resolve")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eskg.yaml")
	content := `
profile: podaac-flat
vocabulary:
  uri: ./sweet/reprDataProduct.owl
storage:
  target: remote
  remote_endpoint: http://localhost:8080/repo
  file_path: out/{name}_{timestamp}{ext}
parse:
  strip_html: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if cfg.Profile != "podaac-flat" {
		t.Errorf("Profile = %q", cfg.Profile)
	}
	if !cfg.Parse.StripHTML {
		t.Error("StripHTML not loaded")
	}
	if cfg.Parse.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want default 4", cfg.Parse.Concurrency)
	}
	tests := map[string]string{
		"storage-target":  "remote",
		"remote-endpoint": "http://localhost:8080/repo",
		"file-path":       "out/{name}_{timestamp}{ext}",
		"vocabulary-uri":  "./sweet/reprDataProduct.owl",
		"storage-format":  "rdfxml",
	}
	for key, want := range tests {
		if got, _ := cfg.Get(key); got != want {
			t.Errorf("Get(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("storage: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestMerge(t *testing.T) {
	cfg := Default()
	cfg.Merge(&Config{
		Storage: StorageConfig{Target: "remote", RemoteEndpoint: "http://repo"},
		Parse:   ParseConfig{Concurrency: 8},
	})
	cfg.Merge(nil)

	if cfg.Storage.Target != "remote" || cfg.Storage.RemoteEndpoint != "http://repo" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Storage.Format != "rdfxml" {
		t.Errorf("Storage.Format = %q, want default kept", cfg.Storage.Format)
	}
	if cfg.Parse.Concurrency != 8 {
		t.Errorf("Concurrency = %d", cfg.Parse.Concurrency)
	}
	if cfg.Profile != "podaac" {
		t.Errorf("Profile = %q", cfg.Profile)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown target", func(c *Config) { c.Storage.Target = "s3" }},
		{"remote without endpoint", func(c *Config) { c.Storage.Target = "remote" }},
		{"bad storage format", func(c *Config) { c.Storage.Format = "json-ld" }},
		{"bad vocabulary format", func(c *Config) { c.Vocabulary.Format = "csv" }},
		{"zero concurrency", func(c *Config) { c.Parse.Concurrency = 0 }},
		{"zero page size", func(c *Config) { c.Acquire.PageSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
