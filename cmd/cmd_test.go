package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ESIPFed/eskg/config"
	"github.com/ESIPFed/eskg/mapping"
	"github.com/ESIPFed/eskg/ontology"
	"github.com/ESIPFed/eskg/pipeline"
	"github.com/ESIPFed/eskg/rdf"

	_ "github.com/ESIPFed/eskg/format/dif"
)

func TestVocabularyLoaderCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	loader, ok := vocabularyLoader(config.Default()).(*ontology.SchemeLoader)
	if !ok {
		t.Fatal("vocabularyLoader did not return a SchemeLoader")
	}
	want := filepath.Join(home, ".eskg", "cache", "vocabulary", "v1")
	if got := loader.HTTP.(*ontology.HTTPLoader).CacheDir; got != want {
		t.Errorf("default CacheDir = %q, want %q", got, want)
	}

	cfg := config.Default()
	cfg.Vocabulary.CacheDir = filepath.Join(home, "custom")
	loader = vocabularyLoader(cfg).(*ontology.SchemeLoader)
	if got := loader.HTTP.(*ontology.HTTPLoader).CacheDir; got != cfg.Vocabulary.CacheDir {
		t.Errorf("CacheDir = %q, want %q", got, cfg.Vocabulary.CacheDir)
	}
}

func TestReadDocumentsGlob(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.xml", "nested/b.xml", "nested/deeper/c.xml", "notes.txt"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := readDocuments([]string{filepath.Join(dir, "**", "*.xml"), filepath.Join(dir, "a.xml")})
	if err != nil {
		t.Fatalf("readDocuments failed: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("got %d documents, want 3", len(docs))
	}
	for _, d := range docs {
		if !strings.HasSuffix(d.Source, ".xml") || !strings.HasSuffix(d.Source, string(d.Data)) {
			t.Errorf("document %s has data %q", d.Source, d.Data)
		}
	}

	if _, err := readDocuments([]string{filepath.Join(dir, "*.json")}); err == nil {
		t.Error("expected error when nothing matches")
	}
}

func TestVocabularyLocation(t *testing.T) {
	profile := &mapping.Profile{Vocabulary: mapping.VocabularyConfig{URI: "https://example.org/v.owl", Format: "RDF/XML"}}

	uri, format, err := vocabularyLocation(config.Default(), profile)
	if err != nil {
		t.Fatal(err)
	}
	if uri != "https://example.org/v.owl" || format != rdf.FormatRDFXML {
		t.Errorf("got %s %s", uri, format)
	}

	cfg := config.Default()
	cfg.Vocabulary.URI = "local.nt"
	cfg.Vocabulary.Format = "nt"
	uri, format, err = vocabularyLocation(cfg, profile)
	if err != nil {
		t.Fatal(err)
	}
	if uri != "local.nt" || format != rdf.FormatNTriples {
		t.Errorf("got %s %s", uri, format)
	}

	cfg.Vocabulary.Format = ""
	if _, format, _ = vocabularyLocation(cfg, profile); format != rdf.FormatRDFXML {
		t.Errorf("format = %s, want rdfxml default", format)
	}
}

func TestLoadProfileMergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := "name: podaac-custom\nnaming: flat\nlanguage: fr\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.ProfileFile = path
	p, err := loadProfile(cfg)
	if err != nil {
		t.Fatalf("loadProfile failed: %v", err)
	}
	if p.Name != "podaac-custom" || p.Naming != "flat" || p.GetLanguage() != "fr" {
		t.Errorf("merged profile = %+v", p)
	}
	if p.SubClass != "PODAACDataset" {
		t.Errorf("SubClass = %q, want base value kept", p.SubClass)
	}

	cfg.Profile = "nope"
	if _, err := loadProfile(cfg); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestParseDocument(t *testing.T) {
	doc := `<DIF xmlns="http://gcmd.gsfc.nasa.gov/Aboutus/xml/dif/"><Entry_ID>X-1</Entry_ID></DIF>`
	rec, err := parseDocument("x.xml", []byte(doc))
	if err != nil {
		t.Fatalf("parseDocument failed: %v", err)
	}
	if rec.EntryID != "X-1" {
		t.Errorf("EntryID = %q", rec.EntryID)
	}

	if _, err := parseDocument("x.json", []byte(`{"title": "not DIF"}`)); err == nil {
		t.Error("expected error for non-DIF input")
	}
}

func TestPrintSummary(t *testing.T) {
	var b strings.Builder
	printSummary(&b, &pipeline.Report{
		Projected: 2,
		Skipped: []pipeline.Skip{
			{Source: "bad.xml", Reason: "malformed_input", Error: "malformed input: no DIF root"},
			{Source: "c.xml", EntryID: "C-1", Reason: "missing_field", Error: "C-1: missing required field Entry_Title"},
		},
	})

	want := `projected 2, skipped 2
  skipped bad.xml (-): malformed input: no DIF root
  skipped c.xml (C-1): C-1: missing required field Entry_Title
`
	if b.String() != want {
		t.Errorf("summary =\n%s\nwant\n%s", b.String(), want)
	}
}

func TestPrintMissing(t *testing.T) {
	doc := pipeline.Document{
		Source: "untitled.xml",
		Data: []byte(`<DIF xmlns="http://gcmd.gsfc.nasa.gov/Aboutus/xml/dif/">
  <Entry_ID>U-1</Entry_ID>
  <Data_Set_Citation><Dataset_Creator>NASA</Dataset_Creator></Data_Set_Citation>
</DIF>`),
	}
	_, err := parseDocument(doc.Source, doc.Data)
	if err == nil {
		t.Fatal("expected a missing field error")
	}

	var b strings.Builder
	printMissing(&b, doc, err)
	want := `    missing: Data_Set_Citation[0]/Dataset_Title
    missing: Data_Set_Citation[0]/Dataset_Release_Date
    missing: Data_Set_Citation[0]/Online_Resource
`
	if b.String() != want {
		t.Errorf("printMissing =\n%s\nwant\n%s", b.String(), want)
	}
}
