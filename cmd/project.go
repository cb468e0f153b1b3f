package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ESIPFed/eskg/config"
	"github.com/ESIPFed/eskg/mapping"
	"github.com/ESIPFed/eskg/ontology"
	"github.com/ESIPFed/eskg/pipeline"
	"github.com/ESIPFed/eskg/rdf"
	"github.com/ESIPFed/eskg/storage"
)

var (
	configFile        string
	profileName       string
	profileFile       string
	storageTarget     string
	outputPath        string
	remoteEndpoint    string
	outputFormat      string
	vocabularyURI     string
	vocabularyFormat  string
	cacheDir          string
	concurrency       int
	stripHTML         bool
	namingStrategy    string
	includeVocabulary bool
	ontologyIRI       string
	fetchAll          bool
	reportFile        string
	metricsFile       string
)

var projectCmd = &cobra.Command{
	Use:   "project [input...]",
	Short: "Project DIF documents onto ontology individuals",
	Long: `Parse GCMD DIF documents and publish them as individuals of the
profile's dataset class.

Inputs are files or glob patterns (** matches across directories). With no
inputs the document is read from stdin; with --fetch the documents are
downloaded from the PO.DAAC web services instead.

Documents that are not well-formed DIF or lack a required field are
skipped and listed at the end. A vocabulary that cannot be loaded or an
ontology that cannot be stored fails the run.

Examples:
  eskg project 'metadata/**/*.xml'
  eskg project metadata/*.xml -o 'out/{name}_{timestamp}{ext}' --format turtle
  eskg project --fetch --report run.json --metrics-file eskg.prom
  eskg project data.xml --storage remote --endpoint http://localhost:8080/repo`,
	RunE: runProject,
}

func init() {
	projectCmd.Flags().StringVar(&configFile, "config", "", "Configuration file (YAML)")
	projectCmd.Flags().StringVarP(&profileName, "profile", "p", "", "Mapping profile name (default: podaac)")
	projectCmd.Flags().StringVar(&profileFile, "profile-file", "", "Custom profile YAML file merged over --profile")
	projectCmd.Flags().StringVar(&storageTarget, "storage", "", "Storage target: file or remote")
	projectCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path, may contain {name}, {timestamp}, {ext}")
	projectCmd.Flags().StringVar(&remoteEndpoint, "endpoint", "", "Ontology repository endpoint for remote storage")
	projectCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Output serialization (rdfxml, turtle, ntriples)")
	projectCmd.Flags().StringVar(&vocabularyURI, "vocabulary", "", "Base vocabulary URL or path (default: profile's)")
	projectCmd.Flags().StringVar(&vocabularyFormat, "vocabulary-format", "", "Base vocabulary serialization")
	projectCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Directory for caching fetched vocabularies (default ~/.eskg/cache/vocabulary/v1)")
	projectCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Documents parsed in parallel")
	projectCmd.Flags().BoolVar(&stripHTML, "strip-html", false, "Strip HTML from free-text fields")
	projectCmd.Flags().StringVar(&namingStrategy, "naming", "", "Property naming strategy: path or flat")
	projectCmd.Flags().BoolVar(&includeVocabulary, "include-vocabulary", false, "Copy the vocabulary into the output")
	projectCmd.Flags().StringVar(&ontologyIRI, "ontology-iri", "", "Declare an owl:Ontology importing the vocabulary")
	projectCmd.Flags().BoolVar(&fetchAll, "fetch", false, "Fetch documents from the PO.DAAC web services")
	projectCmd.Flags().StringVar(&reportFile, "report", "", "Write the run report as JSON")
	projectCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics in text format")
}

// loadConfig reads --config over the defaults, then applies flags the user
// set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	override := &config.Config{}
	for _, f := range []struct {
		flag string
		dst  *string
		src  string
	}{
		{"profile", &override.Profile, profileName},
		{"profile-file", &override.ProfileFile, profileFile},
		{"storage", &override.Storage.Target, storageTarget},
		{"output", &override.Storage.FilePath, outputPath},
		{"endpoint", &override.Storage.RemoteEndpoint, remoteEndpoint},
		{"format", &override.Storage.Format, outputFormat},
		{"vocabulary", &override.Vocabulary.URI, vocabularyURI},
		{"vocabulary-format", &override.Vocabulary.Format, vocabularyFormat},
		{"cache-dir", &override.Vocabulary.CacheDir, cacheDir},
	} {
		if flags.Lookup(f.flag) != nil && flags.Changed(f.flag) {
			*f.dst = f.src
		}
	}
	if flags.Lookup("concurrency") != nil && flags.Changed("concurrency") {
		override.Parse.Concurrency = concurrency
		override.Acquire.Concurrency = concurrency
	}
	if flags.Lookup("strip-html") != nil && flags.Changed("strip-html") {
		override.Parse.StripHTML = stripHTML
	}
	cfg.Merge(override)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// userProfileDir holds user profiles that shadow the embedded ones.
const userProfileDir = ".eskg/profiles"

// loadProfile resolves the named profile, from ~/.eskg/profiles first and
// the embedded profiles otherwise, and merges a custom profile file over
// it.
func loadProfile(cfg *config.Config) (*mapping.Profile, error) {
	registry, err := mapping.NewProfileRegistry()
	if err != nil {
		return nil, err
	}
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, userProfileDir)
		if _, err := os.Stat(dir); err == nil {
			if err := registry.LoadFromDirectory(dir); err != nil {
				return nil, err
			}
		}
	}
	p, ok := registry.Get(cfg.Profile)
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s (not found in ~/%s or embedded profiles)", cfg.Profile, userProfileDir)
	}

	if cfg.ProfileFile != "" {
		custom, err := mapping.LoadProfile(cfg.ProfileFile)
		if err != nil {
			return nil, err
		}
		p = mapping.MergeProfiles(p, custom)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func runProject(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	profile, err := loadProfile(cfg)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}

	projection, err := ontology.ConfigFromProfile(profile)
	if err != nil {
		return err
	}
	if namingStrategy != "" {
		strategy, err := mapping.ParseStrategy(namingStrategy)
		if err != nil {
			return err
		}
		projection.Naming.Strategy = strategy
	}
	if includeVocabulary {
		projection.IncludeVocabulary = true
	}
	if ontologyIRI != "" {
		projection.OntologyIRI = ontologyIRI
	}

	vocabURI, vocabFormat, err := vocabularyLocation(cfg, profile)
	if err != nil {
		return err
	}
	outFormat, err := rdf.ParseFormat(cfg.Storage.Format)
	if err != nil {
		return err
	}
	store, err := storage.New(cfg)
	if err != nil {
		return err
	}

	docs, err := loadDocuments(cmd, cfg, args)
	if err != nil {
		return err
	}

	var metrics *pipeline.MetricsReporter
	opts := pipeline.Options{
		Vocabulary:       vocabURI,
		VocabularyFormat: vocabFormat,
		Loader:           vocabularyLoader(cfg),
		Projection:       projection,
		StripHTML:        cfg.Parse.StripHTML || profile.Options.StripHTML,
		Concurrency:      cfg.Parse.Concurrency,
		Storage:          store,
		OutputFormat:     outFormat,
	}
	if metricsFile != "" {
		metrics = pipeline.NewMetricsReporter()
		opts.Reporter = metrics
	}

	report, runErr := pipeline.Run(ctx, docs, opts)
	if report != nil {
		printSummary(cmd.OutOrStdout(), report)
		if reportFile != "" {
			if err := writeReport(reportFile, report); err != nil && runErr == nil {
				runErr = err
			}
		}
	}
	if metrics != nil {
		if err := metrics.WriteTextfile(metricsFile); err != nil && runErr == nil {
			runErr = err
		}
	}
	return runErr
}

func loadDocuments(cmd *cobra.Command, cfg *config.Config, args []string) ([]pipeline.Document, error) {
	if fetchAll {
		return fetchDocuments(cmd.Context(), cfg, args)
	}
	return readDocuments(args)
}

func vocabularyLocation(cfg *config.Config, profile *mapping.Profile) (string, rdf.Format, error) {
	uri := cfg.Vocabulary.URI
	name := cfg.Vocabulary.Format
	if uri == "" {
		uri = profile.Vocabulary.URI
		if name == "" {
			name = profile.Vocabulary.Format
		}
	}
	if name == "" {
		return uri, rdf.FormatRDFXML, nil
	}
	format, err := rdf.ParseFormat(name)
	if err != nil {
		return "", "", fmt.Errorf("vocabulary format: %w", err)
	}
	return uri, format, nil
}

func vocabularyLoader(cfg *config.Config) ontology.Loader {
	httpLoader := ontology.NewHTTPLoader()
	httpLoader.CacheDir = cfg.Vocabulary.CacheDir
	if httpLoader.CacheDir == "" {
		dir, err := ontology.DefaultCacheDir()
		if err != nil {
			slog.Warn("vocabulary cache disabled", "error", err)
		}
		httpLoader.CacheDir = dir
	}
	return &ontology.SchemeLoader{HTTP: httpLoader, File: ontology.FileLoader{}}
}

func printSummary(w io.Writer, report *pipeline.Report) {
	fmt.Fprintf(w, "projected %d, skipped %d\n", report.Projected, len(report.Skipped))
	for _, s := range report.Skipped {
		id := s.EntryID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "  skipped %s (%s): %s\n", s.Source, id, s.Error)
	}
}

func writeReport(path string, report *pipeline.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
