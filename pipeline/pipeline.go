// Package pipeline runs one batch: parse every document, collect the
// records, project them once and hand the serialized model to storage.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ESIPFed/eskg/format"
	"github.com/ESIPFed/eskg/format/dif"
	"github.com/ESIPFed/eskg/hub"
	"github.com/ESIPFed/eskg/ontology"
	"github.com/ESIPFed/eskg/rdf"
	"github.com/ESIPFed/eskg/storage"
)

// DefaultDocumentName names the stored ontology document.
const DefaultDocumentName = "podaac_datasets"

// Document is one raw metadata document and where it came from.
type Document struct {
	Source string
	Data   []byte
}

// Options configures a run.
type Options struct {
	// Vocabulary is the base vocabulary URI or path
	Vocabulary       string
	VocabularyFormat rdf.Format
	// Loader defaults to ontology.DefaultLoader()
	Loader ontology.Loader

	Projection ontology.Config

	// Parser defaults to the DIF parser
	Parser    format.Parser
	StripHTML bool
	// Concurrency bounds parallel parsing; values below 1 mean 1
	Concurrency int

	// Storage receives the serialized model; nil skips storing
	Storage      storage.Client
	DocumentName string
	OutputFormat rdf.Format

	Reporter Reporter
	Logger   *slog.Logger
}

// Run executes one batch. Documents that fail to parse are reported and
// skipped. Vocabulary and storage failures abort the run; the partial
// report is returned alongside the error.
func Run(ctx context.Context, docs []Document, opts Options) (*Report, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}
	report := &Report{RunID: uuid.New(), StartedAt: time.Now().UTC()}
	defer func() { report.FinishedAt = time.Now().UTC() }()

	vocabFormat := opts.VocabularyFormat
	if vocabFormat == "" {
		vocabFormat = rdf.FormatRDFXML
	}
	vocab, err := ontology.LoadVocabulary(ctx, opts.Loader, opts.Vocabulary, vocabFormat)
	if err != nil {
		return report, err
	}
	log.Info("vocabulary loaded", "uri", vocab.URI, "statements", vocab.Graph.Len())

	cfg := opts.Projection
	if cfg.Logger == nil {
		cfg.Logger = log
	}
	onFallback := cfg.OnFallback
	cfg.OnFallback = func(entryID, property, text string) {
		report.Fallbacks++
		reporter.CoercionFallback(entryID, property, text)
		if onFallback != nil {
			onFallback(entryID, property, text)
		}
	}
	projector, err := ontology.NewProjector(cfg, vocab)
	if err != nil {
		return report, err
	}

	records, err := parseAll(ctx, docs, opts)
	if err != nil {
		return report, err
	}

	collection := hub.NewCollection()
	for i, res := range records {
		if res.err != nil {
			skip := newSkip(docs[i].Source, res.err)
			report.Skipped = append(report.Skipped, skip)
			reporter.Skipped(skip.Source, skip.EntryID, res.err)
			log.Warn("skipping document", "source", skip.Source, "entry_id", skip.EntryID, "reason", skip.Reason, "error", res.err)
			continue
		}
		collection.Append(res.rec)
	}

	model, err := projector.Project(collection)
	if err != nil {
		return report, fmt.Errorf("projecting records: %w", err)
	}
	for _, rec := range collection.All() {
		report.Projected++
		reporter.Projected(rec.SourceInfo.SourceName, rec.EntryID)
	}
	report.Individuals = len(model.Individuals())
	report.Model = model

	log.Info("projection complete", "projected", report.Projected, "skipped", len(report.Skipped),
		"individuals", report.Individuals, "fallbacks", report.Fallbacks)

	if opts.Storage == nil {
		return report, nil
	}
	outFormat := opts.OutputFormat
	if outFormat == "" {
		outFormat = rdf.FormatRDFXML
	}
	doc, err := model.Encode(outFormat)
	if err != nil {
		return report, storage.Error.Wrap(err)
	}
	name := opts.DocumentName
	if name == "" {
		name = DefaultDocumentName
	}
	if err := opts.Storage.Store(ctx, name, doc, outFormat); err != nil {
		return report, err
	}
	return report, nil
}

type parseResult struct {
	rec *hub.Record
	err error
}

// parseAll parses every document, in parallel up to opts.Concurrency.
// Results keep document order so the collection is deterministic.
func parseAll(ctx context.Context, docs []Document, opts Options) ([]parseResult, error) {
	parser := opts.Parser
	if parser == nil {
		parser = &dif.Format{}
	}
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	results := make([]parseResult, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := parser.Parse(bytes.NewReader(doc.Data), &format.ParseOptions{
				StripHTML:  opts.StripHTML,
				SourceName: doc.Source,
			})
			results[i] = parseResult{rec: rec, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SkipReason classifies a per-document failure.
func SkipReason(err error) string {
	var missing *hub.MissingFieldError
	switch {
	case format.MalformedInputError.Has(err):
		return "malformed_input"
	case errors.As(err, &missing):
		return "missing_field"
	default:
		return "error"
	}
}

func newSkip(source string, err error) Skip {
	skip := Skip{Source: source, Reason: SkipReason(err), Error: err.Error()}
	var missing *hub.MissingFieldError
	if errors.As(err, &missing) {
		skip.EntryID = missing.EntryID
	}
	return skip
}
