package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ESIPFed/eskg/format"
	"github.com/ESIPFed/eskg/format/dif"
	"github.com/ESIPFed/eskg/hub"
	"github.com/ESIPFed/eskg/mapping"
	"github.com/ESIPFed/eskg/pipeline"
)

var validateVerbose bool

var validateCmd = &cobra.Command{
	Use:   "validate [input...]",
	Short: "Validate metadata documents without projecting",
	Long: `Validate documents by parsing them into records.

The dialect of each document is detected from its content. Every document
is reported as valid or with the reason it would be skipped by project.

Input defaults to stdin.

Examples:
  eskg validate metadata/*.xml
  eskg validate 'metadata/**/*.xml' --verbose
  cat dataset.xml | eskg validate`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Show detailed information")
	validateCmd.Flags().BoolVar(&stripHTML, "strip-html", false, "Strip HTML from free-text fields")
}

func runValidate(cmd *cobra.Command, args []string) error {
	docs, err := readDocuments(args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	invalid := 0
	for _, doc := range docs {
		rec, err := parseDocument(doc.Source, doc.Data)
		if err != nil {
			invalid++
			fmt.Fprintf(out, "✗ %s: %v\n", doc.Source, err)
			if validateVerbose {
				printMissing(out, doc, err)
			}
			continue
		}
		fmt.Fprintf(out, "✓ %s: %s\n", doc.Source, rec.EntryID)

		if validateVerbose {
			printRecordSummary(out, rec)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d documents invalid", invalid, len(docs))
	}
	return nil
}

func parseDocument(source string, data []byte) (*hub.Record, error) {
	f, err := format.DetectFormat(source, data)
	if err != nil {
		return nil, format.MalformedInputError.Wrap(err)
	}
	parser, ok := f.(format.Parser)
	if !ok {
		return nil, fmt.Errorf("format %s does not support parsing", f.Name())
	}
	return parser.Parse(bytes.NewReader(data), &format.ParseOptions{
		StripHTML:  stripHTML,
		SourceName: source,
	})
}

// printMissing lists every missing required field of a document that
// failed validation.
func printMissing(w io.Writer, doc pipeline.Document, parseErr error) {
	var missing *hub.MissingFieldError
	if !errors.As(parseErr, &missing) {
		return
	}
	rec, err := dif.Decode(doc.Data, &format.ParseOptions{StripHTML: stripHTML, SourceName: doc.Source})
	if err != nil {
		return
	}
	for _, path := range mapping.Missing(rec) {
		fmt.Fprintf(w, "    missing: %s\n", path)
	}
}

func printRecordSummary(w io.Writer, r *hub.Record) {
	fmt.Fprintf(w, "    Title: %s\n", truncate(r.EntryTitle, 60))
	fmt.Fprintf(w, "    Dialect: %s %s\n", r.SourceInfo.Format, r.SourceInfo.FormatVersion)
	fmt.Fprintf(w, "    Citations: %d\n", len(r.Citations))
	for _, p := range r.Personnel {
		fmt.Fprintf(w, "    Personnel: %s\n", p.FullName())
	}
	fmt.Fprintf(w, "    Parameters: %d\n", len(r.Parameters))
	for _, dc := range r.DataCenters {
		if dc.Name != nil {
			fmt.Fprintf(w, "    Data center: %s\n", dc.Name.Name())
		}
	}
	if r.Summary != nil {
		fmt.Fprintf(w, "    Summary: %s\n", truncate(r.Summary.Abstract, 60))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
