package pipeline

import (
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ESIPFed/eskg/ontology"
)

// Reporter receives per-document outcomes as a run progresses.
type Reporter interface {
	Projected(source, entryID string)
	Skipped(source, entryID string, err error)
	CoercionFallback(entryID, property, text string)
}

type nopReporter struct{}

func (nopReporter) Projected(string, string)                {}
func (nopReporter) Skipped(string, string, error)           {}
func (nopReporter) CoercionFallback(string, string, string) {}

// Skip describes one skipped document. EntryID is empty when the
// document failed before its id was known.
type Skip struct {
	Source  string
	EntryID string
	Reason  string
	Error   string
}

// Report summarizes a run.
type Report struct {
	RunID       uuid.UUID
	StartedAt   time.Time
	FinishedAt  time.Time
	Projected   int
	Skipped     []Skip
	Fallbacks   int
	Individuals int

	// Model is the projected model; nil when the run failed before
	// projection.
	Model *ontology.Model
}

// SkippedIDs returns an identifier per skipped document: the entry id
// when known, otherwise the source name.
func (r *Report) SkippedIDs() []string {
	ids := make([]string, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		if s.EntryID != "" {
			ids = append(ids, s.EntryID)
		} else {
			ids = append(ids, s.Source)
		}
	}
	return ids
}

// Struct renders the report as a protobuf Struct.
func (r *Report) Struct() (*structpb.Struct, error) {
	skipped := make([]any, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		skipped = append(skipped, map[string]any{
			"source":   s.Source,
			"entry_id": s.EntryID,
			"reason":   s.Reason,
			"error":    s.Error,
		})
	}
	return structpb.NewStruct(map[string]any{
		"run_id":      r.RunID.String(),
		"started_at":  r.StartedAt.Format(time.RFC3339Nano),
		"finished_at": r.FinishedAt.Format(time.RFC3339Nano),
		"projected":   r.Projected,
		"skipped":     skipped,
		"fallbacks":   r.Fallbacks,
		"individuals": r.Individuals,
	})
}

// MarshalJSON encodes the report through its Struct form.
func (r *Report) MarshalJSON() ([]byte, error) {
	s, err := r.Struct()
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
}
