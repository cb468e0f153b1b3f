package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ESIPFed/eskg/format"
	"github.com/ESIPFed/eskg/hub"
	"github.com/ESIPFed/eskg/mapping"
	"github.com/ESIPFed/eskg/ontology"
	"github.com/ESIPFed/eskg/pipeline"
	"github.com/ESIPFed/eskg/rdf"
	"github.com/ESIPFed/eskg/storage"
)

const sweetNS = "https://sweet.jpl.nasa.gov/2.3/reprDataProduct.owl#"

var vocabPath = filepath.Join("..", "ontology", "testdata", "vocab.owl")

const goodDIF = `<DIF xmlns="http://gcmd.gsfc.nasa.gov/Aboutus/xml/dif/">
  <Entry_ID>PODAAC-TEST-001</Entry_ID>
  <Entry_Title>Sample Dataset</Entry_Title>
  <Data_Set_Citation>
    <Dataset_Creator>NASA</Dataset_Creator>
    <Dataset_Title>Sample</Dataset_Title>
    <Dataset_Release_Date>2020-01-01</Dataset_Release_Date>
    <Online_Resource>http://example.org/ds</Online_Resource>
  </Data_Set_Citation>
  <Data_Resolution><Latitude_Resolution>1 km</Latitude_Resolution></Data_Resolution>
</DIF>`

const missingTitleDIF = `<DIF xmlns="http://gcmd.gsfc.nasa.gov/Aboutus/xml/dif/">
  <Entry_ID>PODAAC-TEST-002</Entry_ID>
  <Data_Set_Citation>
    <Dataset_Release_Date>2020-01-01</Dataset_Release_Date>
    <Online_Resource>http://example.org/ds</Online_Resource>
  </Data_Set_Citation>
</DIF>`

func projection(t *testing.T) ontology.Config {
	t.Helper()
	reg, err := mapping.NewProfileRegistry()
	require.NoError(t, err)
	p, ok := reg.Get("podaac")
	require.True(t, ok)
	cfg, err := ontology.ConfigFromProfile(p)
	require.NoError(t, err)
	return cfg
}

type recordingReporter struct {
	projected []string
	skipped   []string
	fallbacks []string
}

func (r *recordingReporter) Projected(_, entryID string) {
	r.projected = append(r.projected, entryID)
}

func (r *recordingReporter) Skipped(source, _ string, _ error) {
	r.skipped = append(r.skipped, source)
}

func (r *recordingReporter) CoercionFallback(_, property, _ string) {
	r.fallbacks = append(r.fallbacks, property)
}

func TestRunProjectsAndStores(t *testing.T) {
	out := filepath.Join(t.TempDir(), "{name}{ext}")
	rep := &recordingReporter{}

	report, err := pipeline.Run(context.Background(), []pipeline.Document{
		{Source: "good.xml", Data: []byte(goodDIF)},
	}, pipeline.Options{
		Vocabulary:   vocabPath,
		Loader:       ontology.FileLoader{},
		Projection:   projection(t),
		Storage:      &storage.FileClient{Path: out},
		OutputFormat: rdf.FormatTurtle,
		Reporter:     rep,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Projected)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, 1, report.Individuals)
	assert.Equal(t, 1, report.Fallbacks)
	assert.Equal(t, []string{"PODAAC-TEST-001"}, rep.projected)
	assert.Equal(t, []string{"hasDataResolutionLatitudeResolution"}, rep.fallbacks)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))

	data, err := os.ReadFile(strings.ReplaceAll(out, "{name}{ext}", "podaac_datasets.ttl"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "sweet:PODAAC-TEST-001")
	assert.Contains(t, string(data), "a sweet:PODAACDataset")
}

func TestRunDefaultFormatStoresRDFXML(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "format", "dif", "testdata", "podaac_ghrsst.xml"))
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "{name}{ext}")

	report, err := pipeline.Run(context.Background(), []pipeline.Document{
		{Source: "podaac_ghrsst.xml", Data: data},
	}, pipeline.Options{
		Vocabulary: vocabPath,
		Loader:     ontology.FileLoader{},
		Projection: projection(t),
		Storage:    &storage.FileClient{Path: out},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Projected)

	f, err := os.Open(strings.ReplaceAll(out, "{name}{ext}", "podaac_datasets.owl"))
	require.NoError(t, err)
	defer f.Close()
	back, err := rdf.ReadRDFXML(f, "")
	require.NoError(t, err)
	assert.True(t, back.Equal(report.Model.Graph()))
}

func TestRunSkipsBadDocuments(t *testing.T) {
	rep := &recordingReporter{}
	metrics := pipeline.NewMetricsReporter()

	docs := []pipeline.Document{
		{Source: "good.xml", Data: []byte(goodDIF)},
		{Source: "broken.xml", Data: []byte(`<DIF xmlns="http://gcmd.gsfc.nasa.gov/Aboutus/xml/dif/"><Entry_ID>X`)},
		{Source: "untitled.xml", Data: []byte(missingTitleDIF)},
	}
	for _, r := range []pipeline.Reporter{rep, metrics} {
		report, err := pipeline.Run(context.Background(), docs, pipeline.Options{
			Vocabulary:  vocabPath,
			Loader:      ontology.FileLoader{},
			Projection:  projection(t),
			Concurrency: 4,
			Reporter:    r,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, report.Projected)
		require.Len(t, report.Skipped, 2)
		assert.Equal(t, pipeline.Skip{
			Source: "broken.xml", Reason: "malformed_input", Error: report.Skipped[0].Error,
		}, report.Skipped[0])
		assert.Equal(t, "PODAAC-TEST-002", report.Skipped[1].EntryID)
		assert.Equal(t, "missing_field", report.Skipped[1].Reason)
		assert.Equal(t, []string{"broken.xml", "PODAAC-TEST-002"}, report.SkippedIDs())

		ind := report.Model.Individual("PODAAC-TEST-001")
		assert.NotEmpty(t, ind)
		assert.Nil(t, report.Model.Individual("PODAAC-TEST-002"))
	}

	assert.Equal(t, []string{"broken.xml", "untitled.xml"}, rep.skipped)
	count, err := testutil.GatherAndCount(metrics.Gatherer(), "eskg_documents_skipped_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRunVocabularyFailureIsFatal(t *testing.T) {
	stored := false
	_, err := pipeline.Run(context.Background(), []pipeline.Document{
		{Source: "good.xml", Data: []byte(goodDIF)},
	}, pipeline.Options{
		Vocabulary: filepath.Join(t.TempDir(), "absent.owl"),
		Loader:     ontology.FileLoader{},
		Projection: projection(t),
		Storage:    storeFunc(func() error { stored = true; return nil }),
	})
	require.Error(t, err)
	assert.True(t, ontology.VocabularyLoadError.Has(err))
	assert.False(t, stored)
}

func TestRunStorageFailureIsFatal(t *testing.T) {
	report, err := pipeline.Run(context.Background(), []pipeline.Document{
		{Source: "good.xml", Data: []byte(goodDIF)},
	}, pipeline.Options{
		Vocabulary: vocabPath,
		Loader:     ontology.FileLoader{},
		Projection: projection(t),
		Storage:    storeFunc(func() error { return storage.Error.New("disk full") }),
	})
	require.Error(t, err)
	assert.True(t, storage.Error.Has(err))
	assert.Equal(t, 1, report.Projected)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Run(ctx, []pipeline.Document{{Source: "good.xml", Data: []byte(goodDIF)}}, pipeline.Options{
		Vocabulary: vocabPath,
		Loader:     ontology.FileLoader{},
		Projection: projection(t),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSkipReason(t *testing.T) {
	assert.Equal(t, "malformed_input", pipeline.SkipReason(format.MalformedInputError.New("bad")))
	assert.Equal(t, "missing_field", pipeline.SkipReason(&hub.MissingFieldError{Field: "Entry_ID"}))
	assert.Equal(t, "error", pipeline.SkipReason(errors.New("other")))
}

func TestReportJSON(t *testing.T) {
	report := &pipeline.Report{
		StartedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2024, 1, 1, 0, 0, 5, 0, time.UTC),
		Projected:  3,
		Skipped:    []pipeline.Skip{{Source: "a.xml", Reason: "malformed_input", Error: "malformed input: eof"}},
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 3.0, got["projected"])
	assert.Equal(t, "2024-01-01T00:00:05Z", got["finished_at"])
	skipped := got["skipped"].([]any)
	require.Len(t, skipped, 1)
	assert.Equal(t, "a.xml", skipped[0].(map[string]any)["source"])
}

func TestMetricsReporter(t *testing.T) {
	m := pipeline.NewMetricsReporter()
	m.Projected("a.xml", "A")
	m.Projected("b.xml", "B")
	m.Skipped("c.xml", "", format.MalformedInputError.New("bad"))
	m.CoercionFallback("A", "hasDataResolutionLatitudeResolution", "1 km")

	var buf strings.Builder
	require.NoError(t, m.WriteText(&buf))
	text := buf.String()
	assert.Contains(t, text, "eskg_documents_projected_total 2")
	assert.Contains(t, text, `eskg_documents_skipped_total{reason="malformed_input"} 1`)
	assert.Contains(t, text, `eskg_coercion_fallbacks_total{property="hasDataResolutionLatitudeResolution"} 1`)

	path := filepath.Join(t.TempDir(), "eskg.prom")
	require.NoError(t, m.WriteTextfile(path))
	assert.FileExists(t, path)
}

type storeFunc func() error

func (f storeFunc) Store(context.Context, string, []byte, rdf.Format) error {
	return f()
}
