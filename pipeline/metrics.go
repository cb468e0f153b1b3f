package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// MetricsReporter counts run outcomes as Prometheus metrics on a private
// registry.
type MetricsReporter struct {
	registry  *prometheus.Registry
	projected prometheus.Counter
	skipped   *prometheus.CounterVec // By reason
	fallbacks *prometheus.CounterVec // By property
}

var _ Reporter = (*MetricsReporter)(nil)

// NewMetricsReporter creates a MetricsReporter with its metrics
// registered.
func NewMetricsReporter() *MetricsReporter {
	m := &MetricsReporter{
		registry: prometheus.NewRegistry(),
		projected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eskg",
			Name:      "documents_projected_total",
			Help:      "Total number of documents projected onto individuals",
		}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eskg",
			Name:      "documents_skipped_total",
			Help:      "Total number of documents skipped",
		}, []string{"reason"}), // reason: malformed_input, missing_field, error
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eskg",
			Name:      "coercion_fallbacks_total",
			Help:      "Total number of numeric values kept as strings",
		}, []string{"property"}),
	}
	m.registry.MustRegister(m.projected, m.skipped, m.fallbacks)
	return m
}

// Projected counts a projected document.
func (m *MetricsReporter) Projected(string, string) {
	m.projected.Inc()
}

// Skipped counts a skipped document by reason.
func (m *MetricsReporter) Skipped(_, _ string, err error) {
	m.skipped.WithLabelValues(SkipReason(err)).Inc()
}

// CoercionFallback counts a numeric fallback by property.
func (m *MetricsReporter) CoercionFallback(_, property, _ string) {
	m.fallbacks.WithLabelValues(property).Inc()
}

// Gatherer exposes the registry.
func (m *MetricsReporter) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteText writes the metrics in the Prometheus text exposition format.
func (m *MetricsReporter) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

// WriteTextfile writes the metrics to path, for a node exporter textfile
// collector.
func (m *MetricsReporter) WriteTextfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	if err := m.WriteText(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
