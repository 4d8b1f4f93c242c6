package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/navaid-service/internal/registry"
)

const namespace = "navaid"

// Metrics holds the Prometheus collectors for registry loads, lookups and the
// stream pipeline.
type Metrics struct {
	// Registry state.
	RegistryEntries   *prometheus.GaugeVec   // labels: kind={airport,navaid,waypoint}
	RegistrySkipped   *prometheus.GaugeVec   // labels: kind
	ICAOAliases       prometheus.Gauge
	Reloads           *prometheus.CounterVec // labels: outcome={success,error}
	LastLoadTimestamp prometheus.Gauge

	// Request handling.
	Lookups     *prometheus.CounterVec // labels: kind, outcome={hit,not_found,invalid}
	RateLimited prometheus.Counter

	// Stream pipeline.
	MessagesConsumed        prometheus.Counter
	MessagesProduced        prometheus.Counter
	TransformErrors         *prometheus.CounterVec // labels: reason={malformed,unresolved}
	PipelineRunning         prometheus.Gauge
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates the metrics and registers them with reg. One-shot
// commands pass a private registry so nothing is exported.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RegistryEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_entries",
			Help:      "Identifiers indexed in the active registry generation.",
		}, []string{"kind"}),
		RegistrySkipped: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_skipped_lines",
			Help:      "Source lines dropped while building the active generation.",
		}, []string{"kind"}),
		ICAOAliases: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_icao_aliases",
			Help:      "Airports also reachable by ICAO code.",
		}),
		Reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_reloads_total",
			Help:      "Registry builds by outcome.",
		}, []string{"outcome"}),
		LastLoadTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_last_load_timestamp_seconds",
			Help:      "Unix time the active generation was built.",
		}),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Resolution requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total messages read from the request topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total messages written to the result topic.",
		}),
		TransformErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Requests skipped without a result, by reason.",
		}, []string{"reason"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-resolve-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RegistryEntries,
		m.RegistrySkipped,
		m.ICAOAliases,
		m.Reloads,
		m.LastLoadTimestamp,
		m.Lookups,
		m.RateLimited,
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
	}
}

// RecordLoad publishes the counts of a freshly installed generation.
func (m *Metrics) RecordLoad(s registry.Stats) {
	m.Reloads.WithLabelValues("success").Inc()
	m.RegistryEntries.WithLabelValues("airport").Set(float64(s.Airports.Loaded))
	m.RegistryEntries.WithLabelValues("navaid").Set(float64(s.Navaids.Loaded))
	m.RegistryEntries.WithLabelValues("waypoint").Set(float64(s.Fixes.Loaded))
	m.RegistrySkipped.WithLabelValues("airport").Set(float64(s.Airports.Skipped))
	m.RegistrySkipped.WithLabelValues("navaid").Set(float64(s.Navaids.Skipped))
	m.RegistrySkipped.WithLabelValues("waypoint").Set(float64(s.Fixes.Skipped))
	m.ICAOAliases.Set(float64(s.ICAOAliases))
	m.LastLoadTimestamp.Set(float64(s.LoadedAt.Unix()))
}

// RecordLoadFailure counts a build that left the previous generation active.
func (m *Metrics) RecordLoadFailure() {
	m.Reloads.WithLabelValues("error").Inc()
}
