package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "escolas_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	DatasetLoads   *prometheus.CounterVec // labels: outcome={success,not_found,malformed,error}
	SchoolsLoaded  prometheus.Gauge
	RowsDropped    prometheus.Counter
	CacheLookups   *prometheus.CounterVec // labels: result={hit,miss,stale}
	ViewsRendered  *prometheus.CounterVec // labels: format={html,json,geojson,xlsx}
	RenderDuration *prometheus.HistogramVec

	// Selection event publishing.
	EventsPublished prometheus.Counter
	EventErrors     prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "CSV dataset reads by outcome.",
		}, []string{"outcome"}),
		SchoolsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "schools_loaded",
			Help:      "Schools kept by the most recent dataset load.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "CSV rows discarded for missing or unparseable required fields.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Dataset cache lookups by result.",
		}, []string{"result"}),
		ViewsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "views_rendered_total",
			Help:      "Filtered views served by output format.",
		}, []string{"format"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time to filter and render one view.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"format"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_events_published_total",
			Help:      "Selection events written to Kafka.",
		}),
		EventErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_event_errors_total",
			Help:      "Selection events that failed to publish.",
		}),
	}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetLoads,
		m.SchoolsLoaded,
		m.RowsDropped,
		m.CacheLookups,
		m.ViewsRendered,
		m.RenderDuration,
		m.EventsPublished,
		m.EventErrors,
	)
	return m
}

// NewUnregisteredMetrics creates Metrics that are not exported anywhere,
// for one-shot tools that reuse instrumented components.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewUnregisteredMetrics()
}
