package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecast pipeline and the graph-driven config generation.
type Metrics struct {
	// Knowledge-graph metrics.
	SparqlQueries      *prometheus.CounterVec // labels: outcome={success,error}
	SparqlDuration     prometheus.Histogram
	AttributesResolved prometheus.Counter

	// Config generation metrics.
	ConfigGenerations *prometheus.CounterVec // labels: artifact={turbine_types,park}, outcome={success,error}

	// Forecast pipeline metrics.
	ForecastCycles     *prometheus.CounterVec // labels: outcome={success,empty,error}
	SimulationDuration prometheus.Histogram
	PipelineRunning    prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SparqlQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eolica",
			Name:      "sparql_queries_total",
			Help:      "SPARQL SELECT queries sent to the graph endpoint, by outcome.",
		}, []string{"outcome"}),
		SparqlDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eolica",
			Name:      "sparql_query_duration_seconds",
			Help:      "Round-trip duration of a single SPARQL query.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		AttributesResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eolica",
			Name:      "attributes_resolved_total",
			Help:      "Attribute URIs resolved to a value or label.",
		}),
		ConfigGenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eolica",
			Name:      "config_generations_total",
			Help:      "Config artifact generation attempts, by artifact and outcome.",
		}, []string{"artifact", "outcome"}),
		ForecastCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eolica",
			Name:      "forecast_cycles_total",
			Help:      "Forecast pipeline cycles, by outcome.",
		}, []string{"outcome"}),
		SimulationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eolica",
			Name:      "simulation_duration_seconds",
			Help:      "Duration of one simulation engine call.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "eolica",
			Name:      "pipeline_running",
			Help:      "1 when the forecast scheduler is active, 0 when shut down.",
		}),
	}

	prometheus.MustRegister(
		m.SparqlQueries,
		m.SparqlDuration,
		m.AttributesResolved,
		m.ConfigGenerations,
		m.ForecastCycles,
		m.SimulationDuration,
		m.PipelineRunning,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SparqlQueries:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "eolica", Name: "sparql_queries_total"}, []string{"outcome"}),
		SparqlDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "eolica", Name: "sparql_query_duration_seconds"}),
		AttributesResolved: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "eolica", Name: "attributes_resolved_total"}),
		ConfigGenerations:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "eolica", Name: "config_generations_total"}, []string{"artifact", "outcome"}),
		ForecastCycles:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "eolica", Name: "forecast_cycles_total"}, []string{"outcome"}),
		SimulationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "eolica", Name: "simulation_duration_seconds"}),
		PipelineRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "eolica", Name: "pipeline_running"}),
	}
}
