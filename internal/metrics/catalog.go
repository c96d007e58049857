package metrics

import "github.com/prometheus/client_golang/prometheus"

// Catalog Prometheus metrics.
var (
	DatasetLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nordiclaw",
			Name:      "dataset_loads_total",
			Help:      "Total number of dataset load attempts",
		},
		[]string{"status"}, // "ok" / "error"
	)

	DatasetLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nordiclaw",
			Name:      "dataset_load_duration_seconds",
			Help:      "Dataset load duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	DatasetRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nordiclaw",
			Name:      "dataset_rows",
			Help:      "Rows in the current snapshot",
		},
	)

	DatasetManuscripts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nordiclaw",
			Name:      "dataset_manuscripts",
			Help:      "Manuscripts in the current snapshot",
		},
	)

	FacetQueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nordiclaw",
			Name:      "facet_query_duration_seconds",
			Help:      "Facet filter and count computation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	SpanBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nordiclaw",
			Name:      "span_builds_total",
			Help:      "Span map constructions by path",
		},
		[]string{"path"}, // "merge" / "heuristic"
	)

	LookupLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nordiclaw",
			Name:      "lookup_loads_total",
			Help:      "Lookup table loads by resource and outcome",
		},
		[]string{"resource", "status"}, // status: "ok" / "error" / "cache_hit"
	)
)

var catalogMetricsRegistered bool

// RegisterCatalogMetrics registers catalog metrics. Must be called once from main.
func RegisterCatalogMetrics() {
	if catalogMetricsRegistered {
		return
	}
	prometheus.MustRegister(DatasetLoadsTotal)
	prometheus.MustRegister(DatasetLoadDuration)
	prometheus.MustRegister(DatasetRows)
	prometheus.MustRegister(DatasetManuscripts)
	prometheus.MustRegister(FacetQueryDuration)
	prometheus.MustRegister(SpanBuildsTotal)
	prometheus.MustRegister(LookupLoadsTotal)
	catalogMetricsRegistered = true
}
