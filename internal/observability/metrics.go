package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a report run.
type Metrics struct {
	RecordsParsed  prometheus.Counter
	ChartsRendered prometheus.Counter
	RunActive      prometheus.Gauge

	// Data quality metrics. These count the silent-recovery paths: missing
	// or unparsable numeric cells summed as zero, and damage exponent codes
	// outside the K/M/B domain multiplied by 1.
	MissingValues        *prometheus.CounterVec // label: column
	UnknownExponentCodes prometheus.Counter

	FetchDuration prometheus.Histogram
	DatasetBytes  prometheus.Gauge
	StageDuration *prometheus.HistogramVec // label: stage={load,aggregate_health,aggregate_economy,render}
}

// NewMetrics creates and registers all report metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "records_parsed_total",
			Help:      "Total storm event records parsed from the dataset.",
		}),
		ChartsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "charts_rendered_total",
			Help:      "Total chart artifacts written.",
		}),
		RunActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_report",
			Name:      "run_active",
			Help:      "1 while a report run is in progress, 0 otherwise.",
		}),
		MissingValues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "missing_values_total",
			Help:      "Missing or unparsable numeric cells summed as zero, by column.",
		}, []string{"column"}),
		UnknownExponentCodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "unknown_exponent_codes_total",
			Help:      "Damage exponent codes outside the K/M/B domain, treated as multiplier 1.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storm_report",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the dataset download.",
			Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		DatasetBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_report",
			Name:      "dataset_bytes",
			Help:      "Size of the local dataset file in bytes.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storm_report",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}, []string{"stage"}),
	}

	prometheus.MustRegister(
		m.RecordsParsed,
		m.ChartsRendered,
		m.RunActive,
		m.MissingValues,
		m.UnknownExponentCodes,
		m.FetchDuration,
		m.DatasetBytes,
		m.StageDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsParsed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_report", Name: "records_parsed_total"}),
		ChartsRendered:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_report", Name: "charts_rendered_total"}),
		RunActive:            prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "storm_report", Name: "run_active"}),
		MissingValues:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "storm_report", Name: "missing_values_total"}, []string{"column"}),
		UnknownExponentCodes: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_report", Name: "unknown_exponent_codes_total"}),
		FetchDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "storm_report", Name: "fetch_duration_seconds"}),
		DatasetBytes:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "storm_report", Name: "dataset_bytes"}),
		StageDuration:        prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "storm_report", Name: "stage_duration_seconds"}, []string{"stage"}),
	}
}
