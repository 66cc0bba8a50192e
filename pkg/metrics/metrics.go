// Package metrics defines the Prometheus collectors used by the index and the
// query pipeline and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	DocumentsLoadedTotal *prometheus.CounterVec
	OpenDocuments        prometheus.Gauge
	TokensIndexedTotal   prometheus.Counter
	IndexedWords         prometheus.Gauge
	WordTableCapacity    prometheus.Gauge
	WordTableResizes     prometheus.Gauge
	WordTableTombstones  prometheus.Gauge
	SearchQueriesTotal   *prometheus.CounterVec
	SearchLatency        *prometheus.HistogramVec
	SearchResultsCount   prometheus.Histogram
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
}

// New creates all collectors and registers them with reg. A nil reg uses the
// default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		DocumentsLoadedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textsearch_documents_loaded_total",
				Help: "Document load attempts by status (ok, not_found, limit, error).",
			},
			[]string{"status"},
		),
		OpenDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "textsearch_open_documents",
				Help: "Number of documents currently held open by the index.",
			},
		),
		TokensIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "textsearch_tokens_indexed_total",
				Help: "Total word occurrences recorded in the index.",
			},
		),
		IndexedWords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "textsearch_indexed_words",
				Help: "Number of distinct words in the index.",
			},
		),
		WordTableCapacity: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "textsearch_word_table_capacity",
				Help: "Slot count of the word hash table.",
			},
		),
		WordTableResizes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "textsearch_word_table_resizes",
				Help: "Number of times the word hash table has grown.",
			},
		),
		WordTableTombstones: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "textsearch_word_table_tombstones",
				Help: "Deleted slots in the word hash table awaiting reuse or a resize.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textsearch_search_queries_total",
				Help: "Total search queries by result type (hit, zero_result, invalid, error).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "textsearch_search_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"cache_status"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "textsearch_search_results_count",
				Help:    "Number of matching documents per search query.",
				Buckets: []float64{0, 1, 2, 3, 5, 10},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "textsearch_cache_hits_total",
				Help: "Total number of result cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "textsearch_cache_misses_total",
				Help: "Total number of result cache misses.",
			},
		),
	}

	reg.MustRegister(
		m.DocumentsLoadedTotal,
		m.OpenDocuments,
		m.TokensIndexedTotal,
		m.IndexedWords,
		m.WordTableCapacity,
		m.WordTableResizes,
		m.WordTableTombstones,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
