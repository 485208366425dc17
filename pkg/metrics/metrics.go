// Package metrics defines the Prometheus collectors used by the search
// server. Collectors live on a private registry so several servers can
// coexist in one process; every recording method is a no-op on a nil
// *Metrics.
package metrics

import (
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for one search server.
type Metrics struct {
	Registry *prometheus.Registry

	DocsIndexedTotal       prometheus.Counter
	DocsRemovedTotal       prometheus.Counter
	DuplicatesRemovedTotal prometheus.Counter
	IndexErrorsTotal       *prometheus.CounterVec
	LiveDocuments          prometheus.Gauge
	SearchQueriesTotal     *prometheus.CounterVec
	SearchLatency          *prometheus.HistogramVec
	SearchResultsCount     prometheus.Histogram
	NoResultRequests       prometheus.Gauge
}

// New creates and registers all collectors under namespace.
func New(namespace string) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "docs_indexed_total",
				Help:      "Total documents added to the index.",
			},
		),
		DocsRemovedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "docs_removed_total",
				Help:      "Total documents removed from the index.",
			},
		),
		DuplicatesRemovedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "duplicates_removed_total",
				Help:      "Total documents removed as duplicates.",
			},
		),
		IndexErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "index_errors_total",
				Help:      "Rejected AddDocument calls by error kind.",
			},
			[]string{"kind"},
		),
		LiveDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "live_documents",
				Help:      "Number of documents currently indexed.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_queries_total",
				Help:      "Total search queries by result type (hit, zero_result, error).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_latency_seconds",
				Help:      "Search query latency in seconds.",
				Buckets:   []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"policy"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_results_count",
				Help:      "Number of results returned per search query.",
				Buckets:   []float64{0, 1, 2, 3, 4, 5, 10, 25},
			},
		),
		NoResultRequests: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "no_result_requests",
				Help:      "Zero-result requests inside the request log window.",
			},
		),
	}

	m.Registry.MustRegister(
		m.DocsIndexedTotal,
		m.DocsRemovedTotal,
		m.DuplicatesRemovedTotal,
		m.IndexErrorsTotal,
		m.LiveDocuments,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.NoResultRequests,
	)
	return m
}

func (m *Metrics) DocumentIndexed(live int) {
	if m == nil {
		return
	}
	m.DocsIndexedTotal.Inc()
	m.LiveDocuments.Set(float64(live))
}

func (m *Metrics) IndexRejected(kind string) {
	if m == nil {
		return
	}
	m.IndexErrorsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) DocumentRemoved(live int) {
	if m == nil {
		return
	}
	m.DocsRemovedTotal.Inc()
	m.LiveDocuments.Set(float64(live))
}

func (m *Metrics) DuplicateRemoved() {
	if m == nil {
		return
	}
	m.DuplicatesRemovedTotal.Inc()
}

// ObserveQuery records one search call. err != nil counts as an error
// regardless of results.
func (m *Metrics) ObserveQuery(policy string, elapsed time.Duration, results int, err error) {
	if m == nil {
		return
	}
	resultType := "hit"
	switch {
	case err != nil:
		resultType = "error"
	case results == 0:
		resultType = "zero_result"
	}
	m.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	if err != nil {
		return
	}
	m.SearchLatency.WithLabelValues(policy).Observe(elapsed.Seconds())
	m.SearchResultsCount.Observe(float64(results))
}

func (m *Metrics) SetNoResultRequests(n int) {
	if m == nil {
		return
	}
	m.NoResultRequests.Set(float64(n))
}

// Sample is one gathered counter or gauge value.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Samples gathers every counter and gauge from the registry, sorted by
// name. Histograms are reported by their sample count.
func (m *Metrics) Samples() ([]Sample, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.Registry.Gather()
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			labels := make(map[string]string, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			s := Sample{Name: mf.GetName(), Labels: labels}
			switch {
			case metric.GetCounter() != nil:
				s.Value = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				s.Value = metric.GetGauge().GetValue()
			case metric.GetHistogram() != nil:
				s.Name += "_count"
				s.Value = float64(metric.GetHistogram().GetSampleCount())
			default:
				continue
			}
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}
