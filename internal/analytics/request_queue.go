// Package analytics keeps a sliding log of recent search requests and
// counts how many of them returned nothing.
package analytics

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
)

// DefaultWindow is the number of ticks a request stays in the log: one
// request per minute over a day.
const DefaultWindow = 1440

const topQueries = 10

// Finder runs a filtered top-documents search.
type Finder interface {
	FindTopDocumentsFunc(rawQuery string, pred ranker.Predicate) ([]index.Document, error)
}

// RequestQueue wraps a Finder and records every successful request. Each
// request advances the clock by one tick; requests older than the window
// fall out of the log.
type RequestQueue struct {
	mu        sync.Mutex
	finder    Finder
	window    uint64
	requests  []RequestEvent
	noResults int
	now       uint64

	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewRequestQueue creates a queue over finder. window <= 0 selects
// DefaultWindow. m may be nil.
func NewRequestQueue(finder Finder, window int, m *metrics.Metrics) *RequestQueue {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RequestQueue{
		finder:   finder,
		window:   uint64(window),
		requests: make([]RequestEvent, 0, window),
		metrics:  m,
		logger:   slog.Default().With("component", "request-queue"),
	}
}

// AddFindRequest records a search restricted to ACTUAL documents.
func (q *RequestQueue) AddFindRequest(ctx context.Context, rawQuery string) ([]index.Document, error) {
	return q.AddFindRequestFunc(ctx, rawQuery, ranker.StatusIs(index.StatusActual))
}

// AddFindRequestStatus records a search restricted to documents with the
// given status.
func (q *RequestQueue) AddFindRequestStatus(ctx context.Context, rawQuery string, status index.Status) ([]index.Document, error) {
	return q.AddFindRequestFunc(ctx, rawQuery, ranker.StatusIs(status))
}

// AddFindRequestFunc records a search filtered by pred. A failed search
// is returned as is and does not advance the clock.
func (q *RequestQueue) AddFindRequestFunc(ctx context.Context, rawQuery string, pred ranker.Predicate) ([]index.Document, error) {
	docs, err := q.finder.FindTopDocumentsFunc(rawQuery, pred)
	if err != nil {
		return nil, err
	}
	requestID, _ := logger.RequestID(ctx)
	q.record(rawQuery, len(docs), requestID)
	return docs, nil
}

func (q *RequestQueue) record(rawQuery string, results int, requestID string) {
	q.mu.Lock()
	q.now++
	for len(q.requests) > 0 && q.now-q.requests[0].Tick >= q.window {
		if q.requests[0].Results == 0 {
			q.noResults--
		}
		q.requests = q.requests[1:]
	}
	q.requests = append(q.requests, RequestEvent{
		Tick:      q.now,
		Query:     rawQuery,
		Results:   results,
		RequestID: requestID,
	})
	if results == 0 {
		q.noResults++
	}
	noResults := q.noResults
	q.mu.Unlock()

	q.metrics.SetNoResultRequests(noResults)
	if results == 0 {
		q.logger.Debug("request returned no documents",
			"query", rawQuery,
			"request_id", requestID,
		)
	}
}

// NoResultRequests returns how many requests inside the window returned
// no documents.
func (q *RequestQueue) NoResultRequests() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.noResults
}

func (q *RequestQueue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	queryCounts := make(map[string]int64)
	zeroResultQueries := make(map[string]int64)
	for _, r := range q.requests {
		queryCounts[r.Query]++
		if r.Results == 0 {
			zeroResultQueries[r.Query]++
		}
	}
	return Stats{
		Requests:          len(q.requests),
		NoResultRequests:  q.noResults,
		TotalRequests:     q.now,
		TopQueries:        topN(queryCounts, topQueries),
		ZeroResultQueries: topN(zeroResultQueries, topQueries),
	}
}

func topN(counts map[string]int64, n int) []QueryCount {
	result := make([]QueryCount, 0, len(counts))
	for query, count := range counts {
		result = append(result, QueryCount{Query: query, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Query < result[j].Query
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
