// Package searchserver is the public entry point of the search engine: a
// TF-IDF ranked, in-memory full-text index with sequential and parallel
// query, match and removal paths.
package searchserver

import (
	"iter"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/dedup"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/execution"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
)

type (
	Document    = index.Document
	Status      = index.Status
	Predicate   = ranker.Predicate
	MatchResult = executor.MatchResult
)

const (
	StatusActual     = index.StatusActual
	StatusIrrelevant = index.StatusIrrelevant
	StatusBanned     = index.StatusBanned
	StatusRemoved    = index.StatusRemoved
)

// Server owns the index and serves searches over it. Searches may run
// concurrently with each other; AddDocument and RemoveDocument take the
// write lock and wait for in-flight searches.
type Server struct {
	mu       sync.RWMutex
	engine   *indexer.Engine
	executor *executor.Executor
	parallel execution.Policy
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

type options struct {
	maxResults int
	shardCount int
	workers    int
	metrics    *metrics.Metrics
}

type Option func(*options)

// WithMaxResults caps the number of documents a search returns.
func WithMaxResults(n int) Option {
	return func(o *options) { o.maxResults = n }
}

// WithShardCount sets the number of shards parallel scoring aggregates
// into. 0 uses one shard per plus word.
func WithShardCount(n int) Option {
	return func(o *options) { o.shardCount = n }
}

// WithWorkers bounds the worker pool of the parallel policy. 0 uses
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New creates an empty Server. Stop words are given either as one
// whitespace-separated string or as a list of words.
func New[S string | []string](stopWords S, opts ...Option) (*Server, error) {
	o := options{maxResults: ranker.DefaultLimit}
	for _, opt := range opts {
		opt(&o)
	}
	set, err := tokenizer.NewStopWords(stopWords)
	if err != nil {
		return nil, err
	}
	parallel := execution.Parallel()
	if o.workers > 0 {
		parallel = execution.WithWorkers(o.workers)
	}
	engine := indexer.NewEngine(set)
	return &Server{
		engine:   engine,
		executor: executor.New(engine, o.maxResults, o.shardCount),
		parallel: parallel,
		metrics:  o.metrics,
		logger:   slog.Default().With("component", "search-server"),
	}, nil
}

// NewFromConfig creates a Server from the search and metrics sections of
// cfg.
func NewFromConfig(cfg *config.Config) (*Server, error) {
	opts := []Option{
		WithMaxResults(cfg.Search.MaxResults),
		WithShardCount(cfg.Search.ShardCount),
		WithWorkers(cfg.Search.Workers),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, WithMetrics(metrics.New(cfg.Metrics.Namespace)))
	}
	return New(cfg.Search.StopWords, opts...)
}

// ParallelPolicy returns the worker pool policy configured for this
// server.
func (s *Server) ParallelPolicy() execution.Policy {
	return s.parallel
}

// Metrics returns the server's collectors, or nil if metrics are off.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

func (s *Server) StopWords() []string {
	return s.engine.StopWords().Words()
}

// AddDocument indexes text under docID. The rating stored is the mean of
// ratings truncated toward zero. On error the corpus is unchanged.
func (s *Server) AddDocument(docID int, text string, status Status, ratings []int) error {
	s.mu.Lock()
	err := s.engine.IndexDocument(docID, text, status, ratings)
	count := s.engine.GetTotalDocs()
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("document rejected",
			"doc_id", docID,
			"kind", errors.Kind(err),
			"error", err,
		)
		s.metrics.IndexRejected(errors.Kind(err))
		return err
	}
	s.metrics.DocumentIndexed(count)
	return nil
}

// FindTopDocuments returns the best ACTUAL documents for rawQuery.
func (s *Server) FindTopDocuments(rawQuery string) ([]Document, error) {
	return s.FindTopDocumentsStatus(rawQuery, StatusActual)
}

func (s *Server) FindTopDocumentsStatus(rawQuery string, status Status) ([]Document, error) {
	return s.FindTopDocumentsFunc(rawQuery, ranker.StatusIs(status))
}

func (s *Server) FindTopDocumentsFunc(rawQuery string, pred Predicate) ([]Document, error) {
	return s.FindTopDocumentsPolicy(execution.Sequential, rawQuery, pred)
}

// FindTopDocumentsPolicy is the general search: documents accepted by
// pred are scored under policy, ordered by relevance (rating breaking
// near ties) and truncated to the configured maximum. A nil pred
// accepts every document.
func (s *Server) FindTopDocumentsPolicy(policy execution.Policy, rawQuery string, pred Predicate) ([]Document, error) {
	if pred == nil {
		pred = anyDocument
	}
	start := time.Now()
	s.mu.RLock()
	docs, err := s.executor.FindTopDocuments(policy, rawQuery, pred)
	s.mu.RUnlock()
	s.metrics.ObserveQuery(policy.String(), time.Since(start), len(docs), err)
	return docs, err
}

func anyDocument(int, Status, int) bool { return true }

// MatchDocument reports which plus words of rawQuery occur in docID.
func (s *Server) MatchDocument(rawQuery string, docID int) (MatchResult, error) {
	return s.MatchDocumentPolicy(execution.Sequential, rawQuery, docID)
}

func (s *Server) MatchDocumentPolicy(policy execution.Policy, rawQuery string, docID int) (MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.executor.MatchDocument(policy, rawQuery, docID)
}

// RemoveDocument drops docID from the index. It reports false, and
// changes nothing, when docID is not live.
func (s *Server) RemoveDocument(docID int) bool {
	return s.RemoveDocumentPolicy(execution.Sequential, docID)
}

func (s *Server) RemoveDocumentPolicy(policy execution.Policy, docID int) bool {
	s.mu.Lock()
	removed := s.engine.RemoveDocument(policy, docID)
	count := s.engine.GetTotalDocs()
	s.mu.Unlock()

	if removed {
		s.metrics.DocumentRemoved(count)
	}
	return removed
}

// RemoveDuplicates removes every document indexing the same word set as
// a lower-numbered document and returns the removed ids, ascending.
func (s *Server) RemoveDuplicates() []int {
	removed := dedup.RemoveDuplicates(s)
	for range removed {
		s.metrics.DuplicateRemoved()
	}
	return removed
}

// GetWordFrequencies returns the term frequencies of docID, or an empty
// map if docID is not live.
func (s *Server) GetWordFrequencies(docID int) map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.WordFrequencies(docID)
}

func (s *Server) DocumentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.GetTotalDocs()
}

// Documents yields live document ids in ascending order. The ids are
// captured when iteration starts, so the loop body may modify the
// server.
func (s *Server) Documents() iter.Seq[int] {
	return func(yield func(int) bool) {
		s.mu.RLock()
		ids := slices.Collect(s.engine.DocumentIDs())
		s.mu.RUnlock()
		for _, id := range ids {
			if !yield(id) {
				return
			}
		}
	}
}
