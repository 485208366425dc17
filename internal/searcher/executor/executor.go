package executor

import (
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/execution"
)

// MatchResult is the outcome of matching a query against one document.
// Words is empty, never nil, when the document holds a minus word.
type MatchResult struct {
	Words  []string     `json:"words"`
	Status index.Status `json:"status"`
}

type Executor struct {
	engine    *indexer.Engine
	limit     int
	numShards int
	logger    *slog.Logger
}

// New creates an Executor returning at most limit documents per query
// and aggregating parallel scores over numShards shards (0 picks one
// shard per plus word).
func New(engine *indexer.Engine, limit int, numShards int) *Executor {
	if limit <= 0 {
		limit = ranker.DefaultLimit
	}
	return &Executor{
		engine:    engine,
		limit:     limit,
		numShards: numShards,
		logger:    slog.Default().With("component", "query-executor"),
	}
}

func (e *Executor) Limit() int {
	return e.limit
}

// FindTopDocuments parses rawQuery, scores every document accepted by
// pred and returns the best Limit() of them.
func (e *Executor) FindTopDocuments(policy execution.Policy, rawQuery string, pred ranker.Predicate) ([]index.Document, error) {
	plan, err := parser.Parse(rawQuery, e.engine.StopWords())
	if err != nil {
		return nil, fmt.Errorf("parsing query: %w", err)
	}
	scored := ranker.Score(e.engine.Index(), plan, pred, policy, e.numShards)
	candidates := len(scored)
	ranked := ranker.TopK(scored, e.limit)
	e.logger.Debug("query executed",
		"query", plan.RawQuery,
		"plus_terms", plan.PlusWords,
		"minus_terms", plan.MinusWords,
		"policy", policy.String(),
		"candidates", candidates,
		"results", len(ranked),
	)
	return ranked, nil
}

// MatchDocument returns the plus words of rawQuery present in docID,
// ascending, or no words at all if any minus word is present.
func (e *Executor) MatchDocument(policy execution.Policy, rawQuery string, docID int) (MatchResult, error) {
	idx := e.engine.Index()
	data, ok := idx.Document(docID)
	if !ok {
		return MatchResult{}, errors.Newf(errors.ErrUnknownID, "document id %d", docID)
	}
	plan, err := parser.Parse(rawQuery, e.engine.StopWords())
	if err != nil {
		return MatchResult{}, fmt.Errorf("parsing query: %w", err)
	}
	result := MatchResult{
		Words:  []string{},
		Status: data.Status,
	}

	excluded := make([]bool, len(plan.MinusWords))
	policy.ForEach(len(plan.MinusWords), func(i int) {
		excluded[i] = idx.Contains(plan.MinusWords[i], docID)
	})
	for _, hit := range excluded {
		if hit {
			return result, nil
		}
	}

	matched := make([]bool, len(plan.PlusWords))
	policy.ForEach(len(plan.PlusWords), func(i int) {
		matched[i] = idx.Contains(plan.PlusWords[i], docID)
	})
	for i, hit := range matched {
		if hit {
			result.Words = append(result.Words, plan.PlusWords[i])
		}
	}
	return result, nil
}
