package indexer

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/execution"
)

// Engine owns the stop-word set and the memory index, and is the only
// writer of the index. Like index.MemoryIndex it does no locking of its
// own: mutations must be serialized against searches by the caller.
type Engine struct {
	stopWords tokenizer.StopWords
	memIndex  *index.MemoryIndex
	logger    *slog.Logger
}

func NewEngine(stopWords tokenizer.StopWords) *Engine {
	return &Engine{
		stopWords: stopWords,
		memIndex:  index.NewMemoryIndex(),
		logger:    slog.Default().With("component", "indexer"),
	}
}

// IndexDocument validates and tokenizes text and adds it under docID.
// On error the corpus is unchanged.
func (e *Engine) IndexDocument(docID int, text string, status index.Status, ratings []int) error {
	tokens, err := e.stopWords.SplitNoStop(text)
	if err != nil {
		return fmt.Errorf("tokenizing document %d: %w", docID, err)
	}
	if err := e.memIndex.Insert(docID, tokens, status, ratings); err != nil {
		return fmt.Errorf("indexing document %d: %w", docID, err)
	}
	e.logger.Debug("document indexed",
		"doc_id", docID,
		"token_count", len(tokens),
		"status", status,
		"docs", e.memIndex.DocCount(),
	)
	return nil
}

// RemoveDocument purges docID from the index. Removing an id that is not
// live is a no-op; the return value reports whether anything was removed.
func (e *Engine) RemoveDocument(policy execution.Policy, docID int) bool {
	removed := e.memIndex.Remove(docID, policy)
	if removed {
		e.logger.Debug("document removed",
			"doc_id", docID,
			"policy", policy.String(),
			"docs", e.memIndex.DocCount(),
		)
	}
	return removed
}

func (e *Engine) WordFrequencies(docID int) map[string]float64 {
	return e.memIndex.WordFrequencies(docID)
}

func (e *Engine) DocumentIDs() iter.Seq[int] {
	return e.memIndex.IDs()
}

func (e *Engine) GetTotalDocs() int {
	return e.memIndex.DocCount()
}

func (e *Engine) StopWords() tokenizer.StopWords {
	return e.stopWords
}

// Index exposes the underlying index to the read path.
func (e *Engine) Index() *index.MemoryIndex {
	return e.memIndex
}
