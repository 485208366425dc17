package ranker

import (
	"math"
	"slices"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/shard"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/execution"
)

const (
	// DefaultLimit is the number of documents TopK keeps when the caller
	// passes a non-positive k.
	DefaultLimit = 5
	// RelevanceEpsilon is the tolerance under which two relevances count
	// as equal and rating decides the order.
	RelevanceEpsilon = 1e-6
)

// Predicate decides whether a document is eligible for scoring.
type Predicate func(docID int, status index.Status, rating int) bool

// StatusIs returns a Predicate accepting documents with exactly status.
func StatusIs(status index.Status) Predicate {
	return func(_ int, s index.Status, _ int) bool {
		return s == status
	}
}

// Score computes TF-IDF relevance for every document matching a plus
// word of q and accepted by pred, then drops every document holding a
// minus word. Plus and minus words are dispatched as independent units
// through policy and accumulate into a shard.Map with numShards shards.
// The result is ordered by document id.
func Score(
	idx *index.MemoryIndex,
	q *parser.Query,
	pred Predicate,
	policy execution.Policy,
	numShards int,
) []index.Document {
	if q.IsEmpty() {
		return []index.Document{}
	}
	if !policy.IsParallel() {
		numShards = 1
	} else if numShards <= 0 {
		numShards = len(q.PlusWords)
	}
	relevance := shard.NewMap[float64](numShards)

	policy.ForEach(len(q.PlusWords), func(i int) {
		term := q.PlusWords[i]
		if !idx.HasTerm(term) {
			return
		}
		idf := idx.InverseDocumentFrequency(term)
		for docID, tf := range idx.Postings(term) {
			data, _ := idx.Document(docID)
			if !pred(docID, data.Status, data.Rating) {
				continue
			}
			relevance.Update(docID, func(v *float64) {
				*v += tf * idf
			})
		}
	})
	policy.ForEach(len(q.MinusWords), func(i int) {
		for docID := range idx.Postings(q.MinusWords[i]) {
			relevance.Delete(docID)
		}
	})

	entries := relevance.Snapshot()
	result := make([]index.Document, 0, len(entries))
	for _, e := range entries {
		data, _ := idx.Document(e.Key)
		result = append(result, index.Document{
			ID:        e.Key,
			Relevance: e.Value,
			Rating:    data.Rating,
		})
	}
	return result
}

// Less orders a before b when a is more relevant, falling back to the
// higher rating when the relevances are within RelevanceEpsilon.
func Less(a, b index.Document) bool {
	if math.Abs(a.Relevance-b.Relevance) < RelevanceEpsilon {
		return a.Rating > b.Rating
	}
	return a.Relevance > b.Relevance
}

// TopK sorts docs in place by Less and returns the first k of them.
func TopK(docs []index.Document, k int) []index.Document {
	if k <= 0 {
		k = DefaultLimit
	}
	slices.SortStableFunc(docs, func(a, b index.Document) int {
		switch {
		case Less(a, b):
			return -1
		case Less(b, a):
			return 1
		default:
			return 0
		}
	})
	// Less is not transitive across chains of near-equal relevances, so
	// settle any adjacent pair the sort left inverted.
	for i := 1; i < len(docs); i++ {
		for j := i; j > 0 && Less(docs[j], docs[j-1]); j-- {
			docs[j], docs[j-1] = docs[j-1], docs[j]
		}
	}
	if len(docs) > k {
		docs = docs[:k]
	}
	return docs
}
