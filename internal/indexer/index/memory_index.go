package index

import (
	"cmp"
	"iter"
	"maps"
	"math"
	"slices"

	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/execution"
)

// MemoryIndex keeps the token -> document postings and the reverse
// document -> token frequencies as one bidirectional view, together with
// per-document metadata and the ordered set of live ids.
//
// MemoryIndex has no internal lock. Any number of readers may run
// concurrently, but Insert and Remove must not overlap with reads or with
// each other.
type MemoryIndex struct {
	postings map[string]map[int]float64
	docFreqs map[int]map[string]float64
	docs     map[int]DocumentData
	ids      []int
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		postings: make(map[string]map[int]float64),
		docFreqs: make(map[int]map[string]float64),
		docs:     make(map[int]DocumentData),
	}
}

// Insert indexes tokens (stop words already removed) under docID. Each
// occurrence of a token contributes 1/len(tokens) to its term frequency.
func (m *MemoryIndex) Insert(docID int, tokens []string, status Status, ratings []int) error {
	if docID < 0 {
		return errors.Newf(errors.ErrNegativeID, "document id %d", docID)
	}
	if _, exists := m.docs[docID]; exists {
		return errors.Newf(errors.ErrDuplicateID, "document id %d", docID)
	}

	freqs := make(map[string]float64, len(tokens))
	if len(tokens) > 0 {
		inv := 1.0 / float64(len(tokens))
		for _, token := range tokens {
			freqs[token] += inv
		}
	}
	for token, tf := range freqs {
		docs, exists := m.postings[token]
		if !exists {
			docs = make(map[int]float64)
			m.postings[token] = docs
		}
		docs[docID] = tf
	}
	m.docFreqs[docID] = freqs
	m.docs[docID] = DocumentData{
		Rating: AverageRating(ratings),
		Status: status,
	}
	pos, _ := slices.BinarySearch(m.ids, docID)
	m.ids = slices.Insert(m.ids, pos, docID)
	return nil
}

// Remove purges docID from both views and the live-id set. Erasing the
// document from each of its tokens' posting lists is dispatched through
// policy; every unit touches a distinct posting list. Remove reports
// whether docID was live.
func (m *MemoryIndex) Remove(docID int, policy execution.Policy) bool {
	freqs, exists := m.docFreqs[docID]
	if !exists {
		return false
	}
	tokens := slices.Sorted(maps.Keys(freqs))
	lists := make([]map[int]float64, len(tokens))
	for i, token := range tokens {
		lists[i] = m.postings[token]
	}
	policy.ForEach(len(lists), func(i int) {
		delete(lists[i], docID)
	})
	for i, token := range tokens {
		if len(lists[i]) == 0 {
			delete(m.postings, token)
		}
	}

	delete(m.docFreqs, docID)
	delete(m.docs, docID)
	if pos, found := slices.BinarySearch(m.ids, docID); found {
		m.ids = slices.Delete(m.ids, pos, pos+1)
	}
	return true
}

// WordFrequencies returns a copy of docID's token -> frequency mapping,
// or an empty mapping when docID is not live.
func (m *MemoryIndex) WordFrequencies(docID int) map[string]float64 {
	freqs, exists := m.docFreqs[docID]
	if !exists {
		return map[string]float64{}
	}
	return maps.Clone(freqs)
}

// Words returns docID's distinct tokens in ascending order.
func (m *MemoryIndex) Words(docID int) []string {
	return slices.Sorted(maps.Keys(m.docFreqs[docID]))
}

// HasTerm reports whether token has at least one posting.
func (m *MemoryIndex) HasTerm(token string) bool {
	return len(m.postings[token]) > 0
}

// Contains reports whether docID has a posting under token.
func (m *MemoryIndex) Contains(token string, docID int) bool {
	_, ok := m.postings[token][docID]
	return ok
}

// Postings yields the (docID, term frequency) pairs stored under token in
// no particular order.
func (m *MemoryIndex) Postings(token string) iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		for docID, tf := range m.postings[token] {
			if !yield(docID, tf) {
				return
			}
		}
	}
}

// InverseDocumentFrequency returns ln(live documents / documents holding
// token). token must have at least one posting.
func (m *MemoryIndex) InverseDocumentFrequency(token string) float64 {
	return math.Log(float64(len(m.ids)) / float64(len(m.postings[token])))
}

func (m *MemoryIndex) Document(docID int) (DocumentData, bool) {
	data, ok := m.docs[docID]
	return data, ok
}

func (m *MemoryIndex) DocCount() int {
	return len(m.ids)
}

// IDs yields the live document ids in ascending order.
func (m *MemoryIndex) IDs() iter.Seq[int] {
	return slices.Values(m.ids)
}

// Snapshot returns every token with its postings, tokens ascending and
// postings ordered by document id.
func (m *MemoryIndex) Snapshot() []TermEntry {
	entries := make([]TermEntry, 0, len(m.postings))
	for term, docs := range m.postings {
		postings := make(PostingList, 0, len(docs))
		for docID, tf := range docs {
			postings = append(postings, Posting{DocID: docID, TermFrequency: tf})
		}
		slices.SortFunc(postings, func(a, b Posting) int {
			return cmp.Compare(a.DocID, b.DocID)
		})
		entries = append(entries, TermEntry{
			Term:     term,
			Postings: postings,
		})
	}
	slices.SortFunc(entries, func(a, b TermEntry) int {
		return cmp.Compare(a.Term, b.Term)
	})
	return entries
}

// AverageRating is the mean of ratings truncated toward zero, or 0 for no
// ratings.
func AverageRating(ratings []int) int {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return sum / len(ratings)
}
