// Package dedup finds and removes documents that index exactly the same
// set of words as an earlier document.
package dedup

import (
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// Store is the part of a search server duplicate removal needs.
type Store interface {
	Documents() iter.Seq[int]
	GetWordFrequencies(docID int) map[string]float64
	RemoveDocument(docID int) bool
}

// Find returns, ascending, the ids of documents whose word set equals the
// word set of a document with a lower id. Frequencies are ignored.
func Find(store Store) []int {
	seen := make(map[string]struct{})
	var duplicates []int
	for id := range store.Documents() {
		key := wordSetKey(store.GetWordFrequencies(id))
		if _, ok := seen[key]; ok {
			duplicates = append(duplicates, id)
			continue
		}
		seen[key] = struct{}{}
	}
	return duplicates
}

// RemoveDuplicates removes every document reported by Find and returns
// their ids.
func RemoveDuplicates(store Store) []int {
	duplicates := Find(store)
	logger := slog.Default().With("component", "dedup")
	for _, id := range duplicates {
		logger.Info("found duplicate document id", "doc_id", id)
		store.RemoveDocument(id)
	}
	return duplicates
}

// Tokens never contain whitespace, so a space-joined sorted list is a
// unique key for the set.
func wordSetKey(freqs map[string]float64) string {
	return strings.Join(slices.Sorted(maps.Keys(freqs)), " ")
}
