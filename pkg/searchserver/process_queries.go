package searchserver

import (
	"fmt"
	"slices"
)

// ProcessQueries runs FindTopDocuments for every query on the server's
// parallel policy. Result i belongs to queries[i]. The first failing
// query aborts the batch.
func ProcessQueries(s *Server, queries []string) ([][]Document, error) {
	results := make([][]Document, len(queries))
	err := s.ParallelPolicy().ForEachErr(len(queries), func(i int) error {
		docs, err := s.FindTopDocuments(queries[i])
		if err != nil {
			return fmt.Errorf("query %d %q: %w", i, queries[i], err)
		}
		results[i] = docs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ProcessQueriesJoined is ProcessQueries flattened in query order.
func ProcessQueriesJoined(s *Server, queries []string) ([]Document, error) {
	results, err := ProcessQueries(s, queries)
	if err != nil {
		return nil, err
	}
	return slices.Concat(results...), nil
}
