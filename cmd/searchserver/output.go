package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/paginate"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/searchserver"
)

func printDocument(w io.Writer, d searchserver.Document) {
	fmt.Fprintf(w, "{ document_id = %d, relevance = %g, rating = %d }\n", d.ID, d.Relevance, d.Rating)
}

func printMatch(w io.Writer, docID int, m searchserver.MatchResult) {
	fmt.Fprintf(w, "{ document_id = %d, status = %s, words = %s }\n", docID, m.Status, strings.Join(m.Words, " "))
}

func printError(w io.Writer, what string, err error) {
	fmt.Fprintf(w, "%s error (%s): %v\n", what, errors.Kind(err), err)
}

// printPages writes docs in pages of pageSize separated by a page break
// line.
func printPages(w io.Writer, docs []searchserver.Document, pageSize int) error {
	pages, err := paginate.Paginate(docs, pageSize)
	if err != nil {
		return err
	}
	for i, page := range pages {
		if i > 0 {
			fmt.Fprintln(w, "Page break")
		}
		for _, d := range page {
			printDocument(w, d)
		}
	}
	return nil
}

func printMetrics(w io.Writer, m *metrics.Metrics) error {
	samples, err := m.Samples()
	if err != nil {
		return err
	}
	for _, s := range samples {
		if len(s.Labels) == 0 {
			fmt.Fprintf(w, "%s %g\n", s.Name, s.Value)
			continue
		}
		labels := make([]string, 0, len(s.Labels))
		for _, k := range slices.Sorted(maps.Keys(s.Labels)) {
			labels = append(labels, fmt.Sprintf("%s=%q", k, s.Labels[k]))
		}
		fmt.Fprintf(w, "%s{%s} %g\n", s.Name, strings.Join(labels, ","), s.Value)
	}
	return nil
}
