package parser

import (
	"fmt"
	"slices"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

const minusMarker = '-'

// Query holds the parsed plus and minus tokens of a raw query, each
// sorted ascending and deduplicated, stop words removed.
type Query struct {
	PlusWords  []string
	MinusWords []string
	RawQuery   string
}

// IsEmpty reports whether the query has no plus tokens and so can match
// nothing.
func (q *Query) IsEmpty() bool {
	return len(q.PlusWords) == 0
}

// Parse turns raw query text into a Query. A token that is only the
// minus marker, or whose marker is followed by another marker, is a
// malformed query; so is text carrying control characters. No partial
// result is returned on error.
func Parse(query string, stopWords tokenizer.StopWords) (*Query, error) {
	if err := tokenizer.Validate(query); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrMalformedQuery, err)
	}
	plan := &Query{
		PlusWords:  make([]string, 0),
		MinusWords: make([]string, 0),
		RawQuery:   query,
	}
	for _, word := range tokenizer.Split(query) {
		term, isMinus, err := parseWord(word)
		if err != nil {
			return nil, err
		}
		if stopWords.Contains(term) {
			continue
		}
		if isMinus {
			plan.MinusWords = append(plan.MinusWords, term)
		} else {
			plan.PlusWords = append(plan.PlusWords, term)
		}
	}
	plan.PlusWords = dedupe(plan.PlusWords)
	plan.MinusWords = dedupe(plan.MinusWords)
	return plan, nil
}

func parseWord(word string) (string, bool, error) {
	if word[0] != minusMarker {
		return word, false, nil
	}
	term := word[1:]
	if term == "" {
		return "", false, errors.New(errors.ErrMalformedQuery, "dangling minus marker")
	}
	if term[0] == minusMarker {
		return "", false, errors.Newf(errors.ErrMalformedQuery, "doubled minus marker in %q", word)
	}
	return term, true, nil
}

func dedupe(words []string) []string {
	slices.Sort(words)
	return slices.Compact(words)
}
