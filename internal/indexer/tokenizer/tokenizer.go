// Package tokenizer splits raw text into whitespace-delimited tokens,
// rejects text carrying control characters, and holds the frozen
// stop-word set shared by indexing and query parsing.
package tokenizer

import (
	"slices"
	"strings"
	"unicode/utf8"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Split breaks text into tokens on runs of whitespace. Empty or blank
// input yields an empty, non-nil slice.
func Split(text string) []string {
	words := strings.Fields(text)
	if words == nil {
		return []string{}
	}
	return words
}

// Validate reports ErrInvalidCharacter when text contains a code point
// below the space character.
func Validate(text string) error {
	idx := strings.IndexFunc(text, func(r rune) bool {
		return r < ' '
	})
	if idx < 0 {
		return nil
	}
	r, _ := utf8.DecodeRuneInString(text[idx:])
	return apperrors.Newf(apperrors.ErrInvalidCharacter, "control character %U at byte %d in %q", r, idx, text)
}

// StopWords is an immutable set of tokens excluded from indexing and
// querying. The zero value is an empty set.
type StopWords struct {
	words map[string]struct{}
}

// NewStopWords builds the set from either free text (split on
// whitespace) or an already tokenized collection. Empty entries are
// dropped and duplicates collapse.
func NewStopWords[S string | []string](source S) (StopWords, error) {
	var words []string
	switch src := any(source).(type) {
	case string:
		words = Split(src)
	case []string:
		words = src
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if err := Validate(w); err != nil {
			return StopWords{}, err
		}
		set[w] = struct{}{}
	}
	return StopWords{words: set}, nil
}

// Contains reports whether token is a stop word.
func (s StopWords) Contains(token string) bool {
	_, ok := s.words[token]
	return ok
}

func (s StopWords) Len() int {
	return len(s.words)
}

// Words returns the stop words in ascending order.
func (s StopWords) Words() []string {
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}

// SplitNoStop validates text and returns its tokens with stop words
// removed, preserving order and repetitions.
func (s StopWords) SplitNoStop(text string) ([]string, error) {
	if err := Validate(text); err != nil {
		return nil, err
	}
	words := Split(text)
	tokens := words[:0]
	for _, w := range words {
		if s.Contains(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens, nil
}
