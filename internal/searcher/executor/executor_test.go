package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/execution"
)

var policies = []execution.Policy{execution.Sequential, execution.WithWorkers(4)}

func newExecutor(t *testing.T, limit int) *Executor {
	t.Helper()
	sw, err := tokenizer.NewStopWords("and with")
	require.NoError(t, err)
	engine := indexer.NewEngine(sw)
	docs := []struct {
		id      int
		text    string
		status  index.Status
		ratings []int
	}{
		{1, "funny pet and nasty rat", index.StatusActual, []int{7, 2, 7}},
		{2, "funny pet with curly hair", index.StatusActual, []int{1, 2}},
		{3, "funny pet and not very nasty rat", index.StatusActual, []int{1, 2, 8}},
		{4, "pet with rat and rat and rat", index.StatusBanned, []int{1, 2}},
		{5, "nasty rat with curly hair", index.StatusActual, []int{1, 1, 1}},
	}
	for _, d := range docs {
		require.NoError(t, engine.IndexDocument(d.id, d.text, d.status, d.ratings))
	}
	return New(engine, limit, 0)
}

func ids(docs []index.Document) []int {
	out := make([]int, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func TestFindTopDocuments(t *testing.T) {
	e := newExecutor(t, 0)
	assert.Equal(t, ranker.DefaultLimit, e.Limit())

	for _, policy := range policies {
		t.Run(policy.String(), func(t *testing.T) {
			docs, err := e.FindTopDocuments(policy, "curly nasty cat", ranker.StatusIs(index.StatusActual))
			require.NoError(t, err)
			assert.ElementsMatch(t, []int{1, 2, 3, 5}, ids(docs))
			assert.Equal(t, 5, docs[0].ID)

			docs, err = e.FindTopDocuments(policy, "curly nasty cat -hair", ranker.StatusIs(index.StatusActual))
			require.NoError(t, err)
			assert.ElementsMatch(t, []int{1, 3}, ids(docs))

			docs, err = e.FindTopDocuments(policy, "rat", ranker.StatusIs(index.StatusBanned))
			require.NoError(t, err)
			assert.Equal(t, []int{4}, ids(docs))
		})
	}
}

func TestFindTopDocumentsLimit(t *testing.T) {
	e := newExecutor(t, 2)
	docs, err := e.FindTopDocuments(execution.Sequential, "pet rat curly", func(int, index.Status, int) bool { return true })
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestFindTopDocumentsMalformed(t *testing.T) {
	e := newExecutor(t, 0)
	for _, q := range []string{"rat -", "--rat", "rat\x03"} {
		docs, err := e.FindTopDocuments(execution.Sequential, q, ranker.StatusIs(index.StatusActual))
		assert.Nil(t, docs)
		assert.ErrorIs(t, err, errors.ErrMalformedQuery, q)
	}
}

func TestMatchDocument(t *testing.T) {
	e := newExecutor(t, 0)
	for _, policy := range policies {
		t.Run(policy.String(), func(t *testing.T) {
			res, err := e.MatchDocument(policy, "rat curly pet pet dog", 5)
			require.NoError(t, err)
			assert.Equal(t, []string{"curly", "rat"}, res.Words)
			assert.Equal(t, index.StatusActual, res.Status)

			res, err = e.MatchDocument(policy, "rat curly -hair", 5)
			require.NoError(t, err)
			assert.NotNil(t, res.Words)
			assert.Empty(t, res.Words)

			res, err = e.MatchDocument(policy, "rat", 4)
			require.NoError(t, err)
			assert.Equal(t, []string{"rat"}, res.Words)
			assert.Equal(t, index.StatusBanned, res.Status)
		})
	}
}

func TestMatchDocumentErrors(t *testing.T) {
	e := newExecutor(t, 0)

	_, err := e.MatchDocument(execution.Sequential, "rat", 99)
	assert.ErrorIs(t, err, errors.ErrUnknownID)
	_, err = e.MatchDocument(execution.Sequential, "rat", -1)
	assert.ErrorIs(t, err, errors.ErrUnknownID)
	_, err = e.MatchDocument(execution.Parallel(), "rat --pet", 1)
	assert.ErrorIs(t, err, errors.ErrMalformedQuery)
}
