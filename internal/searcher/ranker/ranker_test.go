package ranker

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/execution"
)

var policies = []execution.Policy{execution.Sequential, execution.WithWorkers(4)}

func buildIndex(t testing.TB, docs map[int]string, statuses map[int]index.Status) *index.MemoryIndex {
	t.Helper()
	idx := index.NewMemoryIndex()
	for id, text := range docs {
		require.NoError(t, idx.Insert(id, tokenizer.Split(text), statuses[id], []int{id + 1}))
	}
	return idx
}

func parse(t testing.TB, q string) *parser.Query {
	t.Helper()
	plan, err := parser.Parse(q, tokenizer.StopWords{})
	require.NoError(t, err)
	return plan
}

func TestScorePashaScenario(t *testing.T) {
	idx := index.NewMemoryIndex()
	require.NoError(t, idx.Insert(0, tokenizer.Split("pasha pasha pasha masha yandex cat"), index.StatusActual, []int{1, 2, 3}))
	require.NoError(t, idx.Insert(1, tokenizer.Split("pasha pasha masha yandex cat"), index.StatusActual, []int{1, 2, 3}))
	require.NoError(t, idx.Insert(2, tokenizer.Split("pasha masha and cat"), index.StatusActual, []int{1, 2, 3}))
	require.NoError(t, idx.Insert(3, tokenizer.Split("masha and cat"), index.StatusActual, []int{1, 2, 3}))

	idf := math.Log(4.0 / 3.0)
	for _, policy := range policies {
		t.Run(policy.String(), func(t *testing.T) {
			docs := TopK(Score(idx, parse(t, "pasha"), StatusIs(index.StatusActual), policy, 0), 0)
			require.Len(t, docs, 3)
			assert.Equal(t, []int{0, 1, 2}, []int{docs[0].ID, docs[1].ID, docs[2].ID})
			assert.InDelta(t, 0.5*idf, docs[0].Relevance, 1e-9)
			assert.InDelta(t, 0.4*idf, docs[1].Relevance, 1e-9)
			assert.InDelta(t, 0.25*idf, docs[2].Relevance, 1e-9)
			assert.Equal(t, 2, docs[0].Rating)
		})
	}
}

func TestScoreMinusWordsExclude(t *testing.T) {
	idx := buildIndex(t, map[int]string{
		1: "fluffy cat fluffy tail",
		2: "groomed dog expressive eyes",
		3: "white cat fashionable collar",
	}, nil)

	for _, policy := range policies {
		t.Run(policy.String(), func(t *testing.T) {
			docs := Score(idx, parse(t, "fluffy groomed cat -collar"), StatusIs(index.StatusActual), policy, 3)
			ids := make([]int, 0, len(docs))
			for _, d := range docs {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, []int{1, 2}, ids)
		})
	}
}

func TestScoreAppliesPredicate(t *testing.T) {
	idx := buildIndex(t, map[int]string{
		1: "cat",
		2: "cat dog",
		3: "cat bird",
	}, map[int]index.Status{2: index.StatusBanned})

	for _, policy := range policies {
		banned := Score(idx, parse(t, "cat"), StatusIs(index.StatusBanned), policy, 0)
		require.Len(t, banned, 1)
		assert.Equal(t, 2, banned[0].ID)

		odd := Score(idx, parse(t, "cat"), func(id int, _ index.Status, _ int) bool { return id%2 == 1 }, policy, 0)
		assert.Len(t, odd, 2)
	}
}

func TestScoreUnknownWordsYieldNothing(t *testing.T) {
	idx := buildIndex(t, map[int]string{1: "cat"}, nil)
	for _, policy := range policies {
		assert.Empty(t, Score(idx, parse(t, "dog -bird"), StatusIs(index.StatusActual), policy, 0))
		assert.Empty(t, Score(idx, parse(t, "-cat"), StatusIs(index.StatusActual), policy, 0))
	}
}

func TestScoreSequentialMatchesParallel(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	vocab := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	docs := make(map[int]string)
	for id := 0; id < 300; id++ {
		text := ""
		for w := 0; w < 1+rng.Intn(8); w++ {
			text += vocab[rng.Intn(len(vocab))] + " "
		}
		docs[id] = text
	}
	idx := buildIndex(t, docs, nil)
	q := parse(t, "a c e g -h")

	seq := Score(idx, q, StatusIs(index.StatusActual), execution.Sequential, 0)
	par := Score(idx, q, StatusIs(index.StatusActual), execution.WithWorkers(8), 5)
	require.Equal(t, len(seq), len(par))
	for i := range seq {
		assert.Equal(t, seq[i].ID, par[i].ID)
		assert.InDelta(t, seq[i].Relevance, par[i].Relevance, 1e-12)
		assert.Equal(t, seq[i].Rating, par[i].Rating)
	}
}

func TestTopKOrderingInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	docs := make([]index.Document, 500)
	for i := range docs {
		// Few distinct relevance levels with sub-epsilon jitter to force
		// epsilon ties.
		rel := float64(rng.Intn(5))*0.1 + rng.Float64()*5e-7
		docs[i] = index.Document{ID: i, Relevance: rel, Rating: rng.Intn(10) - 5}
	}

	sorted := TopK(docs, len(docs))
	require.Len(t, sorted, 500)
	for i := 1; i < len(sorted); i++ {
		a, b := sorted[i-1], sorted[i]
		ok := a.Relevance > b.Relevance+RelevanceEpsilon ||
			(math.Abs(a.Relevance-b.Relevance) <= RelevanceEpsilon && a.Rating >= b.Rating)
		assert.True(t, ok, "pair %d: %+v then %+v", i, a, b)
	}
}

func TestTopKTruncates(t *testing.T) {
	docs := []index.Document{
		{ID: 1, Relevance: 0.1, Rating: 1},
		{ID: 2, Relevance: 0.5, Rating: 1},
		{ID: 3, Relevance: 0.5 + 1e-8, Rating: 9},
		{ID: 4, Relevance: 0.3, Rating: 1},
		{ID: 5, Relevance: 0.2, Rating: 1},
		{ID: 6, Relevance: 0.9, Rating: 1},
	}
	top := TopK(docs, 0)
	require.Len(t, top, DefaultLimit)
	got := make([]int, 0, len(top))
	for _, d := range top {
		got = append(got, d.ID)
	}
	assert.Equal(t, []int{6, 3, 2, 4, 5}, got)

	assert.Len(t, TopK([]index.Document{{ID: 1}}, 3), 1)
	assert.Empty(t, TopK(nil, 3))
}

func BenchmarkScore(b *testing.B) {
	docs := make(map[int]string)
	terms := []string{"distributed", "search", "analytics", "platform", "indexing", "query", "engine", "ranking"}
	for i := 0; i < 5000; i++ {
		docs[i] = fmt.Sprintf("%s %s %s", terms[i%len(terms)], terms[(i+2)%len(terms)], terms[(i+3)%len(terms)])
	}
	idx := buildIndex(b, docs, nil)
	q := parse(b, "distributed search ranking -query")

	for _, policy := range []execution.Policy{execution.Sequential, execution.Parallel()} {
		b.Run(policy.String(), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = TopK(Score(idx, q, StatusIs(index.StatusActual), policy, 0), DefaultLimit)
			}
		})
	}
}
