package analytics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
)

var errBadQuery = errors.New("bad query")

// fakeFinder returns one document per query unless the query is "empty",
// and fails for queries starting with "!".
type fakeFinder struct {
	lastPred ranker.Predicate
}

func (f *fakeFinder) FindTopDocumentsFunc(rawQuery string, pred ranker.Predicate) ([]index.Document, error) {
	f.lastPred = pred
	if strings.HasPrefix(rawQuery, "!") {
		return nil, errBadQuery
	}
	if rawQuery == "empty" {
		return []index.Document{}, nil
	}
	return []index.Document{{ID: 1, Relevance: 0.5, Rating: 3}}, nil
}

func TestRequestQueueWindow(t *testing.T) {
	ctx := context.Background()
	q := NewRequestQueue(&fakeFinder{}, 0, nil)

	for i := 0; i < DefaultWindow-1; i++ {
		_, err := q.AddFindRequest(ctx, "empty")
		require.NoError(t, err)
	}
	assert.Equal(t, DefaultWindow-1, q.NoResultRequests())

	_, err := q.AddFindRequest(ctx, "curly dog")
	require.NoError(t, err)
	assert.Equal(t, DefaultWindow-1, q.NoResultRequests())

	_, err = q.AddFindRequest(ctx, "big collar")
	require.NoError(t, err)
	assert.Equal(t, DefaultWindow-2, q.NoResultRequests())

	_, err = q.AddFindRequest(ctx, "sparrow")
	require.NoError(t, err)
	assert.Equal(t, DefaultWindow-3, q.NoResultRequests())
	assert.Equal(t, DefaultWindow, q.Stats().Requests)
}

func TestRequestQueueSmallWindow(t *testing.T) {
	ctx := context.Background()
	q := NewRequestQueue(&fakeFinder{}, 2, nil)

	q.AddFindRequest(ctx, "empty")
	q.AddFindRequest(ctx, "empty")
	assert.Equal(t, 2, q.NoResultRequests())

	q.AddFindRequest(ctx, "cat")
	assert.Equal(t, 1, q.NoResultRequests())
	q.AddFindRequest(ctx, "cat")
	assert.Equal(t, 0, q.NoResultRequests())
}

func TestRequestQueueErrorDoesNotTick(t *testing.T) {
	ctx := context.Background()
	q := NewRequestQueue(&fakeFinder{}, 0, nil)

	_, err := q.AddFindRequest(ctx, "!broken")
	assert.ErrorIs(t, err, errBadQuery)
	assert.Equal(t, uint64(0), q.Stats().TotalRequests)
	assert.Equal(t, 0, q.NoResultRequests())
}

func TestRequestQueueStatusPredicate(t *testing.T) {
	f := &fakeFinder{}
	q := NewRequestQueue(f, 0, nil)

	_, err := q.AddFindRequestStatus(context.Background(), "cat", index.StatusBanned)
	require.NoError(t, err)
	require.NotNil(t, f.lastPred)
	assert.True(t, f.lastPred(1, index.StatusBanned, 0))
	assert.False(t, f.lastPred(1, index.StatusActual, 0))

	_, err = q.AddFindRequest(context.Background(), "cat")
	require.NoError(t, err)
	assert.True(t, f.lastPred(1, index.StatusActual, 0))
}

func TestRequestQueueStatsAndMetrics(t *testing.T) {
	m := metrics.New("test")
	q := NewRequestQueue(&fakeFinder{}, 0, m)
	ctx := logger.WithRequestID(context.Background(), "req-1")

	q.AddFindRequest(ctx, "empty")
	q.AddFindRequest(ctx, "empty")
	q.AddFindRequest(ctx, "cat")

	stats := q.Stats()
	assert.Equal(t, 3, stats.Requests)
	assert.Equal(t, 2, stats.NoResultRequests)
	require.NotEmpty(t, stats.TopQueries)
	assert.Equal(t, QueryCount{Query: "empty", Count: 2}, stats.TopQueries[0])
	assert.Equal(t, []QueryCount{{Query: "empty", Count: 2}}, stats.ZeroResultQueries)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.NoResultRequests))
}
