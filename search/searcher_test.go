package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/searchidx/core"
	"github.com/poiesic/searchidx/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestSearcher(t *testing.T, items ...core.IndexedItem) (*Searcher, *index.Store) {
	t.Helper()

	store, err := index.NewStore(index.DefaultConfig())
	require.NoError(t, err)
	for _, item := range items {
		store.AddItem(item)
	}

	searcher, err := NewSearcher(store, WithClock(fixedClock))
	require.NoError(t, err)
	return searcher, store
}

func resultIDs(results []core.SearchResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Item.ID
	}
	return ids
}

func TestNewSearcher(t *testing.T) {
	store, err := index.NewStore(index.DefaultConfig())
	require.NoError(t, err)

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(store)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(store, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := NewSearcher(nil)
		assert.Equal(t, ErrIndexRequired, err)
	})
}

func TestSearch_SingleTerm(t *testing.T) {
	searcher, _ := newTestSearcher(t, core.IndexedItem{
		ID:             "n1",
		Source:         core.SourceNote,
		Title:          "Meeting Notes",
		SearchableText: "Meeting Notes project alpha deadline",
		TimestampMs:    testNow.UnixMilli(),
	})

	results, err := searcher.Search(context.Background(), "meeting", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"n1"}, resultIDs(results))
}

func TestSearch_ANDSemantics(t *testing.T) {
	searcher, _ := newTestSearcher(t,
		core.IndexedItem{
			ID:             "n1",
			Source:         core.SourceNote,
			Title:          "Meeting Notes",
			SearchableText: "Meeting Notes project alpha deadline",
			TimestampMs:    testNow.UnixMilli(),
		},
		core.IndexedItem{
			ID:             "n2",
			Source:         core.SourceNote,
			Title:          "Review",
			SearchableText: "project beta review",
			TimestampMs:    testNow.UnixMilli(),
		},
	)

	ctx := context.Background()

	results, err := searcher.Search(ctx, "project", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"n1", "n2"}, resultIDs(results))

	results, err = searcher.Search(ctx, "project alpha", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"n1"}, resultIDs(results))

	// One absent term empties the whole result, even though "project"
	// matches both items.
	results, err = searcher.Search(ctx, "project nonexistent", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ForgetOnRemove(t *testing.T) {
	searcher, store := newTestSearcher(t, core.IndexedItem{
		ID:             "n1",
		Source:         core.SourceNote,
		SearchableText: "Meeting Notes project alpha deadline",
	})

	store.RemoveItem("n1")

	results, err := searcher.Search(context.Background(), "alpha", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_EmptyQuery(t *testing.T) {
	searcher, _ := newTestSearcher(t, core.IndexedItem{
		ID: "n1", Source: core.SourceNote, SearchableText: "alpha",
	})

	for _, query := range []string{"", "   ", "a of to", "!!!"} {
		results, err := searcher.Search(context.Background(), query, nil)
		require.NoError(t, err, "query %q", query)
		assert.Empty(t, results, "query %q", query)
	}
}

func TestSearch_SourceFilter(t *testing.T) {
	searcher, _ := newTestSearcher(t,
		core.IndexedItem{ID: "n1", Source: core.SourceNote, SearchableText: "budget planning"},
		core.IndexedItem{ID: "t1", Source: core.SourceTask, SearchableText: "budget review"},
		core.IndexedItem{ID: "e1", Source: core.SourceEvent, SearchableText: "budget meeting"},
	)

	results, err := searcher.Search(context.Background(), "budget", &Options{
		Sources: []core.SourceType{core.SourceTask, core.SourceEvent},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"t1", "e1"}, resultIDs(results))
}

func TestSearch_TitleMatchOutranksBodyMatch(t *testing.T) {
	searcher, _ := newTestSearcher(t,
		core.IndexedItem{
			ID:             "body",
			Source:         core.SourceNote,
			Title:          "Random",
			SearchableText: "Random budget discussion",
			TimestampMs:    testNow.UnixMilli(),
		},
		core.IndexedItem{
			ID:             "title",
			Source:         core.SourceNote,
			Title:          "Budget",
			SearchableText: "Budget overview",
			TimestampMs:    testNow.UnixMilli(),
		},
	)

	results, err := searcher.Search(context.Background(), "budget", nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "title", results[0].Item.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearch_RecencyBonus(t *testing.T) {
	searcher, _ := newTestSearcher(t,
		core.IndexedItem{
			ID:             "fresh",
			Source:         core.SourceNote,
			SearchableText: "status update",
			TimestampMs:    testNow.UnixMilli(),
		},
		core.IndexedItem{
			ID:             "stale",
			Source:         core.SourceNote,
			SearchableText: "status update",
			TimestampMs:    testNow.AddDate(0, 0, -30).UnixMilli(),
		},
	)

	results, err := searcher.Search(context.Background(), "status", nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "fresh", results[0].Item.ID)
	assert.InDelta(t, 10, results[0].Score-results[1].Score, 0.001, "fresh item gets the full recency bonus")
}

func TestSearch_TieBreakOrdering(t *testing.T) {
	// Same score, same timestamp: IDs break the tie ascending.
	searcher, _ := newTestSearcher(t,
		core.IndexedItem{ID: "b", Source: core.SourceNote, SearchableText: "shared term", TimestampMs: 1000},
		core.IndexedItem{ID: "a", Source: core.SourceNote, SearchableText: "shared term", TimestampMs: 1000},
		core.IndexedItem{ID: "c", Source: core.SourceNote, SearchableText: "shared term", TimestampMs: 2000},
	)

	results, err := searcher.Search(context.Background(), "shared", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, resultIDs(results))
}

func TestSearch_MaxResults(t *testing.T) {
	items := make([]core.IndexedItem, 10)
	for i := range items {
		items[i] = core.IndexedItem{
			ID:             fmt.Sprintf("n%02d", i),
			Source:         core.SourceNote,
			SearchableText: "common term",
			TimestampMs:    int64(i),
		}
	}
	searcher, _ := newTestSearcher(t, items...)

	results, err := searcher.Search(context.Background(), "common", &Options{MaxResults: 3})
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, []string{"n09", "n08", "n07"}, resultIDs(results))
}

func TestSearch_CancelledContext(t *testing.T) {
	searcher, _ := newTestSearcher(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := searcher.Search(ctx, "anything", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

type recordingMonitor struct {
	started    string
	terms      []string
	intersects []string
	finished   int
}

func (m *recordingMonitor) Start(query string)                  { m.started = query }
func (m *recordingMonitor) AfterTokenize(terms []string)        { m.terms = terms }
func (m *recordingMonitor) AfterIntersect(ids []string)         { m.intersects = ids }
func (m *recordingMonitor) TitleHit(_ *core.IndexedItem, _ int) {}
func (m *recordingMonitor) Finish(results []core.SearchResult)  { m.finished = len(results) }

func TestSearchWithMonitor(t *testing.T) {
	searcher, _ := newTestSearcher(t, core.IndexedItem{
		ID: "n1", Source: core.SourceNote, SearchableText: "alpha beta",
	})

	monitor := &recordingMonitor{}
	results, err := searcher.SearchWithMonitor(context.Background(), "alpha beta", nil, monitor)
	require.NoError(t, err)

	assert.Equal(t, "alpha beta", monitor.started)
	assert.Equal(t, []string{"alpha", "beta"}, monitor.terms)
	assert.Equal(t, []string{"n1"}, monitor.intersects)
	assert.Equal(t, len(results), monitor.finished)
}
