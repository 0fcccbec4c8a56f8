package search

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptory/internal/config"
	"scriptory/internal/domain/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".search-index.json")
	return NewEngine(path, testLogger())
}

func TestIndexDocumentAndSearch(t *testing.T) {
	e := newTestEngine(t)
	e.IndexDocument("api-guide", "API Guide", "rest api docs", []string{"api"}, "alice")
	e.IndexDocument("cooking", "Cooking Notes", "pasta recipes", nil, "bob")

	results := e.Search("api", models.SearchFilters{})
	require.Len(t, results, 1)
	assert.Equal(t, "api-guide", results[0].ID)
	// +10 title substring, +1 word set, +5 tag substring.
	assert.Equal(t, 16, results[0].Score)
}

func TestIndexDocumentIdempotent(t *testing.T) {
	e := newTestEngine(t)
	e.IndexDocument("guide", "API Guide", "rest api docs", []string{"api"}, "alice")
	first, ok := e.Entry("guide")
	require.True(t, ok)

	e.IndexDocument("guide", "API Guide", "rest api docs", []string{"api"}, "alice")
	second, ok := e.Entry("guide")
	require.True(t, ok)

	assert.Equal(t, first.Words, second.Words)
	assert.Equal(t, first.Tags, second.Tags)
	assert.Equal(t, first.Metadata.WordCount, second.Metadata.WordCount)
}

func TestSearchZeroScoreDropped(t *testing.T) {
	e := newTestEngine(t)
	e.IndexDocument("cooking", "Cooking Notes", "pasta recipes", nil, "")

	results := e.Search("kubernetes", models.SearchFilters{})
	assert.Empty(t, results)
}

func TestSearchOrdersByScore(t *testing.T) {
	e := newTestEngine(t)
	// Title match scores higher than a content-only match.
	e.IndexDocument("other", "Random Notes", "mentions api once", nil, "")
	e.IndexDocument("api-guide", "API Guide", "rest api docs", nil, "")

	results := e.Search("api", models.SearchFilters{})
	require.Len(t, results, 2)
	assert.Equal(t, "api-guide", results[0].ID)
	assert.Equal(t, "other", results[1].ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchInlineFilters(t *testing.T) {
	e := newTestEngine(t)
	e.IndexDocument("one", "Setup Guide", "install steps", []string{"setup"}, "alice")
	e.IndexDocument("two", "Setup Advanced", "install steps", []string{"ops"}, "bob")

	results := e.Search("setup tag:ops", models.SearchFilters{})
	require.Len(t, results, 1)
	assert.Equal(t, "two", results[0].ID)

	results = e.Search("setup author:alice", models.SearchFilters{})
	require.Len(t, results, 1)
	assert.Equal(t, "one", results[0].ID)
}

func TestSearchExplicitFilters(t *testing.T) {
	e := newTestEngine(t)
	e.IndexDocument("one", "Setup Guide", "install", []string{"Ops"}, "alice")

	// Tag filtering is case-insensitive.
	results := e.Search("setup", models.SearchFilters{Tag: "ops"})
	require.Len(t, results, 1)

	results = e.Search("setup", models.SearchFilters{Tag: "missing"})
	assert.Empty(t, results)
}

func TestReindexAllMatchesIncremental(t *testing.T) {
	e := newTestEngine(t)
	e.IndexDocument("a", "Alpha", "first doc", []string{"x"}, "")
	e.IndexDocument("b", "Beta", "second doc", []string{"y"}, "")

	incremental := e.Search("doc", models.SearchFilters{})

	e.ReindexAll([]IndexInput{
		{ID: "a", Title: "Alpha", Content: "first doc", Tags: []string{"x"}},
		{ID: "b", Title: "Beta", Content: "second doc", Tags: []string{"y"}},
	})
	rebuilt := e.Search("doc", models.SearchFilters{})

	require.Len(t, rebuilt, len(incremental))
	for i := range rebuilt {
		assert.Equal(t, incremental[i].ID, rebuilt[i].ID)
		assert.Equal(t, incremental[i].Score, rebuilt[i].Score)
	}
}

func TestRemoveDocument(t *testing.T) {
	e := newTestEngine(t)
	e.IndexDocument("a", "Alpha", "content", nil, "")
	e.RemoveDocument("a")

	_, ok := e.Entry("a")
	assert.False(t, ok)
	assert.Empty(t, e.Search("alpha", models.SearchFilters{}))
}

func TestSearchHistory(t *testing.T) {
	e := newTestEngine(t)
	e.IndexDocument("a", "Alpha", "content", nil, "")

	for i := 0; i < config.MaxSearchHistoryPersisted+10; i++ {
		e.Search("alpha", models.SearchFilters{})
	}

	history := e.History()
	assert.Len(t, history, config.MaxSearchHistoryReturned)
	assert.Equal(t, "alpha", history[0].Query)
	assert.Equal(t, 1, history[0].Results)

	e.mu.Lock()
	persisted := len(e.state.History)
	e.mu.Unlock()
	assert.Equal(t, config.MaxSearchHistoryPersisted, persisted)
}

func TestHistoryNewestFirst(t *testing.T) {
	e := newTestEngine(t)
	base := time.Now()
	i := 0
	e.now = func() time.Time {
		i++
		return base.Add(time.Duration(i) * time.Second)
	}

	e.Search("first", models.SearchFilters{})
	e.Search("second", models.SearchFilters{})

	history := e.History()
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Query)
	assert.Equal(t, "first", history[1].Query)
}

func TestSaveSearch(t *testing.T) {
	e := newTestEngine(t)
	e.SaveSearch("my-filter", "api tag:ops", models.SearchFilters{})
	e.SaveSearch("my-filter", "api tag:dev", models.SearchFilters{})

	saved := e.SavedSearches()
	require.Len(t, saved, 1)
	assert.Equal(t, "api tag:dev", saved["my-filter"].Query)
}

func TestEnginePersistsAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".search-index.json")

	e := NewEngine(path, testLogger())
	e.IndexDocument("a", "Alpha Guide", "content here", []string{"x"}, "alice")

	reloaded := NewEngine(path, testLogger())
	entry, ok := reloaded.Entry("a")
	require.True(t, ok)
	assert.Equal(t, "Alpha Guide", entry.Title)
	assert.Equal(t, "alice", entry.Metadata.Author)
}

func TestEngineCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".search-index.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	e := NewEngine(path, testLogger())
	assert.Empty(t, e.Search("anything", models.SearchFilters{}))
}
