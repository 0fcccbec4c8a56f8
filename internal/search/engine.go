package search

import (
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"scriptory/internal/config"
	"scriptory/internal/domain/models"
)

// Engine is the token-based inverted index over document titles, content
// and tags, with saved-search and query-history side tables. It is a
// derived cache, never a source of truth: it owns a single backing file
// and can be rebuilt wholesale from the document store at any time.
type Engine struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	state  indexState
	now    func() time.Time
}

// indexState is the on-disk shape of .search-index.json.
type indexState struct {
	Index   map[string]*models.SearchEntry `json:"index"`
	History []models.SearchHistoryEntry    `json:"history"`
	Saved   map[string]models.SavedSearch  `json:"saved"`
}

// NewEngine loads the index from its backing file. A missing or corrupt
// file starts the engine empty; the index is rebuildable, so that is a
// soft failure.
func NewEngine(path string, logger *slog.Logger) *Engine {
	e := &Engine{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
	e.state = indexState{
		Index: make(map[string]*models.SearchEntry),
		Saved: make(map[string]models.SavedSearch),
	}

	data, err := os.ReadFile(path)
	if err == nil {
		var loaded indexState
		if jsonErr := json.Unmarshal(data, &loaded); jsonErr != nil {
			logger.Warn("corrupt search index, starting empty", "path", path, "error", jsonErr)
		} else {
			if loaded.Index == nil {
				loaded.Index = make(map[string]*models.SearchEntry)
			}
			if loaded.Saved == nil {
				loaded.Saved = make(map[string]models.SavedSearch)
			}
			e.state = loaded
		}
	} else if !os.IsNotExist(err) {
		logger.Warn("cannot read search index, starting empty", "path", path, "error", err)
	}

	return e
}

// IndexDocument tokenizes title + content + tags and overwrites any prior
// entry for the id. Indexing the same inputs twice produces the same
// entry apart from the indexed timestamp.
func (e *Engine) IndexDocument(id, title, content string, tags []string, author string) {
	words := Tokenize(title + " " + content + " " + strings.Join(tags, " "))

	e.mu.Lock()
	defer e.mu.Unlock()

	if tags == nil {
		tags = []string{}
	}
	e.state.Index[id] = &models.SearchEntry{
		Title: title,
		Words: words,
		Tags:  tags,
		Metadata: models.SearchMetadata{
			Indexed:   e.now().UnixMilli(),
			WordCount: len(words),
			Author:    author,
		},
	}
	e.flushLocked()
}

// RemoveDocument drops a document's entry, if any. Called on document
// deletion; a stale entry is tolerable either way.
func (e *Engine) RemoveDocument(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.state.Index[id]; !ok {
		return
	}
	delete(e.state.Index, id)
	e.flushLocked()
}

// IndexInput is one document's indexable fields for a bulk rebuild.
type IndexInput struct {
	ID      string
	Title   string
	Content string
	Tags    []string
}

// ReindexAll rebuilds the whole index from scratch. The result is
// identical to indexing the documents one at a time.
func (e *Engine) ReindexAll(docs []IndexInput) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Index = make(map[string]*models.SearchEntry, len(docs))
	indexed := e.now().UnixMilli()
	for _, doc := range docs {
		tags := doc.Tags
		if tags == nil {
			tags = []string{}
		}
		words := Tokenize(doc.Title + " " + doc.Content + " " + strings.Join(tags, " "))
		e.state.Index[doc.ID] = &models.SearchEntry{
			Title: doc.Title,
			Words: words,
			Tags:  tags,
			Metadata: models.SearchMetadata{
				Indexed:   indexed,
				WordCount: len(words),
			},
		}
	}
	e.flushLocked()
	e.logger.Info("search index rebuilt", "documents", len(docs))
}

// Search runs a scored query. Inline `tag:` and `author:` terms are
// pulled out of the free-text portion before tokenizing. Per matched
// query token an entry scores +10 for a title substring, +1 for a token
// set hit and +5 for a tag substring; zero-score entries are dropped and
// results come back highest score first (stable). Every call is appended
// to the query history.
func (e *Engine) Search(query string, filters models.SearchFilters) []models.SearchResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	freeText, inline := extractInlineFilters(query)
	if inline.Tag != "" {
		filters.Tag = inline.Tag
	}
	if inline.Author != "" {
		filters.Author = inline.Author
	}
	tokens := Tokenize(freeText)

	// Deterministic encounter order for the stable sort.
	ids := make([]string, 0, len(e.state.Index))
	for id := range e.state.Index {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]models.SearchResult, 0)
	for _, id := range ids {
		entry := e.state.Index[id]
		if !matchesFilters(entry, filters) {
			continue
		}

		score := scoreEntry(entry, tokens)
		if score == 0 {
			continue
		}
		results = append(results, models.SearchResult{
			ID:          id,
			Score:       score,
			SearchEntry: *entry,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	e.recordHistoryLocked(query, filters, len(results))
	e.flushLocked()

	return results
}

func scoreEntry(entry *models.SearchEntry, tokens []string) int {
	titleLower := strings.ToLower(entry.Title)
	wordSet := make(map[string]struct{}, len(entry.Words))
	for _, w := range entry.Words {
		wordSet[w] = struct{}{}
	}

	score := 0
	for _, tok := range tokens {
		if strings.Contains(titleLower, tok) {
			score += 10
		}
		if _, ok := wordSet[tok]; ok {
			score++
		}
		for _, tag := range entry.Tags {
			if strings.Contains(strings.ToLower(tag), tok) {
				score += 5
				break
			}
		}
	}
	return score
}

func matchesFilters(entry *models.SearchEntry, filters models.SearchFilters) bool {
	if filters.Tag != "" {
		found := false
		for _, tag := range entry.Tags {
			if strings.EqualFold(tag, filters.Tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filters.Author != "" && entry.Metadata.Author != filters.Author {
		return false
	}
	if filters.From != 0 && entry.Metadata.Indexed < filters.From {
		return false
	}
	if filters.To != 0 && entry.Metadata.Indexed > filters.To {
		return false
	}
	return true
}

// extractInlineFilters splits `tag:<v>` and `author:<v>` terms out of the
// query, returning the remaining free text.
func extractInlineFilters(query string) (string, models.SearchFilters) {
	var filters models.SearchFilters
	var free []string
	for _, field := range strings.Fields(query) {
		switch {
		case strings.HasPrefix(field, "tag:"):
			filters.Tag = strings.TrimPrefix(field, "tag:")
		case strings.HasPrefix(field, "author:"):
			filters.Author = strings.TrimPrefix(field, "author:")
		default:
			free = append(free, field)
		}
	}
	return strings.Join(free, " "), filters
}

func (e *Engine) recordHistoryLocked(query string, filters models.SearchFilters, results int) {
	entry := models.SearchHistoryEntry{
		Query:     query,
		Filters:   filters,
		Results:   results,
		Timestamp: e.now().UnixMilli(),
	}
	e.state.History = append([]models.SearchHistoryEntry{entry}, e.state.History...)
	if len(e.state.History) > config.MaxSearchHistoryPersisted {
		e.state.History = e.state.History[:config.MaxSearchHistoryPersisted]
	}
}

// History returns recent queries, newest first.
func (e *Engine) History() []models.SearchHistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.state.History)
	if n > config.MaxSearchHistoryReturned {
		n = config.MaxSearchHistoryReturned
	}
	out := make([]models.SearchHistoryEntry, n)
	copy(out, e.state.History[:n])
	return out
}

// SaveSearch upserts a named query.
func (e *Engine) SaveSearch(name, query string, filters models.SearchFilters) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Saved[name] = models.SavedSearch{
		Name:    name,
		Query:   query,
		Filters: filters,
		SavedAt: e.now().UnixMilli(),
	}
	e.flushLocked()
}

// SavedSearches returns the full name → query mapping.
func (e *Engine) SavedSearches() map[string]models.SavedSearch {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]models.SavedSearch, len(e.state.Saved))
	for name, saved := range e.state.Saved {
		out[name] = saved
	}
	return out
}

// Entry returns the current index entry for a document id.
func (e *Engine) Entry(id string) (*models.SearchEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.state.Index[id]
	if !ok {
		return nil, false
	}
	cp := *entry
	return &cp, true
}

// flushLocked persists the index. Failures are logged and swallowed: the
// index is rebuildable and must never fail a caller's primary operation.
func (e *Engine) flushLocked() {
	data, err := json.MarshalIndent(&e.state, "", "  ")
	if err == nil {
		err = os.WriteFile(e.path, data, 0o644)
	}
	if err != nil {
		e.logger.Warn("failed to flush search index", "path", e.path, "error", err)
	}
}
