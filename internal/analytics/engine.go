package analytics

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"scriptory/internal/config"
	"scriptory/internal/domain/models"
)

const (
	viewsFile        = "views.json"
	editsFile        = "edits.json"
	contributorsFile = "contributors.json"
)

// Engine tracks usage counters derived from explicit tracking calls. It
// owns the three files under <docs-dir>/.analytics and nothing else; all
// aggregates are maintained incrementally on write and are consistent
// with the edit log.
type Engine struct {
	mu     sync.Mutex
	dir    string
	logger *slog.Logger
	now    func() time.Time

	views        map[string]*models.ViewStats
	edits        []models.EditEvent
	contributors map[string]*models.ContributorStats
}

// NewEngine loads analytics state from dir, starting empty for any file
// that is missing or corrupt. Tracking must never fail a caller, so load
// problems are soft.
func NewEngine(dir string, logger *slog.Logger) *Engine {
	e := &Engine{
		dir:          dir,
		logger:       logger,
		now:          time.Now,
		views:        make(map[string]*models.ViewStats),
		contributors: make(map[string]*models.ContributorStats),
	}
	e.loadFile(viewsFile, &e.views)
	e.loadFile(editsFile, &e.edits)
	e.loadFile(contributorsFile, &e.contributors)
	if e.views == nil {
		e.views = make(map[string]*models.ViewStats)
	}
	if e.contributors == nil {
		e.contributors = make(map[string]*models.ContributorStats)
	}
	return e
}

func (e *Engine) loadFile(name string, dest interface{}) {
	data, err := os.ReadFile(filepath.Join(e.dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			e.logger.Warn("cannot read analytics file, starting empty", "file", name, "error", err)
		}
		return
	}
	if err := json.Unmarshal(data, dest); err != nil {
		e.logger.Warn("corrupt analytics file, starting empty", "file", name, "error", err)
	}
}

// TrackView increments a document's view counter and appends to its
// bounded view history.
func (e *Engine) TrackView(docID, author, sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now().UnixMilli()
	stats, ok := e.views[docID]
	if !ok {
		stats = &models.ViewStats{FirstView: now}
		e.views[docID] = stats
	}
	stats.Count++
	stats.LastView = now
	stats.History = append(stats.History, models.ViewEvent{
		Timestamp: now,
		Author:    author,
		SessionID: sessionID,
	})
	if len(stats.History) > config.MaxViewHistoryPerDocument {
		stats.History = stats.History[len(stats.History)-config.MaxViewHistoryPerDocument:]
	}

	e.flushLocked(viewsFile, e.views)
}

// TrackEdit appends to the global edit log and folds the event into the
// author's contributor aggregate.
func (e *Engine) TrackEdit(docID, author string, changeSize int) {
	if author == "" {
		author = "Anonymous"
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now().UnixMilli()
	e.edits = append(e.edits, models.EditEvent{
		DocID:      docID,
		Author:     author,
		Timestamp:  now,
		ChangeSize: changeSize,
	})
	if len(e.edits) > config.MaxEditLogEntries {
		e.edits = e.edits[len(e.edits)-config.MaxEditLogEntries:]
	}

	contributor, ok := e.contributors[author]
	if !ok {
		contributor = &models.ContributorStats{Name: author, FirstEdit: now}
		e.contributors[author] = contributor
	}
	contributor.Edits++
	contributor.LastEdit = now
	if !contains(contributor.Documents, docID) {
		contributor.Documents = append(contributor.Documents, docID)
	}

	e.flushLocked(editsFile, e.edits)
	e.flushLocked(contributorsFile, e.contributors)
}

// Stats returns the global usage totals.
func (e *Engine) Stats() models.UsageStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	totalViews := 0
	for _, stats := range e.views {
		totalViews += stats.Count
	}
	docs := make(map[string]struct{})
	for _, edit := range e.edits {
		docs[edit.DocID] = struct{}{}
	}
	return models.UsageStats{
		TotalViews:        totalViews,
		TotalEdits:        len(e.edits),
		TotalContributors: len(e.contributors),
		UniqueDocuments:   len(docs),
	}
}

// MostViewed returns the top documents by view count.
func (e *Engine) MostViewed(limit int) []models.MostViewedEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := make([]models.MostViewedEntry, 0, len(e.views))
	for id, stats := range e.views {
		entries = append(entries, models.MostViewedEntry{
			ID:        id,
			Count:     stats.Count,
			FirstView: stats.FirstView,
			LastView:  stats.LastView,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].ID < entries[j].ID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Contributors returns per-author aggregates sorted by edit count.
func (e *Engine) Contributors() []models.ContributorStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.ContributorStats, 0, len(e.contributors))
	for _, contributor := range e.contributors {
		out = append(out, *contributor)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Edits != out[j].Edits {
			return out[i].Edits > out[j].Edits
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ActivityHeatmap buckets edit counts by UTC calendar day for exactly the
// trailing `days` days, today included, zero-filled.
func (e *Engine) ActivityHeatmap(days int) map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()

	heatmap := make(map[string]int, days)
	today := e.now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, -i)
		heatmap[day.Format("2006-01-02")] = 0
	}

	for _, edit := range e.edits {
		day := time.UnixMilli(edit.Timestamp).UTC().Format("2006-01-02")
		if _, ok := heatmap[day]; ok {
			heatmap[day]++
		}
	}
	return heatmap
}

// TimeToWrite summarizes edit timing for one document: nil until at least
// two edits are recorded.
func (e *Engine) TimeToWrite(docID string) *models.TimeToWrite {
	e.mu.Lock()
	defer e.mu.Unlock()

	var timestamps []int64
	for _, edit := range e.edits {
		if edit.DocID == docID {
			timestamps = append(timestamps, edit.Timestamp)
		}
	}
	if len(timestamps) < 2 {
		return nil
	}

	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })
	total := timestamps[len(timestamps)-1] - timestamps[0]
	return &models.TimeToWrite{
		TotalTime:       total,
		Edits:           len(timestamps),
		AverageInterval: total / int64(len(timestamps)-1),
	}
}

// Views returns a copy of the per-document view stats.
func (e *Engine) Views() map[string]models.ViewStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]models.ViewStats, len(e.views))
	for id, stats := range e.views {
		out[id] = *stats
	}
	return out
}

// flushLocked persists one analytics file. Failures are logged and
// swallowed: analytics bookkeeping never blocks the caller.
func (e *Engine) flushLocked(name string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err == nil {
		if err = os.MkdirAll(e.dir, 0o755); err == nil {
			err = os.WriteFile(filepath.Join(e.dir, name), data, 0o644)
		}
	}
	if err != nil {
		e.logger.Warn("failed to flush analytics file", "file", name, "error", err)
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
