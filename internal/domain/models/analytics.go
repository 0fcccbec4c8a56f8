package models

// ViewStats is the per-document record in views.json.
type ViewStats struct {
	Count     int         `json:"count"`
	History   []ViewEvent `json:"history"`
	FirstView int64       `json:"firstView"`
	LastView  int64       `json:"lastView"`
}

// ViewEvent is one entry of the bounded per-document view history.
type ViewEvent struct {
	Timestamp int64  `json:"timestamp"`
	Author    string `json:"author,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// EditEvent is one entry of the global append-only edit log (edits.json).
type EditEvent struct {
	DocID      string `json:"docId"`
	Author     string `json:"author"`
	Timestamp  int64  `json:"timestamp"`
	ChangeSize int    `json:"changeSize"`
}

// ContributorStats is the per-author aggregate in contributors.json,
// maintained incrementally from the edit log.
type ContributorStats struct {
	Name      string   `json:"name"`
	Edits     int      `json:"edits"`
	Documents []string `json:"documents"`
	FirstEdit int64    `json:"firstEdit"`
	LastEdit  int64    `json:"lastEdit"`
}

// MostViewedEntry pairs a document id with its view stats for ranking.
type MostViewedEntry struct {
	ID        string `json:"id"`
	Count     int    `json:"count"`
	FirstView int64  `json:"firstView"`
	LastView  int64  `json:"lastView"`
}

// TimeToWrite summarizes editing activity on one document. Requires at
// least two recorded edits; durations are in milliseconds.
type TimeToWrite struct {
	TotalTime       int64 `json:"totalTime"`
	Edits           int   `json:"edits"`
	AverageInterval int64 `json:"averageInterval"`
}

// UsageStats are the global analytics totals.
type UsageStats struct {
	TotalViews        int `json:"totalViews"`
	TotalEdits        int `json:"totalEdits"`
	TotalContributors int `json:"totalContributors"`
	UniqueDocuments   int `json:"uniqueDocuments"`
}
