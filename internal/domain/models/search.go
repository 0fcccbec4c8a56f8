package models

// SearchEntry is the per-document record of the inverted index. It is
// entirely derivable from the document and may go stale between index
// operations; reindexing overwrites it wholesale.
type SearchEntry struct {
	Title    string         `json:"title"`
	Words    []string       `json:"words"`
	Tags     []string       `json:"tags"`
	Metadata SearchMetadata `json:"metadata"`
}

type SearchMetadata struct {
	// Indexed is when the entry was (re)built, milliseconds since epoch.
	Indexed   int64  `json:"indexed"`
	WordCount int    `json:"wordCount"`
	Author    string `json:"author,omitempty"`
}

// SearchResult is a scored index entry returned from a query.
type SearchResult struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
	SearchEntry
}

// SearchFilters narrows a query beyond its free-text portion. Tag and
// Author may also arrive inline in the query string (tag:x, author:y).
type SearchFilters struct {
	Tag    string `json:"tag,omitempty"`
	Author string `json:"author,omitempty"`
	// From/To bound Metadata.Indexed, milliseconds since epoch.
	// Zero means unbounded.
	From int64 `json:"from,omitempty"`
	To   int64 `json:"to,omitempty"`
}

// SavedSearch is a named, reusable query.
type SavedSearch struct {
	Name    string        `json:"name"`
	Query   string        `json:"query"`
	Filters SearchFilters `json:"filters"`
	SavedAt int64         `json:"savedAt"`
}

// SearchHistoryEntry records one executed query.
type SearchHistoryEntry struct {
	Query     string        `json:"query"`
	Filters   SearchFilters `json:"filters"`
	Results   int           `json:"results"`
	Timestamp int64         `json:"timestamp"`
}
