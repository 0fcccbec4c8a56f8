package models

import (
	"time"
)

// DocumentConfig is the metadata artifact persisted as config.json inside
// each document directory. It is the listing source of truth: content and
// comments are optional siblings.
type DocumentConfig struct {
	Title     string    `json:"title"`
	Icon      string    `json:"icon"`
	Tags      []string  `json:"tags"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DocumentSummary is a listing entry: the document id plus its metadata,
// without the content body or comments.
type DocumentSummary struct {
	ID string `json:"id"`
	DocumentConfig
}

// Document is a fully loaded document.
type Document struct {
	ID string `json:"id"`
	DocumentConfig
	Content  string    `json:"content"`
	Comments []Comment `json:"comments"`
}

// Comment belongs to exactly one document and is persisted with its
// siblings as a whole array in comments.json.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	Replies   []Reply   `json:"replies"`
}

type Reply struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary strips a document down to its listing form.
func (d *Document) Summary() *DocumentSummary {
	return &DocumentSummary{ID: d.ID, DocumentConfig: d.DocumentConfig}
}

// HasTag reports whether the document carries the given tag (exact match).
func (c *DocumentConfig) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
