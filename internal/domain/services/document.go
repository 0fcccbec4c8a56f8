package services

import (
	"context"

	"scriptory/internal/domain/models"
)

// DocumentService handles document business logic: slug derivation,
// validation, version bookkeeping and search index refresh around the
// raw repository operations.
type DocumentService interface {
	// ListDocuments returns filtered summaries, newest updatedAt first.
	ListDocuments(ctx context.Context, filter ListFilter) ([]*models.DocumentSummary, error)

	// GetDocument loads a full document, content and comments included.
	GetDocument(ctx context.Context, id string) (*models.Document, error)

	// CreateDocument derives the id from the title and persists the new
	// document. Colliding ids fail with domain.ErrConflict.
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*models.Document, error)

	// UpdateDocument merges any supplied fields into the document.
	// Supplying content also records a version snapshot.
	UpdateDocument(ctx context.Context, id string, req *UpdateDocumentRequest) error

	// DeleteDocument removes the document and its version history.
	// Unknown ids are a no-op.
	DeleteDocument(ctx context.Context, id string) error

	// ToggleFavorite flips the favorite flag and refreshes updatedAt.
	ToggleFavorite(ctx context.Context, id string) error

	// ListVersions returns the document's snapshots, newest first.
	ListVersions(ctx context.Context, id string) ([]*models.Version, error)

	// RestoreVersion writes a snapshot's content back as the live
	// content artifact and returns it.
	RestoreVersion(ctx context.Context, id string, timestamp int64) (string, error)

	// AddComment appends a comment to the document.
	AddComment(ctx context.Context, id string, req *AddCommentRequest) (*models.Comment, error)

	// DeleteComment removes a comment by id; unknown comment ids are a
	// no-op.
	DeleteComment(ctx context.Context, id, commentID string) error

	// IndexDocument refreshes one document's search index entry. author
	// is optional attribution stored in the entry metadata; it feeds the
	// author search filter.
	IndexDocument(ctx context.Context, id, author string) error

	// ReindexAll rebuilds the search index from the document store and
	// returns the number of documents indexed.
	ReindexAll(ctx context.Context) (int, error)

	// ListTags aggregates tag usage across all documents.
	ListTags(ctx context.Context) ([]TagCount, error)

	// Exists reports whether a document id is live. Used by readers of
	// the weak-reference stores to filter dangling ids.
	Exists(id string) bool
}

// ListFilter narrows a document listing. Filters compose.
type ListFilter struct {
	Tag       string // exact tag membership
	Favorites bool   // only favorite documents
	Search    string // case-insensitive substring on title or tags
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	Title   string   `json:"title"`
	Icon    string   `json:"icon"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// UpdateDocumentRequest represents a partial document update: nil fields
// are left unchanged.
type UpdateDocumentRequest struct {
	Title    *string   `json:"title,omitempty"`
	Icon     *string   `json:"icon,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	Favorite *bool     `json:"favorite,omitempty"`
	Content  *string   `json:"content,omitempty"`
}

// AddCommentRequest represents a new comment on a document.
type AddCommentRequest struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// TagCount is one entry of the tag usage aggregation.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
