package repositories

import (
	"context"

	"scriptory/internal/domain/models"
)

// DocumentRepository is the sole owner of the per-document artifacts
// (config.json, content.mdx, comments.json). Callers compose these
// primitives; the service layer serializes multi-artifact sequences.
type DocumentRepository interface {
	// List returns summaries for every document directory, newest
	// updatedAt first. A corrupt or missing config.json yields a
	// synthesized summary instead of aborting the listing.
	List(ctx context.Context) ([]*models.DocumentSummary, error)

	// Exists reports whether a document directory with a readable
	// config exists.
	Exists(id string) bool

	// Get loads a full document. Missing or unparsable config.json is
	// domain.ErrNotFound; missing content or comments are soft and
	// default to empty.
	Get(ctx context.Context, id string) (*models.Document, error)

	// Create persists all three artifacts, metadata first.
	Create(ctx context.Context, doc *models.Document) error

	ReadConfig(ctx context.Context, id string) (*models.DocumentConfig, error)
	SaveConfig(ctx context.Context, id string, cfg *models.DocumentConfig) error

	ReadContent(ctx context.Context, id string) (string, error)
	WriteContent(ctx context.Context, id string, content string) error

	ReadComments(ctx context.Context, id string) ([]models.Comment, error)
	SaveComments(ctx context.Context, id string, comments []models.Comment) error

	// Delete removes the document directory subtree. Deleting an
	// unknown id is a no-op.
	Delete(ctx context.Context, id string) error
}
