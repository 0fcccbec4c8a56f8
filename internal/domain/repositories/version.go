package repositories

import (
	"context"

	"scriptory/internal/domain/models"
)

// VersionRepository owns the .versions subtree: bounded, append-only
// content snapshots keyed by millisecond timestamp.
type VersionRepository interface {
	// Record appends a snapshot and trims the document's version set to
	// the retention cap, oldest first.
	Record(ctx context.Context, docID, content, message string) (*models.Version, error)

	// List returns versions newest first; a document with no recorded
	// versions yields an empty slice, not an error.
	List(ctx context.Context, docID string) ([]*models.Version, error)

	// Get returns the version at the exact timestamp, or
	// domain.ErrNotFound.
	Get(ctx context.Context, docID string, timestamp int64) (*models.Version, error)

	// DeleteAll removes a document's whole version subtree (cascade on
	// document deletion). Unknown ids are a no-op.
	DeleteAll(ctx context.Context, docID string) error
}
