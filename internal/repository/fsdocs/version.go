package fsdocs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"scriptory/internal/config"
	"scriptory/internal/domain"
	"scriptory/internal/domain/models"
	"scriptory/internal/domain/repositories"
)

const versionsDirName = ".versions"

// versionRepository persists snapshots under
// <root>/.versions/<doc-id>/<timestamp>.json. Timestamps are milliseconds
// since epoch, bumped past the newest existing key so keys stay strictly
// increasing within a document even when the clock stalls or steps back.
type versionRepository struct {
	root      string
	retention int
	logger    *slog.Logger
	now       func() time.Time
}

// NewVersionRepository creates a file-backed version log rooted at the
// docs dir, with the standard retention cap.
func NewVersionRepository(dir string, logger *slog.Logger) repositories.VersionRepository {
	return &versionRepository{
		root:      dir,
		retention: config.MaxVersionsPerDocument,
		logger:    logger,
		now:       time.Now,
	}
}

func (r *versionRepository) versionDir(docID string) string {
	return filepath.Join(r.root, versionsDirName, docID)
}

func (r *versionRepository) Record(ctx context.Context, docID, content, message string) (*models.Version, error) {
	if message == "" {
		message = "Auto-save"
	}

	now := r.now()
	ts := now.UnixMilli()
	// Keep keys strictly increasing per document: bump past the newest
	// existing key, never into a slot trim freed up. Reusing a freed old
	// slot would make a brand-new snapshot sort as the oldest and get
	// deleted by the next trim.
	if existing, err := r.timestamps(docID); err == nil && len(existing) > 0 {
		if newest := existing[len(existing)-1]; ts <= newest {
			ts = newest + 1
		}
	}

	v := &models.Version{
		Timestamp: ts,
		Content:   content,
		Message:   message,
		CreatedAt: now,
	}

	path := filepath.Join(r.versionDir(docID), strconv.FormatInt(v.Timestamp, 10)+".json")
	if err := writeJSONFile(path, v); err != nil {
		return nil, fmt.Errorf("%w: record version for %s: %v", domain.ErrStorage, docID, err)
	}

	r.trim(docID)
	return v, nil
}

// trim deletes all but the newest retention-count versions. Failures are
// logged, not propagated: retention is bookkeeping, never the critical
// path of a save.
func (r *versionRepository) trim(docID string) {
	timestamps, err := r.timestamps(docID)
	if err != nil || len(timestamps) <= r.retention {
		return
	}
	for _, ts := range timestamps[:len(timestamps)-r.retention] {
		path := filepath.Join(r.versionDir(docID), strconv.FormatInt(ts, 10)+".json")
		if err := os.Remove(path); err != nil {
			r.logger.Warn("failed to trim old version",
				"doc_id", docID,
				"timestamp", ts,
				"error", err,
			)
		}
	}
}

// timestamps returns a document's version keys, oldest first.
func (r *versionRepository) timestamps(docID string) ([]int64, error) {
	entries, err := os.ReadDir(r.versionDir(docID))
	if err != nil {
		return nil, err
	}
	timestamps := make([]int64, 0, len(entries))
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".json")
		ts, err := strconv.ParseInt(name, 10, 64)
		if err != nil {
			continue
		}
		timestamps = append(timestamps, ts)
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })
	return timestamps, nil
}

func (r *versionRepository) List(ctx context.Context, docID string) ([]*models.Version, error) {
	timestamps, err := r.timestamps(docID)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*models.Version{}, nil
		}
		return nil, fmt.Errorf("%w: list versions for %s: %v", domain.ErrStorage, docID, err)
	}

	versions := make([]*models.Version, 0, len(timestamps))
	for i := len(timestamps) - 1; i >= 0; i-- {
		v, err := r.Get(ctx, docID, timestamps[i])
		if err != nil {
			r.logger.Warn("skipping unreadable version",
				"doc_id", docID,
				"timestamp", timestamps[i],
				"error", err,
			)
			continue
		}
		versions = append(versions, v)
	}
	return versions, nil
}

func (r *versionRepository) Get(ctx context.Context, docID string, timestamp int64) (*models.Version, error) {
	path := filepath.Join(r.versionDir(docID), strconv.FormatInt(timestamp, 10)+".json")
	var v models.Version
	if err := readJSONFile(path, &v); err != nil {
		return nil, &domain.NotFoundError{
			Message: fmt.Sprintf("no version %d for document %q", timestamp, docID),
		}
	}
	return &v, nil
}

func (r *versionRepository) DeleteAll(ctx context.Context, docID string) error {
	if err := os.RemoveAll(r.versionDir(docID)); err != nil {
		return fmt.Errorf("%w: delete versions for %s: %v", domain.ErrStorage, docID, err)
	}
	return nil
}
