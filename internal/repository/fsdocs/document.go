package fsdocs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"scriptory/internal/domain"
	"scriptory/internal/domain/models"
	"scriptory/internal/domain/repositories"
)

const (
	configFile   = "config.json"
	contentFile  = "content.mdx"
	commentsFile = "comments.json"

	// DefaultIcon is used when a document has none and when a summary
	// has to be synthesized for a corrupt entry.
	DefaultIcon = "📄"
)

// documentRepository stores each document as a directory of plain files
// under the docs root: config.json is authoritative metadata, content.mdx
// and comments.json are optional siblings.
type documentRepository struct {
	root   string
	logger *slog.Logger
}

// NewDocumentRepository creates a file-backed document repository rooted
// at dir. The directory is created lazily on first write.
func NewDocumentRepository(dir string, logger *slog.Logger) repositories.DocumentRepository {
	return &documentRepository{root: dir, logger: logger}
}

func (r *documentRepository) docDir(id string) string {
	return filepath.Join(r.root, id)
}

// List walks the docs root and returns one summary per document
// directory, newest updatedAt first. Dot-prefixed directories hold
// derived stores and are skipped. A directory whose config.json is
// missing or corrupt still shows up, with a synthesized summary, so one
// bad entry never hides the rest.
func (r *documentRepository) List(ctx context.Context) ([]*models.DocumentSummary, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*models.DocumentSummary{}, nil
		}
		return nil, fmt.Errorf("%w: list documents: %v", domain.ErrStorage, err)
	}

	summaries := make([]*models.DocumentSummary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name()[0] == '.' {
			continue
		}
		id := entry.Name()

		var cfg models.DocumentConfig
		if err := readJSONFile(filepath.Join(r.docDir(id), configFile), &cfg); err != nil {
			r.logger.Warn("unreadable document config, synthesizing summary",
				"id", id,
				"error", err,
			)
			now := time.Now()
			cfg = models.DocumentConfig{
				Title:     id,
				Icon:      DefaultIcon,
				Tags:      []string{},
				CreatedAt: now,
				UpdatedAt: now,
			}
		}
		if cfg.Tags == nil {
			cfg.Tags = []string{}
		}
		summaries = append(summaries, &models.DocumentSummary{ID: id, DocumentConfig: cfg})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

func (r *documentRepository) Exists(id string) bool {
	_, err := os.Stat(filepath.Join(r.docDir(id), configFile))
	return err == nil
}

// Get loads a full document. Only the metadata artifact is load-bearing:
// a missing or unparsable config.json is ErrNotFound, while missing
// content or comments degrade to empty values.
func (r *documentRepository) Get(ctx context.Context, id string) (*models.Document, error) {
	cfg, err := r.ReadConfig(ctx, id)
	if err != nil {
		return nil, err
	}

	content, err := r.ReadContent(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := r.ReadComments(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.Document{
		ID:             id,
		DocumentConfig: *cfg,
		Content:        content,
		Comments:       comments,
	}, nil
}

// Create writes the three artifacts metadata-first, so config.json stays
// the listing source of truth if a later write fails.
func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	dir := r.docDir(doc.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create document dir: %v", domain.ErrStorage, err)
	}

	if err := r.SaveConfig(ctx, doc.ID, &doc.DocumentConfig); err != nil {
		return err
	}
	if err := r.WriteContent(ctx, doc.ID, doc.Content); err != nil {
		return err
	}
	comments := doc.Comments
	if comments == nil {
		comments = []models.Comment{}
	}
	return r.SaveComments(ctx, doc.ID, comments)
}

func (r *documentRepository) ReadConfig(ctx context.Context, id string) (*models.DocumentConfig, error) {
	var cfg models.DocumentConfig
	if err := readJSONFile(filepath.Join(r.docDir(id), configFile), &cfg); err != nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("document %q not found", id)}
	}
	if cfg.Tags == nil {
		cfg.Tags = []string{}
	}
	return &cfg, nil
}

func (r *documentRepository) SaveConfig(ctx context.Context, id string, cfg *models.DocumentConfig) error {
	if err := writeJSONFile(filepath.Join(r.docDir(id), configFile), cfg); err != nil {
		return fmt.Errorf("%w: save config for %s: %v", domain.ErrStorage, id, err)
	}
	return nil
}

func (r *documentRepository) ReadContent(ctx context.Context, id string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.docDir(id), contentFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("%w: read content for %s: %v", domain.ErrStorage, id, err)
	}
	return string(data), nil
}

func (r *documentRepository) WriteContent(ctx context.Context, id string, content string) error {
	if err := os.WriteFile(filepath.Join(r.docDir(id), contentFile), []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: write content for %s: %v", domain.ErrStorage, id, err)
	}
	return nil
}

// ReadComments treats the comments artifact as soft: missing or corrupt
// files yield an empty list.
func (r *documentRepository) ReadComments(ctx context.Context, id string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := readJSONFile(filepath.Join(r.docDir(id), commentsFile), &comments); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("unreadable comments file, defaulting to empty",
				"id", id,
				"error", err,
			)
		}
		return []models.Comment{}, nil
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

func (r *documentRepository) SaveComments(ctx context.Context, id string, comments []models.Comment) error {
	if err := writeJSONFile(filepath.Join(r.docDir(id), commentsFile), comments); err != nil {
		return fmt.Errorf("%w: save comments for %s: %v", domain.ErrStorage, id, err)
	}
	return nil
}

// Delete removes the whole document subtree, best effort: deleting an id
// that does not exist succeeds.
func (r *documentRepository) Delete(ctx context.Context, id string) error {
	if err := os.RemoveAll(r.docDir(id)); err != nil {
		return fmt.Errorf("%w: delete document %s: %v", domain.ErrStorage, id, err)
	}
	return nil
}
