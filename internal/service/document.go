package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"scriptory/internal/config"
	"scriptory/internal/domain"
	"scriptory/internal/domain/models"
	"scriptory/internal/domain/repositories"
	"scriptory/internal/domain/services"
	"scriptory/internal/search"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// documentService implements the DocumentService interface
type documentService struct {
	docRepo     repositories.DocumentRepository
	versionRepo repositories.VersionRepository
	index       *search.Engine
	locks       *lockArena
	logger      *slog.Logger
	now         func() time.Time
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	versionRepo repositories.VersionRepository,
	index *search.Engine,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:     docRepo,
		versionRepo: versionRepo,
		index:       index,
		locks:       newLockArena(),
		logger:      logger,
		now:         time.Now,
	}
}

// ListDocuments returns filtered summaries, newest updatedAt first. The
// filters compose; each one only narrows the result.
func (s *documentService) ListDocuments(ctx context.Context, filter services.ListFilter) ([]*models.DocumentSummary, error) {
	summaries, err := s.docRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.DocumentSummary, 0, len(summaries))
	query := strings.ToLower(filter.Search)
	for _, summary := range summaries {
		if filter.Tag != "" && !summary.HasTag(filter.Tag) {
			continue
		}
		if filter.Favorites && !summary.Favorite {
			continue
		}
		if query != "" && !matchesQuery(summary, query) {
			continue
		}
		filtered = append(filtered, summary)
	}
	return filtered, nil
}

func matchesQuery(summary *models.DocumentSummary, query string) bool {
	if strings.Contains(strings.ToLower(summary.Title), query) {
		return true
	}
	for _, tag := range summary.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func (s *documentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return s.docRepo.Get(ctx, id)
}

// CreateDocument derives the id from the title and persists the three
// artifacts. A title slugging to an already-existing id is a conflict,
// not an overwrite.
func (s *documentService) CreateDocument(ctx context.Context, req *services.CreateDocumentRequest) (*models.Document, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	id := Slugify(req.Title)
	if id == "" {
		return nil, fmt.Errorf("%w: title %q yields an empty id", domain.ErrValidation, req.Title)
	}

	unlock := s.locks.acquire(id)
	defer unlock()

	if s.docRepo.Exists(id) {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("document %q already exists", id),
			ResourceType: "document",
			ResourceID:   id,
		}
	}

	icon := req.Icon
	if icon == "" {
		icon = "📄"
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	now := s.now()
	doc := &models.Document{
		ID: id,
		DocumentConfig: models.DocumentConfig{
			Title:     req.Title,
			Icon:      icon,
			Tags:      tags,
			Favorite:  false,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Content:  req.Content,
		Comments: []models.Comment{},
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.index.IndexDocument(doc.ID, doc.Title, doc.Content, doc.Tags, "")

	s.logger.Info("document created",
		"id", doc.ID,
		"title", doc.Title,
		"tags", len(doc.Tags),
	)
	return doc, nil
}

// UpdateDocument merges the supplied fields into the existing config and
// refreshes updatedAt. A content update overwrites the content artifact
// and records a version snapshot; snapshot failures are logged and
// swallowed so history bookkeeping never fails a save.
func (s *documentService) UpdateDocument(ctx context.Context, id string, req *services.UpdateDocumentRequest) error {
	if err := s.validateUpdateRequest(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	unlock := s.locks.acquire(id)
	defer unlock()

	cfg, err := s.docRepo.ReadConfig(ctx, id)
	if err != nil {
		return err
	}

	if req.Title != nil {
		cfg.Title = *req.Title
	}
	if req.Icon != nil {
		cfg.Icon = *req.Icon
	}
	if req.Tags != nil {
		cfg.Tags = *req.Tags
	}
	if req.Favorite != nil {
		cfg.Favorite = *req.Favorite
	}
	cfg.UpdatedAt = s.now()

	if err := s.docRepo.SaveConfig(ctx, id, cfg); err != nil {
		return err
	}

	if req.Content != nil {
		if err := s.docRepo.WriteContent(ctx, id, *req.Content); err != nil {
			return err
		}
		if _, err := s.versionRepo.Record(ctx, id, *req.Content, ""); err != nil {
			s.logger.Warn("failed to record version", "id", id, "error", err)
		}
	}

	content := ""
	if req.Content != nil {
		content = *req.Content
	} else if existing, err := s.docRepo.ReadContent(ctx, id); err == nil {
		content = existing
	}
	s.index.IndexDocument(id, cfg.Title, content, cfg.Tags, "")

	s.logger.Info("document updated",
		"id", id,
		"content_changed", req.Content != nil,
	)
	return nil
}

// DeleteDocument removes the document subtree and cascades to its version
// history. Deleting an unknown id succeeds: best-effort cleanup.
func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	unlock := s.locks.acquire(id)
	defer unlock()

	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.versionRepo.DeleteAll(ctx, id); err != nil {
		s.logger.Warn("failed to delete version history", "id", id, "error", err)
	}
	s.index.RemoveDocument(id)

	s.logger.Info("document deleted", "id", id)
	return nil
}

func (s *documentService) ToggleFavorite(ctx context.Context, id string) error {
	unlock := s.locks.acquire(id)
	defer unlock()

	cfg, err := s.docRepo.ReadConfig(ctx, id)
	if err != nil {
		return err
	}
	cfg.Favorite = !cfg.Favorite
	cfg.UpdatedAt = s.now()
	return s.docRepo.SaveConfig(ctx, id, cfg)
}

func (s *documentService) ListVersions(ctx context.Context, id string) ([]*models.Version, error) {
	return s.versionRepo.List(ctx, id)
}

// RestoreVersion writes the snapshot's content back as the live content
// artifact. The version log itself never mutates live content, so the
// write happens here.
func (s *documentService) RestoreVersion(ctx context.Context, id string, timestamp int64) (string, error) {
	unlock := s.locks.acquire(id)
	defer unlock()

	version, err := s.versionRepo.Get(ctx, id, timestamp)
	if err != nil {
		return "", err
	}
	if err := s.docRepo.WriteContent(ctx, id, version.Content); err != nil {
		return "", err
	}

	if cfg, err := s.docRepo.ReadConfig(ctx, id); err == nil {
		s.index.IndexDocument(id, cfg.Title, version.Content, cfg.Tags, "")
	}

	s.logger.Info("version restored", "id", id, "timestamp", timestamp)
	return version.Content, nil
}

// AddComment appends a comment; comment ids are creation-timestamp
// strings, like the rest of the timestamp-keyed artifacts.
func (s *documentService) AddComment(ctx context.Context, id string, req *services.AddCommentRequest) (*models.Comment, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Text, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	unlock := s.locks.acquire(id)
	defer unlock()

	if !s.docRepo.Exists(id) {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("document %q not found", id)}
	}

	comments, err := s.docRepo.ReadComments(ctx, id)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:        strconv.FormatInt(s.now().UnixMilli(), 10),
		Text:      req.Text,
		Author:    req.Author,
		CreatedAt: s.now(),
		Replies:   []models.Reply{},
	}
	comments = append(comments, comment)

	if err := s.docRepo.SaveComments(ctx, id, comments); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment filters the comment out and rewrites the array. Unknown
// comment ids are a no-op success.
func (s *documentService) DeleteComment(ctx context.Context, id, commentID string) error {
	unlock := s.locks.acquire(id)
	defer unlock()

	if !s.docRepo.Exists(id) {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %q not found", id)}
	}

	comments, err := s.docRepo.ReadComments(ctx, id)
	if err != nil {
		return err
	}

	kept := make([]models.Comment, 0, len(comments))
	for _, comment := range comments {
		if comment.ID != commentID {
			kept = append(kept, comment)
		}
	}
	return s.docRepo.SaveComments(ctx, id, kept)
}

// IndexDocument refreshes a single document's search index entry from the
// live artifacts, attributing it to author when one is supplied.
func (s *documentService) IndexDocument(ctx context.Context, id, author string) error {
	doc, err := s.docRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	s.index.IndexDocument(doc.ID, doc.Title, doc.Content, doc.Tags, author)
	return nil
}

// ReindexAll rebuilds the search index from the document store.
func (s *documentService) ReindexAll(ctx context.Context) (int, error) {
	summaries, err := s.docRepo.List(ctx)
	if err != nil {
		return 0, err
	}

	inputs := make([]search.IndexInput, 0, len(summaries))
	for _, summary := range summaries {
		content, err := s.docRepo.ReadContent(ctx, summary.ID)
		if err != nil {
			s.logger.Warn("skipping unreadable content during reindex", "id", summary.ID, "error", err)
			content = ""
		}
		inputs = append(inputs, search.IndexInput{
			ID:      summary.ID,
			Title:   summary.Title,
			Content: content,
			Tags:    summary.Tags,
		})
	}
	s.index.ReindexAll(inputs)
	return len(inputs), nil
}

// ListTags aggregates tag usage across all documents.
func (s *documentService) ListTags(ctx context.Context) ([]services.TagCount, error) {
	summaries, err := s.docRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	var order []string
	for _, summary := range summaries {
		for _, tag := range summary.Tags {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	tags := make([]services.TagCount, 0, len(order))
	for _, tag := range order {
		tags = append(tags, services.TagCount{Name: tag, Count: counts[tag]})
	}
	return tags, nil
}

func (s *documentService) Exists(id string) bool {
	return s.docRepo.Exists(id)
}

func (s *documentService) validateCreateRequest(req *services.CreateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxTitleLength),
		),
		validation.Field(&req.Icon, validation.Length(0, config.MaxIconLength)),
	)
}

func (s *documentService) validateUpdateRequest(req *services.UpdateDocumentRequest) error {
	if req.Title != nil {
		if err := validation.Validate(*req.Title,
			validation.Required,
			validation.Length(1, config.MaxTitleLength),
		); err != nil {
			return fmt.Errorf("title: %v", err)
		}
	}
	if req.Icon != nil {
		if err := validation.Validate(*req.Icon, validation.Length(0, config.MaxIconLength)); err != nil {
			return fmt.Errorf("icon: %v", err)
		}
	}
	return nil
}
