package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptory/internal/domain"
	"scriptory/internal/domain/services"
	"scriptory/internal/repository/fsdocs"
	"scriptory/internal/search"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) services.DocumentService {
	t.Helper()
	dir := t.TempDir()
	logger := testLogger()

	docRepo := fsdocs.NewDocumentRepository(dir, logger)
	versionRepo := fsdocs.NewVersionRepository(dir, logger)
	index := search.NewEngine(filepath.Join(dir, ".search-index.json"), logger)
	return NewDocumentService(docRepo, versionRepo, index, logger)
}

func strPtr(s string) *string      { return &s }
func tagsPtr(t []string) *[]string { return &t }

func TestCreateDocument(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, &services.CreateDocumentRequest{
		Title:   "Getting Started",
		Content: "# Welcome\n",
		Tags:    []string{"guide"},
	})
	require.NoError(t, err)
	assert.Equal(t, "getting-started", doc.ID)
	assert.Equal(t, "📄", doc.Icon, "default icon applied")
	assert.False(t, doc.Favorite)
	assert.True(t, doc.CreatedAt.Equal(doc.UpdatedAt))

	got, err := svc.GetDocument(ctx, "getting-started")
	require.NoError(t, err)
	assert.Equal(t, "# Welcome\n", got.Content)
}

func TestCreateDocumentValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateDocument(ctx, &services.CreateDocumentRequest{Title: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateDocument(ctx, &services.CreateDocumentRequest{Title: "!!!"})
	assert.ErrorIs(t, err, domain.ErrValidation, "title slugging to nothing is rejected")
}

func TestCreateDocumentConflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateDocument(ctx, &services.CreateDocumentRequest{Title: "My Doc"})
	require.NoError(t, err)

	// A different title slugging to the same id is still a conflict.
	_, err = svc.CreateDocument(ctx, &services.CreateDocumentRequest{Title: "My  Doc!"})
	var conflictErr *domain.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "my-doc", conflictErr.ResourceID)
}

func TestUpdateDocumentMergesFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, &services.CreateDocumentRequest{
		Title: "Guide",
		Icon:  "🚀",
		Tags:  []string{"a"},
	})
	require.NoError(t, err)

	err = svc.UpdateDocument(ctx, doc.ID, &services.UpdateDocumentRequest{
		Title: strPtr("Guide v2"),
		Tags:  tagsPtr([]string{"a", "b"}),
	})
	require.NoError(t, err)

	got, err := svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Guide v2", got.Title)
	assert.Equal(t, "🚀", got.Icon, "unspecified fields survive")
	assert.Equal(t, []string{"a", "b"}, got.Tags)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func TestUpdateDocumentNotFound(t *testing.T) {
	svc := newTestService(t)

	err := svc.UpdateDocument(context.Background(), "missing", &services.UpdateDocumentRequest{
		Title: strPtr("New"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateContentRecordsVersion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, &services.CreateDocumentRequest{Title: "Guide"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateDocument(ctx, doc.ID, &services.UpdateDocumentRequest{
		Content: strPtr("draft one"),
	}))
	require.NoError(t, svc.UpdateDocument(ctx, doc.ID, &services.UpdateDocumentRequest{
		Content: strPtr("draft two"),
	}))

	versions, err := svc.ListVersions(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "draft two", versions[0].Content)
	assert.Equal(t, "draft one", versions[1].Content)
}

func TestMetadataOnlyUpdateRecordsNoVersion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, &services.CreateDocumentRequest{Title: "Guide"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateDocument(ctx, doc.ID, &services.UpdateDocumentRequest{
		Title: strPtr("Renamed"),
	}))

	versions, err := svc.ListVersions(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestRestoreVersion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, &services.CreateDocumentRequest{Title: "Guide"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateDocument(ctx, doc.ID, &services.UpdateDocumentRequest{
		Content: strPtr("original"),
	}))
	require.NoError(t, svc.UpdateDocument(ctx, doc.ID, &services.UpdateDocumentRequest{
		Content: strPtr("rewritten"),
	}))

	versions, err := svc.ListVersions(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)

	content, err := svc.RestoreVersion(ctx, doc.ID, versions[1].Timestamp)
	require.NoError(t, err)
	assert.Equal(t, "original", content)

	got, err := svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Content)
}

func TestRestoreVersionNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, &services.CreateDocumentRequest{Title: "Guide"})
	require.NoError(t, err)

	_, err = svc.RestoreVersion(ctx, doc.ID, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteDocumentCascades(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, &services.CreateDocumentRequest{Title: "Guide"})
	require.NoError(t, err)
	require.NoError(t, svc.UpdateDocument(ctx, doc.ID, &services.UpdateDocumentRequest{
		Content: strPtr("draft"),
	}))

	require.NoError(t, svc.DeleteDocument(ctx, doc.ID))

	_, err = svc.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	versions, err := svc.ListVersions(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)

	require.NoError(t, svc.DeleteDocument(ctx, doc.ID), "repeat delete succeeds")
}

func TestToggleFavorite(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, &services.CreateDocumentRequest{Title: "Guide"})
	require.NoError(t, err)

	require.NoError(t, svc.ToggleFavorite(ctx, doc.ID))
	got, err := svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, got.Favorite)

	require.NoError(t, svc.ToggleFavorite(ctx, doc.ID))
	got, err = svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.False(t, got.Favorite)
}

func TestListDocumentsFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateDocument(ctx, &services.CreateDocumentRequest{
		Title: "API Guide", Tags: []string{"api"},
	})
	require.NoError(t, err)
	fav, err := svc.CreateDocument(ctx, &services.CreateDocumentRequest{
		Title: "Cooking Notes", Tags: []string{"fun"},
	})
	require.NoError(t, err)
	require.NoError(t, svc.ToggleFavorite(ctx, fav.ID))

	all, err := svc.ListDocuments(ctx, services.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byTag, err := svc.ListDocuments(ctx, services.ListFilter{Tag: "api"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "api-guide", byTag[0].ID)

	favorites, err := svc.ListDocuments(ctx, services.ListFilter{Favorites: true})
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "cooking-notes", favorites[0].ID)

	bySearch, err := svc.ListDocuments(ctx, services.ListFilter{Search: "cooking"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "cooking-notes", bySearch[0].ID)
}

func TestComments(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, &services.CreateDocumentRequest{Title: "Guide"})
	require.NoError(t, err)

	comment, err := svc.AddComment(ctx, doc.ID, &services.AddCommentRequest{
		Text: "Nice work", Author: "alice",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)

	got, err := svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)

	require.NoError(t, svc.DeleteComment(ctx, doc.ID, comment.ID))
	got, err = svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)

	require.NoError(t, svc.DeleteComment(ctx, doc.ID, "unknown"), "unknown comment id is a no-op")
}

func TestAddCommentValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.CreateDocument(ctx, &services.CreateDocumentRequest{Title: "Guide"})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, doc.ID, &services.AddCommentRequest{Text: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.AddComment(ctx, "missing", &services.AddCommentRequest{Text: "hi"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListTags(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateDocument(ctx, &services.CreateDocumentRequest{
		Title: "One", Tags: []string{"api", "guide"},
	})
	require.NoError(t, err)
	_, err = svc.CreateDocument(ctx, &services.CreateDocumentRequest{
		Title: "Two", Tags: []string{"api"},
	})
	require.NoError(t, err)

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	counts := make(map[string]int)
	for _, tag := range tags {
		counts[tag.Name] = tag.Count
	}
	assert.Equal(t, 2, counts["api"])
	assert.Equal(t, 1, counts["guide"])
}

func TestReindexAll(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateDocument(ctx, &services.CreateDocumentRequest{Title: "One"})
	require.NoError(t, err)
	_, err = svc.CreateDocument(ctx, &services.CreateDocumentRequest{Title: "Two"})
	require.NoError(t, err)

	count, err := svc.ReindexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestToggleFavoriteNotFound(t *testing.T) {
	svc := newTestService(t)
	err := svc.ToggleFavorite(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
