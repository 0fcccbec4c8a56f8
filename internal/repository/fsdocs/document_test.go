package fsdocs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptory/internal/domain"
	"scriptory/internal/domain/models"
	"scriptory/internal/domain/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDocRepo(t *testing.T) (repositories.DocumentRepository, string) {
	t.Helper()
	dir := t.TempDir()
	return NewDocumentRepository(dir, testLogger()), dir
}

func testDoc(id, title string) *models.Document {
	now := time.Now()
	return &models.Document{
		ID: id,
		DocumentConfig: models.DocumentConfig{
			Title:     title,
			Icon:      DefaultIcon,
			Tags:      []string{"test"},
			CreatedAt: now,
			UpdatedAt: now,
		},
		Content:  "# " + title + "\n",
		Comments: []models.Comment{},
	}
}

func TestCreateAndGet(t *testing.T) {
	repo, dir := newTestDocRepo(t)
	ctx := context.Background()

	doc := testDoc("getting-started", "Getting Started")
	require.NoError(t, repo.Create(ctx, doc))

	// The three artifacts land as plain files.
	assert.FileExists(t, filepath.Join(dir, "getting-started", "config.json"))
	assert.FileExists(t, filepath.Join(dir, "getting-started", "content.mdx"))
	assert.FileExists(t, filepath.Join(dir, "getting-started", "comments.json"))

	got, err := repo.Get(ctx, "getting-started")
	require.NoError(t, err)
	assert.Equal(t, "Getting Started", got.Title)
	assert.Equal(t, doc.Content, got.Content)
	assert.Empty(t, got.Comments)
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
}

func TestGetNotFound(t *testing.T) {
	repo, _ := newTestDocRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetMissingContentDegradesToEmpty(t *testing.T) {
	repo, dir := newTestDocRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testDoc("guide", "Guide")))
	require.NoError(t, os.Remove(filepath.Join(dir, "guide", "content.mdx")))
	require.NoError(t, os.Remove(filepath.Join(dir, "guide", "comments.json")))

	got, err := repo.Get(ctx, "guide")
	require.NoError(t, err)
	assert.Empty(t, got.Content)
	assert.Empty(t, got.Comments)
}

func TestListOrderAndDotDirsSkipped(t *testing.T) {
	repo, dir := newTestDocRepo(t)
	ctx := context.Background()

	older := testDoc("older", "Older")
	older.UpdatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, testDoc("newer", "Newer")))

	// Derived stores live in dot-dirs and must not show up as documents.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".versions", "older"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".analytics"), 0o755))

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "newer", summaries[0].ID)
	assert.Equal(t, "older", summaries[1].ID)
}

func TestListEmptyRootMissing(t *testing.T) {
	repo := NewDocumentRepository(filepath.Join(t.TempDir(), "nope"), testLogger())

	summaries, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestListSynthesizesSummaryForCorruptConfig(t *testing.T) {
	repo, dir := newTestDocRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testDoc("good", "Good")))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "broken"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken", "config.json"), []byte("{oops"), 0o644))

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	var broken *models.DocumentSummary
	for _, s := range summaries {
		if s.ID == "broken" {
			broken = s
		}
	}
	require.NotNil(t, broken, "corrupt entry must still be listed")
	assert.Equal(t, "broken", broken.Title)
	assert.Equal(t, DefaultIcon, broken.Icon)
	assert.Empty(t, broken.Tags)
}

func TestExists(t *testing.T) {
	repo, _ := newTestDocRepo(t)
	ctx := context.Background()

	assert.False(t, repo.Exists("guide"))
	require.NoError(t, repo.Create(ctx, testDoc("guide", "Guide")))
	assert.True(t, repo.Exists("guide"))
}

func TestDeleteIdempotent(t *testing.T) {
	repo, dir := newTestDocRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testDoc("guide", "Guide")))
	require.NoError(t, repo.Delete(ctx, "guide"))
	assert.NoDirExists(t, filepath.Join(dir, "guide"))

	require.NoError(t, repo.Delete(ctx, "guide"), "deleting an unknown id succeeds")
}

func TestCommentsRoundtrip(t *testing.T) {
	repo, _ := newTestDocRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testDoc("guide", "Guide")))

	comments := []models.Comment{{
		ID:        "1700000000000",
		Text:      "Looks good",
		Author:    "alice",
		CreatedAt: time.Now(),
		Replies:   []models.Reply{},
	}}
	require.NoError(t, repo.SaveComments(ctx, "guide", comments))

	got, err := repo.ReadComments(ctx, "guide")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Looks good", got[0].Text)
}
