package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"scriptory/internal/domain"
	"scriptory/internal/domain/models"
	"scriptory/internal/domain/services"
	"scriptory/internal/httputil"
	"scriptory/internal/utils"
	"scriptory/internal/webhook"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService services.DocumentService
	webhooks   *webhook.Manager
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler. webhooks may be nil
// when no notification fan-out is wanted.
func NewDocumentHandler(docService services.DocumentService, webhooks *webhook.Manager, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{docService: docService, webhooks: webhooks, logger: logger}
}

func (h *DocumentHandler) notify(event string, data interface{}) {
	if h.webhooks != nil {
		h.webhooks.Trigger(event, data)
	}
}

// ListDocuments lists document summaries, optionally filtered
// GET /api/documents?tag=&favorites=&search=
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	filter := services.ListFilter{
		Tag:       r.URL.Query().Get("tag"),
		Favorites: r.URL.Query().Get("favorites") == "true",
		Search:    r.URL.Query().Get("search"),
	}

	summaries, err := h.docService.ListDocuments(r.Context(), filter)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, summaries)
}

// GetDocument retrieves a document with content and comments
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docService.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// CreateDocument creates a new document
// POST /api/documents
// Returns 201 if created, 409 with the existing document on id collision
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req services.CreateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.docService.CreateDocument(r.Context(), &req)
	if err != nil {
		HandleCreateConflict(w, err, func() (*models.Document, error) {
			var conflictErr *domain.ConflictError
			if errors.As(err, &conflictErr) {
				return h.docService.GetDocument(r.Context(), conflictErr.ResourceID)
			}
			return nil, err
		})
		return
	}

	h.notify("document.created", doc.Summary())
	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// UpdateDocument applies a partial update
// PUT /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	if err := h.docService.UpdateDocument(r.Context(), id, &req); err != nil {
		handleError(w, err)
		return
	}
	h.notify("document.updated", map[string]string{"id": id})
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteDocument removes a document and its history
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.docService.DeleteDocument(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	h.notify("document.deleted", map[string]string{"id": id})
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ToggleFavorite flips the favorite flag
// POST /api/documents/{id}/toggle-favorite
func (h *DocumentHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.docService.ToggleFavorite(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListVersions returns a document's snapshots, newest first
// GET /api/documents/{id}/versions
func (h *DocumentHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.docService.ListVersions(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, versions)
}

// RestoreVersion writes a snapshot back as the live content
// POST /api/documents/{id}/restore/{timestamp}
func (h *DocumentHandler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	timestamp, err := strconv.ParseInt(r.PathValue("timestamp"), 10, 64)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid version timestamp")
		return
	}

	content, err := h.docService.RestoreVersion(r.Context(), r.PathValue("id"), timestamp)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"content": content,
	})
}

// AddComment appends a comment to a document
// POST /api/documents/{id}/comments
func (h *DocumentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req services.AddCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.docService.AddComment(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, comment)
}

// DeleteComment removes a comment by id
// DELETE /api/documents/{id}/comments/{commentId}
func (h *DocumentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.docService.DeleteComment(r.Context(), r.PathValue("id"), r.PathValue("commentId")); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListTags aggregates tag usage across all documents
// GET /api/tags
func (h *DocumentHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.docService.ListTags(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, tags)
}

// Recent returns the most recently updated documents
// GET /api/recent?limit=
func (h *DocumentHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	summaries, err := h.docService.ListDocuments(r.Context(), services.ListFilter{})
	if err != nil {
		handleError(w, err)
		return
	}
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	httputil.RespondJSON(w, http.StatusOK, summaries)
}

// ExportDocument renders a document as markdown with YAML frontmatter
// GET /api/documents/{id}/export
func (h *DocumentHandler) ExportDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docService.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	rendered, err := utils.RenderFrontmatter(&utils.Frontmatter{
		Title: doc.Title,
		Icon:  doc.Icon,
		Tags:  doc.Tags,
	}, doc.Content)
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+doc.ID+".md\"")
	w.WriteHeader(http.StatusOK)
	w.Write(rendered)
}

// ImportDocument creates a document from a markdown file with YAML
// frontmatter
// POST /api/import
func (h *DocumentHandler) ImportDocument(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 10<<20))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	fm, content, err := utils.ParseFrontmatter(body)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.docService.CreateDocument(r.Context(), &services.CreateDocumentRequest{
		Title:   fm.Title,
		Icon:    fm.Icon,
		Content: content,
		Tags:    fm.Tags,
	})
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// HealthCheck is a simple health check endpoint
// GET /api/health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}
