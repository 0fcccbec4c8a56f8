package handler

import (
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"scriptory/internal/domain/services"
	"scriptory/internal/gitdocs"
	"scriptory/internal/httputil"
)

// GitHandler handles git status and documentation generation requests
type GitHandler struct {
	git        *gitdocs.Manager
	docService services.DocumentService
	logger     *slog.Logger
}

// NewGitHandler creates a new git handler
func NewGitHandler(git *gitdocs.Manager, docService services.DocumentService, logger *slog.Logger) *GitHandler {
	return &GitHandler{git: git, docService: docService, logger: logger}
}

// Status returns a snapshot of the working tree
// GET /api/git/status
func (h *GitHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.git.Status(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, status)
}

// Diff returns the working-tree diff for one path against HEAD
// GET /api/git/diff?path=
func (h *GitHandler) Diff(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		httputil.RespondError(w, http.StatusBadRequest, "query parameter path is required")
		return
	}

	diff, err := h.git.Diff(r.Context(), path)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "failed to read diff")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"path": path,
		"diff": diff,
	})
}

type generateDocsRequest struct {
	Files []string `json:"files"`
}

func (r generateDocsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Files, validation.Required, validation.Length(1, 0)),
	)
}

// GenerateDocs renders a change report and persists it as a document
// POST /api/git/generate-docs
func (h *GitHandler) GenerateDocs(w http.ResponseWriter, r *http.Request) {
	var req generateDocsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	generated, err := h.git.GenerateDocs(r.Context(), req.Files)
	if err != nil {
		handleError(w, err)
		return
	}

	doc, err := h.docService.CreateDocument(r.Context(), &services.CreateDocumentRequest{
		Title:   generated.Title,
		Content: generated.Content,
		Tags:    generated.Tags,
	})
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, doc)
}
