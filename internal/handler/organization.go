package handler

import (
	"log/slog"
	"net/http"

	"scriptory/internal/domain/services"
	"scriptory/internal/httputil"
	"scriptory/internal/organization"
)

// OrganizationHandler handles folder, pin, star and recency requests
type OrganizationHandler struct {
	store      *organization.Store
	docService services.DocumentService
	logger     *slog.Logger
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(store *organization.Store, docService services.DocumentService, logger *slog.Logger) *OrganizationHandler {
	return &OrganizationHandler{store: store, docService: docService, logger: logger}
}

// Collections returns the overlay with dangling document ids removed
// GET /api/collections
func (h *OrganizationHandler) Collections(w http.ResponseWriter, r *http.Request) {
	collections := h.store.Collections(h.docService.Exists)
	httputil.RespondJSON(w, http.StatusOK, collections)
}

type createFolderRequest struct {
	Name     string `json:"name"`
	ParentID string `json:"parentId"`
}

// CreateFolder adds a folder to the overlay
// POST /api/folders
func (h *OrganizationHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.store.CreateFolder(req.Name, req.ParentID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// AddToFolder puts a document into a folder, idempotently
// POST /api/folders/{folderId}/documents/{docId}
func (h *OrganizationHandler) AddToFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.store.AddToFolder(r.PathValue("folderId"), r.PathValue("docId")); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// PinDocument adds a document to the pinned set
// POST /api/pin/{id}
func (h *OrganizationHandler) PinDocument(w http.ResponseWriter, r *http.Request) {
	h.store.PinDocument(r.PathValue("id"))
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// StarDocument adds a document to the starred set
// POST /api/star/{id}
func (h *OrganizationHandler) StarDocument(w http.ResponseWriter, r *http.Request) {
	h.store.StarDocument(r.PathValue("id"))
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// TrackRecent moves a document to the front of the recently-viewed list
// POST /api/recent/{id}
func (h *OrganizationHandler) TrackRecent(w http.ResponseWriter, r *http.Request) {
	h.store.TrackRecentView(r.PathValue("id"))
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
