package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"scriptory/internal/domain/models"
	"scriptory/internal/domain/services"
	"scriptory/internal/httputil"
	"scriptory/internal/search"
)

// SearchHandler handles search HTTP requests
type SearchHandler struct {
	engine     *search.Engine
	docService services.DocumentService
	logger     *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(engine *search.Engine, docService services.DocumentService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{engine: engine, docService: docService, logger: logger}
}

// Search runs a scored query against the index
// GET /api/search?q=&tag=&author=&from=&to=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.RespondError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	filters := models.SearchFilters{
		Tag:    r.URL.Query().Get("tag"),
		Author: r.URL.Query().Get("author"),
	}
	filters.From = parseMillis(r.URL.Query().Get("from"))
	filters.To = parseMillis(r.URL.Query().Get("to"))

	results := h.engine.Search(query, filters)
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

func parseMillis(v string) int64 {
	if v == "" {
		return 0
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return ms
}

type indexDocumentRequest struct {
	Metadata struct {
		Author string `json:"author"`
	} `json:"metadata"`
}

// IndexDocument re-indexes a single document from the store. The optional
// body carries entry metadata, currently just the author attribution the
// author filter matches against.
// POST /api/search/index/{id}
func (h *SearchHandler) IndexDocument(w http.ResponseWriter, r *http.Request) {
	var req indexDocumentRequest
	// A body is optional.
	_ = httputil.ParseJSON(w, r, &req)

	if err := h.docService.IndexDocument(r.Context(), r.PathValue("id"), req.Metadata.Author); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Reindex rebuilds the whole index from the document store
// POST /api/search/reindex
func (h *SearchHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	count, err := h.docService.ReindexAll(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"documents": count,
	})
}

type saveSearchRequest struct {
	Name    string               `json:"name"`
	Query   string               `json:"query"`
	Filters models.SearchFilters `json:"filters"`
}

func (r saveSearchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Query, validation.Required),
	)
}

// SaveSearch upserts a named query
// POST /api/search/save
func (h *SearchHandler) SaveSearch(w http.ResponseWriter, r *http.Request) {
	var req saveSearchRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.engine.SaveSearch(req.Name, req.Query, req.Filters)
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// SavedSearches lists all saved queries
// GET /api/search/saved
func (h *SearchHandler) SavedSearches(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.engine.SavedSearches())
}

// History returns recent queries, newest first
// GET /api/search/history
func (h *SearchHandler) History(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.engine.History())
}
