package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"scriptory/internal/analytics"
	"scriptory/internal/httputil"
	"scriptory/internal/organization"
)

// AnalyticsHandler handles usage tracking and reporting requests
type AnalyticsHandler struct {
	engine *analytics.Engine
	org    *organization.Store
	logger *slog.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(engine *analytics.Engine, org *organization.Store, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{engine: engine, org: org, logger: logger}
}

type trackViewRequest struct {
	Author    string `json:"author"`
	SessionID string `json:"sessionId"`
}

// TrackView records one view of a document and refreshes its recency
// POST /api/analytics/track-view/{id}
func (h *AnalyticsHandler) TrackView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req trackViewRequest
	// A body is optional for view tracking.
	_ = httputil.ParseJSON(w, r, &req)

	h.engine.TrackView(id, req.Author, req.SessionID)
	h.org.TrackRecentView(id)
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type trackEditRequest struct {
	Author     string `json:"author"`
	ChangeSize int    `json:"changeSize"`
}

// TrackEdit records one edit event
// POST /api/analytics/track-edit/{id}
func (h *AnalyticsHandler) TrackEdit(w http.ResponseWriter, r *http.Request) {
	var req trackEditRequest
	_ = httputil.ParseJSON(w, r, &req)

	h.engine.TrackEdit(r.PathValue("id"), req.Author, req.ChangeSize)
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Stats returns the global usage totals
// GET /api/analytics/stats
func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.engine.Stats())
}

// MostViewed returns the top documents by view count
// GET /api/analytics/most-viewed?limit=
func (h *AnalyticsHandler) MostViewed(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	httputil.RespondJSON(w, http.StatusOK, h.engine.MostViewed(limit))
}

// Contributors returns per-author aggregates sorted by edit count
// GET /api/analytics/contributors
func (h *AnalyticsHandler) Contributors(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.engine.Contributors())
}

// Heatmap returns edit counts bucketed by UTC calendar day
// GET /api/analytics/heatmap?days=
func (h *AnalyticsHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			days = parsed
		}
	}
	httputil.RespondJSON(w, http.StatusOK, h.engine.ActivityHeatmap(days))
}

// TimeToWrite summarizes edit timing for one document
// GET /api/analytics/time-to-write/{id}
func (h *AnalyticsHandler) TimeToWrite(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.TimeToWrite(r.PathValue("id"))
	if stats == nil {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{
			"message": "not enough edit data yet",
		})
		return
	}
	httputil.RespondJSON(w, http.StatusOK, stats)
}
