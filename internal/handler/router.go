package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"scriptory/internal/middleware"
)

// Handlers collects the per-area handlers the router mounts.
type Handlers struct {
	Documents    *DocumentHandler
	Search       *SearchHandler
	Analytics    *AnalyticsHandler
	Organization *OrganizationHandler
	Git          *GitHandler
	Webhooks     *WebhookHandler
}

// NewRouter builds the API mux and wraps it in the middleware chain:
// CORS, then panic recovery, then request logging.
func NewRouter(h Handlers, corsOrigins []string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Documents
	mux.HandleFunc("GET /api/health", h.Documents.HealthCheck)
	mux.HandleFunc("GET /api/documents", h.Documents.ListDocuments)
	mux.HandleFunc("POST /api/documents", h.Documents.CreateDocument)
	mux.HandleFunc("GET /api/documents/{id}", h.Documents.GetDocument)
	mux.HandleFunc("PUT /api/documents/{id}", h.Documents.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", h.Documents.DeleteDocument)
	mux.HandleFunc("POST /api/documents/{id}/toggle-favorite", h.Documents.ToggleFavorite)
	mux.HandleFunc("GET /api/documents/{id}/versions", h.Documents.ListVersions)
	mux.HandleFunc("POST /api/documents/{id}/restore/{timestamp}", h.Documents.RestoreVersion)
	mux.HandleFunc("POST /api/documents/{id}/comments", h.Documents.AddComment)
	mux.HandleFunc("DELETE /api/documents/{id}/comments/{commentId}", h.Documents.DeleteComment)
	mux.HandleFunc("GET /api/documents/{id}/export", h.Documents.ExportDocument)
	mux.HandleFunc("POST /api/import", h.Documents.ImportDocument)
	mux.HandleFunc("GET /api/tags", h.Documents.ListTags)
	mux.HandleFunc("GET /api/recent", h.Documents.Recent)

	// Search
	mux.HandleFunc("GET /api/search", h.Search.Search)
	mux.HandleFunc("POST /api/search/index/{id}", h.Search.IndexDocument)
	mux.HandleFunc("POST /api/search/reindex", h.Search.Reindex)
	mux.HandleFunc("POST /api/search/save", h.Search.SaveSearch)
	mux.HandleFunc("GET /api/search/saved", h.Search.SavedSearches)
	mux.HandleFunc("GET /api/search/history", h.Search.History)

	// Analytics
	mux.HandleFunc("POST /api/analytics/track-view/{id}", h.Analytics.TrackView)
	mux.HandleFunc("POST /api/analytics/track-edit/{id}", h.Analytics.TrackEdit)
	mux.HandleFunc("GET /api/analytics/stats", h.Analytics.Stats)
	mux.HandleFunc("GET /api/analytics/most-viewed", h.Analytics.MostViewed)
	mux.HandleFunc("GET /api/analytics/contributors", h.Analytics.Contributors)
	mux.HandleFunc("GET /api/analytics/heatmap", h.Analytics.Heatmap)
	mux.HandleFunc("GET /api/analytics/time-to-write/{id}", h.Analytics.TimeToWrite)

	// Organization
	mux.HandleFunc("GET /api/collections", h.Organization.Collections)
	mux.HandleFunc("POST /api/folders", h.Organization.CreateFolder)
	mux.HandleFunc("POST /api/folders/{folderId}/documents/{docId}", h.Organization.AddToFolder)
	mux.HandleFunc("POST /api/pin/{id}", h.Organization.PinDocument)
	mux.HandleFunc("POST /api/star/{id}", h.Organization.StarDocument)
	mux.HandleFunc("POST /api/recent/{id}", h.Organization.TrackRecent)

	// Git
	mux.HandleFunc("GET /api/git/status", h.Git.Status)
	mux.HandleFunc("GET /api/git/diff", h.Git.Diff)
	mux.HandleFunc("POST /api/git/generate-docs", h.Git.GenerateDocs)

	// Webhooks and plugins
	mux.HandleFunc("POST /api/webhooks", h.Webhooks.Register)
	mux.HandleFunc("GET /api/webhooks", h.Webhooks.List)
	mux.HandleFunc("POST /api/plugins", h.Webhooks.RegisterPlugin)
	mux.HandleFunc("GET /api/plugins", h.Webhooks.ListPlugins)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	var handler http.Handler = mux
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = corsHandler.Handler(handler)
	return handler
}
