package handler

import (
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"scriptory/internal/httputil"
	"scriptory/internal/webhook"
)

// WebhookHandler handles webhook and plugin registration requests
type WebhookHandler struct {
	manager *webhook.Manager
	logger  *slog.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(manager *webhook.Manager, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{manager: manager, logger: logger}
}

type registerWebhookRequest struct {
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

func (r registerWebhookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required, is.URL),
	)
}

// Register stores a webhook subscription
// POST /api/webhooks
func (h *WebhookHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerWebhookRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hook := h.manager.Register(req.URL, req.Events)
	httputil.RespondJSON(w, http.StatusCreated, hook)
}

// List returns all registered webhooks
// GET /api/webhooks
func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.manager.Webhooks())
}

type registerPluginRequest struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Hooks   []string `json:"hooks"`
}

func (r registerPluginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

// RegisterPlugin records a plugin registration stub
// POST /api/plugins
func (h *WebhookHandler) RegisterPlugin(w http.ResponseWriter, r *http.Request) {
	var req registerPluginRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	plugin := h.manager.RegisterPlugin(req.Name, req.Version, req.Hooks)
	httputil.RespondJSON(w, http.StatusCreated, plugin)
}

// ListPlugins returns all registered plugins
// GET /api/plugins
func (h *WebhookHandler) ListPlugins(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.manager.Plugins())
}
