package webhook

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Webhook is a registered callback URL subscribed to a set of events.
// An empty event list subscribes to everything.
type Webhook struct {
	ID        string   `json:"id"`
	URL       string   `json:"url"`
	Events    []string `json:"events"`
	CreatedAt int64    `json:"createdAt"`
}

// Plugin is a registered extension stub: scriptory records the
// registration but executes nothing.
type Plugin struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Hooks     []string `json:"hooks"`
	CreatedAt int64    `json:"createdAt"`
}

type state struct {
	Webhooks []Webhook `json:"webhooks"`
	Plugins  []Plugin  `json:"plugins"`
}

// Manager persists webhook and plugin registrations in a single file and
// fans events out to subscribed URLs, fire and forget.
type Manager struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	client *http.Client
	state  state
}

func NewManager(path string, logger *slog.Logger) *Manager {
	m := &Manager{
		path:   path,
		logger: logger,
		client: &http.Client{Timeout: 10 * time.Second},
		state:  state{Webhooks: []Webhook{}, Plugins: []Plugin{}},
	}

	data, err := os.ReadFile(path)
	if err == nil {
		var loaded state
		if jsonErr := json.Unmarshal(data, &loaded); jsonErr != nil {
			logger.Warn("corrupt webhooks file, starting empty", "path", path, "error", jsonErr)
		} else {
			if loaded.Webhooks == nil {
				loaded.Webhooks = []Webhook{}
			}
			if loaded.Plugins == nil {
				loaded.Plugins = []Plugin{}
			}
			m.state = loaded
		}
	}
	return m
}

// Register stores a webhook subscription and returns it.
func (m *Manager) Register(url string, events []string) *Webhook {
	m.mu.Lock()
	defer m.mu.Unlock()

	if events == nil {
		events = []string{}
	}
	hook := Webhook{
		ID:        uuid.NewString(),
		URL:       url,
		Events:    events,
		CreatedAt: time.Now().UnixMilli(),
	}
	m.state.Webhooks = append(m.state.Webhooks, hook)
	m.flushLocked()
	return &hook
}

// Webhooks returns all registered webhooks.
func (m *Manager) Webhooks() []Webhook {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Webhook, len(m.state.Webhooks))
	copy(out, m.state.Webhooks)
	return out
}

// Trigger posts the event payload to every subscribed webhook in the
// background. Delivery failures are logged, never surfaced: webhooks are
// a best-effort notification layer.
func (m *Manager) Trigger(event string, data interface{}) {
	m.mu.Lock()
	hooks := make([]Webhook, len(m.state.Webhooks))
	copy(hooks, m.state.Webhooks)
	m.mu.Unlock()

	payload, err := json.Marshal(map[string]interface{}{
		"event":     event,
		"data":      data,
		"timestamp": time.Now().UnixMilli(),
	})
	if err != nil {
		m.logger.Warn("failed to encode webhook payload", "event", event, "error", err)
		return
	}

	for _, hook := range hooks {
		if !subscribed(hook.Events, event) {
			continue
		}
		go m.deliver(hook, event, payload)
	}
}

func (m *Manager) deliver(hook Webhook, event string, payload []byte) {
	resp, err := m.client.Post(hook.URL, "application/json", bytes.NewReader(payload))
	if err != nil {
		m.logger.Warn("webhook delivery failed", "url", hook.URL, "event", event, "error", err)
		return
	}
	resp.Body.Close()
}

func subscribed(events []string, event string) bool {
	if len(events) == 0 {
		return true
	}
	for _, e := range events {
		if e == event {
			return true
		}
	}
	return false
}

// RegisterPlugin records a plugin registration stub.
func (m *Manager) RegisterPlugin(name, version string, hooks []string) *Plugin {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hooks == nil {
		hooks = []string{}
	}
	plugin := Plugin{
		ID:        "plugin-" + uuid.NewString(),
		Name:      name,
		Version:   version,
		Hooks:     hooks,
		CreatedAt: time.Now().UnixMilli(),
	}
	m.state.Plugins = append(m.state.Plugins, plugin)
	m.flushLocked()
	return &plugin
}

// Plugins returns all registered plugins.
func (m *Manager) Plugins() []Plugin {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Plugin, len(m.state.Plugins))
	copy(out, m.state.Plugins)
	return out
}

func (m *Manager) flushLocked() {
	data, err := json.MarshalIndent(&m.state, "", "  ")
	if err == nil {
		err = os.WriteFile(m.path, data, 0o644)
	}
	if err != nil {
		m.logger.Warn("failed to flush webhooks file", "path", m.path, "error", err)
	}
}
