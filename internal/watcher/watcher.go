package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"scriptory/internal/domain/services"

	"github.com/fsnotify/fsnotify"
)

// Watcher keeps the search index fresh when document files are edited
// outside the API (an editor writing content.mdx directly, a git
// checkout swapping files). It watches the docs root plus each document
// directory and triggers a debounced full reindex on relevant changes.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	docs     services.DocumentService
	root     string
	debounce time.Duration
	logger   *slog.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// New creates a watcher over the docs root. Start must be called to
// begin watching.
func New(root string, docs services.DocumentService, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fsw,
		docs:     docs,
		root:     root,
		debounce: 500 * time.Millisecond,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching in a goroutine; it is a no-op if already running.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.root); err != nil {
		return err
	}

	go w.loop(ctx)
	w.logger.Info("file watcher started", "root", w.root)
	return nil
}

// Stop shuts the watcher down and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			// New document directories need their own watch; fsnotify
			// is not recursive.
			if event.Op.Has(fsnotify.Create) {
				if err := w.watcher.Add(event.Name); err == nil {
					w.logger.Debug("watching new path", "path", event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerCh = timer.C
		case <-timerCh:
			timerCh = nil
			if count, err := w.docs.ReindexAll(ctx); err != nil {
				w.logger.Warn("watcher reindex failed", "error", err)
			} else {
				w.logger.Debug("watcher reindexed documents", "count", count)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

// relevant filters out the derived dot-stores: reindexing on our own
// index flush would loop forever.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") {
			return false
		}
	}
	return true
}
