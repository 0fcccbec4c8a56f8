package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"scriptory/internal/handler"
	"scriptory/internal/watcher"
)

func newServeCmd() *cobra.Command {
	var port, docsDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags override the environment; config.Load reads env only.
			if port != "" {
				os.Setenv("PORT", port)
			}
			if docsDir != "" {
				os.Setenv("SCRIPTORY_DOCS_DIR", docsDir)
			}
			return runServe()
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on")
	cmd.Flags().StringVarP(&docsDir, "docs-dir", "d", "", "documentation directory")
	return cmd
}

func runServe() error {
	a := buildApp()

	if err := os.MkdirAll(a.cfg.DocsDir, 0o755); err != nil {
		return err
	}

	handlers := handler.Handlers{
		Documents:    handler.NewDocumentHandler(a.docs, a.webhooks, a.logger),
		Search:       handler.NewSearchHandler(a.index, a.docs, a.logger),
		Analytics:    handler.NewAnalyticsHandler(a.analytics, a.org, a.logger),
		Organization: handler.NewOrganizationHandler(a.org, a.docs, a.logger),
		Git:          handler.NewGitHandler(a.git, a.docs, a.logger),
		Webhooks:     handler.NewWebhookHandler(a.webhooks, a.logger),
	}

	corsOrigins := strings.Split(a.cfg.CORSOrigins, ",")
	router := handler.NewRouter(handlers, corsOrigins, a.logger)

	server := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.cfg.WatchFiles {
		w, err := watcher.New(a.cfg.DocsDir, a.docs, a.logger)
		if err != nil {
			a.logger.Warn("cannot create file watcher", "error", err)
		} else if err := w.Start(ctx); err != nil {
			a.logger.Warn("cannot start file watcher", "error", err)
		} else {
			defer w.Stop()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			"port", a.cfg.Port,
			"environment", a.cfg.Environment,
			"docs_dir", a.cfg.DocsDir,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		a.logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
