package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"scriptory/internal/analytics"
	"scriptory/internal/config"
	"scriptory/internal/domain/services"
	"scriptory/internal/gitdocs"
	"scriptory/internal/organization"
	"scriptory/internal/repository/fsdocs"
	"scriptory/internal/search"
	"scriptory/internal/service"
	"scriptory/internal/webhook"
)

const version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "scriptory",
		Short:   "Local-first documentation with versioning, search and analytics",
		Long:    "Scriptory keeps documentation as plain files inside your project,\nwith version history, full-text search and usage analytics on top.",
		Version: version,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newInitCmd(),
		newReindexCmd(),
		newSearchCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles the constructed component graph for a docs directory.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	index     *search.Engine
	analytics *analytics.Engine
	org       *organization.Store
	webhooks  *webhook.Manager
	git       *gitdocs.Manager
	docs      services.DocumentService
}

// buildApp loads config and wires the full component graph. Every command
// goes through here so the CLI and the server see the same state.
func buildApp() *app {
	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	cfg := config.Load()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	index := search.NewEngine(filepath.Join(cfg.DocsDir, ".search-index.json"), logger)
	analyticsEngine := analytics.NewEngine(filepath.Join(cfg.DocsDir, ".analytics"), logger)
	org := organization.NewStore(filepath.Join(cfg.DocsDir, ".collections.json"), logger)
	webhooks := webhook.NewManager(".webhooks.json", logger)
	git := gitdocs.New(".", logger)

	docRepo := fsdocs.NewDocumentRepository(cfg.DocsDir, logger)
	versionRepo := fsdocs.NewVersionRepository(cfg.DocsDir, logger)
	docs := service.NewDocumentService(docRepo, versionRepo, index, logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		index:     index,
		analytics: analyticsEngine,
		org:       org,
		webhooks:  webhooks,
		git:       git,
		docs:      docs,
	}
}
