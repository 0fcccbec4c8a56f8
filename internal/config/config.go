package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	// DocsDir is the documentation root. Relative paths are resolved
	// against the current working directory, matching the CLI's
	// "run it inside your project" model.
	DocsDir string
	// WatchFiles enables the fsnotify reindex watcher so edits made
	// outside the API still show up in search.
	WatchFiles bool
	// Debug enables debug logging and the debug endpoints.
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	docsDir := getEnv("SCRIPTORY_DOCS_DIR", "scriptory")
	if !filepath.IsAbs(docsDir) {
		if cwd, err := os.Getwd(); err == nil {
			docsDir = filepath.Join(cwd, docsDir)
		}
	}

	return &Config{
		Port:        getEnv("PORT", "6767"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		DocsDir:     docsDir,
		WatchFiles:  getEnv("SCRIPTORY_WATCH", "true") == "true",
		Debug:       getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
