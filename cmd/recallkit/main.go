package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/recallkit/recallkit/internal/config"
	"github.com/recallkit/recallkit/internal/history"
	"github.com/recallkit/recallkit/internal/importer"
	"github.com/recallkit/recallkit/internal/library"
	"github.com/recallkit/recallkit/internal/progress"
	"github.com/recallkit/recallkit/internal/web"
)

func main() {
	defaults := config.Default()

	flags := pflag.NewFlagSet("recallkit", pflag.ExitOnError)
	configPath := flags.String("config", "", "Path to a YAML config file")
	flags.String("listen", defaults.Listen, "HTTP listen address")
	flags.String("data-dir", defaults.DataDir, "Directory for per-profile progress files")
	flags.String("build-dir", defaults.BuildDir, "Directory for exported flashcard sets")
	flags.String("api-token", "", "Bearer token required for progress writes")
	flags.String("cors-origins", "", "Comma-separated CORS allow list")
	flags.String("history-db", "", "SQLite path for save history (empty disables it)")
	importDir := flags.String("import", "", "Import .md files from this directory and exit")
	importGit := flags.String("import-git", "", "Import .md files from this git repository and exit")
	topic := flags.String("topic", "default", "Topic name for --import/--import-git")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lib, err := library.NewStore(cfg.BuildDir)
	if err != nil {
		log.Fatalf("Failed to open build directory: %v", err)
	}
	if err := lib.WriteIndex(); err != nil {
		log.Fatalf("Failed to write topics index: %v", err)
	}

	// One-shot import modes.
	if *importDir != "" || *importGit != "" {
		count, err := runImport(lib, cfg, *importDir, *importGit, *topic)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		fmt.Printf("Saved %d flashcards to %s.json\n", count, *topic)
		return
	}

	prog, err := progress.NewStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open progress store: %v", err)
	}

	var hist *history.DB
	if cfg.HistoryDB != "" {
		hist, err = history.Open(cfg.HistoryDB)
		if err != nil {
			log.Fatalf("Failed to open history database: %v", err)
		}
		defer hist.Close()
	}

	server := web.NewServer(cfg, prog, lib, hist)
	slog.Info("starting server",
		"listen", cfg.Listen,
		"build_dir", cfg.BuildDir,
		"data_dir", cfg.DataDir,
		"auth", cfg.TokenConfigured(),
		"history", hist != nil,
	)
	if err := http.ListenAndServe(cfg.Listen, server); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func runImport(lib *library.Store, cfg config.Config, dir, gitURL, topic string) (int, error) {
	if gitURL != "" {
		cacheDir := filepath.Join(cfg.DataDir, "repos")
		return importer.Git(context.Background(), lib, cacheDir, gitURL, topic)
	}
	return importer.Dir(lib, dir, topic)
}
