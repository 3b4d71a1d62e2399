// Package importer converts directories (or git checkouts) of Markdown
// notes into stored flashcard topics.
package importer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/recallkit/recallkit/internal/builder"
	"github.com/recallkit/recallkit/internal/domain"
	"github.com/recallkit/recallkit/internal/gitsource"
	"github.com/recallkit/recallkit/internal/library"
)

// Dir walks a directory tree for .md files, builds the topic's exports, and
// saves them to the library. It returns the number of cards written.
func Dir(store *library.Store, dir, topic string) (int, error) {
	var sources []domain.SourceFile

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", path, readErr)
		}
		sources = append(sources, domain.SourceFile{Name: d.Name(), Text: string(data)})
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk %s: %w", dir, err)
	}

	cardsJSON, tsv, cards := builder.Build(sources)
	if err := store.SaveTopic(topic, cardsJSON, tsv); err != nil {
		return 0, err
	}

	slog.Info("imported topic",
		"topic", topic,
		"sources", len(sources),
		"cards", len(cards),
	)
	return len(cards), nil
}

// Git fetches a git repository of notes into cacheDir and imports it as a
// topic.
func Git(ctx context.Context, store *library.Store, cacheDir, repoURL, topic string) (int, error) {
	localPath, err := gitsource.Fetch(ctx, cacheDir, repoURL)
	if err != nil {
		return 0, err
	}
	return Dir(store, localPath, topic)
}
