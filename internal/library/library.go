// Package library manages the build directory of exported flashcard sets:
// one <topic>.json / <topic>.tsv pair per topic plus a regenerated
// topics.json index.
package library

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/recallkit/recallkit/internal/builder"
	"github.com/recallkit/recallkit/internal/domain"
)

// Topic names become file names, so they follow the same character rules as
// profiles. "cards" and "topics" are reserved by the index format.
var topicRe = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)

var ErrInvalidTopic = errors.New("invalid topic name")

const indexFile = "topics.json"

// Store is a file store rooted at the build directory.
type Store struct {
	dir string
}

// NewStore ensures the build directory exists and returns a store over it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create build directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the build directory path.
func (s *Store) Dir() string { return s.dir }

func validTopic(name string) bool {
	return topicRe.MatchString(name) && name != "cards" && name != "topics"
}

// SaveTopic writes the JSON and TSV exports for a topic and refreshes the
// index. Both files are written atomically.
func (s *Store) SaveTopic(topic, cardsJSON, tsv string) error {
	if !validTopic(topic) {
		return ErrInvalidTopic
	}
	if err := atomicWrite(filepath.Join(s.dir, topic+".json"), []byte(cardsJSON)); err != nil {
		return fmt.Errorf("failed to write %s.json: %w", topic, err)
	}
	if err := atomicWrite(filepath.Join(s.dir, topic+".tsv"), []byte(tsv)); err != nil {
		return fmt.Errorf("failed to write %s.tsv: %w", topic, err)
	}
	return s.WriteIndex()
}

// DeleteTopic removes a topic's export pair and refreshes the index.
// Deleting an unknown topic is not an error.
func (s *Store) DeleteTopic(topic string) error {
	if !validTopic(topic) {
		return ErrInvalidTopic
	}
	for _, ext := range []string{".json", ".tsv"} {
		if err := os.Remove(filepath.Join(s.dir, topic+ext)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete %s%s: %w", topic, ext, err)
		}
	}
	return s.WriteIndex()
}

// Topics lists the stored topic names, sorted, excluding the reserved
// "cards" and "topics" entries.
func (s *Store) Topics() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list build directory: %w", err)
	}
	topics := []string{}
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), ".json")
		if name == "cards" || name == "topics" {
			continue
		}
		topics = append(topics, name)
	}
	sort.Strings(topics)
	return topics, nil
}

// WriteIndex regenerates topics.json from the sets currently on disk.
func (s *Store) WriteIndex() error {
	topics, err := s.Topics()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	enc.Encode(map[string][]string{"topics": topics})
	if err := atomicWrite(filepath.Join(s.dir, indexFile), buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write topics index: %w", err)
	}
	return nil
}

// LoadSets reads every topic's JSON export into memory. A set that fails to
// parse is skipped with a warning rather than aborting the whole load, so
// one corrupt file never blocks studying the rest.
func (s *Store) LoadSets() (map[string][]domain.Card, error) {
	topics, err := s.Topics()
	if err != nil {
		return nil, err
	}
	sets := make(map[string][]domain.Card, len(topics))
	for _, topic := range topics {
		data, err := os.ReadFile(filepath.Join(s.dir, topic+".json"))
		if err != nil {
			slog.Warn("skipping unreadable card set", "topic", topic, "error", err)
			continue
		}
		var set builder.CardSet
		if err := json.Unmarshal(data, &set); err != nil {
			slog.Warn("skipping corrupt card set", "topic", topic, "error", err)
			continue
		}
		sets[topic] = set.Cards
	}
	return sets, nil
}

// ExportPath returns the on-disk path of a topic's export in the given
// format ("json" or "tsv"), verifying the file exists.
func (s *Store) ExportPath(topic, format string) (string, error) {
	if !validTopic(topic) {
		return "", ErrInvalidTopic
	}
	if format != "json" && format != "tsv" {
		return "", fmt.Errorf("unknown export format %q", format)
	}
	path := filepath.Join(s.dir, topic+"."+format)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("export %s.%s: %w", topic, format, err)
	}
	return path, nil
}

func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
