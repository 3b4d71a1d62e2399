package library

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/recallkit/recallkit/internal/builder"
	"github.com/recallkit/recallkit/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func saveTestTopic(t *testing.T, s *Store, topic string, cards []domain.Card) {
	t.Helper()
	cardsJSON := builder.MarshalCardSet(cards)
	if err := s.SaveTopic(topic, cardsJSON, ""); err != nil {
		t.Fatalf("SaveTopic(%s): %v", topic, err)
	}
}

func readIndex(t *testing.T, s *Store) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(s.Dir(), "topics.json"))
	if err != nil {
		t.Fatalf("reading topics.json: %v", err)
	}
	var idx struct {
		Topics []string `json:"topics"`
	}
	if err := json.Unmarshal(data, &idx); err != nil {
		t.Fatalf("parsing topics.json: %v", err)
	}
	return idx.Topics
}

func TestSaveTopicWritesPairAndIndex(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveTopic("biology", `{"cards": []}`, "q\ta\n"); err != nil {
		t.Fatalf("SaveTopic: %v", err)
	}

	for _, name := range []string{"biology.json", "biology.tsv", "topics.json"} {
		if _, err := os.Stat(filepath.Join(s.Dir(), name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
	if got := readIndex(t, s); !reflect.DeepEqual(got, []string{"biology"}) {
		t.Errorf("unexpected index: %v", got)
	}
}

func TestSaveTopicRejectsBadNames(t *testing.T) {
	s := newTestStore(t)
	for _, topic := range []string{"", "../x", "a b", "topics", "cards"} {
		if err := s.SaveTopic(topic, "{}", ""); !errors.Is(err, ErrInvalidTopic) {
			t.Errorf("topic %q: expected ErrInvalidTopic, got %v", topic, err)
		}
	}
}

func TestTopicsSortedAndFiltered(t *testing.T) {
	s := newTestStore(t)
	saveTestTopic(t, s, "zoology", nil)
	saveTestTopic(t, s, "algebra", nil)

	topics, err := s.Topics()
	if err != nil {
		t.Fatalf("Topics: %v", err)
	}
	if !reflect.DeepEqual(topics, []string{"algebra", "zoology"}) {
		t.Errorf("unexpected topics: %v", topics)
	}
	// topics.json itself must never appear in the index.
	if got := readIndex(t, s); !reflect.DeepEqual(got, []string{"algebra", "zoology"}) {
		t.Errorf("unexpected index: %v", got)
	}
}

func TestDeleteTopicRefreshesIndex(t *testing.T) {
	s := newTestStore(t)
	saveTestTopic(t, s, "one", nil)
	saveTestTopic(t, s, "two", nil)

	if err := s.DeleteTopic("one"); err != nil {
		t.Fatalf("DeleteTopic: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), "one.json")); !errors.Is(err, os.ErrNotExist) {
		t.Error("expected one.json to be removed")
	}
	if got := readIndex(t, s); !reflect.DeepEqual(got, []string{"two"}) {
		t.Errorf("unexpected index after delete: %v", got)
	}
	if err := s.DeleteTopic("one"); err != nil {
		t.Errorf("expected deleting a missing topic to succeed, got %v", err)
	}
}

func TestLoadSets(t *testing.T) {
	s := newTestStore(t)
	cards := []domain.Card{{Question: "q?", Answer: "a", Title: "T", Tag: "notes"}}
	saveTestTopic(t, s, "go", cards)

	// A corrupt set should be skipped, not fatal.
	if err := os.WriteFile(filepath.Join(s.Dir(), "broken.json"), []byte("{oops"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	sets, err := s.LoadSets()
	if err != nil {
		t.Fatalf("LoadSets: %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("expected 1 loadable set, got %d", len(sets))
	}
	if !reflect.DeepEqual(sets["go"], cards) {
		t.Errorf("unexpected cards: %+v", sets["go"])
	}
}

func TestExportPath(t *testing.T) {
	s := newTestStore(t)
	saveTestTopic(t, s, "go", nil)

	if _, err := s.ExportPath("go", "json"); err != nil {
		t.Errorf("expected json export to resolve: %v", err)
	}
	if _, err := s.ExportPath("go", "tsv"); err != nil {
		t.Errorf("expected tsv export to resolve: %v", err)
	}
	if _, err := s.ExportPath("go", "pdf"); err == nil {
		t.Error("expected unknown format to fail")
	}
	if _, err := s.ExportPath("missing", "json"); err == nil {
		t.Error("expected missing topic to fail")
	}
}
