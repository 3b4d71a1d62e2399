// Package builder aggregates parsed flashcards from a batch of Markdown
// sources and serializes them into the two export formats: a JSON card set
// and a Quizlet-style tab-separated file.
package builder

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/recallkit/recallkit/internal/domain"
	"github.com/recallkit/recallkit/internal/parser"
)

// CardSet is the on-disk shape of a topic's JSON export.
type CardSet struct {
	Cards []domain.Card `json:"cards"`
}

// Build parses every source document, tags each resulting card with the
// source filename stem, and returns the JSON export, the TSV export, and
// the raw card list in input order. An empty input yields `{"cards": []}`
// and an empty TSV string.
//
// The TSV output is deliberately unescaped: a literal tab or newline inside
// a question or answer passes through as-is.
func Build(sources []domain.SourceFile) (string, string, []domain.Card) {
	cards := []domain.Card{}
	for _, src := range sources {
		parsed := parser.Parse(src.Text)
		tag := stem(src.Name)
		for i := range parsed {
			parsed[i].Tag = tag
		}
		cards = append(cards, parsed...)
	}

	cardsJSON := MarshalCardSet(cards)

	var tsv strings.Builder
	for _, c := range cards {
		tsv.WriteString(c.Question)
		tsv.WriteByte('\t')
		tsv.WriteString(c.Answer)
		tsv.WriteByte('\n')
	}

	return cardsJSON, tsv.String(), cards
}

// MarshalCardSet renders cards as the export JSON document: stable field
// order, two-space indent, and non-ASCII left unescaped.
func MarshalCardSet(cards []domain.Card) string {
	if cards == nil {
		cards = []domain.Card{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// CardSet only holds marshalable fields, so this cannot fail.
	enc.Encode(CardSet{Cards: cards})
	return strings.TrimRight(buf.String(), "\n")
}

func stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
