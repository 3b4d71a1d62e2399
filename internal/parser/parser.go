package parser

import (
	"os"
	"regexp"
	"strings"

	"github.com/recallkit/recallkit/internal/domain"
)

var (
	// A card heading: "## Flashcard 3: Some title" at levels 2-6.
	headRe = regexp.MustCompile(`(?i)^#{2,6}\s*Flashcard\s*\d+\s*:\s*(.+)$`)
	// A bullet whose bold label is exactly "Question", with inline text.
	questionRe = regexp.MustCompile(`(?i)^\s*[*-]\s+\*\*Question\*\*\s*:\s*(.+)$`)
	// A bullet whose bold label is exactly "Answer"; the colon is optional
	// and the body follows on subsequent lines.
	answerRe = regexp.MustCompile(`(?i)^\s*[*-]\s+\*\*Answer\*\*\s*:?\s*$`)
	// A horizontal rule of three or more hyphens closes a card.
	ruleRe = regexp.MustCompile(`^\s*-{3,}\s*$`)
)

// ParseFile reads a Markdown file and extracts all flashcards from it.
func ParseFile(path string) ([]domain.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

// Parse scans Markdown text for flashcard blocks and returns one Card per
// well-formed block, in document order. A block starts at a card heading and
// ends at the next card heading, a horizontal rule, or end of input. Within
// a block the question line value is whatever the last matched question-label
// line set; the answer body is every line after the answer marker up to the
// block boundary, joined verbatim and trimmed as a whole. Blocks missing a
// question or whose answer is empty after trimming are dropped silently.
// Parse never fails: input with no recognizable cards yields an empty slice.
func Parse(text string) []domain.Card {
	lines := splitLines(text)
	var cards []domain.Card

	i := 0
	for i < len(lines) {
		m := headRe.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}
		title := strings.TrimSpace(m[1])
		question := ""
		var answerLines []string
		i++
		for i < len(lines) {
			if isBoundary(lines[i]) {
				break
			}
			if qm := questionRe.FindStringSubmatch(lines[i]); qm != nil {
				question = strings.TrimSpace(qm[1])
			}
			if answerRe.MatchString(lines[i]) {
				i++
				for i < len(lines) && !isBoundary(lines[i]) {
					answerLines = append(answerLines, lines[i])
					i++
				}
				break
			}
			i++
		}
		// The boundary line is not consumed here; the outer loop re-tests
		// it so that back-to-back headings each start a card.
		answer := strings.TrimSpace(strings.Join(answerLines, "\n"))
		if question != "" && answer != "" {
			cards = append(cards, domain.Card{
				Question: question,
				Answer:   answer,
				Title:    title,
			})
		}
	}
	return cards
}

func isBoundary(line string) bool {
	return headRe.MatchString(line) || ruleRe.MatchString(line)
}

// splitLines splits on \n and strips a trailing \r from each line so that
// CRLF input parses the same as LF input.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
