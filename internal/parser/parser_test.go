package parser

import (
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedCards int
		expectedQ     string
		expectedA     string
		expectedTitle string
	}{
		{
			name:          "Simple card",
			input:         "## Flashcard 1: X\n- **Question**: What is 2+2?\n- **Answer**:\n4\n",
			expectedCards: 1,
			expectedQ:     "What is 2+2?",
			expectedA:     "4",
			expectedTitle: "X",
		},
		{
			name: "Multiline answer preserves internal breaks",
			input: `## Flashcard 1: Colors
- **Question**: What are the primary colors?
- **Answer**:
Red
Blue
Yellow
`,
			expectedCards: 1,
			expectedQ:     "What are the primary colors?",
			expectedA:     "Red\nBlue\nYellow",
			expectedTitle: "Colors",
		},
		{
			name: "Answer trimmed but not collapsed",
			input: `## Flashcard 1: T
- **Question**: Q?
- **Answer**:

line one

line two

`,
			expectedCards: 1,
			expectedQ:     "Q?",
			expectedA:     "line one\n\nline two",
			expectedTitle: "T",
		},
		{
			name: "Two cards separated by rule",
			input: `## Flashcard 1: A
- **Question**: First?
- **Answer**:
one
---
## Flashcard 2: B
- **Question**: Second?
- **Answer**:
two
`,
			expectedCards: 2,
		},
		{
			name: "Heading closes previous card",
			input: `## Flashcard 1: A
- **Question**: First?
- **Answer**:
one
### Flashcard 2: B
- **Question**: Second?
- **Answer**:
two
`,
			expectedCards: 2,
		},
		{
			name:          "Card with no question is dropped",
			input:         "## Flashcard 1: X\n- **Answer**:\nsomething\n",
			expectedCards: 0,
		},
		{
			name:          "Card with empty answer body is dropped",
			input:         "## Flashcard 1: X\n- **Question**: Q?\n- **Answer**:\n\n\n---\n",
			expectedCards: 0,
		},
		{
			name:          "Card with no answer marker is dropped",
			input:         "## Flashcard 1: X\n- **Question**: Q?\nsome prose\n",
			expectedCards: 0,
		},
		{
			name:          "No cards, just text",
			input:         "Just some notes.\n\n## A normal heading\nbody\n",
			expectedCards: 0,
		},
		{
			name:          "Case insensitive markers, star bullets",
			input:         "#### flashcard 7: mixed\n* **question**: q?\n* **answer**\na\n",
			expectedCards: 1,
			expectedQ:     "q?",
			expectedA:     "a",
			expectedTitle: "mixed",
		},
		{
			name: "Last question line wins",
			input: `## Flashcard 1: X
- **Question**: first version?
- **Question**: second version?
- **Answer**:
a
`,
			expectedCards: 1,
			expectedQ:     "second version?",
			expectedA:     "a",
			expectedTitle: "X",
		},
		{
			name:          "Long rule closes the answer",
			input:         "## Flashcard 1: X\n- **Question**: Q?\n- **Answer**:\nbody\n-----\nignored\n",
			expectedCards: 1,
			expectedQ:     "Q?",
			expectedA:     "body",
			expectedTitle: "X",
		},
		{
			name:          "CRLF input",
			input:         "## Flashcard 1: X\r\n- **Question**: Q?\r\n- **Answer**:\r\nA\r\n",
			expectedCards: 1,
			expectedQ:     "Q?",
			expectedA:     "A",
			expectedTitle: "X",
		},
		{
			name:          "Unterminated card at end of input",
			input:         "## Flashcard 1: X\n- **Question**: Q?\n- **Answer**:\ntrailing answer",
			expectedCards: 1,
			expectedQ:     "Q?",
			expectedA:     "trailing answer",
			expectedTitle: "X",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cards := Parse(tc.input)

			if len(cards) != tc.expectedCards {
				t.Fatalf("Expected %d cards, but got %d", tc.expectedCards, len(cards))
			}

			if tc.expectedCards == 1 {
				card := cards[0]
				if card.Question != tc.expectedQ {
					t.Errorf("Expected Question to be '%s', but got '%s'", tc.expectedQ, card.Question)
				}
				if card.Answer != tc.expectedA {
					t.Errorf("Expected Answer to be '%s', but got '%s'", tc.expectedA, card.Answer)
				}
				if card.Title != tc.expectedTitle {
					t.Errorf("Expected Title to be '%s', but got '%s'", tc.expectedTitle, card.Title)
				}
			}
		})
	}
}

func TestParseOrder(t *testing.T) {
	input := `## Flashcard 1: A
- **Question**: q1?
- **Answer**:
a1
---
## Flashcard 2: B
- **Question**: q2?
- **Answer**:
a2
---
## Flashcard 3: C
- **Question**: q3?
- **Answer**:
a3
`
	cards := Parse(input)
	if len(cards) != 3 {
		t.Fatalf("Expected 3 cards, but got %d", len(cards))
	}
	for i, want := range []string{"A", "B", "C"} {
		if cards[i].Title != want {
			t.Errorf("card %d: expected title '%s', got '%s'", i, want, cards[i].Title)
		}
	}
}

func TestParseDuplicatesPreserved(t *testing.T) {
	input := `## Flashcard 1: Same
- **Question**: dup?
- **Answer**:
a
---
## Flashcard 2: Same
- **Question**: dup?
- **Answer**:
a
`
	cards := Parse(input)
	if len(cards) != 2 {
		t.Fatalf("Expected duplicate cards to be preserved, got %d", len(cards))
	}
}
