package domain

// Card is a single question-answer unit extracted from Markdown notes.
// Tag is the source-document name minus extension; Topic is the export
// group chosen at upload time. Both are display/filter attributes and
// may be empty. Topic is stamped when sets are loaded for study rather
// than stored in the per-topic export files.
type Card struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
	Title    string `json:"title"`
	Tag      string `json:"tag,omitempty"`
	Topic    string `json:"topic,omitempty"`
}

// SourceFile pairs an uploaded file name with its Markdown text.
type SourceFile struct {
	Name string
	Text string
}

// ProgressEntry is the per-card scheduling state. Box is a Leitner
// bucket in [1,6]; LastReviewed is epoch milliseconds, 0 if the card
// has never been graded.
type ProgressEntry struct {
	Box          int   `json:"box"`
	LastReviewed int64 `json:"last_reviewed"`
}

// Progress maps card identity keys to their scheduling state.
type Progress map[string]ProgressEntry

// Grade is the user's response when reviewing a card.
type Grade string

const (
	Again Grade = "again"
	Hard  Grade = "hard"
	Good  Grade = "good"
	Easy  Grade = "easy"
)

// ValidGrade reports whether g is one of the four review grades.
func ValidGrade(g Grade) bool {
	switch g {
	case Again, Hard, Good, Easy:
		return true
	}
	return false
}
