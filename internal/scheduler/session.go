package scheduler

import (
	"github.com/recallkit/recallkit/internal/deck"
	"github.com/recallkit/recallkit/internal/domain"
)

// Session is a fixed study queue over a filtered card pool. The queue is
// chosen once at construction: the due subset of the filtered pool, or the
// whole filtered pool when nothing is due, so the user always has something
// to review. Grading never re-filters the live queue; navigation wraps
// circularly and hides the answer again.
type Session struct {
	Topic string
	Tag   string

	queue    []domain.Card
	pos      int
	revealed bool
	progress domain.Progress
}

// NewSession builds a session from the full card pool, the loaded progress
// mapping, and optional topic/tag filters ("" or "all" means no filter).
// A nil progress map is treated as empty, which makes every card due; this
// is the degraded mode used when the progress store is unreachable.
func NewSession(pool []domain.Card, progress domain.Progress, topic, tag string, now int64) *Session {
	if progress == nil {
		progress = domain.Progress{}
	}
	filtered := deck.Filter(pool, topic, tag)

	var due []domain.Card
	for _, c := range filtered {
		entry, ok := progress[deck.Identity(c)]
		if !ok {
			entry = NewEntry()
		}
		if IsDue(entry, now) {
			due = append(due, c)
		}
	}

	queue := due
	if len(queue) == 0 {
		queue = filtered
	}

	return &Session{
		Topic:    topic,
		Tag:      tag,
		queue:    queue,
		progress: progress,
	}
}

// Len returns the queue length.
func (s *Session) Len() int { return len(s.queue) }

// Pos returns the 0-based position of the current card.
func (s *Session) Pos() int { return s.pos }

// Current returns the card at the cursor, or false for an empty queue.
func (s *Session) Current() (domain.Card, bool) {
	if len(s.queue) == 0 {
		return domain.Card{}, false
	}
	return s.queue[s.pos], true
}

// Revealed reports whether the current card's answer is shown.
func (s *Session) Revealed() bool { return s.revealed }

// Reveal toggles answer visibility for the current card.
func (s *Session) Reveal() { s.revealed = !s.revealed }

// Next advances the cursor, wrapping past the end, and hides the answer.
func (s *Session) Next() {
	if len(s.queue) == 0 {
		return
	}
	s.pos = (s.pos + 1) % len(s.queue)
	s.revealed = false
}

// Prev moves the cursor back, wrapping before the start, and hides the
// answer.
func (s *Session) Prev() {
	if len(s.queue) == 0 {
		return
	}
	s.pos = (s.pos - 1 + len(s.queue)) % len(s.queue)
	s.revealed = false
}

// Grade applies a grade to the current card, updates the session's progress
// mapping, and advances to the next card. It returns the updated mapping so
// the caller can persist it. Grading an empty queue is a no-op.
func (s *Session) Grade(grade domain.Grade, now int64) domain.Progress {
	card, ok := s.Current()
	if !ok {
		return s.progress
	}
	key := deck.Identity(card)
	entry, ok := s.progress[key]
	if !ok {
		entry = NewEntry()
	}
	s.progress[key] = Apply(entry, grade, now)
	s.Next()
	return s.progress
}

// Progress exposes the session's live progress mapping.
func (s *Session) Progress() domain.Progress { return s.progress }
