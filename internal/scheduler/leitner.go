// Package scheduler implements the Leitner-box review scheduler: due-date
// computation over per-card progress state, grade transitions, and the study
// session queue.
package scheduler

import (
	"github.com/recallkit/recallkit/internal/domain"
)

const dayMillis = 86_400_000

// scheduleDays maps a box to its review interval in days, indexed directly
// by box number: box 1 is always due, box 6 waits 35 days. Index 0 only
// absorbs out-of-range state from corrupt progress entries.
var scheduleDays = [7]int64{0, 0, 1, 3, 7, 16, 35}

// IntervalDays returns the review interval for a box, clamping out-of-range
// boxes into the table.
func IntervalDays(box int) int64 {
	if box < 0 {
		box = 0
	}
	if box > 6 {
		box = 6
	}
	return scheduleDays[box]
}

// NewEntry is the state of a card that has never been graded: box 1,
// never reviewed, always due.
func NewEntry() domain.ProgressEntry {
	return domain.ProgressEntry{Box: 1, LastReviewed: 0}
}

// IsDue reports whether a card with the given state is due at now
// (epoch milliseconds).
func IsDue(entry domain.ProgressEntry, now int64) bool {
	return entry.LastReviewed+IntervalDays(entry.Box)*dayMillis <= now
}

// Apply returns the state after grading a card at now (epoch milliseconds).
// again resets to box 1, hard keeps the box, good moves up one, easy moves
// up two; boxes clamp to [1,6]. LastReviewed is always set to now.
func Apply(entry domain.ProgressEntry, grade domain.Grade, now int64) domain.ProgressEntry {
	box := entry.Box
	switch grade {
	case domain.Again:
		box = 1
	case domain.Hard:
		if box < 1 {
			box = 1
		}
	case domain.Good:
		box++
	case domain.Easy:
		box += 2
	}
	if box < 1 {
		box = 1
	}
	if box > 6 {
		box = 6
	}
	return domain.ProgressEntry{Box: box, LastReviewed: now}
}
