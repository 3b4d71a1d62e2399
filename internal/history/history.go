// Package history keeps a sqlite log of progress saves so a profile's study
// activity can be inspected over time. It is optional: the server runs
// without it when no database path is configured.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/recallkit/recallkit/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB wraps the history database connection.
type DB struct {
	conn *sql.DB
}

// Open creates the database connection and ensures the schema exists.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply history schema: %w", err)
	}
	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// SaveRecord is one logged progress save.
type SaveRecord struct {
	ID      int64     `json:"id"`
	Profile string    `json:"profile"`
	SavedAt time.Time `json:"saved_at"`
	Entries int       `json:"entries"`
	Boxes   [6]int    `json:"boxes"`
}

// Snapshot summarizes a raw progress payload: how many entries it holds and
// how they distribute across boxes 1-6. Entries outside [1,6] and payloads
// that are not progress-shaped contribute nothing; the snapshot is
// best-effort because the stored payload is arbitrary JSON.
func Snapshot(payload []byte) (int, [6]int) {
	var boxes [6]int
	var p domain.Progress
	if err := json.Unmarshal(payload, &p); err != nil {
		return 0, boxes
	}
	for _, entry := range p {
		if entry.Box >= 1 && entry.Box <= 6 {
			boxes[entry.Box-1]++
		}
	}
	return len(p), boxes
}

// RecordSave logs a progress save for a profile at the given time.
func (db *DB) RecordSave(profile string, at time.Time, entries int, boxes [6]int) error {
	_, err := db.conn.Exec(`
		INSERT INTO saves (profile, saved_at, entries, box1, box2, box3, box4, box5, box6)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		profile,
		at.UTC(),
		entries,
		boxes[0], boxes[1], boxes[2], boxes[3], boxes[4], boxes[5],
	)
	if err != nil {
		return fmt.Errorf("failed to record save for profile %s: %w", profile, err)
	}
	return nil
}

// ListSaves returns the most recent saves for a profile, newest first.
func (db *DB) ListSaves(profile string, limit int) ([]SaveRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(`
		SELECT id, profile, saved_at, entries, box1, box2, box3, box4, box5, box6
		FROM saves WHERE profile = ?
		ORDER BY saved_at DESC, id DESC
		LIMIT ?
	`, profile, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves for profile %s: %w", profile, err)
	}
	defer rows.Close()

	records := []SaveRecord{}
	for rows.Next() {
		var r SaveRecord
		if err := rows.Scan(
			&r.ID,
			&r.Profile,
			&r.SavedAt,
			&r.Entries,
			&r.Boxes[0], &r.Boxes[1], &r.Boxes[2], &r.Boxes[3], &r.Boxes[4], &r.Boxes[5],
		); err != nil {
			return nil, fmt.Errorf("failed to scan save row for profile %s: %w", profile, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
