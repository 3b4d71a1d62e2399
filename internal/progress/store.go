// Package progress persists per-profile spaced-repetition progress as one
// JSON file per profile name.
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/recallkit/recallkit/internal/domain"
)

// profileRe is the only accepted shape for profile names; anything else is
// rejected before touching the filesystem.
var profileRe = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)

var (
	ErrInvalidProfile = errors.New("invalid profile name")
	ErrInvalidPayload = errors.New("payload is not a JSON object")
	ErrCorrupt        = errors.New("corrupt progress file")
)

// Store reads and writes profile JSON documents under a single directory.
type Store struct {
	dir string
}

// NewStore ensures the data directory exists and returns a store over it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create progress directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// ValidProfile reports whether name is an acceptable profile identifier.
func ValidProfile(name string) bool {
	return profileRe.MatchString(name)
}

func (s *Store) pathFor(profile string) (string, error) {
	if !ValidProfile(profile) {
		return "", ErrInvalidProfile
	}
	return filepath.Join(s.dir, profile+".json"), nil
}

// Load returns the raw stored JSON for a profile, or "{}" when no file
// exists. A file that does not hold valid JSON yields ErrCorrupt.
func (s *Store) Load(profile string) (json.RawMessage, error) {
	path, err := s.pathFor(profile)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return json.RawMessage("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read progress for %s: %w", profile, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, profile)
	}
	return data, nil
}

// LoadProgress decodes a profile's stored document into the progress
// mapping. Callers that can degrade (the study view) should treat any error
// as an empty mapping rather than surfacing it.
func (s *Store) LoadProgress(profile string) (domain.Progress, error) {
	raw, err := s.Load(profile)
	if err != nil {
		return nil, err
	}
	var p domain.Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, profile)
	}
	if p == nil {
		p = domain.Progress{}
	}
	return p, nil
}

// Save persists an arbitrary JSON object for a profile. The write goes to a
// temporary file in the same directory followed by a rename, so a concurrent
// reader never observes a partially written document.
func (s *Store) Save(profile string, payload []byte) error {
	path, err := s.pathFor(profile)
	if err != nil {
		return err
	}
	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil {
		return ErrInvalidPayload
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write progress for %s: %w", profile, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to persist progress for %s: %w", profile, err)
	}
	return nil
}

// SaveProgress marshals and persists a progress mapping.
func (s *Store) SaveProgress(profile string, p domain.Progress) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode progress for %s: %w", profile, err)
	}
	return s.Save(profile, data)
}

// Delete removes a profile's stored document. Deleting a profile that was
// never saved is not an error.
func (s *Store) Delete(profile string) error {
	path, err := s.pathFor(profile)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete progress for %s: %w", profile, err)
	}
	return nil
}
