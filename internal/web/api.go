package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/recallkit/recallkit/internal/history"
	"github.com/recallkit/recallkit/internal/progress"
)

// Progress payloads are small; a megabyte is already hundreds of times a
// realistic deck.
const maxProgressBody = 1 << 20

// handleProgress serves GET/PUT/DELETE /api/progress/{profile}.
func (s *Server) handleProgress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile := strings.TrimPrefix(r.URL.Path, "/api/progress/")
		switch r.Method {
		case http.MethodGet:
			s.getProgress(w, profile)
		case http.MethodPut:
			if !s.requireToken(w, r) {
				return
			}
			s.putProgress(w, r, profile)
		case http.MethodDelete:
			if !s.requireToken(w, r) {
				return
			}
			s.deleteProgress(w, profile)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) getProgress(w http.ResponseWriter, profile string) {
	raw, err := s.progress.Load(profile)
	if err != nil {
		s.progressError(w, profile, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(raw)
}

func (s *Server) putProgress(w http.ResponseWriter, r *http.Request, profile string) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxProgressBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unreadable body"})
		return
	}
	if err := s.progress.Save(profile, body); err != nil {
		s.progressError(w, profile, err)
		return
	}
	s.recordSave(profile, body)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) deleteProgress(w http.ResponseWriter, profile string) {
	if err := s.progress.Delete(profile); err != nil {
		s.progressError(w, profile, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) progressError(w http.ResponseWriter, profile string, err error) {
	switch {
	case errors.Is(err, progress.ErrInvalidProfile):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid profile name"})
	case errors.Is(err, progress.ErrInvalidPayload):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Body must be a JSON object"})
	default:
		slog.Error("progress store failure", "profile", profile, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Progress store failure"})
	}
}

// recordSave logs a save snapshot when history is enabled. Failures are
// logged and swallowed; history is never worth failing a save over.
func (s *Server) recordSave(profile string, payload []byte) {
	if s.history == nil {
		return
	}
	entries, boxes := history.Snapshot(payload)
	if err := s.history.RecordSave(profile, time.Now(), entries, boxes); err != nil {
		slog.Warn("failed to record save history", "profile", profile, "error", err)
	}
}

// handleAPITopics serves GET /api/topics with the same shape as topics.json.
func (s *Server) handleAPITopics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		topics, err := s.library.Topics()
		if err != nil {
			slog.Error("failed to list topics", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list topics"})
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"topics": topics})
	}
}

// handleAPIHistory serves GET /api/history/{profile}. With history disabled
// it reports an empty list rather than an error.
func (s *Server) handleAPIHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		profile := strings.TrimPrefix(r.URL.Path, "/api/history/")
		if !progress.ValidProfile(profile) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid profile name"})
			return
		}
		saves := []history.SaveRecord{}
		if s.history != nil {
			var err error
			saves, err = s.history.ListSaves(profile, 50)
			if err != nil {
				slog.Error("failed to list save history", "profile", profile, "error", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to list history"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string][]history.SaveRecord{"saves": saves})
	}
}
