package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/recallkit/recallkit/internal/deck"
	"github.com/recallkit/recallkit/internal/domain"
	"github.com/recallkit/recallkit/internal/progress"
	"github.com/recallkit/recallkit/internal/scheduler"
)

// handleStudyPage renders the study view with its profile and filter form.
func (s *Server) handleStudyPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		pool := s.loadPool()
		s.render(w, "study", map[string]interface{}{
			"Topics":   deck.Topics(pool),
			"Tags":     deck.Tags(pool),
			"CardPool": len(pool),
		})
	}
}

// handleStudySession starts (or restarts) a study queue for a profile. The
// queue is fixed here: due cards first, the whole filtered pool when
// nothing is due.
func (s *Server) handleStudySession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		profile := r.PostFormValue("profile")
		if profile == "" {
			profile = "default"
		}
		if !progress.ValidProfile(profile) {
			http.Error(w, "Invalid profile name", http.StatusBadRequest)
			return
		}
		topic := r.PostFormValue("topic")
		tag := r.PostFormValue("tag")

		// Unreadable progress degrades to an empty mapping so the user can
		// always study; it must never surface as an error here.
		prog, err := s.progress.LoadProgress(profile)
		if err != nil {
			slog.Warn("treating progress as empty", "profile", profile, "error", err)
			prog = domain.Progress{}
		}

		sess := scheduler.NewSession(s.loadPool(), prog, topic, tag, time.Now().UnixMilli())

		s.mu.Lock()
		s.sessions[profile] = sess
		s.mu.Unlock()

		s.renderCard(w, profile, sess)
	}
}

// handleStudyMove renders the card after a next/prev navigation.
func (s *Server) handleStudyMove(move func(*scheduler.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, sess, ok := s.sessionFor(w, r)
		if !ok {
			return
		}
		move(sess)
		s.renderCard(w, profile, sess)
	}
}

// handleStudyReveal toggles answer visibility without touching scheduling
// state.
func (s *Server) handleStudyReveal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, sess, ok := s.sessionFor(w, r)
		if !ok {
			return
		}
		sess.Reveal()
		s.renderCard(w, profile, sess)
	}
}

// handleStudyGrade applies a grade to the current card, persists the
// profile's progress, and shows the next card. A persistence failure is
// logged but does not interrupt the session.
func (s *Server) handleStudyGrade() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, sess, ok := s.sessionFor(w, r)
		if !ok {
			return
		}
		grade := domain.Grade(r.PostFormValue("grade"))
		if !domain.ValidGrade(grade) {
			http.Error(w, "Invalid grade", http.StatusBadRequest)
			return
		}

		updated := sess.Grade(grade, time.Now().UnixMilli())
		if err := s.progress.SaveProgress(profile, updated); err != nil {
			slog.Warn("failed to persist progress", "profile", profile, "error", err)
		}
		s.renderCard(w, profile, sess)
	}
}

// sessionFor resolves the study session for the request's profile, writing
// the error response itself when there is none to resume.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (string, *scheduler.Session, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return "", nil, false
	}
	profile := r.PostFormValue("profile")
	if profile == "" {
		profile = "default"
	}
	s.mu.Lock()
	sess, ok := s.sessions[profile]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "No active study session", http.StatusBadRequest)
		return "", nil, false
	}
	return profile, sess, true
}

// loadPool reads every stored topic set into one topic-stamped pool. A
// broken build directory yields an empty pool rather than an error.
func (s *Server) loadPool() []domain.Card {
	sets, err := s.library.LoadSets()
	if err != nil {
		slog.Warn("failed to load card sets", "error", err)
		return nil
	}
	return deck.Pool(sets)
}

func (s *Server) renderCard(w http.ResponseWriter, profile string, sess *scheduler.Session) {
	card, ok := sess.Current()
	if !ok {
		s.render(w, "study_empty", map[string]interface{}{
			"Profile": profile,
		})
		return
	}
	s.render(w, "study_card", map[string]interface{}{
		"Profile":  profile,
		"Card":     card,
		"Pos":      sess.Pos() + 1,
		"Total":    sess.Len(),
		"Revealed": sess.Revealed(),
	})
}
