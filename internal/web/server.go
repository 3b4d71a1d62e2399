// Package web serves the progress API, the topic management pages, and the
// study view.
package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/recallkit/recallkit/internal/config"
	"github.com/recallkit/recallkit/internal/history"
	"github.com/recallkit/recallkit/internal/library"
	"github.com/recallkit/recallkit/internal/progress"
	"github.com/recallkit/recallkit/internal/scheduler"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// Server holds the dependencies for the HTTP server.
type Server struct {
	cfg       config.Config
	progress  *progress.Store
	library   *library.Store
	history   *history.DB // nil when history is disabled
	router    *http.ServeMux
	handler   http.Handler
	templates *template.Template

	mu       sync.Mutex
	sessions map[string]*scheduler.Session
}

// NewServer creates and configures a new server. history may be nil.
func NewServer(cfg config.Config, prog *progress.Store, lib *library.Store, hist *history.DB) *Server {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	s := &Server{
		cfg:       cfg,
		progress:  prog,
		library:   lib,
		history:   hist,
		router:    http.NewServeMux(),
		templates: tpl,
		sessions:  make(map[string]*scheduler.Session),
	}
	s.routes()
	s.handler = s.cors(s.router)
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatalf("Failed to create sub-filesystem for static assets: %v", err)
	}
	s.router.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.router.HandleFunc("/", s.handleIndex())

	// Progress API
	s.router.HandleFunc("/api/progress/", s.handleProgress())
	s.router.HandleFunc("/api/topics", s.handleAPITopics())
	s.router.HandleFunc("/api/history/", s.handleAPIHistory())

	// Topic management (HTMX partials)
	s.router.HandleFunc("/topics", s.handleTopics())
	s.router.HandleFunc("/topics/", s.handleTopicItem())

	// Study view (HTMX partials)
	s.router.HandleFunc("/study", s.handleStudyPage())
	s.router.HandleFunc("/study/session", s.handleStudySession())
	s.router.HandleFunc("/study/next", s.handleStudyMove((*scheduler.Session).Next))
	s.router.HandleFunc("/study/prev", s.handleStudyMove((*scheduler.Session).Prev))
	s.router.HandleFunc("/study/reveal", s.handleStudyReveal())
	s.router.HandleFunc("/study/grade", s.handleStudyGrade())
}

func (s *Server) handleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/study", http.StatusFound)
	}
}

// cors applies the allowed-origins policy and answers preflight requests.
func (s *Server) cors(next http.Handler) http.Handler {
	origins := s.cfg.Origins()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if allowed := corsOrigin(origins, origin); allowed != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func corsOrigin(allowed []string, origin string) string {
	for _, o := range allowed {
		if o == "*" {
			return "*"
		}
		if o == origin {
			return origin
		}
	}
	return ""
}

// requireToken enforces the bearer token on mutating progress routes, but
// only when one is configured. It writes the 401 itself and reports whether
// the request may proceed.
func (s *Server) requireToken(w http.ResponseWriter, r *http.Request) bool {
	if !s.cfg.TokenConfigured() {
		return true
	}
	auth := r.Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	if !strings.HasPrefix(auth, "Bearer ") || token != strings.TrimSpace(s.cfg.APIToken) {
		slog.Warn("auth failed: invalid or missing token", "path", r.URL.Path)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}
