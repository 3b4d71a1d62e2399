package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/recallkit/recallkit/internal/builder"
	"github.com/recallkit/recallkit/internal/domain"
	"github.com/recallkit/recallkit/internal/library"
)

const maxUploadBytes = 16 << 20

// handleTopics handles both GET (management page) and POST (upload) for the
// topics page.
func (s *Server) handleTopics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.getTopicsPage(w, r)
		case http.MethodPost:
			s.postTopic(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) getTopicsPage(w http.ResponseWriter, r *http.Request) {
	topics, err := s.library.Topics()
	if err != nil {
		slog.Error("failed to list topics", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.render(w, "topics", map[string]interface{}{
		"Topics": topics,
	})
}

// postTopic converts uploaded Markdown files into a stored topic and
// re-renders the topic list to be swapped by HTMX.
func (s *Server) postTopic(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	topic := r.FormValue("topic")
	if topic == "" {
		topic = "default"
	}

	var sources []domain.SourceFile
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			f, err := header.Open()
			if err != nil {
				http.Error(w, "Invalid upload", http.StatusBadRequest)
				return
			}
			text, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				http.Error(w, "Invalid upload", http.StatusBadRequest)
				return
			}
			sources = append(sources, domain.SourceFile{Name: header.Filename, Text: string(text)})
		}
	}

	cardsJSON, tsv, cards := builder.Build(sources)
	if err := s.library.SaveTopic(topic, cardsJSON, tsv); err != nil {
		if errors.Is(err, library.ErrInvalidTopic) {
			http.Error(w, "Invalid topic name", http.StatusBadRequest)
			return
		}
		slog.Error("failed to save topic", "topic", topic, "error", err)
		http.Error(w, "Failed to save topic", http.StatusInternalServerError)
		return
	}
	slog.Info("saved topic", "topic", topic, "sources", len(sources), "cards", len(cards))

	s.renderTopicList(w, fmt.Sprintf("Saved %d flashcards to %s.json", len(cards), topic))
}

// handleTopicItem handles DELETE /topics/{name} and
// GET /topics/{name}/download?format=json|tsv.
func (s *Server) handleTopicItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/topics/")

		if r.Method == http.MethodGet && strings.HasSuffix(rest, "/download") {
			s.downloadTopic(w, r, strings.TrimSuffix(rest, "/download"))
			return
		}
		if r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := s.library.DeleteTopic(rest); err != nil {
			if errors.Is(err, library.ErrInvalidTopic) {
				http.Error(w, "Invalid topic name", http.StatusBadRequest)
				return
			}
			slog.Error("failed to delete topic", "topic", rest, "error", err)
			http.Error(w, "Failed to delete topic", http.StatusInternalServerError)
			return
		}
		s.renderTopicList(w, "Deleted "+rest)
	}
}

func (s *Server) downloadTopic(w http.ResponseWriter, r *http.Request, topic string) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	path, err := s.library.ExportPath(topic, format)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", topic+"."+format))
	http.ServeFile(w, r, path)
}

// renderTopicList re-renders the topic list partial after a mutation.
func (s *Server) renderTopicList(w http.ResponseWriter, message string) {
	topics, err := s.library.Topics()
	if err != nil {
		slog.Error("failed to list topics", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.render(w, "topic_list", map[string]interface{}{
		"Topics":  topics,
		"Message": message,
	})
}
