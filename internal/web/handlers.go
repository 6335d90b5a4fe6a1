package web

import (
	"log/slog"
	"net/http"

	"github.com/justinas/nosurf"

	"github.com/acgh213/marklinks/internal/bookmarks"
)

type PageData struct {
	Title     string
	IndexURL  string
	CSRFToken string
	Content   any
	Error     string
	Success   string
}

func (s *Server) newPageData(r *http.Request) PageData {
	return PageData{
		Title:     "Marklinks",
		IndexURL:  s.cfg.IndexURL,
		CSRFToken: nosurf.Token(r),
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data PageData) {
	if n, ok := popNotice(w, r); ok {
		n.apply(&data)
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("template render error", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// renderItems runs host formatting and then the markdown hook over list.
func (s *Server) renderItems(list []bookmarks.Bookmark) []bookmarks.Item {
	return bookmarks.RenderDescriptions(s.markdown, bookmarks.FormatAll(list, s.cfg.IndexURL))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
