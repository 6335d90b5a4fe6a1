package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/acgh213/marklinks/internal/bookmarks"
	"github.com/acgh213/marklinks/internal/markdown"
	"github.com/acgh213/marklinks/internal/pagination"
)

type LinklistData struct {
	Links []bookmarks.Item
	Tag   string
	Page  pagination.Nav
}

type LinkFormData struct {
	URL         string
	Title       string
	Description string
	Tags        string
	Suggestions []string
	Markdown    markdown.Options
}

func (s *Server) handleLinklist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pg := pagination.Parse(r, s.cfg.PerPage)
	tag := strings.TrimSpace(r.URL.Query().Get("addtag"))

	var list []bookmarks.Bookmark
	var err error
	if tag != "" {
		var tagged []bookmarks.Bookmark
		tagged, err = s.store.ListTagged(ctx, tag)
		list = pagination.Slice(&pg, tagged)
	} else {
		list, err = s.store.List(ctx, pg.PerPage, pg.Offset())
		if err == nil {
			pg.Total, err = s.store.Count(ctx)
		}
	}

	data := s.newPageData(r)
	if tag != "" {
		data.Title = "#" + tag + " - Marklinks"
	}
	if err != nil {
		slog.Error("failed to list bookmarks", "tag", tag, "error", err)
		data.Error = "Failed to load links"
		s.render(w, r, "linklist.html", data)
		return
	}

	data.Content = LinklistData{
		Links: s.renderItems(list),
		Tag:   tag,
		Page:  pg.Nav(r),
	}
	s.render(w, r, "linklist.html", data)
}

func (s *Server) handleLinkView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	b, err := s.store.Get(ctx, id)
	if errors.Is(err, bookmarks.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get bookmark", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := s.newPageData(r)
	data.Title = b.Title + " - Marklinks"
	data.Content = s.renderItems([]bookmarks.Bookmark{*b})[0]
	s.render(w, r, "link.html", data)
}

func (s *Server) handleLinkNew(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData(r)
	data.Title = "New link - Marklinks"
	data.Content = s.linkForm(r, LinkFormData{})
	s.render(w, r, "link_form.html", data)
}

// linkForm fills in tag suggestions. A failure only costs the suggestions.
func (s *Server) linkForm(r *http.Request, form LinkFormData) LinkFormData {
	counts, err := s.store.TagCounts(r.Context())
	if err != nil {
		slog.Error("failed to count tags", "error", err)
	}
	form.Suggestions = bookmarks.EditorTags(counts)
	form.Markdown = s.markdown.Options()
	return form
}

func (s *Server) handleLinkCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		data := s.newPageData(r)
		data.Title = "New link - Marklinks"
		data.Error = "Invalid form data"
		data.Content = s.linkForm(r, LinkFormData{})
		s.render(w, r, "link_form.html", data)
		return
	}

	form := LinkFormData{
		URL:         strings.TrimSpace(r.FormValue("url")),
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: r.FormValue("description"),
		Tags:        r.FormValue("tags"),
	}

	b, err := s.store.Create(ctx, bookmarks.CreateInput{
		URL:         form.URL,
		Title:       form.Title,
		Description: form.Description,
		Tags:        form.Tags,
	})
	if errors.Is(err, bookmarks.ErrInvalidURL) {
		data := s.newPageData(r)
		data.Title = "New link - Marklinks"
		data.Error = "Please enter an absolute URL, such as https://example.com"
		data.Content = s.linkForm(r, form)
		s.render(w, r, "link_form.html", data)
		return
	}
	if err != nil {
		slog.Error("failed to create bookmark", "url", form.URL, "error", err)
		setNotice(w, noticeLinkSaveFailed)
		http.Redirect(w, r, "/links/new", http.StatusSeeOther)
		return
	}

	slog.Info("bookmark created", "id", b.ID, "url", b.URL)
	setNotice(w, noticeLinkSaved)
	http.Redirect(w, r, "/links/"+b.ID.String(), http.StatusSeeOther)
}

// handlePreview renders the editor's description the way the link list
// will show it.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	rendered := bookmarks.FormatDescription(r.FormValue("description"), s.cfg.IndexURL)
	if !markdown.HasNoMarkdownTag(r.FormValue("tags")) {
		rendered = s.markdown.Render(rendered)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(rendered))
}
