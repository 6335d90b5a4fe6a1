package web

import (
	"encoding/xml"
	"log/slog"
	"net/http"
	"time"

	"github.com/acgh213/marklinks/internal/bookmarks"
)

type atomFeed struct {
	XMLName xml.Name    `xml:"http://www.w3.org/2005/Atom feed"`
	Title   string      `xml:"title"`
	ID      string      `xml:"id"`
	Updated string      `xml:"updated"`
	Links   []atomLink  `xml:"link"`
	Entries []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
}

type atomEntry struct {
	Title      string         `xml:"title"`
	ID         string         `xml:"id"`
	Links      []atomLink     `xml:"link"`
	Updated    string         `xml:"updated"`
	Content    atomContent    `xml:"content"`
	Categories []atomCategory `xml:"category"`
}

type atomContent struct {
	Type string `xml:"type,attr"`
	Body string `xml:",chardata"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// handleFeed serves the latest links as Atom with rendered descriptions.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context(), s.cfg.PerPage, 0)
	if err != nil {
		slog.Error("failed to list bookmarks for feed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	base := baseURL(r)
	feed := buildFeed(base, s.renderItems(list))

	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		slog.Error("failed to encode feed", "error", err)
	}
}

func buildFeed(base string, items []bookmarks.Item) atomFeed {
	updated := time.Now().UTC()
	if len(items) > 0 {
		updated = items[0].CreatedAt.UTC()
	}

	feed := atomFeed{
		Title:   "Marklinks",
		ID:      base + "/",
		Updated: updated.Format(time.RFC3339),
		Links: []atomLink{
			{Href: base + "/feed/atom", Rel: "self"},
			{Href: base + "/"},
		},
	}
	for _, it := range items {
		permalink := base + "/links/" + it.ID.String()
		entry := atomEntry{
			Title: it.Title,
			ID:    "urn:uuid:" + it.ID.String(),
			Links: []atomLink{
				{Href: it.URL},
				{Href: permalink, Rel: "via"},
			},
			Updated: it.CreatedAt.UTC().Format(time.RFC3339),
			Content: atomContent{Type: "html", Body: it.Description},
		}
		for _, tag := range it.TagList {
			entry.Categories = append(entry.Categories, atomCategory{Term: tag})
		}
		feed.Entries = append(feed.Entries, entry)
	}
	return feed
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if isTLS(r) {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
