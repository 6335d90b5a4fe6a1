package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/acgh213/marklinks/internal/bookmarks"
)

const dayFormat = "20060102"

type DailyData struct {
	Day     time.Time
	Links   []bookmarks.Item
	PrevURL string
	NextURL string
}

// handleDaily lists the links saved on one UTC day, today by default.
func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	today := time.Now().UTC().Truncate(24 * time.Hour)

	day := today
	if v := r.URL.Query().Get("day"); v != "" {
		d, err := time.ParseInLocation(dayFormat, v, time.UTC)
		if err != nil {
			http.Error(w, "day must be YYYYMMDD", http.StatusBadRequest)
			return
		}
		day = d
	}
	next := day.AddDate(0, 0, 1)

	list, err := s.store.ListBetween(ctx, day, next)

	data := s.newPageData(r)
	data.Title = "Daily " + day.Format("2006-01-02") + " - Marklinks"
	if err != nil {
		slog.Error("failed to list daily bookmarks", "day", day.Format(dayFormat), "error", err)
		data.Error = "Failed to load links"
		s.render(w, r, "daily.html", data)
		return
	}

	daily := DailyData{
		Day:     day,
		Links:   s.renderItems(list),
		PrevURL: "/daily?day=" + day.AddDate(0, 0, -1).Format(dayFormat),
	}
	if !next.After(today) {
		daily.NextURL = "/daily?day=" + next.Format(dayFormat)
	}
	data.Content = daily
	s.render(w, r, "daily.html", data)
}
