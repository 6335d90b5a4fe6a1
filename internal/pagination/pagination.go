// Package pagination splits the link list into numbered pages.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Page is the requested window over a result set.
type Page struct {
	Number  int // 1-based
	PerPage int
	Total   int // -1 until known
}

// Parse reads page and per_page from the query string, falling back to
// page 1 and perPage for missing or invalid values.
func Parse(r *http.Request, perPage int) Page {
	if perPage <= 0 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}
	p := Page{Number: 1, PerPage: perPage, Total: -1}

	q := r.URL.Query()
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(q.Get("per_page")); err == nil && n > 0 && n <= MaxPerPage {
		p.PerPage = n
	}
	return p
}

// Offset returns the number of rows before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Pages returns the page count, at least 1 once Total is known.
func (p Page) Pages() int {
	if p.Total < 0 {
		return -1
	}
	if p.Total == 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

func (p Page) HasPrev() bool { return p.Number > 1 }

func (p Page) HasNext() bool { return p.Total >= 0 && p.Number < p.Pages() }

// Slice records len(items) as the total and returns this page's window,
// or nil when the page is past the end.
func Slice[T any](p *Page, items []T) []T {
	p.Total = len(items)
	start := p.Offset()
	if start >= len(items) {
		return nil
	}
	return items[start:min(start+p.PerPage, len(items))]
}

// Nav is what templates need to draw the pager.
type Nav struct {
	Number  int
	Pages   int
	Total   int
	PrevURL string
	NextURL string
}

// Nav builds pager links that keep the request's other query parameters.
func (p Page) Nav(r *http.Request) Nav {
	n := Nav{Number: p.Number, Pages: p.Pages(), Total: p.Total}
	if p.HasPrev() {
		n.PrevURL = pageURL(r, p.Number-1)
	}
	if p.HasNext() {
		n.NextURL = pageURL(r, p.Number+1)
	}
	return n
}

func pageURL(r *http.Request, page int) string {
	q := r.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		if r.URL.Path == "" {
			return "?"
		}
		return r.URL.Path
	}
	return r.URL.Path + "?" + q.Encode()
}
