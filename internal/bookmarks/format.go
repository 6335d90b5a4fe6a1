package bookmarks

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/acgh213/marklinks/internal/markdown"
)

// Item is a bookmark prepared for display: Description holds HTML.
type Item struct {
	ID          uuid.UUID
	URL         string
	Title       string
	Description string
	Tags        string
	TagList     []string
	CreatedAt   time.Time
}

var (
	clickableRe = regexp.MustCompile(`(?i)(((?:https?|ftp|file)://|apt:|magnet:)\S+[a-z0-9()]/?)`)
	hashtagRe   = regexp.MustCompile(`(?m)(^|\s)#([\p{Pc}\p{N}\p{L}\p{Mn}]+)`)
	spaceRe     = regexp.MustCompile(`(?m)(^| ) `)
)

// Text2Clickable wraps bare URLs in links.
func Text2Clickable(text string) string {
	return clickableRe.ReplaceAllString(text, `<a href="$1">$1</a>`)
}

// HashtagAutolink turns #tag into a link filtering the list by tag.
func HashtagAutolink(text, indexURL string) string {
	return hashtagRe.ReplaceAllString(text, `${1}<a href="`+indexURL+`?addtag=${2}" title="Hashtag ${2}">#${2}</a>`)
}

// Space2Nbsp keeps indentation and runs of spaces visible in HTML.
func Space2Nbsp(text string) string {
	return spaceRe.ReplaceAllString(text, "${1}&nbsp;")
}

// Nl2br inserts <br /> before every newline.
func Nl2br(text string) string {
	return strings.ReplaceAll(text, "\n", "<br />\n")
}

// FormatDescription renders a stored description the way the link list
// shows it without markdown: escaped, with clickable URLs and hashtags,
// preserved spaces and line breaks.
func FormatDescription(description, indexURL string) string {
	s := strings.ReplaceAll(description, "\r\n", "\n")
	s = markdown.Escape(s)
	s = Text2Clickable(s)
	s = HashtagAutolink(s, indexURL)
	s = Space2Nbsp(s)
	return Nl2br(s)
}

// Format prepares a bookmark for display.
func Format(b Bookmark, indexURL string) Item {
	return Item{
		ID:          b.ID,
		URL:         b.URL,
		Title:       b.Title,
		Description: FormatDescription(b.Description, indexURL),
		Tags:        b.Tags,
		TagList:     b.TagList(),
		CreatedAt:   b.CreatedAt,
	}
}

// FormatAll prepares a list of bookmarks for display.
func FormatAll(list []Bookmark, indexURL string) []Item {
	items := make([]Item, 0, len(list))
	for _, b := range list {
		items = append(items, Format(b, indexURL))
	}
	return items
}
