package markdown

import (
	"html"
	"regexp"
	"strings"
)

// DeniedTags are escaped wherever they appear in rendered output.
var DeniedTags = []string{
	"script",
	"style",
	"link",
	"iframe",
	"frameset",
	"frame",
}

var (
	deniedTagRes = compileDeniedTags(DeniedTags)
	eventAttrRe  = regexp.MustCompile(`(?is)(<[^>]+\s)on[a-z]*\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]*)`)

	unescaper = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#34;", `"`,
		"&#039;", "'",
		"&#39;", "'",
		"&#x27;", "'",
	)
)

func compileDeniedTags(tags []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(tags))
	for _, tag := range tags {
		res = append(res, regexp.MustCompile(`(?is)<\s*`+tag+`[^>]*>(.*</\s*`+tag+`[^>]*>)?`))
	}
	return res
}

// Escape HTML-escapes s.
func Escape(s string) string {
	return html.EscapeString(s)
}

// Unescape reverses the host's HTML escaping of a stored description.
// Only the entities Escape and the host produce are decoded, in a single
// pass.
func Unescape(s string) string {
	return unescaper.Replace(s)
}

// SanitizeHTML escapes denied elements, including everything up to their
// last closing tag, and strips on* event handler attributes.
func SanitizeHTML(s string) string {
	for _, re := range deniedTagRes {
		s = re.ReplaceAllStringFunc(s, Escape)
	}
	for {
		stripped := eventAttrRe.ReplaceAllString(s, "${1}")
		if stripped == s {
			return s
		}
		s = stripped
	}
}
