package markdown

import (
	"html"
	"regexp"
	"strings"
)

// FallbackScheme replaces any scheme that is not allowed.
const FallbackScheme = "http"

// maxDecodePasses bounds entity decoding of link targets. Stored
// descriptions carry one level of host escaping on top of whatever the
// author typed.
const maxDecodePasses = 4

var (
	linkTargetRe = regexp.MustCompile(`(?s)\]\((.*?)\)`)
	schemeRe     = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9+.\-]*):/?/?`)
)

// FilterProtocols rewrites the target of every markdown link (`](url)`)
// whose scheme is not allowed.
func FilterProtocols(description string, allowed []string) string {
	return linkTargetRe.ReplaceAllStringFunc(description, func(match string) string {
		target := match[2 : len(match)-1]
		return "](" + WhitelistProtocol(target, allowed) + ")"
	})
}

// WhitelistProtocol returns url with its scheme replaced by http:// when
// the scheme is neither http, https nor listed in allowed. Relative URLs
// and URLs without a scheme are returned unchanged.
//
// The scheme is read the way a browser reads it: entity references are
// decoded, leading control characters and spaces are skipped and tabs or
// newlines are dropped. A rewritten URL is built from that decoded form.
func WhitelistProtocol(url string, allowed []string) string {
	body := strings.TrimLeftFunc(decodeEntities(url), isControlOrSpace)
	body = strings.Map(dropTabNewline, body)

	if body == "" || strings.HasPrefix(body, "?") || strings.HasPrefix(body, "/") || strings.HasPrefix(body, "#") {
		return url
	}

	m := schemeRe.FindStringSubmatchIndex(body)
	if m == nil {
		return url
	}
	if schemeAllowed(body[m[2]:m[3]], allowed) {
		return url
	}
	return FallbackScheme + "://" + body[m[1]:]
}

func decodeEntities(s string) string {
	for i := 0; i < maxDecodePasses; i++ {
		d := html.UnescapeString(s)
		if d == s {
			break
		}
		s = d
	}
	return s
}

func isControlOrSpace(r rune) bool {
	return r <= ' ' || r == 0x7f
}

func dropTabNewline(r rune) rune {
	if r == '\t' || r == '\n' || r == '\r' {
		return -1
	}
	return r
}

func schemeAllowed(scheme string, allowed []string) bool {
	scheme = strings.ToLower(scheme)
	if scheme == "http" || scheme == "https" {
		return true
	}
	for _, p := range allowed {
		if strings.ToLower(strings.TrimSuffix(strings.TrimSpace(p), ":")) == scheme {
			return true
		}
	}
	return false
}
