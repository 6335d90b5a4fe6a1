package markdown

import (
	"regexp"
	"strings"
)

var (
	brTagRe      = regexp.MustCompile(`(?i)<br */?>`)
	leadingNbsp  = regexp.MustCompile(`(?m)(^| )&nbsp;`)
	fenceRe      = regexp.MustCompile("^```")
	orderedRe    = regexp.MustCompile(`^\d\.`)
	hashtagTitle = ` title="Hashtag [^"]+"`

	// Hashtag link wrapped in an inline code span on a single line.
	inlineCodeHashtagRe = regexp.MustCompile("(`[^`\\n]*)<a href=\"[^ ]*\"" + hashtagTitle + ">([^<]+)</a>([^`\\n]*`)")
	// Any host link, hashtag or not.
	codeLinkRe = regexp.MustCompile(`<a href="[^ ]*"(?:` + hashtagTitle + `)?>([^<]+)</a>`)
	// Plain host link. The href value cannot contain a space, so a hashtag
	// title never fits between the closing quote and '>'.
	proseLinkRe = regexp.MustCompile(`<a href="[^ ]*">([^<]+)</a>`)

	hashtagLinkRe = regexp.MustCompile(`<a href="([^ "]*)" title="(Hashtag [^"]+)">([^<]+)</a>`)
)

// ReverseNl2br removes <br> tags inserted by the host so that markdown
// handles line breaks itself.
func ReverseNl2br(description string) string {
	return brTagRe.ReplaceAllString(description, "")
}

// ReverseSpace2Nbsp restores spaces the host turned into &nbsp; at line
// start or after another space.
func ReverseSpace2Nbsp(description string) string {
	return leadingNbsp.ReplaceAllString(description, "${1} ")
}

// ReverseText2Clickable removes the <a> tags the host generated around
// URLs and hashtags, keeping the link text.
//
// Hashtag links inside inline code are always reversed. Inside fenced or
// indented code every link is reversed; elsewhere hashtag links are kept.
func ReverseText2Clickable(description string) string {
	lines := strings.Split(description, "\n")
	codeBlockOn := false

	for i, line := range lines {
		codeLineOn := isIndentedCode(line)
		if !codeBlockOn {
			codeBlockOn = fenceRe.MatchString(line)
		} else if fenceRe.MatchString(line) {
			codeBlockOn = false
		}

		line = inlineCodeHashtagRe.ReplaceAllString(line, "${1}${2}${3}")
		if codeBlockOn || codeLineOn {
			line = codeLinkRe.ReplaceAllString(line, "${1}")
		} else {
			line = proseLinkRe.ReplaceAllString(line, "${1}")
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// isIndentedCode reports whether line is an indented code line: four or
// more leading spaces, not followed by a list marker.
func isIndentedCode(line string) bool {
	rest := strings.TrimLeft(line, " ")
	if len(line)-len(rest) < 4 || rest == "" {
		return false
	}
	switch rest[0] {
	case '+', '*', '-':
		return false
	}
	return !orderedRe.MatchString(rest)
}

// HashtagsToMarkdown rewrites the hashtag links left by
// ReverseText2Clickable as markdown links, so they render as links even
// when raw HTML is escaped.
func HashtagsToMarkdown(description string) string {
	return hashtagLinkRe.ReplaceAllString(description, `[${3}](${1} "${2}")`)
}
