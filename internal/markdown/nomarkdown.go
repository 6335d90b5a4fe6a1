package markdown

import "strings"

// NoMarkdownTag disables markdown rendering for the bookmark carrying it.
const NoMarkdownTag = "nomarkdown"

// HasNoMarkdownTag reports whether the space separated tags contain the
// marker as a whole word.
func HasNoMarkdownTag(tags string) bool {
	for _, tag := range strings.Fields(tags) {
		if tag == NoMarkdownTag {
			return true
		}
	}
	return false
}

// StripNoMarkdownTag removes the marker from both the tag string and the
// tag list so it is never displayed.
func StripNoMarkdownTag(tags string, tagList []string) (string, []string) {
	var kept []string
	for _, tag := range strings.Fields(tags) {
		if tag != NoMarkdownTag {
			kept = append(kept, tag)
		}
	}

	var list []string
	for _, tag := range tagList {
		if tag != NoMarkdownTag {
			list = append(list, tag)
		}
	}
	return strings.Join(kept, " "), list
}

// SuggestNoMarkdownTag adds the marker to editor tag suggestions when no
// bookmark uses it yet.
func SuggestNoMarkdownTag(counts map[string]int) map[string]int {
	if counts == nil {
		counts = make(map[string]int)
	}
	if _, ok := counts[NoMarkdownTag]; !ok {
		counts[NoMarkdownTag] = 0
	}
	return counts
}
