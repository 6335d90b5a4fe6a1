package bookmarks

import (
	"slices"
	"strings"

	"github.com/acgh213/marklinks/internal/markdown"
)

// RenderDescriptions replaces each item's formatted description with its
// markdown rendering. Items tagged with markdown.NoMarkdownTag keep their
// description and lose the marker tag instead. Used by the link list, the
// feed and the daily page.
func RenderDescriptions(r *markdown.Renderer, items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		if markdown.HasNoMarkdownTag(it.Tags) || slices.Contains(it.TagList, markdown.NoMarkdownTag) {
			it.Tags, it.TagList = markdown.StripNoMarkdownTag(it.Tags, it.TagList)
		} else {
			it.Description = r.Render(it.Description)
		}
		out[i] = it
	}
	return out
}

// EditorTags returns tag suggestions for the bookmark editor, including the
// no-markdown marker so it can be autocompleted.
func EditorTags(counts map[string]int) []string {
	counts = markdown.SuggestNoMarkdownTag(counts)
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	slices.SortFunc(tags, func(a, b string) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return strings.Compare(a, b)
	})
	return tags
}
