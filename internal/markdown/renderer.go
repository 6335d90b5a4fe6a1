// Package markdown renders bookmark descriptions as sanitized HTML.
//
// The pipeline undoes the HTML the host generated when displaying a
// description (line breaks, non-breaking spaces, auto links), filters link
// protocols, converts the markdown and escapes dangerous elements in the
// result. Every stage is a pure string function.
package markdown

import (
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
)

// WrapperClass is the CSS class of the element wrapping rendered output.
const WrapperClass = "markdown"

// Options controls a Renderer.
type Options struct {
	// EscapeHTML escapes raw HTML found in descriptions.
	EscapeHTML bool
	// AllowedProtocols lists link schemes kept as-is besides http and https.
	AllowedProtocols []string
	// Hardened adds a bluemonday pass after the denylist sanitizer.
	Hardened bool
}

// DefaultOptions mirror the host's default security settings.
func DefaultOptions() Options {
	return Options{
		EscapeHTML:       true,
		AllowedProtocols: []string{"ftp", "ftps", "magnet"},
	}
}

// Renderer runs descriptions through the markdown pipeline.
// It holds no mutable state and is safe for concurrent use.
type Renderer struct {
	conv   Converter
	opts   Options
	policy *bluemonday.Policy
}

// NewRenderer returns a Renderer using conv, or a GoldmarkConverter
// restricted to opts.AllowedProtocols when conv is nil.
func NewRenderer(conv Converter, opts Options) *Renderer {
	if conv == nil {
		conv = NewGoldmarkConverter(WithAllowedProtocols(opts.AllowedProtocols))
	}
	r := &Renderer{conv: conv, opts: opts}
	if opts.Hardened {
		r.policy = hardenedPolicy(opts.AllowedProtocols)
	}
	return r
}

// Options returns the options the renderer was built with.
func (r *Renderer) Options() Options {
	return r.opts
}

// Render converts a stored description to HTML.
func (r *Renderer) Render(description string) string {
	out := r.render(description)
	if r.policy != nil && out != "" {
		out = r.policy.Sanitize(out)
	}
	return wrap(out)
}

// Process is the one-shot form of Render for callers that hold no
// Renderer. It never runs the hardened bluemonday pass; build a Renderer
// with Options.Hardened for that.
func Process(conv Converter, description string, escapeHTML bool, allowedProtocols []string) string {
	return NewRenderer(conv, Options{EscapeHTML: escapeHTML, AllowedProtocols: allowedProtocols}).Render(description)
}

func (r *Renderer) render(description string) string {
	s := description
	for _, stage := range []func(string) string{
		ReverseNl2br,
		ReverseSpace2Nbsp,
		ReverseText2Clickable,
		HashtagsToMarkdown,
		func(s string) string { return FilterProtocols(s, r.opts.AllowedProtocols) },
		Unescape,
	} {
		s = stage(s)
	}

	converted, err := r.conv.Convert(s, r.opts.EscapeHTML, true)
	if err != nil {
		slog.Warn("markdown conversion failed, showing escaped text", "error", err)
		converted = Escape(s)
	}
	return SanitizeHTML(converted)
}

func wrap(html string) string {
	if html == "" {
		return ""
	}
	return `<div class="` + WrapperClass + `">` + html + `</div>`
}

func hardenedPolicy(allowedProtocols []string) *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("code", "pre", "span")
	p.AllowAttrs("title").OnElements("a")
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	p.AllowURLSchemes(allowedProtocols...)
	return p
}
