package markdown

import (
	"strings"
	"testing"
)

func TestUnescape(t *testing.T) {
	got := Unescape("&lt;b&gt; &amp;amp; &quot;q&#34; &#039;s&#39; &#x27;")
	want := `<b> &amp; "q" 's' '`
	if got != want {
		t.Errorf("Unescape = %q, want %q", got, want)
	}
}

func TestSanitizeHTML_DeniedTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"script", `<script>alert(1)</script>`},
		{"script uppercase", `<SCRIPT SRC=//x.js></SCRIPT>`},
		{"script with space", `< script>alert(1)</script>`},
		{"style", `<style>body{display:none}</style>`},
		{"link", `<link rel="stylesheet" href="x.css">`},
		{"iframe", `<p>a</p><iframe src="//evil"></iframe>`},
		{"frameset", `<FRAMESET><frame src=x></FRAMESET>`},
		{"frame", `<frame src=x>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := strings.ToLower(SanitizeHTML(tt.in))
			for _, tag := range DeniedTags {
				if strings.Contains(out, "<"+tag) {
					t.Errorf("output contains <%s: %s", tag, out)
				}
			}
		})
	}
}

func TestSanitizeHTML_EscapesWholeSpan(t *testing.T) {
	got := SanitizeHTML(`<p>x</p><script>alert(1)</script><p>y</p>`)
	want := `<p>x</p>&lt;script&gt;alert(1)&lt;/script&gt;<p>y</p>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSanitizeHTML_EventHandlers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`<img src="a.png" onerror="alert(1)">`, `<img src="a.png" >`},
		{`<svg onload=alert(1)>`, `<svg >`},
		{`<div onclick="a()" onmouseover="b()">x</div>`, `<div  >x</div>`},
		{`<a href="x" ONCLICK='y'>z</a>`, `<a href="x" >z</a>`},
		{`<p>one two</p>`, `<p>one two</p>`},
	}
	for _, tt := range tests {
		if got := SanitizeHTML(tt.in); got != tt.want {
			t.Errorf("SanitizeHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	in := `<a href="x">it's & more</a>`
	if got := Unescape(Escape(in)); got != in {
		t.Errorf("round trip = %q, want %q", got, in)
	}
}
