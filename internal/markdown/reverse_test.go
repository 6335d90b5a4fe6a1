package markdown

import "testing"

const hashtagGo = `<a href="?addtag=go" title="Hashtag go">#go</a>`

func TestReverseNl2br(t *testing.T) {
	got := ReverseNl2br("a<br>b<BR/>c<br />\nd<br  />")
	if got != "abc\nd" {
		t.Errorf("ReverseNl2br = %q", got)
	}
}

func TestReverseSpace2Nbsp(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"&nbsp; &nbsp; code", "    code"},
		{"a&nbsp;b", "a&nbsp;b"},
		{"line\n&nbsp;indented", "line\n indented"},
		{"plain text", "plain text"},
	}
	for _, tt := range tests {
		if got := ReverseSpace2Nbsp(tt.in); got != tt.want {
			t.Errorf("ReverseSpace2Nbsp(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReverseText2Clickable(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain link in prose",
			in:   `see <a href="http://a.example/c">http://a.example/c</a> now`,
			want: "see http://a.example/c now",
		},
		{
			name: "hashtag in prose is kept",
			in:   "tagged " + hashtagGo,
			want: "tagged " + hashtagGo,
		},
		{
			name: "hashtag in fenced block",
			in:   "```\n" + hashtagGo + "\n```",
			want: "```\n#go\n```",
		},
		{
			name: "hashtag after closed fence is kept",
			in:   "```\nx\n```\n" + hashtagGo,
			want: "```\nx\n```\n" + hashtagGo,
		},
		{
			name: "hashtag in inline code",
			in:   "`x " + hashtagGo + "`",
			want: "`x #go`",
		},
		{
			name: "hashtag in indented code",
			in:   "    " + hashtagGo,
			want: "    #go",
		},
		{
			name: "link in indented code",
			in:   `    <a href="http://a.example">http://a.example</a>`,
			want: "    http://a.example",
		},
		{
			name: "indented bullet is not code",
			in:   "    - " + hashtagGo,
			want: "    - " + hashtagGo,
		},
		{
			name: "indented ordered item is not code",
			in:   "    1. " + hashtagGo,
			want: "    1. " + hashtagGo,
		},
		{
			name: "text without links",
			in:   "plain\ntext\n",
			want: "plain\ntext\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReverseText2Clickable(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsIndentedCode(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"    code", true},
		{"        deeper", true},
		{"   three", false},
		{"    ", false},
		{"    + item", false},
		{"    * item", false},
		{"    - item", false},
		{"    2. item", false},
		{"    2nd", true},
	}
	for _, tt := range tests {
		if got := isIndentedCode(tt.line); got != tt.want {
			t.Errorf("isIndentedCode(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestHashtagsToMarkdown(t *testing.T) {
	got := HashtagsToMarkdown("tagged " + hashtagGo + " and `code`")
	want := `tagged [#go](?addtag=go "Hashtag go") and ` + "`code`"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := HashtagsToMarkdown(`<a href="http://x">x</a>`); got != `<a href="http://x">x</a>` {
		t.Errorf("plain link changed: %q", got)
	}
}
