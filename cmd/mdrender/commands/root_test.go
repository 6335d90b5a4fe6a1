package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "SECURITY_MARKDOWN_ESCAPE", "SECURITY_ALLOWED_PROTOCOLS", "SECURITY_MARKDOWN_HARDENED", "INDEX_URL",
	} {
		t.Setenv(k, "")
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("mdrender %v: %v", args, err)
	}
	return out.String()
}

func TestRender_Defaults(t *testing.T) {
	out := run(t, "**hi** <script>x</script>")
	if !strings.HasPrefix(out, `<div class="markdown">`) {
		t.Errorf("missing wrapper: %q", out)
	}
	if !strings.Contains(out, "<strong>hi</strong>") || !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRender_Flags(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"raw html allowed", "<b>x</b>", []string{"--escape=false"}, "<b>x</b>"},
		{"protocol rewritten", "[a](gopher://x)", nil, `href="http://x"`},
		{"entity scheme rewritten", "[a](javascript&#58;x)", nil, `href="http://x"`},
		{"protocol allowed", "[a](gopher://x)", []string{"--protocols", "gopher"}, `href="gopher://x"`},
		{"formatting first", "see http://a.example #go", []string{"--format"}, `title="Hashtag go"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if out := run(t, tt.stdin, tt.args...); !strings.Contains(out, tt.want) {
				t.Errorf("output %q missing %q", out, tt.want)
			}
		})
	}
}

func TestRender_FileAndConfig(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "desc.md")
	if err := os.WriteFile(src, []byte("<i>x</i>"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfg, []byte("security:\n  markdown_escape: false\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out := run(t, "", "--config", cfg, src)
	if !strings.Contains(out, "<i>x</i>") {
		t.Errorf("config file not applied: %q", out)
	}
}

func TestRender_Hardened(t *testing.T) {
	in := "<form>y</form>"
	if out := run(t, in, "--escape=false"); !strings.Contains(out, "<form>") {
		t.Errorf("plain render dropped raw html: %q", out)
	}
	out := run(t, in, "--escape=false", "--hardened")
	if strings.Contains(out, "<form") || !strings.Contains(out, "y") {
		t.Errorf("hardened render kept form: %q", out)
	}
}
