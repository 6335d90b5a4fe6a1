package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Converter turns markdown into HTML.
//
// When escapeHTML is set, raw HTML in the source must come out as escaped
// text. When hardBreaks is set, a single newline becomes a line break.
type Converter interface {
	Convert(source string, escapeHTML, hardBreaks bool) (string, error)
}

// GoldmarkConverter is the default Converter. It is safe for concurrent use.
type GoldmarkConverter struct {
	// indexed by [escapeHTML][hardBreaks]
	md [2][2]goldmark.Markdown
}

// ConverterOption configures a GoldmarkConverter.
type ConverterOption func(*converterConfig)

type converterConfig struct {
	allowedProtocols []string
}

// WithAllowedProtocols restricts linkify and every link destination seen
// by the parser to the given schemes (http and https are always allowed).
func WithAllowedProtocols(protocols []string) ConverterOption {
	return func(c *converterConfig) {
		c.allowedProtocols = protocols
	}
}

// NewGoldmarkConverter builds a converter with GFM enabled.
func NewGoldmarkConverter(opts ...ConverterOption) *GoldmarkConverter {
	var cfg converterConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &GoldmarkConverter{}
	for e := 0; e < 2; e++ {
		for b := 0; b < 2; b++ {
			c.md[e][b] = newGoldmark(cfg, e == 1, b == 1)
		}
	}
	return c
}

func newGoldmark(cfg converterConfig, escapeHTML, hardBreaks bool) goldmark.Markdown {
	linkify := extension.NewLinkify(
		extension.WithLinkifyAllowedProtocols(linkifyProtocols(cfg.allowedProtocols)),
	)

	rendererOpts := []renderer.Option{html.WithXHTML()}
	if hardBreaks {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}
	if escapeHTML {
		rendererOpts = append(rendererOpts, renderer.WithNodeRenderers(
			util.Prioritized(&escapedHTMLRenderer{}, 100),
		))
	} else {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	return goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			linkify,
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&protocolTransformer{allowed: cfg.allowedProtocols}, 1000),
			),
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)
}

func linkifyProtocols(allowed []string) [][]byte {
	protocols := [][]byte{[]byte("http:"), []byte("https:")}
	for _, p := range allowed {
		p = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(p), ":"))
		if p != "" && !schemeAllowed(p, nil) {
			protocols = append(protocols, []byte(p+":"))
		}
	}
	return protocols
}

// Convert implements Converter.
func (c *GoldmarkConverter) Convert(source string, escapeHTML, hardBreaks bool) (string, error) {
	md := c.md[btoi(escapeHTML)][btoi(hardBreaks)]
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// protocolTransformer applies WhitelistProtocol to destinations the
// `](url)` filter cannot see, such as reference links and autolinks.
type protocolTransformer struct {
	allowed []string
}

func (t *protocolTransformer) Transform(node *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	var autoLinks []*ast.AutoLink

	//nolint:errcheck // walker never returns an error
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Link:
			v.Destination = []byte(WhitelistProtocol(string(v.Destination), t.allowed))
		case *ast.Image:
			v.Destination = []byte(WhitelistProtocol(string(v.Destination), t.allowed))
		case *ast.AutoLink:
			if v.AutoLinkType == ast.AutoLinkURL {
				autoLinks = append(autoLinks, v)
			}
		}
		return ast.WalkContinue, nil
	})

	// Autolink URLs are read from the source, so a rewritten one becomes
	// a regular link. Replaced after the walk to keep sibling links intact.
	for _, al := range autoLinks {
		url := string(al.URL(source))
		safe := WhitelistProtocol(url, t.allowed)
		if safe == url {
			continue
		}
		link := ast.NewLink()
		link.Destination = []byte(safe)
		link.AppendChild(link, ast.NewString(al.Label(source)))
		parent := al.Parent()
		parent.ReplaceChild(parent, al, link)
	}
}

// escapedHTMLRenderer prints raw HTML as text instead of omitting it.
type escapedHTMLRenderer struct{}

func (r *escapedHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHTMLBlock, r.renderHTMLBlock)
	reg.Register(ast.KindRawHTML, r.renderRawHTML)
}

func (r *escapedHTMLRenderer) renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.HTMLBlock)
	if !entering {
		return ast.WalkContinue, nil
	}
	var block []byte
	for i := 0; i < n.Lines().Len(); i++ {
		line := n.Lines().At(i)
		block = append(block, line.Value(source)...)
	}
	if n.HasClosure() {
		block = append(block, n.ClosureLine.Value(source)...)
	}
	block = bytes.TrimRight(block, "\n")
	_, _ = w.WriteString("<p>")
	_, _ = w.Write(bytes.ReplaceAll(util.EscapeHTML(block), []byte("\n"), []byte("<br />\n")))
	_, _ = w.WriteString("</p>\n")
	return ast.WalkContinue, nil
}

func (r *escapedHTMLRenderer) renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	for i := 0; i < n.Segments.Len(); i++ {
		segment := n.Segments.At(i)
		_, _ = w.Write(util.EscapeHTML(segment.Value(source)))
	}
	return ast.WalkSkipChildren, nil
}
