// Package markdown renders markdown text to HTML with the fixed phobost
// extension profile: tables, footnotes (including inline footnotes),
// autolinks, strikethrough, sub/superscript, alerts, spoilers, shortcodes,
// task lists, greentext and CJK-friendly emphasis. Every heading receives a
// namespaced anchor.
//
// A Renderer is built once at process start and is safe for concurrent use.
// It holds no per-call state, so the same input always yields byte-identical
// output.
//
//	r := markdown.New()
//	html := r.Render("# Title\n\n~~old~~ new")
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/agentstation/phobost/pkg/constants"
)

// Renderer converts markdown to HTML. The zero value is not usable; use New.
type Renderer struct {
	md       goldmark.Markdown
	idPrefix string
}

// Option configures a Renderer at construction time.
type Option func(*options)

type options struct {
	idPrefix string
}

// WithHeadingIDPrefix sets the namespace prepended to heading anchor ids.
func WithHeadingIDPrefix(prefix string) Option {
	return func(o *options) {
		o.idPrefix = prefix
	}
}

// New creates a Renderer with the fixed extension profile.
func New(opts ...Option) *Renderer {
	o := &options{idPrefix: constants.HeadingIDPrefix}
	for _, opt := range opts {
		opt(o)
	}

	md := goldmark.New(
		goldmark.WithParser(newParser()),
		goldmark.WithExtensions(
			extension.Table,
			extension.Linkify,
			extension.TaskList,
			extension.Footnote,
			emoji.New(emoji.WithRenderingMethod(emoji.Unicode)),
			Inline,
			Alerts,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(
				util.Prioritized(newHeadingRenderer(o.idPrefix), 100),
			),
		),
	)

	return &Renderer{md: md, idPrefix: o.idPrefix}
}

// HeadingIDPrefix returns the namespace used for heading anchors.
func (r *Renderer) HeadingIDPrefix() string {
	return r.idPrefix
}

// Render trims the input and converts it to HTML.
// Malformed markdown still produces best-effort HTML.
func (r *Renderer) Render(text string) string {
	return string(r.RenderBytes([]byte(text)))
}

// RenderBytes is Render for byte slices.
func (r *Renderer) RenderBytes(src []byte) []byte {
	src = bytes.TrimSpace(src)

	var buf bytes.Buffer
	pc := parser.NewContext(parser.WithIDs(newHeadingIDs()))
	// Conversion into a bytes.Buffer only fails on renderer bugs; whatever was
	// written so far is still the best-effort output.
	_ = r.md.Convert(src, &buf, parser.WithContext(pc))

	return buf.Bytes()
}

// newParser builds the default goldmark parser with the greentext
// blockquote rule and CJK-friendly emphasis in place of the stock parsers.
func newParser() parser.Parser {
	blocks := parser.DefaultBlockParsers()
	for i, v := range blocks {
		bp, ok := v.Value.(parser.BlockParser)
		if ok && string(bp.Trigger()) == ">" {
			blocks[i] = util.Prioritized(&greentextParser{BlockParser: bp}, v.Priority)
		}
	}

	inlines := parser.DefaultInlineParsers()
	for i, v := range inlines {
		ip, ok := v.Value.(parser.InlineParser)
		if ok && string(ip.Trigger()) == "*_" {
			inlines[i] = util.Prioritized(&emphasisParser{}, v.Priority)
		}
	}

	return parser.NewParser(
		parser.WithBlockParsers(blocks...),
		parser.WithInlineParsers(inlines...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)
}
