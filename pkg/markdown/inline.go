package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Node kinds for the inline extensions that goldmark does not ship.
var (
	KindSubscript      = ast.NewNodeKind("Subscript")
	KindSuperscript    = ast.NewNodeKind("Superscript")
	KindSpoiler        = ast.NewNodeKind("Spoiler")
	KindInlineFootnote = ast.NewNodeKind("InlineFootnote")
)

// Subscript is an inline ~text~ span.
type Subscript struct {
	ast.BaseInline
}

func (n *Subscript) Dump(source []byte, level int) { ast.DumpHelper(n, source, level, nil, nil) }
func (n *Subscript) Kind() ast.NodeKind           { return KindSubscript }

// Superscript is an inline ^text^ span.
type Superscript struct {
	ast.BaseInline
}

func (n *Superscript) Dump(source []byte, level int) { ast.DumpHelper(n, source, level, nil, nil) }
func (n *Superscript) Kind() ast.NodeKind           { return KindSuperscript }

// Spoiler is an inline ||text|| span.
type Spoiler struct {
	ast.BaseInline
}

func (n *Spoiler) Dump(source []byte, level int) { ast.DumpHelper(n, source, level, nil, nil) }
func (n *Spoiler) Kind() ast.NodeKind           { return KindSpoiler }

// InlineFootnote is a ^[text] note. Content is the source range between
// the brackets; the inline footnote transformer parses it and turns the node
// into a regular footnote reference before rendering.
type InlineFootnote struct {
	ast.BaseInline
	Content text.Segment
}

func (n *InlineFootnote) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Content": string(n.Content.Value(source)),
	}, nil)
}

func (n *InlineFootnote) Kind() ast.NodeKind { return KindInlineFootnote }

// tildeDelimiters matches ~ runs: a pair of doubles is strikethrough, a pair
// of singles is subscript.
type tildeDelimiters struct{}

func (p *tildeDelimiters) IsDelimiter(b byte) bool { return b == '~' }

func (p *tildeDelimiters) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

func (p *tildeDelimiters) OnMatch(consumes int) ast.Node {
	if consumes >= 2 {
		return east.NewStrikethrough()
	}
	return &Subscript{}
}

type superscriptDelimiters struct{}

func (p *superscriptDelimiters) IsDelimiter(b byte) bool { return b == '^' }

func (p *superscriptDelimiters) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

func (p *superscriptDelimiters) OnMatch(int) ast.Node { return &Superscript{} }

type spoilerDelimiters struct{}

func (p *spoilerDelimiters) IsDelimiter(b byte) bool { return b == '|' }

func (p *spoilerDelimiters) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

func (p *spoilerDelimiters) OnMatch(int) ast.Node { return &Spoiler{} }

// delimiterParser pushes runs of a single delimiter byte whose length lies in
// [min, max] onto the delimiter stack.
type delimiterParser struct {
	char      byte
	min, max  int
	processor parser.DelimiterProcessor
}

func (s *delimiterParser) Trigger() []byte {
	return []byte{s.char}
}

func (s *delimiterParser) Parse(_ ast.Node, block text.Reader, pc parser.Context) ast.Node {
	before := block.PrecendingCharacter()
	if before == rune(s.char) {
		return nil
	}

	line, segment := block.PeekLine()
	node := scanDelimiter(line, before, s.min, s.processor)
	if node == nil || node.OriginalLength > s.max {
		return nil
	}

	node.Segment = segment.WithStop(segment.Start + node.OriginalLength)
	block.Advance(node.OriginalLength)
	pc.PushDelimiter(node)

	return node
}

func (s *delimiterParser) CloseBlock(ast.Node, parser.Context) {}

// inlineFootnoteParser parses ^[text] with balanced brackets on one line.
// Notes nested inside a note stay literal text.
type inlineFootnoteParser struct{}

func (s *inlineFootnoteParser) Trigger() []byte {
	return []byte{'^'}
}

func (s *inlineFootnoteParser) Parse(_ ast.Node, block text.Reader, pc parser.Context) ast.Node {
	if pc.Get(inlineNoteKey) != nil {
		return nil
	}

	line, segment := block.PeekLine()
	if len(line) < 4 || line[0] != '^' || line[1] != '[' {
		return nil
	}

	end := closingBracket(line, 1)
	if end <= 2 {
		return nil
	}

	node := &InlineFootnote{Content: text.NewSegment(segment.Start+2, segment.Start+end)}
	block.Advance(end + 1)

	return node
}

func (s *inlineFootnoteParser) CloseBlock(ast.Node, parser.Context) {}

// closingBracket returns the index of the ']' balancing the '[' at open, or
// -1. Backslash escapes are skipped.
func closingBracket(line []byte, open int) int {
	depth := 0
	for i := open; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		case '\n':
			return -1
		}
	}
	return -1
}

// inlineHTMLRenderer renders the custom inline nodes.
type inlineHTMLRenderer struct{}

func (r *inlineHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindSubscript, wrapTag("<sub>", "</sub>"))
	reg.Register(KindSuperscript, wrapTag("<sup>", "</sup>"))
	reg.Register(KindSpoiler, wrapTag(`<span class="spoiler">`, "</span>"))
}

func wrapTag(open, closing string) renderer.NodeRendererFunc {
	return func(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			_, _ = w.WriteString(open)
		} else {
			_, _ = w.WriteString(closing)
		}
		return ast.WalkContinue, nil
	}
}

type inlineExtension struct{}

// Inline adds strikethrough, subscript, superscript, spoiler and inline
// footnote syntax. Inline footnotes need extension.Footnote for rendering.
var Inline goldmark.Extender = &inlineExtension{}

func (e *inlineExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(&inlineFootnoteParser{}, 450),
			util.Prioritized(&delimiterParser{char: '~', min: 1, max: 2, processor: &tildeDelimiters{}}, 500),
			util.Prioritized(&delimiterParser{char: '^', min: 1, max: 1, processor: &superscriptDelimiters{}}, 500),
			util.Prioritized(&delimiterParser{char: '|', min: 2, max: 2, processor: &spoilerDelimiters{}}, 500),
		),
		parser.WithASTTransformers(
			util.Prioritized(&inlineFootnoteTransformer{md: m}, 1000),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(extension.NewStrikethroughHTMLRenderer(), 500),
			util.Prioritized(&inlineHTMLRenderer{}, 500),
		),
	)
}
