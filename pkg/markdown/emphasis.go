package markdown

import (
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// emphasisDelimiters matches * and _ runs into emphasis and strong emphasis.
type emphasisDelimiters struct{}

func (p *emphasisDelimiters) IsDelimiter(b byte) bool { return b == '*' || b == '_' }

func (p *emphasisDelimiters) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

func (p *emphasisDelimiters) OnMatch(consumes int) ast.Node {
	return ast.NewEmphasis(consumes)
}

// emphasisParser replaces the stock goldmark emphasis parser with one that
// uses CJK-friendly flanking.
type emphasisParser struct{}

func (s *emphasisParser) Trigger() []byte {
	return []byte{'*', '_'}
}

func (s *emphasisParser) Parse(_ ast.Node, block text.Reader, pc parser.Context) ast.Node {
	before := block.PrecendingCharacter()
	line, segment := block.PeekLine()
	node := scanDelimiter(line, before, 1, &emphasisDelimiters{})
	if node == nil {
		return nil
	}
	node.Segment = segment.WithStop(segment.Start + node.OriginalLength)
	block.Advance(node.OriginalLength)
	pc.PushDelimiter(node)
	return node
}

// scanDelimiter reads a delimiter run at the start of line. It follows the
// CommonMark flanking rules, except that a run touching a CJK character on
// either side may open or close even when the inner neighbour is
// punctuation. This lets "**テキスト。**は" close after the full stop.
func scanDelimiter(line []byte, before rune, minimum int, processor parser.DelimiterProcessor) *parser.Delimiter {
	c := line[0]
	if !processor.IsDelimiter(c) {
		return nil
	}
	j := 0
	for j < len(line) && line[j] == c {
		j++
	}
	if j < minimum {
		return nil
	}

	after := ' '
	if j != len(line) {
		after = util.ToRune(line, j)
	}

	beforePunct := util.IsPunctRune(before)
	beforeSpace := util.IsSpaceRune(before)
	afterPunct := util.IsPunctRune(after)
	afterSpace := util.IsSpaceRune(after)
	nearCJK := isCJK(before) || isCJK(after)

	left := !afterSpace && (!afterPunct || beforeSpace || beforePunct || nearCJK)
	right := !beforeSpace && (!beforePunct || afterSpace || afterPunct || nearCJK)

	var canOpen, canClose bool
	if c == '_' {
		canOpen = left && (!right || beforePunct)
		canClose = right && (!left || afterPunct)
	} else {
		canOpen = left
		canClose = right
	}
	return parser.NewDelimiter(canOpen, canClose, j, c, processor)
}

// isCJK reports whether r is a CJK ideograph, kana, hangul or CJK
// punctuation. Ideographic space counts as whitespace, not CJK.
func isCJK(r rune) bool {
	if util.IsSpaceRune(r) {
		return false
	}
	switch {
	case r >= 0x3000 && r <= 0x303F, // CJK symbols and punctuation
		r >= 0xFF00 && r <= 0xFFEF: // halfwidth and fullwidth forms
		return true
	}
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul, unicode.Bopomofo)
}
