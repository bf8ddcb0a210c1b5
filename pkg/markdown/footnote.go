package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// inlineNoteKey marks the parser context used for the body of an inline note.
var inlineNoteKey = parser.NewContextKey()

// inlineFootnoteTransformer turns InlineFootnote nodes into footnotes and
// renumbers every footnote by the position of its first reference, so inline
// and reference-style notes share one sequence in document order. It runs
// after the footnote extension's transformer has built the footnote list.
type inlineFootnoteTransformer struct {
	md goldmark.Markdown
}

func (t *inlineFootnoteTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	var refs []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *InlineFootnote:
			refs = append(refs, n)
			return ast.WalkSkipChildren, nil
		case *east.FootnoteLink:
			refs = append(refs, n)
		}
		return ast.WalkContinue, nil
	})

	notes := 0
	for _, n := range refs {
		if _, ok := n.(*InlineFootnote); ok {
			notes++
		}
	}
	if notes == 0 {
		return
	}

	list := footnoteList(doc)
	renumbered := map[int]int{}
	next := 0
	for _, n := range refs {
		switch ref := n.(type) {
		case *east.FootnoteLink:
			index, ok := renumbered[ref.Index]
			if !ok {
				next++
				index = next
				renumbered[ref.Index] = index
			}
			ref.Index = index

		case *InlineFootnote:
			next++
			link := east.NewFootnoteLink(next)
			link.RefCount = 1
			parent := ref.Parent()
			parent.ReplaceChild(parent, ref, link)
			list.AppendChild(list, t.footnote(next, ref, reader.Source()))
		}
	}

	for c := list.FirstChild(); c != nil; c = c.NextSibling() {
		fn := c.(*east.Footnote)
		if fn.Ref == nil {
			continue
		}
		if index, ok := renumbered[fn.Index]; ok {
			fn.Index = index
		}
		_ = ast.Walk(fn, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if back, ok := n.(*east.FootnoteBacklink); ok && entering {
				if index, ok := renumbered[back.Index]; ok {
					back.Index = index
				}
			}
			return ast.WalkContinue, nil
		})
	}

	list.Count = next
	list.SortChildren(func(a, b ast.Node) int {
		return a.(*east.Footnote).Index - b.(*east.Footnote).Index
	})
}

// footnote builds the footnote for an inline note, parsing its content as
// inline markdown against the same source.
func (t *inlineFootnoteTransformer) footnote(index int, note *InlineFootnote, source []byte) *east.Footnote {
	para := ast.NewParagraph()
	for _, c := range t.parseContent(note.Content, source) {
		para.AppendChild(para, c)
	}
	back := east.NewFootnoteBacklink(index)
	back.RefCount = 1
	para.AppendChild(para, back)

	fn := east.NewFootnote(nil)
	fn.Index = index
	fn.AppendChild(fn, para)
	return fn
}

// parseContent parses the note body with the document's parser. Content that
// does not parse to a single paragraph is kept as literal text.
func (t *inlineFootnoteTransformer) parseContent(content text.Segment, source []byte) []ast.Node {
	lines := text.NewSegments()
	lines.Append(content)

	pc := parser.NewContext()
	pc.Set(inlineNoteKey, true)
	sub := t.md.Parser().Parse(text.NewBlockReader(source, lines), parser.WithContext(pc))

	para, ok := sub.FirstChild().(*ast.Paragraph)
	if !ok || para.NextSibling() != nil {
		return []ast.Node{ast.NewTextSegment(content)}
	}

	var nodes []ast.Node
	for c := para.FirstChild(); c != nil; c = c.NextSibling() {
		nodes = append(nodes, c)
	}
	for _, c := range nodes {
		para.RemoveChild(para, c)
	}
	return nodes
}

// footnoteList returns the document's footnote list, creating it when the
// document has no reference-style footnotes.
func footnoteList(doc *ast.Document) *east.FootnoteList {
	if list, ok := doc.LastChild().(*east.FootnoteList); ok {
		return list
	}
	list := east.NewFootnoteList()
	doc.AppendChild(doc, list)
	return list
}
