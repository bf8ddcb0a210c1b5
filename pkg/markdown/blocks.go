package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// greentextParser only opens a blockquote when '>' is followed by
// whitespace or ends the line, so ">implying" stays a paragraph.
type greentextParser struct {
	parser.BlockParser
}

func (b *greentextParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	if !quoteMarker(reader) {
		return nil, parser.NoChildren
	}
	return b.BlockParser.Open(parent, reader, pc)
}

func (b *greentextParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	if !quoteMarker(reader) {
		return parser.Close
	}
	return b.BlockParser.Continue(node, reader, pc)
}

func quoteMarker(reader text.Reader) bool {
	line, _ := reader.PeekLine()
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w > 3 || pos >= len(line) || line[pos] != '>' {
		return false
	}
	pos++
	if pos >= len(line) {
		return true
	}
	switch line[pos] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// KindAlert is the node kind of GitHub-style alert blocks.
var KindAlert = ast.NewNodeKind("Alert")

// Alert is a blockquote whose first line is a marker such as [!NOTE].
type Alert struct {
	ast.BaseBlock

	// AlertType is the lowercase marker name: note, tip, important,
	// warning or caution.
	AlertType string

	// Title is the heading shown above the alert body.
	Title string
}

func (n *Alert) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"AlertType": n.AlertType,
		"Title":     n.Title,
	}, nil)
}

func (n *Alert) Kind() ast.NodeKind { return KindAlert }

var alertMarker = regexp.MustCompile(`(?i)^\[!(note|tip|important|warning|caution)\](?:[ \t]+(.*))?$`)

// alertTransformer rewrites marked blockquotes into Alert nodes.
type alertTransformer struct{}

func (t *alertTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	var quotes []*ast.Blockquote
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if q, ok := n.(*ast.Blockquote); ok && entering {
			quotes = append(quotes, q)
		}
		return ast.WalkContinue, nil
	})

	source := reader.Source()
	for _, q := range quotes {
		para, ok := q.FirstChild().(*ast.Paragraph)
		if !ok || para.Lines().Len() == 0 {
			continue
		}
		first := para.Lines().At(0)
		m := alertMarker.FindSubmatch(bytes.TrimSpace(first.Value(source)))
		if m == nil {
			continue
		}

		alertType := strings.ToLower(string(m[1]))
		title := strings.TrimSpace(string(m[2]))
		if title == "" {
			title = strings.ToUpper(alertType[:1]) + alertType[1:]
		}

		dropMarkerLine(para, first.Stop)
		if para.ChildCount() == 0 {
			q.RemoveChild(q, para)
		}

		alert := &Alert{AlertType: alertType, Title: title}
		for c := q.FirstChild(); c != nil; {
			next := c.NextSibling()
			alert.AppendChild(alert, c)
			c = next
		}
		parent := q.Parent()
		parent.ReplaceChild(parent, q, alert)
	}
}

// dropMarkerLine removes the inline nodes that came from the marker line.
func dropMarkerLine(para *ast.Paragraph, stop int) {
	for c := para.FirstChild(); c != nil; {
		t, ok := c.(*ast.Text)
		if !ok || t.Segment.Start >= stop {
			return
		}
		next := c.NextSibling()
		para.RemoveChild(para, c)
		c = next
	}
}

type alertHTMLRenderer struct{}

func (r *alertHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAlert, r.renderAlert)
}

func (r *alertHTMLRenderer) renderAlert(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*Alert)
	if !entering {
		_, _ = w.WriteString("</div>\n")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<div class="markdown-alert markdown-alert-` + n.AlertType + "\">\n")
	_, _ = w.WriteString(`<p class="markdown-alert-title">`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.Title)))
	_, _ = w.WriteString("</p>\n")

	return ast.WalkContinue, nil
}

type alertExtension struct{}

// Alerts renders > [!NOTE] style blockquotes as alert boxes.
var Alerts goldmark.Extender = &alertExtension{}

func (e *alertExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithASTTransformers(util.Prioritized(&alertTransformer{}, 500)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(&alertHTMLRenderer{}, 500)),
	)
}
