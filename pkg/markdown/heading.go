package markdown

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// fallbackSlug is used for headings whose text has no word characters.
const fallbackSlug = "heading"

// Slugify converts heading text into an anchor slug: NFC-normalized,
// lowercased, punctuation removed, whitespace and hyphen runs collapsed to a
// single hyphen. The result may be empty.
func Slugify(text string) string {
	s := cases.Lower(language.Und).String(norm.NFC.String(text))

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsMark(r), unicode.IsDigit(r), r == '_':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-':
			pendingHyphen = true
		}
	}

	return b.String()
}

// headingIDs hands out unique heading slugs for a single document.
// It implements parser.IDs.
type headingIDs struct {
	seen map[string]bool
}

func newHeadingIDs() *headingIDs {
	return &headingIDs{seen: make(map[string]bool)}
}

// Generate returns a slug for value that is unique within the document.
// Repeats get -1, -2 ... suffixes.
func (s *headingIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	slug := Slugify(string(value))
	if slug == "" {
		slug = fallbackSlug
	}

	candidate := slug
	for i := 1; s.seen[candidate]; i++ {
		candidate = slug + "-" + strconv.Itoa(i)
	}
	s.seen[candidate] = true

	return []byte(candidate)
}

// Put reserves an id that was assigned explicitly.
func (s *headingIDs) Put(value []byte) {
	s.seen[string(value)] = true
}

// headingRenderer writes headings with a leading self-link anchor:
//
//	<h1><a href="#slug" aria-hidden="true" class="anchor" id="md-hd-slug"></a>Title</h1>
type headingRenderer struct {
	prefix string
}

func newHeadingRenderer(prefix string) renderer.NodeRenderer {
	return &headingRenderer{prefix: prefix}
}

func (r *headingRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
}

func (r *headingRenderer) renderHeading(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	level := strconv.Itoa(n.Level)

	if !entering {
		_, _ = w.WriteString("</h" + level + ">\n")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString("<h" + level + ">")
	if slug := headingSlug(n); slug != "" {
		escaped := string(util.EscapeHTML([]byte(slug)))
		_, _ = w.WriteString(`<a href="#` + escaped + `" aria-hidden="true" class="anchor" id="` + r.prefix + escaped + `"></a>`)
	}

	return ast.WalkContinue, nil
}

func headingSlug(n *ast.Heading) string {
	v, ok := n.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	default:
		return ""
	}
}
