package render

import (
	"strings"

	"github.com/alimasry/go-html-editor/dom"
)

const DefaultIndent = 2

// IndentView prints nested tags, IndentSize spaces per level. Every tag
// line ends with a newline.
type IndentView struct {
	IndentSize int
}

func NewIndentView(size int) IndentView {
	return IndentView{IndentSize: size}
}

func (v IndentView) Render(t *dom.Tree, showID bool) string {
	var b strings.Builder
	Markup(&b, t, t.Root(), v.size(), showID, nil)
	return b.String()
}

func (v IndentView) size() int {
	if v.IndentSize <= 0 {
		return DefaultIndent
	}
	return v.IndentSize
}

// Markup writes the subtree at n in indented tag form. escape, when not
// nil, is applied to ids and text.
func Markup(b *strings.Builder, t *dom.Tree, n dom.NodeID, size int, showID bool, escape func(string) string) {
	markup(b, t, n, 0, size, showID, escape)
}

func markup(b *strings.Builder, t *dom.Tree, n dom.NodeID, level, size int, showID bool, escape func(string) string) {
	if escape == nil {
		escape = func(s string) string { return s }
	}
	indent := strings.Repeat(" ", level*size)
	tag := t.Tag(n)
	text := t.Text(n)
	kids := t.Children(n)

	b.WriteString(indent)
	b.WriteString("<")
	b.WriteString(tag)
	if showID && !IsStructural(tag) {
		b.WriteString(` id="`)
		b.WriteString(escape(t.ID(n)))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	b.WriteString(escape(text))

	if len(kids) == 0 {
		b.WriteString("</" + tag + ">\n")
		return
	}
	b.WriteString("\n")
	for _, c := range kids {
		markup(b, t, c, level+1, size, showID, escape)
	}
	b.WriteString(indent + "</" + tag + ">\n")
}
