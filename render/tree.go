package render

import (
	"strings"

	"github.com/alimasry/go-html-editor/dom"
)

const (
	branch = "├── "
	corner = "└── "
	pipe   = "│   "
	blank  = "    "
)

// TreeView draws the document with box connectors, one node per line.
// Text content is drawn as an extra leaf ahead of the element children.
type TreeView struct {
	// Flagged, when set, prefixes matching nodes with "[X] ".
	Flagged func(n dom.NodeID) bool
}

func (v TreeView) Render(t *dom.Tree, showID bool) string {
	var lines []string
	root := t.Root()
	lines = append(lines, v.label(t, root, showID))
	v.body(t, root, "", showID, &lines)
	return strings.Join(lines, "\n")
}

func (v TreeView) label(t *dom.Tree, n dom.NodeID, showID bool) string {
	var b strings.Builder
	if v.Flagged != nil && v.Flagged(n) {
		b.WriteString("[X] ")
	}
	tag := t.Tag(n)
	b.WriteString(tag)
	if showID && !IsStructural(tag) {
		b.WriteString("#")
		b.WriteString(t.ID(n))
	}
	return b.String()
}

// body emits n's text line and children; prefix is the column prefix
// shared by all of them.
func (v TreeView) body(t *dom.Tree, n dom.NodeID, prefix string, showID bool, lines *[]string) {
	kids := t.Children(n)
	if text := t.Text(n); text != "" {
		conn := corner
		if len(kids) > 0 {
			conn = branch
		}
		*lines = append(*lines, prefix+conn+text)
	}
	for i, c := range kids {
		last := i == len(kids)-1
		conn, next := branch, pipe
		if last {
			conn, next = corner, blank
		}
		*lines = append(*lines, prefix+conn+v.label(t, c, showID))
		v.body(t, c, prefix+next, showID, lines)
	}
}
