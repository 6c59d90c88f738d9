package htmlio

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/alimasry/go-html-editor/dom"
	"github.com/alimasry/go-html-editor/render"
)

// Write serializes t in the same layout as the indent view with a two-space
// indent, escaping ids and text. Ids are written when showID is set, which
// is what persistence wants; without them the ids fall back to tag names on
// the next Parse.
func Write(w io.Writer, t *dom.Tree, showID bool) error {
	var b strings.Builder
	render.Markup(&b, t, t.Root(), render.DefaultIndent, showID, html.EscapeString)
	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the serialized document.
func String(t *dom.Tree, showID bool) string {
	var b strings.Builder
	render.Markup(&b, t, t.Root(), render.DefaultIndent, showID, html.EscapeString)
	return b.String()
}
