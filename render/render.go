// Package render turns a document tree into text. Renderers never mutate
// the tree.
package render

import "github.com/alimasry/go-html-editor/dom"

// Strategy renders a whole document.
type Strategy interface {
	Render(t *dom.Tree, showID bool) string
}

// Display renders t with s. A nil strategy is a programming error.
func Display(s Strategy, t *dom.Tree, showID bool) string {
	if s == nil {
		panic("render: no strategy configured")
	}
	return s.Render(t, showID)
}

// structural tags never show their id.
var structural = map[string]bool{
	"html":  true,
	"head":  true,
	"title": true,
	"body":  true,
}

// IsStructural reports whether tag is one of html, head, title or body.
func IsStructural(tag string) bool { return structural[tag] }
