// Package htmlio reads and writes documents as nested-tag markup.
package htmlio

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/alimasry/go-html-editor/dom"
)

// voids have no end tag in ordinary markup. Write always emits one, so a
// void element is only treated as empty when no matching end tag follows.
var voids = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

type token struct {
	kind html.TokenType
	name string // as written
	id   string
	text string
}

type frame struct {
	node     dom.NodeID
	name     string
	texts    []string
	hasChild bool
}

type builder struct {
	tree       *dom.Tree
	toks       []token
	closed     map[int]bool
	stack      []frame
	rootOpen   bool
	headFilled bool
}

// ParseString parses markup held in a string.
func ParseString(content string) (*dom.Tree, error) {
	return Parse(strings.NewReader(content))
}

// Parse builds a document from markup. Top-level elements of the source's
// head and body become children of the document's head and body. Only the
// id attribute is kept; a missing id defaults to the tag. Tag names keep
// their case. An element's text is its direct text, trimmed and joined by
// single spaces. Bare text under body that follows an element becomes a
// "text" element.
//
// The tokenizer is used rather than the HTML5 tree builder so that nesting
// is taken as written, which keeps Parse the inverse of Write.
func Parse(r io.Reader) (*dom.Tree, error) {
	toks, err := lex(r)
	if err != nil {
		return nil, err
	}
	b := &builder{tree: dom.New(), toks: toks, closed: make(map[int]bool)}
	for i, t := range toks {
		switch t.kind {
		case html.StartTagToken:
			b.open(t, voids[strings.ToLower(t.name)] && !b.hasEnd(i))
		case html.SelfClosingTagToken:
			b.open(t, true)
		case html.EndTagToken:
			b.close(t.name)
		case html.TextToken:
			b.text(t.text)
		}
	}
	b.closeAll()
	return b.tree, nil
}

// lex reads every tag and text token. Raw-text handling is switched off so
// that title, script, style and textarea may hold elements.
func lex(r io.Reader) ([]token, error) {
	z := html.NewTokenizer(r)
	var toks []token
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return toks, nil
			}
			return nil, fmt.Errorf("parse markup: %w", z.Err())
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			if tt != html.EndTagToken {
				z.NextIsNotRawText()
			}
			// Token lowercases the name in place, so read it first.
			name := rawName(z.Raw())
			tok := z.Token()
			toks = append(toks, token{kind: tt, name: name, id: attr(tok, "id")})
		case html.TextToken:
			toks = append(toks, token{kind: tt, text: string(z.Text())})
		}
	}
}

func rawName(raw []byte) string {
	s := strings.TrimPrefix(string(raw), "<")
	s = strings.TrimPrefix(s, "/")
	if i := strings.IndexAny(s, " \t\n\f\r/>"); i >= 0 {
		s = s[:i]
	}
	return s
}

// hasEnd reports whether the void start tag at i is closed by its own end
// tag before its parent is.
func (b *builder) hasEnd(i int) bool {
	if v, ok := b.closed[i]; ok {
		return v
	}
	res := false
	depth := 0
scan:
	for j := i + 1; j < len(b.toks); j++ {
		t := b.toks[j]
		switch t.kind {
		case html.StartTagToken:
			if voids[strings.ToLower(t.name)] && !b.hasEnd(j) {
				continue
			}
			depth++
		case html.EndTagToken:
			if depth == 0 {
				res = strings.EqualFold(t.name, b.toks[i].name)
				break scan
			}
			depth--
		}
	}
	b.closed[i] = res
	return res
}

func (b *builder) top() *frame {
	if len(b.stack) == 0 {
		return nil
	}
	return &b.stack[len(b.stack)-1]
}

// atTop reports whether the next element sits directly under the root.
func (b *builder) atTop() bool {
	f := b.top()
	return f == nil || f.node == b.tree.Root()
}

func (b *builder) open(t token, empty bool) {
	lower := strings.ToLower(t.name)
	switch {
	case lower == "html" && len(b.stack) == 0 && !b.rootOpen:
		b.rootOpen = true
		if !empty {
			b.stack = append(b.stack, frame{node: b.tree.Root(), name: t.name})
		}
		return
	case (lower == "head" || lower == "body") && b.atTop():
		if f := b.top(); f != nil {
			f.hasChild = true
		}
		n := b.tree.Body()
		if lower == "head" {
			n = b.tree.Head()
			if !b.headFilled {
				// The source head replaces the default title.
				for _, c := range b.tree.Children(n) {
					b.tree.RemoveChild(n, c)
				}
				b.headFilled = true
			}
		}
		if !empty {
			b.stack = append(b.stack, frame{node: n, name: t.name})
		}
		return
	}

	parent := b.tree.Body()
	if f := b.top(); f != nil && f.node != b.tree.Root() {
		parent = f.node
		f.hasChild = true
	} else {
		if f != nil {
			f.hasChild = true
		}
		b.markBody()
	}

	n := b.tree.NewElement(t.name, t.id, "")
	b.tree.AddChild(parent, n)
	if !empty {
		b.stack = append(b.stack, frame{node: n, name: t.name})
	}
}

// markBody records that body has a child, when body is on the stack.
func (b *builder) markBody() {
	for i := range b.stack {
		if b.stack[i].node == b.tree.Body() {
			b.stack[i].hasChild = true
		}
	}
}

func (b *builder) close(name string) {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if strings.EqualFold(b.stack[i].name, name) {
			for len(b.stack) > i {
				b.pop()
			}
			return
		}
	}
}

func (b *builder) closeAll() {
	for len(b.stack) > 0 {
		b.pop()
	}
}

func (b *builder) pop() {
	f := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if len(f.texts) == 0 {
		return
	}
	b.tree.SetText(f.node, strings.Join(f.texts, " "))
}

func (b *builder) text(raw string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return
	}
	f := b.top()
	switch {
	case f == nil:
		b.strayText(s)
	case f.node == b.tree.Body() && f.hasChild:
		b.strayText(s)
	case f.node == b.tree.Head() && f.hasChild, f.node == b.tree.Root() && f.hasChild:
		// stray text between head elements or around body is dropped
	default:
		f.texts = append(f.texts, s)
	}
}

// strayText adds bare body text as a "text" element.
func (b *builder) strayText(s string) {
	b.tree.AddChild(b.tree.Body(), b.tree.NewElement("text", "text", s))
	b.markBody()
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
