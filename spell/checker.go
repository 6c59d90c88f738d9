// Package spell finds unknown words in element text.
package spell

import (
	"strings"
	"unicode"

	"github.com/alimasry/go-html-editor/dom"
)

// Misspelling is an unknown word found in an element's text.
type Misspelling struct {
	ElementID string
	Node      dom.NodeID
	Word      string
}

// Checker reports unknown words in a document.
type Checker interface {
	Check(t *dom.Tree) []Misspelling
	Suggest(word string) []string
}

// DictionaryChecker checks words against a Dictionary.
type DictionaryChecker struct {
	dict *Dictionary
}

func NewChecker(dict *Dictionary) *DictionaryChecker {
	if dict == nil {
		dict = DefaultDictionary()
	}
	return &DictionaryChecker{dict: dict}
}

// Check walks the document in pre-order and returns unknown words in the
// order they appear.
func (c *DictionaryChecker) Check(t *dom.Tree) []Misspelling {
	var out []Misspelling
	t.Walk(func(n dom.NodeID, _ int) bool {
		for _, w := range Words(t.Text(n)) {
			if !c.dict.Known(w) {
				out = append(out, Misspelling{ElementID: t.ID(n), Node: n, Word: w})
			}
		}
		return true
	})
	return out
}

func (c *DictionaryChecker) Suggest(word string) []string {
	return c.dict.Candidates(word)
}

const punctuation = `.,!?()[]{}":;`

// Words splits text into checkable words: punctuation is trimmed from both
// ends, and numbers and words containing Han characters are skipped.
func Words(text string) []string {
	var out []string
	for _, f := range strings.Fields(text) {
		w := strings.Trim(f, punctuation)
		if w == "" || isNumber(w) || hasHan(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func hasHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// Flagged returns a predicate matching the nodes that hold misspellings.
func Flagged(found []Misspelling) func(dom.NodeID) bool {
	set := make(map[dom.NodeID]bool, len(found))
	for _, m := range found {
		set[m.Node] = true
	}
	return func(n dom.NodeID) bool { return set[n] }
}
