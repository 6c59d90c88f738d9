package spell

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

//go:embed words.txt
var defaultWords string

// Dictionary is a case-insensitive set of known words. Once loaded it is
// safe for concurrent lookups.
type Dictionary struct {
	words map[string]struct{}
}

func newDictionary() *Dictionary {
	return &Dictionary{words: make(map[string]struct{})}
}

// DefaultDictionary returns the built-in word list.
func DefaultDictionary() *Dictionary {
	d, _ := LoadDictionary(strings.NewReader(defaultWords))
	return d
}

// LoadDictionary reads one word per line. Blank lines and lines starting
// with '#' are skipped.
func LoadDictionary(r io.Reader) (*Dictionary, error) {
	d := newDictionary()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d.Add(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return d, nil
}

// LoadDictionaryFile reads a word list from path.
func LoadDictionaryFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()
	return LoadDictionary(f)
}

// key folds case. A Caser keeps state, so each call gets its own.
func (d *Dictionary) key(word string) string {
	return cases.Fold().String(word)
}

func (d *Dictionary) Add(words ...string) {
	for _, w := range words {
		d.words[d.key(w)] = struct{}{}
	}
}

func (d *Dictionary) Known(word string) bool {
	_, ok := d.words[d.key(word)]
	return ok
}

func (d *Dictionary) Len() int { return len(d.words) }

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Candidates returns known words one edit away from word (deletion,
// transposition, replacement or insertion), sorted.
func (d *Dictionary) Candidates(word string) []string {
	w := []rune(d.key(word))
	seen := make(map[string]bool)
	var out []string
	try := func(r []rune) {
		s := string(r)
		if s == string(w) || seen[s] {
			return
		}
		seen[s] = true
		if _, ok := d.words[s]; ok {
			out = append(out, s)
		}
	}
	for i := 0; i <= len(w); i++ {
		head, tail := w[:i], w[i:]
		if len(tail) > 0 {
			try(concat(head, tail[1:]))
		}
		if len(tail) > 1 {
			try(concat(head, []rune{tail[1], tail[0]}, tail[2:]))
		}
		for _, c := range alphabet {
			if len(tail) > 0 {
				try(concat(head, []rune{c}, tail[1:]))
			}
			try(concat(head, []rune{c}, tail))
		}
	}
	sort.Strings(out)
	return out
}

func concat(parts ...[]rune) []rune {
	var out []rune
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
