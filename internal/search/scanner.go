package search

import (
	"strings"
	"unicode"

	"markview/internal/doc"
)

// nonSearchableTags mark subtrees whose text is never scanned
var nonSearchableTags = map[string]bool{
	"script": true,
	"style":  true,
	"head":   true,
}

// Scan walks the tree depth-first and returns every non-overlapping
// case-insensitive occurrence of query, in document order. Script/style
// subtrees and pre-existing markers are skipped. An empty or
// whitespace-only query yields no spans. The tree is not modified.
func Scan(root *doc.Node, query string) []Span {
	if root == nil || strings.TrimSpace(query) == "" {
		return nil
	}

	q := foldRunes(query)
	var spans []Span

	root.Walk(func(n *doc.Node) bool {
		if n.Type == doc.ElementNode {
			if nonSearchableTags[n.Tag] || IsMarker(n) {
				return false
			}
			return true
		}
		text := foldRunes(n.Text)
		// Non-overlapping: resume past the end of each match, so "aa"
		// against "aaa" matches once.
		for pos := 0; pos+len(q) <= len(text); {
			i := indexRunes(text[pos:], q)
			if i < 0 {
				break
			}
			start := pos + i
			spans = append(spans, Span{Node: n, Start: start, End: start + len(q)})
			pos = start + len(q)
		}
		return true
	})

	return spans
}

// foldRunes lowercases rune-by-rune, keeping a 1:1 mapping between input
// runes and output runes so span offsets index the original text
func foldRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

// indexRunes returns the offset of the first occurrence of needle in
// haystack, or -1. The needle is never empty here.
func indexRunes(haystack, needle []rune) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i] != needle[0] {
			continue
		}
		match := true
		for j := 1; j < len(needle); j++ {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
