package htmlutil

import (
	"iter"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Texts yields the trimmed contents of every non-whitespace text node below
// node, depth-first, left to right. node itself is not yielded, only its
// descendants. The sequence is lazy and can be ranged over more than once.
func Texts(node *html.Node) iter.Seq[string] {
	return func(yield func(string) bool) {
		if node == nil {
			return
		}
		walkTexts(node.FirstChild, yield)
	}
}

func walkTexts(child *html.Node, yield func(string) bool) bool {
	for ; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			text := strings.TrimSpace(child.Data)
			if text == "" {
				continue
			}
			if !yield(text) {
				return false
			}
			continue
		}
		if !walkTexts(child.FirstChild, yield) {
			return false
		}
	}
	return true
}

// FirstText returns the first non-whitespace text leaf below node.
func FirstText(node *html.Node) (string, bool) {
	for text := range Texts(node) {
		return text, true
	}
	return "", false
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText strips non-printable characters and collapses runs of whitespace.
func CleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}
