// Package textutil holds the plain-text helpers shared by extraction and summarization.
package textutil

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// RunesPerMinute is the assumed reading speed.
const RunesPerMinute = 300

// PlainText returns the visible text of an HTML fragment with whitespace collapsed.
// Input that does not parse as HTML is returned with whitespace collapsed.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return CollapseWhitespace(html)
	}
	doc.Find("script, style").Remove()
	return CollapseWhitespace(doc.Text())
}

// CollapseWhitespace joins whitespace-separated fields with single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// ReadTime estimates reading minutes for plain text, never less than one.
func ReadTime(text string) int {
	n := utf8.RuneCountInString(text)
	minutes := (n + RunesPerMinute - 1) / RunesPerMinute
	return max(minutes, 1)
}
