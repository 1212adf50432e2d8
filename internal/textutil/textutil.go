// Package textutil turns backend-supplied job text into terminal-safe plain text.
package textutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Clean collapses runs of whitespace, including non-breaking spaces, to a
// single space.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// PlainText renders an HTML fragment as plain text. Block elements and <br>
// become line breaks and list items get a bullet; runs of blank lines collapse
// to one. Text without markup is returned cleaned line by line.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return joinLines(strings.Split(fragment, "\n"))
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return joinLines(strings.Split(fragment, "\n"))
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").PrependHtml("• ")
	doc.Find("p, div, li, ul, ol, h1, h2, h3, h4, h5, h6, tr").AfterHtml("\n")
	return joinLines(strings.Split(doc.Text(), "\n"))
}

// joinLines cleans each line and keeps at most one blank line in a row.
func joinLines(lines []string) string {
	out := make([]string, 0, len(lines))
	blank := true
	for _, l := range lines {
		l = Clean(l)
		if l == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, l)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
