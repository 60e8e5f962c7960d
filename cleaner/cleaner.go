// Package cleaner normalizes raw HTML and extracts content from it: an
// indented pretty-print, the visible plain text, and outbound links. It is
// purely functional over the HTML it is given and has no relation to the
// session that produced it.
package cleaner

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Newline collapse stages. Each regexp runs on the output of the previous
// one: 5+ newlines become two blank lines, exactly 4 become one blank line,
// then any remaining run of 2-3 collapses to a single newline.
var (
	reNewlines5Plus = regexp.MustCompile(`\n{5,}`)
	reNewlines4     = regexp.MustCompile(`\n{4}`)
	reNewlines2or3  = regexp.MustCompile(`\n{2,3}`)
)

// collapseNewlines applies the three collapse stages in order. The final
// text contains only single newlines, so a second pass is a no-op.
func collapseNewlines(text string) string {
	text = reNewlines5Plus.ReplaceAllString(text, "\n\n\n")
	text = reNewlines4.ReplaceAllString(text, "\n\n")
	text = reNewlines2or3.ReplaceAllString(text, "\n")
	return text
}

// ExtractText returns the visible plain text of the document body with
// <script> and <style> subtrees removed and runs of newlines collapsed.
// Documents without an explicit <body> element yield the empty string.
func ExtractText(rawHTML string) string {
	if !hasBodyTag(rawHTML) {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		return ""
	}
	body.Find("script").Remove()
	body.Find("style").Remove()
	return strings.TrimSpace(collapseNewlines(body.Text()))
}

// ExtractLinks returns the href of every anchor element whose value begins
// with "http", in document order, without deduplication. Fragments, mailto:,
// javascript: and relative paths are excluded by the prefix check.
func ExtractLinks(rawHTML string) []string {
	links := []string{}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return links
	}
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if ok && strings.HasPrefix(href, "http") {
			links = append(links, href)
		}
	})
	return links
}

// hasBodyTag scans the raw markup for an explicit <body> start tag. The
// x/net/html parser synthesizes html/head/body for any input, so the check
// must run on the source, not the parsed tree.
func hasBodyTag(rawHTML string) bool {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "body" {
				return true
			}
		}
	}
}

// ExtractTitle returns the first <title> element's text, or "" if there is
// none.
func ExtractTitle(rawHTML string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				if tokenizer.Next() == html.TextToken {
					return strings.TrimSpace(string(tokenizer.Text()))
				}
				return ""
			}
		}
	}
}
