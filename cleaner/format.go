package cleaner

import (
	"strings"

	"golang.org/x/net/html"
)

// indentUnit is the per-depth indentation of FormatHTML output.
const indentUnit = " "

// voidElements never carry children and are rendered without a closing tag.
var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "source": {},
	"track": {}, "wbr": {},
}

// rawTextElements hold character data that must not be entity-escaped.
var rawTextElements = map[string]struct{}{
	"script": {}, "style": {},
}

// FormatHTML parses the markup and re-serializes it with one tag or text
// line per row, indented by nesting depth. The output is a normal form:
// formatting already-formatted markup yields the same string. The transform
// is cosmetic only; whitespace inside text is normalized per line.
func FormatHTML(rawHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	renderIndented(&b, doc, 0)
	return b.String(), nil
}

func renderIndented(b *strings.Builder, n *html.Node, depth int) {
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderIndented(b, c, depth)
		}
	case html.DoctypeNode:
		writeLine(b, depth, "<!DOCTYPE "+n.Data+">")
	case html.CommentNode:
		writeLine(b, depth, "<!--"+strings.TrimSpace(n.Data)+"-->")
	case html.ElementNode:
		writeLine(b, depth, startTag(n))
		if _, void := voidElements[n.Data]; void {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderIndented(b, c, depth+1)
		}
		writeLine(b, depth, "</"+n.Data+">")
	case html.TextNode:
		_, raw := rawTextElements[parentTag(n)]
		for _, line := range strings.Split(n.Data, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if raw {
				writeLine(b, depth, line)
			} else {
				writeLine(b, depth, html.EscapeString(html.UnescapeString(line)))
			}
		}
	}
}

func writeLine(b *strings.Builder, depth int, s string) {
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString(s)
	b.WriteByte('\n')
}

func startTag(n *html.Node) string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(n.Data)
	for _, a := range n.Attr {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(html.UnescapeString(a.Val)))
		sb.WriteString(`"`)
	}
	sb.WriteByte('>')
	return sb.String()
}

func parentTag(n *html.Node) string {
	if n.Parent != nil && n.Parent.Type == html.ElementNode {
		return n.Parent.Data
	}
	return ""
}
