package dojo

import (
	"bytes"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// htmlToText flattens an HTML error page (reverse-proxy 502s, login
// redirects) into readable text so the caller sees "Bad Gateway" instead
// of markup soup. Script and style contents are dropped; block elements
// become line breaks.
func htmlToText(raw []byte) string {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return string(raw)
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "br", "p", "div", "h1", "h2", "h3", "h4", "li", "tr", "title":
				sb.WriteByte('\n')
			}
		case html.TextNode:
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return collapseSpace(sb.String())
}

// collapseSpace squeezes runs of whitespace into single spaces while
// keeping at most one newline between fragments.
func collapseSpace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	pendingSpace := false
	pendingLine := false
	for _, r := range s {
		if r == '\n' {
			pendingLine = true
			continue
		}
		if unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if sb.Len() > 0 {
			if pendingLine {
				sb.WriteByte('\n')
			} else if pendingSpace {
				sb.WriteByte(' ')
			}
		}
		pendingSpace = false
		pendingLine = false
		sb.WriteRune(r)
	}
	return sb.String()
}
