package source

import (
	"strings"

	"golang.org/x/net/html"
)

// flattenHTML renders an HTML fragment as plain text, turning <br> and
// paragraph boundaries into newlines. Article summaries are stored this way
// so line structure survives without markup.
func flattenHTML(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: 0,
	})
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	var b strings.Builder
	for _, n := range nodes {
		writeText(&b, n)
	}

	// Collapse blank lines left by <br> runs and nested block elements.
	var out []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "br":
			b.WriteString("\n")
			return
		case "script", "style":
			return
		case "p", "div", "li":
			b.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li":
			b.WriteString("\n")
		}
	}
}
