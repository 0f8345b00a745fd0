package render

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"folio/app/models"
)

var spaceRun = regexp.MustCompile(`\s+`)

// Markdown converts c into Markdown for terminal rendering.
func Markdown(c models.Content) (string, error) {
	nodes, err := Nodes(c)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, n := range nodes {
		writeBlock(&b, n)
	}
	return strings.TrimSpace(b.String()) + "\n", nil
}

func writeBlock(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(collapse(n.Data)); t != "" {
			b.WriteString(t)
			b.WriteString("\n\n")
		}
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeBlock(b, c)
		}
		return
	}

	switch n.DataAtom {
	case atom.P:
		if t := strings.TrimSpace(inline(n)); t != "" {
			b.WriteString(t)
			b.WriteString("\n\n")
		}
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		fmt.Fprintf(b, "%s %s\n\n", strings.Repeat("#", level), strings.TrimSpace(inline(n)))
	case atom.Ul, atom.Ol:
		writeList(b, n, 0)
		b.WriteString("\n")
	case atom.Blockquote:
		var inner strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeBlock(&inner, c)
		}
		for _, line := range strings.Split(strings.TrimSpace(inner.String()), "\n") {
			b.WriteString(strings.TrimRight("> "+line, " "))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	case atom.Hr:
		b.WriteString("---\n\n")
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeBlock(b, c)
		}
	}
}

func writeList(b *strings.Builder, list *html.Node, depth int) {
	i := 0
	for item := list.FirstChild; item != nil; item = item.NextSibling {
		if item.Type != html.ElementNode || item.DataAtom != atom.Li {
			continue
		}
		i++
		marker := "-"
		if list.DataAtom == atom.Ol {
			marker = fmt.Sprintf("%d.", i)
		}
		fmt.Fprintf(b, "%s%s %s\n", strings.Repeat("  ", depth), marker, strings.TrimSpace(inline(item)))

		for c := item.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.DataAtom == atom.Ul || c.DataAtom == atom.Ol) {
				writeList(b, c, depth+1)
			}
		}
	}
}

// inline renders the phrasing content of n. Nested lists are skipped; they
// are written by writeList.
func inline(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(collapse(c.Data))
			continue
		case html.ElementNode:
		default:
			continue
		}

		switch c.DataAtom {
		case atom.Ul, atom.Ol:
		case atom.Strong, atom.B:
			wrap(&b, "**", inline(c))
		case atom.Em, atom.I:
			wrap(&b, "_", inline(c))
		case atom.Code:
			wrap(&b, "`", inline(c))
		case atom.Br:
			b.WriteString("\n")
		case atom.A:
			text := strings.TrimSpace(inline(c))
			if href := attr(c, "href"); href != "" {
				fmt.Fprintf(&b, "[%s](%s)", text, href)
			} else {
				b.WriteString(text)
			}
		case atom.P:
			if b.Len() > 0 {
				b.WriteString(" ")
			}
			b.WriteString(strings.TrimSpace(inline(c)))
		default:
			b.WriteString(inline(c))
		}
	}
	return b.String()
}

func wrap(b *strings.Builder, marker, text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		b.WriteString(text)
		return
	}
	if strings.HasPrefix(text, " ") {
		b.WriteString(" ")
	}
	b.WriteString(marker + trimmed + marker)
	if strings.HasSuffix(text, " ") {
		b.WriteString(" ")
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func collapse(s string) string {
	return spaceRun.ReplaceAllString(s, " ")
}
