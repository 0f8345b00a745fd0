// Package render turns post content into HTML for pages and Markdown for the terminal.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"folio/app/models"
)

var blockElements = map[string]atom.Atom{
	models.NodeParagraph:     atom.P,
	models.NodeHeading1:      atom.H1,
	models.NodeHeading2:      atom.H2,
	models.NodeHeading3:      atom.H3,
	models.NodeHeading4:      atom.H4,
	models.NodeHeading5:      atom.H5,
	models.NodeHeading6:      atom.H6,
	models.NodeUnorderedList: atom.Ul,
	models.NodeOrderedList:   atom.Ol,
	models.NodeListItem:      atom.Li,
	models.NodeQuote:         atom.Blockquote,
	models.NodeHR:            atom.Hr,
}

var markElements = map[string]atom.Atom{
	models.MarkBold:      atom.Strong,
	models.MarkItalic:    atom.Em,
	models.MarkUnderline: atom.U,
	models.MarkCode:      atom.Code,
}

var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// Nodes returns the HTML nodes of c. Markup is parsed as a body fragment;
// a rich text document is converted node by node.
func Nodes(c models.Content) ([]*html.Node, error) {
	if c.IsDocument() {
		return buildChildren(c.Document), nil
	}
	if c.Markup == "" {
		return nil, nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(c.Markup), bodyContext)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}
	return nodes, nil
}

// HTML renders c for a page. Markup is trusted as authored; rich text is
// escaped by construction.
func HTML(c models.Content) (template.HTML, error) {
	if !c.IsDocument() {
		return template.HTML(c.Markup), nil
	}
	var buf bytes.Buffer
	for _, n := range buildChildren(c.Document) {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("failed to render rich text: %w", err)
		}
	}
	return template.HTML(buf.String()), nil
}

func buildChildren(n *models.RichText) []*html.Node {
	var nodes []*html.Node
	for _, child := range n.Content {
		if child == nil {
			continue
		}
		nodes = append(nodes, build(child)...)
	}
	return nodes
}

func build(n *models.RichText) []*html.Node {
	switch n.NodeType {
	case models.NodeText:
		return []*html.Node{markedText(n)}
	case models.NodeHyperlink:
		a := element(atom.A)
		if href, external := safeHref(n.URI()); href != "" {
			a.Attr = append(a.Attr, html.Attribute{Key: "href", Val: href})
			if external {
				a.Attr = append(a.Attr,
					html.Attribute{Key: "target", Val: "_blank"},
					html.Attribute{Key: "rel", Val: "noopener noreferrer"})
			}
		}
		appendAll(a, buildChildren(n))
		return []*html.Node{a}
	}

	a, ok := blockElements[n.NodeType]
	if !ok {
		// Embedded entries and other unsupported nodes contribute their text only.
		return buildChildren(n)
	}
	el := element(a)
	appendAll(el, buildChildren(n))
	return []*html.Node{el}
}

func markedText(n *models.RichText) *html.Node {
	node := &html.Node{Type: html.TextNode, Data: n.Value}
	for _, m := range n.Marks {
		a, ok := markElements[m.Type]
		if !ok {
			continue
		}
		wrapper := element(a)
		wrapper.AppendChild(node)
		node = wrapper
	}
	return node
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
}

func appendAll(parent *html.Node, children []*html.Node) {
	for _, c := range children {
		parent.AppendChild(c)
	}
}

// safeHref accepts relative, http(s) and mailto links.
func safeHref(raw string) (href string, external bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "":
		return raw, false
	case "http", "https":
		return raw, true
	case "mailto":
		return raw, false
	default:
		return "", false
	}
}
