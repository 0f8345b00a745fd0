package models

// Rich text node types as emitted by Contentful.
const (
	NodeDocument      = "document"
	NodeParagraph     = "paragraph"
	NodeHeading1      = "heading-1"
	NodeHeading2      = "heading-2"
	NodeHeading3      = "heading-3"
	NodeHeading4      = "heading-4"
	NodeHeading5      = "heading-5"
	NodeHeading6      = "heading-6"
	NodeUnorderedList = "unordered-list"
	NodeOrderedList   = "ordered-list"
	NodeListItem      = "list-item"
	NodeQuote         = "blockquote"
	NodeHR            = "hr"
	NodeHyperlink     = "hyperlink"
	NodeText          = "text"
)

// Mark types applied to text nodes.
const (
	MarkBold      = "bold"
	MarkItalic    = "italic"
	MarkUnderline = "underline"
	MarkCode      = "code"
)

// RichText is a node of a structured rich text document.
type RichText struct {
	NodeType string         `json:"nodeType"`
	Data     map[string]any `json:"data,omitempty"`
	Content  []*RichText    `json:"content,omitempty"`
	Value    string         `json:"value,omitempty"`
	Marks    []Mark         `json:"marks,omitempty"`
}

// Mark is a formatting mark on a text node.
type Mark struct {
	Type string `json:"type"`
}

// IsDocument reports whether n is the root of a rich text document.
func (n *RichText) IsDocument() bool {
	return n != nil && n.NodeType == NodeDocument
}

// URI returns the link target of a hyperlink node.
func (n *RichText) URI() string {
	if n == nil || n.Data == nil {
		return ""
	}
	uri, _ := n.Data["uri"].(string)
	return uri
}

// HasMark reports whether a text node carries the given mark.
func (n *RichText) HasMark(mark string) bool {
	for _, m := range n.Marks {
		if m.Type == mark {
			return true
		}
	}
	return false
}

// Text concatenates the values of all text nodes under n.
func (n *RichText) Text() string {
	if n == nil {
		return ""
	}
	if n.NodeType == NodeText {
		return n.Value
	}
	var out string
	for _, child := range n.Content {
		out += child.Text()
	}
	return out
}
