// Package doc holds the document model: the tree of element and text
// nodes produced by rendering a markdown file, which the viewer lays
// out and the search engine mutates.
package doc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// NodeType discriminates tree nodes
type NodeType int

const (
	TextNode NodeType = iota
	ElementNode
)

// Node is one node of a document tree. Text nodes carry Text and have no
// children; element nodes carry Tag, Attr and ordered Children.
type Node struct {
	Type     NodeType
	Tag      string
	Attr     map[string]string
	Text     string
	Parent   *Node
	Children []*Node
}

// Document is one rendered markdown file
type Document struct {
	Root *Node
	Path string // source file path
}

// NewText creates a detached text node
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

// NewElement creates a detached element node
func NewElement(tag string) *Node {
	return &Node{Type: ElementNode, Tag: tag}
}

// SetAttr sets an attribute on an element node
func (n *Node) SetAttr(key, value string) {
	if n.Attr == nil {
		n.Attr = make(map[string]string)
	}
	n.Attr[key] = value
}

// GetAttr returns an attribute value and whether it is present
func (n *Node) GetAttr(key string) (string, bool) {
	v, ok := n.Attr[key]
	return v, ok
}

// DelAttr removes an attribute
func (n *Node) DelAttr(key string) {
	delete(n.Attr, key)
}

// AppendChild adds child as the last child of n
func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Index returns n's position among its parent's children, -1 if detached
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// ReplaceWith replaces n in its parent's child list with the given
// fragments, preserving sibling order. Returns an error if n is detached.
func (n *Node) ReplaceWith(fragments ...*Node) error {
	idx := n.Index()
	if idx < 0 {
		return fmt.Errorf("node is not attached to a parent")
	}
	parent := n.Parent
	for _, f := range fragments {
		f.Parent = parent
	}
	children := make([]*Node, 0, len(parent.Children)-1+len(fragments))
	children = append(children, parent.Children[:idx]...)
	children = append(children, fragments...)
	children = append(children, parent.Children[idx+1:]...)
	parent.Children = children
	n.Parent = nil
	return nil
}

// MergeAdjacentText joins runs of consecutive text-node children of n
// into single text nodes
func (n *Node) MergeAdjacentText() {
	if len(n.Children) < 2 {
		return
	}
	merged := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Type == TextNode && len(merged) > 0 && merged[len(merged)-1].Type == TextNode {
			merged[len(merged)-1].Text += c.Text
			c.Parent = nil
			continue
		}
		merged = append(merged, c)
	}
	n.Children = merged
}

// Walk visits nodes depth-first pre-order. If fn returns false for an
// element node, its subtree is skipped.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	// Children may be mutated by fn on earlier siblings; walk a copy.
	children := make([]*Node, len(n.Children))
	copy(children, n.Children)
	for _, c := range children {
		c.Walk(fn)
	}
}

// nonVisibleTags are element tags whose text content is never rendered
var nonVisibleTags = map[string]bool{
	"script": true,
	"style":  true,
	"head":   true,
}

// VisibleText concatenates the document's rendered character content,
// excluding script/style-equivalent regions
func (d *Document) VisibleText() string {
	var b strings.Builder
	d.Root.Walk(func(n *Node) bool {
		if n.Type == ElementNode && nonVisibleTags[n.Tag] {
			return false
		}
		if n.Type == TextNode {
			b.WriteString(n.Text)
		}
		return true
	})
	return b.String()
}

// Equal reports structural equality of two trees: same shape, tags,
// attributes and text. Node identity is ignored.
func Equal(a, b *Node) bool {
	if a.Type != b.Type {
		return false
	}
	if a.Type == TextNode {
		return a.Text == b.Text
	}
	if a.Tag != b.Tag || len(a.Attr) != len(b.Attr) || len(a.Children) != len(b.Children) {
		return false
	}
	for k, v := range a.Attr {
		if bv, ok := b.Attr[k]; !ok || bv != v {
			return false
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the tree rooted at n, detached from any parent
func (n *Node) Clone() *Node {
	c := &Node{Type: n.Type, Tag: n.Tag, Text: n.Text}
	if n.Attr != nil {
		c.Attr = make(map[string]string, len(n.Attr))
		for k, v := range n.Attr {
			c.Attr[k] = v
		}
	}
	for _, child := range n.Children {
		c.AppendChild(child.Clone())
	}
	return c
}

// Parse builds a document tree from rendered HTML. The returned root is
// a "body" element holding the fragment's top-level nodes.
func Parse(r io.Reader) (*Document, error) {
	parsed, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	body := findBody(parsed)
	if body == nil {
		return nil, fmt.Errorf("parsed html has no body")
	}

	root := NewElement("body")
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if converted := convert(c); converted != nil {
			root.AppendChild(converted)
		}
	}
	return &Document{Root: root}, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

// convert maps an html.Node to a document node, dropping comments and
// other non-content nodes
func convert(hn *html.Node) *Node {
	switch hn.Type {
	case html.TextNode:
		return NewText(hn.Data)
	case html.ElementNode:
		n := NewElement(hn.Data)
		for _, a := range hn.Attr {
			n.SetAttr(a.Key, a.Val)
		}
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if converted := convert(c); converted != nil {
				n.AppendChild(converted)
			}
		}
		return n
	default:
		return nil
	}
}
