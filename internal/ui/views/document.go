package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"

	"markview/internal/doc"
	"markview/internal/search"
)

// DocLayout is a rendered document: styled terminal lines plus the line
// position of every search marker, used to scroll matches into view.
type DocLayout struct {
	Lines       []string
	MarkerLines map[*doc.Node]int
}

// LayoutDocument flattens a document tree into styled lines wrapped to
// width. Returns an empty layout for a nil document.
func LayoutDocument(d *doc.Document, width int, styles *Styles) *DocLayout {
	l := &layout{
		styles:      styles,
		width:       width,
		markerLines: make(map[*doc.Node]int),
	}
	if l.width < 10 {
		l.width = 10
	}
	if d != nil {
		for _, c := range d.Root.Children {
			l.block(c, blockState{})
		}
		l.endLine()
	}
	return &DocLayout{Lines: l.lines, MarkerLines: l.markerLines}
}

// blockState carries context down through nested block elements
type blockState struct {
	prefix    string // rendered at the start of each line (quotes, list indent)
	listDepth int
	ordered   bool
	itemNum   int
}

// inlineState carries inline styling context
type inlineState struct {
	style lipgloss.Style
	pre   bool // inside a pre block: no wrapping, newlines preserved
}

type layout struct {
	styles      *Styles
	width       int
	lines       []string
	markerLines map[*doc.Node]int

	cur          strings.Builder
	curWidth     int
	prefix       string
	started      bool // current line has content beyond the prefix
	pendingSpace bool // a word space waiting to be emitted
}

var headingTags = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

// block renders one block-level element
func (l *layout) block(n *doc.Node, bs blockState) {
	if n.Type == doc.TextNode {
		// Loose text between blocks (rare with goldmark output)
		if strings.TrimSpace(n.Text) != "" {
			l.inline(n, bs, inlineState{style: lipgloss.NewStyle()})
			l.endLine()
		}
		return
	}

	switch {
	case headingTags[n.Tag] > 0:
		st := l.styles.Heading
		if headingTags[n.Tag] > 2 {
			st = l.styles.SubHeading
		}
		l.startBlock(bs)
		l.inlineChildren(n, bs, inlineState{style: st})
		l.endLine()
		l.blankLine()

	case n.Tag == "p":
		l.startBlock(bs)
		l.inlineChildren(n, bs, inlineState{style: lipgloss.NewStyle()})
		l.endLine()
		l.blankLine()

	case n.Tag == "ul" || n.Tag == "ol":
		child := bs
		child.ordered = n.Tag == "ol"
		child.itemNum = 0
		child.listDepth = bs.listDepth + 1
		for _, c := range n.Children {
			if c.Type == doc.ElementNode && c.Tag == "li" {
				child.itemNum++
				l.listItem(c, child)
			}
		}
		if bs.listDepth == 0 {
			l.blankLine()
		}

	case n.Tag == "pre":
		l.startBlock(bs)
		l.inlineChildren(n, bs, inlineState{style: l.styles.CodeBlock, pre: true})
		l.endLine()
		l.blankLine()

	case n.Tag == "blockquote":
		child := bs
		child.prefix = bs.prefix + l.styles.Quote.Render("│ ")
		for _, c := range n.Children {
			l.block(c, child)
		}

	case n.Tag == "hr":
		l.startBlock(bs)
		l.write(l.styles.Rule.Render(strings.Repeat("─", min(l.width-ansi.PrintableRuneWidth(bs.prefix), 40))), nil)
		l.endLine()
		l.blankLine()

	case n.Tag == "table":
		l.table(n, bs)
		l.blankLine()

	default:
		// Unknown block container: recurse so nothing visible is lost
		for _, c := range n.Children {
			l.block(c, bs)
		}
	}
}

func (l *layout) listItem(n *doc.Node, bs blockState) {
	bullet := "• "
	if bs.ordered {
		bullet = fmt.Sprintf("%d. ", bs.itemNum)
	}
	indent := strings.Repeat("  ", bs.listDepth-1)

	l.prefix = bs.prefix + indent + bullet
	l.startLine()
	// Continuation lines align under the item text
	contPrefix := bs.prefix + indent + strings.Repeat(" ", len(bullet))

	child := bs
	child.prefix = contPrefix
	for _, c := range n.Children {
		if c.Type == doc.ElementNode && (c.Tag == "ul" || c.Tag == "ol") {
			l.endLine()
			l.block(c, child)
			continue
		}
		if c.Type == doc.ElementNode && c.Tag == "p" {
			l.inlineChildren(c, child, inlineState{style: lipgloss.NewStyle()})
			continue
		}
		l.inline(c, child, inlineState{style: lipgloss.NewStyle()})
	}
	l.endLine()
	l.prefix = bs.prefix
}

// table renders a simplified table: one row per line, cells joined
func (l *layout) table(n *doc.Node, bs blockState) {
	var rows []*doc.Node
	n.Walk(func(c *doc.Node) bool {
		if c.Type == doc.ElementNode && c.Tag == "tr" {
			rows = append(rows, c)
			return false
		}
		return true
	})
	for _, row := range rows {
		l.prefix = bs.prefix
		l.startLine()
		first := true
		for _, cell := range row.Children {
			if cell.Type != doc.ElementNode || (cell.Tag != "td" && cell.Tag != "th") {
				continue
			}
			if !first {
				l.write(l.styles.Rule.Render(" │ "), nil)
			}
			first = false
			st := lipgloss.NewStyle()
			if cell.Tag == "th" {
				st = l.styles.Strong
			}
			l.inlineChildren(cell, bs, inlineState{style: st})
		}
		l.endLine()
	}
}

func (l *layout) inlineChildren(n *doc.Node, bs blockState, is inlineState) {
	for _, c := range n.Children {
		l.inline(c, bs, is)
	}
}

// inline renders inline content into the current flow
func (l *layout) inline(n *doc.Node, bs blockState, is inlineState) {
	if n.Type == doc.TextNode {
		l.text(n.Text, is, nil)
		return
	}

	switch n.Tag {
	case "br":
		l.endLine()
		l.startLine()
	case "strong", "b":
		child := is
		child.style = child.style.Bold(true)
		l.inlineChildren(n, bs, child)
	case "em", "i":
		child := is
		child.style = child.style.Italic(true)
		l.inlineChildren(n, bs, child)
	case "del", "s":
		child := is
		child.style = child.style.Strikethrough(true)
		l.inlineChildren(n, bs, child)
	case "code":
		child := is
		if !is.pre {
			child.style = l.styles.Code
		}
		l.inlineChildren(n, bs, child)
	case "a":
		child := is
		child.style = l.styles.Link
		l.inlineChildren(n, bs, child)
	case "img":
		alt, _ := n.GetAttr("alt")
		if alt == "" {
			alt = "image"
		}
		l.text("["+alt+"]", inlineState{style: l.styles.Dim, pre: is.pre}, nil)
	case "script", "style":
		// Never rendered
	case search.MarkerTag:
		if search.IsMarker(n) {
			st := l.styles.Highlight
			if search.IsCurrent(n) {
				st = l.styles.CurrentHighlight
			}
			l.recordMarker(n)
			for _, c := range n.Children {
				if c.Type == doc.TextNode {
					l.text(c.Text, inlineState{style: st, pre: is.pre}, n)
				}
			}
			return
		}
		l.inlineChildren(n, bs, is)
	default:
		l.inlineChildren(n, bs, is)
	}
}

// text flows a run of characters, word-wrapping unless in pre mode.
// marker, when non-nil, is recorded against every line the run touches.
func (l *layout) text(s string, is inlineState, marker *doc.Node) {
	if is.pre {
		parts := strings.Split(s, "\n")
		for i, part := range parts {
			if i > 0 {
				l.endLine()
				l.startLine()
			}
			if part != "" {
				l.write(is.style.Render(part), marker)
			}
		}
		return
	}

	// Collapse whitespace the way a renderer would; spaces between words
	// are deferred so they are never emitted at a line break.
	fields := strings.Fields(s)
	if len(s) > 0 && isSpace(rune(s[0])) && l.started {
		l.pendingSpace = true
	}

	for _, word := range fields {
		rendered := is.style.Render(word)
		w := ansi.PrintableRuneWidth(rendered)
		if l.started && l.curWidth+w+boolToInt(l.pendingSpace) > l.width {
			l.endLine()
			l.startLine()
		}
		if l.pendingSpace && l.started {
			l.cur.WriteString(" ")
			l.curWidth++
		}
		l.write(rendered, marker)
		// Words within the same run are space separated
		l.pendingSpace = true
	}

	if len(fields) > 0 {
		l.pendingSpace = isSpace(rune(s[len(s)-1]))
	}
}

func (l *layout) startBlock(bs blockState) {
	l.prefix = bs.prefix
	l.startLine()
}

func (l *layout) startLine() {
	l.cur.Reset()
	l.cur.WriteString(l.prefix)
	l.curWidth = ansi.PrintableRuneWidth(l.prefix)
	l.started = false
	l.pendingSpace = false
}

func (l *layout) endLine() {
	if l.cur.Len() == 0 && !l.started {
		if l.curWidth == 0 {
			return
		}
	}
	line := l.cur.String()
	if l.width > 0 {
		line = truncate.String(line, uint(l.width+8))
	}
	l.lines = append(l.lines, line)
	l.cur.Reset()
	l.curWidth = 0
	l.started = false
}

func (l *layout) blankLine() {
	l.lines = append(l.lines, "")
}

// write appends already-styled content to the current line
func (l *layout) write(rendered string, marker *doc.Node) {
	l.cur.WriteString(rendered)
	l.curWidth += ansi.PrintableRuneWidth(rendered)
	l.started = true
	if marker != nil {
		l.recordMarker(marker)
	}
}

// recordMarker notes the line the marker starts on (first touch wins)
func (l *layout) recordMarker(marker *doc.Node) {
	if _, seen := l.markerLines[marker]; !seen {
		l.markerLines[marker] = len(l.lines)
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
