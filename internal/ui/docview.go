package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"markview/internal/doc"
	"markview/internal/ui/views"
)

// DocView is the right pane: the rendered document inside a viewport.
// It implements search.Revealer by scrolling the line a marker starts
// on into the vertical center of the viewport.
type DocView struct {
	viewport  viewport.Model
	styles    *views.Styles
	document  *doc.Document
	layout    *views.DocLayout
	wrapWidth int // column cap from config, 0 = pane width
	width     int
	height    int
	ready     bool
}

// NewDocView creates an empty document view
func NewDocView(styles *views.Styles, wrapWidth int) *DocView {
	return &DocView{
		styles:    styles,
		wrapWidth: wrapWidth,
		layout:    &views.DocLayout{},
	}
}

// SetSize resizes the pane and relays the document out
func (v *DocView) SetSize(width, height int) {
	v.width = width
	v.height = height
	if !v.ready {
		v.viewport = viewport.New(width, height)
		v.ready = true
	} else {
		v.viewport.Width = width
		v.viewport.Height = height
	}
	v.Refresh()
}

// SetDocument installs a new document and scrolls to the top
func (v *DocView) SetDocument(d *doc.Document) {
	v.document = d
	v.Refresh()
	if v.ready {
		v.viewport.GotoTop()
	}
}

// Document returns the displayed document, nil if none
func (v *DocView) Document() *doc.Document {
	return v.document
}

// Refresh relays the document out; call after the tree is mutated
// (markers applied, restored or re-emphasized)
func (v *DocView) Refresh() {
	if !v.ready {
		return
	}
	width := v.width
	if v.wrapWidth > 0 && v.wrapWidth < width {
		width = v.wrapWidth
	}
	v.layout = views.LayoutDocument(v.document, width, v.styles)
	v.viewport.SetContent(strings.Join(v.layout.Lines, "\n"))
}

// Reveal scrolls the marker's line to the vertical center of the pane
func (v *DocView) Reveal(marker *doc.Node) {
	// Layout may be stale if emphasis moved since the last refresh
	v.Refresh()
	line, ok := v.layout.MarkerLines[marker]
	if !ok || !v.ready {
		return
	}
	offset := line - v.viewport.Height/2
	if offset < 0 {
		offset = 0
	}
	v.viewport.SetYOffset(offset)
}

// Update forwards scroll keys and mouse events to the viewport
func (v *DocView) Update(msg tea.Msg) tea.Cmd {
	if !v.ready {
		return nil
	}
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

// ScrollBy moves the viewport by delta lines
func (v *DocView) ScrollBy(delta int) {
	if !v.ready {
		return
	}
	if delta < 0 {
		v.viewport.LineUp(-delta)
	} else {
		v.viewport.LineDown(delta)
	}
}

// View renders the pane
func (v *DocView) View() string {
	if !v.ready {
		return ""
	}
	if v.document == nil {
		return v.styles.Dim.Render("No document selected")
	}
	return v.viewport.View()
}

// AtTop and progress helpers for the status bar
func (v *DocView) ScrollPercent() float64 {
	if !v.ready {
		return 0
	}
	return v.viewport.ScrollPercent()
}
