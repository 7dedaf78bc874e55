package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"markview/internal/doc"
	"markview/internal/eventbus"
)

// eventMsg wraps a bus event for the UI
type eventMsg struct {
	event eventbus.DomainEvent
}

// waitForEvent blocks on the forwarding channel and delivers the next
// bus event as a message
func waitForEvent(ch <-chan eventbus.DomainEvent) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg{event: e}
	}
}

// documentLoadedMsg is delivered when a file has been rendered
type documentLoadedMsg struct {
	doc        *doc.Document
	path       string
	keepScroll bool // live reload keeps the reading position
}

// documentLoadFailedMsg is delivered when rendering a file failed
type documentLoadFailedMsg struct {
	path string
	err  error
}

// exportDoneMsg is delivered when an HTML export finishes
type exportDoneMsg struct {
	path string
	err  error
}
