package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// View implements tea.Model
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	title := m.renderTitle()
	panes := lipgloss.JoinHorizontal(lipgloss.Top, m.renderTree(), m.docView.View())
	status := m.renderStatus()

	return lipgloss.JoinVertical(lipgloss.Left, title, panes, status)
}

func (m *Model) renderTitle() string {
	title := m.styles.Title.Render("markview")
	root := m.styles.Dim.Render(" " + m.root)
	scan := ""
	if m.scanning {
		scan = " " + m.spin.View() + m.styles.Status.Render("scanning")
	}
	return truncate.String(title+root+scan, uint(m.width))
}

// renderTree renders the file pane, keeping the cursor row in view
func (m *Model) renderTree() string {
	height := m.paneHeight()
	rows := m.tree.Rows()

	start := 0
	if len(rows) > height {
		start = m.tree.Cursor() - height/2
		if start < 0 {
			start = 0
		}
		if start > len(rows)-height {
			start = len(rows) - height
		}
	}

	var b strings.Builder
	for i := start; i < len(rows) && i < start+height; i++ {
		row := rows[i]
		label := strings.Repeat("  ", row.Depth) + row.Label

		var st lipgloss.Style
		switch {
		case row.Selected && m.treeFocus:
			st = m.styles.TreeCursor
		case row.Selected:
			st = m.styles.TreeFocused
		case row.IsDir:
			st = m.styles.TreeDir
		default:
			st = m.styles.TreeFile
		}
		b.WriteString(truncate.String(st.Render(label), uint(treePaneWidth)))
		b.WriteString("\n")
	}
	for i := len(rows) - start; i < height; i++ {
		b.WriteString("\n")
	}

	return m.styles.TreePane.
		Width(treePaneWidth).
		Height(height).
		Render(strings.TrimSuffix(b.String(), "\n"))
}

func (m *Model) renderStatus() string {
	if m.mode == modeSearch || m.mode == modeFilter {
		return m.input.View()
	}

	left := m.statusMsg
	st := m.styles.Status
	if m.statusErr {
		st = m.styles.StatusError
	}

	parts := []string{st.Render(left)}
	if m.searcher.Active() {
		parts = append(parts, m.styles.MatchCount.Render(
			fmt.Sprintf("%d/%d", m.searchRes.Current, m.searchRes.Total)))
	}
	if m.openPath != "" {
		parts = append(parts, m.styles.Dim.Render(
			fmt.Sprintf("%3.0f%%", m.docView.ScrollPercent()*100)))
	}
	parts = append(parts, m.styles.Help.Render("? help"))

	return truncate.String(strings.Join(parts, "  "), uint(m.width))
}

// renderHelp renders the keybinding reference popup
func (m *Model) renderHelp() string {
	titleStyle := m.styles.Title
	sectionStyle := m.styles.SubHeading
	keyStyle := m.styles.SearchPrompt
	descStyle := m.styles.TreeFile

	var help strings.Builder
	help.WriteString(titleStyle.Render("markview help"))
	help.WriteString("\n\n")

	help.WriteString(sectionStyle.Render("Navigation"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("↑/↓, j/k"), descStyle.Render("Move in the focused pane")))
	help.WriteString(fmt.Sprintf("  %s       %s\n", keyStyle.Render("tab"), descStyle.Render("Switch pane focus")))
	help.WriteString(fmt.Sprintf("  %s   %s\n", keyStyle.Render("enter/l"), descStyle.Render("Open file / toggle folder")))
	help.WriteString(fmt.Sprintf("  %s       %s\n", keyStyle.Render("g/G"), descStyle.Render("Go to top/bottom of tree")))
	help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render("ctrl+d/u"), descStyle.Render("Scroll document half page")))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Search"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("/"), descStyle.Render("Search in document")))
	help.WriteString(fmt.Sprintf("  %s       %s\n", keyStyle.Render("n/N"), descStyle.Render("Next/previous match (wraps)")))
	help.WriteString(fmt.Sprintf("  %s       %s\n", keyStyle.Render("esc"), descStyle.Render("Clear search highlights")))
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("F"), descStyle.Render("Filter file tree")))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Document"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("e"), descStyle.Render("Export as styled HTML (print-ready)")))
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("v"), descStyle.Render("View raw source in pager")))
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("r"), descStyle.Render("Rescan directory")))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("?"), descStyle.Render("Toggle this help")))
	help.WriteString(fmt.Sprintf("  %s         %s", keyStyle.Render("q"), descStyle.Render("Quit")))

	box := m.styles.PopupBox.Render(help.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
