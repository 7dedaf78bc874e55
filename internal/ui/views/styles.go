package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title        lipgloss.Style
	Dim          lipgloss.Style
	Status       lipgloss.Style
	StatusError  lipgloss.Style
	Help         lipgloss.Style
	SearchPrompt lipgloss.Style
	MatchCount   lipgloss.Style

	TreePane    lipgloss.Style
	TreeDir     lipgloss.Style
	TreeFile    lipgloss.Style
	TreeCursor  lipgloss.Style
	TreeFocused lipgloss.Style

	DocPane    lipgloss.Style
	Heading    lipgloss.Style
	SubHeading lipgloss.Style
	Code       lipgloss.Style
	CodeBlock  lipgloss.Style
	Quote      lipgloss.Style
	Link       lipgloss.Style
	Emphasis   lipgloss.Style
	Strong     lipgloss.Style
	Rule       lipgloss.Style

	// Marker visual contract: every match gets a translucent-style
	// highlight; the current match is visibly distinct.
	Highlight        lipgloss.Style
	CurrentHighlight lipgloss.Style

	PopupBox lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:    lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		Help:         lipgloss.NewStyle().Faint(true),
		SearchPrompt: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		MatchCount:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),

		TreePane: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.Color("241")).
			PaddingRight(1),
		TreeDir:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		TreeFile:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		TreeCursor: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")),
		TreeFocused: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("33")),

		DocPane:    lipgloss.NewStyle().PaddingLeft(1),
		Heading:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		SubHeading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Code:       lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Background(lipgloss.Color("236")),
		CodeBlock:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("235")),
		Quote:      lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
		Link:       lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39")),
		Emphasis:   lipgloss.NewStyle().Italic(true),
		Strong:     lipgloss.NewStyle().Bold(true),
		Rule:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		Highlight: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("221")),
		CurrentHighlight: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("208")),

		PopupBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			BorderForeground(lipgloss.Color("241")),
	}
}
