package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	Filter        lipgloss.Style
	Help          lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	SelectionBg   lipgloss.Style
	PanelBorder   lipgloss.Style
	PanelFocused  lipgloss.Style
	PanelTitle    lipgloss.Style
	ActiveEntry   lipgloss.Style
	Entry         lipgloss.Style
	Match         lipgloss.Style
	Heading       [7]lipgloss.Style // by level, 0 unused
	Code          lipgloss.Style
	Quote         lipgloss.Style
	Rule          lipgloss.Style
	Table         lipgloss.Style
	ProgressLabel lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	s := &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Filter:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Help:        lipgloss.NewStyle().Faint(true),
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		PanelBorder: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")),
		PanelFocused: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("99")),
		PanelTitle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		ActiveEntry:   lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true), // green
		Entry:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Match:         lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Underline(true),
		Code:          lipgloss.NewStyle().Foreground(lipgloss.Color("180")),
		Quote:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		Rule:          lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Table:         lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		ProgressLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}

	headingColors := []string{"", "99", "39", "51", "78", "214", "252"}
	for level := 1; level <= 6; level++ {
		s.Heading[level] = lipgloss.NewStyle().
			Bold(level <= 3).
			Foreground(lipgloss.Color(headingColors[level]))
	}
	return s
}
