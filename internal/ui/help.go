package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

type helpRow struct {
	keys string
	desc string
}

type helpSection struct {
	title string
	rows  []helpRow
}

var helpSections = []helpSection{
	{"Reading", []helpRow{
		{"↑/↓, j/k", "Scroll one line"},
		{"PgUp/PgDn, ctrl+u/d", "Scroll half a page"},
		{"g/G", "Go to top/bottom"},
		{"mouse wheel", "Scroll"},
	}},
	{"Outline", []helpRow{
		{"t", "Show/hide the outline"},
		{"tab", "Move focus between document and outline"},
		{"j/k", "Move the outline cursor (outline focused)"},
		{"enter", "Jump to the heading under the cursor"},
		{"/", "Find a heading (fuzzy)"},
		{"esc", "Clear the filter / return to the document"},
	}},
	{"Documents", []helpRow{
		{"]", "Next document"},
		{"[", "Previous document"},
	}},
	{"Other", []helpRow{
		{"?", "Show this help"},
		{"q", "Quit"},
	}},
}

// RenderHelpContentPlain generates help content with colors for pager
func (r *HelpRenderer) RenderHelpContentPlain() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	keyWidth := 0
	for _, s := range helpSections {
		for _, row := range s.rows {
			if w := lipgloss.Width(row.keys); w > keyWidth {
				keyWidth = w
			}
		}
	}

	var help strings.Builder
	help.WriteString(titleStyle.Render("tocview Help"))
	help.WriteString("\n")

	for i, s := range helpSections {
		help.WriteString(sectionStyle.Render(s.title))
		help.WriteString("\n")
		for _, row := range s.rows {
			pad := strings.Repeat(" ", keyWidth-lipgloss.Width(row.keys)+2)
			help.WriteString(fmt.Sprintf("  %s%s%s\n", keyStyle.Render(row.keys), pad, descStyle.Render(row.desc)))
		}
		if i < len(helpSections)-1 {
			help.WriteString("\n")
		}
	}

	filterStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	help.WriteString("\n")
	help.WriteString(filterStyle.Render("  Filter examples: install, level:2, level:3 config"))
	help.WriteString("\n")

	return help.String()
}

// HelpOps handles help operations
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{
		program: program,
	}
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h == nil || h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// Give ov time to exit before taking the terminal back
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	// Keep ov from writing over our screen on exit
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
