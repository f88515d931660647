package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Chrome around the document pane, in lines
const (
	HeaderHeight = 1
	FooterHeight = 2
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	Title         string
	DocIndex      int // 1-based
	DocCount      int
	Body          string
	Outline       string // rendered panel, "" while hidden
	OutlineLeft   bool
	Progress      string // rendered progress bar, "" when disabled
	StatusMessage string
	StatusIsError bool
	FilterInput   string // rendered text input while filtering
	HelpView      string
	Ready         bool // print the ready marker for the e2e driver
	Loading       bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer(styles *Styles) *Renderer {
	return &Renderer{styles: styles}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	var content strings.Builder

	content.WriteString(r.renderTitleLine(state))
	content.WriteString("\n")

	mainHeight := state.Height - HeaderHeight - FooterHeight
	if mainHeight < 1 {
		mainHeight = 1
	}

	var main string
	switch {
	case state.Loading:
		main = r.styles.Dim.Render("Loading...")
	case state.Outline == "":
		main = state.Body
	case state.OutlineLeft:
		main = lipgloss.JoinHorizontal(lipgloss.Top, state.Outline, " ", state.Body)
	default:
		main = lipgloss.JoinHorizontal(lipgloss.Top, state.Body, " ", state.Outline)
	}
	content.WriteString(lipgloss.NewStyle().Height(mainHeight).MaxHeight(mainHeight).Render(main))
	content.WriteString("\n")

	content.WriteString(r.renderStatusLine(state))
	content.WriteString("\n")

	if state.FilterInput != "" {
		content.WriteString(state.FilterInput)
	} else {
		content.WriteString(r.styles.Help.Render(state.HelpView))
	}

	return content.String()
}

func (r *Renderer) renderTitleLine(state ViewState) string {
	logo := r.styles.Title.Render(state.Title)

	var right []string
	if state.DocCount > 1 {
		right = append(right, r.styles.Dim.Render(fmt.Sprintf("[%d/%d]", state.DocIndex, state.DocCount)))
	}
	if state.Ready {
		right = append(right, "__READY__")
	}
	if len(right) == 0 {
		return logo
	}
	rightContent := strings.Join(right, " ")

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	paddingWidth := termWidth - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if paddingWidth > 0 {
		return logo + strings.Repeat(" ", paddingWidth) + rightContent
	}
	return logo + "  " + rightContent
}

func (r *Renderer) renderStatusLine(state ViewState) string {
	status := ""
	if state.StatusMessage != "" {
		if state.StatusIsError {
			status = r.styles.StatusError.Render(state.StatusMessage)
		} else {
			status = r.styles.Status.Render(state.StatusMessage)
		}
	}
	switch {
	case state.Progress == "":
		return status
	case status == "":
		return state.Progress
	default:
		return state.Progress + "  " + status
	}
}
