package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"tocview/internal/domain"
	"tocview/internal/ui/logic"
)

// OutlinePanel draws the flat heading list next to the document. The
// outline drives it through Render, SetActive, EnsureVisible and
// SetVisible; the model drives the keyboard cursor and filter.
type OutlinePanel struct {
	styles *Styles

	entries []domain.HeadingEntry
	index   map[string]int
	active  map[string]bool
	empty   bool
	visible bool

	navigator *logic.Navigator
	filter    *logic.SearchFilter
	query     string
	results   []logic.SearchResult // nil when not filtering

	focused bool
	width   int
	height  int
}

// NewOutlinePanel creates a hidden panel
func NewOutlinePanel(styles *Styles) *OutlinePanel {
	return &OutlinePanel{
		styles:    styles,
		index:     make(map[string]int),
		active:    make(map[string]bool),
		navigator: logic.NewNavigator(),
		filter:    logic.NewSearchFilter(nil),
	}
}

// Render replaces the list with entries in document order
func (p *OutlinePanel) Render(entries []domain.HeadingEntry) {
	p.entries = entries
	p.empty = false
	p.index = make(map[string]int, len(entries))
	for i, e := range entries {
		p.index[e.ID] = i
	}
	p.active = make(map[string]bool)
	p.filter = logic.NewSearchFilter(entries)
	p.query = ""
	p.results = nil
	p.navigator = logic.NewNavigator()
	p.syncNavigator()
}

// RenderEmpty shows the placeholder for a document without headings
func (p *OutlinePanel) RenderEmpty() {
	p.Render(nil)
	p.empty = true
}

// Reset clears the panel when no outline is attached
func (p *OutlinePanel) Reset() {
	p.Render(nil)
}

// SetActive marks or unmarks the entry for id
func (p *OutlinePanel) SetActive(id string, active bool) {
	if _, ok := p.index[id]; !ok {
		return
	}
	if active {
		p.active[id] = true
	} else {
		delete(p.active, id)
	}
}

// EnsureVisible scrolls the list so id is in view, centering it only when it was out of view
func (p *OutlinePanel) EnsureVisible(id string) {
	i, ok := p.row(id)
	if !ok {
		return
	}
	p.navigator.CenterOn(i)
}

// SetVisible shows or hides the panel
func (p *OutlinePanel) SetVisible(visible bool) {
	p.visible = visible
}

// Visible reports whether the panel is shown
func (p *OutlinePanel) Visible() bool {
	return p.visible
}

// ActiveIDs returns the ids currently marked active
func (p *OutlinePanel) ActiveIDs() []string {
	var ids []string
	for _, e := range p.entries {
		if p.active[e.ID] {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Entries returns the rendered entries
func (p *OutlinePanel) Entries() []domain.HeadingEntry {
	return p.entries
}

// SetSize sets the outer size of the panel including its border
func (p *OutlinePanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.syncNavigator()
}

// SetFocused moves the keyboard cursor into the panel, starting at the active entry
func (p *OutlinePanel) SetFocused(focused bool) {
	p.focused = focused
	if !focused {
		return
	}
	for i := 0; i < p.rows(); i++ {
		if p.active[p.entryAt(i).ID] {
			p.navigator.SetSelectedIndex(i)
			return
		}
	}
}

// Focused reports whether the panel has the keyboard cursor
func (p *OutlinePanel) Focused() bool {
	return p.focused
}

// MoveCursor moves the keyboard cursor by delta rows
func (p *OutlinePanel) MoveCursor(delta int) {
	p.navigator.MoveSelection(delta)
}

// Selected returns the id under the keyboard cursor
func (p *OutlinePanel) Selected() string {
	if p.rows() == 0 {
		return ""
	}
	return p.entryAt(p.navigator.GetSelectedIndex()).ID
}

// SetFilter narrows the list to headings matching query
func (p *OutlinePanel) SetFilter(query string) {
	p.query = query
	p.results = p.filter.Search(query)
	if p.results == nil {
		p.results = []logic.SearchResult{}
	}
	p.syncNavigator()
	if best := p.filter.Best(query); best >= 0 {
		if row, ok := p.row(p.entries[best].ID); ok {
			p.navigator.SetSelectedIndex(row)
		}
	}
}

// ClearFilter shows every entry again
func (p *OutlinePanel) ClearFilter() {
	p.query = ""
	p.results = nil
	p.syncNavigator()
}

// Filtering reports whether a filter is applied
func (p *OutlinePanel) Filtering() bool {
	return p.results != nil
}

func (p *OutlinePanel) rows() int {
	if p.results != nil {
		return len(p.results)
	}
	return len(p.entries)
}

func (p *OutlinePanel) entryAt(row int) domain.HeadingEntry {
	if p.results != nil {
		return p.entries[p.results[row].Index]
	}
	return p.entries[row]
}

// row maps an entry id to its row in the current (possibly filtered) list
func (p *OutlinePanel) row(id string) (int, bool) {
	i, ok := p.index[id]
	if !ok {
		return 0, false
	}
	if p.results == nil {
		return i, true
	}
	for r, res := range p.results {
		if res.Index == i {
			return r, true
		}
	}
	return 0, false
}

// listHeight is the number of lines available for rows inside the border and title
func (p *OutlinePanel) listHeight() int {
	h := p.height - 2 - 1
	if h < 1 {
		h = 1
	}
	return h
}

func (p *OutlinePanel) innerWidth() int {
	w := p.width - 2
	if w < 1 {
		w = 1
	}
	return w
}

func (p *OutlinePanel) syncNavigator() {
	p.navigator.UpdateState(p.rows(), p.listHeight())
}

// View renders the panel, or "" while hidden
func (p *OutlinePanel) View() string {
	if !p.visible || p.width <= 2 {
		return ""
	}
	width := p.innerWidth()

	var lines []string
	title := "Contents"
	if p.results != nil {
		title = fmt.Sprintf("Contents · %d/%d", len(p.results), len(p.entries))
	}
	lines = append(lines, p.styles.PanelTitle.Render(fit(title, width)))

	switch {
	case p.empty:
		lines = append(lines, p.styles.Dim.Render(fit("No headings", width)))
	case p.rows() == 0 && p.results != nil:
		lines = append(lines, p.styles.Dim.Render(fit("No matches", width)))
	default:
		top, bottom := p.navigator.Indicators()
		if top {
			lines = append(lines, p.styles.Scroll.Render("↑ more"))
		}
		start, end := p.navigator.VisibleRange()
		for row := start; row < end; row++ {
			lines = append(lines, p.renderRow(row, width))
		}
		if bottom {
			lines = append(lines, p.styles.Scroll.Render("↓ more"))
		}
	}

	style := p.styles.PanelBorder
	if p.focused {
		style = p.styles.PanelFocused
	}
	return style.
		Width(width).
		Height(p.height - 2).
		Render(strings.Join(lines, "\n"))
}

func (p *OutlinePanel) renderRow(row, width int) string {
	e := p.entryAt(row)
	indent := strings.Repeat("  ", e.Level-1)
	marker := "  "
	if p.active[e.ID] {
		marker = "▸ "
	}

	avail := width - lipgloss.Width(marker) - len(indent)
	if avail < 1 {
		avail = 1
	}
	text := fit(e.Text, avail)

	style := p.styles.Entry
	if p.active[e.ID] {
		style = p.styles.ActiveEntry
	}

	var body string
	if p.results != nil && len(p.results[row].MatchedIndexes) > 0 {
		body = p.highlight(text, p.results[row].MatchedIndexes, style)
	} else {
		body = style.Render(text)
	}

	line := marker + indent + body
	if p.focused && row == p.navigator.GetSelectedIndex() {
		line = p.styles.SelectionBg.Render(line)
	}
	return line
}

// highlight styles the matched byte positions of text
func (p *OutlinePanel) highlight(text string, matched []int, base lipgloss.Style) string {
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}
	var b strings.Builder
	for i, r := range text {
		if hit[i] {
			b.WriteString(p.styles.Match.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

func fit(s string, width int) string {
	return truncate.StringWithTail(s, uint(width), "…")
}
