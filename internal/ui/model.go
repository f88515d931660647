package ui

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tocview/internal/config"
	"tocview/internal/document"
	"tocview/internal/domain"
	"tocview/internal/eventbus"
	"tocview/internal/outline"
	"tocview/internal/store"
	"tocview/internal/ui/views"
)

// Options configure a reader model
type Options struct {
	Files     []string
	Config    *config.Config
	Bus       eventbus.EventBus
	Positions store.Positions // nil disables remembered positions
	NoOutline bool
}

type focusArea int

const (
	focusDocument focusArea = iota
	focusOutline
)

// Model represents the UI state
type Model struct {
	bus       eventbus.EventBus
	config    *config.Config
	positions store.Positions
	files     []string
	current   int
	docOpts   document.Options

	sched *Scheduler
	page  *Page
	panel *views.OutlinePanel

	// Rebuilt for every document; nil when the outline is off
	toc            *outline.Outline
	noOutline      bool
	outlineVisible bool
	activeID       string

	// Restored once the pane has a size to lay the document out
	pendingRestore *domain.ReadingPosition

	focus       focusArea
	filtering   bool
	filterInput textinput.Model

	width        int
	height       int
	keys         keyMap
	help         help.Model
	progress     progress.Model
	renderer     *views.Renderer
	helpRenderer *HelpRenderer

	statusMessage string
	statusIsError bool
	loading       bool

	// Program reference for terminal management
	program     *tea.Program
	helpOps     *HelpOps
	inPagerMode bool
	e2e         bool
}

// NewModel creates a new UI model
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	styles := views.NewStyles()
	sched := NewScheduler()

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "heading"
	ti.CharLimit = 64

	return &Model{
		bus:            opts.Bus,
		config:         cfg,
		positions:      opts.Positions,
		files:          opts.Files,
		docOpts:        document.Options{ContentSelector: cfg.HTML.ContentSelector},
		sched:          sched,
		page:           NewPage(sched, styles, cfg.Outline.ScrollDuration(), cfg.Reader.WrapWidth),
		panel:          views.NewOutlinePanel(styles),
		noOutline:      opts.NoOutline,
		outlineVisible: cfg.Outline.Visible,
		filterInput:    ti,
		keys:           newKeyMap(),
		help:           help.New(),
		progress:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		renderer:       views.NewRenderer(styles),
		helpRenderer:   NewHelpRenderer(),
		loading:        len(opts.Files) > 0,
		e2e:            os.Getenv("TOCVIEW_E2E_TEST") == "1",
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// Init loads the first document
func (m *Model) Init() tea.Cmd {
	if len(m.files) == 0 {
		return nil
	}
	return m.load(m.current, false)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.sched.Handle(msg) {
		return m, m.sched.Cmds()
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()

	case tea.FocusMsg:
		m.page.SetHidden(false)

	case tea.BlurMsg:
		m.page.SetHidden(true)

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.page.ScrollBy(-3)
		case tea.MouseButtonWheelDown:
			m.page.ScrollBy(3)
		}

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case documentLoadedMsg:
		cmd = m.handleLoaded(msg)

	case EventMsg:
		cmd = m.handleEvent(msg.Event)

	case helpPagerMsg:
		if msg.err != nil {
			log.Printf("Help pager failed: %v", msg.err)
		}

	case pauseRenderingMsg:
		m.inPagerMode = true

	case resumeRenderingMsg:
		m.inPagerMode = false

	case clearStatusMsg:
		m.statusMessage = ""
		m.statusIsError = false
	}

	return m, tea.Batch(cmd, m.sched.Cmds())
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	doc := m.page.Document()
	state := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Title:         m.title(),
		DocIndex:      m.current + 1,
		DocCount:      len(m.files),
		Body:          m.page.View(),
		Outline:       m.panel.View(),
		OutlineLeft:   m.config.Outline.Side == "left",
		StatusMessage: m.statusMessage,
		StatusIsError: m.statusIsError,
		HelpView:      m.help.View(m.keys),
		Ready:         m.e2e && doc != nil,
		Loading:       doc == nil && m.loading,
	}
	if doc == nil && !m.loading {
		state.Body = m.renderer.Styles().Dim.Render("No document")
	}
	if m.config.Reader.ShowProgress && doc != nil {
		state.Progress = m.progress.ViewAs(m.page.Progress())
	}
	if m.filtering {
		state.FilterInput = m.filterInput.View()
	}
	return m.renderer.Render(state)
}

func (m *Model) title() string {
	doc := m.page.Document()
	if doc == nil {
		return "tocview"
	}
	if m.activeID != "" {
		for _, e := range m.panel.Entries() {
			if e.ID == m.activeID {
				return doc.Title + " › " + e.Text
			}
		}
	}
	return doc.Title
}

// load reads a document off the UI loop
func (m *Model) load(index int, reload bool) tea.Cmd {
	path := m.files[index]
	opts := m.docOpts
	return func() tea.Msg {
		doc, err := document.Load(path, opts)
		return documentLoadedMsg{index: index, doc: doc, err: err, reload: reload}
	}
}

func (m *Model) handleLoaded(msg documentLoadedMsg) tea.Cmd {
	if msg.err != nil {
		log.Printf("Failed to load %s: %v", m.files[msg.index], msg.err)
		m.loading = false
		m.publish(eventbus.ErrorEvent{Message: "load document", Err: msg.err})
		if errors.Is(msg.err, os.ErrNotExist) {
			m.forgetPosition(m.files[msg.index])
		}
		return m.setStatus(fmt.Sprintf("Cannot open %s: %v", m.files[msg.index], msg.err), true)
	}

	offset := 0
	var restore *domain.ReadingPosition
	if msg.reload && msg.index == m.current && m.page.Document() != nil {
		offset = m.page.Offset()
	} else {
		m.closeDocument()
		if pos, ok := m.savedPosition(msg.doc.Path); ok {
			restore = &pos
		}
	}

	// Page transition: the old outline lets go of the old document first
	m.detachOutline()
	m.current = msg.index
	m.loading = false
	m.page.SetDocument(msg.doc)
	m.attachOutline()

	switch {
	case restore != nil && m.width == 0:
		m.pendingRestore = restore
	case restore != nil:
		m.page.SetOffset(m.restoreOffset(*restore))
	default:
		m.page.SetOffset(offset)
	}

	info := msg.doc.Info()
	log.Printf("Loaded %s (%d headings, %d lines)", info.Path, info.Headings, info.Lines)
	m.publish(eventbus.DocumentLoadedEvent{Document: info})

	if msg.reload {
		return m.setStatus("Reloaded "+filepath.Base(msg.doc.Path), false)
	}
	return nil
}

// attachOutline builds the outline for the document on the page
func (m *Model) attachOutline() {
	doc := m.page.Document()
	if m.noOutline || doc == nil {
		m.panel.SetVisible(false)
		m.resize()
		return
	}

	o := m.config.Outline
	m.toc = outline.New(doc.Region(), m.page, m.panel, m.sched,
		outline.WithReferenceOffset(o.ReferenceOffset),
		outline.WithSuspendWindow(o.SuspendWindow()),
		outline.WithScrollDuration(o.ScrollDuration()),
		outline.WithPauseWhenHidden(o.PauseWhenHidden),
		outline.WithVisible(m.outlineVisible),
		outline.OnChange(m.onActiveChange),
		outline.OnVisibilityChange(m.onOutlineVisibility),
	)
	if !m.toc.Active() {
		// No content region, so no outline for this document
		m.panel.SetVisible(false)
	}
	m.resize()
}

// detachOutline destroys the current outline before its document goes away
func (m *Model) detachOutline() {
	if m.toc != nil {
		m.toc.Destroy()
		m.toc = nil
	}
	m.activeID = ""
	m.stopFilter()
	m.setFocus(focusDocument)
	m.panel.Reset()
}

// closeDocument records where the reader left the current document
func (m *Model) closeDocument() {
	doc := m.page.Document()
	if doc == nil {
		return
	}
	pos := domain.ReadingPosition{Offset: m.page.Offset(), HeadingID: m.activeID}
	m.publish(eventbus.DocumentClosedEvent{Path: doc.Path, Position: pos})

	if m.positions == nil || !m.config.Reader.RememberPosition {
		return
	}
	if err := m.positions.Save(doc.Path, pos); err != nil {
		log.Printf("Failed to save position for %s: %v", doc.Path, err)
		return
	}
	m.publish(eventbus.PositionSavedEvent{Path: doc.Path, Position: pos})
}

// forgetPosition drops the saved position of a document that is gone
func (m *Model) forgetPosition(path string) {
	if m.positions == nil {
		return
	}
	if err := m.positions.Forget(path); err != nil {
		log.Printf("Failed to forget position for %s: %v", path, err)
	}
}

func (m *Model) savedPosition(path string) (domain.ReadingPosition, bool) {
	if m.positions == nil || !m.config.Reader.RememberPosition {
		return domain.ReadingPosition{}, false
	}
	return m.positions.Load(path)
}

// restoreOffset prefers the saved heading, which survives a different terminal width
func (m *Model) restoreOffset(pos domain.ReadingPosition) int {
	if doc := m.page.Document(); doc != nil && pos.HeadingID != "" {
		if h := doc.HeadingByID(pos.HeadingID); h != nil {
			offset := h.Line() - m.config.Outline.ReferenceOffset
			if offset < 0 {
				offset = 0
			}
			return offset
		}
	}
	return pos.Offset
}

// resize splits the terminal between the document pane and the outline panel
func (m *Model) resize() {
	if m.width == 0 {
		return
	}
	mainHeight := m.height - views.HeaderHeight - views.FooterHeight
	if mainHeight < 1 {
		mainHeight = 1
	}

	docWidth := m.width
	if m.panel.Visible() {
		panelWidth := m.config.Outline.Width
		if panelWidth > m.width/2 {
			panelWidth = m.width / 2
		}
		m.panel.SetSize(panelWidth, mainHeight)
		docWidth = m.width - panelWidth - 1
	}
	m.page.SetSize(docWidth, mainHeight)
	m.progress.Width = m.width / 3

	if m.pendingRestore != nil {
		m.page.SetOffset(m.restoreOffset(*m.pendingRestore))
		m.pendingRestore = nil
	}
}

func (m *Model) onActiveChange(id string) {
	m.activeID = id
	if doc := m.page.Document(); doc != nil {
		m.publish(eventbus.ActiveHeadingChangedEvent{Path: doc.Path, ID: id})
	}
}

func (m *Model) onOutlineVisibility(visible bool) {
	m.outlineVisible = visible
	if !visible {
		m.stopFilter()
		m.setFocus(focusDocument)
	}
	m.publish(eventbus.OutlineVisibilityChangedEvent{Visible: visible})
	m.resize()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.closeDocument()
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		return m.fetchHelpPager(m.helpRenderer.RenderHelpContentPlain())

	case key.Matches(msg, m.keys.Toggle):
		if m.toc == nil || !m.toc.Active() {
			return m.setStatus("No outline for this document", false)
		}
		m.toc.Toggle()
		return nil

	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusOutline {
			m.setFocus(focusDocument)
		} else if m.outlineUsable() {
			m.setFocus(focusOutline)
		}
		return nil

	case key.Matches(msg, m.keys.Filter):
		return m.startFilter()

	case key.Matches(msg, m.keys.NextDoc):
		return m.switchDocument(1)

	case key.Matches(msg, m.keys.PrevDoc):
		return m.switchDocument(-1)

	case key.Matches(msg, m.keys.Back):
		m.setFocus(focusDocument)
		return nil
	}

	if m.focus == focusOutline {
		switch {
		case key.Matches(msg, m.keys.Down):
			m.panel.MoveCursor(1)
		case key.Matches(msg, m.keys.Up):
			m.panel.MoveCursor(-1)
		case key.Matches(msg, m.keys.HalfPageDown):
			m.panel.MoveCursor(m.page.HalfPage())
		case key.Matches(msg, m.keys.HalfPageUp):
			m.panel.MoveCursor(-m.page.HalfPage())
		case key.Matches(msg, m.keys.Top):
			m.panel.MoveCursor(-len(m.panel.Entries()))
		case key.Matches(msg, m.keys.Bottom):
			m.panel.MoveCursor(len(m.panel.Entries()))
		case key.Matches(msg, m.keys.Navigate):
			m.navigate(m.panel.Selected())
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		m.page.ScrollBy(1)
	case key.Matches(msg, m.keys.Up):
		m.page.ScrollBy(-1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.page.ScrollBy(m.page.HalfPage())
	case key.Matches(msg, m.keys.HalfPageUp):
		m.page.ScrollBy(-m.page.HalfPage())
	case key.Matches(msg, m.keys.Top):
		m.page.Top()
	case key.Matches(msg, m.keys.Bottom):
		m.page.Bottom()
	}
	return nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopFilter()
		return nil
	case tea.KeyEnter:
		id := m.panel.Selected()
		m.stopFilter()
		m.navigate(id)
		return nil
	case tea.KeyDown, tea.KeyCtrlN:
		m.panel.MoveCursor(1)
		return nil
	case tea.KeyUp, tea.KeyCtrlP:
		m.panel.MoveCursor(-1)
		return nil
	case tea.KeyCtrlC:
		m.closeDocument()
		return tea.Quit
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.panel.SetFilter(m.filterInput.Value())
	return cmd
}

// outlineUsable reports whether the outline has entries to move through
func (m *Model) outlineUsable() bool {
	return m.toc != nil && m.toc.Visible() && len(m.toc.Entries()) > 0
}

func (m *Model) startFilter() tea.Cmd {
	if m.toc == nil || !m.toc.Active() || len(m.toc.Entries()) == 0 {
		return m.setStatus("No headings to search", false)
	}
	if !m.toc.Visible() {
		m.toc.Show()
	}
	m.filtering = true
	m.filterInput.SetValue("")
	m.panel.SetFilter("")
	m.setFocus(focusOutline)
	return m.filterInput.Focus()
}

func (m *Model) stopFilter() {
	if !m.filtering {
		return
	}
	m.filtering = false
	m.filterInput.Blur()
	m.panel.ClearFilter()
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	m.panel.SetFocused(f == focusOutline)
}

// navigate jumps to a heading through the outline so tracking stays suspended during the scroll
func (m *Model) navigate(id string) {
	if m.toc == nil || id == "" {
		return
	}
	m.toc.NavigateTo(id)
}

func (m *Model) switchDocument(delta int) tea.Cmd {
	if len(m.files) < 2 {
		return nil
	}
	next := (m.current + delta + len(m.files)) % len(m.files)
	return m.load(next, false)
}

func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.DocumentChangedEvent:
		doc := m.page.Document()
		if doc == nil || !samePath(doc.Path, e.Path) {
			return nil
		}
		log.Printf("Document changed on disk: %s", e.Path)
		return m.load(m.current, true)
	case eventbus.ErrorEvent:
		return m.setStatus(e.Message, true)
	}
	return nil
}

func (m *Model) setStatus(message string, isError bool) tea.Cmd {
	m.statusMessage = message
	m.statusIsError = isError
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m *Model) publish(event eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(event)
	}
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	if m.program == nil {
		return m.setStatus("Help is unavailable", true)
	}
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.helpOps.ShowHelpInPager(helpContent)
		m.program.Send(resumeRenderingMsg{})
		return helpPagerMsg{err: err}
	}
}

// CurrentPath returns the path of the open document
func (m *Model) CurrentPath() string {
	if doc := m.page.Document(); doc != nil {
		return doc.Path
	}
	return ""
}

// OutlineVisible reports whether the outline panel is shown
func (m *Model) OutlineVisible() bool {
	return m.outlineVisible
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
