package ui

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/viewport"

	"tocview/internal/document"
	"tocview/internal/outline"
	"tocview/internal/ui/views"
)

// Page is the document pane. It satisfies outline.Page: heading tops are
// read from the current layout on every call, and scroll, resize and
// focus changes are reported to registered listeners.
type Page struct {
	vp     viewport.Model
	styles *views.Styles
	sched  *Scheduler

	doc       *document.Document
	wrapWidth int

	listeners map[outline.EventKind]map[int]func()
	nextID    int
	hidden    bool

	scrollDuration time.Duration
	anim           *scrollAnimation
}

type scrollAnimation struct {
	target    int
	stepsLeft int
	cancel    func()
}

// NewPage creates an empty document pane
func NewPage(sched *Scheduler, styles *views.Styles, scrollDuration time.Duration, wrapWidth int) *Page {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = false // wheel events go through ScrollBy so listeners hear them
	return &Page{
		vp:             vp,
		styles:         styles,
		sched:          sched,
		wrapWidth:      wrapWidth,
		listeners:      make(map[outline.EventKind]map[int]func()),
		scrollDuration: scrollDuration,
	}
}

// SetDocument shows doc from the top
func (p *Page) SetDocument(doc *document.Document) {
	p.stopAnimation()
	p.doc = doc
	p.layout()
	p.vp.SetYOffset(0)
}

// Document returns the document on display
func (p *Page) Document() *document.Document {
	return p.doc
}

// SetSize resizes the pane and lays the document out again
func (p *Page) SetSize(width, height int) {
	if width == p.vp.Width && height == p.vp.Height {
		return
	}
	p.vp.Width = width
	p.vp.Height = height
	p.layout()
	p.emit(outline.EventResize)
}

func (p *Page) layout() {
	if p.doc == nil || p.vp.Width <= 0 {
		p.vp.SetContent("")
		return
	}
	width := p.vp.Width
	if p.wrapWidth > 0 && p.wrapWidth < width {
		width = p.wrapWidth
	}
	p.vp.SetContent(views.RenderDocument(p.styles, p.doc.Layout(width)))
}

// HeadingTop returns the heading's line relative to the top of the pane
func (p *Page) HeadingTop(n outline.Node) int {
	h, ok := n.(*document.Heading)
	if !ok {
		return 0
	}
	return h.Line() - p.vp.YOffset
}

// ScrollTo smoothly scrolls so the heading sits offset lines below the top
func (p *Page) ScrollTo(n outline.Node, offset int) {
	h, ok := n.(*document.Heading)
	if !ok {
		return
	}
	target := h.Line() - offset
	if target < 0 {
		target = 0
	}

	p.stopAnimation()
	steps := int(p.scrollDuration / frameInterval)
	if steps <= 1 || p.sched == nil {
		p.setOffset(target)
		return
	}
	p.anim = &scrollAnimation{target: target, stepsLeft: steps}
	p.step()
}

// step moves an equal share of the remaining distance each frame
func (p *Page) step() {
	a := p.anim
	if a == nil {
		return
	}
	remaining := a.target - p.vp.YOffset
	delta := remaining / a.stepsLeft
	if delta == 0 && remaining != 0 {
		delta = sign(remaining)
	}
	before := p.vp.YOffset
	p.setOffset(p.vp.YOffset + delta)
	a.stepsLeft--

	// Done at the target, out of steps, or stuck against the end of the content
	if p.vp.YOffset == a.target || a.stepsLeft <= 0 || (p.vp.YOffset == before && delta != 0) {
		if a.stepsLeft <= 0 {
			p.setOffset(a.target)
		}
		p.anim = nil
		return
	}
	a.cancel = p.sched.AfterFunc(frameInterval, p.step)
}

func (p *Page) stopAnimation() {
	if p.anim != nil && p.anim.cancel != nil {
		p.anim.cancel()
	}
	p.anim = nil
}

// Scrolling reports whether a smooth scroll is running
func (p *Page) Scrolling() bool {
	return p.anim != nil
}

// ScrollBy scrolls by delta lines, cancelling any smooth scroll
func (p *Page) ScrollBy(delta int) {
	p.stopAnimation()
	p.setOffset(p.vp.YOffset + delta)
}

// SetOffset jumps to a line without animation
func (p *Page) SetOffset(offset int) {
	p.stopAnimation()
	p.setOffset(offset)
}

// Offset returns the first visible line
func (p *Page) Offset() int {
	return p.vp.YOffset
}

func (p *Page) setOffset(offset int) {
	before := p.vp.YOffset
	p.vp.SetYOffset(offset)
	if p.vp.YOffset != before {
		p.emit(outline.EventScroll)
	}
}

// Top and Bottom jump to either end of the document
func (p *Page) Top()    { p.SetOffset(0) }
func (p *Page) Bottom() { p.SetOffset(p.vp.TotalLineCount()) }

// HalfPage returns half the pane height for paging keys
func (p *Page) HalfPage() int {
	if p.vp.Height < 2 {
		return 1
	}
	return p.vp.Height / 2
}

// Height returns the pane height
func (p *Page) Height() int {
	return p.vp.Height
}

// Progress returns how far through the document the reader is, 0 to 1
func (p *Page) Progress() float64 {
	return p.vp.ScrollPercent()
}

// SetHidden records terminal focus and tells visibility listeners
func (p *Page) SetHidden(hidden bool) {
	if hidden == p.hidden {
		return
	}
	p.hidden = hidden
	p.emit(outline.EventVisibility)
}

// Hidden reports whether the terminal has lost focus
func (p *Page) Hidden() bool {
	return p.hidden
}

// On registers fn for kind
func (p *Page) On(kind outline.EventKind, fn func()) (off func()) {
	if p.listeners[kind] == nil {
		p.listeners[kind] = make(map[int]func())
	}
	p.nextID++
	id := p.nextID
	p.listeners[kind][id] = fn
	return func() { delete(p.listeners[kind], id) }
}

// ListenerCount returns the number of listeners for kind
func (p *Page) ListenerCount(kind outline.EventKind) int {
	return len(p.listeners[kind])
}

func (p *Page) emit(kind outline.EventKind) {
	ids := make([]int, 0, len(p.listeners[kind]))
	for id := range p.listeners[kind] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := p.listeners[kind][id]; ok {
			fn()
		}
	}
}

// View renders the visible lines
func (p *Page) View() string {
	return p.vp.View()
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}
