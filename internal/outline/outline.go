// Package outline keeps a flat table of contents in sync with the reading
// position of a scrolling page.
//
// An Outline reads heading geometry from a Page, marks at most one entry
// active through a Renderer, and defers all work to a Scheduler so that every
// callback runs on the caller's event loop. Nothing here is fatal: missing
// collaborators turn construction into a no-op and unknown ids are ignored.
package outline

import (
	"fmt"
	"log"
	"time"

	"tocview/internal/domain"
)

// EventKind is a page signal the outline listens to
type EventKind int

const (
	EventScroll EventKind = iota
	EventResize
	EventVisibility
)

func (k EventKind) String() string {
	switch k {
	case EventScroll:
		return "scroll"
	case EventResize:
		return "resize"
	case EventVisibility:
		return "visibility"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Node is a live heading in the page. The outline never owns it.
type Node interface {
	ID() string
	SetID(id string)
	Text() string
	Level() int
}

// Region is the content area whose headings form the outline
type Region interface {
	Headings() []Node // document order
}

// Page is the scrolling surface holding the region
type Page interface {
	// HeadingTop is the node's top relative to the viewport top, recomputed on every call.
	HeadingTop(n Node) int
	// ScrollTo smoothly scrolls so the node sits offset below the viewport top.
	ScrollTo(n Node, offset int)
	// On registers fn for kind and returns a function removing it.
	On(kind EventKind, fn func()) (off func())
	Hidden() bool
}

// Renderer draws the outline list
type Renderer interface {
	Render(entries []domain.HeadingEntry)
	RenderEmpty()
	SetActive(id string, active bool)
	// EnsureVisible scrolls the list itself, not the page, to center id when it is out of view.
	EnsureVisible(id string)
	SetVisible(visible bool)
}

// Scheduler defers callbacks onto the event loop
type Scheduler interface {
	RequestFrame(fn func())
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// Entry is one heading of the outline
type Entry struct {
	domain.HeadingEntry
	Node Node
}

const (
	DefaultReferenceOffset = 3
	DefaultSuspendWindow   = time.Second
)

type options struct {
	referenceOffset int
	suspendWindow   time.Duration
	scrollDuration  time.Duration
	pauseWhenHidden bool
	visible         bool
	onChange        func(id string)
	onVisibility    func(visible bool)
}

// Option configures an Outline
type Option func(*options)

// WithReferenceOffset sets the reference line below the viewport top
func WithReferenceOffset(offset int) Option {
	return func(o *options) {
		if offset >= 0 {
			o.referenceOffset = offset
		}
	}
}

// WithSuspendWindow sets how long tracking stays off after NavigateTo
func WithSuspendWindow(d time.Duration) Option {
	return func(o *options) { o.suspendWindow = d }
}

// WithScrollDuration sets the expected smooth-scroll duration; the
// suspension window never ends before it
func WithScrollDuration(d time.Duration) Option {
	return func(o *options) { o.scrollDuration = d }
}

// WithPauseWhenHidden skips tracking while the page reports hidden
func WithPauseWhenHidden(pause bool) Option {
	return func(o *options) { o.pauseWhenHidden = pause }
}

// WithVisible sets the initial panel visibility
func WithVisible(visible bool) Option {
	return func(o *options) { o.visible = visible }
}

// OnChange is called after the active entry changes; id is empty when none is active
func OnChange(fn func(id string)) Option {
	return func(o *options) { o.onChange = fn }
}

// OnVisibilityChange reports panel visibility to the owner of the toggle control
func OnVisibilityChange(fn func(visible bool)) Option {
	return func(o *options) { o.onVisibility = fn }
}

// Outline is the scroll-synchronized table of contents for one page view
type Outline struct {
	page     Page
	renderer Renderer
	sched    Scheduler
	opts     options

	entries []Entry
	index   map[string]int

	activeID  string
	suspended bool
	queued    bool
	visible   bool

	disabled  bool
	destroyed bool

	offs         []func()
	cancelResume func()
}

// New builds and renders the outline of region and starts tracking page.
// A nil region, page, renderer or scheduler yields an inert Outline.
func New(region Region, page Page, renderer Renderer, sched Scheduler, opts ...Option) *Outline {
	o := &Outline{
		opts: options{
			referenceOffset: DefaultReferenceOffset,
			suspendWindow:   DefaultSuspendWindow,
			visible:         true,
		},
	}
	for _, opt := range opts {
		opt(&o.opts)
	}

	if region == nil || page == nil || renderer == nil || sched == nil {
		o.disabled = true
		return o
	}

	o.page = page
	o.renderer = renderer
	o.sched = sched
	o.visible = o.opts.visible

	o.entries = BuildEntries(region.Headings())
	o.index = make(map[string]int, len(o.entries))
	for i, e := range o.entries {
		o.index[e.ID] = i
	}

	renderer.SetVisible(o.visible)
	if len(o.entries) == 0 {
		renderer.RenderEmpty()
		return o
	}
	o.render()

	o.offs = append(o.offs,
		page.On(EventScroll, o.schedule),
		page.On(EventResize, o.schedule),
		page.On(EventVisibility, o.onVisibilityChange),
	)
	o.schedule()

	log.Printf("outline: built %d entries", len(o.entries))
	return o
}

func (o *Outline) render() {
	headings := make([]domain.HeadingEntry, len(o.entries))
	for i, e := range o.entries {
		headings[i] = e.HeadingEntry
	}
	o.renderer.Render(headings)
}

// tracking reports whether scroll tracking is wired
func (o *Outline) tracking() bool {
	return !o.disabled && !o.destroyed && len(o.entries) > 0
}

// schedule coalesces scroll and resize signals into one evaluation per frame
func (o *Outline) schedule() {
	if o.queued || !o.tracking() {
		return
	}
	o.queued = true
	o.sched.RequestFrame(o.frame)
}

func (o *Outline) frame() {
	if o.destroyed {
		return
	}
	o.queued = false
	o.TrackScroll()
}

func (o *Outline) onVisibilityChange() {
	if o.opts.pauseWhenHidden && !o.page.Hidden() {
		o.schedule()
	}
}

// TrackScroll marks the last heading at or above the reference line as active
func (o *Outline) TrackScroll() {
	if !o.tracking() || o.suspended {
		return
	}
	if o.opts.pauseWhenHidden && o.page.Hidden() {
		return
	}

	current := ""
	for i := len(o.entries) - 1; i >= 0; i-- {
		if o.page.HeadingTop(o.entries[i].Node) <= o.opts.referenceOffset {
			current = o.entries[i].ID
			break
		}
	}
	o.setActive(current)
}

func (o *Outline) setActive(id string) {
	if id == o.activeID {
		return
	}
	// Clear the previous mark first so two entries are never active
	if o.activeID != "" {
		o.renderer.SetActive(o.activeID, false)
	}
	o.activeID = id
	if id != "" {
		o.renderer.SetActive(id, true)
		o.renderer.EnsureVisible(id)
	}
	if o.opts.onChange != nil {
		o.opts.onChange(id)
	}
}

// NavigateTo scrolls the page to the heading with id. The entry becomes active
// at once and scroll tracking stays suspended until the scroll settles.
func (o *Outline) NavigateTo(id string) {
	if !o.tracking() {
		return
	}
	i, ok := o.index[id]
	if !ok {
		return
	}

	o.suspended = true
	if o.cancelResume != nil {
		o.cancelResume()
	}
	o.setActive(id)
	o.page.ScrollTo(o.entries[i].Node, o.opts.referenceOffset)
	o.cancelResume = o.sched.AfterFunc(o.suspendWindow(), o.resume)
}

func (o *Outline) resume() {
	if o.destroyed {
		return
	}
	o.suspended = false
	o.cancelResume = nil
}

func (o *Outline) suspendWindow() time.Duration {
	if o.opts.suspendWindow < o.opts.scrollDuration {
		return o.opts.scrollDuration
	}
	return o.opts.suspendWindow
}

// Show displays the outline panel
func (o *Outline) Show() { o.setVisible(true) }

// Hide hides the outline panel
func (o *Outline) Hide() { o.setVisible(false) }

// Toggle flips the outline panel visibility
func (o *Outline) Toggle() { o.setVisible(!o.visible) }

func (o *Outline) setVisible(visible bool) {
	if o.disabled || o.destroyed || visible == o.visible {
		return
	}
	o.visible = visible
	o.renderer.SetVisible(visible)
	if visible && o.activeID != "" {
		o.renderer.EnsureVisible(o.activeID)
	}
	if o.opts.onVisibility != nil {
		o.opts.onVisibility(visible)
	}
}

// Visible reports whether the panel is shown
func (o *Outline) Visible() bool {
	return o.visible && !o.disabled && !o.destroyed
}

// Active reports whether the outline was constructed with all collaborators
func (o *Outline) Active() bool {
	return !o.disabled && !o.destroyed
}

// Entries returns the outline in document order
func (o *Outline) Entries() []Entry {
	out := make([]Entry, len(o.entries))
	copy(out, o.entries)
	return out
}

// ActiveID returns the active entry id or "" if none
func (o *Outline) ActiveID() string {
	return o.activeID
}

// Suspended reports whether a navigation is in flight
func (o *Outline) Suspended() bool {
	return o.suspended
}

// Destroy detaches every listener and releases the page and its nodes.
// It is safe to call more than once.
func (o *Outline) Destroy() {
	if o.destroyed {
		return
	}
	o.destroyed = true

	for _, off := range o.offs {
		off()
	}
	o.offs = nil
	if o.cancelResume != nil {
		o.cancelResume()
		o.cancelResume = nil
	}

	o.queued = false
	o.suspended = false
	o.activeID = ""
	o.entries = nil
	o.index = nil
	o.page = nil
	o.renderer = nil
	o.sched = nil
}
