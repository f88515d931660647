package outline

import (
	"sort"
	"time"

	"tocview/internal/domain"
)

type fakeNode struct {
	id    string
	text  string
	level int
}

func (n *fakeNode) ID() string { return n.id }
func (n *fakeNode) SetID(id string) { n.id = id }
func (n *fakeNode) Text() string { return n.text }
func (n *fakeNode) Level() int { return n.level }

type fakeRegion struct {
	nodes []Node
}

func (r *fakeRegion) Headings() []Node { return r.nodes }

func regionOf(nodes ...*fakeNode) *fakeRegion {
	r := &fakeRegion{}
	for _, n := range nodes {
		r.nodes = append(r.nodes, n)
	}
	return r
}

// fakePage lays nodes out at fixed document lines and scrolls instantly
type fakePage struct {
	lines     map[Node]int
	scrollTop int
	hidden    bool
	listeners map[EventKind]map[int]func()
	nextID    int
	scrolls   []int
}

func newFakePage() *fakePage {
	return &fakePage{
		lines:     make(map[Node]int),
		listeners: make(map[EventKind]map[int]func()),
	}
}

func (p *fakePage) place(n Node, line int) { p.lines[n] = line }

func (p *fakePage) HeadingTop(n Node) int { return p.lines[n] - p.scrollTop }

func (p *fakePage) ScrollTo(n Node, offset int) {
	p.scrollTop = p.lines[n] - offset
	p.scrolls = append(p.scrolls, p.scrollTop)
	p.fire(EventScroll)
}

func (p *fakePage) On(kind EventKind, fn func()) func() {
	if p.listeners[kind] == nil {
		p.listeners[kind] = make(map[int]func())
	}
	p.nextID++
	id := p.nextID
	p.listeners[kind][id] = fn
	return func() { delete(p.listeners[kind], id) }
}

func (p *fakePage) Hidden() bool { return p.hidden }

func (p *fakePage) fire(kind EventKind) {
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

// scroll moves the viewport and fires a scroll event like a user would
func (p *fakePage) scroll(top int) {
	p.scrollTop = top
	p.fire(EventScroll)
}

func (p *fakePage) listenerCount() int {
	n := 0
	for _, m := range p.listeners {
		n += len(m)
	}
	return n
}

type fakeRenderer struct {
	entries     []domain.HeadingEntry
	empty       bool
	active      map[string]bool
	maxActive   int
	ensured     []string
	visible     bool
	renderCalls int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{active: make(map[string]bool)}
}

func (r *fakeRenderer) Render(entries []domain.HeadingEntry) {
	r.entries = entries
	r.renderCalls++
}

func (r *fakeRenderer) RenderEmpty() { r.empty = true }

func (r *fakeRenderer) SetActive(id string, active bool) {
	if active {
		r.active[id] = true
	} else {
		delete(r.active, id)
	}
	if len(r.active) > r.maxActive {
		r.maxActive = len(r.active)
	}
}

func (r *fakeRenderer) EnsureVisible(id string) { r.ensured = append(r.ensured, id) }

func (r *fakeRenderer) SetVisible(visible bool) { r.visible = visible }

// manualScheduler runs frames and timers only when the test says so
type manualScheduler struct {
	frames      []func()
	frameCalls  int
	now         time.Duration
	timers      map[int]*manualTimer
	nextTimerID int
}

type manualTimer struct {
	at time.Duration
	fn func()
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{timers: make(map[int]*manualTimer)}
}

func (s *manualScheduler) RequestFrame(fn func()) {
	s.frameCalls++
	s.frames = append(s.frames, fn)
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) func() {
	s.nextTimerID++
	id := s.nextTimerID
	s.timers[id] = &manualTimer{at: s.now + d, fn: fn}
	return func() { delete(s.timers, id) }
}

// flush runs every frame callback queued so far
func (s *manualScheduler) flush() {
	frames := s.frames
	s.frames = nil
	for _, fn := range frames {
		fn()
	}
}

// advance moves the clock and fires due timers
func (s *manualScheduler) advance(d time.Duration) {
	s.now += d
	for id, t := range s.timers {
		if t.at <= s.now {
			delete(s.timers, id)
			t.fn()
		}
	}
}
