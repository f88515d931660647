package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// frameInterval is how often queued frame callbacks run, about 60 per second
const frameInterval = 16 * time.Millisecond

// frameMsg runs the callbacks queued with RequestFrame
type frameMsg struct{}

// timerMsg fires one AfterFunc callback
type timerMsg struct {
	id uint64
}

// Scheduler defers outline and page callbacks onto the Bubble Tea loop.
// Requests made during Update are turned into commands by Cmds; the
// resulting messages are fed back through Handle. It is not safe for
// use outside the program's Update goroutine.
type Scheduler struct {
	frames      []func()
	frameQueued bool

	nextID uint64
	timers map[uint64]func()

	pending []tea.Cmd
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[uint64]func())}
}

// RequestFrame runs fn on the next frame
func (s *Scheduler) RequestFrame(fn func()) {
	s.frames = append(s.frames, fn)
	if s.frameQueued {
		return
	}
	s.frameQueued = true
	s.pending = append(s.pending, tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	}))
}

// AfterFunc runs fn after d unless the returned cancel is called first
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) (cancel func()) {
	s.nextID++
	id := s.nextID
	s.timers[id] = fn
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
	return func() { delete(s.timers, id) }
}

// Cmds returns the commands for requests made since the last call
func (s *Scheduler) Cmds() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

// Handle runs the callbacks for a scheduler message. It reports false
// for messages that are not the scheduler's.
func (s *Scheduler) Handle(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case frameMsg:
		frames := s.frames
		s.frames = nil
		s.frameQueued = false
		for _, fn := range frames {
			fn()
		}
		return true

	case timerMsg:
		fn, ok := s.timers[msg.id]
		if !ok {
			// cancelled
			return true
		}
		delete(s.timers, msg.id)
		fn()
		return true
	}
	return false
}

// Pending reports whether any frame or timer is outstanding
func (s *Scheduler) Pending() bool {
	return len(s.frames) > 0 || len(s.timers) > 0
}
