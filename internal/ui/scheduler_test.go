package ui

import (
	"sort"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fireTimers delivers every outstanding timer once, in creation order
func fireTimers(s *Scheduler) {
	var ids []uint64
	for id := range s.timers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		s.Handle(timerMsg{id: id})
	}
}

func TestRequestFrameCoalesces(t *testing.T) {
	s := NewScheduler()

	var calls []string
	s.RequestFrame(func() { calls = append(calls, "a") })
	s.RequestFrame(func() { calls = append(calls, "b") })

	assert.Len(t, s.pending, 1, "one tick per frame")
	assert.True(t, s.Pending())

	require.True(t, s.Handle(frameMsg{}))
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.False(t, s.Pending())
}

func TestRequestFrameDuringFrameQueuesNext(t *testing.T) {
	s := NewScheduler()

	runs := 0
	var again func()
	again = func() {
		runs++
		if runs == 1 {
			s.RequestFrame(again)
		}
	}
	s.RequestFrame(again)
	s.Cmds()

	s.Handle(frameMsg{})
	assert.Equal(t, 1, runs)
	assert.NotNil(t, s.Cmds(), "a new tick is needed for the next frame")

	s.Handle(frameMsg{})
	assert.Equal(t, 2, runs)
}

func TestAfterFuncCancel(t *testing.T) {
	s := NewScheduler()

	fired := false
	cancel := s.AfterFunc(time.Second, func() { fired = true })
	cancel()

	assert.True(t, s.Handle(timerMsg{id: 1}), "cancelled timers are still consumed")
	assert.False(t, fired)
	assert.False(t, s.Pending())
}

func TestAfterFuncFiresOnce(t *testing.T) {
	s := NewScheduler()

	count := 0
	s.AfterFunc(time.Millisecond, func() { count++ })
	fireTimers(s)
	fireTimers(s)

	assert.Equal(t, 1, count)
}

func TestHandleIgnoresOtherMessages(t *testing.T) {
	s := NewScheduler()
	assert.False(t, s.Handle(tea.WindowSizeMsg{Width: 10, Height: 10}))
	assert.False(t, s.Handle(clearStatusMsg{}))
}

func TestCmdsDrains(t *testing.T) {
	s := NewScheduler()
	assert.Nil(t, s.Cmds())

	s.AfterFunc(time.Millisecond, func() {})
	assert.NotNil(t, s.Cmds())
	assert.Nil(t, s.Cmds())
}
