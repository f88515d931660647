package ui

import (
	"tocview/internal/document"
	"tocview/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// documentLoadedMsg carries a parsed document or the error reading it
type documentLoadedMsg struct {
	index  int
	doc    *document.Document
	err    error
	reload bool // same document re-read after a change on disk
}

// clearStatusMsg clears the status line
type clearStatusMsg struct{}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
