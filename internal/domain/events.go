package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventDocumentLoaded           EventType = "DocumentLoaded"
	EventDocumentChanged          EventType = "DocumentChanged"
	EventDocumentClosed           EventType = "DocumentClosed"
	EventActiveHeadingChanged     EventType = "ActiveHeadingChanged"
	EventOutlineVisibilityChanged EventType = "OutlineVisibilityChanged"
	EventPositionSaved            EventType = "PositionSaved"
	EventError                    EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// DocumentLoadedEvent is emitted after a document is parsed and laid out
type DocumentLoadedEvent struct {
	Document DocumentInfo
}

func (e DocumentLoadedEvent) Type() EventType { return EventDocumentLoaded }

// DocumentChangedEvent is emitted when an open document changes on disk
type DocumentChangedEvent struct {
	Path string
}

func (e DocumentChangedEvent) Type() EventType { return EventDocumentChanged }

// DocumentClosedEvent is emitted when the reader leaves a document
type DocumentClosedEvent struct {
	Path     string
	Position ReadingPosition
}

func (e DocumentClosedEvent) Type() EventType { return EventDocumentClosed }

// ActiveHeadingChangedEvent is emitted when the outline marks a different heading
type ActiveHeadingChangedEvent struct {
	Path string
	ID   string // empty when no heading is active
}

func (e ActiveHeadingChangedEvent) Type() EventType { return EventActiveHeadingChanged }

// OutlineVisibilityChangedEvent is emitted when the outline panel is shown or hidden
type OutlineVisibilityChangedEvent struct {
	Visible bool
}

func (e OutlineVisibilityChangedEvent) Type() EventType { return EventOutlineVisibilityChanged }

// PositionSavedEvent is emitted after a reading position is persisted
type PositionSavedEvent struct {
	Path     string
	Position ReadingPosition
}

func (e PositionSavedEvent) Type() EventType { return EventPositionSaved }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
