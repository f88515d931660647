package domain

// HeadingEntry is one heading of a loaded document as shown in the outline
type HeadingEntry struct {
	ID    string
	Text  string
	Level int // 1-6
}

// DocumentInfo describes a document opened in the reader
type DocumentInfo struct {
	Path     string
	Title    string
	Format   string // "markdown" or "html"
	Headings int    // number of headings inside the content region
	Lines    int    // laid-out line count at the current width
}

// ReadingPosition is where the reader left a document
type ReadingPosition struct {
	Offset    int    // first visible line
	HeadingID string // active outline entry, preferred over Offset on restore
}
