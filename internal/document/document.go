package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tocview/internal/domain"
	"tocview/internal/outline"
)

// BlockKind is the kind of a laid-out block
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockCode
	BlockListItem
	BlockQuote
	BlockRule
	BlockTable
)

// Block is one unit of document content in reading order
type Block struct {
	Kind    BlockKind
	Text    string
	Depth   int      // nesting for list items and quotes
	Marker  string   // list bullet or number on the first block of an item
	Heading *Heading // set for BlockHeading
}

// Heading is a heading element of a document. It satisfies outline.Node;
// its line is rewritten on every layout.
type Heading struct {
	id       string
	text     string
	level    int
	line     int
	inRegion bool
}

func (h *Heading) ID() string      { return h.id }
func (h *Heading) SetID(id string) { h.id = id }
func (h *Heading) Text() string    { return h.text }
func (h *Heading) Level() int      { return h.level }

// Line is the first laid-out line of the heading
func (h *Heading) Line() int { return h.line }

// Line is one laid-out line of text
type Line struct {
	Text    string
	Kind    BlockKind
	Heading *Heading // set on the first line of a heading
}

// Document is a parsed file ready to be laid out for a terminal width
type Document struct {
	Path   string
	Title  string
	Format string

	blocks    []Block
	headings  []*Heading
	hasRegion bool

	width int
	lines []Line
}

// Region returns the content region used for the outline, or nil when the
// document has none (an HTML selector that matched nothing)
func (d *Document) Region() outline.Region {
	if !d.hasRegion {
		return nil
	}
	return region{d}
}

type region struct{ d *Document }

func (r region) Headings() []outline.Node {
	nodes := make([]outline.Node, 0, len(r.d.headings))
	for _, h := range r.d.headings {
		if h.inRegion {
			nodes = append(nodes, h)
		}
	}
	return nodes
}

// Blocks returns the document content in reading order
func (d *Document) Blocks() []Block {
	return d.blocks
}

// Lines returns the lines of the last layout
func (d *Document) Lines() []Line {
	return d.lines
}

// Width returns the width of the last layout
func (d *Document) Width() int {
	return d.width
}

// HeadingByID finds a heading in the region
func (d *Document) HeadingByID(id string) *Heading {
	for _, h := range d.headings {
		if h.inRegion && h.id == id {
			return h
		}
	}
	return nil
}

// Info summarizes the document for events and status lines
func (d *Document) Info() domain.DocumentInfo {
	n := 0
	if d.hasRegion {
		n = len(region{d}.Headings())
	}
	return domain.DocumentInfo{
		Path:     d.Path,
		Title:    d.Title,
		Format:   d.Format,
		Headings: n,
		Lines:    len(d.lines),
	}
}

func (d *Document) addBlock(b Block) {
	if b.Heading != nil {
		// Empty headings still get a line and an entry
		d.headings = append(d.headings, b.Heading)
		d.blocks = append(d.blocks, b)
		return
	}
	if b.Kind != BlockRule && b.Kind != BlockCode && strings.TrimSpace(b.Text) == "" {
		return
	}
	d.blocks = append(d.blocks, b)
}

// Options tune how files are read
type Options struct {
	// ContentSelector picks the HTML content region, e.g. "article" or ".post .content".
	// Empty means the whole body.
	ContentSelector string
}

// Load reads and parses a file by extension
func Load(path string, opts Options) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	parser, err := ForFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := parser.Parse(data, filepath.Base(path), opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}
