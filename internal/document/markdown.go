package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark
type MarkdownParser struct{}

// NewMarkdown returns the goldmark instance shared by the reader and the
// HTML export, so both see the same headings
func NewMarkdown(extra ...goldmark.Extender) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(append([]goldmark.Extender{extension.GFM}, extra...)...),
		goldmark.WithParserOptions(parser.WithAttribute()),
	)
}

func (p *MarkdownParser) Parse(src []byte, filename string, opts Options) (*Document, error) {
	fm, body, err := SplitFrontMatter(src)
	if err != nil {
		return nil, err
	}

	root := NewMarkdown().Parser().Parse(text.NewReader(body))

	doc := &Document{
		Title:     titleFromFilename(filename),
		Format:    "markdown",
		hasRegion: fm.TOC == nil || *fm.TOC,
	}

	w := &markdownWalker{doc: doc, src: body}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		w.walk(n, walkContext{})
	}

	switch {
	case fm.Title != "":
		doc.Title = fm.Title
	default:
		for _, h := range doc.headings {
			if h.level == 1 {
				doc.Title = h.text
				break
			}
		}
	}

	return doc, nil
}

// walkContext carries list and quote nesting down the tree
type walkContext struct {
	kind   BlockKind
	depth  int
	marker string // pending list marker for the first block of an item
}

type markdownWalker struct {
	doc *Document
	src []byte
}

func (w *markdownWalker) walk(n ast.Node, ctx walkContext) {
	switch node := n.(type) {
	case *ast.Heading:
		h := &Heading{
			id:       AttributeID(node),
			text:     InlineText(node, w.src),
			level:    node.Level,
			inRegion: true,
		}
		w.doc.addBlock(Block{Kind: BlockHeading, Text: h.text, Heading: h})

	case *ast.Paragraph, *ast.TextBlock:
		w.add(ctx, InlineText(node, w.src))

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		w.doc.addBlock(Block{Kind: BlockCode, Text: blockLines(node, w.src), Depth: ctx.depth})

	case *ast.ThematicBreak:
		w.doc.addBlock(Block{Kind: BlockRule})

	case *ast.Blockquote:
		inner := walkContext{kind: BlockQuote, depth: ctx.depth + 1}
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			w.walk(c, inner)
		}

	case *ast.List:
		number := node.Start
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "•"
			if node.IsOrdered() {
				marker = fmt.Sprintf("%d.", number)
				number++
			}
			inner := walkContext{kind: BlockListItem, depth: ctx.depth + 1, marker: marker}
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				w.walk(c, inner)
				inner.marker = ""
			}
		}

	case *extast.Table:
		w.doc.addBlock(Block{Kind: BlockTable, Text: tableText(node, w.src), Depth: ctx.depth})

	case *ast.HTMLBlock:
		// raw HTML has no readable text in a terminal

	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			w.walk(c, ctx)
		}
	}
}

func (w *markdownWalker) add(ctx walkContext, text string) {
	kind := ctx.kind
	if kind == BlockHeading {
		kind = BlockParagraph
	}
	w.doc.addBlock(Block{Kind: kind, Text: text, Depth: ctx.depth, Marker: ctx.marker})
}

// AttributeID returns the id set with the {#id} attribute syntax
func AttributeID(n ast.Node) string {
	v, ok := n.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

// InlineText returns the plain text of a node's inline children
func InlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	writeInline(&buf, n, src)
	return strings.TrimSpace(buf.String())
}

func writeInline(buf *bytes.Buffer, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			switch {
			case t.HardLineBreak():
				buf.WriteByte('\n')
			case t.SoftLineBreak():
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.AutoLink:
			buf.Write(t.Label(src))
		case *ast.RawHTML:
		default:
			writeInline(buf, c, src)
		}
	}
}

func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func tableText(t *extast.Table, src []byte) string {
	var rows []string
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, InlineText(cell, src))
		}
		rows = append(rows, strings.Join(cells, " │ "))
	}
	return strings.Join(rows, "\n")
}
