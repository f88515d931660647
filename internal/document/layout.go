package document

import (
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

const minLayoutWidth = 10

// Layout wraps the document to a width and records where every heading
// starts. Heading positions are only valid until the next layout.
func (d *Document) Layout(width int) []Line {
	if width < minLayoutWidth {
		width = minLayoutWidth
	}
	d.width = width
	d.lines = d.lines[:0]

	for i, b := range d.blocks {
		if i > 0 && !(b.Kind == BlockListItem && d.blocks[i-1].Kind == BlockListItem) {
			d.lines = append(d.lines, Line{Kind: BlockParagraph})
		}
		switch b.Kind {
		case BlockHeading:
			b.Heading.line = len(d.lines)
			prefix := strings.Repeat("#", b.Heading.level) + " "
			for j, text := range wrapLines(b.Text, width-len(prefix)) {
				l := Line{Kind: BlockHeading}
				if j == 0 {
					l.Text = prefix + text
					l.Heading = b.Heading
				} else {
					l.Text = strings.Repeat(" ", len(prefix)) + text
				}
				d.lines = append(d.lines, l)
			}

		case BlockListItem:
			pad := 2 * (b.Depth - 1)
			marker := b.Marker
			if marker == "" {
				marker = " "
			}
			hang := len([]rune(marker)) + 1
			for j, text := range wrapLines(b.Text, width-pad-hang) {
				head := strings.Repeat(" ", hang)
				if j == 0 {
					head = marker + " "
					if b.Marker == "" {
						head = strings.Repeat(" ", hang)
					}
				}
				d.lines = append(d.lines, Line{Kind: BlockListItem, Text: strings.Repeat(" ", pad) + head + text})
			}

		case BlockQuote:
			bar := strings.Repeat("│ ", b.Depth)
			for _, text := range wrapLines(b.Text, width-len([]rune(bar))) {
				d.lines = append(d.lines, Line{Kind: BlockQuote, Text: bar + text})
			}

		case BlockCode, BlockTable:
			block := indent.String(b.Text, 2)
			for _, text := range strings.Split(block, "\n") {
				d.lines = append(d.lines, Line{Kind: b.Kind, Text: truncate.StringWithTail(text, uint(width), "…")})
			}

		case BlockRule:
			d.lines = append(d.lines, Line{Kind: BlockRule, Text: strings.Repeat("─", width)})

		default:
			for _, text := range wrapLines(b.Text, width) {
				d.lines = append(d.lines, Line{Kind: BlockParagraph, Text: text})
			}
		}
	}

	return d.lines
}

// wrapLines word-wraps and then hard-wraps words longer than the width
func wrapLines(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	return strings.Split(wrap.String(wordwrap.String(s, width), width), "\n")
}
