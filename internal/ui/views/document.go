package views

import (
	"strings"

	"tocview/internal/document"
)

// RenderDocument styles laid-out lines for the document pane
func RenderDocument(styles *Styles, lines []document.Line) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(styleLine(styles, l))
	}
	return b.String()
}

func styleLine(styles *Styles, l document.Line) string {
	if l.Text == "" {
		return ""
	}
	switch l.Kind {
	case document.BlockHeading:
		level := 1
		if l.Heading != nil {
			level = l.Heading.Level()
		} else if i := strings.IndexFunc(l.Text, func(r rune) bool { return r != ' ' }); i > 0 {
			// continuation of a wrapped heading; the indent matches the "# " prefix
			level = i - 1
		}
		if level < 1 || level > 6 {
			level = 1
		}
		return styles.Heading[level].Render(l.Text)
	case document.BlockCode:
		return styles.Code.Render(l.Text)
	case document.BlockQuote:
		return styles.Quote.Render(l.Text)
	case document.BlockRule:
		return styles.Rule.Render(l.Text)
	case document.BlockTable:
		return styles.Table.Render(l.Text)
	}
	return l.Text
}
