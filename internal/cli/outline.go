package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tocview/internal/document"
	"tocview/internal/outline"
)

// PrintOutline writes the document's outline as an indented table, one
// heading per row with its anchor id.
func PrintOutline(w io.Writer, doc *document.Document) error {
	title := color.New(color.Bold, color.Underline)
	faint := color.New(color.Faint)

	if _, err := fmt.Fprintln(w, title.Sprint(doc.Title)); err != nil {
		return err
	}

	region := doc.Region()
	if region == nil {
		_, err := fmt.Fprintln(w, faint.Sprint(" no outline"))
		return err
	}

	entries := outline.BuildEntries(region.Headings())
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, faint.Sprint(" no headings"))
		return err
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, e := range entries {
		tbl.AddRow(strings.Repeat("  ", e.Level-1)+e.Text, faint.Sprint("#"+e.ID))
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}
