// Package export renders a Markdown document to a standalone HTML page
// with a flat table of contents whose anchors match the reader's outline.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"tocview/internal/document"
	"tocview/internal/domain"
	"tocview/internal/outline"
)

// Exporter converts Markdown to HTML pages
type Exporter struct {
	md   goldmark.Markdown
	tmpl *template.Template
}

// New creates an Exporter highlighting code with the given chroma style
func New(style string) (*Exporter, error) {
	if style == "" {
		style = "github"
	}
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &Exporter{
		md: document.NewMarkdown(
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
			),
		),
		tmpl: tmpl,
	}, nil
}

type pageData struct {
	Title   string
	Entries []domain.HeadingEntry
	Content template.HTML
}

// File exports the Markdown file at path
func (e *Exporter) File(path string, w io.Writer) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if p, err := document.ForFile(path); err != nil {
		return err
	} else if _, ok := p.(*document.MarkdownParser); !ok {
		return fmt.Errorf("export: %s is not a Markdown file", path)
	}
	return e.Export(src, filepath.Base(path), w)
}

// Export renders src as a page. Headings get the same ids the reader uses.
func (e *Exporter) Export(src []byte, filename string, w io.Writer) error {
	fm, body, err := document.SplitFrontMatter(src)
	if err != nil {
		return err
	}

	root := e.md.Parser().Parse(text.NewReader(body))
	nodes := collectHeadings(root, body)

	data := pageData{Title: fm.Title}
	// Anchors are assigned even when the front matter turns the list off
	entries := outline.BuildEntries(nodes)
	if fm.TOC == nil || *fm.TOC {
		for _, entry := range entries {
			data.Entries = append(data.Entries, entry.HeadingEntry)
		}
	}
	if data.Title == "" {
		data.Title = titleOf(nodes, filename)
	}

	var content bytes.Buffer
	if err := e.md.Renderer().Render(&content, body, root); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}
	data.Content = template.HTML(content.String())

	return e.tmpl.Execute(w, data)
}

// headingNode exposes a goldmark heading to the outline builder and
// writes assigned ids back as the rendered id attribute
type headingNode struct {
	n   *ast.Heading
	src []byte
}

func (h headingNode) ID() string { return document.AttributeID(h.n) }

func (h headingNode) SetID(id string) { h.n.SetAttributeString("id", []byte(id)) }
func (h headingNode) Text() string    { return document.InlineText(h.n, h.src) }
func (h headingNode) Level() int      { return h.n.Level }

func collectHeadings(root ast.Node, src []byte) []outline.Node {
	var nodes []outline.Node
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			nodes = append(nodes, headingNode{n: h, src: src})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return nodes
}

func titleOf(nodes []outline.Node, filename string) string {
	for _, n := range nodes {
		if n.Level() == 1 {
			return n.Text()
		}
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { display: flex; gap: 2rem; max-width: 72rem; margin: 0 auto; font-family: sans-serif; }
main { flex: 1; min-width: 0; }
nav.toc { position: sticky; top: 1rem; align-self: flex-start; width: 16rem; }
nav.toc ul { list-style: none; padding: 0; }
nav.toc .toc-level-2 { padding-left: 1rem; }
nav.toc .toc-level-3 { padding-left: 2rem; }
nav.toc .toc-level-4, nav.toc .toc-level-5, nav.toc .toc-level-6 { padding-left: 3rem; }
</style>
</head>
<body>
<main>
{{.Content}}
</main>
{{- if .Entries}}
<nav class="toc">
<ul>
{{- range .Entries}}
<li class="toc-level-{{.Level}}"><a href="#{{.ID}}">{{.Text}}</a></li>
{{- end}}
</ul>
</nav>
{{- end}}
</body>
</html>
`
