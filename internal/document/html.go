package document

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Only the content region picked by
// Options.ContentSelector is read; the rest of the page is chrome.
type HTMLParser struct{}

func (p *HTMLParser) Parse(src []byte, filename string, opts Options) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &Document{
		Title:     titleFromFilename(filename),
		Format:    "html",
		hasRegion: true,
	}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}

	content := findElement(root, "body")
	if content == nil {
		content = root
	}
	if sel := strings.TrimSpace(opts.ContentSelector); sel != "" {
		chain, err := ParseSelector(sel)
		if err != nil {
			return nil, err
		}
		if region := chain.Find(content); region != nil {
			content = region
		} else {
			// Still readable, but the outline declines without its region
			doc.hasRegion = false
		}
	}

	w := &htmlWalker{doc: doc}
	w.walkChildren(content, walkContext{})
	w.flush(walkContext{})

	return doc, nil
}

type htmlWalker struct {
	doc     *Document
	pending strings.Builder // inline text waiting for a block boundary
}

func (w *htmlWalker) walkChildren(n *html.Node, ctx walkContext) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, ctx)
	}
}

func (w *htmlWalker) walk(n *html.Node, ctx walkContext) {
	switch n.Type {
	case html.TextNode:
		w.pending.WriteString(n.Data)
		return
	case html.ElementNode:
	default:
		return
	}

	if level := headingLevel(n.Data); level > 0 {
		w.flush(ctx)
		h := &Heading{
			id:       attr(n, "id"),
			text:     collapse(textContent(n)),
			level:    level,
			inRegion: w.doc.hasRegion,
		}
		w.doc.addBlock(Block{Kind: BlockHeading, Text: h.text, Heading: h})
		return
	}

	switch n.Data {
	case "script", "style", "noscript", "template":
		return
	case "nav", "footer", "header", "button", "form":
		w.flush(ctx)
		w.walkHeadings(n, ctx)
		return
	case "br":
		w.pending.WriteString("\n")
		return
	case "hr":
		w.flush(ctx)
		w.doc.addBlock(Block{Kind: BlockRule})
		return
	case "pre":
		w.flush(ctx)
		w.doc.addBlock(Block{Kind: BlockCode, Text: strings.Trim(textContent(n), "\n"), Depth: ctx.depth})
		return
	case "table":
		w.flush(ctx)
		w.doc.addBlock(Block{Kind: BlockTable, Text: htmlTableText(n), Depth: ctx.depth})
		return
	case "blockquote":
		w.flush(ctx)
		inner := walkContext{kind: BlockQuote, depth: ctx.depth + 1}
		w.walkChildren(n, inner)
		w.flush(inner)
		return
	case "ul", "ol":
		w.flush(ctx)
		w.walkList(n, ctx)
		return
	}

	if isInline(n.Data) {
		w.walkChildren(n, ctx)
		return
	}

	// Any other element is a block boundary
	w.flush(ctx)
	w.walkChildren(n, ctx)
	w.flush(ctx)
}

// walkHeadings reads only the headings of page chrome and drops its prose
func (w *htmlWalker) walkHeadings(n *html.Node, ctx walkContext) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if headingLevel(c.Data) > 0 {
			w.walk(c, ctx)
			continue
		}
		w.walkHeadings(c, ctx)
	}
}

func (w *htmlWalker) walkList(n *html.Node, ctx walkContext) {
	ordered := n.Data == "ol"
	number := 1
	if ordered {
		if start := attr(n, "start"); start != "" {
			fmt.Sscanf(start, "%d", &number)
		}
	}
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		marker := "•"
		if ordered {
			marker = fmt.Sprintf("%d.", number)
			number++
		}
		inner := walkContext{kind: BlockListItem, depth: ctx.depth + 1, marker: marker}
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && !isInline(c.Data) && w.pending.Len() > 0 {
				w.flush(inner)
				inner.marker = ""
			}
			before := len(w.doc.blocks)
			w.walk(c, inner)
			if len(w.doc.blocks) > before {
				inner.marker = ""
			}
		}
		w.flush(inner)
	}
}

// flush turns pending inline text into a block of the context's kind
func (w *htmlWalker) flush(ctx walkContext) {
	text := collapse(w.pending.String())
	w.pending.Reset()
	if text == "" {
		return
	}
	kind := ctx.kind
	if kind == BlockHeading {
		kind = BlockParagraph
	}
	w.doc.addBlock(Block{Kind: kind, Text: text, Depth: ctx.depth, Marker: ctx.marker})
}

var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true, "cite": true,
	"code": true, "data": true, "dfn": true, "em": true, "i": true, "kbd": true,
	"mark": true, "q": true, "s": true, "samp": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true, "time": true, "u": true, "var": true,
	"del": true, "ins": true, "label": true, "img": true,
}

func isInline(tag string) bool {
	return inlineTags[tag]
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

// collapse folds whitespace runs the way a browser renders them
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func htmlTableText(table *html.Node) string {
	var rows []string
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, collapse(textContent(c)))
				}
			}
			rows = append(rows, strings.Join(cells, " │ "))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(table)
	return strings.Join(rows, "\n")
}

func findTitle(n *html.Node) string {
	if t := findElement(n, "title"); t != nil {
		return collapse(textContent(t))
	}
	return ""
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
