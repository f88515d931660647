package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tocview/internal/outline"
)

func loadFixture(t *testing.T, name string, opts Options) *Document {
	t.Helper()
	doc, err := Load(filepath.Join("testdata", name), opts)
	require.NoError(t, err)
	return doc
}

func headingTexts(doc *Document) []string {
	var out []string
	for _, b := range doc.Blocks() {
		if b.Kind == BlockHeading {
			out = append(out, b.Heading.Text())
		}
	}
	return out
}

func TestMarkdownHeadings(t *testing.T) {
	doc := loadFixture(t, "post.md", Options{})

	assert.Equal(t, "markdown", doc.Format)
	assert.Equal(t, "Building a Reader", doc.Title, "front matter title wins")
	assert.Equal(t, []string{"Introduction", "Setup", "Setup", "Deep dive"}, headingTexts(doc))

	nodes := doc.Region().Headings()
	require.Len(t, nodes, 4)
	assert.Equal(t, "", nodes[0].ID())
	assert.Equal(t, "custom-setup", nodes[1].ID(), "explicit {#id} attribute")
	assert.Equal(t, 1, nodes[0].Level())
	assert.Equal(t, 3, nodes[3].Level())
}

func TestMarkdownOutlineIDs(t *testing.T) {
	doc := loadFixture(t, "post.md", Options{})

	entries := outline.BuildEntries(doc.Region().Headings())
	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"introduction", "custom-setup", "setup", "deep-dive"}, ids)

	// ids are written back to the headings
	assert.NotNil(t, doc.HeadingByID("deep-dive"))
	assert.Nil(t, doc.HeadingByID("missing"))
}

func TestMarkdownBlocks(t *testing.T) {
	doc := loadFixture(t, "post.md", Options{})

	var kinds []BlockKind
	var markers []string
	for _, b := range doc.Blocks() {
		kinds = append(kinds, b.Kind)
		if b.Kind == BlockListItem {
			markers = append(markers, b.Marker)
		}
	}

	assert.Equal(t, []BlockKind{
		BlockHeading, BlockParagraph,
		BlockHeading, BlockListItem, BlockListItem, BlockListItem, BlockListItem,
		BlockCode, BlockQuote, BlockTable, BlockRule,
		BlockHeading, BlockHeading,
	}, kinds)
	assert.Equal(t, []string{"•", "•", "3.", "4."}, markers)

	blocks := doc.Blocks()
	assert.Equal(t, "Some emphasis and code in a paragraph.", blocks[1].Text)
	assert.Equal(t, `fmt.Println("hi")`, blocks[7].Text)
	assert.Equal(t, 1, blocks[8].Depth)
	assert.Equal(t, "a │ b\n1 │ 2", blocks[9].Text)
}

func TestMarkdownTitleFallbacks(t *testing.T) {
	p := &MarkdownParser{}

	doc, err := p.Parse([]byte("intro\n\n# First\n\n# Second\n"), "notes.md", Options{})
	require.NoError(t, err)
	assert.Equal(t, "First", doc.Title)

	doc, err = p.Parse([]byte("## Only h2\n"), "notes.md", Options{})
	require.NoError(t, err)
	assert.Equal(t, "notes", doc.Title)
}

func TestMarkdownEmptyHeadingStaysInOutline(t *testing.T) {
	doc, err := (&MarkdownParser{}).Parse([]byte("# A\n\n##\n\ntext\n\n## !!!\n"), "empty.md", Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "", "!!!"}, headingTexts(doc))
	entries := outline.BuildEntries(doc.Region().Headings())
	require.Len(t, entries, 3)
	assert.Equal(t, "heading-1", entries[1].ID)
	assert.Equal(t, "heading-2", entries[2].ID)
}

func TestMarkdownTOCDisabled(t *testing.T) {
	src := "---\ntoc: false\n---\n# Title\n\n## Part\n"
	doc, err := (&MarkdownParser{}).Parse([]byte(src), "post.md", Options{})
	require.NoError(t, err)

	assert.Nil(t, doc.Region())
	assert.Len(t, headingTexts(doc), 2, "content is still readable")
	assert.Equal(t, 0, doc.Info().Headings)
}

func TestMarkdownNoHeadings(t *testing.T) {
	doc, err := (&MarkdownParser{}).Parse([]byte("just text\n"), "plain.md", Options{})
	require.NoError(t, err)

	require.NotNil(t, doc.Region())
	assert.Empty(t, doc.Region().Headings())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.md"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0644))
	_, err = Load(path, Options{})
	assert.ErrorContains(t, err, "unsupported file extension")
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("README.md"))
	assert.True(t, IsSupported("page.HTML"))
	assert.False(t, IsSupported("main.go"))
}
