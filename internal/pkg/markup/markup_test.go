package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdownParagraph(t *testing.T) {
	assert.Equal(t, "<p>An entry</p>", Render("An entry", Markdown))
}

func TestRenderTextileParagraph(t *testing.T) {
	assert.Equal(t, "\t<p>An entry</p>", Render("An entry", Textile))
}

func TestRenderEmptyInput(t *testing.T) {
	assert.Equal(t, "", Render("", Markdown))
	assert.Equal(t, "", Render("", Textile))
}

func TestRenderUnknownKindFallsBackToMarkdown(t *testing.T) {
	assert.Equal(t, "<p>An entry</p>", Render("An entry", "restructuredtext"))
}

func TestRenderMarkdownHighlightsCode(t *testing.T) {
	out := Render("```go\npackage main\n```", Markdown)
	assert.Contains(t, out, "<pre")
	assert.Contains(t, out, "chroma")
}

func TestRenderMarkdownInline(t *testing.T) {
	out := Render("Some **bold** and a [link](https://example.org).", Markdown)
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, `<a href="https://example.org">link</a>`)
}

func TestRenderTextileBlocks(t *testing.T) {
	assert.Equal(t, "\t<h2>Heading</h2>", RenderTextile("h2. Heading"))
	assert.Equal(t,
		"\t<p>one</p>\n\n\t<p>two</p>",
		RenderTextile("one\n\ntwo"))
	assert.Equal(t,
		"\t<p>line one<br />line two</p>",
		RenderTextile("line one\nline two"))
	assert.Equal(t,
		"\t<blockquote>\n\t\t<p>quoted</p>\n\t</blockquote>",
		RenderTextile("bq. quoted"))
	assert.Equal(t,
		"\t<ul>\n\t\t<li>one</li>\n\t\t<li>two</li>\n\t</ul>",
		RenderTextile("* one\n* two"))
	assert.Equal(t,
		"\t<ol>\n\t\t<li>first</li>\n\t</ol>",
		RenderTextile("# first"))
}

func TestRenderTextileInline(t *testing.T) {
	assert.Equal(t,
		"\t<p>a <strong>bold</strong> and <em>soft</em> <code>word</code></p>",
		RenderTextile("a *bold* and _soft_ @word@"))
	assert.Equal(t,
		"\t<p>see <a href=\"https://example.org\">the site</a></p>",
		RenderTextile(`see "the site":https://example.org`))
}
