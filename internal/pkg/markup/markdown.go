package markup

import (
	"bytes"
	"log"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// The converter is stateless, so a single instance is shared across
// requests without locking. Fenced code blocks are highlighted with CSS
// classes so the stylesheet controls the colour scheme.
var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("friendly"),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// RenderMarkdown converts Markdown to HTML with code syntax highlighting.
// A single paragraph "An entry" renders as "<p>An entry</p>".
func RenderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		log.Printf("markdown render failed: %v", err)
		return content
	}
	return strings.TrimRight(buf.String(), "\n")
}
