// Package markup converts the lightweight markup dialects used to author
// entries (Markdown or Textile) into HTML. Rendering is best-effort:
// malformed input is never rejected, and the output is trusted markup
// authored by staff users.
package markup

const (
	Markdown = "markdown"
	Textile  = "textile"
)

// Kinds lists the supported markup kinds in display order.
var Kinds = []string{Markdown, Textile}

// Render converts content into HTML under the given markup kind. Empty
// input yields empty output. Unknown kinds render as Markdown.
func Render(content, kind string) string {
	if content == "" {
		return ""
	}
	if kind == Textile {
		return RenderTextile(content)
	}
	return RenderMarkdown(content)
}
