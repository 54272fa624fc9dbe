package markup

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reTxHeader = regexp.MustCompile(`^h([1-6])\.\s+(.*)$`)
	reTxLink   = regexp.MustCompile(`"([^"]+)":(\S+)`)
	reTxStrong = regexp.MustCompile(`\*([^*\n]+)\*`)
	reTxEm     = regexp.MustCompile(`_([^_\n]+)_`)
	reTxCode   = regexp.MustCompile(`@([^@\n]+)@`)
	reTxCite   = regexp.MustCompile(`\?\?([^?\n]+)\?\?`)
)

// RenderTextile converts Textile to HTML. Blocks are separated by blank
// lines and emitted in the tab-indented style of the reference converter:
// a plain paragraph "An entry" renders as "\t<p>An entry</p>".
//
// Supported: paragraphs (p.), headings h1.-h6., block quotes (bq.),
// bullet and numbered lists, and the inline phrase modifiers *strong*,
// _emphasis_, @code@, ??citation?? and "text":url links. Anything else
// passes through untouched.
func RenderTextile(content string) string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")

	var blocks []string
	for _, block := range strings.Split(normalized, "\n\n") {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		blocks = append(blocks, renderTextileBlock(block))
	}
	return strings.Join(blocks, "\n\n")
}

func renderTextileBlock(block string) string {
	lines := strings.Split(block, "\n")

	if m := reTxHeader.FindStringSubmatch(lines[0]); m != nil {
		rest := txJoin(lines[1:])
		body := txInline(m[2])
		if rest != "" {
			body += "<br />" + rest
		}
		return fmt.Sprintf("\t<h%s>%s</h%s>", m[1], body, m[1])
	}

	if strings.HasPrefix(lines[0], "bq. ") {
		lines[0] = strings.TrimPrefix(lines[0], "bq. ")
		return "\t<blockquote>\n\t\t<p>" + txJoin(lines) + "</p>\n\t</blockquote>"
	}

	if isTextileList(lines, "* ") {
		return renderTextileList(lines, "* ", "ul")
	}
	if isTextileList(lines, "# ") {
		return renderTextileList(lines, "# ", "ol")
	}

	lines[0] = strings.TrimPrefix(lines[0], "p. ")
	return "\t<p>" + txJoin(lines) + "</p>"
}

func isTextileList(lines []string, marker string) bool {
	for _, line := range lines {
		if !strings.HasPrefix(line, marker) {
			return false
		}
	}
	return true
}

func renderTextileList(lines []string, marker, tag string) string {
	var b strings.Builder
	b.WriteString("\t<" + tag + ">\n")
	for _, line := range lines {
		b.WriteString("\t\t<li>" + txInline(strings.TrimPrefix(line, marker)) + "</li>\n")
	}
	b.WriteString("\t</" + tag + ">")
	return b.String()
}

// txJoin renders the inline phrase markup of each line and joins
// continuation lines with explicit breaks.
func txJoin(lines []string) string {
	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		rendered = append(rendered, txInline(line))
	}
	return strings.Join(rendered, "<br />")
}

func txInline(s string) string {
	s = reTxLink.ReplaceAllString(s, `<a href="$2">$1</a>`)
	s = reTxStrong.ReplaceAllString(s, "<strong>$1</strong>")
	s = reTxEm.ReplaceAllString(s, "<em>$1</em>")
	s = reTxCode.ReplaceAllString(s, "<code>$1</code>")
	s = reTxCite.ReplaceAllString(s, "<cite>$1</cite>")
	return s
}
