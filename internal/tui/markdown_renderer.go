package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// minMarkdownWrap keeps very narrow panels readable.
const minMarkdownWrap = 24

// markdownRenderer caches a glamour renderer per wrap width.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// render turns task content into styled terminal text. On any renderer
// failure the raw content is returned.
func (r *markdownRenderer) render(content string, width int) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	wrap := max(width, minMarkdownWrap)
	if r.renderer == nil || r.width != wrap {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return content
		}
		r.renderer = renderer
		r.width = wrap
	}
	out, err := r.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
