package tui

import (
	"github.com/charmbracelet/glamour"
	"mdjournal/internal/logs"
)

// PreviewStyleAuto picks a light or dark glamour style from the terminal
const PreviewStyleAuto = "auto"

// renderMarkdown renders the whole journal for the preview pane. When the
// renderer fails the raw text is shown instead.
func renderMarkdown(markdown string, width int, style string) string {
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(max(20, width-2)),
		glamour.WithPreservedNewLines(),
	}
	if style == "" || style == PreviewStyleAuto {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		logs.Logger.Printf("Preview renderer unavailable: %v", err)
		return markdown
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		logs.Logger.Printf("Preview render failed: %v", err)
		return markdown
	}
	return rendered
}
