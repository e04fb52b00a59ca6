// Package markdown provides styled markdown rendering for block help
// and example text in the wizard.
package markdown

import (
	"github.com/charmbracelet/glamour"
)

// noMarginStyle is a JSON style that removes document margins.
// It inherits from the base style but overrides margin to 0 so help
// text aligns with its question group.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with wizard-specific configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a markdown renderer with the given width and terminal
// background auto-detection.
func New(width int) (*Renderer, error) {
	return newRenderer(width, glamour.WithAutoStyle())
}

// NewWithStyle creates a renderer with an explicit style name
// ("dark" or "light"). Unknown names fall back to auto-detection.
func NewWithStyle(width int, style string) (*Renderer, error) {
	switch style {
	case "dark", "light":
		return newRenderer(width, glamour.WithStandardStyle(style))
	default:
		return New(width)
	}
}

func newRenderer(width int, base glamour.TermRendererOption) (*Renderer, error) {
	r, err := glamour.NewTermRenderer(
		base,
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}
