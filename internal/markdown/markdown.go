// Package markdown renders assistant replies as terminal markdown.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer wraps a glamour renderer with a per-message cache, so the
// transcript can be re-projected on every update without re-rendering
// settled messages.
type Renderer struct {
	glamour *glamour.TermRenderer
	width   int
	cache   map[string]string
}

// New creates a renderer wrapping at the given width.
func New(width int) (*Renderer, error) {
	gr, err := newTermRenderer(width)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		glamour: gr,
		width:   width,
		cache:   map[string]string{},
	}, nil
}

// SetWidth changes the wrap width. The cache is dropped since every cached
// render was produced at the old width.
func (r *Renderer) SetWidth(width int) {
	if width == r.width {
		return
	}
	gr, err := newTermRenderer(width)
	if err != nil {
		return
	}
	r.glamour = gr
	r.width = width
	r.cache = map[string]string{}
}

// Render renders content as markdown, caching by message ID. Pass an empty
// ID to skip caching (e.g. for content still being produced). Render errors
// degrade to the raw content.
func (r *Renderer) Render(id, content string) string {
	if id != "" {
		if rendered, ok := r.cache[id]; ok {
			return rendered
		}
	}

	rendered, err := r.glamour.Render(content)
	if err != nil {
		rendered = content
	}
	rendered = strings.Trim(rendered, "\n")

	if id != "" {
		r.cache[id] = rendered
	}
	return rendered
}

func newTermRenderer(width int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
}
