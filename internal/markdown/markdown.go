// Package markdown turns step and hint bodies into plain terminal lines.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/bethropolis/waypoint/internal/logger"
	"github.com/bethropolis/waypoint/internal/utils"
)

// Renderer renders Markdown with glamour, one term renderer per wrap width.
type Renderer struct {
	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// New creates a Renderer.
func New() *Renderer {
	return &Renderer{renderers: make(map[int]*glamour.TermRenderer)}
}

func (r *Renderer) termRenderer(width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tr, ok := r.renderers[width]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.NoTTYStyle),
		glamour.WithColorProfile(termenv.Ascii),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.renderers[width] = tr
	return tr, nil
}

// Render returns src as lines at most width cells wide. Rendering failures
// fall back to plain wrapping.
func (r *Renderer) Render(src string, width int) []string {
	if width <= 0 {
		return nil
	}
	tr, err := r.termRenderer(width)
	if err != nil {
		logger.Warnf("markdown: renderer for width %d: %v", width, err)
		return Plain(src, width)
	}
	out, err := tr.Render(src)
	if err != nil {
		logger.Warnf("markdown: render failed, using plain text: %v", err)
		return Plain(src, width)
	}
	lines := tidy(ansi.Strip(out))
	for i, l := range lines {
		if utils.Width(l) > width {
			lines[i] = utils.Truncate(l, width)
		}
	}
	return lines
}

// Plain wraps src without interpreting it.
func Plain(src string, width int) []string {
	return utils.Wrap(strings.TrimSpace(src), width)
}

// tidy trims trailing padding, surrounding blank lines and the document margin.
func tidy(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	indent := -1
	for _, l := range lines {
		if l == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " "))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent > 0 {
		for i, l := range lines {
			if len(l) >= indent {
				lines[i] = l[indent:]
			}
		}
	}
	return lines
}
