package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/layout"
	"github.com/bethropolis/waypoint/internal/logger"
	"github.com/bethropolis/waypoint/internal/render"
	"github.com/bethropolis/waypoint/internal/theme"
)

// roles maps layer classes to theme styles. The first class found on an
// element or its nearest ancestor decides.
var roles = []struct{ class, style string }{
	{render.ClassArrow, theme.StyleArrow},
	{render.ClassProgressBar, theme.StyleProgressBar},
	{render.ClassProgress, theme.StyleProgress},
	{render.ClassBullet, theme.StyleBullet},
	{render.ClassStepNumber, theme.StyleStepNumber},
	{render.ClassTitle, theme.StyleTitle},
	{render.ClassTooltip, theme.StyleTooltip},
	{render.ClassHelperLayer, theme.StyleHelper},
	{render.ClassHint, theme.StyleHint},
	{render.ClassOverlay, theme.StyleOverlay},
}

var borders = map[string][6]rune{
	"round":  {'╭', '╮', '╰', '╯', '─', '│'},
	"single": {'┌', '┐', '└', '┘', '─', '│'},
	"double": {'╔', '╗', '╚', '╝', '═', '║'},
}

// Painter draws a document's displayed elements, bottom to top.
type Painter struct {
	screen tcell.Screen
	theme  *theme.Theme
	area   dom.Rect
}

// NewPainter paints into area of screen. The document viewport is expected
// to have the area's size.
func NewPainter(screen tcell.Screen, th *theme.Theme, area dom.Rect) *Painter {
	return &Painter{screen: screen, theme: th, area: area}
}

// DrawDocument paints doc into the area the TUI reserves for it: the whole
// screen minus statusHeight rows at the bottom.
func DrawDocument(t *TUI, doc *dom.Document, th *theme.Theme, statusHeight int) {
	w, h := t.Size()
	p := NewPainter(t.screen, th, dom.Rect{W: w, H: max(0, h-statusHeight)})
	p.Paint(doc)
}

// Paint draws doc.
func (p *Painter) Paint(doc *dom.Document) {
	if p.area.Empty() {
		return
	}
	def := p.theme.GetStyle(theme.StyleDefault)
	p.fill(p.area, ' ', def)

	focused := doc.ActiveElement()
	for _, e := range doc.PaintOrder() {
		switch e.Tag() {
		case "html", "head", "body", "script", "style", "title", "meta":
			continue
		}
		if e.ComputedStyle("visibility") == "hidden" {
			continue
		}
		p.paintElement(e, focused)
	}
	p.placeCursor(focused)
}

func (p *Painter) paintElement(e, focused *dom.Element) {
	box := dom.BoundingClientRect(e)
	clip := dom.ClipRect(e)
	if box.Empty() || clip.Empty() {
		return
	}
	style := p.styleFor(e, focused)

	switch {
	case e.HasClass(render.ClassOverlay):
		p.dim(clip, style)
		return
	case e.HasClass(render.ClassDisableInteraction):
		return
	case e.HasClass(render.ClassProgress):
		p.fillClipped(box, clip, '░', style)
	case e.HasClass(render.ClassProgressBar), e.HasClass(render.ClassTooltip), hasBackground(e):
		p.fillClipped(box, clip, ' ', style)
	}

	if b := e.ComputedStyle("border"); b != "" {
		borderStyle := style
		if e.HasClass(render.ClassTooltip) {
			borderStyle = p.theme.GetStyle(theme.StyleTooltipBorder)
		}
		p.border(box, clip, b, borderStyle)
	}

	if isCheckbox(e) {
		mark := "[ ]"
		if e.Checked() {
			mark = "[x]"
		}
		p.text(box.X, box.Y, mark, clip, style)
		return
	}

	padX, padY := layout.Padding(e)
	lines := layout.TextLines(e, max(0, box.W-2*padX))
	for i, line := range lines {
		p.text(box.X+padX, box.Y+padY+i, line, clip, style)
	}
}

// styleFor resolves the theme style of e from its own or its ancestors'
// classes, then applies focus, state and inline colors.
func (p *Painter) styleFor(e, focused *dom.Element) tcell.Style {
	name := theme.StyleDefault
	for cur := e; cur != nil && name == theme.StyleDefault; cur = cur.Parent() {
		for _, r := range roles {
			if cur.HasClass(r.class) {
				name = r.style
				break
			}
		}
	}
	switch {
	case e.HasClass(render.ClassDisabled):
		name = theme.StyleButtonDisabled
	case e.Tag() == "button" || (e.Tag() == "a" && name == theme.StyleTooltip):
		name = theme.StyleButton
		if e == focused {
			name = theme.StyleButtonFocused
		}
	case e.HasClass(render.ClassBullet) && e.HasClass(render.ClassActive):
		name = theme.StyleBulletActive
	case e.HasClass(render.ClassHint) && e == focused:
		name = theme.StyleHintFocused
	case e == focused && name == theme.StyleDefault:
		name = theme.StyleFocus
	}
	style := p.theme.GetStyle(name)

	if c := e.ComputedStyle("color"); c != "" {
		if color, err := theme.ParseColor(c); err == nil {
			style = style.Foreground(color)
		} else {
			logger.DebugTagf("tui", "ignoring color %q: %v", c, err)
		}
	}
	if c := e.ComputedStyle("background"); c != "" {
		if color, err := theme.ParseColor(c); err == nil {
			style = style.Background(color)
		}
	}
	return style
}

func hasBackground(e *dom.Element) bool { return e.ComputedStyle("background") != "" }

func isCheckbox(e *dom.Element) bool {
	return e.Tag() == "input" && e.AttrOr("type", "") == "checkbox"
}

// dim restyles the cells under r, keeping their content.
func (p *Painter) dim(r dom.Rect, style tcell.Style) {
	r = r.Intersect(dom.Rect{W: p.area.W, H: p.area.H})
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			sx, sy := p.area.X+x, p.area.Y+y
			mainc, combc, _, _ := p.screen.GetContent(sx, sy)
			p.screen.SetContent(sx, sy, mainc, combc, style)
		}
	}
}

func (p *Painter) fill(r dom.Rect, ch rune, style tcell.Style) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			p.screen.SetContent(x, y, ch, nil, style)
		}
	}
}

func (p *Painter) fillClipped(r, clip dom.Rect, ch rune, style tcell.Style) {
	r = r.Intersect(clip)
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			p.set(x, y, ch, nil, clip, style)
		}
	}
}

func (p *Painter) border(r, clip dom.Rect, kind string, style tcell.Style) {
	g, ok := borders[kind]
	if !ok || r.W < 2 || r.H < 2 {
		return
	}
	right, bottom := r.Right()-1, r.Bottom()-1
	for x := r.X + 1; x < right; x++ {
		p.set(x, r.Y, g[4], nil, clip, style)
		p.set(x, bottom, g[4], nil, clip, style)
	}
	for y := r.Y + 1; y < bottom; y++ {
		p.set(r.X, y, g[5], nil, clip, style)
		p.set(right, y, g[5], nil, clip, style)
	}
	p.set(r.X, r.Y, g[0], nil, clip, style)
	p.set(right, r.Y, g[1], nil, clip, style)
	p.set(r.X, bottom, g[2], nil, clip, style)
	p.set(right, bottom, g[3], nil, clip, style)
}

// text draws s from (x, y) by grapheme cluster, honoring wide characters.
func (p *Painter) text(x, y int, s string, clip dom.Rect, style tcell.Style) {
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		runes := gr.Runes()
		width := gr.Width()
		if width == 0 {
			continue
		}
		p.set(x, y, runes[0], runes[1:], clip, style)
		for cw := 1; cw < width; cw++ {
			p.set(x+cw, y, ' ', nil, clip, style)
		}
		x += width
	}
}

func (p *Painter) set(x, y int, mainc rune, combc []rune, clip dom.Rect, style tcell.Style) {
	if !clip.Contains(x, y) || x >= p.area.W || y >= p.area.H {
		return
	}
	p.screen.SetContent(p.area.X+x, p.area.Y+y, mainc, combc, style)
}

// placeCursor parks the terminal cursor on the focused element, if visible.
func (p *Painter) placeCursor(focused *dom.Element) {
	if focused == nil || !focused.IsConnected() || !focused.IsDisplayed() {
		p.screen.HideCursor()
		return
	}
	r := dom.ClipRect(focused)
	if r.Empty() || r.X >= p.area.W || r.Y >= p.area.H {
		p.screen.HideCursor()
		return
	}
	p.screen.ShowCursor(p.area.X+r.X, p.area.Y+r.Y)
}
