// Package layout is the host-side box model: a minimal block/inline flow that
// assigns cell boxes to elements. Elements positioned absolute or fixed keep
// whatever box their owner gives them.
package layout

import (
	"strconv"
	"strings"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/utils"
)

// InlineGap is the column gap between inline siblings.
const InlineGap = 1

// Padding returns the horizontal and vertical padding of e, read from the
// padding-x and padding-y properties.
func Padding(e *dom.Element) (x, y int) {
	return intProp(e, "padding-x"), intProp(e, "padding-y")
}

// TextLines returns e's own text broken into lines for a content width.
// white-space: pre keeps the author's line breaks verbatim.
func TextLines(e *dom.Element, width int) []string {
	text := e.OwnText()
	if e.ComputedStyle("white-space") == "pre" {
		text = strings.Trim(text, "\n")
		if text == "" {
			return nil
		}
		lines := strings.Split(text, "\n")
		for i, l := range lines {
			lines[i] = utils.Truncate(l, width)
		}
		return lines
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}
	return utils.Wrap(text, width)
}

// Flow lays e out at (x, y) with the given available width, recursively
// positioning in-flow descendants, and returns the height used.
func Flow(e *dom.Element, x, y, width int) int {
	if e.ComputedStyle("display") == "none" {
		return 0
	}
	if w, ok := length(e, "width", width); ok && w < width {
		width = w
	}
	padX, padY := Padding(e)
	innerX, innerW := x+padX, max(0, width-2*padX)
	cursor := y + padY
	cursor += len(TextLines(e, innerW))

	var line []*dom.Element
	flushLine := func() {
		if len(line) == 0 {
			return
		}
		cursor += flowInline(line, innerX, cursor, innerW)
		line = line[:0]
	}
	for _, c := range e.Children() {
		if !inFlow(c) {
			continue
		}
		if IsInline(c) {
			line = append(line, c)
			continue
		}
		flushLine()
		cursor += Flow(c, innerX, cursor, innerW)
		cursor += intProp(c, "margin-bottom")
	}
	flushLine()

	height := cursor - y + padY
	if h, ok := length(e, "height", 0); ok {
		height = h
	}
	e.SetBox(dom.Rect{X: x, Y: y, W: width, H: height})
	return height
}

// flowInline places a run of inline siblings left to right, wrapping when a
// row is full. It returns the total height of the rows.
func flowInline(items []*dom.Element, x, y, width int) int {
	cx, rowY, rowH := x, y, 0
	for _, c := range items {
		w := InlineWidth(c, width)
		if cx > x && cx+w > x+width {
			rowY += rowH
			cx, rowH = x, 0
		}
		h := Flow(c, cx, rowY, w)
		rowH = max(rowH, h)
		cx += w + InlineGap
	}
	return rowY + rowH - y
}

// InlineWidth is the width an inline element takes: its width property, or
// its text plus padding, capped at the available width.
func InlineWidth(e *dom.Element, avail int) int {
	if w, ok := length(e, "width", avail); ok {
		return min(w, avail)
	}
	padX, _ := Padding(e)
	w := utils.Width(strings.Join(strings.Fields(e.Text()), " ")) + 2*padX
	return min(max(w, 1), avail)
}

// IsInline reports whether e flows inline.
func IsInline(e *dom.Element) bool {
	switch e.ComputedStyle("display") {
	case "inline", "inline-block":
		return true
	}
	return false
}

func inFlow(e *dom.Element) bool {
	switch e.ComputedStyle("position") {
	case "absolute", "fixed":
		return false
	}
	return e.ComputedStyle("display") != "none"
}

// length reads a width/height property. Percentages are relative to base.
func length(e *dom.Element, prop string, base int) (int, bool) {
	v := strings.TrimSpace(e.ComputedStyle(prop))
	if v == "" || v == "auto" {
		return 0, false
	}
	if pct, ok := strings.CutSuffix(v, "%"); ok {
		f, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, false
		}
		return int(f * float64(base) / 100), true
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSuffix(v, "px"), "ch"))
	if err != nil {
		return 0, false
	}
	return n, true
}

func intProp(e *dom.Element, prop string) int {
	n, err := strconv.Atoi(strings.TrimSpace(e.ComputedStyle(prop)))
	if err != nil {
		return 0
	}
	return n
}
