package render

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/layout"
	"github.com/bethropolis/waypoint/internal/placement"
)

// PositionLayer sizes layer to el's document box grown by padCols columns
// and padRows rows. Layers over fixed elements become fixed themselves.
func PositionLayer(layer, el *dom.Element, padCols, padRows int) {
	if dom.IsFixed(el) {
		layer.AddClass(ClassFixedTooltip)
	} else {
		layer.RemoveClass(ClassFixedTooltip)
	}
	off := dom.Offset(el)
	layer.SetBox(dom.Rect{
		X: off.X - padCols,
		Y: off.Y - padRows,
		W: off.W + 2*padCols,
		H: off.H + 2*padRows,
	})
}

// Placement carries what PlaceTooltip needs beyond the elements.
type Placement struct {
	Desired      placement.Position
	Precedence   []placement.Position
	AutoPosition bool
	Width        int
	HintMode     bool
}

// PlaceTooltip measures tip at p.Width, solves its position against the
// reference layer and lays it out there. The arrow is moved next to the
// edge facing the reference.
func PlaceTooltip(tip, arrow, reference *dom.Element, p Placement) placement.Result {
	doc := tip.Document()
	win := dom.WindowSize(doc)
	width := min(p.Width, win.W)

	height := layout.Flow(tip, 0, 0, width)
	size := dom.Size{W: width, H: height}
	ref := reference.Box()

	res := placement.Solve(placement.Input{
		Target:       ref,
		TargetClient: dom.BoundingClientRect(reference),
		Tooltip:      size,
		Window:       win,
		Desired:      p.Desired,
		Precedence:   p.Precedence,
		AutoPosition: p.AutoPosition,
		HintMode:     p.HintMode,
	})
	box := res.Resolve(ref, size)
	layout.Flow(tip, box.X, box.Y, width)

	setPositionClass(tip, res.Position)
	if arrow != nil {
		placeArrow(arrow, tip.Box(), res.Arrow)
	}
	return res
}

var positionClass = regexp.MustCompile(`^waypoint-(top|bottom|left|right|floating|auto)(-.*)?$`)

func setPositionClass(tip *dom.Element, pos placement.Position) {
	var keep []string
	for _, c := range tip.Classes() {
		if !positionClass.MatchString(c) {
			keep = append(keep, c)
		}
	}
	keep = append(keep, "waypoint-"+string(pos))
	tip.SetClassName(strings.Join(keep, " "))
}

var arrowGlyphs = map[placement.Arrow]string{
	placement.ArrowTop:          "▲",
	placement.ArrowTopMiddle:    "▲",
	placement.ArrowTopRight:     "▲",
	placement.ArrowBottom:       "▼",
	placement.ArrowBottomMiddle: "▼",
	placement.ArrowBottomRight:  "▼",
	placement.ArrowLeft:         "◀",
	placement.ArrowLeftBottom:   "◀",
	placement.ArrowRight:        "▶",
	placement.ArrowRightBottom:  "▶",
}

// placeArrow puts a one-cell arrow in the gap between tooltip and target.
func placeArrow(arrow *dom.Element, tip dom.Rect, kind placement.Arrow) {
	arrow.SetClassName(ClassArrow)
	if kind == placement.ArrowNone {
		hide(arrow)
		arrow.SetText("")
		return
	}
	arrow.AddClass(string(kind))
	arrow.SetText(arrowGlyphs[kind])

	var x, y int
	switch kind {
	case placement.ArrowTop, placement.ArrowTopMiddle, placement.ArrowTopRight:
		y = tip.Y - 1
	case placement.ArrowBottom, placement.ArrowBottomMiddle, placement.ArrowBottomRight:
		y = tip.Bottom()
	case placement.ArrowLeft, placement.ArrowRight:
		y = tip.Y + 1
	case placement.ArrowLeftBottom, placement.ArrowRightBottom:
		y = tip.Bottom() - 2
	}
	switch kind {
	case placement.ArrowTop, placement.ArrowBottom:
		x = tip.X + 2
	case placement.ArrowTopMiddle, placement.ArrowBottomMiddle:
		x = tip.X + tip.W/2
	case placement.ArrowTopRight, placement.ArrowBottomRight:
		x = tip.Right() - 3
	case placement.ArrowLeft, placement.ArrowLeftBottom:
		x = tip.X - 1
	case placement.ArrowRight, placement.ArrowRightBottom:
		x = tip.Right()
	}
	arrow.SetBox(dom.Rect{X: x, Y: y, W: 1, H: 1})
}

var numericZ = regexp.MustCompile(`[0-9]+`)

// SetShowElement lifts el above the overlay and marks the ancestors whose
// stacking context would otherwise keep it underneath.
func SetShowElement(el *dom.Element) {
	el.AddClass(ClassShowElement)
	switch dom.ComputedPropertyLowercased(el, "position") {
	case "absolute", "relative", "sticky", "fixed":
	default:
		el.AddClass(ClassRelativePosition)
	}
	for p := el.Parent(); p != nil && p.Tag() != "body" && p.Tag() != "html"; p = p.Parent() {
		if needsFixParent(p) {
			p.AddClass(ClassFixParent)
		}
	}
}

func needsFixParent(e *dom.Element) bool {
	if numericZ.MatchString(e.ComputedStyle("z-index")) {
		return true
	}
	if opacity, err := strconv.ParseFloat(e.ComputedStyle("opacity"), 64); err == nil && opacity < 1 {
		return true
	}
	transform := e.ComputedStyle("transform")
	return transform != "" && transform != "none"
}

// ClearShowElement removes the highlight markers from every element holding
// them, not only from the current target's ancestors.
func ClearShowElement(doc *dom.Document) {
	for _, e := range doc.ElementsByClass(ClassShowElement) {
		e.RemoveClass(ClassShowElement, ClassRelativePosition)
	}
	ClearFixParents(doc)
}

// ClearFixParents strips the stacking-context fix from the whole document.
func ClearFixParents(doc *dom.Document) {
	for _, e := range doc.ElementsByClass(ClassFixParent) {
		e.RemoveClass(ClassFixParent)
	}
}
