package placement

import (
	"github.com/bethropolis/waypoint/internal/dom"
)

const (
	// RowGap is the vertical distance between a target and a tooltip above or below it.
	RowGap = 2
	// ColGap is the horizontal distance between a target and a tooltip beside it.
	ColGap = 3

	// Extra room required around a tooltip for a side to count as feasible.
	feasibleRowPad = 1
	feasibleColPad = 2
)

// Input is everything the solver needs about the current layout.
type Input struct {
	// Target is the box the tooltip is positioned against (the reference
	// layer), in the same coordinates as the insets are applied in.
	Target dom.Rect
	// TargetClient is the target's viewport-relative box, for feasibility.
	TargetClient dom.Rect
	Tooltip      dom.Size
	Window       dom.Size
	Desired      Position
	Precedence   []Position
	AutoPosition bool
	// HintMode nudges middle alignment the way hint dialogs expect.
	HintMode bool
}

// Edge is one optional CSS-like inset.
type Edge struct {
	V   int
	Set bool
}

func at(v int) Edge { return Edge{V: v, Set: true} }

// Inset holds the offsets of the tooltip relative to its target box.
// Centered means the floating rule: centred on the target origin.
type Inset struct {
	Top, Left, Right, Bottom Edge
	Centered                 bool
}

// Result is the solver's decision.
type Result struct {
	Position Position
	Arrow    Arrow
	Inset    Inset
}

// Solve picks the final position and computes the tooltip insets. It never
// fails: when nothing fits the answer is Floating.
func Solve(in Input) Result {
	pos := in.Desired
	if pos == "" {
		pos = Bottom
	}
	switch {
	case pos == Floating:
	case in.Tooltip.W > in.Window.W || in.Tooltip.H > in.Window.H:
		pos = Floating
	case in.AutoPosition:
		pos = determineAutoPosition(in)
	case pos == Auto:
		pos = Bottom
	}
	return place(in, pos)
}

// determineAutoPosition drops the sides that would overflow the window and
// picks the desired side if it survives, else the first survivor.
func determineAutoPosition(in Input) Position {
	precedence := in.Precedence
	if len(precedence) == 0 {
		precedence = DefaultPrecedence
	}
	possible := make([]Position, 0, len(precedence))
	possible = append(possible, precedence...)

	th := in.Tooltip.H + feasibleRowPad
	tw := in.Tooltip.W + feasibleColPad
	client := in.TargetClient

	if client.Bottom()+th > in.Window.H {
		possible = remove(possible, Bottom)
	}
	if client.Y-th < 0 {
		possible = remove(possible, Top)
	}
	if client.Right()+tw > in.Window.W {
		possible = remove(possible, Right)
	}
	if client.X-tw < 0 {
		possible = remove(possible, Left)
	}

	desiredBase := in.Desired.Base()
	desiredAlign := in.Desired.Alignment()

	calculated := Floating
	if len(possible) > 0 {
		calculated = possible[0]
		if desiredBase != Auto && contains(possible, desiredBase) {
			calculated = desiredBase
		}
	}

	if calculated == Top || calculated == Bottom {
		calculated += Position(determineAutoAlignment(in.Target.X, tw, in.Window.W, desiredAlign))
	}
	return calculated
}

// determineAutoAlignment picks left/middle/right alignment for a tooltip
// above or below a target whose left edge is at offsetLeft.
func determineAutoAlignment(offsetLeft, tooltipWidth, windowWidth int, desired string) string {
	half := tooltipWidth / 2
	possible := append([]string(nil), alignments...)

	if windowWidth-offsetLeft < tooltipWidth {
		possible = removeString(possible, AlignLeft)
	}
	if offsetLeft < half || windowWidth-offsetLeft < half {
		possible = removeString(possible, AlignMiddle)
	}
	if offsetLeft < tooltipWidth {
		possible = removeString(possible, AlignRight)
	}

	if len(possible) == 0 {
		return AlignMiddle
	}
	for _, a := range possible {
		if a == desired {
			return a
		}
	}
	return possible[0]
}

// place computes the arrow and insets for a final position.
func place(in Input, pos Position) Result {
	t := in.Target
	tip := in.Tooltip
	r := Result{Position: pos}

	switch pos {
	case TopRightAligned:
		r.Arrow = ArrowBottomRight
		checkLeft(t, 0, tip, &r.Inset)
		r.Inset.Bottom = at(t.H + RowGap)
	case TopMiddleAligned:
		r.Arrow = ArrowBottomMiddle
		middle := centerOffset(in)
		if checkLeft(t, middle, tip, &r.Inset) {
			r.Inset.Right = Edge{}
			checkRight(t, middle, tip, in.Window, &r.Inset)
		}
		r.Inset.Bottom = at(t.H + RowGap)
	case TopLeftAligned, Top:
		r.Arrow = ArrowBottom
		checkRight(t, 0, tip, in.Window, &r.Inset)
		r.Inset.Bottom = at(t.H + RowGap)
	case Right:
		r.Inset.Left = at(t.W + ColGap)
		if t.Y+tip.H > in.Window.H {
			r.Arrow = ArrowLeftBottom
			r.Inset.Top = at(-(tip.H - t.H - RowGap))
		} else {
			r.Arrow = ArrowLeft
		}
	case Left:
		if t.Y+tip.H > in.Window.H {
			r.Inset.Top = at(-(tip.H - t.H - RowGap))
			r.Arrow = ArrowRightBottom
		} else {
			r.Arrow = ArrowRight
		}
		r.Inset.Right = at(t.W + ColGap)
	case Floating:
		r.Arrow = ArrowNone
		r.Inset.Centered = true
	case BottomRightAligned:
		r.Arrow = ArrowTopRight
		checkLeft(t, 0, tip, &r.Inset)
		r.Inset.Top = at(t.H + RowGap)
	case BottomMiddleAligned:
		r.Arrow = ArrowTopMiddle
		middle := centerOffset(in)
		if checkLeft(t, middle, tip, &r.Inset) {
			r.Inset.Right = Edge{}
			checkRight(t, middle, tip, in.Window, &r.Inset)
		}
		r.Inset.Top = at(t.H + RowGap)
	default:
		// Bottom, BottomLeftAligned and anything unrecognised.
		r.Arrow = ArrowTop
		checkRight(t, 0, tip, in.Window, &r.Inset)
		r.Inset.Top = at(t.H + RowGap)
	}
	return r
}

func centerOffset(in Input) int {
	v := in.Target.W/2 - in.Tooltip.W/2
	if in.HintMode {
		v++
	}
	return v
}

// checkRight sets the left inset to desiredLeft unless the tooltip would
// cross the right window edge, in which case it is clamped against it.
func checkRight(target dom.Rect, desiredLeft int, tip dom.Size, win dom.Size, inset *Inset) bool {
	if target.X+desiredLeft+tip.W > win.W {
		inset.Left = at(win.W - tip.W - target.X)
		return false
	}
	inset.Left = at(desiredLeft)
	return true
}

// checkLeft sets the right inset to desiredRight unless the tooltip would
// cross the left window edge, in which case it is pinned to that edge.
func checkLeft(target dom.Rect, desiredRight int, tip dom.Size, inset *Inset) bool {
	if target.X+target.W-desiredRight-tip.W < 0 {
		inset.Left = at(-target.X)
		return false
	}
	inset.Right = at(desiredRight)
	return true
}

// Resolve converts the insets into an absolute box for a tooltip of the
// given size placed against target. Left wins over Right, Top over Bottom.
func (r Result) Resolve(target dom.Rect, tip dom.Size) dom.Rect {
	out := dom.Rect{W: tip.W, H: tip.H}
	if r.Inset.Centered {
		out.X = target.X - tip.W/2
		out.Y = target.Y - tip.H/2
		return out
	}
	switch {
	case r.Inset.Left.Set:
		out.X = target.X + r.Inset.Left.V
	case r.Inset.Right.Set:
		out.X = target.Right() - r.Inset.Right.V - tip.W
	default:
		out.X = target.X
	}
	switch {
	case r.Inset.Top.Set:
		out.Y = target.Y + r.Inset.Top.V
	case r.Inset.Bottom.Set:
		out.Y = target.Bottom() - r.Inset.Bottom.V - tip.H
	default:
		out.Y = target.Y
	}
	return out
}

func remove(list []Position, p Position) []Position {
	out := list[:0]
	for _, v := range list {
		if v != p {
			out = append(out, v)
		}
	}
	return out
}

func contains(list []Position, p Position) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
