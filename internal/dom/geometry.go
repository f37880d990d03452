package dom

import (
	"regexp"
	"strings"
)

// ViewportBottomTolerance is the room, in rows, kept below an element for
// it to count as in the viewport.
const ViewportBottomTolerance = 4

// BoundingClientRect returns e's box relative to the viewport. Detached
// elements yield a zero rect.
func BoundingClientRect(e *Element) Rect {
	if e == nil || !e.IsConnected() {
		return Rect{}
	}
	r := e.Box()
	fixed := false
	for cur := e; cur != nil; cur = cur.Parent() {
		if cur.ComputedStyle("position") == "fixed" {
			fixed = true
			break
		}
		if p := cur.Parent(); p != nil {
			r = r.Translate(-p.scrollLeft, -p.scrollTop)
		}
	}
	if !fixed {
		r = r.Translate(-e.doc.scrollX, -e.doc.scrollY)
	}
	return r
}

// Offset returns e's position relative to the document. For elements in a
// fixed subtree it equals the client rect.
func Offset(e *Element) Rect {
	r := BoundingClientRect(e)
	if e == nil || r == (Rect{}) || IsFixed(e) {
		return r
	}
	return r.Translate(e.doc.scrollX, e.doc.scrollY)
}

// WindowSize returns the viewport, falling back to the <html> box.
func WindowSize(d *Document) Size {
	if d.viewport.W > 0 && d.viewport.H > 0 {
		return d.viewport
	}
	if htmlEl := d.DocumentElement(); htmlEl != nil {
		return htmlEl.Box().Size()
	}
	return Size{}
}

// IsElementInViewport reports whether e lies fully inside the viewport,
// keeping ViewportBottomTolerance rows free below it.
func IsElementInViewport(e *Element) bool {
	r := BoundingClientRect(e)
	win := WindowSize(e.doc)
	return r.Y >= 0 &&
		r.X >= 0 &&
		r.Bottom()+ViewportBottomTolerance <= win.H &&
		r.Right() <= win.W
}

// IsFixed reports whether e or an ancestor up to <html> has position: fixed.
func IsFixed(e *Element) bool {
	for cur := e; cur != nil; cur = cur.Parent() {
		if cur.Tag() == "html" {
			return false
		}
		if ComputedPropertyLowercased(cur, "position") == "fixed" {
			return true
		}
	}
	return false
}

// ComputedPropertyLowercased reads a computed property for case-insensitive comparisons.
func ComputedPropertyLowercased(e *Element, prop string) string {
	return strings.ToLower(e.ComputedStyle(prop))
}

var overflowScroll = regexp.MustCompile(`(auto|scroll)`)

// ScrollParent returns the nearest scrollable ancestor, or <body>.
func ScrollParent(e *Element) *Element {
	body := e.doc.Body()
	position := ComputedPropertyLowercased(e, "position")
	if position == "fixed" {
		return body
	}
	excludeStatic := position == "absolute"
	for p := e.Parent(); p != nil; p = p.Parent() {
		if excludeStatic && ComputedPropertyLowercased(p, "position") == "static" {
			continue
		}
		overflow := ComputedPropertyLowercased(p, "overflow") +
			ComputedPropertyLowercased(p, "overflow-y") +
			ComputedPropertyLowercased(p, "overflow-x")
		if overflowScroll.MatchString(overflow) {
			return p
		}
	}
	return body
}

// ClipRect returns the visible part of e in viewport coordinates: its client
// rect cut by clipping ancestors and the viewport.
func ClipRect(e *Element) Rect {
	r := BoundingClientRect(e)
	win := WindowSize(e.doc)
	clip := r.Intersect(Rect{W: win.W, H: win.H})
	if IsFixed(e) {
		return clip
	}
	for p := e.Parent(); p != nil; p = p.Parent() {
		if p.Tag() == "body" || p.Tag() == "html" {
			break
		}
		if ComputedPropertyLowercased(p, "overflow") != "visible" {
			clip = clip.Intersect(BoundingClientRect(p))
		}
	}
	return clip
}
