package dom

import (
	"sort"
	"strconv"
)

// ActiveElement returns the focused element, or nil.
func (d *Document) ActiveElement() *Element { return d.focused }

// Focus gives e keyboard focus.
func (e *Element) Focus() { e.doc.focused = e }

// Blur clears focus if e holds it.
func (e *Element) Blur() {
	if e.doc.focused == e {
		e.doc.focused = nil
	}
}

// tabIndex returns the element's tab index and whether it is focusable.
func (e *Element) tabIndex() (int, bool) {
	if v, ok := e.Attr("tabindex"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, n >= 0
	}
	switch e.Tag() {
	case "a", "button", "input", "select", "textarea":
		return 0, !e.HasAttr("disabled")
	}
	return 0, false
}

// Focusable returns the focusable, displayed elements in tab order:
// positive tab indexes ascending, then the rest in document order.
func (d *Document) Focusable() []*Element {
	type entry struct {
		e   *Element
		idx int
	}
	var entries []entry
	d.Walk(func(e *Element) bool {
		if idx, ok := e.tabIndex(); ok && e.IsDisplayed() {
			entries = append(entries, entry{e: e, idx: idx})
		}
		return true
	})
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].idx, entries[j].idx
		if a > 0 && b > 0 {
			return a < b
		}
		return a > 0 && b == 0
	})
	out := make([]*Element, len(entries))
	for i, en := range entries {
		out[i] = en.e
	}
	return out
}

// FocusNext moves focus to the next (or previous) focusable element,
// wrapping around, and returns it.
func (d *Document) FocusNext(backward bool) *Element {
	list := d.Focusable()
	if len(list) == 0 {
		return nil
	}
	cur := -1
	for i, e := range list {
		if e == d.focused {
			cur = i
			break
		}
	}
	var next int
	switch {
	case cur < 0 && backward:
		next = len(list) - 1
	case cur < 0:
		next = 0
	case backward:
		next = (cur - 1 + len(list)) % len(list)
	default:
		next = (cur + 1) % len(list)
	}
	list[next].Focus()
	return list[next]
}
