package dom

import (
	"sort"
	"strconv"
)

// EventType names a dispatched event.
type EventType string

const (
	KeyDown EventType = "keydown"
	Resize  EventType = "resize"
	Click   EventType = "click"
)

// Key names used for KeyDown events. Printable keys use the character itself.
const (
	KeyEscape     = "Escape"
	KeyEnter      = "Enter"
	KeyTab        = "Tab"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
)

// Event is a dispatched DOM event.
type Event struct {
	Type   EventType
	Key    string
	Shift  bool
	X, Y   int // viewport cell for clicks
	Target *Element

	defaultPrevented bool
	stopped          bool
}

// PreventDefault suppresses the host's default action.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a handler called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops a click from bubbling further.
func (e *Event) StopPropagation() { e.stopped = true }

// Listener handles window-level events.
type Listener func(*Event)

// ListenerID identifies a registered listener.
type ListenerID int

type listener struct {
	id  ListenerID
	typ EventType
	fn  Listener
}

// AddEventListener registers a window-level listener.
func (d *Document) AddEventListener(t EventType, fn Listener) ListenerID {
	d.nextListener++
	d.listeners = append(d.listeners, listener{id: d.nextListener, typ: t, fn: fn})
	return d.nextListener
}

// RemoveEventListener drops a listener. Unknown ids are ignored.
func (d *Document) RemoveEventListener(id ListenerID) {
	for i, l := range d.listeners {
		if l.id == id {
			d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of registered window listeners.
func (d *Document) ListenerCount() int { return len(d.listeners) }

// SetOnClick sets the element's single click handler; nil clears it.
func (e *Element) SetOnClick(fn func(*Event)) { e.onClick = fn }

// HasOnClick reports whether a click handler is set.
func (e *Element) HasOnClick() bool { return e.onClick != nil }

// Dispatch delivers ev. Clicks bubble from the target through its ancestors
// before reaching window listeners. Key and resize events go to window
// listeners only.
func (d *Document) Dispatch(ev *Event) {
	if ev.Type == Click && ev.Target != nil {
		if isCheckbox(ev.Target) {
			ev.Target.SetChecked(!ev.Target.Checked())
		}
		for cur := ev.Target; cur != nil && !ev.stopped; cur = cur.Parent() {
			if cur.onClick != nil {
				cur.onClick(ev)
			}
		}
		if ev.stopped {
			return
		}
	}
	// Copy so listeners may remove themselves.
	ls := append([]listener(nil), d.listeners...)
	for _, l := range ls {
		if l.typ == ev.Type {
			l.fn(ev)
		}
	}
}

// Click dispatches a click on e.
func (e *Element) Click() {
	r := BoundingClientRect(e)
	e.doc.Dispatch(&Event{Type: Click, Target: e, X: r.X, Y: r.Y})
}

// ClickAt hit-tests the viewport cell and dispatches a click on the element
// found there. It returns the target, or nil when nothing was hit.
func (d *Document) ClickAt(x, y int) *Element {
	target := d.ElementAt(x, y)
	if target == nil {
		return nil
	}
	d.Dispatch(&Event{Type: Click, Target: target, X: x, Y: y})
	return target
}

func isCheckbox(e *Element) bool {
	return e.Tag() == "input" && e.AttrOr("type", "") == "checkbox"
}

// Checked reports the checked state of a checkbox.
func (e *Element) Checked() bool { return e.HasAttr("checked") }

// SetChecked sets the checked state of a checkbox.
func (e *Element) SetChecked(v bool) {
	if v {
		e.SetAttr("checked", "")
	} else {
		e.RemoveAttr("checked")
	}
}

// stackLevel is the z-index of the nearest positioned ancestor-or-self with
// a numeric z-index, or 0.
func stackLevel(e *Element) int {
	for cur := e; cur != nil; cur = cur.Parent() {
		if cur.ComputedStyle("position") == "static" {
			continue
		}
		if z, err := strconv.Atoi(cur.ComputedStyle("z-index")); err == nil {
			return z
		}
	}
	return 0
}

// PaintOrder returns the displayed elements from bottom to top: by stacking
// level, then document order.
func (d *Document) PaintOrder() []*Element {
	type entry struct {
		e     *Element
		level int
	}
	var entries []entry
	hidden := map[*Element]bool{}
	d.Walk(func(e *Element) bool {
		if p := e.Parent(); p != nil && hidden[p] {
			hidden[e] = true
			return true
		}
		if e.ComputedStyle("display") == "none" {
			hidden[e] = true
			return true
		}
		entries = append(entries, entry{e: e, level: stackLevel(e)})
		return true
	})
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].level < entries[j].level })
	out := make([]*Element, len(entries))
	for i, en := range entries {
		out[i] = en.e
	}
	return out
}

// ElementAt returns the topmost visible element covering the viewport cell.
func (d *Document) ElementAt(x, y int) *Element {
	order := d.PaintOrder()
	for i := len(order) - 1; i >= 0; i-- {
		e := order[i]
		if e.ComputedStyle("visibility") == "hidden" || e.ComputedStyle("pointer-events") == "none" {
			continue
		}
		if ClipRect(e).Contains(x, y) {
			return e
		}
	}
	return nil
}
