package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Element wraps an element node. Wrappers are unique per node, so pointer
// equality is element identity.
type Element struct {
	doc  *Document
	node *html.Node
	uid  int

	box    Rect
	hasBox bool

	scrollTop, scrollLeft int

	onClick func(*Event)
}

// UID is a per-document identity assigned the first time the node is seen.
func (e *Element) UID() int { return e.uid }

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// Tag returns the lowercase tag name.
func (e *Element) Tag() string { return e.node.Data }

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns an attribute value, or def when absent.
func (e *Element) AttrOr(name, def string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return def
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttr sets or replaces an attribute.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr deletes an attribute.
func (e *Element) RemoveAttr(name string) {
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		attrs = append(attrs, a)
	}
	e.node.Attr = attrs
}

// ID returns the id attribute.
func (e *Element) ID() string { return e.AttrOr("id", "") }

// ClassName returns the raw class attribute.
func (e *Element) ClassName() string { return e.AttrOr("class", "") }

// SetClassName replaces the class attribute.
func (e *Element) SetClassName(s string) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		e.RemoveAttr("class")
		return
	}
	e.SetAttr("class", s)
}

// Classes returns the class list.
func (e *Element) Classes() []string { return strings.Fields(e.ClassName()) }

// HasClass reports whether class is in the class list.
func (e *Element) HasClass(class string) bool { return containsString(e.Classes(), class) }

// AddClass appends classes not already present.
func (e *Element) AddClass(classes ...string) {
	list := e.Classes()
	for _, c := range classes {
		for _, f := range strings.Fields(c) {
			if !containsString(list, f) {
				list = append(list, f)
			}
		}
	}
	e.SetClassName(strings.Join(list, " "))
}

// RemoveClass drops classes from the class list.
func (e *Element) RemoveClass(classes ...string) {
	var drop []string
	for _, c := range classes {
		drop = append(drop, strings.Fields(c)...)
	}
	var keep []string
	for _, c := range e.Classes() {
		if !containsString(drop, c) {
			keep = append(keep, c)
		}
	}
	e.SetClassName(strings.Join(keep, " "))
}

// Parent returns the parent element, or nil for <html> and detached roots.
func (e *Element) Parent() *Element {
	return e.doc.wrap(e.node.Parent)
}

// Children returns the element children.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// AppendChild moves child to the end of e's children.
func (e *Element) AppendChild(child *Element) {
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
}

// Remove detaches e from its parent. Removing a focused subtree clears focus.
func (e *Element) Remove() {
	if e.node.Parent == nil {
		return
	}
	if f := e.doc.focused; f != nil && (f == e || f.IsDescendantOf(e)) {
		e.doc.focused = nil
	}
	e.node.Parent.RemoveChild(e.node)
}

// IsDescendantOf reports whether anc is a proper ancestor of e.
func (e *Element) IsDescendantOf(anc *Element) bool {
	for n := e.node.Parent; n != nil; n = n.Parent {
		if n == anc.node {
			return true
		}
	}
	return false
}

// IsConnected reports whether e is attached to its document.
func (e *Element) IsConnected() bool {
	n := e.node
	for n.Parent != nil {
		n = n.Parent
	}
	return n == e.doc.root
}

// Text returns the concatenated text of e and its descendants.
func (e *Element) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				b.WriteString(c.Data)
			case html.ElementNode:
				walk(c)
			}
		}
	}
	walk(e.node)
	return b.String()
}

// OwnText returns the text of e's direct text children.
func (e *Element) OwnText() string {
	var b strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// SetText replaces all children with a single text node.
func (e *Element) SetText(s string) {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			e.doc.wrap(c).Remove()
		} else {
			e.node.RemoveChild(c)
		}
		c = next
	}
	if s != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	}
}

// Box returns the layout box. Without a host-supplied box it is derived from
// the inline left/top/width/height properties. Boxes of fixed elements are
// in viewport coordinates, all others in document coordinates.
func (e *Element) Box() Rect {
	if e.hasBox {
		return e.box
	}
	var r Rect
	r.X, _ = e.styleInt("left")
	r.Y, _ = e.styleInt("top")
	r.W, _ = e.styleInt("width")
	r.H, _ = e.styleInt("height")
	return r
}

// SetBox sets the layout box.
func (e *Element) SetBox(r Rect) {
	e.box = r
	e.hasBox = true
}

// ClearBox drops a host-supplied box.
func (e *Element) ClearBox() {
	e.box = Rect{}
	e.hasBox = false
}

// ScrollTop returns the vertical scroll offset of a scroll container.
func (e *Element) ScrollTop() int { return e.scrollTop }

// ScrollLeft returns the horizontal scroll offset of a scroll container.
func (e *Element) ScrollLeft() int { return e.scrollLeft }

// SetScrollTop scrolls e vertically, clamped to its content.
func (e *Element) SetScrollTop(v int) {
	content := e.contentSize()
	e.scrollTop = clamp(v, 0, max(0, content.H-e.Box().H))
}

// SetScrollLeft scrolls e horizontally, clamped to its content.
func (e *Element) SetScrollLeft(v int) {
	content := e.contentSize()
	e.scrollLeft = clamp(v, 0, max(0, content.W-e.Box().W))
}

// contentSize is the extent of e's descendants relative to e's box origin.
func (e *Element) contentSize() Size {
	origin := e.Box()
	s := origin.Size()
	stack := e.Children()
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b := c.Box()
		s.W = max(s.W, b.Right()-origin.X)
		s.H = max(s.H, b.Bottom()-origin.Y)
		stack = append(stack, c.Children()...)
	}
	return s
}

// IsDisplayed reports whether neither e nor an ancestor has display: none.
func (e *Element) IsDisplayed() bool {
	for cur := e; cur != nil; cur = cur.Parent() {
		if cur.ComputedStyle("display") == "none" {
			return false
		}
	}
	return true
}
