// Package dom is a small headless document model: an x/net/html tree whose
// layout boxes are supplied by the host, with the style, scroll, focus,
// selector and event primitives a page overlay needs.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document owns a node tree and the state a browser window would hold.
type Document struct {
	root  *html.Node
	elems map[*html.Node]*Element
	uids  int

	viewport         Size
	scrollX, scrollY int

	rules []classRule

	listeners    []listener
	nextListener ListenerID
	focused      *Element
}

// NewDocument creates an empty html/head/body document.
func NewDocument() *Document {
	doc, err := Parse(strings.NewReader("<html><head></head><body></body></html>"))
	if err != nil {
		// The literal above always parses.
		panic(err)
	}
	return doc
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{
		root:  root,
		elems: make(map[*html.Node]*Element),
	}, nil
}

// wrap returns the Element for n, assigning a stable uid the first time n is seen.
func (d *Document) wrap(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	if e, ok := d.elems[n]; ok {
		return e
	}
	d.uids++
	e := &Element{doc: d, node: n, uid: d.uids}
	d.elems[n] = e
	return e
}

// DocumentElement returns <html>.
func (d *Document) DocumentElement() *Element {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return d.wrap(c)
		}
	}
	return nil
}

// Body returns <body>, creating it if the tree lacks one.
func (d *Document) Body() *Element {
	htmlEl := d.DocumentElement()
	if htmlEl == nil {
		return nil
	}
	for _, c := range htmlEl.Children() {
		if c.node.DataAtom == atom.Body {
			return c
		}
	}
	body := d.CreateElement("body")
	htmlEl.AppendChild(body)
	return body
}

// CreateElement returns a new detached element.
func (d *Document) CreateElement(tag string) *Element {
	tag = strings.ToLower(tag)
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	return d.wrap(n)
}

// Walk visits every element in document order until fn returns false.
func (d *Document) Walk(fn func(*Element) bool) {
	stack := []*html.Node{d.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Type == html.ElementNode {
			if !fn(d.wrap(n)) {
				return
			}
		}
		// Push children in reverse so the first child is visited first.
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
}

// Elements returns all elements in document order.
func (d *Document) Elements() []*Element {
	var out []*Element
	d.Walk(func(e *Element) bool {
		out = append(out, e)
		return true
	})
	return out
}

// QuerySelector returns the first element matching a CSS selector, or nil.
// A malformed selector is an error.
func (d *Document) QuerySelector(sel string) (*Element, error) {
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", sel, err)
	}
	return d.wrap(s.MatchFirst(d.root)), nil
}

// QuerySelectorAll returns every element matching a CSS selector.
func (d *Document) QuerySelectorAll(sel string) ([]*Element, error) {
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", sel, err)
	}
	nodes := s.MatchAll(d.root)
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out, nil
}

// ElementsByClass returns elements carrying class, in document order.
func (d *Document) ElementsByClass(class string) []*Element {
	var out []*Element
	d.Walk(func(e *Element) bool {
		if e.HasClass(class) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Viewport returns the window size as set by the host.
func (d *Document) Viewport() Size { return d.viewport }

// SetViewport changes the window size without notifying listeners.
func (d *Document) SetViewport(s Size) {
	d.viewport = s
	d.clampScroll()
}

// Resize changes the window size and dispatches a resize event.
func (d *Document) Resize(s Size) {
	d.SetViewport(s)
	d.Dispatch(&Event{Type: Resize})
}

// Scroll returns the document scroll offset.
func (d *Document) Scroll() (x, y int) { return d.scrollX, d.scrollY }

// ScrollTo sets the document scroll offset, clamped to the content size.
func (d *Document) ScrollTo(x, y int) {
	d.scrollX, d.scrollY = x, y
	d.clampScroll()
}

// ScrollBy moves the document scroll offset.
func (d *Document) ScrollBy(dx, dy int) {
	d.ScrollTo(d.scrollX+dx, d.scrollY+dy)
}

// ContentSize is the extent of the document: the <html> box when the host
// set one, else the union of all non-fixed element boxes.
func (d *Document) ContentSize() Size {
	if htmlEl := d.DocumentElement(); htmlEl != nil && htmlEl.hasBox {
		return htmlEl.box.Size()
	}
	var s Size
	d.Walk(func(e *Element) bool {
		if IsFixed(e) {
			return true
		}
		b := e.Box()
		s.W = max(s.W, b.Right())
		s.H = max(s.H, b.Bottom())
		return true
	})
	return s
}

func (d *Document) clampScroll() {
	content := d.ContentSize()
	win := WindowSize(d)
	d.scrollX = clamp(d.scrollX, 0, max(0, content.W-win.W))
	d.scrollY = clamp(d.scrollY, 0, max(0, content.H-win.H))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
