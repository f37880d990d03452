package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<div id="header" style="left: 0; top: 0; width: 80; height: 3">Header</div>
<div id="list" class="scroller" style="left: 0; top: 5; width: 40; height: 10">
  <p id="row" style="left: 2; top: 20; width: 10; height: 1">Row</p>
</div>
<div id="bar" style="position: fixed; left: 0; top: 22; width: 80; height: 2">
  <span id="inbar" style="left: 1; top: 22; width: 5; height: 1">x</span>
</div>
<button id="b1" tabindex="2">one</button>
<button id="b2">two</button>
<a id="a1" tabindex="1">link</a>
</body></html>`

func load(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(page))
	require.NoError(t, err)
	require.NoError(t, doc.AddStyleSheet(".scroller { overflow: auto; position: relative } .hidden { display: none }"))
	doc.SetViewport(Size{W: 80, H: 24})
	doc.DocumentElement().SetBox(Rect{W: 80, H: 100})
	return doc
}

func byID(t *testing.T, doc *Document, id string) *Element {
	t.Helper()
	e, err := doc.QuerySelector("#" + id)
	require.NoError(t, err)
	require.NotNil(t, e, id)
	return e
}

func TestQuerySelector(t *testing.T) {
	doc := load(t)
	e := byID(t, doc, "header")
	assert.Equal(t, "div", e.Tag())
	assert.Same(t, e, byID(t, doc, "header"), "wrappers are unique per node")

	all, err := doc.QuerySelectorAll("button")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	missing, err := doc.QuerySelector("#nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = doc.QuerySelector("div[")
	assert.Error(t, err)
}

func TestClassesAndStyle(t *testing.T) {
	doc := load(t)
	e := byID(t, doc, "header")

	e.AddClass("a b", "a")
	assert.Equal(t, "a b", e.ClassName())
	e.RemoveClass("a")
	assert.Equal(t, []string{"b"}, e.Classes())

	assert.Equal(t, "static", e.ComputedStyle("position"))
	e.AddClass("hidden")
	assert.Equal(t, "none", e.ComputedStyle("display"))
	assert.False(t, e.IsDisplayed())

	e.SetStyle("display", "block")
	assert.Equal(t, "block", e.ComputedStyle("display"), "inline wins over class rules")
	e.SetStyle("display", "")
	assert.Equal(t, "none", e.ComputedStyle("display"))

	assert.Equal(t, "auto", ComputedPropertyLowercased(byID(t, doc, "list"), "overflow-y"))
}

func TestStyleSheetErrors(t *testing.T) {
	doc := NewDocument()
	assert.Error(t, doc.AddStyleSheet("div { color: red }"))
	assert.Error(t, doc.AddStyleSheet(".a { color: red"))
	assert.NoError(t, doc.AddStyleSheet(".a, .b { color: red }"))
}

func TestImportantRulesBeatInlineStyle(t *testing.T) {
	doc := NewDocument()
	require.NoError(t, doc.AddStyleSheet(".flat { z-index: auto !important; opacity: 1 }"))
	e := doc.CreateElement("div")
	doc.Body().AppendChild(e)
	e.SetStyles(Declarations{"z-index": "5", "opacity": "0.5"})

	e.AddClass("flat")
	assert.Equal(t, "auto", e.ComputedStyle("z-index"))
	assert.Equal(t, "0.5", e.ComputedStyle("opacity"))
	e.RemoveClass("flat")
	assert.Equal(t, "5", e.ComputedStyle("z-index"))
}

func TestGeometryWithScroll(t *testing.T) {
	doc := load(t)
	row := byID(t, doc, "row")
	list := byID(t, doc, "list")

	assert.Equal(t, Rect{X: 2, Y: 20, W: 10, H: 1}, BoundingClientRect(row))

	list.SetScrollTop(12)
	assert.Equal(t, 6, list.ScrollTop(), "clamped to the container content")
	assert.Equal(t, Rect{X: 2, Y: 14, W: 10, H: 1}, BoundingClientRect(row))

	doc.ScrollTo(0, 10)
	assert.Equal(t, Rect{X: 2, Y: 4, W: 10, H: 1}, BoundingClientRect(row))
	assert.Equal(t, Rect{X: 2, Y: 14, W: 10, H: 1}, Offset(row))
	assert.Same(t, list, ScrollParent(row))
}

func TestFixedElements(t *testing.T) {
	doc := load(t)
	inbar := byID(t, doc, "inbar")
	assert.True(t, IsFixed(inbar))
	assert.False(t, IsFixed(byID(t, doc, "row")))

	doc.ScrollTo(0, 30)
	assert.Equal(t, Rect{X: 1, Y: 22, W: 5, H: 1}, BoundingClientRect(inbar), "fixed boxes ignore document scroll")
	assert.Equal(t, BoundingClientRect(inbar), Offset(inbar))
	assert.Same(t, doc.Body(), ScrollParent(byID(t, doc, "bar")))
}

func TestViewportChecks(t *testing.T) {
	doc := load(t)
	assert.True(t, IsElementInViewport(byID(t, doc, "header")))
	assert.False(t, IsElementInViewport(byID(t, doc, "row")), "bottom tolerance leaves no room at row 20")

	doc.SetViewport(Size{})
	assert.Equal(t, Size{W: 80, H: 100}, WindowSize(doc))
}

func TestDetachedElementsAreDegenerate(t *testing.T) {
	doc := load(t)
	e := doc.CreateElement("div")
	e.SetBox(Rect{X: 1, Y: 1, W: 5, H: 5})
	assert.Equal(t, Rect{}, BoundingClientRect(e))
	assert.Equal(t, Rect{}, Offset(e))

	doc.Body().AppendChild(e)
	assert.True(t, e.IsConnected())
	e.Remove()
	assert.False(t, e.IsConnected())
}

func TestListenersAndBubbling(t *testing.T) {
	doc := load(t)
	var got []string

	id := doc.AddEventListener(KeyDown, func(ev *Event) {
		got = append(got, "key:"+ev.Key)
		ev.PreventDefault()
	})
	ev := &Event{Type: KeyDown, Key: KeyEnter}
	doc.Dispatch(ev)
	assert.True(t, ev.DefaultPrevented())

	doc.RemoveEventListener(id)
	doc.Dispatch(&Event{Type: KeyDown, Key: KeyEscape})
	assert.Equal(t, []string{"key:Enter"}, got)
	assert.Zero(t, doc.ListenerCount())

	list := byID(t, doc, "list")
	row := byID(t, doc, "row")
	list.SetOnClick(func(*Event) { got = append(got, "list") })
	row.SetOnClick(func(*Event) { got = append(got, "row") })
	row.Click()
	assert.Equal(t, []string{"key:Enter", "row", "list"}, got)

	row.SetOnClick(func(ev *Event) { ev.StopPropagation() })
	row.Click()
	assert.Len(t, got, 3)
}

func TestHitTesting(t *testing.T) {
	doc := load(t)
	assert.Equal(t, "html", doc.ElementAt(3, 20).Tag(), "row is clipped by its scroll container")
	byID(t, doc, "list").SetScrollTop(6)
	assert.Same(t, byID(t, doc, "row"), doc.ElementAt(3, 14))
	assert.Same(t, byID(t, doc, "list"), doc.ElementAt(30, 14))
	assert.Same(t, byID(t, doc, "inbar"), doc.ElementAt(1, 22))
	assert.Same(t, byID(t, doc, "bar"), doc.ElementAt(40, 23))

	over := doc.CreateElement("div")
	over.SetStyles(Declarations{"position": "absolute", "z-index": "10"})
	over.SetBox(Rect{W: 80, H: 24})
	doc.Body().AppendChild(over)
	assert.Same(t, over, doc.ElementAt(3, 14))

	hit := false
	over.SetOnClick(func(*Event) { hit = true })
	assert.Same(t, over, doc.ClickAt(0, 0))
	assert.True(t, hit)
}

func TestCheckboxToggles(t *testing.T) {
	doc := load(t)
	cb := doc.CreateElement("input")
	cb.SetAttr("type", "checkbox")
	doc.Body().AppendChild(cb)

	var seen bool
	cb.SetOnClick(func(*Event) { seen = cb.Checked() })
	cb.Click()
	assert.True(t, seen)
	cb.Click()
	assert.False(t, cb.Checked())
}

func TestFocusOrder(t *testing.T) {
	doc := load(t)
	assert.Equal(t, "a1", doc.FocusNext(false).ID())
	assert.Equal(t, "b1", doc.FocusNext(false).ID())
	assert.Equal(t, "b2", doc.FocusNext(false).ID())
	assert.Equal(t, "a1", doc.FocusNext(false).ID())
	assert.Equal(t, "b2", doc.FocusNext(true).ID())

	b2 := byID(t, doc, "b2")
	b2.Remove()
	assert.Nil(t, doc.ActiveElement())
}

func TestSetTextReplacesChildren(t *testing.T) {
	doc := load(t)
	list := byID(t, doc, "list")
	list.SetText("plain")
	assert.Equal(t, "plain", list.Text())
	assert.Empty(t, list.Children())
	assert.Equal(t, "Header", byID(t, doc, "header").OwnText())
}

func TestPaintOrderSkipsHiddenSubtrees(t *testing.T) {
	doc := load(t)
	list := byID(t, doc, "list")
	list.AddClass("hidden")
	for _, e := range doc.PaintOrder() {
		assert.NotEqual(t, "row", e.ID())
		assert.NotEqual(t, "list", e.ID())
	}
}
