package hint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/event"
	"github.com/bethropolis/waypoint/internal/options"
	"github.com/bethropolis/waypoint/internal/render"
)

const page = `<html><body>
<div id="x" data-hint="Use this">X</div>
<div id="y" data-hint="Other" data-hint-position="bottom-right" data-hint-animation="false">Y</div>
</body></html>`

func newDoc(t *testing.T) *dom.Document {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader(page))
	require.NoError(t, err)
	doc.SetViewport(dom.Size{W: 80, H: 24})
	doc.DocumentElement().SetBox(dom.Rect{W: 80, H: 24})
	doc.Body().SetBox(dom.Rect{W: 80, H: 24})
	byID(t, doc, "x").SetBox(dom.Rect{X: 10, Y: 5, W: 20, H: 3})
	byID(t, doc, "y").SetBox(dom.Rect{X: 40, Y: 10, W: 10, H: 4})
	return doc
}

func byID(t *testing.T, doc *dom.Document, id string) *dom.Element {
	t.Helper()
	e, err := doc.QuerySelector("#" + id)
	require.NoError(t, err)
	require.NotNil(t, e)
	return e
}

func added(t *testing.T, doc *dom.Document, opts ...Option) *Manager {
	t.Helper()
	m := New(doc, opts...)
	require.NoError(t, m.AddHints())
	require.True(t, m.Added())
	return m
}

func markerEl(t *testing.T, m *Manager, id int) *dom.Element {
	t.Helper()
	el, ok := m.Marker(id)
	require.True(t, ok)
	return el
}

func TestMarkersAreAnchored(t *testing.T) {
	doc := newDoc(t)
	m := added(t, doc)

	assert.Equal(t, []int{0, 1}, m.IDs())
	x := markerEl(t, m, 0)
	assert.Equal(t, dom.Rect{X: 18, Y: 5, W: 3, H: 1}, x.Box())
	assert.Equal(t, MarkerGlyph, x.Text())
	assert.False(t, x.HasClass(render.ClassHintNoAnim))

	y := markerEl(t, m, 1)
	assert.Equal(t, dom.Rect{X: 47, Y: 13, W: 3, H: 1}, y.Box())
	assert.True(t, y.HasClass(render.ClassHintNoAnim))
	assert.Equal(t, 2, doc.ListenerCount())
}

func TestAlignAnchors(t *testing.T) {
	doc := newDoc(t)
	target := byID(t, doc, "x")
	el := doc.CreateElement("a")
	cases := map[string]dom.Rect{
		"top-left":      {X: 10, Y: 5},
		"top-right":     {X: 27, Y: 5},
		"middle-left":   {X: 10, Y: 6},
		"middle-middle": {X: 18, Y: 6},
		"middle-right":  {X: 27, Y: 6},
		"bottom-left":   {X: 10, Y: 7},
		"bottom-middle": {X: 18, Y: 7},
	}
	for anchor, want := range cases {
		Align(el, target, anchor)
		want.W, want.H = MarkerWidth, MarkerHeight
		assert.Equal(t, want, el.Box(), anchor)
	}
}

func TestAddHintsTwiceIsNoop(t *testing.T) {
	doc := newDoc(t)
	m := added(t, doc)
	require.NoError(t, m.AddHints())
	assert.Len(t, doc.ElementsByClass(render.ClassHint), 2)
	assert.Len(t, doc.ElementsByClass(render.ClassHints), 1)
}

func TestAddHintsFromConfig(t *testing.T) {
	doc := newDoc(t)
	opts := options.Defaults()
	opts.Hints = []options.HintConfig{
		{Element: "#y", Hint: "configured", HintPosition: "middle-middle"},
		{Element: "#missing", Hint: "dropped"},
	}
	m := added(t, doc, WithOptions(opts))
	require.Equal(t, []int{0}, m.IDs())
	assert.Equal(t, dom.Rect{X: 43, Y: 11, W: 3, H: 1}, markerEl(t, m, 0).Box())
}

func TestAddHintsWithNothingToAdd(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(`<html><body><p>plain</p></body></html>`))
	require.NoError(t, err)
	m := New(doc)
	require.NoError(t, m.AddHints())
	assert.False(t, m.Added())
	assert.Zero(t, doc.ListenerCount())
}

func TestDialogToggle(t *testing.T) {
	doc := newDoc(t)
	m := added(t, doc)
	var clicked []int
	m.OnHintClick(func(id int) { clicked = append(clicked, id) })

	markerEl(t, m, 0).Click()
	id, ok := m.OpenDialog()
	require.True(t, ok)
	assert.Equal(t, 0, id)
	require.Len(t, doc.ElementsByClass(render.ClassHintReference), 1)

	markerEl(t, m, 0).Click()
	_, ok = m.OpenDialog()
	assert.False(t, ok)
	assert.Empty(t, doc.ElementsByClass(render.ClassHintReference))

	markerEl(t, m, 0).Click()
	markerEl(t, m, 1).Click()
	id, ok = m.OpenDialog()
	require.True(t, ok)
	assert.Equal(t, 1, id)
	assert.Len(t, doc.ElementsByClass(render.ClassHintReference), 1)
	assert.Equal(t, []int{0, 0, 0, 1}, clicked)
}

func TestDialogPlacement(t *testing.T) {
	doc := newDoc(t)
	m := added(t, doc)
	require.NoError(t, m.ShowHintDialog(0))

	ref := doc.ElementsByClass(render.ClassHintReference)[0]
	assert.Equal(t, markerEl(t, m, 0).Box(), ref.Box())
	assert.Equal(t, "0", ref.AttrOr(AttrHintID, ""))

	tip := doc.ElementsByClass(render.ClassTooltip)[0]
	box := tip.Box()
	assert.False(t, box.Empty())
	assert.GreaterOrEqual(t, box.X, 0)
	assert.LessOrEqual(t, box.Right(), 80)
	assert.Greater(t, box.Y, ref.Box().Y)
	assert.Contains(t, tip.Text(), "Use this")
	assert.Contains(t, tip.Text(), "Got it")

	assert.ErrorIs(t, m.ShowHintDialog(7), ErrUnknownHint)
}

func TestDialogButtonHidesHint(t *testing.T) {
	doc := newDoc(t)
	events := event.NewManager()
	var closedEvents []int
	events.Subscribe(event.TypeHintClosed, func(e event.Event) bool {
		closedEvents = append(closedEvents, e.Data.(event.HintData).ID)
		return false
	})
	m := added(t, doc, WithEventManager(events))
	var closed []int
	m.OnHintClose(func(id int) { closed = append(closed, id) })

	require.NoError(t, m.ShowHintDialog(1))
	buttons := doc.ElementsByClass("waypoint-button")
	require.Len(t, buttons, 1)
	buttons[0].Click()

	_, ok := m.OpenDialog()
	assert.False(t, ok)
	assert.True(t, markerEl(t, m, 1).HasClass(render.ClassHideHint))
	assert.False(t, markerEl(t, m, 1).IsDisplayed())
	assert.Equal(t, []int{1}, closed)
	assert.Equal(t, []int{1}, closedEvents)
}

func TestDialogWithoutButton(t *testing.T) {
	doc := newDoc(t)
	m := New(doc)
	require.NoError(t, m.SetOptions(map[string]any{"hintShowButton": false}))
	require.NoError(t, m.AddHints())
	require.NoError(t, m.ShowHintDialog(0))
	assert.Empty(t, doc.ElementsByClass("waypoint-button"))
}

func TestClickOutsideClosesDialog(t *testing.T) {
	doc := newDoc(t)
	m := added(t, doc)
	require.NoError(t, m.ShowHintDialog(0))

	doc.ElementsByClass(render.ClassText)[0].Click()
	_, ok := m.OpenDialog()
	assert.True(t, ok)

	doc.Body().Click()
	_, ok = m.OpenDialog()
	assert.False(t, ok)
}

func TestShowHideHints(t *testing.T) {
	doc := newDoc(t)
	m := added(t, doc)
	m.HideHints()
	for _, id := range m.IDs() {
		assert.True(t, markerEl(t, m, id).HasClass(render.ClassHideHint))
	}
	m.ShowHint(1)
	assert.False(t, markerEl(t, m, 1).HasClass(render.ClassHideHint))
	require.NoError(t, m.ShowHints())
	assert.False(t, markerEl(t, m, 0).HasClass(render.ClassHideHint))
}

func TestRemoveHint(t *testing.T) {
	doc := newDoc(t)
	m := added(t, doc)
	require.NoError(t, m.ShowHintDialog(0))
	m.RemoveHint(0)

	assert.Equal(t, []int{1}, m.IDs())
	_, ok := m.OpenDialog()
	assert.False(t, ok)
	assert.Len(t, doc.ElementsByClass(render.ClassHint), 1)

	m.RemoveHints()
	assert.False(t, m.Added())
	assert.Empty(t, doc.ElementsByClass(render.ClassHint))
	assert.Empty(t, doc.ElementsByClass(render.ClassHints))
	assert.Zero(t, doc.ListenerCount())
}

func TestResizeRealignsMarkers(t *testing.T) {
	doc := newDoc(t)
	m := added(t, doc)
	require.NoError(t, m.ShowHintDialog(0))

	byID(t, doc, "x").SetBox(dom.Rect{X: 2, Y: 1, W: 20, H: 3})
	doc.Resize(dom.Size{W: 80, H: 24})

	assert.Equal(t, dom.Rect{X: 10, Y: 1, W: 3, H: 1}, markerEl(t, m, 0).Box())
	id, ok := m.OpenDialog()
	require.True(t, ok)
	assert.Equal(t, 0, id)
	ref := doc.ElementsByClass(render.ClassHintReference)[0]
	assert.Equal(t, dom.Rect{X: 10, Y: 1, W: 3, H: 1}, ref.Box())
}

func TestHintsAddedCallback(t *testing.T) {
	doc := newDoc(t)
	events := event.NewManager()
	var count int
	events.Subscribe(event.TypeHintsAdded, func(e event.Event) bool {
		count = e.Data.(event.HintsAddedData).Count
		return false
	})
	m := New(doc, WithEventManager(events))
	calls := 0
	m.OnHintsAdded(func() { calls++ })
	require.NoError(t, m.AddHints())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, count)
	assert.Panics(t, func() { m.OnHintClose(nil) })
}
