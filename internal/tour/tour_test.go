package tour

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/event"
	"github.com/bethropolis/waypoint/internal/options"
	"github.com/bethropolis/waypoint/internal/render"
	"github.com/bethropolis/waypoint/internal/store"
)

// immediate runs scheduled calls synchronously.
func immediate(_ time.Duration, fn func()) func() bool {
	fn()
	return func() bool { return false }
}

const page = `<html><body>
<div id="a" data-intro="Alpha" data-step="2">A</div>
<div id="b" data-intro="Bravo" data-step="1" data-title="Start here">B</div>
<div id="c" data-intro="Charlie" data-step="5" data-intro-group="extra">C</div>
</body></html>`

func newDoc(t *testing.T, src string) *dom.Document {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader(src))
	require.NoError(t, err)
	doc.SetViewport(dom.Size{W: 80, H: 24})
	doc.DocumentElement().SetBox(dom.Rect{W: 80, H: 40})
	doc.Body().SetBox(dom.Rect{W: 80, H: 40})
	for i, id := range []string{"a", "b", "c"} {
		if e, _ := doc.QuerySelector("#" + id); e != nil {
			e.SetBox(dom.Rect{X: 4, Y: 2 + i*6, W: 30, H: 2})
		}
	}
	return doc
}

func byID(t *testing.T, doc *dom.Document, id string) *dom.Element {
	t.Helper()
	e, err := doc.QuerySelector("#" + id)
	require.NoError(t, err)
	require.NotNil(t, e)
	return e
}

func newTour(t *testing.T, doc *dom.Document, opts ...Option) *Tour {
	t.Helper()
	return New(doc, append([]Option{WithScheduler(immediate)}, opts...)...)
}

func current(t *testing.T, tr *Tour) int {
	t.Helper()
	i, ok := tr.CurrentStep()
	require.True(t, ok, "tour is idle")
	return i
}

func key(doc *dom.Document, k string) *dom.Event {
	ev := &dom.Event{Type: dom.KeyDown, Key: k}
	doc.Dispatch(ev)
	return ev
}

func TestStartShowsFirstOrderedStep(t *testing.T) {
	doc := newDoc(t, page)
	tr := newTour(t, doc)

	ok, err := tr.Start()
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 0, current(t, tr))
	require.Len(t, tr.Items(), 3)
	assert.Equal(t, byID(t, doc, "b"), tr.Items()[0].Element)
	assert.Equal(t, byID(t, doc, "a"), tr.Items()[1].Element)
	assert.Equal(t, render.Rendered, tr.Renderer().State())
	assert.Len(t, doc.ElementsByClass(render.ClassOverlay), 1)
	assert.True(t, byID(t, doc, "b").HasClass(render.ClassShowElement))
	assert.Equal(t, 2, doc.ListenerCount())
}

func TestStartGroupRestrictsSteps(t *testing.T) {
	doc := newDoc(t, page)
	tr := newTour(t, doc)

	ok, err := tr.StartGroup("extra")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, tr.Items(), 1)
	assert.Equal(t, byID(t, doc, "c"), tr.Items()[0].Element)
}

func TestStartWithoutStepsIsNoop(t *testing.T) {
	doc := newDoc(t, `<html><body><p>nothing</p></body></html>`)
	tr := newTour(t, doc)

	ok, err := tr.Start()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, tr.Running())
	assert.Empty(t, doc.ElementsByClass(render.ClassOverlay))
	assert.Zero(t, doc.ListenerCount())
}

func TestStartErrors(t *testing.T) {
	doc := newDoc(t, page)
	tr := newTour(t, doc)
	_, err := tr.Start()
	require.NoError(t, err)

	_, err = tr.Start()
	assert.ErrorIs(t, err, ErrAlreadyActive)

	inactive := newTour(t, newDoc(t, page))
	require.NoError(t, inactive.SetOption("isActive", false))
	ok, err := inactive.Start()
	require.NoError(t, err)
	assert.False(t, ok)

	bad := newTour(t, newDoc(t, page))
	require.NoError(t, bad.AddStep(options.StepConfig{Element: "div[", Intro: "x"}))
	_, err = bad.Start()
	assert.Error(t, err)
}

func TestNextPastLastCompletesAndExits(t *testing.T) {
	doc := newDoc(t, page)
	tr := newTour(t, doc)
	var completed []string
	var completedAt []int
	exits := 0
	tr.OnComplete(func(step int, reason string) {
		completedAt = append(completedAt, step)
		completed = append(completed, reason)
	})
	tr.OnExit(func() { exits++ })

	_, err := tr.Start()
	require.NoError(t, err)
	assert.True(t, tr.Next())
	assert.True(t, tr.Next())
	assert.Equal(t, 2, current(t, tr))

	assert.False(t, tr.Next())
	assert.Equal(t, []string{ReasonEnd}, completed)
	assert.Equal(t, []int{2}, completedAt)
	assert.Equal(t, 1, exits)
	assert.False(t, tr.Running())
	_, ok := tr.CurrentStep()
	assert.False(t, ok)

	assert.Empty(t, doc.ElementsByClass(render.ClassOverlay))
	assert.Empty(t, doc.ElementsByClass(render.ClassHelperLayer))
	assert.Empty(t, doc.ElementsByClass(render.ClassShowElement))
	assert.Zero(t, doc.ListenerCount())
	assert.Equal(t, render.NotRendered, tr.Renderer().State())
}

func TestPreviousOnFirstStepIsNoop(t *testing.T) {
	tr := newTour(t, newDoc(t, page))
	_, err := tr.Start()
	require.NoError(t, err)

	assert.False(t, tr.Previous())
	assert.Equal(t, 0, current(t, tr))
	assert.Equal(t, Backward, tr.Direction())

	tr.Next()
	assert.Equal(t, Forward, tr.Direction())
	assert.True(t, tr.Previous())
	assert.Equal(t, 0, current(t, tr))
}

func TestBeforeChangeVeto(t *testing.T) {
	doc := newDoc(t, page)
	tr := newTour(t, doc)
	var seen []*dom.Element
	allow := true
	tr.OnBeforeChange(func(target *dom.Element) bool {
		seen = append(seen, target)
		return allow
	})
	changes := 0
	tr.OnChange(func(*dom.Element) { changes++ })

	_, err := tr.Start()
	require.NoError(t, err)
	require.Equal(t, 1, changes)

	allow = false
	assert.False(t, tr.Next())
	assert.Equal(t, 0, current(t, tr))
	assert.Equal(t, 1, changes)
	assert.Equal(t, byID(t, doc, "a"), seen[len(seen)-1])

	// A vetoed finish keeps the tour open.
	allow = true
	tr.GoToStep(3)
	allow = false
	assert.False(t, tr.Next())
	assert.Nil(t, seen[len(seen)-1])
	assert.True(t, tr.Running())
}

func TestChangeCallbacksOrder(t *testing.T) {
	doc := newDoc(t, page)
	tr := newTour(t, doc)
	var log []string
	tr.OnBeforeChange(func(e *dom.Element) bool { log = append(log, "before:"+e.ID()); return true })
	tr.OnChange(func(e *dom.Element) { log = append(log, "change:"+e.ID()) })
	tr.OnAfterChange(func(e *dom.Element) { log = append(log, "after:"+e.ID()) })

	_, err := tr.Start()
	require.NoError(t, err)
	assert.Equal(t, []string{"before:b", "change:b", "after:b"}, log)
}

func TestGoToStepAndStepNumber(t *testing.T) {
	doc := newDoc(t, page)
	tr := newTour(t, doc)
	_, err := tr.Start()
	require.NoError(t, err)

	assert.True(t, tr.GoToStep(3))
	assert.Equal(t, 2, current(t, tr))
	assert.False(t, tr.GoToStep(0))

	assert.True(t, tr.GoToStepNumber(2))
	assert.Equal(t, 1, current(t, tr))
	assert.Equal(t, byID(t, doc, "a"), tr.Items()[1].Element)

	// Unknown ordinals fall back to a plain Next.
	assert.True(t, tr.GoToStepNumber(42))
	assert.Equal(t, 2, current(t, tr))
}

func TestExitVetoAndForce(t *testing.T) {
	tr := newTour(t, newDoc(t, page))
	asked := 0
	tr.OnBeforeExit(func() bool { asked++; return false })
	_, err := tr.Start()
	require.NoError(t, err)

	assert.False(t, tr.Exit(false))
	assert.True(t, tr.Running())
	assert.Equal(t, 1, asked)

	assert.True(t, tr.Exit(true))
	assert.Equal(t, 1, asked)
	assert.False(t, tr.Running())
	assert.False(t, tr.Exit(true))
}

func TestSkip(t *testing.T) {
	tr := newTour(t, newDoc(t, page))
	var skipped []int
	var reasons []string
	tr.OnSkip(func(step int) { skipped = append(skipped, step) })
	tr.OnComplete(func(_ int, reason string) { reasons = append(reasons, reason) })

	_, err := tr.Start()
	require.NoError(t, err)
	tr.Next()
	tr.Skip()
	assert.Equal(t, []int{1}, skipped)
	assert.Empty(t, reasons)
	assert.False(t, tr.Running())

	_, err = tr.Start()
	require.NoError(t, err)
	tr.GoToStep(3)
	tr.Skip()
	assert.Equal(t, []int{1}, skipped)
	assert.Equal(t, []string{ReasonDone}, reasons)
	assert.False(t, tr.Running())
}

func TestButtonsDriveTour(t *testing.T) {
	doc := newDoc(t, page)
	tr := newTour(t, doc)
	var reasons []string
	tr.OnComplete(func(_ int, reason string) { reasons = append(reasons, reason) })
	_, err := tr.Start()
	require.NoError(t, err)

	next := doc.ElementsByClass(render.ClassNextButton)
	require.Len(t, next, 1)
	next[0].Click()
	assert.Equal(t, 1, current(t, tr))

	doc.ElementsByClass(render.ClassPrevButton)[0].Click()
	assert.Equal(t, 0, current(t, tr))

	bullets := doc.ElementsByClass(render.ClassBullet)
	require.Len(t, bullets, 3)
	bullets[2].Click()
	assert.Equal(t, 2, current(t, tr))

	// The last next button reads Done.
	next = doc.ElementsByClass(render.ClassNextButton)
	require.True(t, next[0].HasClass(render.ClassDoneButton))
	next[0].Click()
	assert.Equal(t, []string{ReasonDone}, reasons)
	assert.False(t, tr.Running())
}

func TestOverlayClick(t *testing.T) {
	doc := newDoc(t, page)
	tr := newTour(t, doc)
	_, err := tr.Start()
	require.NoError(t, err)
	tr.Renderer().Overlay().Click()
	assert.False(t, tr.Running())

	require.NoError(t, tr.SetOption("exitOnOverlayClick", false))
	_, err = tr.Start()
	require.NoError(t, err)
	tr.Renderer().Overlay().Click()
	assert.True(t, tr.Running())
}

func TestKeyboardNavigation(t *testing.T) {
	doc := newDoc(t, page)
	tr := newTour(t, doc)
	_, err := tr.Start()
	require.NoError(t, err)

	ev := key(doc, dom.KeyArrowRight)
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, 1, current(t, tr))

	key(doc, dom.KeyArrowLeft)
	assert.Equal(t, 0, current(t, tr))

	// Enter activates the focused control, the next button by default.
	key(doc, dom.KeyEnter)
	assert.Equal(t, 1, current(t, tr))

	prev := doc.ElementsByClass(render.ClassPrevButton)[0]
	prev.Focus()
	key(doc, dom.KeyEnter)
	assert.Equal(t, 0, current(t, tr))

	other := key(doc, "x")
	assert.False(t, other.DefaultPrevented())

	key(doc, dom.KeyEscape)
	assert.False(t, tr.Running())
}

func TestKeyboardOptions(t *testing.T) {
	doc := newDoc(t, page)
	tr := newTour(t, doc)
	require.NoError(t, tr.SetOptions(map[string]any{"exitOnEsc": false}))
	_, err := tr.Start()
	require.NoError(t, err)
	esc := key(doc, dom.KeyEscape)
	assert.True(t, tr.Running())
	assert.False(t, esc.DefaultPrevented(), "unhandled escape is left to the host")
	tr.Exit(true)

	require.NoError(t, tr.SetOption("keyboardNavigation", false))
	_, err = tr.Start()
	require.NoError(t, err)
	assert.Equal(t, 1, doc.ListenerCount())
	key(doc, dom.KeyArrowRight)
	assert.Equal(t, 0, current(t, tr))
}

func TestResizeRealignsHelper(t *testing.T) {
	doc := newDoc(t, page)
	tr := newTour(t, doc)
	_, err := tr.Start()
	require.NoError(t, err)

	helper := doc.ElementsByClass(render.ClassHelperLayer)[0]
	before := helper.Box()
	byID(t, doc, "b").SetBox(dom.Rect{X: 10, Y: 3, W: 30, H: 2})
	doc.Resize(dom.Size{W: 80, H: 24})

	after := helper.Box()
	assert.NotEqual(t, before, after)
	assert.Equal(t, 8, after.X)
}

func TestDefaultSchedulerStaysOnCaller(t *testing.T) {
	doc := newDoc(t, page)
	tr := New(doc)
	require.NoError(t, tr.SetOption("transitionDelayMS", 1))

	ok, err := tr.Start()
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, tr.Next())

	// The delayed update has already run; nothing is left for a timer
	// goroutine to touch.
	assert.False(t, tr.Renderer().Pending())
	assert.Contains(t, tr.Renderer().Tooltip().Text(), "Alpha")
	assert.Equal(t, "0.5", tr.Renderer().Overlay().Style("opacity"))

	done := time.After(20 * time.Millisecond)
	for polling := true; polling; {
		select {
		case <-done:
			polling = false
		default:
			_ = tr.Renderer().Tooltip().Classes()
			_ = doc.Body().Children()
		}
	}
	assert.Contains(t, tr.Renderer().Tooltip().Text(), "Alpha")
}

func TestRefreshStepsDuringPendingUpdate(t *testing.T) {
	doc := newDoc(t, page)
	var queued []func()
	tr := New(doc, WithScheduler(func(_ time.Duration, fn func()) func() bool {
		queued = append(queued, fn)
		return func() bool { return false }
	}))
	_, err := tr.Start()
	require.NoError(t, err)
	for _, fn := range queued {
		fn()
	}
	queued = nil

	tr.GoToStep(3)
	require.True(t, tr.Renderer().Pending())
	byID(t, doc, "a").Remove()
	tr.Refresh(true)
	require.Len(t, tr.Items(), 2)

	for _, fn := range queued {
		fn()
	}
	assert.Len(t, doc.ElementsByClass(render.ClassBullet), 2, "content built from the rebuilt list")
	assert.Contains(t, tr.Renderer().Tooltip().Text(), "Charlie")
}

func TestRefreshStepsExitsWhenEmpty(t *testing.T) {
	doc := newDoc(t, page)
	tr := newTour(t, doc)
	_, err := tr.Start()
	require.NoError(t, err)
	tr.GoToStep(3)

	byID(t, doc, "c").Remove()
	tr.Refresh(true)
	require.Len(t, tr.Items(), 2)
	assert.Equal(t, 1, current(t, tr))

	byID(t, doc, "a").Remove()
	byID(t, doc, "b").Remove()
	tr.Refresh(true)
	assert.False(t, tr.Running())
}

func TestDontShowAgain(t *testing.T) {
	doc := newDoc(t, page)
	mem := store.NewMemory()
	events := event.NewManager()
	var changes []bool
	events.Subscribe(event.TypeDontShowAgainChanged, func(e event.Event) bool {
		changes = append(changes, e.Data.(event.DontShowAgainData).Enabled)
		return false
	})
	tr := newTour(t, doc, WithStore(mem), WithEventManager(events))
	require.NoError(t, tr.SetOption("dontShowAgain", true))

	_, err := tr.Start()
	require.NoError(t, err)
	checks, err := doc.QuerySelectorAll(".waypoint-dontShowAgain input")
	require.NoError(t, err)
	require.Len(t, checks, 1)
	checks[0].Click()
	assert.Equal(t, []bool{true}, changes)

	v, ok, err := mem.Get(context.Background(), "waypoint-dontShowAgain")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	tr.Exit(true)
	assert.False(t, tr.IsActive())
	ok, err = tr.Start()
	require.NoError(t, err)
	assert.False(t, ok)

	// Without the option the stored flag is ignored.
	require.NoError(t, tr.SetOption("dontShowAgain", false))
	assert.True(t, tr.IsActive())
}

func TestLifecycleEvents(t *testing.T) {
	doc := newDoc(t, page)
	events := event.NewManager()
	var got []event.Type
	var steps []event.StepChangedData
	record := func(e event.Event) bool {
		got = append(got, e.Type)
		if d, ok := e.Data.(event.StepChangedData); ok {
			steps = append(steps, d)
		}
		return false
	}
	for _, typ := range []event.Type{event.TypeTourStarted, event.TypeStepChanged, event.TypeTourCompleted, event.TypeTourExited} {
		events.Subscribe(typ, record)
	}
	tr := newTour(t, doc, WithEventManager(events), WithName("intro"))

	_, err := tr.Start()
	require.NoError(t, err)
	tr.GoToStep(3)
	tr.Next()

	assert.Equal(t, []event.Type{
		event.TypeStepChanged, event.TypeTourStarted, event.TypeStepChanged,
		event.TypeTourCompleted, event.TypeTourExited,
	}, got)
	require.Len(t, steps, 2)
	assert.Equal(t, "intro", steps[0].Tour)
	assert.Equal(t, "Start here", steps[0].Title)
	assert.Equal(t, 1, steps[0].Ordinal)
	assert.Equal(t, 2, steps[1].Step)
	assert.Equal(t, 3, steps[1].Total)
}

func TestAddSteps(t *testing.T) {
	doc := newDoc(t, page)
	tr := newTour(t, doc)
	require.NoError(t, tr.AddSteps([]options.StepConfig{
		{Element: "#c", Intro: "first"},
		{Intro: "floating"},
	}))
	assert.Error(t, tr.AddStep(options.StepConfig{Intro: "x", Position: "sideways"}))

	_, err := tr.Start()
	require.NoError(t, err)
	require.Len(t, tr.Items(), 2)
	assert.Equal(t, byID(t, doc, "c"), tr.Items()[0].Element)
	assert.True(t, tr.Items()[1].IsFloating())
}

func TestNilCallbackPanics(t *testing.T) {
	tr := newTour(t, newDoc(t, page))
	assert.Panics(t, func() { tr.OnComplete(nil) })
	assert.Panics(t, func() { tr.OnBeforeChange(nil) })
}
