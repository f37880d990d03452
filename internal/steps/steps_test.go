package steps

import (
	"strings"
	"testing"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/options"
	"github.com/bethropolis/waypoint/internal/placement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *dom.Document {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader(src))
	require.NoError(t, err)
	doc.SetViewport(dom.Size{W: 80, H: 24})
	return doc
}

func intros(items []*Step) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = s.Intro
	}
	return out
}

func TestAnnotationOrdering(t *testing.T) {
	doc := parse(t, `<body>
		<div data-intro="third" data-step="3"></div>
		<div data-intro="free-a"></div>
		<div data-intro="first" data-step="1"></div>
		<div data-intro="free-b"></div>
	</body>`)
	opts := options.Defaults()

	items, err := Build(doc, &opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "free-a", "third", "free-b"}, intros(items))
	for i, s := range items {
		assert.Equal(t, i+1, s.Ordinal)
	}
}

func TestAnnotationAttributes(t *testing.T) {
	doc := parse(t, `<body>
		<div id="x" data-intro="hello" data-title="Hi" data-position="left"
		     data-tooltip-class="tc" data-highlight-class="hc" data-scroll-to="tooltip"
		     data-disable-interaction="true"></div>
	</body>`)
	opts := options.Defaults()

	items, err := Build(doc, &opts)
	require.NoError(t, err)
	require.Len(t, items, 1)
	s := items[0]
	assert.Equal(t, "x", s.Element.ID())
	assert.Equal(t, "Hi", s.Title)
	assert.Equal(t, placement.Left, s.Position)
	assert.Equal(t, "tc", s.TooltipClass)
	assert.Equal(t, "hc", s.HighlightClass)
	assert.Equal(t, options.ScrollToTooltip, s.ScrollTo)
	assert.True(t, s.DisableInteraction)
	assert.False(t, s.IsFloating())
}

func TestAnnotationDefaultsAndErrors(t *testing.T) {
	doc := parse(t, `<body><p data-intro="a"></p></body>`)
	opts := options.Defaults()
	opts.TooltipPosition = "top"
	opts.DisableInteraction = true

	items, err := Build(doc, &opts)
	require.NoError(t, err)
	assert.Equal(t, placement.Top, items[0].Position)
	assert.Equal(t, options.ScrollToElement, items[0].ScrollTo)
	assert.True(t, items[0].DisableInteraction)

	bad := parse(t, `<body><p data-intro="a" data-position="sideways"></p></body>`)
	_, err = Build(bad, &opts)
	assert.Error(t, err)
}

func TestGroupAndHiddenFiltering(t *testing.T) {
	doc := parse(t, `<body>
		<div data-intro="a" data-intro-group="g1"></div>
		<div data-intro="b" data-intro-group="g2"></div>
		<div data-intro="c" data-intro-group="g1" style="display: none"></div>
		<div data-intro="d"></div>
	</body>`)
	opts := options.Defaults()

	items, err := Build(doc, &opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d"}, intros(items))

	opts.Group = "g1"
	items, err = Build(doc, &opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, intros(items))
}

func TestDuplicateOrdinalLaterWins(t *testing.T) {
	doc := parse(t, `<body>
		<div data-intro="old" data-step="1"></div>
		<div data-intro="new" data-step="1"></div>
	</body>`)
	opts := options.Defaults()
	items, err := Build(doc, &opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, intros(items))
}

func TestSparseOrdinalsAreCompacted(t *testing.T) {
	doc := parse(t, `<body>
		<div data-intro="ten" data-step="10"></div>
		<div data-intro="two" data-step="2"></div>
	</body>`)
	opts := options.Defaults()
	items, err := Build(doc, &opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "ten"}, intros(items))
	assert.Equal(t, []int{2, 10}, []int{items[0].Ordinal, items[1].Ordinal})
}

func TestExplicitSteps(t *testing.T) {
	doc := parse(t, `<body><button id="save">Save</button></body>`)
	opts := options.Defaults()
	opts.Steps = []options.StepConfig{
		{Intro: "welcome"},
		{Intro: "missing", Element: "#nope"},
		{Intro: "save", Element: "#save", DisableInteraction: options.BoolPtr(true), ScrollTo: options.ScrollToOff},
	}

	items, err := Build(doc, &opts)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.True(t, items[0].IsFloating())
	assert.Equal(t, placement.Floating, items[0].Position)
	assert.Equal(t, 1, items[0].Ordinal)

	assert.Equal(t, "save", items[1].Element.ID())
	assert.Equal(t, 2, items[1].Ordinal)
	assert.Equal(t, placement.Bottom, items[1].Position)
	assert.True(t, items[1].DisableInteraction)
	assert.Equal(t, options.ScrollToOff, items[1].ScrollTo)
}

func TestExplicitStepsBadSelector(t *testing.T) {
	doc := parse(t, `<body></body>`)
	opts := options.Defaults()
	opts.Steps = []options.StepConfig{{Intro: "x", Element: "div["}}
	_, err := Build(doc, &opts)
	assert.Error(t, err)
}

func TestExplicitTargetWins(t *testing.T) {
	doc := parse(t, `<body><i id="a"></i><i id="b"></i></body>`)
	b, _ := doc.QuerySelector("#b")
	opts := options.Defaults()
	opts.Steps = []options.StepConfig{{Intro: "x", Element: "#a", Target: b}}
	items, err := Build(doc, &opts)
	require.NoError(t, err)
	assert.Same(t, b, items[0].Element)
}

func TestFloatingElementIsShared(t *testing.T) {
	doc := parse(t, `<body></body>`)
	a := FloatingElement(doc)
	b := FloatingElement(doc)
	assert.Same(t, a, b)
	assert.True(t, dom.IsFixed(a))
	assert.Equal(t, dom.Rect{X: 40, Y: 12}, a.Box())

	doc.SetViewport(dom.Size{W: 100, H: 30})
	CenterFloating(doc)
	assert.Equal(t, dom.Rect{X: 50, Y: 15}, a.Box())

	RemoveFloating(doc)
	assert.False(t, a.IsConnected())
}

func TestEmptyResult(t *testing.T) {
	doc := parse(t, `<body><p>nothing annotated</p></body>`)
	opts := options.Defaults()
	items, err := Build(doc, &opts)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBuildHintsFromAnnotations(t *testing.T) {
	doc := parse(t, `<body>
		<span id="a" data-hint="first" data-hint-position="bottom-right" data-hint-animation="false"></span>
		<span id="b" data-hint="second" data-tooltip-class="x" data-position="left"></span>
	</body>`)
	opts := options.Defaults()
	hints, err := BuildHints(doc, &opts)
	require.NoError(t, err)
	require.Len(t, hints, 2)

	assert.Equal(t, 0, hints[0].ID)
	assert.Equal(t, "bottom-right", hints[0].Anchor)
	assert.False(t, hints[0].Animation)

	assert.Equal(t, 1, hints[1].ID)
	assert.Equal(t, "top-middle", hints[1].Anchor)
	assert.True(t, hints[1].Animation)
	assert.Equal(t, "x", hints[1].TooltipClass)
	assert.Equal(t, "left", hints[1].Position)

	bad := parse(t, `<body><span data-hint="x" data-hint-position="centre"></span></body>`)
	_, err = BuildHints(bad, &opts)
	assert.Error(t, err)
}

func TestBuildHintsFromConfig(t *testing.T) {
	doc := parse(t, `<body><span id="a"></span></body>`)
	opts := options.Defaults()
	opts.Hints = []options.HintConfig{
		{Hint: "gone", Element: "#missing"},
		{Hint: "here", Element: "#a", HintAnimation: options.BoolPtr(false)},
	}
	hints, err := BuildHints(doc, &opts)
	require.NoError(t, err)
	require.Len(t, hints, 1)
	assert.Equal(t, 0, hints[0].ID)
	assert.Equal(t, "here", hints[0].Text)
	assert.False(t, hints[0].Animation)
}
