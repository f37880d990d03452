package render

import (
	"strconv"
	"time"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/logger"
	"github.com/bethropolis/waypoint/internal/options"
	"github.com/bethropolis/waypoint/internal/steps"
	"github.com/bethropolis/waypoint/internal/utils"
)

// State records whether a tour's layers are in the document.
type State int

const (
	NotRendered State = iota
	Rendered
)

func (s State) String() string {
	if s == Rendered {
		return "rendered"
	}
	return "not-rendered"
}

// TextRenderer turns a step body into lines of at most width cells.
type TextRenderer interface {
	Render(src string, width int) []string
}

// Actions are invoked by the rendered controls.
type Actions struct {
	Next          func()
	Previous      func()
	Skip          func()
	Done          func()
	GoTo          func(step int)
	OverlayClick  func()
	DontShowAgain func(checked bool)
}

// Renderer owns one tour's layers. It is not safe for concurrent use; the
// delayed part of a step change runs through the injected scheduler.
type Renderer struct {
	doc     *dom.Document
	opts    *options.Options
	md      TextRenderer
	actions Actions
	after   utils.AfterFunc
	delay   *utils.Debouncer
	state   State

	// Step applied by the pending delayed update.
	pendingItems []*steps.Step
	pendingIndex int
	stopFade     func() bool

	overlay   *dom.Element
	helper    *dom.Element
	reference *dom.Element
	disable   *dom.Element
	tip       *tooltip
}

// New creates a renderer for doc. opts is read on every call, so later
// option changes apply to the next render. Delayed work goes through after;
// a nil after runs it immediately, so the document is only ever touched by
// the caller's goroutine.
func New(doc *dom.Document, opts *options.Options, md TextRenderer, actions Actions, after utils.AfterFunc) *Renderer {
	Install(doc)
	if after == nil {
		after = utils.ImmediateAfterFunc
	}
	return &Renderer{
		doc:     doc,
		opts:    opts,
		md:      md,
		actions: actions,
		after:   after,
		delay:   utils.NewDebouncer(after),
	}
}

// State reports whether the layers exist.
func (r *Renderer) State() State { return r.state }

// Pending reports whether a delayed step update is scheduled.
func (r *Renderer) Pending() bool { return r.delay.Pending() }

// Overlay returns the overlay layer, or nil.
func (r *Renderer) Overlay() *dom.Element { return r.overlay }

// Tooltip returns the tooltip element, or nil before the first render.
func (r *Renderer) Tooltip() *dom.Element {
	if r.tip == nil {
		return nil
	}
	return r.tip.root
}

// overlayFadeDelay is how long the overlay stays transparent before it
// takes its configured opacity.
const overlayFadeDelay = 10 * time.Millisecond

// AddOverlay covers target with the translucent backdrop. A body target
// gets a fixed overlay spanning the viewport. The overlay starts
// transparent and fades in after overlayFadeDelay.
func (r *Renderer) AddOverlay(target *dom.Element) {
	r.cancelFade()
	if r.overlay != nil {
		r.overlay.Remove()
	}
	ov := r.doc.CreateElement("div")
	ov.AddClass(ClassOverlay)
	if target == nil || target.Tag() == "body" {
		ov.SetStyle("position", "fixed")
		win := dom.WindowSize(r.doc)
		ov.SetBox(dom.Rect{W: win.W, H: win.H})
	} else {
		ov.SetBox(dom.Offset(target))
	}
	ov.SetStyle("opacity", "0")
	if r.opts.ExitOnOverlayClick && r.actions.OverlayClick != nil {
		ov.SetOnClick(func(*dom.Event) { r.actions.OverlayClick() })
	}
	r.doc.Body().AppendChild(ov)
	r.overlay = ov

	opacity := strconv.FormatFloat(r.opts.OverlayOpacity, 'f', -1, 64)
	r.stopFade = r.after(overlayFadeDelay, func() {
		r.stopFade = nil
		if r.overlay == ov {
			ov.SetStyle("opacity", opacity)
		}
	})
}

func (r *Renderer) cancelFade() {
	if r.stopFade != nil {
		r.stopFade()
		r.stopFade = nil
	}
}

func (r *Renderer) padding(step *steps.Step) (cols, rows int) {
	if step.IsFloating() {
		return 0, 0
	}
	return r.opts.HelperElementPadding, r.opts.HelperElementPadding / 2
}

func (r *Renderer) positionLayers(step *steps.Step) {
	cols, rows := r.padding(step)
	PositionLayer(r.helper, step.Element, cols, rows)
	PositionLayer(r.reference, step.Element, cols, rows)
	if r.disable != nil {
		PositionLayer(r.disable, step.Element, cols, rows)
	}
}

func (r *Renderer) placeTooltip(step *steps.Step) {
	res := PlaceTooltip(r.tip.root, r.tip.arrow, r.reference, Placement{
		Desired:      step.Position,
		Precedence:   r.opts.Precedence(),
		AutoPosition: r.opts.AutoPosition,
		Width:        r.opts.TooltipWidth,
	})
	logger.DebugTagf("render", "step %d placed %s", step.Ordinal, res.Position)
}

// Show renders items[index]: it builds the layers on the first call of a
// run and updates them afterwards. On updates the content and placement
// are applied after the transition delay.
func (r *Renderer) Show(items []*steps.Step, index int) {
	step := items[index]
	r.scrollParentToElement(step)

	if r.state == NotRendered {
		r.create(items, index)
	} else {
		r.update(items, index)
	}

	r.setDisableInteraction(step)
	r.setButtons(items, index)
	SetShowElement(step.Element)
}

func (r *Renderer) create(items []*steps.Step, index int) {
	step := items[index]
	r.helper = r.doc.CreateElement("div")
	r.reference = r.doc.CreateElement("div")
	r.reference.AddClass(ClassReferenceLayer)
	r.setHelperClass(step)
	r.positionLayers(step)

	body := r.doc.Body()
	body.AppendChild(r.helper)
	body.AppendChild(r.reference)

	r.tip = r.buildTooltip()
	r.reference.AppendChild(r.tip.root)
	r.setContent(items, index)
	r.placeTooltip(step)
	r.focusDefault()
	r.scrollTo(step)
	r.state = Rendered
}

func (r *Renderer) update(items []*steps.Step, index int) {
	step := items[index]
	hide(r.tip.root)
	r.setHelperClass(step)
	r.positionLayers(step)
	ClearShowElement(r.doc)

	r.pendingItems, r.pendingIndex = items, index
	r.delay.Debounce(time.Duration(r.opts.TransitionDelayMS)*time.Millisecond, r.applyPending)
}

// applyPending finishes a step change once the transition delay is over.
// It reads the pending step at fire time, so a refresh that rebuilt the
// list in between is honoured.
func (r *Renderer) applyPending() {
	items, index := r.pendingItems, r.pendingIndex
	r.pendingItems = nil
	if r.state != Rendered || index < 0 || index >= len(items) {
		return
	}
	step := items[index]
	r.setContent(items, index)
	show(r.tip.root)
	r.placeTooltip(step)
	r.focusDefault()
	r.scrollTo(step)
}

func (r *Renderer) setHelperClass(step *steps.Step) {
	r.helper.SetClassName(ClassHelperLayer)
	switch {
	case step.HighlightClass != "":
		r.helper.AddClass(step.HighlightClass)
	case r.opts.HighlightClass != "":
		r.helper.AddClass(r.opts.HighlightClass)
	}
}

func (r *Renderer) setDisableInteraction(step *steps.Step) {
	if !step.DisableInteraction {
		if r.disable != nil {
			r.disable.Remove()
			r.disable = nil
		}
		return
	}
	if r.disable == nil {
		r.disable = r.doc.CreateElement("div")
		r.disable.AddClass(ClassDisableInteraction)
		r.disable.SetOnClick(func(ev *dom.Event) { ev.StopPropagation() })
		r.doc.Body().AppendChild(r.disable)
	}
	cols, rows := r.padding(step)
	PositionLayer(r.disable, step.Element, cols, rows)
}

// Reposition realigns the layers with the current layout, for resizes and
// refreshes. rebuild also refreshes the tooltip content.
func (r *Renderer) Reposition(items []*steps.Step, index int, rebuild bool) {
	if r.state != Rendered || index < 0 || index >= len(items) {
		return
	}
	steps.CenterFloating(r.doc)
	if r.overlay != nil && r.overlay.Style("position") == "fixed" {
		win := dom.WindowSize(r.doc)
		r.overlay.SetBox(dom.Rect{W: win.W, H: win.H})
	}
	step := items[index]
	r.positionLayers(step)
	if isHidden(r.tip.root) {
		// A delayed update is pending and will place the tooltip.
		if rebuild && r.pendingItems != nil {
			r.pendingItems, r.pendingIndex = items, index
		}
		return
	}
	if rebuild {
		r.setContent(items, index)
	}
	r.placeTooltip(step)
}

// IsControl reports whether e is one of the tooltip's clickable controls.
func (r *Renderer) IsControl(e *dom.Element) bool {
	if r.tip == nil || e == nil {
		return false
	}
	switch e {
	case r.tip.prev, r.tip.next, r.tip.skip, r.tip.checkbox:
		return true
	}
	return e.HasClass(ClassBullet) && e.IsDescendantOf(r.tip.bullets)
}

// Remove tears down every layer and marker class and cancels a pending
// delayed update.
func (r *Renderer) Remove() {
	r.delay.Cancel()
	r.cancelFade()
	r.pendingItems = nil
	for _, e := range []*dom.Element{r.overlay, r.helper, r.reference, r.disable} {
		if e != nil {
			e.Remove()
		}
	}
	r.overlay, r.helper, r.reference, r.disable, r.tip = nil, nil, nil, nil, nil
	steps.RemoveFloating(r.doc)
	ClearShowElement(r.doc)
	r.state = NotRendered
}

func (r *Renderer) scrollParentToElement(step *steps.Step) {
	if !r.opts.ScrollToElement {
		return
	}
	parent := dom.ScrollParent(step.Element)
	if parent == r.doc.Body() {
		return
	}
	parent.SetScrollTop(step.Element.Box().Y - parent.Box().Y)
}

// scrollTo brings the target (or the tooltip) into view, centring it
// vertically and offsetting by ScrollPadding.
func (r *Renderer) scrollTo(step *steps.Step) {
	if step.ScrollTo == options.ScrollToOff || !r.opts.ScrollToElement {
		return
	}
	if dom.IsElementInViewport(step.Element) {
		return
	}
	rect := dom.BoundingClientRect(step.Element)
	if step.ScrollTo == options.ScrollToTooltip {
		rect = dom.BoundingClientRect(r.tip.root)
	}
	winH := dom.WindowSize(r.doc).H
	delta := rect.Y - (winH/2 - rect.H/2)
	if rect.Y < 0 || step.Element.Box().H > winH {
		delta -= r.opts.ScrollPadding
	} else {
		delta += r.opts.ScrollPadding
	}
	r.doc.ScrollBy(0, delta)
}
