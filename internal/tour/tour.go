// Package tour runs a step-by-step walkthrough over a document: it builds
// the steps, moves between them with cancellable callbacks and drives the
// renderer.
package tour

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/event"
	"github.com/bethropolis/waypoint/internal/logger"
	"github.com/bethropolis/waypoint/internal/options"
	"github.com/bethropolis/waypoint/internal/render"
	"github.com/bethropolis/waypoint/internal/steps"
	"github.com/bethropolis/waypoint/internal/store"
	"github.com/bethropolis/waypoint/internal/utils"
)

// ErrAlreadyActive is returned by Start while a run is in progress.
var ErrAlreadyActive = errors.New("tour: already active")

// Completion reasons passed to the complete callback.
const (
	ReasonEnd  = "end"
	ReasonDone = "done"
)

// Direction of the last transition.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Tour is one walkthrough instance. All methods must be called from the
// goroutine that owns the document.
type Tour struct {
	doc    *dom.Document
	name   string
	opts   options.Options
	events *event.Manager
	store  store.Store
	md     render.TextRenderer
	after  utils.AfterFunc

	renderer *render.Renderer

	items      []*steps.Step
	current    int
	direction  Direction
	stepNumber int

	keyListener    dom.ListenerID
	resizeListener dom.ListenerID
	listening      bool

	onBeforeChange func(*dom.Element) bool
	onChange       func(*dom.Element)
	onAfterChange  func(*dom.Element)
	onComplete     func(step int, reason string)
	onExit         func()
	onSkip         func(step int)
	onBeforeExit   func() bool
}

// Option configures a Tour at construction.
type Option func(*Tour)

// WithOptions replaces the default options.
func WithOptions(o options.Options) Option {
	return func(t *Tour) { t.opts = o }
}

// WithName names the tour in events and persisted keys.
func WithName(name string) Option {
	return func(t *Tour) { t.name = name }
}

// WithEventManager publishes lifecycle events on m.
func WithEventManager(m *event.Manager) Option {
	return func(t *Tour) { t.events = m }
}

// WithStore persists the don't-show-again flag in s.
func WithStore(s store.Store) Option {
	return func(t *Tour) { t.store = s }
}

// WithMarkdown renders step bodies with md.
func WithMarkdown(md render.TextRenderer) Option {
	return func(t *Tour) { t.md = md }
}

// WithScheduler sets how the transition delay is scheduled. Hosts with an
// event loop post the callback back onto it. Without a scheduler delayed
// work runs at once on the calling goroutine.
func WithScheduler(after utils.AfterFunc) Option {
	return func(t *Tour) { t.after = after }
}

// New creates an idle tour over doc.
func New(doc *dom.Document, opts ...Option) *Tour {
	t := &Tour{
		doc:     doc,
		name:    "default",
		opts:    options.Defaults(),
		current: -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.store == nil {
		t.store = store.NewMemory()
	}
	t.renderer = render.New(doc, &t.opts, t.md, render.Actions{
		Next:          func() { t.Next() },
		Previous:      func() { t.Previous() },
		Skip:          t.skip,
		Done:          t.done,
		GoTo:          func(n int) { t.GoToStep(n) },
		OverlayClick:  func() { t.Exit(false) },
		DontShowAgain: t.setDontShowAgain,
	}, t.after)
	return t
}

// Name returns the tour's name.
func (t *Tour) Name() string { return t.name }

// Options returns a copy of the current options.
func (t *Tour) Options() options.Options { return t.opts }

// SetOption merges one option, e.g. SetOption("exitOnEsc", false).
func (t *Tour) SetOption(key string, value any) error {
	return t.opts.Set(key, value)
}

// SetOptions merges several options.
func (t *Tour) SetOptions(partial map[string]any) error {
	return t.opts.Apply(partial)
}

// AddStep appends an explicit step.
func (t *Tour) AddStep(cfg options.StepConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("add step: %w", err)
	}
	t.opts.Steps = append(t.opts.Steps, cfg)
	return nil
}

// AddSteps appends several explicit steps; nothing is added on error.
func (t *Tour) AddSteps(cfgs []options.StepConfig) error {
	for i, cfg := range cfgs {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("add steps[%d]: %w", i, err)
		}
	}
	t.opts.Steps = append(t.opts.Steps, cfgs...)
	return nil
}

// IsActive reports whether the tour may start: it is enabled and the user
// has not opted out.
func (t *Tour) IsActive() bool {
	if t.opts.DontShowAgain && t.dontShowAgainSet() {
		return false
	}
	return t.opts.IsActive
}

// Running reports whether a run is in progress.
func (t *Tour) Running() bool { return t.items != nil }

// CurrentStep returns the 0-based current index, or false when idle.
func (t *Tour) CurrentStep() (int, bool) {
	if t.current < 0 {
		return 0, false
	}
	return t.current, true
}

// Direction returns the direction of the last transition.
func (t *Tour) Direction() Direction { return t.direction }

// Items returns the built steps of the current run.
func (t *Tour) Items() []*steps.Step { return t.items }

// Renderer exposes the renderer, mainly to hosts that paint the layers.
func (t *Tour) Renderer() *render.Renderer { return t.renderer }

// Start builds the steps and shows the first one. It returns false without
// an error when the tour is disabled, opted out or has no steps.
func (t *Tour) Start() (bool, error) {
	return t.start(t.opts.Group)
}

// StartGroup is Start restricted to annotated elements of one group.
func (t *Tour) StartGroup(group string) (bool, error) {
	return t.start(group)
}

func (t *Tour) start(group string) (bool, error) {
	if t.Running() {
		return false, ErrAlreadyActive
	}
	if !t.IsActive() {
		logger.Debugf("tour %s: not active, start ignored", t.name)
		return false, nil
	}
	o := t.opts
	o.Group = group
	items, err := steps.Build(t.doc, &o)
	if err != nil {
		return false, fmt.Errorf("tour %s: %w", t.name, err)
	}
	if len(items) == 0 {
		logger.Infof("tour %s: no steps found", t.name)
		return false, nil
	}

	t.items = items
	t.current = -1
	t.stepNumber = 0
	t.renderer.AddOverlay(t.doc.Body())
	t.Next()
	t.listen()
	t.publish(event.TypeTourStarted, t.tourData())
	return true, nil
}

func (t *Tour) listen() {
	if t.listening {
		return
	}
	if t.opts.KeyboardNavigation {
		t.keyListener = t.doc.AddEventListener(dom.KeyDown, t.onKeyDown)
	}
	t.resizeListener = t.doc.AddEventListener(dom.Resize, func(*dom.Event) { t.onResize() })
	t.listening = true
}

func (t *Tour) unlisten() {
	if !t.listening {
		return
	}
	if t.keyListener != 0 {
		t.doc.RemoveEventListener(t.keyListener)
		t.keyListener = 0
	}
	t.doc.RemoveEventListener(t.resizeListener)
	t.resizeListener = 0
	t.listening = false
}

// Next moves forward. Past the last step it completes and exits the tour.
// It returns whether a step was shown.
func (t *Tour) Next() bool {
	if t.items == nil {
		return false
	}
	t.direction = Forward
	from := t.current
	if n := t.stepNumber; n > 0 {
		t.stepNumber = 0
		for i, s := range t.items {
			if s.Ordinal == n {
				from = i - 1
				break
			}
		}
	}
	return t.forwardFrom(from)
}

// forwardFrom shows the step after index from, or completes the tour.
func (t *Tour) forwardFrom(from int) bool {
	next := max(from+1, 0)
	var target *dom.Element
	if next < len(t.items) {
		target = t.items[next].Element
	}
	if t.onBeforeChange != nil && !t.onBeforeChange(target) {
		logger.DebugTagf("tour", "%s: change to %d vetoed", t.name, next)
		return false
	}
	if next >= len(t.items) {
		last := t.current
		if t.onComplete != nil {
			t.onComplete(last, ReasonEnd)
		}
		t.publish(event.TypeTourCompleted, event.TourCompletedData{TourData: t.tourData(), Reason: ReasonEnd})
		t.Exit(true)
		return false
	}
	t.current = next
	t.showCurrent()
	return true
}

// Previous moves back one step. It is a no-op on the first step.
func (t *Tour) Previous() bool {
	if t.items == nil {
		return false
	}
	t.direction = Backward
	if t.current <= 0 {
		return false
	}
	prev := t.current - 1
	if t.onBeforeChange != nil && !t.onBeforeChange(t.items[prev].Element) {
		logger.DebugTagf("tour", "%s: change to %d vetoed", t.name, prev)
		return false
	}
	t.current = prev
	t.showCurrent()
	return true
}

// GoToStep shows the n-th step (1-based position in the built list).
func (t *Tour) GoToStep(n int) bool {
	if t.items == nil || n < 1 {
		return false
	}
	t.direction = Forward
	return t.forwardFrom(n - 2)
}

// GoToStepNumber shows the step whose declared ordinal is n.
func (t *Tour) GoToStepNumber(n int) bool {
	t.stepNumber = n
	return t.Next()
}

func (t *Tour) showCurrent() {
	step := t.items[t.current]
	if t.onChange != nil {
		t.onChange(step.Element)
	}
	t.renderer.Show(t.items, t.current)
	logger.DebugTagf("tour", "%s: showing step %d/%d (%s)", t.name, t.current+1, len(t.items), t.direction)
	t.publish(event.TypeStepChanged, event.StepChangedData{
		TourData:  t.tourData(),
		Ordinal:   step.Ordinal,
		Direction: t.direction.String(),
		Title:     step.Title,
	})
	if t.onAfterChange != nil {
		t.onAfterChange(step.Element)
	}
}

// Exit tears the tour down. Unless force is set, the before-exit callback
// may veto it. It returns whether the tour was torn down.
func (t *Tour) Exit(force bool) bool {
	if !t.Running() {
		return false
	}
	if !force && t.onBeforeExit != nil && !t.onBeforeExit() {
		logger.DebugTagf("tour", "%s: exit vetoed", t.name)
		return false
	}
	data := t.tourData()
	t.renderer.Remove()
	t.unlisten()
	t.items = nil
	t.current = -1
	t.stepNumber = 0
	if t.onExit != nil {
		t.onExit()
	}
	t.publish(event.TypeTourExited, data)
	return true
}

// Skip acts like the skip button: on the last step it finishes the tour,
// elsewhere it fires the skip callback and asks to exit.
func (t *Tour) Skip() {
	if t.items == nil {
		return
	}
	if t.current == len(t.items)-1 {
		t.done()
		return
	}
	t.skip()
}

func (t *Tour) skip() {
	if t.onSkip != nil {
		t.onSkip(t.current)
	}
	t.publish(event.TypeTourSkipped, t.tourData())
	t.Exit(false)
}

func (t *Tour) done() {
	if t.onComplete != nil {
		t.onComplete(t.current, ReasonDone)
	}
	t.publish(event.TypeTourCompleted, event.TourCompletedData{TourData: t.tourData(), Reason: ReasonDone})
	t.Exit(true)
}

// Refresh realigns the layers with the current layout. With refreshSteps
// the step list is rebuilt from the options and the document first.
func (t *Tour) Refresh(refreshSteps bool) {
	if t.items == nil || t.current < 0 {
		return
	}
	if refreshSteps {
		items, err := steps.Build(t.doc, &t.opts)
		if err != nil {
			logger.Warnf("tour %s: refresh: %v", t.name, err)
		} else if len(items) == 0 {
			t.Exit(true)
			return
		} else {
			t.items = items
			t.current = min(t.current, len(items)-1)
		}
	}
	t.renderer.Reposition(t.items, t.current, refreshSteps)
}

func (t *Tour) onResize() {
	t.Refresh(false)
}

func (t *Tour) onKeyDown(ev *dom.Event) {
	switch ev.Key {
	case dom.KeyEscape:
		if !t.opts.ExitOnEsc {
			return
		}
		t.Exit(false)
	case dom.KeyArrowLeft:
		t.Previous()
	case dom.KeyArrowRight:
		t.Next()
	case dom.KeyEnter:
		if focused := t.doc.ActiveElement(); t.renderer.IsControl(focused) {
			focused.Click()
		} else {
			t.Next()
		}
	default:
		return
	}
	ev.PreventDefault()
}

func (t *Tour) dontShowAgainSet() bool {
	v, ok, err := t.store.Get(context.Background(), t.opts.DontShowAgainKey)
	if err != nil {
		logger.Warnf("tour %s: read %s: %v", t.name, t.opts.DontShowAgainKey, err)
		return false
	}
	return ok && v == "true"
}

func (t *Tour) setDontShowAgain(enabled bool) {
	ctx := context.Background()
	var err error
	if enabled {
		ttl := time.Duration(t.opts.DontShowAgainExpiryDays) * 24 * time.Hour
		err = t.store.Set(ctx, t.opts.DontShowAgainKey, "true", ttl)
	} else {
		err = t.store.Delete(ctx, t.opts.DontShowAgainKey)
	}
	if err != nil {
		logger.Warnf("tour %s: write %s: %v", t.name, t.opts.DontShowAgainKey, err)
	}
	t.publish(event.TypeDontShowAgainChanged, event.DontShowAgainData{Tour: t.name, Enabled: enabled})
}

func (t *Tour) tourData() event.TourData {
	return event.TourData{Tour: t.name, Step: t.current, Total: len(t.items)}
}

func (t *Tour) publish(typ event.Type, data any) {
	if t.events != nil {
		t.events.Dispatch(typ, data)
	}
}
