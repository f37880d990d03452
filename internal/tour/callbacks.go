package tour

import "github.com/bethropolis/waypoint/internal/dom"

// The On* methods register the single handler for a lifecycle event,
// replacing any earlier one. A nil handler is a programming error.

// OnBeforeChange runs before every transition with the next target (nil
// past the last step). Returning false cancels the transition.
func (t *Tour) OnBeforeChange(fn func(target *dom.Element) bool) {
	mustFunc(fn == nil, "OnBeforeChange")
	t.onBeforeChange = fn
}

// OnChange runs when a step is about to be rendered.
func (t *Tour) OnChange(fn func(target *dom.Element)) {
	mustFunc(fn == nil, "OnChange")
	t.onChange = fn
}

// OnAfterChange runs once a step has been rendered.
func (t *Tour) OnAfterChange(fn func(target *dom.Element)) {
	mustFunc(fn == nil, "OnAfterChange")
	t.onAfterChange = fn
}

// OnComplete runs when the tour finishes, with the last shown index and the
// reason (ReasonEnd or ReasonDone).
func (t *Tour) OnComplete(fn func(step int, reason string)) {
	mustFunc(fn == nil, "OnComplete")
	t.onComplete = fn
}

// OnExit runs after the tour was torn down.
func (t *Tour) OnExit(fn func()) {
	mustFunc(fn == nil, "OnExit")
	t.onExit = fn
}

// OnSkip runs when the skip button is used before the last step.
func (t *Tour) OnSkip(fn func(step int)) {
	mustFunc(fn == nil, "OnSkip")
	t.onSkip = fn
}

// OnBeforeExit runs before a non-forced exit; returning false keeps the
// tour open.
func (t *Tour) OnBeforeExit(fn func() bool) {
	mustFunc(fn == nil, "OnBeforeExit")
	t.onBeforeExit = fn
}

func mustFunc(isNil bool, name string) {
	if isNil {
		panic("tour: " + name + " needs a non-nil callback")
	}
}
