package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/bethropolis/waypoint/internal/dom"
)

func TestProcessEvent(t *testing.T) {
	p := NewInputProcessor()

	ev := p.ProcessEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	assert.Equal(t, ActionUnknown, ev.Action)
	assert.Equal(t, dom.KeyArrowRight, ev.Key)

	ev = p.ProcessEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	assert.Equal(t, ActionActivate, ev.Action)
	assert.Equal(t, dom.KeyEnter, ev.Key)

	ev = p.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone))
	assert.Equal(t, ActionStartTour, ev.Action)
	assert.Equal(t, "s", ev.Key)

	ev = p.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModAlt))
	assert.Equal(t, ActionUnknown, ev.Action)

	ev = p.ProcessEvent(tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone))
	assert.Equal(t, ActionFocusPrev, ev.Action)
	assert.True(t, ev.Shift)
	assert.Equal(t, dom.KeyTab, ev.Key)

	ev = p.ProcessEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	assert.Equal(t, ActionUnknown, ev.Action)
	assert.Equal(t, dom.KeyEscape, ev.Key)

	ev = p.ProcessEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))
	assert.Equal(t, ActionQuit, ev.Action)
	assert.Empty(t, ev.Key)
}

func TestBind(t *testing.T) {
	p := NewInputProcessor()
	p.Bind('x', ActionCopyStep)
	p.Bind('q', ActionUnknown)

	assert.Equal(t, ActionCopyStep, p.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)).Action)
	assert.Equal(t, ActionUnknown, p.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)).Action)
	assert.Equal(t, "copy-step", ActionCopyStep.String())
}

func TestParseAction(t *testing.T) {
	a, ok := ParseAction("toggle-hints")
	assert.True(t, ok)
	assert.Equal(t, ActionToggleHints, a)
	_, ok = ParseAction("fly")
	assert.False(t, ok)
}
