package options

import (
	"testing"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/placement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	o := Defaults()
	require.NoError(t, o.Validate())
	assert.Equal(t, []placement.Position{placement.Bottom, placement.Top, placement.Right, placement.Left}, o.Precedence())
}

func TestApplyMergesOverCurrent(t *testing.T) {
	o := Defaults()
	require.NoError(t, o.Apply(map[string]any{
		"nextLabel":      "Forward",
		"show_progress":  "true",
		"scroll-padding": 5,
	}))
	assert.Equal(t, "Forward", o.NextLabel)
	assert.True(t, o.ShowProgress, "weakly typed input")
	assert.Equal(t, 5, o.ScrollPadding)
	assert.True(t, o.ExitOnEsc, "untouched keys keep their value")

	require.NoError(t, o.Set("exitOnEsc", false))
	assert.False(t, o.ExitOnEsc)
	assert.Equal(t, "Forward", o.NextLabel)
}

func TestApplyReplacesLists(t *testing.T) {
	o := Defaults()
	require.NoError(t, o.Set("positionPrecedence", []any{"left"}))
	assert.Equal(t, []string{"left"}, o.PositionPrecedence)

	require.NoError(t, o.Set("steps", []any{
		map[string]any{"intro": "A"},
		map[string]any{"intro": "B", "element": "#b", "disableInteraction": true},
	}))
	require.NoError(t, o.Set("steps", []any{map[string]any{"intro": "C"}}))
	require.Len(t, o.Steps, 1)
	assert.Equal(t, "C", o.Steps[0].Intro)
	assert.Nil(t, o.Steps[0].DisableInteraction)
}

func TestApplyRejectsBadInputAtomically(t *testing.T) {
	o := Defaults()
	assert.Error(t, o.Set("no_such_option", 1))
	assert.Error(t, o.Apply(map[string]any{"next_label": "x", "tooltip_position": "sideways"}))
	assert.Equal(t, "", o.NextLabel, "failed apply leaves options unchanged")
	assert.Error(t, o.Set("scroll_to", "nowhere"))
	assert.Error(t, o.Set("position_precedence", []string{"auto"}))
	assert.Error(t, o.Set("overlay_opacity", 2))
	assert.Error(t, o.Set("hint_position", "center"))
}

func TestApplyKeepsTargets(t *testing.T) {
	doc := dom.NewDocument()
	el := doc.CreateElement("div")
	o := Defaults()
	require.NoError(t, o.Set("steps", []map[string]any{{"intro": "x", "target": el}}))
	assert.Same(t, el, o.Steps[0].Target)
}

func TestDecodeStep(t *testing.T) {
	s, err := DecodeStep(map[string]any{"title": "T", "scrollTo": "tooltip", "position": "left"})
	require.NoError(t, err)
	assert.Equal(t, ScrollToTooltip, s.ScrollTo)
	assert.Equal(t, "left", s.Position)

	_, err = DecodeStep(map[string]any{"position": "under"})
	assert.Error(t, err)
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "dont_show_again_label", snakeCase("dontShowAgainLabel"))
	assert.Equal(t, "next_label", snakeCase("next-label"))
	assert.Equal(t, "group", snakeCase("group"))
	assert.Equal(t, "transition_delay_ms", snakeCase("transitionDelayMS"))
	assert.Equal(t, "html_label", snakeCase("HTMLLabel"))
	assert.Equal(t, "overlay_opacity", snakeCase("overlay_opacity"))
}

func TestSetOptionWithAcronymKey(t *testing.T) {
	o := Defaults()
	require.NoError(t, o.Set("transitionDelayMS", 10))
	assert.Equal(t, 10, o.TransitionDelayMS)
}
