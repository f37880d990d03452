// Package options holds tour and hint configuration and merges partial
// updates into it.
package options

import (
	"fmt"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/placement"
)

// ScrollTo chooses what is scrolled into view on each step.
type ScrollTo string

const (
	ScrollToElement ScrollTo = "element"
	ScrollToTooltip ScrollTo = "tooltip"
	ScrollToOff     ScrollTo = "off"
)

// Valid reports whether s is a known value. Empty means "inherit".
func (s ScrollTo) Valid() bool {
	switch s {
	case "", ScrollToElement, ScrollToTooltip, ScrollToOff:
		return true
	}
	return false
}

// StepConfig describes one explicit step.
type StepConfig struct {
	Title string `toml:"title" yaml:"title" mapstructure:"title"`
	Intro string `toml:"intro" yaml:"intro" mapstructure:"intro"`
	// Element is a CSS selector; empty means a floating step.
	Element string `toml:"element" yaml:"element" mapstructure:"element"`
	// Target takes precedence over Element when set from Go code.
	Target             *dom.Element `toml:"-" yaml:"-" mapstructure:"-"`
	Position           string       `toml:"position" yaml:"position" mapstructure:"position"`
	TooltipClass       string       `toml:"tooltip_class" yaml:"tooltip_class" mapstructure:"tooltip_class"`
	HighlightClass     string       `toml:"highlight_class" yaml:"highlight_class" mapstructure:"highlight_class"`
	ScrollTo           ScrollTo     `toml:"scroll_to" yaml:"scroll_to" mapstructure:"scroll_to"`
	DisableInteraction *bool        `toml:"disable_interaction" yaml:"disable_interaction" mapstructure:"disable_interaction"`
}

// HintConfig describes one explicit hint.
type HintConfig struct {
	Hint          string       `toml:"hint" yaml:"hint" mapstructure:"hint"`
	Element       string       `toml:"element" yaml:"element" mapstructure:"element"`
	Target        *dom.Element `toml:"-" yaml:"-" mapstructure:"-"`
	HintPosition  string       `toml:"hint_position" yaml:"hint_position" mapstructure:"hint_position"`
	HintAnimation *bool        `toml:"hint_animation" yaml:"hint_animation" mapstructure:"hint_animation"`
	TooltipClass  string       `toml:"tooltip_class" yaml:"tooltip_class" mapstructure:"tooltip_class"`
	Position      string       `toml:"position" yaml:"position" mapstructure:"position"`
}

// Options configures one tour instance (and its hints).
type Options struct {
	Steps []StepConfig `toml:"steps" yaml:"steps" mapstructure:"steps"`
	Hints []HintConfig `toml:"hints" yaml:"hints" mapstructure:"hints"`

	IsActive bool   `toml:"is_active" yaml:"is_active" mapstructure:"is_active"`
	Language string `toml:"language" yaml:"language" mapstructure:"language"`

	// Button labels. Empty labels come from the language table.
	NextLabel string `toml:"next_label" yaml:"next_label" mapstructure:"next_label"`
	PrevLabel string `toml:"prev_label" yaml:"prev_label" mapstructure:"prev_label"`
	SkipLabel string `toml:"skip_label" yaml:"skip_label" mapstructure:"skip_label"`
	DoneLabel string `toml:"done_label" yaml:"done_label" mapstructure:"done_label"`

	HidePrev   bool `toml:"hide_prev" yaml:"hide_prev" mapstructure:"hide_prev"`
	HideNext   bool `toml:"hide_next" yaml:"hide_next" mapstructure:"hide_next"`
	NextToDone bool `toml:"next_to_done" yaml:"next_to_done" mapstructure:"next_to_done"`

	TooltipPosition string `toml:"tooltip_position" yaml:"tooltip_position" mapstructure:"tooltip_position"`
	TooltipClass    string `toml:"tooltip_class" yaml:"tooltip_class" mapstructure:"tooltip_class"`
	HighlightClass  string `toml:"highlight_class" yaml:"highlight_class" mapstructure:"highlight_class"`
	ButtonClass     string `toml:"button_class" yaml:"button_class" mapstructure:"button_class"`
	ProgressClass   string `toml:"progress_class" yaml:"progress_class" mapstructure:"progress_class"`
	Group           string `toml:"group" yaml:"group" mapstructure:"group"`

	ExitOnEsc          bool `toml:"exit_on_esc" yaml:"exit_on_esc" mapstructure:"exit_on_esc"`
	ExitOnOverlayClick bool `toml:"exit_on_overlay_click" yaml:"exit_on_overlay_click" mapstructure:"exit_on_overlay_click"`
	KeyboardNavigation bool `toml:"keyboard_navigation" yaml:"keyboard_navigation" mapstructure:"keyboard_navigation"`

	ShowStepNumbers    bool   `toml:"show_step_numbers" yaml:"show_step_numbers" mapstructure:"show_step_numbers"`
	StepNumbersOfLabel string `toml:"step_numbers_of_label" yaml:"step_numbers_of_label" mapstructure:"step_numbers_of_label"`
	ShowButtons        bool   `toml:"show_buttons" yaml:"show_buttons" mapstructure:"show_buttons"`
	ShowBullets        bool   `toml:"show_bullets" yaml:"show_bullets" mapstructure:"show_bullets"`
	ShowProgress       bool   `toml:"show_progress" yaml:"show_progress" mapstructure:"show_progress"`
	Markdown           bool   `toml:"markdown" yaml:"markdown" mapstructure:"markdown"`

	ScrollToElement bool     `toml:"scroll_to_element" yaml:"scroll_to_element" mapstructure:"scroll_to_element"`
	ScrollTo        ScrollTo `toml:"scroll_to" yaml:"scroll_to" mapstructure:"scroll_to"`
	ScrollPadding   int      `toml:"scroll_padding" yaml:"scroll_padding" mapstructure:"scroll_padding"`

	OverlayOpacity       float64  `toml:"overlay_opacity" yaml:"overlay_opacity" mapstructure:"overlay_opacity"`
	AutoPosition         bool     `toml:"auto_position" yaml:"auto_position" mapstructure:"auto_position"`
	PositionPrecedence   []string `toml:"position_precedence" yaml:"position_precedence" mapstructure:"position_precedence"`
	DisableInteraction   bool     `toml:"disable_interaction" yaml:"disable_interaction" mapstructure:"disable_interaction"`
	HelperElementPadding int      `toml:"helper_element_padding" yaml:"helper_element_padding" mapstructure:"helper_element_padding"`
	TooltipWidth         int      `toml:"tooltip_width" yaml:"tooltip_width" mapstructure:"tooltip_width"`
	TransitionDelayMS    int      `toml:"transition_delay_ms" yaml:"transition_delay_ms" mapstructure:"transition_delay_ms"`

	DontShowAgain           bool   `toml:"dont_show_again" yaml:"dont_show_again" mapstructure:"dont_show_again"`
	DontShowAgainLabel      string `toml:"dont_show_again_label" yaml:"dont_show_again_label" mapstructure:"dont_show_again_label"`
	DontShowAgainKey        string `toml:"dont_show_again_key" yaml:"dont_show_again_key" mapstructure:"dont_show_again_key"`
	DontShowAgainExpiryDays int    `toml:"dont_show_again_expiry_days" yaml:"dont_show_again_expiry_days" mapstructure:"dont_show_again_expiry_days"`

	HintPosition    string `toml:"hint_position" yaml:"hint_position" mapstructure:"hint_position"`
	HintButtonLabel string `toml:"hint_button_label" yaml:"hint_button_label" mapstructure:"hint_button_label"`
	HintShowButton  bool   `toml:"hint_show_button" yaml:"hint_show_button" mapstructure:"hint_show_button"`
	HintAnimation   bool   `toml:"hint_animation" yaml:"hint_animation" mapstructure:"hint_animation"`
}

// Defaults returns the stock configuration.
func Defaults() Options {
	return Options{
		IsActive:                true,
		Language:                "en",
		NextToDone:              true,
		TooltipPosition:         string(placement.Bottom),
		ButtonClass:             "waypoint-button",
		ExitOnEsc:               true,
		ExitOnOverlayClick:      true,
		KeyboardNavigation:      true,
		ShowButtons:             true,
		ShowBullets:             true,
		Markdown:                true,
		ScrollToElement:         true,
		ScrollTo:                ScrollToElement,
		ScrollPadding:           2,
		OverlayOpacity:          0.5,
		AutoPosition:            true,
		PositionPrecedence:      []string{"bottom", "top", "right", "left"},
		HelperElementPadding:    2,
		TooltipWidth:            40,
		TransitionDelayMS:       350,
		DontShowAgainKey:        "waypoint-dontShowAgain",
		DontShowAgainExpiryDays: 365,
		HintPosition:            "top-middle",
		HintShowButton:          true,
		HintAnimation:           true,
	}
}

// Precedence returns the validated position precedence list.
func (o *Options) Precedence() []placement.Position {
	out := make([]placement.Position, 0, len(o.PositionPrecedence))
	for _, p := range o.PositionPrecedence {
		if pos, err := placement.ParsePosition(p); err == nil {
			out = append(out, pos)
		}
	}
	return out
}

// Validate checks enumerated values.
func (o *Options) Validate() error {
	if _, err := placement.ParsePosition(o.TooltipPosition); err != nil {
		return fmt.Errorf("tooltip_position: %w", err)
	}
	if !o.ScrollTo.Valid() {
		return fmt.Errorf("scroll_to: unknown value %q", o.ScrollTo)
	}
	for _, p := range o.PositionPrecedence {
		pos, err := placement.ParsePosition(p)
		if err != nil {
			return fmt.Errorf("position_precedence: %w", err)
		}
		switch pos {
		case placement.Top, placement.Bottom, placement.Left, placement.Right:
		default:
			return fmt.Errorf("position_precedence: %q is not a base side", p)
		}
	}
	if _, ok := HintAnchors[o.HintPosition]; !ok {
		return fmt.Errorf("hint_position: unknown anchor %q", o.HintPosition)
	}
	if o.OverlayOpacity < 0 || o.OverlayOpacity > 1 {
		return fmt.Errorf("overlay_opacity: %v is outside [0, 1]", o.OverlayOpacity)
	}
	if o.HelperElementPadding < 0 || o.ScrollPadding < 0 || o.TransitionDelayMS < 0 {
		return fmt.Errorf("paddings and delays must not be negative")
	}
	for i, s := range o.Steps {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	for i, h := range o.Hints {
		if h.HintPosition != "" {
			if _, ok := HintAnchors[h.HintPosition]; !ok {
				return fmt.Errorf("hints[%d]: unknown anchor %q", i, h.HintPosition)
			}
		}
	}
	return nil
}

// Validate checks a step's enumerated values.
func (s StepConfig) Validate() error {
	if s.Position != "" {
		if _, err := placement.ParsePosition(s.Position); err != nil {
			return err
		}
	}
	if !s.ScrollTo.Valid() {
		return fmt.Errorf("unknown scroll_to %q", s.ScrollTo)
	}
	return nil
}

// HintAnchors lists the nine marker anchor points.
var HintAnchors = map[string]struct{}{
	"top-left": {}, "top-middle": {}, "top-right": {},
	"middle-left": {}, "middle-middle": {}, "middle-right": {},
	"bottom-left": {}, "bottom-middle": {}, "bottom-right": {},
}

// BoolPtr is a convenience for optional flags in step and hint configs.
func BoolPtr(v bool) *bool { return &v }
