package input

// Action is an app-level command bound to a key.
type Action int

const (
	ActionUnknown Action = iota
	ActionQuit

	// Tours and hints
	ActionStartTour
	ActionNextTour // switch to the next loaded tour definition
	ActionRefresh
	ActionToggleHints
	ActionCopyStep

	// Page navigation
	ActionScrollUp
	ActionScrollDown
	ActionScrollPageUp
	ActionScrollPageDown
	ActionFocusNext
	ActionFocusPrev
	ActionActivate

	ActionCycleTheme
)

var actionNames = map[Action]string{
	ActionUnknown:        "unknown",
	ActionQuit:           "quit",
	ActionStartTour:      "start-tour",
	ActionNextTour:       "next-tour",
	ActionRefresh:        "refresh",
	ActionToggleHints:    "toggle-hints",
	ActionCopyStep:       "copy-step",
	ActionScrollUp:       "scroll-up",
	ActionScrollDown:     "scroll-down",
	ActionScrollPageUp:   "scroll-page-up",
	ActionScrollPageDown: "scroll-page-down",
	ActionFocusNext:      "focus-next",
	ActionFocusPrev:      "focus-prev",
	ActionActivate:       "activate",
	ActionCycleTheme:     "cycle-theme",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// ActionEvent is a decoded key press: the app action bound to it and the
// DOM key name delivered to the document first.
type ActionEvent struct {
	Action Action
	Key    string // DOM key name, empty when the key has none
	Shift  bool
}

// ParseAction returns the action named s, as printed by Action.String.
func ParseAction(s string) (Action, bool) {
	for a, name := range actionNames {
		if name == s {
			return a, true
		}
	}
	return ActionUnknown, false
}
