package event

import (
	"github.com/gdamore/tcell/v2"
)

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Tour lifecycle
	TypeTourStarted   // A tour rendered its first step
	TypeStepChanged   // The current step changed (after render)
	TypeTourCompleted // The last step was passed or "done" was pressed
	TypeTourSkipped   // The skip button was pressed before the last step
	TypeTourExited    // A tour was torn down

	// Hints
	TypeHintsAdded
	TypeHintClicked
	TypeHintClosed

	// Persisted preferences
	TypeDontShowAgainChanged

	// Input Events (raw keys forwarded for plugins)
	TypeKeyPressed

	// Application Lifecycle Events
	TypeAppReady
	TypeAppQuit

	TypeThemeChanged
)

var typeNames = map[Type]string{
	TypeUnknown:              "unknown",
	TypeTourStarted:          "tour_started",
	TypeStepChanged:          "step_changed",
	TypeTourCompleted:        "tour_completed",
	TypeTourSkipped:          "tour_skipped",
	TypeTourExited:           "tour_exited",
	TypeHintsAdded:           "hints_added",
	TypeHintClicked:          "hint_clicked",
	TypeHintClosed:           "hint_closed",
	TypeDontShowAgainChanged: "dont_show_again_changed",
	TypeKeyPressed:           "key_pressed",
	TypeAppReady:             "app_ready",
	TypeAppQuit:              "app_quit",
	TypeThemeChanged:         "theme_changed",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data any
}

// TourData identifies a tour and its position.
type TourData struct {
	Tour  string // Tour name (definition name or group)
	Step  int    // 0-based index, -1 when not applicable
	Total int
}

// StepChangedData is sent after a step was rendered.
type StepChangedData struct {
	TourData
	Ordinal   int
	Direction string
	Title     string
}

// TourCompletedData carries the completion reason ("end" or "done").
type TourCompletedData struct {
	TourData
	Reason string
}

// HintData identifies a hint.
type HintData struct {
	ID   int
	Text string
}

// HintsAddedData lists how many hints were rendered.
type HintsAddedData struct {
	Count int
}

// DontShowAgainData reports the checkbox state.
type DontShowAgainData struct {
	Tour    string
	Enabled bool
}

// KeyPressedData contains the raw tcell key event.
type KeyPressedData struct {
	KeyEvent *tcell.EventKey
}

// ThemeChangedData names the new theme.
type ThemeChangedData struct {
	Name string
}

type AppQuitData struct{}

type AppReadyData struct{}
