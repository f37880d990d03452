// Package statusbar draws the bottom status line: the page, the running
// tour's progress and temporary messages.
package statusbar

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/waypoint/internal/theme"
)

// Config defines the appearance and behavior of the status bar.
type Config struct {
	StyleDefault   tcell.Style
	StyleProgress  tcell.Style
	StyleMessage   tcell.Style
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{
		StyleDefault:   tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlue),
		StyleProgress:  tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlue).Bold(true),
		StyleMessage:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue).Bold(true),
		MessageTimeout: 4 * time.Second,
	}
}

// ConfigFromTheme takes the styles from th.
func ConfigFromTheme(th *theme.Theme) Config {
	cfg := DefaultConfig()
	cfg.StyleDefault = th.GetStyle(theme.StyleStatusBar)
	cfg.StyleProgress = th.GetStyle(theme.StyleStatusProgress)
	cfg.StyleMessage = th.GetStyle(theme.StyleStatusMessage)
	return cfg
}

// StatusBar represents the UI component for the status line.
type StatusBar struct {
	config Config
	mu     sync.RWMutex
	now    func() time.Time

	page      string
	tourName  string
	step      int // 0-based, -1 when no tour runs
	total     int
	stepTitle string

	tempMessage     string
	tempMessageTime time.Time
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{config: config, now: time.Now, step: -1}
}

// SetConfig replaces the styles, e.g. after a theme change.
func (sb *StatusBar) SetConfig(config Config) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.config = config
}

// SetPage updates the page name shown on the left.
func (sb *StatusBar) SetPage(name string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.page = name
}

// SetTourInfo records the running tour's progress. step is 0-based.
func (sb *StatusBar) SetTourInfo(name string, step, total int, title string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tourName, sb.step, sb.total, sb.stepTitle = name, step, total, title
}

// ClearTourInfo drops the tour progress.
func (sb *StatusBar) ClearTourInfo() {
	sb.SetTourInfo("", -1, 0, "")
}

// SetTemporaryMessage displays a message for the configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...any) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
}

// ResetTemporaryMessage clears any temporary message being displayed.
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// Text returns the current status line and whether it is a message.
func (sb *StatusBar) Text() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.text()
}

func (sb *StatusBar) text() (string, bool) {
	if !sb.tempMessageTime.IsZero() {
		if sb.now().Sub(sb.tempMessageTime) <= sb.config.MessageTimeout {
			return sb.tempMessage, true
		}
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	page := sb.page
	if page == "" {
		page = "[No Page]"
	}
	if sb.step < 0 {
		return page + " -- no tour running", false
	}
	s := fmt.Sprintf("%s -- %s %d/%d", page, sb.tourName, sb.step+1, sb.total)
	if sb.stepTitle != "" {
		s += " -- " + sb.stepTitle
	}
	return s, false
}

// Draw renders the status bar onto the last screen row.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1

	sb.mu.Lock()
	text, isMessage := sb.text()
	style := sb.config.StyleDefault
	if isMessage {
		style = sb.config.StyleMessage
	} else if sb.step >= 0 {
		style = sb.config.StyleProgress
	}
	sb.mu.Unlock()

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	gr := uniseg.NewGraphemes(text)
	currentX := 0
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX+clusterWidth > width {
			break
		}
		if runes := gr.Runes(); len(runes) > 0 {
			screen.SetContent(currentX, y, runes[0], runes[1:], style)
		}
		currentX += clusterWidth
	}
}
