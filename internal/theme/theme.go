// Package theme maps presentation roles of the painted document to tcell
// styles.
package theme

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/waypoint/internal/logger"
)

// Style names looked up by the painter and the status bar. Dotted names
// fall back to their base ("Button.focused" → "Button").
const (
	StyleDefault        = "Default"
	StyleOverlay        = "Overlay"
	StyleHelper         = "Helper"
	StyleTooltip        = "Tooltip"
	StyleTooltipBorder  = "Tooltip.border"
	StyleTitle          = "Title"
	StyleStepNumber     = "StepNumber"
	StyleArrow          = "Arrow"
	StyleButton         = "Button"
	StyleButtonFocused  = "Button.focused"
	StyleButtonDisabled = "Button.disabled"
	StyleBullet         = "Bullet"
	StyleBulletActive   = "Bullet.active"
	StyleProgress       = "Progress"
	StyleProgressBar    = "Progress.bar"
	StyleHint           = "Hint"
	StyleHintFocused    = "Hint.focused"
	StyleFocus          = "Focus"
	StyleStatusBar      = "StatusBar"
	StyleStatusMessage  = "StatusBar.message"
	StyleStatusProgress = "StatusBar.progress"
)

// Theme is a named set of styles.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle returns the style for name, falling back to its base name and
// then to Default.
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if base, _, found := strings.Cut(name, "."); found {
		if style, ok := t.Styles[base]; ok {
			return style
		}
	}

	if defStyle, ok := t.Styles[StyleDefault]; ok {
		if name != StyleDefault {
			logger.DebugTagf("theme", "%s: style %q not found, using Default", t.Name, name)
		}
		return defStyle
	}

	logger.Warnf("Theme '%s': neither '%s' nor 'Default' defined, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// Dark is the built-in dark theme.
var Dark = func() Theme {
	bg := tcell.NewHexColor(0x2a2f38)
	fg := tcell.NewHexColor(0xc5cdd9)
	muted := tcell.NewHexColor(0x5c6370)
	yellow := tcell.NewHexColor(0xe5c07b)
	green := tcell.NewHexColor(0x98c379)
	cyan := tcell.NewHexColor(0x56b6c2)
	blue := tcell.NewHexColor(0x61afef)
	panel := tcell.NewHexColor(0x353b45)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(fg)
	tip := tcell.StyleDefault.Background(panel).Foreground(fg)

	return Theme{
		Name:   "Waypoint Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			StyleDefault:        base,
			StyleOverlay:        base.Foreground(muted).Dim(true),
			StyleHelper:         base.Foreground(yellow).Bold(true),
			StyleTooltip:        tip,
			StyleTooltipBorder:  tip.Foreground(blue),
			StyleTitle:          tip.Foreground(yellow).Bold(true),
			StyleStepNumber:     tip.Foreground(cyan),
			StyleArrow:          base.Foreground(blue),
			StyleButton:         tip.Foreground(blue),
			StyleButtonFocused:  tip.Foreground(bg).Background(blue).Bold(true),
			StyleButtonDisabled: tip.Foreground(muted),
			StyleBullet:         tip.Foreground(muted),
			StyleBulletActive:   tip.Foreground(blue),
			StyleProgress:       tip.Foreground(muted),
			StyleProgressBar:    tip.Background(green),
			StyleHint:           base.Foreground(yellow).Bold(true),
			StyleHintFocused:    base.Foreground(bg).Background(yellow),
			StyleFocus:          base.Reverse(true),
			StyleStatusBar:      tcell.StyleDefault.Background(bg).Foreground(fg),
			StyleStatusMessage:  tcell.StyleDefault.Background(bg).Foreground(fg).Bold(true),
			StyleStatusProgress: tcell.StyleDefault.Background(bg).Foreground(green),
		},
	}
}()

// Light is the built-in light theme.
var Light = func() Theme {
	bg := tcell.NewHexColor(0xeff1f5)
	fg := tcell.NewHexColor(0x4c4f69)
	muted := tcell.NewHexColor(0x9ca0b0)
	accent := tcell.NewHexColor(0x1e66f5)
	orange := tcell.NewHexColor(0xfe640b)
	green := tcell.NewHexColor(0x40a02b)
	panel := tcell.NewHexColor(0xe6e9ef)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(fg)
	tip := tcell.StyleDefault.Background(panel).Foreground(fg)

	return Theme{
		Name: "Waypoint Light",
		Styles: map[string]tcell.Style{
			StyleDefault:        base,
			StyleOverlay:        base.Foreground(muted),
			StyleHelper:         base.Foreground(orange).Bold(true),
			StyleTooltip:        tip,
			StyleTooltipBorder:  tip.Foreground(accent),
			StyleTitle:          tip.Foreground(orange).Bold(true),
			StyleArrow:          base.Foreground(accent),
			StyleButton:         tip.Foreground(accent),
			StyleButtonFocused:  tip.Foreground(bg).Background(accent).Bold(true),
			StyleButtonDisabled: tip.Foreground(muted),
			StyleBullet:         tip.Foreground(muted),
			StyleBulletActive:   tip.Foreground(accent),
			StyleProgressBar:    tip.Background(green),
			StyleHint:           base.Foreground(orange).Bold(true),
			StyleFocus:          base.Reverse(true),
			StyleStatusBar:      tcell.StyleDefault.Background(panel).Foreground(fg),
			StyleStatusMessage:  tcell.StyleDefault.Background(panel).Foreground(fg).Bold(true),
		},
	}
}()
