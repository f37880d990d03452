package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/waypoint/internal/dom"
)

// Keymap maps special keys to actions.
type Keymap map[tcell.Key]Action

// RuneKeymap maps plain runes to actions.
type RuneKeymap map[rune]Action

// InputProcessor translates tcell key events into ActionEvents.
type InputProcessor struct {
	keymap     Keymap
	runeKeymap RuneKeymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		runeKeymap: make(RuneKeymap),
	}
	p.loadDefaultBindings()
	return p
}

func (p *InputProcessor) loadDefaultBindings() {
	p.keymap[tcell.KeyCtrlC] = ActionQuit
	p.keymap[tcell.KeyUp] = ActionScrollUp
	p.keymap[tcell.KeyDown] = ActionScrollDown
	p.keymap[tcell.KeyPgUp] = ActionScrollPageUp
	p.keymap[tcell.KeyPgDn] = ActionScrollPageDown
	p.keymap[tcell.KeyTab] = ActionFocusNext
	p.keymap[tcell.KeyBacktab] = ActionFocusPrev
	p.keymap[tcell.KeyEnter] = ActionActivate

	p.runeKeymap['q'] = ActionQuit
	p.runeKeymap['s'] = ActionStartTour
	p.runeKeymap['n'] = ActionNextTour
	p.runeKeymap['r'] = ActionRefresh
	p.runeKeymap['h'] = ActionToggleHints
	p.runeKeymap['y'] = ActionCopyStep
	p.runeKeymap['t'] = ActionCycleTheme
}

// Bind overrides the action of a rune, e.g. from configuration.
func (p *InputProcessor) Bind(r rune, a Action) {
	if a == ActionUnknown {
		delete(p.runeKeymap, r)
		return
	}
	p.runeKeymap[r] = a
}

// ProcessEvent decodes ev. Keys without a binding still carry their DOM key
// name so tours can react to them.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	out := ActionEvent{Key: DOMKey(ev), Shift: ev.Modifiers()&tcell.ModShift != 0 || key == tcell.KeyBacktab}

	if key == tcell.KeyRune {
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 {
			if action, ok := p.runeKeymap[ev.Rune()]; ok {
				out.Action = action
			}
		}
		return out
	}
	if action, ok := p.keymap[key]; ok {
		out.Action = action
	}
	return out
}

var domKeys = map[tcell.Key]string{
	tcell.KeyEscape:  dom.KeyEscape,
	tcell.KeyEnter:   dom.KeyEnter,
	tcell.KeyTab:     dom.KeyTab,
	tcell.KeyBacktab: dom.KeyTab,
	tcell.KeyLeft:    dom.KeyArrowLeft,
	tcell.KeyRight:   dom.KeyArrowRight,
	tcell.KeyUp:      dom.KeyArrowUp,
	tcell.KeyDown:    dom.KeyArrowDown,
}

// DOMKey returns the DOM key name of ev: named keys map to their DOM
// names, printable keys to the character itself.
func DOMKey(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		return string(ev.Rune())
	}
	return domKeys[ev.Key()]
}
