package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/event"
	"github.com/bethropolis/waypoint/internal/input"
	"github.com/bethropolis/waypoint/internal/logger"
)

// handleEvent processes one tcell event and reports whether the screen
// needs a redraw.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.GetScreen().Sync()
		a.resize()
		return true
	case *tcell.EventKey:
		a.handleKey(ev)
		return true
	case *tcell.EventMouse:
		return a.handleMouse(ev)
	case *tcell.EventInterrupt:
		if fn, ok := ev.Data().(func()); ok {
			fn()
		}
		return true
	}
	return false
}

// handleKey gives the document the key first; the tour's keyboard
// navigation claims keys by preventing the default action.
func (a *App) handleKey(ev *tcell.EventKey) {
	a.eventManager.Dispatch(event.TypeKeyPressed, event.KeyPressedData{KeyEvent: ev})

	ae := a.inputProc.ProcessEvent(ev)
	if ae.Key != "" {
		de := &dom.Event{Type: dom.KeyDown, Key: ae.Key, Shift: ae.Shift}
		a.page.Doc.Dispatch(de)
		if de.DefaultPrevented() {
			return
		}
	}
	a.runAction(ae)
}

func (a *App) runAction(ae input.ActionEvent) {
	doc := a.page.Doc
	switch ae.Action {
	case input.ActionUnknown:
	case input.ActionQuit:
		a.quit = true
	case input.ActionStartTour:
		if a.tour.Running() {
			a.statusBar.SetTemporaryMessage("Tour %s is already running", a.tour.Name())
			return
		}
		a.startTour()
	case input.ActionNextTour:
		a.nextTour()
	case input.ActionRefresh:
		a.refresh()
	case input.ActionToggleHints:
		a.toggleHints()
	case input.ActionCopyStep:
		a.copyStep()
	case input.ActionScrollUp:
		doc.ScrollBy(0, -1)
	case input.ActionScrollDown:
		doc.ScrollBy(0, 1)
	case input.ActionScrollPageUp:
		doc.ScrollBy(0, -max(1, doc.Viewport().H-1))
	case input.ActionScrollPageDown:
		doc.ScrollBy(0, max(1, doc.Viewport().H-1))
	case input.ActionFocusNext:
		doc.FocusNext(false)
	case input.ActionFocusPrev:
		doc.FocusNext(true)
	case input.ActionActivate:
		if el := doc.ActiveElement(); el != nil && el.IsConnected() {
			el.Click()
		}
	case input.ActionCycleTheme:
		a.cycleTheme()
	default:
		logger.DebugTagf("app", "unhandled action %s", ae.Action)
	}
}

// handleMouse turns a primary button press into a click on the page and
// the wheel into scrolling.
func (a *App) handleMouse(ev *tcell.EventMouse) bool {
	buttons := ev.Buttons()
	pressed := buttons &^ a.lastButtons
	a.lastButtons = buttons
	doc := a.page.Doc

	switch {
	case buttons&tcell.WheelUp != 0:
		doc.ScrollBy(0, -1)
		return true
	case buttons&tcell.WheelDown != 0:
		doc.ScrollBy(0, 1)
		return true
	case pressed&tcell.Button1 != 0:
		x, y := ev.Position()
		if y >= doc.Viewport().H {
			return false
		}
		if target := doc.ClickAt(x, y); target != nil {
			logger.DebugTagf("app", "click at %d,%d on <%s>", x, y, target.Tag())
		}
		return true
	}
	return false
}
