package app

import (
	"github.com/bethropolis/waypoint/internal/event"
	"github.com/bethropolis/waypoint/internal/logger"
	"github.com/bethropolis/waypoint/internal/tui"
)

// drawScreen clears the screen and redraws the page and the status bar.
func (a *App) drawScreen() {
	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()
	statusBarHeight := a.cfg.UI.StatusBarHeight

	logger.DebugTagf("draw", "drawScreen: Screen Size (%d x %d), StatusBarHeight: %d", width, height, statusBarHeight)

	a.tuiManager.Clear()
	tui.DrawDocument(a.tuiManager, a.page.Doc, a.activeTheme, statusBarHeight)
	a.statusBar.Draw(screen, width, height)
	a.tuiManager.Show()
}

// subscribeStatus keeps the status bar in step with the tour.
func (a *App) subscribeStatus() {
	a.eventManager.Subscribe(event.TypeStepChanged, func(e event.Event) bool {
		if d, ok := e.Data.(event.StepChangedData); ok {
			a.statusBar.SetTourInfo(d.Tour, d.Step, d.Total, d.Title)
		}
		return false
	})
	a.eventManager.Subscribe(event.TypeTourExited, func(event.Event) bool {
		a.statusBar.ClearTourInfo()
		return false
	})
	a.eventManager.Subscribe(event.TypeTourCompleted, func(e event.Event) bool {
		if d, ok := e.Data.(event.TourCompletedData); ok {
			a.statusBar.SetTemporaryMessage("Finished %s", d.Tour)
		}
		return false
	})
	a.eventManager.Subscribe(event.TypeHintsAdded, func(e event.Event) bool {
		if d, ok := e.Data.(event.HintsAddedData); ok {
			a.statusBar.SetTemporaryMessage("%d hints", d.Count)
		}
		return false
	})
}
