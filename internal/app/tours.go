package app

import (
	"fmt"
	"strings"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/hint"
	"github.com/bethropolis/waypoint/internal/loader"
	"github.com/bethropolis/waypoint/internal/logger"
	"github.com/bethropolis/waypoint/internal/tour"
)

// selectTour makes definition i current: it loads the definition's page if
// it names another one and builds fresh tour and hint instances over it.
func (a *App) selectTour(i int) error {
	def := a.defs[i]
	if def.Page != "" && (a.page == nil || a.page.Path != def.Page) {
		page, err := loader.LoadPage(def.Page)
		if err != nil {
			return fmt.Errorf("tour %s: %w", def.Name, err)
		}
		a.teardown()
		a.page = page
	}
	if a.page == nil {
		return ErrNoPage
	}
	opts, err := def.Resolve(a.cfg.Tour)
	if err != nil {
		return err
	}

	a.teardown()
	a.layoutPage()
	a.tour = tour.New(a.page.Doc,
		tour.WithName(def.Name),
		tour.WithOptions(opts),
		tour.WithEventManager(a.eventManager),
		tour.WithStore(a.store),
		tour.WithMarkdown(a.md),
		tour.WithScheduler(a.schedule),
	)
	a.hints = hint.New(a.page.Doc,
		hint.WithOptions(opts),
		hint.WithMarkdown(a.md),
		hint.WithEventManager(a.eventManager),
	)
	a.defIndex = i
	a.statusBar.SetPage(a.page.Title)
	logger.DebugTagf("app", "selected tour %s (%d/%d) on %s", def.Name, i+1, len(a.defs), a.page.Path)
	return nil
}

// teardown removes whatever the current tour and hints put in the page.
func (a *App) teardown() {
	if a.tour != nil && a.tour.Running() {
		a.tour.Exit(true)
	}
	if a.hints != nil && a.hints.Added() {
		a.hints.RemoveHints()
	}
}

// viewport is the screen minus the status bar.
func (a *App) viewport() dom.Size {
	w, h := a.tuiManager.Size()
	return dom.Size{W: w, H: max(0, h-a.cfg.UI.StatusBarHeight)}
}

func (a *App) layoutPage() {
	a.page.Doc.SetViewport(a.viewport())
	a.page.Layout()
}

// resize reflows the page, then lets the tour and hints realign.
func (a *App) resize() {
	size := a.viewport()
	a.page.Doc.SetViewport(size)
	a.page.Layout()
	a.page.Doc.Resize(size)
}

func (a *App) startTour() {
	name := a.tour.Name()
	var (
		ok  bool
		err error
	)
	if a.group != "" {
		ok, err = a.tour.StartGroup(a.group)
	} else {
		ok, err = a.tour.Start()
	}
	switch {
	case err != nil:
		a.statusBar.SetTemporaryMessage("%v", err)
		logger.Warnf("App: start %s: %v", name, err)
	case !ok && !a.tour.IsActive():
		a.statusBar.SetTemporaryMessage("Tour %s is turned off", name)
	case !ok:
		a.statusBar.SetTemporaryMessage("Tour %s has no steps on this page", name)
	}
}

func (a *App) nextTour() {
	if len(a.defs) < 2 {
		a.statusBar.SetTemporaryMessage("Only one tour is loaded")
		return
	}
	next := (a.defIndex + 1) % len(a.defs)
	if err := a.selectTour(next); err != nil {
		a.statusBar.SetTemporaryMessage("%v", err)
		return
	}
	a.startTour()
}

func (a *App) toggleHints() {
	if a.hints.Added() {
		a.hints.RemoveHints()
		a.statusBar.SetTemporaryMessage("Hints removed")
		return
	}
	if err := a.hints.AddHints(); err != nil {
		a.statusBar.SetTemporaryMessage("%v", err)
		return
	}
	if !a.hints.Added() {
		a.statusBar.SetTemporaryMessage("No hints on this page")
	}
}

func (a *App) refresh() {
	a.layoutPage()
	if a.tour.Running() {
		a.tour.Refresh(true)
	}
	if a.hints.Added() {
		a.hints.Refresh()
	}
}

// stepText is the plain text of the step on screen.
func (a *App) stepText() (string, bool) {
	i, ok := a.tour.CurrentStep()
	items := a.tour.Items()
	if !ok || i >= len(items) {
		return "", false
	}
	step := items[i]
	parts := make([]string, 0, 2)
	if step.Title != "" {
		parts = append(parts, step.Title)
	}
	if step.Intro != "" {
		parts = append(parts, step.Intro)
	}
	return strings.Join(parts, "\n\n"), true
}

func (a *App) copyStep() {
	text, ok := a.stepText()
	if !ok {
		a.statusBar.SetTemporaryMessage("No step to copy")
		return
	}
	a.clipboard = text
	if a.writeClipboard == nil {
		a.statusBar.SetTemporaryMessage("Copied step text")
		return
	}
	if err := a.writeClipboard(text); err != nil {
		a.statusBar.SetTemporaryMessage("System clipboard: %v", err)
		logger.Warnf("App: clipboard: %v", err)
		return
	}
	a.statusBar.SetTemporaryMessage("Copied step text to the system clipboard")
}

func (a *App) cycleTheme() {
	names := a.themeManager.ListThemes()
	if len(names) == 0 {
		return
	}
	next := names[0]
	for i, n := range names {
		if n == a.activeTheme.Name {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if err := a.SetTheme(next); err != nil {
		a.statusBar.SetTemporaryMessage("%v", err)
		return
	}
	a.statusBar.SetTemporaryMessage("Theme: %s", next)
}
