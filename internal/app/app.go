// Package app hosts tours in the terminal: it owns the screen, the page
// document and the tour and hint instances, and runs the single event loop
// every engine call happens on.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/waypoint/internal/config"
	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/event"
	"github.com/bethropolis/waypoint/internal/hint"
	"github.com/bethropolis/waypoint/internal/input"
	"github.com/bethropolis/waypoint/internal/loader"
	"github.com/bethropolis/waypoint/internal/logger"
	"github.com/bethropolis/waypoint/internal/markdown"
	"github.com/bethropolis/waypoint/internal/plugin"
	"github.com/bethropolis/waypoint/internal/statusbar"
	"github.com/bethropolis/waypoint/internal/store"
	"github.com/bethropolis/waypoint/internal/theme"
	"github.com/bethropolis/waypoint/internal/tour"
	"github.com/bethropolis/waypoint/internal/tui"
	"github.com/bethropolis/waypoint/internal/utils"
)

// ErrNoPage is returned when neither the arguments nor a tour definition
// name a page.
var ErrNoPage = errors.New("no page to show")

// Params are the inputs of New.
type Params struct {
	Config *config.Config
	// Screen defaults to the terminal; tests pass a SimulationScreen.
	Screen tcell.Screen
	// Page is shown unless the selected definition names its own.
	Page  *loader.Page
	Tours []loader.Definition
	Store store.Store
	// Plugins are registered after the built-in ones.
	Plugins []plugin.Plugin

	TourName  string // definition to select; empty selects the first
	Group     string
	ShowHints bool // add hints instead of starting the tour
	// Clipboard replaces the system clipboard writer.
	Clipboard func(string) error
	// Scheduler overrides how transition delays are timed.
	Scheduler utils.AfterFunc
}

// App encapsulates the core components and main loop.
type App struct {
	cfg          *config.Config
	tuiManager   *tui.TUI
	themeManager *theme.Manager
	activeTheme  *theme.Theme
	statusBar    *statusbar.StatusBar
	eventManager *event.Manager
	pluginMgr    *plugin.Manager
	inputProc    *input.InputProcessor
	store        store.Store
	md           *markdown.Renderer
	hostAPI      *hostAPI

	page     *loader.Page
	defs     []loader.Definition
	defIndex int
	group    string
	tour     *tour.Tour
	hints    *hint.Manager

	writeClipboard func(string) error
	clipboard      string
	schedule       utils.AfterFunc
	lastButtons    tcell.ButtonMask
	quit           bool
	startHints     bool
}

// New wires the components. It selects the tour definition but does not
// start it; Run does.
func New(p Params) (*App, error) {
	if p.Config == nil {
		p.Config = config.NewDefaultConfig()
	}
	cfg := p.Config

	themes := theme.NewManager(cfg.UI.ThemesDir)
	if cfg.UI.Theme != "" {
		if err := themes.SetTheme(cfg.UI.Theme); err != nil {
			logger.Warnf("App: %v, keeping %s", err, themes.Current().Name)
		}
	}
	active := themes.Current()

	var (
		tuiManager *tui.TUI
		err        error
	)
	if p.Screen != nil {
		tuiManager, err = tui.NewWithScreen(p.Screen, active, cfg.UI.Mouse)
	} else {
		tuiManager, err = tui.New(active, cfg.UI.Mouse)
	}
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	st := p.Store
	if st == nil {
		st = store.NewMemory()
	}

	sbConfig := statusbar.ConfigFromTheme(active)
	sbConfig.MessageTimeout = config.MessageTimeout

	a := &App{
		cfg:            cfg,
		tuiManager:     tuiManager,
		themeManager:   themes,
		activeTheme:    active,
		statusBar:      statusbar.New(sbConfig),
		eventManager:   event.NewManager(),
		pluginMgr:      plugin.NewManager(),
		inputProc:      input.NewInputProcessor(),
		store:          st,
		md:             markdown.New(),
		page:           p.Page,
		defs:           p.Tours,
		group:          p.Group,
		writeClipboard: p.Clipboard,
		schedule:       p.Scheduler,
		startHints:     p.ShowHints,
	}
	if a.writeClipboard == nil && cfg.UI.SystemClipboard {
		a.writeClipboard = clipboard.WriteAll
	}
	if a.schedule == nil {
		a.schedule = a.after
	}
	for r, action := range cfg.Keybindings() {
		a.inputProc.Bind(r, action)
	}
	a.hostAPI = newHostAPI(a)

	if len(a.defs) == 0 {
		// Annotations on the page drive an unnamed tour.
		a.defs = []loader.Definition{{Name: "default"}}
	}
	index := 0
	if p.TourName != "" {
		index = -1
		for i, d := range a.defs {
			if d.Name == p.TourName {
				index = i
				break
			}
		}
		if index < 0 {
			tuiManager.Close()
			return nil, fmt.Errorf("unknown tour %q", p.TourName)
		}
	}
	if err := a.selectTour(index); err != nil {
		tuiManager.Close()
		return nil, err
	}

	a.subscribeStatus()
	if err := registerPlugins(a.pluginMgr, p.Plugins); err != nil {
		logger.Warnf("App: %v", err)
	}
	for _, err := range a.pluginMgr.InitializePlugins(a.hostAPI) {
		logger.Errorf("App: %v", err)
	}
	return a, nil
}

// Run starts the tour (or hints) and processes events until quit or until
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.tuiManager.Close()
	defer a.pluginMgr.ShutdownPlugins()

	stop := context.AfterFunc(ctx, func() { a.post(func() { a.quit = true }) })
	defer stop()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	if a.startHints {
		a.toggleHints()
	} else {
		a.startTour()
	}
	a.drawScreen()

	for !a.quit {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			break
		}
		if a.handleEvent(ev) {
			a.drawScreen()
		}
	}

	if a.tour.Running() {
		a.tour.Exit(true)
	}
	a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
	logger.Infof("Exiting application.")
	return nil
}

// after schedules fn on the event loop; it is the engine's scheduler.
func (a *App) after(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, func() { a.post(fn) })
	return t.Stop
}

// post runs fn on the event loop. Safe from any goroutine.
func (a *App) post(fn func()) {
	if err := a.tuiManager.PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
		logger.Warnf("App: event queue full, dropping callback: %v", err)
	}
}

// Tour returns the selected tour.
func (a *App) Tour() *tour.Tour { return a.tour }

// Hints returns the hint manager of the selected tour.
func (a *App) Hints() *hint.Manager { return a.hints }

// Clipboard returns the text last copied to the internal clipboard.
func (a *App) Clipboard() string { return a.clipboard }

// Document returns the page being shown.
func (a *App) Document() *dom.Document { return a.page.Doc }

// Events returns the app's event bus.
func (a *App) Events() *event.Manager { return a.eventManager }

// StatusBar returns the status bar.
func (a *App) StatusBar() *statusbar.StatusBar { return a.statusBar }

// GetTheme returns the app's active theme.
func (a *App) GetTheme() *theme.Theme { return a.activeTheme }

// SetTheme changes the active theme.
func (a *App) SetTheme(name string) error {
	if err := a.themeManager.SetTheme(name); err != nil {
		return err
	}
	a.activeTheme = a.themeManager.Current()
	a.tuiManager.SetTheme(a.activeTheme)
	sbConfig := statusbar.ConfigFromTheme(a.activeTheme)
	sbConfig.MessageTimeout = config.MessageTimeout
	a.statusBar.SetConfig(sbConfig)
	a.eventManager.Dispatch(event.TypeThemeChanged, event.ThemeChangedData{Name: a.activeTheme.Name})
	return nil
}
