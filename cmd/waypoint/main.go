// Command waypoint shows product tours and hints over an HTML page in the
// terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	stlog "log" // Standard log for fatal errors before the logger is ready
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/bethropolis/waypoint/internal/app"
	"github.com/bethropolis/waypoint/internal/config"
	"github.com/bethropolis/waypoint/internal/loader"
	"github.com/bethropolis/waypoint/internal/logger"
	"github.com/bethropolis/waypoint/internal/plugin"
	"github.com/bethropolis/waypoint/internal/store"
	"github.com/bethropolis/waypoint/plugins/metrics"
)

var version = "dev"

func main() {
	flags := config.NewFlags(nil)
	args, err := flags.Parse(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		return
	}

	cfg, err := config.Load(*flags.ConfigFilePath, flags)
	if err != nil {
		stlog.Fatalf("Configuration error: %v", err)
	}

	// The terminal belongs to the UI, so logs go to a file unless told otherwise.
	if cfg.Logger.LogFilePath == "" {
		cfg.Logger.LogFilePath = filepath.Join(os.TempDir(), config.DefaultLogFileName)
	}
	out, closeLog, err := logger.OpenOutput(cfg.Logger.LogFilePath)
	if err != nil {
		stlog.Fatalf("Failed to open log file '%s': %v", cfg.Logger.LogFilePath, err)
	}
	defer closeLog()
	logger.Init(cfg.Logger, out)
	logger.Infof("Starting %s %s", config.AppName, version)

	if err := run(cfg, flags, args); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		closeLog()
		stlog.Fatalf("%s: %v", config.AppName, err)
	}
	logger.Infof("%s finished.", config.AppName)
}

func run(cfg *config.Config, flags *config.Flags, args []string) error {
	page, defs, err := loadInputs(args)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	var extra []plugin.Plugin
	if cfg.Metrics.Addr != "" {
		m := metrics.New()
		reg.MustRegister(m.Collectors()...)
		extra = append(extra, m)
	}

	a, err := app.New(app.Params{
		Config:    cfg,
		Page:      page,
		Tours:     defs,
		Store:     st,
		Plugins:   extra,
		TourName:  *flags.TourName,
		Group:     *flags.Group,
		ShowHints: *flags.Hints,
	})
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel() // quitting the UI stops the metrics server
		return a.Run(gctx)
	})

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           newRouter(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Infof("Serving metrics on %s", cfg.Metrics.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}
	return g.Wait()
}

// loadInputs sorts the arguments into one HTML page and tour files.
// Directories are searched for tour files.
func loadInputs(args []string) (*loader.Page, []loader.Definition, error) {
	var (
		pagePath  string
		tourFiles []string
	)
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case info.IsDir():
			found, err := loader.FindTours(arg, "")
			if err != nil {
				return nil, nil, err
			}
			tourFiles = append(tourFiles, found...)
		case loader.IsTourFile(arg):
			tourFiles = append(tourFiles, arg)
		case strings.HasSuffix(strings.ToLower(arg), ".html"), strings.HasSuffix(strings.ToLower(arg), ".htm"):
			if pagePath != "" {
				return nil, nil, fmt.Errorf("more than one page given: %s and %s", pagePath, arg)
			}
			pagePath = arg
		default:
			return nil, nil, fmt.Errorf("%s is neither a page nor a tour file", arg)
		}
	}

	defs, err := loader.LoadTours(tourFiles...)
	if err != nil {
		return nil, nil, err
	}

	var page *loader.Page
	if pagePath != "" {
		page, err = loader.LoadPage(pagePath)
		if err != nil {
			return nil, nil, err
		}
	} else if len(defs) == 0 || defs[0].Page == "" {
		return nil, nil, fmt.Errorf("usage: %s [flags] page.html [tours.tour.yaml|dir ...]: %w", config.AppName, app.ErrNoPage)
	}
	return page, defs, nil
}
