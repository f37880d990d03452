package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/bethropolis/waypoint/internal/logger"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	fs *flag.FlagSet

	ConfigFilePath *string
	Version        *bool
	LogLevel       *string
	LogFilePath    *string
	EnableTags     *string
	DisableTags    *string
	EnablePkgs     *string
	DisablePkgs    *string
	EnableFiles    *string
	DisableFiles   *string

	Theme       *string
	Mouse       *bool
	Clipboard   *bool
	Language    *string
	StoreKind   *string
	StorePath   *string
	RedisAddr   *string
	MetricsAddr *string

	// Tour selection, not part of Config.
	TourName *string
	Group    *string
	Hints    *bool
}

// NewFlags defines the flags on fs; nil means flag.CommandLine.
func NewFlags(fs *flag.FlagSet) *Flags {
	if fs == nil {
		fs = flag.CommandLine
	}
	f := &Flags{fs: fs}
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", ConfigDirName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.EnableFiles = fs.String("log-files", "", "Comma-separated list of files to enable - Overrides config file")
	f.DisableFiles = fs.String("log-disable-files", "", "Comma-separated list of files to disable - Overrides config file")

	f.Theme = fs.String("theme", "", "Theme name - Overrides config file")
	f.Mouse = fs.Bool("mouse", true, "Enable mouse clicks - Overrides config file")
	f.Clipboard = fs.Bool("system-clipboard", true, "Use system clipboard instead of internal clipboard")
	f.Language = fs.String("lang", "", "Language of button labels - Overrides config file")
	f.StoreKind = fs.String("store", "", "State backend (memory, file, redis, sqlite) - Overrides config file")
	f.StorePath = fs.String("store-path", "", "Path of the file or sqlite state backend - Overrides config file")
	f.RedisAddr = fs.String("redis-addr", "", "Redis address for the redis state backend - Overrides config file")
	f.MetricsAddr = fs.String("metrics-addr", "", "Serve Prometheus metrics on this address - Overrides config file")

	f.TourName = fs.String("tour", "", "Name of the tour definition to start")
	f.Group = fs.String("group", "", "Only include steps of this group")
	f.Hints = fs.Bool("hints", false, "Show hints instead of starting a tour")
	return f
}

// Parse parses args and returns the remaining non-flag arguments
// (page and tour files).
func (f *Flags) Parse(args []string) ([]string, error) {
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	return f.fs.Args(), nil
}

// ApplyOverrides updates cfg with the flags that were actually set.
func (f *Flags) ApplyOverrides(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		logger.DebugTagf("config", "Applying flag override: %s", fl.Name)
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath // Empty string is valid ("-")
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitCommaList(*f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitCommaList(*f.DisablePkgs)
		case "log-files":
			cfg.Logger.EnabledFiles = splitCommaList(*f.EnableFiles)
		case "log-disable-files":
			cfg.Logger.DisabledFiles = splitCommaList(*f.DisableFiles)
		case "theme":
			cfg.UI.Theme = *f.Theme
		case "mouse":
			cfg.UI.Mouse = *f.Mouse
		case "system-clipboard":
			cfg.UI.SystemClipboard = *f.Clipboard
		case "lang":
			if *f.Language != "" {
				cfg.Tour.Language = *f.Language
			}
		case "store":
			cfg.Store.Backend = *f.StoreKind
		case "store-path":
			cfg.Store.Path = *f.StorePath
		case "redis-addr":
			cfg.Store.RedisAddr = *f.RedisAddr
		case "metrics-addr":
			cfg.Metrics.Addr = *f.MetricsAddr
		}
	})
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
