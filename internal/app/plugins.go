package app

import (
	"fmt"

	"github.com/bethropolis/waypoint/internal/logger"
	"github.com/bethropolis/waypoint/internal/plugin"
	"github.com/bethropolis/waypoint/plugins/resume"
)

// builtinPlugins are always registered. Adding a plugin means adding its
// constructor here.
var builtinPlugins = []func() plugin.Plugin{
	func() plugin.Plugin { return resume.New() },
}

// registerPlugins registers the built-in plugins followed by extra ones.
// Registration continues past failures; the first error is returned.
func registerPlugins(pm *plugin.Manager, extra []plugin.Plugin) error {
	if pm == nil {
		return fmt.Errorf("plugin manager is nil")
	}
	all := make([]plugin.Plugin, 0, len(builtinPlugins)+len(extra))
	for _, newPlugin := range builtinPlugins {
		all = append(all, newPlugin())
	}
	all = append(all, extra...)

	var finalErr error
	for _, p := range all {
		logger.Debugf("Registering plugin: %s", p.Name())
		if err := pm.Register(p); err != nil {
			wrappedErr := fmt.Errorf("failed to register plugin '%s': %w", p.Name(), err)
			logger.Errorf("%v", wrappedErr)
			if finalErr == nil {
				finalErr = wrappedErr
			}
		}
	}
	return finalErr
}
