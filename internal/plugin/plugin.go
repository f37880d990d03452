// Package plugin defines the extension surface of the host: plugins observe
// tour and hint events and may steer the active tour.
package plugin

import (
	"github.com/bethropolis/waypoint/internal/event"
	"github.com/bethropolis/waypoint/internal/store"
)

// HostAPI is what plugins may use. All calls happen on the UI goroutine,
// except Post, which is safe from any goroutine.
type HostAPI interface {
	// Event bus
	DispatchEvent(eventType event.Type, data any)
	SubscribeEvent(eventType event.Type, handler event.Handler) event.SubscriptionID
	UnsubscribeEvent(id event.SubscriptionID)

	// Active tour
	ActiveTour() (name string, ok bool)
	GoToStep(n int) bool

	// Persistence shared with the don't-show-again flag.
	Store() store.Store

	// Status bar
	SetStatusMessage(format string, args ...any)

	// Post runs fn on the UI goroutine.
	Post(fn func())

	// GetPluginConfigValue reads [plugins.<name>] from the config file.
	GetPluginConfigValue(pluginName, key string) (any, bool)
}

// Plugin is implemented by every plugin.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once when the plugin is loaded, typically to
	// read configuration and subscribe to events.
	Initialize(api HostAPI) error

	// Shutdown is called once when the host is closing.
	Shutdown() error
}
