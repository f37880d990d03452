package app

import (
	"github.com/bethropolis/waypoint/internal/event"
	"github.com/bethropolis/waypoint/internal/plugin"
	"github.com/bethropolis/waypoint/internal/store"
)

var _ plugin.HostAPI = (*hostAPI)(nil)

// hostAPI is the app's side of the plugin API.
type hostAPI struct {
	app *App
}

func newHostAPI(app *App) *hostAPI {
	return &hostAPI{app: app}
}

// --- Event Bus Interaction ---

func (api *hostAPI) DispatchEvent(eventType event.Type, data any) {
	api.app.eventManager.Dispatch(eventType, data)
}

func (api *hostAPI) SubscribeEvent(eventType event.Type, handler event.Handler) event.SubscriptionID {
	return api.app.eventManager.Subscribe(eventType, handler)
}

func (api *hostAPI) UnsubscribeEvent(id event.SubscriptionID) {
	api.app.eventManager.Unsubscribe(id)
}

// --- Active tour ---

func (api *hostAPI) ActiveTour() (string, bool) {
	t := api.app.tour
	if t == nil || !t.Running() {
		return "", false
	}
	return t.Name(), true
}

func (api *hostAPI) GoToStep(n int) bool {
	t := api.app.tour
	if t == nil || !t.Running() {
		return false
	}
	return t.GoToStep(n)
}

func (api *hostAPI) Store() store.Store { return api.app.store }

// --- Status Bar ---

func (api *hostAPI) SetStatusMessage(format string, args ...any) {
	api.app.statusBar.SetTemporaryMessage(format, args...)
}

func (api *hostAPI) Post(fn func()) { api.app.post(fn) }

func (api *hostAPI) GetPluginConfigValue(pluginName, key string) (any, bool) {
	return api.app.cfg.PluginValue(pluginName, key)
}
