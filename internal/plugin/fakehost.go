package plugin

import (
	"fmt"

	"github.com/bethropolis/waypoint/internal/event"
	"github.com/bethropolis/waypoint/internal/store"
)

// FakeHost is an in-memory HostAPI for plugin tests. Post runs fn at once.
type FakeHost struct {
	Events   *event.Manager
	KV       store.Store
	Config   map[string]map[string]any
	Tour     string
	Messages []string
	GoTos    []int
}

// NewFakeHost returns a host with a fresh event bus and memory store.
func NewFakeHost() *FakeHost {
	return &FakeHost{Events: event.NewManager(), KV: store.NewMemory(), Config: map[string]map[string]any{}}
}

func (h *FakeHost) DispatchEvent(t event.Type, data any) { h.Events.Dispatch(t, data) }

func (h *FakeHost) SubscribeEvent(t event.Type, fn event.Handler) event.SubscriptionID {
	return h.Events.Subscribe(t, fn)
}

func (h *FakeHost) UnsubscribeEvent(id event.SubscriptionID) { h.Events.Unsubscribe(id) }

func (h *FakeHost) ActiveTour() (string, bool) { return h.Tour, h.Tour != "" }

func (h *FakeHost) GoToStep(n int) bool {
	h.GoTos = append(h.GoTos, n)
	return true
}

func (h *FakeHost) Store() store.Store { return h.KV }

func (h *FakeHost) SetStatusMessage(format string, args ...any) {
	h.Messages = append(h.Messages, fmt.Sprintf(format, args...))
}

func (h *FakeHost) Post(fn func()) { fn() }

func (h *FakeHost) GetPluginConfigValue(name, key string) (any, bool) {
	v, ok := h.Config[name][key]
	return v, ok
}
