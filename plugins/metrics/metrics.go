// Package metrics exports tour and hint activity as Prometheus metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bethropolis/waypoint/internal/event"
	"github.com/bethropolis/waypoint/internal/logger"
	"github.com/bethropolis/waypoint/internal/plugin"
)

var _ plugin.Plugin = (*Metrics)(nil)

// Metrics counts lifecycle events. Register its collectors with a
// Prometheus registry through Collectors.
type Metrics struct {
	api  plugin.HostAPI
	subs []event.SubscriptionID

	started   *prometheus.CounterVec
	steps     *prometheus.CounterVec
	completed *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	exited    *prometheus.CounterVec
	current   *prometheus.GaugeVec
	hints     *prometheus.CounterVec
	optOuts   *prometheus.CounterVec
}

// New creates the plugin and its collectors.
func New() *Metrics {
	return &Metrics{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waypoint_tours_started_total",
			Help: "Tours started.",
		}, []string{"tour"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waypoint_steps_shown_total",
			Help: "Steps shown, by ordinal and direction.",
		}, []string{"tour", "ordinal", "direction"}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waypoint_tours_completed_total",
			Help: "Tours that reached their end.",
		}, []string{"tour", "reason"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waypoint_tours_skipped_total",
			Help: "Tours skipped before the last step.",
		}, []string{"tour"}),
		exited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waypoint_tours_exited_total",
			Help: "Tours torn down, for any reason.",
		}, []string{"tour"}),
		current: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "waypoint_tour_current_step",
			Help: "1-based index of the step on screen, 0 when idle.",
		}, []string{"tour"}),
		hints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waypoint_hint_events_total",
			Help: "Hint marker clicks and closes.",
		}, []string{"event"}),
		optOuts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waypoint_dont_show_again_total",
			Help: "Don't-show-again checkbox changes.",
		}, []string{"tour", "enabled"}),
	}
}

// Name returns the unique name of the plugin.
func (m *Metrics) Name() string { return "metrics" }

// Collectors returns everything to register.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.started, m.steps, m.completed, m.skipped, m.exited, m.current, m.hints, m.optOuts}
}

// Initialize subscribes to the event bus.
func (m *Metrics) Initialize(api plugin.HostAPI) error {
	m.api = api
	on := func(t event.Type, fn func(event.Event)) {
		m.subs = append(m.subs, api.SubscribeEvent(t, func(e event.Event) bool {
			fn(e)
			return false
		}))
	}

	on(event.TypeTourStarted, func(e event.Event) {
		if d, ok := e.Data.(event.TourData); ok {
			m.started.WithLabelValues(d.Tour).Inc()
		}
	})
	on(event.TypeStepChanged, func(e event.Event) {
		if d, ok := e.Data.(event.StepChangedData); ok {
			m.steps.WithLabelValues(d.Tour, strconv.Itoa(d.Ordinal), d.Direction).Inc()
			m.current.WithLabelValues(d.Tour).Set(float64(d.Step + 1))
		}
	})
	on(event.TypeTourCompleted, func(e event.Event) {
		if d, ok := e.Data.(event.TourCompletedData); ok {
			m.completed.WithLabelValues(d.Tour, d.Reason).Inc()
		}
	})
	on(event.TypeTourSkipped, func(e event.Event) {
		if d, ok := e.Data.(event.TourData); ok {
			m.skipped.WithLabelValues(d.Tour).Inc()
		}
	})
	on(event.TypeTourExited, func(e event.Event) {
		if d, ok := e.Data.(event.TourData); ok {
			m.exited.WithLabelValues(d.Tour).Inc()
			m.current.WithLabelValues(d.Tour).Set(0)
		}
	})
	on(event.TypeHintClicked, func(event.Event) { m.hints.WithLabelValues("click").Inc() })
	on(event.TypeHintClosed, func(event.Event) { m.hints.WithLabelValues("close").Inc() })
	on(event.TypeDontShowAgainChanged, func(e event.Event) {
		if d, ok := e.Data.(event.DontShowAgainData); ok {
			m.optOuts.WithLabelValues(d.Tour, strconv.FormatBool(d.Enabled)).Inc()
		}
	})

	logger.Debugf("%s: subscribed to %d event types", m.Name(), len(m.subs))
	return nil
}

// Shutdown drops the subscriptions.
func (m *Metrics) Shutdown() error {
	if m.api == nil {
		return nil
	}
	for _, id := range m.subs {
		m.api.UnsubscribeEvent(id)
	}
	m.subs = nil
	return nil
}
