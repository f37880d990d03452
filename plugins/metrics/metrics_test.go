package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/waypoint/internal/event"
	"github.com/bethropolis/waypoint/internal/plugin"
)

func TestCountsLifecycle(t *testing.T) {
	host := plugin.NewFakeHost()
	m := New()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.Collectors()...)
	require.NoError(t, m.Initialize(host))

	td := event.TourData{Tour: "intro", Step: 0, Total: 2}
	host.DispatchEvent(event.TypeStepChanged, event.StepChangedData{TourData: td, Ordinal: 1, Direction: "forward"})
	host.DispatchEvent(event.TypeTourStarted, td)
	td.Step = 1
	host.DispatchEvent(event.TypeStepChanged, event.StepChangedData{TourData: td, Ordinal: 2, Direction: "forward"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.started.WithLabelValues("intro")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.current.WithLabelValues("intro")))

	host.DispatchEvent(event.TypeTourCompleted, event.TourCompletedData{TourData: td, Reason: "done"})
	host.DispatchEvent(event.TypeTourExited, td)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.completed.WithLabelValues("intro", "done")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.current.WithLabelValues("intro")))

	host.DispatchEvent(event.TypeHintClicked, event.HintData{ID: 0})
	host.DispatchEvent(event.TypeHintClicked, event.HintData{ID: 1})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.hints.WithLabelValues("click")))

	err := testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP waypoint_steps_shown_total Steps shown, by ordinal and direction.
# TYPE waypoint_steps_shown_total counter
waypoint_steps_shown_total{direction="forward",ordinal="1",tour="intro"} 1
waypoint_steps_shown_total{direction="forward",ordinal="2",tour="intro"} 1
`), "waypoint_steps_shown_total")
	assert.NoError(t, err)
	require.NoError(t, m.Shutdown())
}
