// Package resume remembers how far a user got in each tour and continues
// from there the next time the tour starts.
package resume

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/bethropolis/waypoint/internal/event"
	"github.com/bethropolis/waypoint/internal/logger"
	"github.com/bethropolis/waypoint/internal/plugin"
)

var _ plugin.Plugin = (*Resume)(nil)

const (
	defaultEnabled = true
	defaultTTL     = 30 * 24 * time.Hour
	keyPrefix      = "resume:"
)

// Resume stores the last shown step of every unfinished tour.
type Resume struct {
	api plugin.HostAPI

	mutex   sync.RWMutex
	enabled bool
	ttl     time.Duration

	// running holds tours whose start was seen; steps shown before that
	// belong to the start itself and must not overwrite saved progress.
	running map[string]bool
}

// New creates a new instance of the Resume plugin.
func New() *Resume {
	return &Resume{enabled: defaultEnabled, ttl: defaultTTL, running: map[string]bool{}}
}

// Name returns the unique name of the plugin.
func (p *Resume) Name() string { return "resume" }

// Key is the store key holding tour's progress.
func Key(tour string) string { return keyPrefix + tour }

// Initialize reads [plugins.resume] and subscribes to tour events.
func (p *Resume) Initialize(api plugin.HostAPI) error {
	p.api = api
	name := p.Name()

	p.mutex.Lock()
	if v, ok := api.GetPluginConfigValue(name, "enabled"); ok {
		if b, isBool := v.(bool); isBool {
			p.enabled = b
		} else {
			logger.Warnf("%s: Invalid type for 'enabled' config (%T), using default (%v)", name, v, p.enabled)
		}
	}
	if v, ok := api.GetPluginConfigValue(name, "ttl"); ok {
		s, isStr := v.(string)
		d, err := time.ParseDuration(s)
		switch {
		case !isStr:
			logger.Warnf("%s: Invalid type for 'ttl' config (%T), using default (%v)", name, v, p.ttl)
		case err != nil:
			logger.Warnf("%s: Invalid format for 'ttl' config ('%s'): %v. Using default (%v)", name, s, err, p.ttl)
		case d <= 0:
			logger.Warnf("%s: 'ttl' config must be positive ('%s'). Using default (%v)", name, s, p.ttl)
		default:
			p.ttl = d
		}
	}
	enabled, ttl := p.enabled, p.ttl
	p.mutex.Unlock()

	logger.Infof("%s initialized. Enabled: %v, TTL: %v", name, enabled, ttl)
	if !enabled {
		return nil
	}

	api.SubscribeEvent(event.TypeTourStarted, p.onStarted)
	api.SubscribeEvent(event.TypeStepChanged, p.onStep)
	api.SubscribeEvent(event.TypeTourCompleted, p.onCompleted)
	api.SubscribeEvent(event.TypeTourExited, p.onExited)
	return nil
}

// Shutdown is a no-op; progress is written as it happens.
func (p *Resume) Shutdown() error { return nil }

func (p *Resume) onStarted(e event.Event) bool {
	d, ok := e.Data.(event.TourData)
	if !ok {
		return false
	}
	p.running[d.Tour] = true
	v, found, err := p.api.Store().Get(context.Background(), Key(d.Tour))
	if err != nil {
		logger.Warnf("%s: read progress of %s: %v", p.Name(), d.Tour, err)
		return false
	}
	if !found {
		return false
	}
	step, err := strconv.Atoi(v)
	if err != nil || step <= 0 || step >= d.Total {
		return false
	}
	if p.api.GoToStep(step + 1) {
		p.api.SetStatusMessage("Resumed %s at step %d of %d", d.Tour, step+1, d.Total)
	}
	return false
}

func (p *Resume) onStep(e event.Event) bool {
	d, ok := e.Data.(event.StepChangedData)
	if !ok || !p.running[d.Tour] {
		return false
	}
	p.mutex.RLock()
	ttl := p.ttl
	p.mutex.RUnlock()
	if err := p.api.Store().Set(context.Background(), Key(d.Tour), strconv.Itoa(d.Step), ttl); err != nil {
		logger.Warnf("%s: save progress of %s: %v", p.Name(), d.Tour, err)
	}
	return false
}

func (p *Resume) onCompleted(e event.Event) bool {
	d, ok := e.Data.(event.TourCompletedData)
	if !ok {
		return false
	}
	if err := p.api.Store().Delete(context.Background(), Key(d.Tour)); err != nil {
		logger.Warnf("%s: clear progress of %s: %v", p.Name(), d.Tour, err)
	}
	return false
}

func (p *Resume) onExited(e event.Event) bool {
	if d, ok := e.Data.(event.TourData); ok {
		delete(p.running, d.Tour)
	}
	return false
}
