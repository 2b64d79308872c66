package system

import (
	"time"

	coresys "github.com/thoracle/starcharts/internal/core/system"
	"github.com/thoracle/starcharts/internal/discovery"
	"github.com/thoracle/starcharts/internal/metrics"
	"github.com/thoracle/starcharts/internal/world"
)

// PositionProvider supplies the current player position. ok is false while
// the provider is not ready (early initialization); the scan skips that tick.
type PositionProvider interface {
	Position() (world.Vec3, bool)
}

// DiscoverySystem runs the throttled proximity scan: every scanEvery ticks
// it asks the tracker to promote undiscovered objects within the discovery
// radius of the ship. Phase 2 (PostUpdate), after ship motion.
type DiscoverySystem struct {
	tracker *discovery.Tracker
	pos     PositionProvider
	wld     *world.World
	met     *metrics.Metrics

	scanEvery int
	ticks     int
}

func NewDiscoverySystem(tracker *discovery.Tracker, pos PositionProvider, wld *world.World, met *metrics.Metrics, scanEvery int) *DiscoverySystem {
	if scanEvery < 1 {
		scanEvery = 1
	}
	return &DiscoverySystem{
		tracker:   tracker,
		pos:       pos,
		wld:       wld,
		met:       met,
		scanEvery: scanEvery,
	}
}

func (s *DiscoverySystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *DiscoverySystem) Update(_ time.Duration) {
	s.ticks++
	if s.ticks < s.scanEvery {
		return
	}
	s.ticks = 0

	var shipPos *world.Vec3
	if s.pos != nil {
		if p, ok := s.pos.Position(); ok {
			shipPos = &p
		}
	}

	start := time.Now()
	s.tracker.CheckDiscoveryRadius(shipPos)
	if s.met != nil {
		s.met.ScanDuration.Observe(time.Since(start).Seconds())
		s.met.ObjectsTracked.Set(float64(s.wld.ObjectCount()))
		s.met.ObjectsFound.Set(float64(s.tracker.DiscoveredCount()))
	}
}
