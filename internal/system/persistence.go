package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/thoracle/starcharts/internal/core/system"
	"github.com/thoracle/starcharts/internal/discovery"
	"github.com/thoracle/starcharts/internal/persist"
)

// PersistenceSystem flushes newly queued discovery records on a slow
// cadence. Phase 3 (Persist). A failed flush requeues the batch and retries
// on the next cadence tick.
type PersistenceSystem struct {
	tracker *discovery.Tracker
	repo    *persist.DiscoveryRepo
	log     *zap.Logger

	flushEvery int
	ticks      int
}

func NewPersistenceSystem(tracker *discovery.Tracker, repo *persist.DiscoveryRepo, flushEvery int, log *zap.Logger) *PersistenceSystem {
	if flushEvery < 1 {
		flushEvery = 1
	}
	return &PersistenceSystem{
		tracker:    tracker,
		repo:       repo,
		log:        log,
		flushEvery: flushEvery,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.ticks++
	if s.ticks < s.flushEvery {
		return
	}
	s.ticks = 0
	s.Flush()
}

// Flush writes all pending records now. Also called once at shutdown.
func (s *PersistenceSystem) Flush() {
	recs := s.tracker.DrainPending()
	if len(recs) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.SaveRecords(ctx, recs); err != nil {
		s.log.Error("flush discovery records failed", zap.Int("count", len(recs)), zap.Error(err))
		s.tracker.Requeue(recs)
		return
	}
	s.log.Debug("flushed discovery records", zap.Int("count", len(recs)))
}
