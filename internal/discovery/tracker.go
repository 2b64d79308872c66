package discovery

import (
	"time"

	"go.uber.org/zap"

	"github.com/thoracle/starcharts/internal/core/event"
	"github.com/thoracle/starcharts/internal/world"
)

// Discovery methods recorded in metadata.
const (
	MethodProximity = "proximity"
	MethodManual    = "manual"
	MethodOverride  = "test-override"
)

// Record is the metadata kept for a discovered object. One record per
// object per session; the first discovery wins and later calls never
// rewrite it.
type Record struct {
	ObjectID     string
	DiscoveredAt time.Time
	Method       string
	Source       string
}

// Tracker owns the discovered/undiscovered partition of the catalog.
// All writes to discovery state go through AddDiscoveredObject — other
// components only read. Single-goroutine access (simulation loop).
//
// Discovery persists for the whole session/save: sector unloads and
// rebuilds leave records intact.
type Tracker struct {
	world   *world.World
	bus     *event.Bus
	log     *zap.Logger
	radius  float64 // effective discovery radius, km
	bulkAll bool    // discover-all debug override

	records map[string]*Record
	pending []*Record // records not yet flushed to storage

	now func() time.Time
}

type Option func(*Tracker)

// WithDiscoverAll enables the debug override: CheckDiscoveryRadius marks
// the entire catalog discovered in one bulk pass, bypassing the radius
// check. A separate code path, not a radius override.
func WithDiscoverAll(on bool) Option {
	return func(t *Tracker) { t.bulkAll = on }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func NewTracker(w *world.World, bus *event.Bus, radius float64, log *zap.Logger, opts ...Option) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Tracker{
		world:   w,
		bus:     bus,
		log:     log,
		radius:  radius,
		records: make(map[string]*Record),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// IsDiscovered reports whether the object has been discovered this session.
// Unknown ids are simply "not discovered".
func (t *Tracker) IsDiscovered(objectID string) bool {
	_, ok := t.records[objectID]
	return ok
}

// GetDiscoveryMetadata returns the record for a discovered object, or nil.
func (t *Tracker) GetDiscoveryMetadata(objectID string) *Record {
	return t.records[objectID]
}

// DiscoveredCount returns the number of discovered objects.
func (t *Tracker) DiscoveredCount() int {
	return len(t.records)
}

// AddDiscoveredObject marks an object discovered. Idempotent: if the object
// is already discovered this is a no-op and the original metadata stands.
// Returns true when the object transitioned on this call.
func (t *Tracker) AddDiscoveredObject(objectID, method, source string) bool {
	return t.add(objectID, method, source, 0)
}

func (t *Tracker) add(objectID, method, source string, distance float64) bool {
	if objectID == "" {
		return false
	}
	if _, ok := t.records[objectID]; ok {
		return false
	}
	rec := &Record{
		ObjectID:     objectID,
		DiscoveredAt: t.now(),
		Method:       method,
		Source:       source,
	}
	t.records[objectID] = rec
	t.pending = append(t.pending, rec)
	if t.bus != nil {
		event.Emit(t.bus, event.ObjectDiscovered{
			ObjectID: objectID,
			Method:   method,
			Source:   source,
			Distance: distance,
			At:       rec.DiscoveredAt,
		})
	}
	return true
}

// CheckDiscoveryRadius promotes undiscovered objects near the ship to
// discovered and returns the ids that transitioned on this call. A nil
// position means the position provider is not ready yet; the tick is a
// no-op rather than an error.
func (t *Tracker) CheckDiscoveryRadius(shipPos *world.Vec3) []string {
	if t.bulkAll {
		return t.discoverAll()
	}
	if shipPos == nil || !shipPos.IsFinite() {
		return nil
	}
	var newly []string
	for _, obj := range t.world.NearbyInto(*shipPos, t.radius) {
		if _, ok := t.records[obj.ID]; ok {
			continue
		}
		if t.add(obj.ID, MethodProximity, "player", obj.Position.Dist(*shipPos)) {
			newly = append(newly, obj.ID)
		}
	}
	return newly
}

// discoverAll is the bulk debug path: every loaded object becomes
// discovered immediately, regardless of distance.
func (t *Tracker) discoverAll() []string {
	var newly []string
	t.world.AllObjects(func(obj *world.Object) {
		if t.add(obj.ID, MethodOverride, "config", 0) {
			newly = append(newly, obj.ID)
		}
	})
	if len(newly) > 0 {
		t.log.Debug("discover-all override promoted objects", zap.Int("count", len(newly)))
	}
	return newly
}

// GetEffectiveDiscoveryRadius returns the radius used by the proximity scan, km.
func (t *Tracker) GetEffectiveDiscoveryRadius() float64 {
	return t.radius
}

// ResetDiscoveryState clears every record and the unflushed queue.
// Used on session reset and by debug tooling.
func (t *Tracker) ResetDiscoveryState() {
	clear(t.records)
	t.pending = t.pending[:0]
}

// Restore loads previously persisted records without queuing them for a
// re-save and without emitting events. Called once at session start.
func (t *Tracker) Restore(recs []Record) {
	for i := range recs {
		rec := recs[i]
		if rec.ObjectID == "" {
			continue
		}
		if _, ok := t.records[rec.ObjectID]; ok {
			continue
		}
		t.records[rec.ObjectID] = &rec
	}
}

// DrainPending hands off records awaiting persistence and clears the queue.
func (t *Tracker) DrainPending() []*Record {
	if len(t.pending) == 0 {
		return nil
	}
	out := t.pending
	t.pending = nil
	return out
}

// Requeue puts records back on the pending queue after a failed flush.
func (t *Tracker) Requeue(recs []*Record) {
	t.pending = append(recs, t.pending...)
}
