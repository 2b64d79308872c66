package system

import (
	"testing"
	"time"

	"github.com/thoracle/starcharts/internal/discovery"
	"github.com/thoracle/starcharts/internal/world"
)

type fixedPos struct {
	pos world.Vec3
	ok  bool
}

func (f *fixedPos) Position() (world.Vec3, bool) { return f.pos, f.ok }

func discoveryFixture(t *testing.T) (*world.World, *discovery.Tracker) {
	t.Helper()
	w := world.NewWorld(50)
	err := w.AddObject(&world.Object{ID: "beacon", Kind: "beacon", Sector: "A0", Position: world.Vec3{X: 5}})
	if err != nil {
		t.Fatal(err)
	}
	return w, discovery.NewTracker(w, nil, 10, nil)
}

func TestDiscoverySystemThrottlesScan(t *testing.T) {
	w, tr := discoveryFixture(t)
	sys := NewDiscoverySystem(tr, &fixedPos{ok: true}, w, nil, 3)

	dt := 200 * time.Millisecond
	sys.Update(dt)
	sys.Update(dt)
	if tr.IsDiscovered("beacon") {
		t.Fatal("scan must not run before the cadence tick")
	}
	sys.Update(dt)
	if !tr.IsDiscovered("beacon") {
		t.Fatal("scan must run on the cadence tick")
	}
}

func TestDiscoverySystemSkipsWithoutProvider(t *testing.T) {
	w, tr := discoveryFixture(t)

	// Provider not ready: the tick is a no-op, not a failure.
	sys := NewDiscoverySystem(tr, &fixedPos{ok: false}, w, nil, 1)
	sys.Update(time.Millisecond)
	if tr.IsDiscovered("beacon") {
		t.Error("nothing may be discovered while the provider reports not ready")
	}

	// No provider wired at all.
	sys = NewDiscoverySystem(tr, nil, w, nil, 1)
	sys.Update(time.Millisecond)
	if tr.IsDiscovered("beacon") {
		t.Error("nothing may be discovered without a position provider")
	}
}
