package discovery

import (
	"testing"
	"time"

	"github.com/thoracle/starcharts/internal/core/event"
	"github.com/thoracle/starcharts/internal/world"
)

func testWorld(t *testing.T, objs ...*world.Object) *world.World {
	t.Helper()
	w := world.NewWorld(50)
	for _, obj := range objs {
		if obj.Sector == "" {
			obj.Sector = "A0"
		}
		if err := w.AddObject(obj); err != nil {
			t.Fatalf("add %s: %v", obj.ID, err)
		}
	}
	return w
}

func TestFirstDiscoveryWins(t *testing.T) {
	tr := NewTracker(testWorld(t), nil, 10, nil)

	if !tr.AddDiscoveredObject("terra", MethodManual, "debug_panel") {
		t.Fatal("first discovery must report a transition")
	}
	if tr.AddDiscoveredObject("terra", MethodProximity, "player") {
		t.Fatal("repeat discovery must be a no-op")
	}

	rec := tr.GetDiscoveryMetadata("terra")
	if rec == nil {
		t.Fatal("expected metadata for discovered object")
	}
	if rec.Method != MethodManual || rec.Source != "debug_panel" {
		t.Errorf("repeat call rewrote metadata: %+v", rec)
	}
}

func TestUnknownObjectReads(t *testing.T) {
	tr := NewTracker(testWorld(t), nil, 10, nil)
	if tr.IsDiscovered("ghost") {
		t.Error("unknown id must read as undiscovered")
	}
	if tr.GetDiscoveryMetadata("ghost") != nil {
		t.Error("unknown id must have nil metadata")
	}
}

func TestProximityPromotion(t *testing.T) {
	// The client's own manual test: Terra Prime at [149.6, 0, 0], player at
	// origin. Radius 100 must miss it, radius 150 must discover it.
	terra := &world.Object{ID: "terra_prime", Name: "Terra Prime", Kind: "planet", Position: world.Vec3{X: 149.6}}
	origin := world.Vec3{}

	tr := NewTracker(testWorld(t, terra), nil, 100, nil)
	if got := tr.CheckDiscoveryRadius(&origin); len(got) != 0 {
		t.Fatalf("radius 100: expected no discoveries, got %v", got)
	}
	if tr.IsDiscovered("terra_prime") {
		t.Fatal("object at 149.6 km must stay undiscovered with radius 100")
	}

	terra2 := &world.Object{ID: "terra_prime", Name: "Terra Prime", Kind: "planet", Position: world.Vec3{X: 149.6}}
	tr = NewTracker(testWorld(t, terra2), nil, 150, nil)
	got := tr.CheckDiscoveryRadius(&origin)
	if len(got) != 1 || got[0] != "terra_prime" {
		t.Fatalf("radius 150: expected [terra_prime], got %v", got)
	}
	rec := tr.GetDiscoveryMetadata("terra_prime")
	if rec == nil || rec.Method != MethodProximity || rec.Source != "player" {
		t.Errorf("proximity discovery metadata wrong: %+v", rec)
	}

	// Second pass with the player still in range reports nothing new.
	if got := tr.CheckDiscoveryRadius(&origin); len(got) != 0 {
		t.Errorf("repeat scan must return no newly discovered ids, got %v", got)
	}
}

func TestCheckWithoutPositionIsNoop(t *testing.T) {
	obj := &world.Object{ID: "near", Position: world.Vec3{X: 1}}
	tr := NewTracker(testWorld(t, obj), nil, 10, nil)

	if got := tr.CheckDiscoveryRadius(nil); got != nil {
		t.Errorf("nil position: expected nil, got %v", got)
	}
	if tr.IsDiscovered("near") {
		t.Error("nothing may be discovered while the position provider is missing")
	}
}

func TestDiscoverAllOverride(t *testing.T) {
	far := &world.Object{ID: "far", Position: world.Vec3{X: 1e9}}
	near := &world.Object{ID: "near", Position: world.Vec3{X: 1}}
	tr := NewTracker(testWorld(t, far, near), nil, 10, nil, WithDiscoverAll(true))

	pos := world.Vec3{}
	got := tr.CheckDiscoveryRadius(&pos)
	if len(got) != 2 {
		t.Fatalf("discover-all: expected 2 transitions, got %v", got)
	}
	for _, id := range []string{"far", "near"} {
		rec := tr.GetDiscoveryMetadata(id)
		if rec == nil || rec.Method != MethodOverride {
			t.Errorf("%s: expected %s record, got %+v", id, MethodOverride, rec)
		}
	}
	// The bulk path also works without a position.
	tr.ResetDiscoveryState()
	if got := tr.CheckDiscoveryRadius(nil); len(got) != 2 {
		t.Errorf("discover-all without position: expected 2 transitions, got %v", got)
	}
}

func TestDiscoveryPersistsAcrossSectorRebuild(t *testing.T) {
	beacon := &world.Object{ID: "b1_beacon", Kind: "beacon", Sector: "B1", Position: world.Vec3{X: 1}}
	w := testWorld(t, beacon)
	tr := NewTracker(w, nil, 10, nil)

	pos := world.Vec3{}
	tr.CheckDiscoveryRadius(&pos)
	if !tr.IsDiscovered("b1_beacon") {
		t.Fatal("setup: beacon must be discovered")
	}

	// Rebuilding the sector empty must not clear the record.
	if err := w.LoadSector("B1", nil); err != nil {
		t.Fatal(err)
	}
	if !tr.IsDiscovered("b1_beacon") {
		t.Error("sector rebuild must leave discovery records intact")
	}

	// Neither must a plain unload.
	w.UnloadSector("B1")
	rec := tr.GetDiscoveryMetadata("b1_beacon")
	if rec == nil || rec.Method != MethodProximity {
		t.Errorf("record must survive sector unload, got %+v", rec)
	}

	// When the object comes back, the original record still wins.
	back := &world.Object{ID: "b1_beacon", Kind: "beacon", Sector: "B1", Position: world.Vec3{X: 1}}
	if err := w.AddObject(back); err != nil {
		t.Fatal(err)
	}
	if got := tr.CheckDiscoveryRadius(&pos); len(got) != 0 {
		t.Errorf("re-loaded object must not transition again, got %v", got)
	}
}

func TestResetDiscoveryState(t *testing.T) {
	tr := NewTracker(testWorld(t), nil, 10, nil)
	tr.AddDiscoveredObject("a", MethodManual, "test")
	tr.AddDiscoveredObject("b", MethodManual, "test")

	tr.ResetDiscoveryState()
	if tr.DiscoveredCount() != 0 || tr.IsDiscovered("a") {
		t.Error("reset must clear all records")
	}
	if tr.DrainPending() != nil {
		t.Error("reset must clear the pending queue")
	}
}

func TestPendingDrainAndRequeue(t *testing.T) {
	tr := NewTracker(testWorld(t), nil, 10, nil)
	tr.AddDiscoveredObject("a", MethodManual, "test")
	tr.AddDiscoveredObject("b", MethodManual, "test")

	recs := tr.DrainPending()
	if len(recs) != 2 {
		t.Fatalf("expected 2 pending records, got %d", len(recs))
	}
	if tr.DrainPending() != nil {
		t.Fatal("second drain must be empty")
	}

	tr.Requeue(recs)
	if got := tr.DrainPending(); len(got) != 2 {
		t.Errorf("requeued records must drain again, got %d", len(got))
	}
}

func TestRestoreDoesNotRequeueOrEmit(t *testing.T) {
	bus := event.NewBus()
	var events []event.ObjectDiscovered
	event.Subscribe(bus, func(ev event.ObjectDiscovered) { events = append(events, ev) })

	tr := NewTracker(testWorld(t), bus, 10, nil)
	tr.Restore([]Record{
		{ObjectID: "a", DiscoveredAt: time.Unix(100, 0), Method: MethodProximity, Source: "player"},
	})

	if !tr.IsDiscovered("a") {
		t.Fatal("restored record must read as discovered")
	}
	if tr.DrainPending() != nil {
		t.Error("restore must not queue records for a re-save")
	}
	bus.SwapBuffers()
	bus.Dispatch()
	if len(events) != 0 {
		t.Error("restore must not emit discovery events")
	}

	// Restored metadata wins over later discovery attempts.
	tr.AddDiscoveredObject("a", MethodManual, "test")
	if rec := tr.GetDiscoveryMetadata("a"); rec.Method != MethodProximity {
		t.Errorf("restored record must not be overwritten, got %+v", rec)
	}
}

func TestDiscoveryEmitsEvent(t *testing.T) {
	bus := event.NewBus()
	var events []event.ObjectDiscovered
	event.Subscribe(bus, func(ev event.ObjectDiscovered) { events = append(events, ev) })

	obj := &world.Object{ID: "hermes", Name: "Hermes Refinery", Kind: "station", Position: world.Vec3{X: 6, Y: 8}}
	tr := NewTracker(testWorld(t, obj), bus, 10, nil)

	pos := world.Vec3{}
	tr.CheckDiscoveryRadius(&pos)
	bus.SwapBuffers()
	bus.Dispatch()

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.ObjectID != "hermes" || ev.Method != MethodProximity {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.Distance < 9.99 || ev.Distance > 10.01 {
		t.Errorf("expected distance ~10 km, got %v", ev.Distance)
	}
}

func TestEffectiveDiscoveryRadius(t *testing.T) {
	tr := NewTracker(testWorld(t), nil, 10, nil)
	if got := tr.GetEffectiveDiscoveryRadius(); got != 10 {
		t.Errorf("expected radius 10, got %v", got)
	}
}
