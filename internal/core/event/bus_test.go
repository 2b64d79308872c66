package event

import "testing"

type testEvent struct {
	n int
}

func TestEventsVisibleNextTick(t *testing.T) {
	bus := NewBus()
	var seen []int
	Subscribe(bus, func(ev testEvent) { seen = append(seen, ev.n) })

	Emit(bus, testEvent{n: 1})
	bus.Dispatch()
	if len(seen) != 0 {
		t.Fatal("event must not be visible in the tick it was emitted")
	}

	bus.SwapBuffers()
	bus.Dispatch()
	if len(seen) != 1 || seen[0] != 1 {
		t.Fatalf("expected [1] after swap, got %v", seen)
	}

	// Next swap clears it; no redelivery.
	bus.SwapBuffers()
	bus.Dispatch()
	if len(seen) != 1 {
		t.Fatalf("event redelivered: %v", seen)
	}
}

func TestMultipleHandlers(t *testing.T) {
	bus := NewBus()
	calls := 0
	Subscribe(bus, func(testEvent) { calls++ })
	Subscribe(bus, func(testEvent) { calls++ })

	Emit(bus, testEvent{})
	Emit(bus, testEvent{})
	bus.SwapBuffers()
	bus.Dispatch()

	if calls != 4 {
		t.Fatalf("expected 2 events x 2 handlers = 4 calls, got %d", calls)
	}
}

func TestUnsubscribedTypeIsIgnored(t *testing.T) {
	bus := NewBus()
	Emit(bus, testEvent{})
	bus.SwapBuffers()
	bus.Dispatch() // must not panic with no handlers registered
}
