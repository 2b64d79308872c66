package system

import (
	"time"

	"github.com/thoracle/starcharts/internal/core/event"
	coresys "github.com/thoracle/starcharts/internal/core/system"
)

// EventDispatchSystem rotates the event bus buffers at tick start and
// delivers last tick's events to subscribers.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.Dispatch()
}
