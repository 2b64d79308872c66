package system

import (
	"time"

	coresys "github.com/thoracle/starcharts/internal/core/system"
	"github.com/thoracle/starcharts/internal/sim"
)

// ShipSystem advances the player ship along its course each tick.
type ShipSystem struct {
	ship *sim.Ship
}

func NewShipSystem(ship *sim.Ship) *ShipSystem {
	return &ShipSystem{ship: ship}
}

func (s *ShipSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ShipSystem) Update(dt time.Duration) {
	s.ship.Advance(dt)
}
