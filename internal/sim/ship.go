package sim

import (
	"time"

	"github.com/thoracle/starcharts/internal/world"
)

// Ship is the player position provider: a point mass advanced along a
// constant-velocity course each tick. The real client feeds camera/ship
// coordinates here; the daemon flies this stand-in instead.
type Ship struct {
	pos   world.Vec3
	vel   world.Vec3 // km/s
	ready bool
}

func NewShip(start, velocity world.Vec3) *Ship {
	return &Ship{pos: start, vel: velocity, ready: true}
}

// Advance integrates the course over dt.
func (s *Ship) Advance(dt time.Duration) {
	s.pos = s.pos.Add(s.vel.Scale(dt.Seconds()))
}

// Position returns the current ship position. ok is false while no
// position is available (early initialization), and callers are expected
// to skip their tick rather than fail.
func (s *Ship) Position() (world.Vec3, bool) {
	return s.pos, s.ready
}

// SetCourse replaces position and velocity (sector jump, debug teleport).
func (s *Ship) SetCourse(start, velocity world.Vec3) {
	s.pos = start
	s.vel = velocity
	s.ready = true
}
