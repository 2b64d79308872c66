package event

import "time"

// ObjectDiscovered is emitted by the discovery tracker when an object
// transitions from undiscovered to discovered. Consumed by the notifier
// (HUD log line, Lua hook) and metrics.
type ObjectDiscovered struct {
	ObjectID string
	Method   string
	Source   string
	Distance float64 // km from the ship at discovery time; 0 for bulk/manual paths
	At       time.Time
}

// SectorLoaded is emitted after a sector's catalog objects are (re)built
// into the spatial grid.
type SectorLoaded struct {
	Sector string
	Count  int
}
