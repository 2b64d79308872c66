package world

import "math"

// Vec3 is a position in world space. Units are kilometers on every axis.
type Vec3 struct {
	X, Y, Z float64
}

// IsFinite reports whether all three components are real numbers.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// DistSq returns the squared Euclidean distance to other.
func (v Vec3) DistSq(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return dx*dx + dy*dy + dz*dz
}

// Dist returns the Euclidean distance to other.
func (v Vec3) Dist(other Vec3) float64 {
	return math.Sqrt(v.DistSq(other))
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Object is a single catalog body tracked by the spatial grid: a star,
// planet, station, beacon, or ship. Kind and the descriptive fields are
// opaque to the grid; only ID and Position matter for bucketing.
type Object struct {
	ID       string
	Name     string
	Kind     string // star, planet, moon, station, beacon, ship
	Faction  string
	Sector   string
	Position Vec3
}
