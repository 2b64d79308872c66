package world

import (
	"fmt"
	"math"
)

// SpatialGrid is a uniform hash grid over 3D positions used for
// "what is near this point" queries without a full-catalog scan.
// Cells are cubes of cellSize km; an object lives in exactly one cell,
// determined by floor(coord / cellSize) per axis.
// Accessed only from the simulation goroutine — no locks.

// DefaultCellSizeKm is the grid cell edge length used when no size is configured.
const DefaultCellSizeKm = 50.0

// queryCellMargin widens the broad-phase cell cube beyond ceil(radius/cellSize).
// Covers objects sitting right at a cell edge whose cell would otherwise fall
// outside the cube even though the object itself is within the query radius.
const queryCellMargin = 2

type cellKey struct {
	cx, cy, cz int32
}

func toCellCoord(v, cellSize float64) int32 {
	return int32(math.Floor(v / cellSize))
}

type SpatialGrid struct {
	cellSize float64
	cells    map[cellKey]map[string]*Object
	index    map[string]cellKey // id → occupied cell, for O(1) removal
}

func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = DefaultCellSizeKm
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[string]*Object),
		index:    make(map[string]cellKey),
	}
}

func (g *SpatialGrid) key(p Vec3) cellKey {
	return cellKey{
		cx: toCellCoord(p.X, g.cellSize),
		cy: toCellCoord(p.Y, g.cellSize),
		cz: toCellCoord(p.Z, g.cellSize),
	}
}

// Insert places an object into the cell matching its position.
// Insert is an upsert: a second insert with the same ID replaces the old
// entry, so redundant grid refreshes never leave duplicates behind.
// Non-finite positions are rejected at this boundary rather than defaulted.
func (g *SpatialGrid) Insert(obj *Object) error {
	if obj == nil || obj.ID == "" {
		return fmt.Errorf("spatial grid: insert requires an object with an id")
	}
	if !obj.Position.IsFinite() {
		return fmt.Errorf("spatial grid: object %s has non-finite position %+v", obj.ID, obj.Position)
	}
	if _, ok := g.index[obj.ID]; ok {
		g.Remove(obj.ID)
	}
	k := g.key(obj.Position)
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[string]*Object)
		g.cells[k] = cell
	}
	cell[obj.ID] = obj
	g.index[obj.ID] = k
	return nil
}

// Remove takes an object out of the grid. No-op when the id is unknown.
func (g *SpatialGrid) Remove(id string) {
	k, ok := g.index[id]
	if !ok {
		return
	}
	delete(g.index, id)
	cell := g.cells[k]
	if cell != nil {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, k)
		}
	}
}

// Contains reports whether an object with the given id is in the grid.
func (g *SpatialGrid) Contains(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Len returns the number of objects currently in the grid.
func (g *SpatialGrid) Len() int {
	return len(g.index)
}

// Clear drops every object. Used for full rebuilds on sector regeneration.
func (g *SpatialGrid) Clear() {
	clear(g.cells)
	clear(g.index)
}

// QueryRadius returns every object within radius km of center.
// Broad phase: enumerate the cube of cells around center's cell.
// Narrow phase: exact Euclidean distance. Result order is unspecified.
// A radius <= 0 matches only objects exactly at center.
func (g *SpatialGrid) QueryRadius(center Vec3, radius float64) []*Object {
	return g.QueryRadiusInto(center, radius, nil)
}

// QueryRadiusInto is QueryRadius appending into a reused buffer, so the
// per-tick discovery scan allocates nothing in steady state.
// A non-finite center cannot map to a cell, so the query answers empty.
// Positions are validated at Insert; a bad center is a caller bug, not
// grid state, and the read path stays error-free.
func (g *SpatialGrid) QueryRadiusInto(center Vec3, radius float64, buf []*Object) []*Object {
	buf = buf[:0]
	if !center.IsFinite() {
		return buf
	}
	if radius < 0 {
		radius = 0
	}
	cellRadius := math.Ceil(radius/g.cellSize) + queryCellMargin
	ck := g.key(center)
	radiusSq := radius * radius

	// The cell cube grows cubically with the radius while occupancy is
	// bounded by the object count, so wide queries walk the occupied cells
	// instead of enumerating mostly-empty cube positions.
	if math.Pow(2*cellRadius+1, 3) > float64(len(g.cells)) {
		for k, cell := range g.cells {
			if cellDist(k, ck) > cellRadius {
				continue
			}
			for _, obj := range cell {
				if obj.Position.DistSq(center) <= radiusSq {
					buf = append(buf, obj)
				}
			}
		}
		return buf
	}

	cr := int32(cellRadius)
	for dx := -cr; dx <= cr; dx++ {
		for dy := -cr; dy <= cr; dy++ {
			for dz := -cr; dz <= cr; dz++ {
				k := cellKey{cx: ck.cx + dx, cy: ck.cy + dy, cz: ck.cz + dz}
				cell := g.cells[k]
				if len(cell) == 0 {
					continue
				}
				for _, obj := range cell {
					if obj.Position.DistSq(center) <= radiusSq {
						buf = append(buf, obj)
					}
				}
			}
		}
	}
	return buf
}

// cellDist is the Chebyshev distance between two cell keys.
func cellDist(a, b cellKey) float64 {
	dx := math.Abs(float64(int64(a.cx) - int64(b.cx)))
	dy := math.Abs(float64(int64(a.cy) - int64(b.cy)))
	dz := math.Abs(float64(int64(a.cz) - int64(b.cz)))
	return math.Max(dx, math.Max(dy, dz))
}
