package world

// World tracks every catalog object currently loaded into the session:
// an id index plus the spatial grid, grouped by sector so sector
// transitions can rebuild in bulk. One instance per game session, passed
// explicitly to whichever subsystem needs it — never a package global.
// Single-goroutine access only (simulation loop).
type World struct {
	byID    map[string]*Object
	grid    *SpatialGrid
	sectors map[string]map[string]struct{} // sector name → ids loaded from it

	// Reusable proximity query buffer (simulation loop is single threaded).
	queryBuf []*Object
}

func NewWorld(cellSize float64) *World {
	return &World{
		byID:    make(map[string]*Object),
		grid:    NewSpatialGrid(cellSize),
		sectors: make(map[string]map[string]struct{}),
	}
}

// AddObject registers an object and places it in the spatial grid.
// Re-adding an existing id replaces it (grid insert is an upsert).
func (w *World) AddObject(obj *Object) error {
	if err := w.grid.Insert(obj); err != nil {
		return err
	}
	if old, ok := w.byID[obj.ID]; ok && old.Sector != obj.Sector {
		w.dropFromSector(old.Sector, obj.ID)
	}
	w.byID[obj.ID] = obj
	ids := w.sectors[obj.Sector]
	if ids == nil {
		ids = make(map[string]struct{})
		w.sectors[obj.Sector] = ids
	}
	ids[obj.ID] = struct{}{}
	return nil
}

// RemoveObject takes an object out of the world (destroyed, despawned).
// No-op for unknown ids.
func (w *World) RemoveObject(id string) {
	obj, ok := w.byID[id]
	if !ok {
		return
	}
	w.grid.Remove(id)
	delete(w.byID, id)
	w.dropFromSector(obj.Sector, id)
}

func (w *World) dropFromSector(sector, id string) {
	ids := w.sectors[sector]
	if ids != nil {
		delete(ids, id)
		if len(ids) == 0 {
			delete(w.sectors, sector)
		}
	}
}

// Get returns an object by id, or nil.
func (w *World) Get(id string) *Object {
	return w.byID[id]
}

// ObjectCount returns the number of loaded objects.
func (w *World) ObjectCount() int {
	return len(w.byID)
}

// AllObjects iterates every loaded object.
func (w *World) AllObjects(fn func(*Object)) {
	for _, obj := range w.byID {
		fn(obj)
	}
}

// LoadSector replaces a sector's objects wholesale: everything previously
// loaded under that sector name is dropped, then the new set is inserted.
// Sector regeneration is infrequent, so a full rebuild beats diffing.
func (w *World) LoadSector(sector string, objs []*Object) error {
	w.UnloadSector(sector)
	for _, obj := range objs {
		obj.Sector = sector
		if err := w.AddObject(obj); err != nil {
			return err
		}
	}
	return nil
}

// UnloadSector removes every object loaded under the sector name.
// Discovery records are NOT touched: discovery persists per session,
// not per sector.
func (w *World) UnloadSector(sector string) {
	for id := range w.sectors[sector] {
		w.grid.Remove(id)
		delete(w.byID, id)
	}
	delete(w.sectors, sector)
}

// Nearby returns all objects within radius km of pos.
func (w *World) Nearby(pos Vec3, radius float64) []*Object {
	return w.grid.QueryRadius(pos, radius)
}

// NearbyInto is Nearby using the world's reusable query buffer. The
// returned slice is only valid until the next NearbyInto call.
func (w *World) NearbyInto(pos Vec3, radius float64) []*Object {
	w.queryBuf = w.grid.QueryRadiusInto(pos, radius, w.queryBuf)
	return w.queryBuf
}

// Grid exposes the spatial grid for callers with non-discovery radii
// (targeting cycles, map panes).
func (w *World) Grid() *SpatialGrid {
	return w.grid
}
