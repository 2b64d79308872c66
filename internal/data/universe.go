package data

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ObjectEntry is one catalog body as declared in the universe YAML.
// Position is [x, y, z] in kilometers.
type ObjectEntry struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Kind        string     `yaml:"kind"` // star, planet, moon, station, beacon
	Faction     string     `yaml:"faction"`
	Position    [3]float64 `yaml:"position"`
	Description string     `yaml:"description,omitempty"`
}

// SectorEntry groups the objects generated for one sector of the universe.
type SectorEntry struct {
	Name    string        `yaml:"name"`
	Objects []ObjectEntry `yaml:"objects"`
}

type universeFile struct {
	Sectors []SectorEntry `yaml:"sectors"`
}

// Universe holds the static object catalog indexed by id and by sector.
type Universe struct {
	sectors  []SectorEntry
	bySector map[string]*SectorEntry
	byID     map[string]*ObjectEntry
}

// LoadUniverse loads the universe catalog from a YAML file. Ids must be
// unique across the whole file and positions must be finite; a malformed
// catalog fails the load rather than defaulting silently.
func LoadUniverse(path string) (*Universe, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}
	var f universeFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse universe: %w", err)
	}

	u := &Universe{
		sectors:  f.Sectors,
		bySector: make(map[string]*SectorEntry, len(f.Sectors)),
		byID:     make(map[string]*ObjectEntry),
	}
	for i := range u.sectors {
		sec := &u.sectors[i]
		if sec.Name == "" {
			return nil, fmt.Errorf("universe: sector %d has no name", i)
		}
		if _, dup := u.bySector[sec.Name]; dup {
			return nil, fmt.Errorf("universe: duplicate sector %q", sec.Name)
		}
		u.bySector[sec.Name] = sec
		for j := range sec.Objects {
			obj := &sec.Objects[j]
			if obj.ID == "" {
				return nil, fmt.Errorf("universe: sector %q object %d has no id", sec.Name, j)
			}
			if _, dup := u.byID[obj.ID]; dup {
				return nil, fmt.Errorf("universe: duplicate object id %q", obj.ID)
			}
			for _, c := range obj.Position {
				if math.IsNaN(c) || math.IsInf(c, 0) {
					return nil, fmt.Errorf("universe: object %q has non-finite position", obj.ID)
				}
			}
			u.byID[obj.ID] = obj
		}
	}
	return u, nil
}

// Get returns an object entry by id, or nil if not found.
func (u *Universe) Get(id string) *ObjectEntry {
	return u.byID[id]
}

// Sector returns the objects of one sector, or nil for an unknown sector.
func (u *Universe) Sector(name string) []ObjectEntry {
	sec := u.bySector[name]
	if sec == nil {
		return nil
	}
	return sec.Objects
}

// SectorNames returns sector names in file order.
func (u *Universe) SectorNames() []string {
	names := make([]string, len(u.sectors))
	for i := range u.sectors {
		names[i] = u.sectors[i].Name
	}
	return names
}

// Count returns the total number of catalog objects.
func (u *Universe) Count() int {
	return len(u.byID)
}

// SectorCount returns the number of sectors.
func (u *Universe) SectorCount() int {
	return len(u.sectors)
}
