package charts

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/thoracle/starcharts/internal/discovery"
	"github.com/thoracle/starcharts/internal/world"
)

// Entry is one row of the star chart: a discovered object with its
// discovery metadata, ready for map/HUD rendering.
type Entry struct {
	ID           string
	Name         string
	Kind         string
	Sector       string
	Method       string
	DiscoveredAt string // RFC3339; the chart is a display surface
}

// Index shapes the tracker's discovered set into chart listings.
// Undiscovered objects never appear here; the map renders them as unknown.
type Index struct {
	wld     *world.World
	tracker *discovery.Tracker
	coll    *collate.Collator
}

func NewIndex(wld *world.World, tracker *discovery.Tracker) *Index {
	return &Index{
		wld:     wld,
		tracker: tracker,
		coll:    collate.New(language.English, collate.IgnoreCase),
	}
}

// Discovered returns every discovered, currently loaded object, ordered by
// display name (locale-aware, case-insensitive).
func (ix *Index) Discovered() []Entry {
	var entries []Entry
	ix.wld.AllObjects(func(obj *world.Object) {
		rec := ix.tracker.GetDiscoveryMetadata(obj.ID)
		if rec == nil {
			return
		}
		entries = append(entries, Entry{
			ID:           obj.ID,
			Name:         obj.Name,
			Kind:         obj.Kind,
			Sector:       obj.Sector,
			Method:       rec.Method,
			DiscoveredAt: rec.DiscoveredAt.Format(time.RFC3339),
		})
	})
	sort.SliceStable(entries, func(i, j int) bool {
		if c := ix.coll.CompareString(entries[i].Name, entries[j].Name); c != 0 {
			return c < 0
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}

// DisplayName returns the object's real name when discovered, "Unknown"
// otherwise. The targeting HUD calls this per reticle update.
func (ix *Index) DisplayName(objectID string) string {
	if !ix.tracker.IsDiscovered(objectID) {
		return "Unknown"
	}
	if obj := ix.wld.Get(objectID); obj != nil {
		return obj.Name
	}
	return "Unknown"
}
