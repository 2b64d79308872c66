package system

import (
	"go.uber.org/zap"

	"github.com/thoracle/starcharts/internal/core/event"
	"github.com/thoracle/starcharts/internal/discovery"
	"github.com/thoracle/starcharts/internal/metrics"
	"github.com/thoracle/starcharts/internal/scripting"
	"github.com/thoracle/starcharts/internal/world"
)

// Notifier consumes ObjectDiscovered events: it logs the contact, runs the
// Lua on_discovery hook for announcement text, and feeds the counters.
// Registered as a bus subscriber; it runs inside event dispatch (Phase 0),
// one tick after the discovery happened.
type Notifier struct {
	wld *world.World
	lua *scripting.Engine
	met *metrics.Metrics
	log *zap.Logger
}

func NewNotifier(bus *event.Bus, wld *world.World, lua *scripting.Engine, met *metrics.Metrics, log *zap.Logger) *Notifier {
	n := &Notifier{wld: wld, lua: lua, met: met, log: log}
	event.Subscribe(bus, n.onDiscovered)
	event.Subscribe(bus, n.onSectorLoaded)
	return n
}

func (n *Notifier) onDiscovered(ev event.ObjectDiscovered) {
	if n.met != nil {
		n.met.DiscoveriesTotal.WithLabelValues(ev.Method).Inc()
	}

	// The object may have been torn down between discovery and dispatch;
	// its record stands either way.
	name, kind, faction, sector := ev.ObjectID, "", "", ""
	if obj := n.wld.Get(ev.ObjectID); obj != nil {
		name, kind, faction, sector = obj.Name, obj.Kind, obj.Faction, obj.Sector
	}

	announcement := scripting.DefaultAnnouncement(name)
	missionFlag := false
	if n.lua != nil {
		res := n.lua.RunDiscoveryHook(scripting.DiscoveryContext{
			ObjectID: ev.ObjectID,
			Name:     name,
			Kind:     kind,
			Faction:  faction,
			Sector:   sector,
			Method:   ev.Method,
			Distance: ev.Distance,
		})
		announcement = res.Announcement
		missionFlag = res.MissionFlag
	}

	fields := []zap.Field{
		zap.String("object", ev.ObjectID),
		zap.String("method", ev.Method),
		zap.String("source", ev.Source),
	}
	if ev.Method == discovery.MethodProximity {
		fields = append(fields, zap.Float64("distance_km", ev.Distance))
	}
	if missionFlag {
		fields = append(fields, zap.Bool("mission", true))
	}
	n.log.Info(announcement, fields...)
}

func (n *Notifier) onSectorLoaded(ev event.SectorLoaded) {
	n.log.Info("sector charted",
		zap.String("sector", ev.Sector),
		zap.Int("objects", ev.Count))
}
