package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/thoracle/starcharts/internal/charts"
	"github.com/thoracle/starcharts/internal/config"
	"github.com/thoracle/starcharts/internal/core/event"
	coresys "github.com/thoracle/starcharts/internal/core/system"
	"github.com/thoracle/starcharts/internal/data"
	"github.com/thoracle/starcharts/internal/discovery"
	"github.com/thoracle/starcharts/internal/metrics"
	"github.com/thoracle/starcharts/internal/persist"
	"github.com/thoracle/starcharts/internal/scripting"
	"github.com/thoracle/starcharts/internal/sim"
	"github.com/thoracle/starcharts/internal/system"
	"github.com/thoracle/starcharts/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m           StarCharts  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     spatial discovery core · Go           \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1msession:\033[0m %s \033[90m(id: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main daemon logic ──────────────────────────────────────────────

func run() error {
	resetDiscovery := flag.Bool("reset-discovery", false, "wipe persisted discovery records before starting")
	flag.Parse()

	// 1. Load config
	cfgPath := "config/starcharts.toml"
	if p := os.Getenv("STARCHARTS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	// 3. Connect to PostgreSQL and run migrations
	printSection("database")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("PostgreSQL connected")

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("migrations applied")

	discoveryRepo := persist.NewDiscoveryRepo(db)
	if *resetDiscovery {
		if err := discoveryRepo.Reset(ctx); err != nil {
			return fmt.Errorf("reset discovery: %w", err)
		}
		printOK("discovery records wiped")
	}
	fmt.Println()

	// 4. Load universe catalog
	printSection("catalog")

	universe, err := data.LoadUniverse("data/yaml/universe.yaml")
	if err != nil {
		return fmt.Errorf("load universe: %w", err)
	}
	printStat("sectors", universe.SectorCount())
	printStat("objects", universe.Count())

	// 5. Build world state and seed the start sector
	bus := event.NewBus()
	wld := world.NewWorld(cfg.Grid.CellSizeKm)
	if err := loadSector(wld, bus, universe, cfg.Simulation.StartSector); err != nil {
		return fmt.Errorf("seed sector: %w", err)
	}
	printStat("objects in grid", wld.ObjectCount())

	// 6. Discovery tracker, restored from the last session
	tracker := discovery.NewTracker(wld, bus, cfg.Discovery.RadiusKm, log,
		discovery.WithDiscoverAll(cfg.Discovery.DiscoverAll))
	saved, err := discoveryRepo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("restore discoveries: %w", err)
	}
	tracker.Restore(saved)
	printStat("discoveries restored", len(saved))

	// 7. Lua discovery hooks
	luaEngine, err := scripting.NewEngine("scripts", log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("lua scripts loaded")
	fmt.Println()

	// 8. Metrics endpoint
	met := metrics.New()
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", met.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.BindAddress, mux); err != nil {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	// 9. Player ship and systems
	ship := sim.NewShip(
		world.Vec3{X: cfg.Simulation.ShipStart[0], Y: cfg.Simulation.ShipStart[1], Z: cfg.Simulation.ShipStart[2]},
		world.Vec3{X: cfg.Simulation.ShipVelocity[0], Y: cfg.Simulation.ShipVelocity[1], Z: cfg.Simulation.ShipVelocity[2]},
	)

	persistSys := system.NewPersistenceSystem(tracker, discoveryRepo, cfg.Simulation.FlushEveryTicks, log)
	system.NewNotifier(bus, wld, luaEngine, met, log)

	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewShipSystem(ship))
	runner.Register(system.NewDiscoverySystem(tracker, ship, wld, met, cfg.Simulation.ScanEveryTicks))
	runner.Register(persistSys)

	// 10. Simulation loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("session ready")
	printReady(fmt.Sprintf("start sector %s, discovery radius %.0f km", cfg.Simulation.StartSector, tracker.GetEffectiveDiscoveryRadius()))
	printReady(fmt.Sprintf("simulation loop started (tick: %s)", cfg.Simulation.TickRate))
	if cfg.Metrics.Enabled {
		printReady(fmt.Sprintf("metrics on http://%s/metrics", cfg.Metrics.BindAddress))
	}
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Simulation.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			persistSys.Flush()
			printChart(charts.NewIndex(wld, tracker))
			log.Info("session stopped",
				zap.Int("discovered", tracker.DiscoveredCount()),
				zap.Int("objects", wld.ObjectCount()))
			return nil
		}
	}
}

// loadSector rebuilds the world's spatial grid for one catalog sector.
func loadSector(wld *world.World, bus *event.Bus, universe *data.Universe, sector string) error {
	entries := universe.Sector(sector)
	if entries == nil {
		return fmt.Errorf("unknown sector %q", sector)
	}
	objs := make([]*world.Object, len(entries))
	for i := range entries {
		e := &entries[i]
		objs[i] = &world.Object{
			ID:      e.ID,
			Name:    e.Name,
			Kind:    e.Kind,
			Faction: e.Faction,
			Position: world.Vec3{
				X: e.Position[0],
				Y: e.Position[1],
				Z: e.Position[2],
			},
		}
	}
	if err := wld.LoadSector(sector, objs); err != nil {
		return err
	}
	event.Emit(bus, event.SectorLoaded{Sector: sector, Count: len(objs)})
	return nil
}

// printChart dumps the discovered chart at shutdown.
func printChart(ix *charts.Index) {
	entries := ix.Discovered()
	if len(entries) == 0 {
		return
	}
	printSection("star chart")
	for _, e := range entries {
		fmt.Printf("  %-24s \033[90m%-8s %-6s %s\033[0m\n", e.Name, e.Kind, e.Sector, e.Method)
	}
	fmt.Println()
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
