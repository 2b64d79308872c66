package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func newEngine(t *testing.T, script string) *Engine {
	t.Helper()
	dir := t.TempDir()
	if script != "" {
		if err := os.WriteFile(filepath.Join(dir, "discovery.lua"), []byte(script), 0644); err != nil {
			t.Fatal(err)
		}
	}
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestRunDiscoveryHook(t *testing.T) {
	e := newEngine(t, `
function on_discovery(ctx)
    return {
        announcement = string.format("%s charted at %.1f km", ctx.name, ctx.distance),
        mission_flag = ctx.faction == "crimson_fleet",
    }
end
`)
	res := e.RunDiscoveryHook(DiscoveryContext{
		ObjectID: "rig",
		Name:     "Vega Mining Rig 7",
		Faction:  "crimson_fleet",
		Method:   "proximity",
		Distance: 8.25,
	})
	if res.Announcement != "Vega Mining Rig 7 charted at 8.2 km" {
		t.Errorf("unexpected announcement %q", res.Announcement)
	}
	if !res.MissionFlag {
		t.Error("crimson_fleet contact must be mission flagged")
	}
}

func TestRunDiscoveryHookMissingFunction(t *testing.T) {
	e := newEngine(t, "")
	res := e.RunDiscoveryHook(DiscoveryContext{ObjectID: "x", Name: "Sol"})
	if res.Announcement != "Discovered: Sol" || res.MissionFlag {
		t.Errorf("expected neutral fallback, got %+v", res)
	}
}

func TestRunDiscoveryHookScriptError(t *testing.T) {
	e := newEngine(t, `
function on_discovery(ctx)
    error("boom")
end
`)
	res := e.RunDiscoveryHook(DiscoveryContext{ObjectID: "x", Name: "Sol"})
	if res.Announcement != "Discovered: Sol" {
		t.Errorf("script error must fall back, got %+v", res)
	}
}

func TestRunDiscoveryHookNonTableReturn(t *testing.T) {
	e := newEngine(t, `
function on_discovery(ctx)
    return 42
end
`)
	res := e.RunDiscoveryHook(DiscoveryContext{ObjectID: "x", Name: "Sol"})
	if res.Announcement != "Discovered: Sol" {
		t.Errorf("non-table return must fall back, got %+v", res)
	}
}
