package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for discovery hooks: announcement
// text and mission tagging live in scripts so designers can tune them
// without a rebuild. Single-goroutine access only (simulation loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory. A missing directory is fine.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// DiscoveryContext holds pre-packed data for the on_discovery hook.
type DiscoveryContext struct {
	ObjectID string
	Name     string
	Kind     string
	Faction  string
	Sector   string
	Method   string
	Distance float64 // km from ship at discovery time
}

// DiscoveryResult is returned by the Lua on_discovery function.
type DiscoveryResult struct {
	Announcement string
	MissionFlag  bool // object is relevant to an active mission
}

// DefaultAnnouncement is the neutral discovery line used whenever no
// script shapes one: missing hook, script error, or no engine at all.
func DefaultAnnouncement(name string) string {
	return "Discovered: " + name
}

// RunDiscoveryHook calls the Lua on_discovery function. Script errors and
// a missing function degrade to a neutral default; the scan never fails
// because of a bad script.
func (e *Engine) RunDiscoveryHook(ctx DiscoveryContext) DiscoveryResult {
	fallback := DiscoveryResult{Announcement: DefaultAnnouncement(ctx.Name)}

	fn := e.vm.GetGlobal("on_discovery")
	if fn == lua.LNil {
		return fallback
	}

	t := e.vm.NewTable()
	t.RawSetString("object_id", lua.LString(ctx.ObjectID))
	t.RawSetString("name", lua.LString(ctx.Name))
	t.RawSetString("kind", lua.LString(ctx.Kind))
	t.RawSetString("faction", lua.LString(ctx.Faction))
	t.RawSetString("sector", lua.LString(ctx.Sector))
	t.RawSetString("method", lua.LString(ctx.Method))
	t.RawSetString("distance", lua.LNumber(ctx.Distance))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua on_discovery error", zap.Error(err))
		return fallback
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua on_discovery returned non-table")
		return fallback
	}

	res := DiscoveryResult{
		Announcement: lua.LVAsString(rt.RawGetString("announcement")),
		MissionFlag:  rt.RawGetString("mission_flag") == lua.LTrue,
	}
	if res.Announcement == "" {
		res.Announcement = fallback.Announcement
	}
	return res
}
