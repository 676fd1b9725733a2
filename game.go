package main

import (
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/milk9111/ponder/common"
	"github.com/milk9111/ponder/config"
	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
	"github.com/milk9111/ponder/ecs/render"
	"github.com/milk9111/ponder/ecs/system"
	"github.com/milk9111/ponder/metrics"
	"github.com/milk9111/ponder/prefabs"
)

// watchDirs are the on-disk sources the viewer reloads from while running.
var watchDirs = []string{"prefabs", "prefabs/scripts", "levels"}

type Game struct {
	frames int

	world       *ecs.World
	pondering   *system.PonderingSystem
	persistence *system.PersistenceSystem
	scripts     *system.EventScriptSystem
	renderer    *render.RenderSystem
	overlay     *render.DebugOverlay

	watcher   *prefabs.Watcher
	pauseUI   *ebitenui.UI
	clipboard bool

	debug  bool
	paused bool
	quit   bool
}

func NewGame(cfg *config.Config, rec metrics.Recorder, watch bool) (*Game, error) {
	phys := cfg.Physics.Resolved()
	pondering := system.NewPonderingSystem(system.PonderingConfig{
		TickRate:         phys.TickRate,
		Gravity:          phys.Gravity,
		TerminalVelocity: phys.TerminalVelocity,
	})
	ebiten.SetTPS(int(phys.TickRate))

	overlay, err := render.NewDebugOverlay(pondering)
	if err != nil {
		return nil, err
	}

	g := &Game{
		world:       ecs.NewWorld(),
		pondering:   pondering,
		persistence: system.NewPersistenceSystem(cfg.Game.GetStartLevel(), nil),
		scripts:     system.NewEventScriptSystem(nil),
		renderer:    render.NewRenderSystem(),
		overlay:     overlay,
		debug:       cfg.Game.Debug,
	}
	g.pauseUI = NewPauseUI(g)

	pondering.Attach(g.world)
	g.world.AddSystem(g.persistence)
	g.world.AddSystem(NewInputSystem())
	g.world.AddSystem(system.NewPlayerControllerSystem())
	g.world.AddSystem(system.NewDropSystem())
	// Scripts bind their callbacks before the tick and run them after it.
	g.world.AddSystem(g.scripts)
	g.world.AddSystem(pondering)
	g.world.AddSystem(g.scripts)
	g.world.AddSystem(system.NewMetricsSystem(rec, pondering))
	g.world.AddSystem(system.NewRespawnSystem())
	g.world.AddSystem(system.NewCameraSystem(common.BaseWidth, common.BaseHeight, 0.85))

	if watch {
		w, err := prefabs.NewWatcher(watchDirs...)
		if err != nil {
			log.Printf("watch disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboard = true
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.frames++
	g.handleHotkeys()
	g.drainWatcher()
	g.world.Update()
	return nil
}

func (g *Game) handleHotkeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.requestReload()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF6) {
		g.requestReset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) && g.clipboard {
		clipboard.Write(clipboard.FmtText, []byte(system.DebugText(g.world, g.pondering, ebiten.ActualTPS())))
	}
}

func (g *Game) requestReload() {
	e := ecs.CreateEntity(g.world)
	_ = ecs.Add(g.world, e, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{})
}

func (g *Game) requestReset() {
	e := ecs.CreateEntity(g.world)
	_ = ecs.Add(g.world, e, component.ResetToInitialLevelRequestComponent.Kind(), &component.ResetToInitialLevelRequest{})
}

// drainWatcher applies file edits seen since the last frame. Script edits
// only drop the compiled cache; prefab and level edits rebuild the level.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	reload := false
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			switch prefabs.FileKind(path) {
			case prefabs.KindScript:
				g.scripts.Invalidate(prefabs.ScriptName(path))
			case prefabs.KindPrefab, prefabs.KindLevel:
				reload = true
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("watch: %v", err)
		default:
			if reload {
				g.requestReload()
			}
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(g.world, screen)
	if g.debug {
		g.overlay.Draw(g.world, screen)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
