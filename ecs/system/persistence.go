package system

import (
	"fmt"
	"log"
	"math"

	"github.com/milk9111/ponder/common"
	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
	"github.com/milk9111/ponder/ecs/entity"
	"github.com/milk9111/ponder/levels"
)

type PersistenceMode int

const (
	PersistenceOnLevelChange PersistenceMode = iota
	PersistenceOnReload
)

// LevelLoader resolves a level name to its parsed definition.
type LevelLoader func(name string) (*levels.Level, error)

// PersistenceSystem owns the loaded level. It performs the initial load and
// rebuilds the world for reload, reset and level change requests, keeping the
// entities marked Persistent for the given mode.
type PersistenceSystem struct {
	levelName        string
	initialLevelName string
	load             LevelLoader
	initialized      bool
	loadSequence     uint64

	// Err is the most recent failed level change; the world is left as it was.
	Err error
}

func NewPersistenceSystem(initialLevelName string, load LevelLoader) *PersistenceSystem {
	if load == nil {
		load = levels.Load
	}
	return &PersistenceSystem{
		levelName:        initialLevelName,
		initialLevelName: initialLevelName,
		load:             load,
	}
}

// LevelName returns the name of the level currently loaded.
func (p *PersistenceSystem) LevelName() string {
	if p == nil {
		return ""
	}
	return p.levelName
}

func (p *PersistenceSystem) Update(w *ecs.World) {
	if p == nil || w == nil {
		return
	}

	if !p.initialized {
		if err := p.reload(w, p.levelName, PersistenceOnReload); err != nil {
			panic("persistence system: initial load failed: " + err.Error())
		}
		p.initialized = true
		return
	}

	if _, ok := ecs.First(w, component.ResetToInitialLevelRequestComponent.Kind()); ok {
		destroyAll(w, component.ResetToInitialLevelRequestComponent.Kind())
		if err := p.reload(w, p.initialLevelName, PersistenceOnReload); err != nil {
			panic("persistence system: reset-to-initial failed: " + err.Error())
		}
		return
	}

	if _, ok := ecs.First(w, component.ReloadRequestComponent.Kind()); ok {
		destroyAll(w, component.ReloadRequestComponent.Kind())
		if err := p.reload(w, p.levelName, PersistenceOnReload); err != nil {
			panic("persistence system: reload failed: " + err.Error())
		}
		return
	}

	if req, ok := firstLevelChangeRequest(w); ok {
		destroyAll(w, component.LevelChangeRequestComponent.Kind())
		if req.TargetLevel == "" {
			return
		}
		if err := p.changeLevel(w, req); err != nil {
			p.Err = err
			log.Printf("persistence: level change to %q: %v", req.TargetLevel, err)
		}
	}
}

func (p *PersistenceSystem) changeLevel(w *ecs.World, req component.LevelChangeRequest) error {
	if err := p.reload(w, req.TargetLevel, PersistenceOnLevelChange); err != nil {
		return err
	}

	mover := ecs.Entity(req.Entity)
	if !ecs.IsAlive(w, mover) {
		return nil
	}
	t, ok := ecs.Get(w, mover, component.TransformComponent.Kind())
	if !ok {
		return nil
	}
	geoEnt, ok := ecs.First(w, component.MapGeometryComponent.Kind())
	if !ok {
		return nil
	}
	geo, _ := ecs.Get(w, geoEnt, component.MapGeometryComponent.Kind())

	x, y := entryPosition(req, geo, t)
	t.X, t.Y = x, y
	ResetContacts(w, mover)
	if sr, ok := ecs.Get(w, mover, component.SafeRespawnComponent.Kind()); ok {
		*sr = component.SafeRespawn{X: x, Y: y, Initialized: true}
	} else {
		_ = ecs.Add(w, mover, component.SafeRespawnComponent.Kind(), &component.SafeRespawn{X: x, Y: y, Initialized: true})
	}
	return nil
}

// entryPosition re-anchors a warp's entry point to the target map: the body
// enters along the edge opposite the one it crossed, with the other
// coordinate kept and clamped into the map.
func entryPosition(req component.LevelChangeRequest, geo *component.MapGeometry, t *component.Transform) (float64, float64) {
	w, h := float64(t.Width), float64(t.Height)
	x, y := req.EntryX, req.EntryY
	switch req.Edge {
	case component.DirRight:
		x = 0
		y = clampEntry(y, geo.Height-h)
	case component.DirLeft:
		x = geo.Width - w
		y = clampEntry(y, geo.Height-h)
	case component.DirDown:
		y = 0
		x = clampEntry(x, geo.Width-w)
	case component.DirUp:
		y = geo.Height - h
		x = clampEntry(x, geo.Width-w)
	}
	return x, y
}

func clampEntry(v, hi float64) float64 {
	return common.Clamp(v, 0, math.Max(0, hi))
}

// reload loads name before pruning so a missing level leaves the world intact.
func (p *PersistenceSystem) reload(w *ecs.World, name string, mode PersistenceMode) error {
	lvl, err := p.load(name)
	if err != nil {
		return fmt.Errorf("load level %q: %w", name, err)
	}

	preferred := snapshotPersistentSingletons(w, mode)
	pruneForReload(w, mode)

	if _, err := entity.LoadLevelToWorld(w, levels.CleanName(name), lvl); err != nil {
		return err
	}
	resolvePersistentSingletons(w, preferred)

	if _, ok := ecs.First(w, component.PlayerTagComponent.Kind()); !ok && len(lvl.Entities) == 0 {
		if _, err := entity.NewPlayer(w); err != nil {
			return err
		}
	}

	p.levelName = name
	p.loadSequence++
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.LevelLoadedComponent.Kind(), &component.LevelLoaded{Name: levels.CleanName(name), Sequence: p.loadSequence})
	return nil
}

func snapshotPersistentSingletons(w *ecs.World, mode PersistenceMode) map[string]ecs.Entity {
	preferred := map[string]ecs.Entity{}
	ecs.ForEach(w, component.PersistentComponent.Kind(), func(e ecs.Entity, persistent *component.Persistent) {
		if persistent.ID == "" || !shouldKeep(persistent, mode) {
			return
		}
		if _, exists := preferred[persistent.ID]; !exists {
			preferred[persistent.ID] = e
		}
	})
	return preferred
}

func pruneForReload(w *ecs.World, mode PersistenceMode) {
	toDestroy := make([]ecs.Entity, 0)
	for _, e := range ecs.Entities(w) {
		persistent, ok := ecs.Get(w, e, component.PersistentComponent.Kind())
		if !ok || !shouldKeep(persistent, mode) {
			toDestroy = append(toDestroy, e)
		}
	}
	for _, e := range toDestroy {
		ecs.DestroyEntity(w, e)
	}
}

// resolvePersistentSingletons keeps one entity per persistent ID, preferring
// the one that survived the prune over a freshly built duplicate.
func resolvePersistentSingletons(w *ecs.World, preferred map[string]ecs.Entity) {
	seen := make(map[string]ecs.Entity)
	toDestroy := make([]ecs.Entity, 0)
	ecs.ForEach(w, component.PersistentComponent.Kind(), func(e ecs.Entity, persistent *component.Persistent) {
		if persistent.ID == "" {
			return
		}
		if keep, ok := preferred[persistent.ID]; ok {
			seen[persistent.ID] = keep
			if e != keep {
				toDestroy = append(toDestroy, e)
			}
			return
		}
		if existing, ok := seen[persistent.ID]; ok && existing != e {
			toDestroy = append(toDestroy, e)
			return
		}
		seen[persistent.ID] = e
	})
	for _, e := range toDestroy {
		ecs.DestroyEntity(w, e)
	}
}

func firstLevelChangeRequest(w *ecs.World) (component.LevelChangeRequest, bool) {
	ent, ok := ecs.First(w, component.LevelChangeRequestComponent.Kind())
	if !ok {
		return component.LevelChangeRequest{}, false
	}
	req, ok := ecs.Get(w, ent, component.LevelChangeRequestComponent.Kind())
	if !ok {
		return component.LevelChangeRequest{}, false
	}
	return *req, true
}

func destroyAll[T any](w *ecs.World, kind component.ComponentKind[T]) {
	for _, e := range ecs.Query(w, kind) {
		ecs.DestroyEntity(w, e)
	}
}

func shouldKeep(persistent *component.Persistent, mode PersistenceMode) bool {
	if mode == PersistenceOnReload {
		return persistent.KeepOnReload
	}
	return persistent.KeepOnLevelChange
}
