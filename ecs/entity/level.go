package entity

import (
	"fmt"
	"strings"

	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
	"github.com/milk9111/ponder/levels"
)

// LoadLevelToWorld builds a level's boundary index and its entities into
// world and returns the geometry.
func LoadLevelToWorld(world *ecs.World, name string, lvl *levels.Level) (*component.MapGeometry, error) {
	if lvl == nil {
		return nil, fmt.Errorf("load level %q: nil level", name)
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("load level %q: %w", name, err)
	}

	geo, err := BuildMapGeometry(name, lvl)
	if err != nil {
		return nil, err
	}
	geoEnt := ecs.CreateEntity(world)
	if err := ecs.Add(world, geoEnt, component.MapGeometryComponent.Kind(), geo); err != nil {
		return nil, err
	}

	for i, ent := range lvl.Entities {
		if _, err := spawnLevelEntity(world, ent); err != nil {
			return nil, fmt.Errorf("load level %q: entity %d (%s): %w", name, i, ent.Type, err)
		}
	}
	return geo, nil
}

// BuildMapGeometry turns the level's physics layers and edges into a sorted
// boundary index.
func BuildMapGeometry(name string, lvl *levels.Level) (*component.MapGeometry, error) {
	var edges [4]component.Adjacency
	for d, e := range map[component.Direction]levels.Edge{
		component.DirLeft:  lvl.Edges.Left,
		component.DirRight: lvl.Edges.Right,
		component.DirUp:    lvl.Edges.Up,
		component.DirDown:  lvl.Edges.Down,
	} {
		typ, err := component.ParseAdjacencyType(e.Type)
		if err != nil {
			return nil, fmt.Errorf("load level %q: %s edge: %w", name, d, err)
		}
		edges[d] = component.Adjacency{Type: typ, Target: e.Target}
	}

	pw, ph := lvl.PixelSize()
	geo := component.NewMapGeometry(name, pw, ph, edges)
	ts := float64(lvl.Tile())

	for layerIdx, layer := range lvl.Layers {
		if layerIdx >= len(lvl.LayerMeta) || !lvl.LayerMeta[layerIdx].Physics {
			continue
		}
		surface, err := component.ParseSurfaceType(lvl.LayerMeta[layerIdx].Surface)
		if err != nil {
			return nil, fmt.Errorf("load level %q: layer %d: %w", name, layerIdx, err)
		}
		switch surface {
		case component.SurfaceWall, component.SurfacePlatform, component.SurfaceDanger:
		default:
			return nil, fmt.Errorf("load level %q: layer %d: %s tiles are not supported", name, layerIdx, surface)
		}
		addLayerBoundaries(geo, layer, lvl.Width, lvl.Height, ts, surface)
	}

	geo.Sort()
	return geo, nil
}

// addLayerBoundaries emits one boundary per run of collinear exposed tile
// faces. A tile's top face stops bodies moving down, its left face bodies
// moving right, and so on. Platforms only expose their top.
func addLayerBoundaries(geo *component.MapGeometry, layer []int, width, height int, ts float64, surface component.SurfaceType) {
	solid := func(x, y int) bool {
		if x < 0 || y < 0 || x >= width || y >= height {
			return false
		}
		return layer[y*width+x] > 0
	}
	add := func(d component.Direction, axis, lo, hi int) {
		geo.Add(d, component.Boundary{Axis: float64(axis) * ts, Lower: float64(lo) * ts, Upper: float64(hi) * ts, Surface: surface})
	}

	for y := 0; y < height; y++ {
		eachRun(width, func(x int) bool { return solid(x, y) && !solid(x, y-1) }, func(lo, hi int) {
			add(component.DirDown, y, lo, hi)
		})
		if surface == component.SurfacePlatform {
			continue
		}
		eachRun(width, func(x int) bool { return solid(x, y) && !solid(x, y+1) }, func(lo, hi int) {
			add(component.DirUp, y+1, lo, hi)
		})
	}
	if surface == component.SurfacePlatform {
		return
	}
	for x := 0; x < width; x++ {
		eachRun(height, func(y int) bool { return solid(x, y) && !solid(x-1, y) }, func(lo, hi int) {
			add(component.DirRight, x, lo, hi)
		})
		eachRun(height, func(y int) bool { return solid(x, y) && !solid(x+1, y) }, func(lo, hi int) {
			add(component.DirLeft, x+1, lo, hi)
		})
	}
}

// eachRun calls emit(lo, hi) for every maximal run [lo, hi) of indices in
// [0, n) where on holds.
func eachRun(n int, on func(int) bool, emit func(lo, hi int)) {
	start := -1
	for i := 0; i <= n; i++ {
		if i < n && on(i) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			emit(start, i)
			start = -1
		}
	}
}

func spawnLevelEntity(world *ecs.World, ent levels.Entity) (ecs.Entity, error) {
	typ := strings.ToLower(strings.TrimSpace(ent.Type))
	e, err := BuildEntity(world, typ+".yaml")
	if err != nil {
		return 0, err
	}
	x, y := float64(ent.X), float64(ent.Y)
	if err := SetEntityTransform(world, e, x, y); err != nil {
		return 0, err
	}
	if err := applyProps(world, e, ent.Props); err != nil {
		ecs.DestroyEntity(world, e)
		return 0, err
	}
	if ecs.Has(world, e, component.PlayerTagComponent.Kind()) {
		if err := ecs.Add(world, e, component.SafeRespawnComponent.Kind(), &component.SafeRespawn{X: x, Y: y, Initialized: true}); err != nil {
			return 0, err
		}
	}
	return e, nil
}

// applyProps applies per-placement overrides: width, height, vx, vy, frozen
// and script.
func applyProps(world *ecs.World, e ecs.Entity, props map[string]any) error {
	if len(props) == 0 {
		return nil
	}
	if t, ok := ecs.Get(world, e, component.TransformComponent.Kind()); ok {
		if v, ok, err := propFloat(props, "width"); err != nil {
			return err
		} else if ok {
			t.Width = int(v)
		}
		if v, ok, err := propFloat(props, "height"); err != nil {
			return err
		} else if ok {
			t.Height = int(v)
		}
	}
	if p, ok := ecs.Get(world, e, component.PonderableComponent.Kind()); ok {
		if v, ok, err := propFloat(props, "vx"); err != nil {
			return err
		} else if ok {
			p.Velocity.X = v
		}
		if v, ok, err := propFloat(props, "vy"); err != nil {
			return err
		} else if ok {
			p.Velocity.Y = v
		}
		if v, ok := props["frozen"].(bool); ok {
			p.Frozen = v
		}
	}
	if s, ok := props["script"].(string); ok {
		ev, ok := ecs.Get(world, e, component.EventColliderComponent.Kind())
		if !ok {
			return fmt.Errorf("script prop on an entity without an event collider")
		}
		ev.Script = s
	}
	return nil
}

func propFloat(props map[string]any, key string) (float64, bool, error) {
	raw, ok := props[key]
	if !ok {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, true, nil
	case int:
		return float64(v), true, nil
	}
	return 0, false, fmt.Errorf("prop %q: want a number, got %T", key, raw)
}
