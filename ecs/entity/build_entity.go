package entity

import (
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
	"github.com/milk9111/ponder/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":     addPlayerTag,
	"persistent":     addPersistent,
	"player":         addPlayer,
	"input":          addInput,
	"drop":           addDrop,
	"transform":      addTransform,
	"ponderable":     addPonderable,
	"collider":       addCollider,
	"event_collider": addEventCollider,
	"tint":           addTint,
}

var componentBuildOrder = []string{
	"player_tag",
	"persistent",
	"player",
	"input",
	"drop",
	"transform",
	"ponderable",
	"collider",
	"event_collider",
	"tint",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, names[0])
	}

	return e, nil
}

// SetEntityTransform moves e's top-left corner to x/y, keeping its size.
func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		t = &component.Transform{}
	}
	t.X = x
	t.Y = y
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

type persistentSpec = prefabs.PersistentComponentSpec

func addPersistent(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[persistentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode persistent spec: %w", err)
	}
	return ecs.Add(w, e, component.PersistentComponent.Kind(), &component.Persistent{
		ID:                spec.ID,
		KeepOnLevelChange: spec.KeepOnLevelChange,
		KeepOnReload:      spec.KeepOnReload,
	})
}

type playerSpec = prefabs.PlayerComponentSpec

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		MoveSpeed:    spec.MoveSpeed,
		JumpSpeed:    spec.JumpSpeed,
		CoyoteFrames: spec.CoyoteFrames,
	})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addDrop(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.DropComponent.Kind(), &component.Drop{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.Width < 0 || spec.Height < 0 {
		return fmt.Errorf("negative size %dx%d", spec.Width, spec.Height)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:      spec.X,
		Y:      spec.Y,
		Width:  spec.Width,
		Height: spec.Height,
	})
}

type ponderableSpec = prefabs.PonderableComponentSpec

func addPonderable(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[ponderableSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ponderable spec: %w", err)
	}
	kind, err := component.ParsePonderKind(spec.Kind)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.PonderableComponent.Kind(), &component.Ponderable{
		Velocity:     cp.Vector{X: spec.VelocityX, Y: spec.VelocityY},
		Acceleration: cp.Vector{X: spec.AccelerationX, Y: spec.AccelerationY},
		Kind:         kind,
		Active:       !spec.Inactive,
		Frozen:       spec.Frozen,
	})
}

type colliderSpec = prefabs.ColliderComponentSpec

func addCollider(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[colliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}
	surface, err := component.ParseSurfaceType(spec.Surface)
	if err != nil {
		return err
	}
	if surface == component.SurfaceAdjacency {
		return fmt.Errorf("adjacency is reserved for map edges")
	}
	return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
		Surface:    surface,
		Collidable: !spec.Disabled,
	})
}

type eventColliderSpec = prefabs.EventColliderComponentSpec

func addEventCollider(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[eventColliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode event collider spec: %w", err)
	}
	if spec.Script == "" {
		return fmt.Errorf("event collider needs a script")
	}
	return ecs.Add(w, e, component.EventColliderComponent.Kind(), &component.EventCollider{Script: spec.Script})
}

type tintSpec = prefabs.TintComponentSpec

func addTint(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[tintSpec](raw)
	if err != nil {
		return fmt.Errorf("decode tint spec: %w", err)
	}
	return ecs.Add(w, e, component.TintComponent.Kind(), &component.Tint{Color: spec.Color.Color})
}
