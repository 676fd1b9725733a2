package system

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
	"github.com/milk9111/ponder/prefabs"
)

// Variables an event script sees. vx/vy are read back into the mover's
// velocity; setting checkpoint moves the mover's respawn point to x/y.
var eventScriptGlobals = map[string]any{
	"mover":      0,
	"collider":   0,
	"player":     false,
	"grounded":   false,
	"x":          0.0,
	"y":          0.0,
	"vx":         0.0,
	"vy":         0.0,
	"checkpoint": false,
}

type scriptCall struct {
	script   string
	mover    ecs.Entity
	collider ecs.Entity
}

// EventScriptSystem binds EventCollider.Script names to compiled tengo
// scripts. Colliders touched during the pondering tick queue a call that runs
// on the next Update, so it should be scheduled after PonderingSystem.
type EventScriptSystem struct {
	load     func(name string) ([]byte, error)
	compiled map[string]*tengo.Compiled
	pending  []scriptCall

	// Errors counts script failures; failures are logged and skipped.
	Errors int
}

// NewEventScriptSystem loads scripts through load, or from the embedded
// prefab scripts when load is nil.
func NewEventScriptSystem(load func(name string) ([]byte, error)) *EventScriptSystem {
	if load == nil {
		load = prefabs.LoadScript
	}
	return &EventScriptSystem{load: load, compiled: map[string]*tengo.Compiled{}}
}

// Invalidate drops the compiled copy of a script so the next call reloads it.
func (s *EventScriptSystem) Invalidate(name string) {
	if s == nil {
		return
	}
	if name == "" {
		s.compiled = map[string]*tengo.Compiled{}
		return
	}
	delete(s.compiled, name)
}

func (s *EventScriptSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.EventColliderComponent.Kind(), func(_ ecs.Entity, ev *component.EventCollider) {
		if ev.Script == "" || ev.OnCollide != nil {
			return
		}
		script := ev.Script
		ev.OnCollide = func(mover, collider uint64) {
			s.pending = append(s.pending, scriptCall{script: script, mover: ecs.Entity(mover), collider: ecs.Entity(collider)})
		}
	})

	calls := s.pending
	s.pending = nil
	for _, c := range calls {
		if err := s.run(w, c); err != nil {
			s.Errors++
			log.Printf("event script: %s: %v", c.script, err)
		}
	}
}

func (s *EventScriptSystem) run(w *ecs.World, c scriptCall) error {
	t, ok := ecs.Get(w, c.mover, component.TransformComponent.Kind())
	if !ok {
		return nil
	}
	body, ok := ecs.Get(w, c.mover, component.PonderableComponent.Kind())
	if !ok {
		return nil
	}

	compiled, err := s.compile(c.script)
	if err != nil {
		return err
	}

	vars := map[string]any{
		"mover":      int64(c.mover),
		"collider":   int64(c.collider),
		"player":     ecs.Has(w, c.mover, component.PlayerTagComponent.Kind()),
		"grounded":   body.Grounded,
		"x":          t.X,
		"y":          t.Y,
		"vx":         body.Velocity.X,
		"vy":         body.Velocity.Y,
		"checkpoint": false,
	}
	for name, v := range vars {
		if err := compiled.Set(name, v); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	if err := compiled.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	body.Velocity = cp.Vector{X: compiled.Get("vx").Float(), Y: compiled.Get("vy").Float()}
	if compiled.Get("checkpoint").Bool() {
		safe := &component.SafeRespawn{X: compiled.Get("x").Float(), Y: compiled.Get("y").Float(), Initialized: true}
		if err := ecs.Add(w, c.mover, component.SafeRespawnComponent.Kind(), safe); err != nil {
			return fmt.Errorf("checkpoint: %w", err)
		}
	}
	return nil
}

func (s *EventScriptSystem) compile(name string) (*tengo.Compiled, error) {
	if compiled, ok := s.compiled[name]; ok {
		return compiled, nil
	}
	src, err := s.load(name)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	script := tengo.NewScript(src)
	for name, v := range eventScriptGlobals {
		if err := script.Add(name, v); err != nil {
			return nil, err
		}
	}
	script.SetImports(stdlib.GetModuleMap("math", "fmt"))
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	s.compiled[name] = compiled
	return compiled, nil
}
