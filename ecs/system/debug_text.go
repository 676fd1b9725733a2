package system

import (
	"bytes"
	"fmt"

	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
)

// DebugText summarizes the last tick and the player's body state.
func DebugText(w *ecs.World, ps *PonderingSystem, tps float64) string {
	stats := ps.Stats()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "TPS: %.1f  bodies: %d  tick: %s\n", tps, stats.Bodies, stats.Duration)

	if loadEnt, ok := ecs.First(w, component.LevelLoadedComponent.Kind()); ok {
		ll, _ := ecs.Get(w, loadEnt, component.LevelLoadedComponent.Kind())
		fmt.Fprintf(&buf, "level: %s (#%d)\n", ll.Name, ll.Sequence)
	}

	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return buf.String()
	}
	t, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	p, _ := ecs.Get(w, player, component.PonderableComponent.Kind())
	if t == nil || p == nil {
		return buf.String()
	}
	fmt.Fprintf(&buf, "pos: %.1f, %.1f  vel: %.1f, %.1f\n", t.X, t.Y, p.Velocity.X, p.Velocity.Y)
	fmt.Fprintf(&buf, "grounded: %v  ferried: %v  passengers: %d\n", p.Grounded, p.Ferried, len(p.Passengers))
	if drop, ok := ecs.Get(w, player, component.DropComponent.Kind()); ok {
		fmt.Fprintf(&buf, "drop: %s\n", drop.State)
	}
	return buf.String()
}
