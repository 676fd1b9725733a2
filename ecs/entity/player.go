package entity

import (
	"fmt"

	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
)

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, "player.yaml")
}

// NewPlayerAt builds a player and seeds its respawn point with the spawn
// position.
func NewPlayerAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	e, err := BuildEntity(w, "player.yaml")
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, x, y); err != nil {
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	if err := ecs.Add(w, e, component.SafeRespawnComponent.Kind(), &component.SafeRespawn{X: x, Y: y, Initialized: true}); err != nil {
		return 0, fmt.Errorf("player: seed respawn: %w", err)
	}
	return e, nil
}
