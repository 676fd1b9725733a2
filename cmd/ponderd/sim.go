package main

import (
	"context"
	"log"
	"time"

	"github.com/milk9111/ponder/config"
	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
	"github.com/milk9111/ponder/ecs/system"
	"github.com/milk9111/ponder/metrics"
)

// simulation is the viewer's system pipeline minus input and drawing.
type simulation struct {
	world       *ecs.World
	pondering   *system.PonderingSystem
	persistence *system.PersistenceSystem
	respawn     *system.RespawnSystem
}

func newSimulation(cfg *config.Config, rec metrics.Recorder) *simulation {
	phys := cfg.Physics.Resolved()
	s := &simulation{
		world: ecs.NewWorld(),
		pondering: system.NewPonderingSystem(system.PonderingConfig{
			TickRate:         phys.TickRate,
			Gravity:          phys.Gravity,
			TerminalVelocity: phys.TerminalVelocity,
		}),
		persistence: system.NewPersistenceSystem(cfg.Game.GetStartLevel(), nil),
		respawn:     system.NewRespawnSystem(),
	}
	scripts := system.NewEventScriptSystem(nil)

	s.pondering.Attach(s.world)
	s.world.AddSystem(s.persistence)
	s.world.AddSystem(system.NewPlayerControllerSystem())
	s.world.AddSystem(system.NewDropSystem())
	s.world.AddSystem(scripts)
	s.world.AddSystem(s.pondering)
	s.world.AddSystem(scripts)
	s.world.AddSystem(system.NewMetricsSystem(rec, s.pondering))
	s.world.AddSystem(s.respawn)
	return s
}

// run advances the world once per interval until ctx is done or limit ticks
// have run. A zero interval runs ticks back to back.
func (s *simulation) run(ctx context.Context, limit int, interval time.Duration) (int, error) {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	n := 0
	for limit <= 0 || n < limit {
		if tick != nil {
			select {
			case <-ctx.Done():
				return n, ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return n, err
		}

		s.step()
		n++
	}
	return n, nil
}

func (s *simulation) step() {
	before := s.persistence.LevelName()
	s.world.Update()
	if after := s.persistence.LevelName(); after != before && before != "" {
		log.Printf("level change: %s -> %s", before, after)
	}
}

// player returns the playable body, if one is loaded.
func (s *simulation) player() (ecs.Entity, bool) {
	return ecs.First(s.world, component.PlayerTagComponent.Kind())
}
