package system

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
)

type RespawnSystem struct {
	// Deaths counts consumed death requests.
	Deaths int
}

func NewRespawnSystem() *RespawnSystem { return &RespawnSystem{} }

// Update consumes the death requests raised by the pondering system this
// tick. It should run after PonderingSystem.
func (s *RespawnSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.DeathRequestComponent.Kind(), func(e ecs.Entity, req *component.DeathRequest) {
		defer ecs.Remove(w, e, component.DeathRequestComponent.Kind())
		s.Deaths++

		t, tok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !tok {
			return
		}
		safe, sok := ecs.Get(w, e, component.SafeRespawnComponent.Kind())
		if !sok || !safe.Initialized {
			log.Printf("respawn: %v died at (%.1f, %.1f) with no safe respawn point", e, req.X, req.Y)
			return
		}

		t.SetPosition(cp.Vector{X: safe.X, Y: safe.Y})
		if body, ok := ecs.Get(w, e, component.PonderableComponent.Kind()); ok {
			body.Velocity = cp.Vector{}
		}
		ResetContacts(w, e)
		if drop, ok := ecs.Get(w, e, component.DropComponent.Kind()); ok {
			drop.State = component.DropNone
		}
	})
}
