package system

import (
	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
)

const (
	playerMoveSpeed    = 260.0
	playerJumpSpeed    = 600.0
	playerCoyoteFrames = 6
)

// PlayerControllerSystem turns Input into velocity on playable bodies. It runs
// before the pondering system so the new velocity is integrated this frame.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach3(w, component.InputComponent.Kind(), component.PlayerComponent.Kind(), component.PonderableComponent.Kind(),
		func(_ ecs.Entity, input *component.Input, player *component.Player, body *component.Ponderable) {
			if !body.Active || body.Frozen {
				return
			}
			speed := player.MoveSpeed
			if speed == 0 {
				speed = playerMoveSpeed
			}
			jumpSpeed := player.JumpSpeed
			if jumpSpeed == 0 {
				jumpSpeed = playerJumpSpeed
			}
			coyote := player.CoyoteFrames
			if coyote == 0 {
				coyote = playerCoyoteFrames
			}

			if body.Grounded {
				player.Coyote = coyote
			} else if player.Coyote > 0 {
				player.Coyote--
			}

			body.Velocity.X = input.MoveX * speed
			if input.JumpPressed && !input.Drop && (body.Grounded || player.Coyote > 0) {
				body.Velocity.Y = -jumpSpeed
				player.Coyote = 0
			}
		})
}
