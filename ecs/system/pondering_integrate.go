package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ponder/ecs/component"
)

// integrate returns p's velocity after one step of dt. Freefalling bodies add
// gravity and are clamped to the terminal downward speed.
func (ps *PonderingSystem) integrate(p *component.Ponderable) cp.Vector {
	acc := p.Acceleration
	if p.Kind == component.PonderFreefalling {
		acc.Y += ps.cfg.Gravity
	}
	v := p.Velocity.Add(acc.Mult(ps.dt))
	if p.Kind == component.PonderFreefalling && v.Y > ps.cfg.TerminalVelocity {
		v.Y = ps.cfg.TerminalVelocity
	}
	return v
}
