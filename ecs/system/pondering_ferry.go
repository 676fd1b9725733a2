package system

import (
	"fmt"

	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
)

// commit writes a planned move back to the body, applies ground and ferry
// transitions, files the move's effects, and then carries every passenger by
// the distance the body actually travelled.
func (tk *tick) commit(m *motion) {
	m.t.SetPosition(m.pos)
	m.p.Velocity = m.vel
	tk.integrated[m.e] = true

	if m.vertical {
		tk.updateGround(m)
	}
	tk.record(m.e, m.effects)

	if len(m.p.Passengers) == 0 {
		return
	}
	delta := m.pos.Sub(m.origin)
	passengers := append([]uint64(nil), m.p.Passengers...)
	for _, pe := range passengers {
		if !m.p.HasPassenger(pe) {
			continue
		}
		tk.move(ecs.Entity(pe), delta, m.depth+1)
	}
}

func (tk *tick) updateGround(m *motion) {
	p := m.p
	was := p.Grounded
	p.Grounded = m.grounded
	p.Ground = 0
	if m.grounded {
		p.Ground = uint64(m.ground)
	}

	switch {
	case !was && m.grounded:
		tk.events = append(tk.events, ecs.CollisionEvent{Entity: m.e, Other: m.ground, Kind: ecs.CollisionEventGrounded})
		if p.Kind != component.PonderFreefalling || p.Ferried || !m.ground.Valid() {
			return
		}
		if !ecs.Has(tk.w, m.ground, component.PonderableComponent.Kind()) || carries(tk.w, m.e, m.ground) {
			return
		}
		ferry(tk.w, m.e, m.ground, component.DirDown)
		tk.events = append(tk.events, ecs.CollisionEvent{Entity: m.e, Other: m.ground, Kind: ecs.CollisionEventFerried})
	case was && !m.grounded && p.Ferried:
		carrier := ecs.Entity(p.Ferry)
		unferry(tk.w, m.e)
		tk.events = append(tk.events, ecs.CollisionEvent{Entity: m.e, Other: carrier, Kind: ecs.CollisionEventUnferried})
	}
}

// ferry makes passenger ride on carrier. side is the side of the passenger on
// which the carrier lies.
func ferry(w *ecs.World, passenger, carrier ecs.Entity, side component.Direction) {
	p, ok := ecs.Get(w, passenger, component.PonderableComponent.Kind())
	if !ok {
		panic(fmt.Sprintf("pondering: ferry: passenger %v has no ponderable", passenger))
	}
	c, ok := ecs.Get(w, carrier, component.PonderableComponent.Kind())
	if !ok {
		panic(fmt.Sprintf("pondering: ferry: carrier %v has no ponderable", carrier))
	}
	if p.Ferried {
		unferry(w, passenger)
	}
	p.Ferried = true
	p.Ferry = uint64(carrier)
	p.FerrySide = side
	if !c.HasPassenger(uint64(passenger)) {
		c.Passengers = append(c.Passengers, uint64(passenger))
	}
}

// unferry detaches passenger from its carrier. A live carrier that does not
// list the passenger means the relation is broken.
func unferry(w *ecs.World, passenger ecs.Entity) {
	p, ok := ecs.Get(w, passenger, component.PonderableComponent.Kind())
	if !ok || !p.Ferried {
		return
	}
	carrier := ecs.Entity(p.Ferry)
	p.Ferried = false
	p.Ferry = 0
	c, ok := ecs.Get(w, carrier, component.PonderableComponent.Kind())
	if !ok {
		return
	}
	for i, id := range c.Passengers {
		if id == uint64(passenger) {
			c.Passengers = append(c.Passengers[:i], c.Passengers[i+1:]...)
			return
		}
	}
	panic(fmt.Sprintf("pondering: %v claims ferry %v which does not carry it", passenger, carrier))
}

// carries reports whether target is e or rides, directly or transitively, on e.
func carries(w *ecs.World, e, target ecs.Entity) bool {
	cur := target
	for depth := 0; depth <= maxFerryDepth; depth++ {
		if cur == e {
			return true
		}
		p, ok := ecs.Get(w, cur, component.PonderableComponent.Kind())
		if !ok || !p.Ferried {
			return false
		}
		cur = ecs.Entity(p.Ferry)
	}
	return true
}

// carrierActive reports whether c will be moved this tick, and with it its
// passengers.
func carrierActive(w *ecs.World, c ecs.Entity) bool {
	p, ok := ecs.Get(w, c, component.PonderableComponent.Kind())
	if !ok || !p.Active {
		return false
	}
	if !ecs.Has(w, c, component.TransformComponent.Kind()) {
		return false
	}
	if p.Ferried {
		return carrierActive(w, ecs.Entity(p.Ferry))
	}
	return true
}
