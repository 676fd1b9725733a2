package system

import (
	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
)

// ReleaseBody detaches e from the passenger relation: it leaves its own ferry,
// drops every passenger, and stops being anyone's ground. It runs as a
// destroy hook, before e's components are removed.
func ReleaseBody(w *ecs.World, e ecs.Entity) {
	p, ok := ecs.Get(w, e, component.PonderableComponent.Kind())
	if !ok {
		return
	}
	if p.Ferried {
		unferry(w, e)
	}
	for _, pe := range append([]uint64(nil), p.Passengers...) {
		unferry(w, ecs.Entity(pe))
	}
	p.Passengers = nil

	ecs.ForEach(w, component.PonderableComponent.Kind(), func(other ecs.Entity, q *component.Ponderable) {
		if other != e && q.Ground == uint64(e) {
			q.Ground = 0
			q.Grounded = false
		}
	})
}

// ResetContacts releases e and clears its ground state, as after a teleport.
func ResetContacts(w *ecs.World, e ecs.Entity) {
	ReleaseBody(w, e)
	if p, ok := ecs.Get(w, e, component.PonderableComponent.Kind()); ok {
		p.Grounded = false
		p.Ground = 0
	}
}
