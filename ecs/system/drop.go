package system

import (
	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
)

// DropSystem raises a drop request while the drop input is held. The
// pondering system acknowledges a used request by setting DropUsed and clears
// the acknowledgement on the following tick.
type DropSystem struct{}

func NewDropSystem() *DropSystem { return &DropSystem{} }

func (s *DropSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.InputComponent.Kind(), component.DropComponent.Kind(), func(_ ecs.Entity, input *component.Input, drop *component.Drop) {
		switch {
		case input.Drop && drop.State == component.DropNone:
			drop.State = component.DropRequested
		case !input.Drop && drop.State == component.DropRequested:
			drop.State = component.DropNone
		}
	})
}
