package system

import (
	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
)

// ApplyInput copies one frame of device state into every Input component.
func ApplyInput(w *ecs.World, in component.Input) {
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.Input) {
		*input = in
	})
}
