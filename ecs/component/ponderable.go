package component

import (
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
)

// PonderKind selects whether gravity applies to a body.
type PonderKind uint8

const (
	// PonderVacuumed bodies move only under their own velocity/acceleration.
	PonderVacuumed PonderKind = iota
	// PonderFreefalling bodies also receive gravity and a terminal-velocity clamp.
	PonderFreefalling
)

func (k PonderKind) String() string {
	if k == PonderFreefalling {
		return "freefalling"
	}
	return "vacuumed"
}

// ParsePonderKind accepts "freefalling" or "vacuumed"; empty means vacuumed.
func ParsePonderKind(s string) (PonderKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vacuumed":
		return PonderVacuumed, nil
	case "freefalling":
		return PonderFreefalling, nil
	}
	return PonderVacuumed, fmt.Errorf("component: unknown ponder kind %q", s)
}

// Ponderable is the simulated physics state of a body.
//
// Ground, Ferry and Passengers hold ecs.Entity values (ecs.Entity is uint64).
// Ferried/Ferry/Passengers are only ever written by the pondering system's
// ferry and unferry helpers, which keep both sides of the relation in step.
type Ponderable struct {
	Velocity     cp.Vector
	Acceleration cp.Vector
	Kind         PonderKind

	// Active bodies are simulated; inactive ones are skipped and ignored as
	// colliders.
	Active bool
	// Frozen bodies are not integrated but stay collidable and can still be
	// carried by a ferry.
	Frozen bool

	Grounded bool
	Ground   uint64

	Ferried   bool
	Ferry     uint64
	FerrySide Direction

	Passengers []uint64
}

// HasPassenger reports whether e is currently carried by this body.
func (p *Ponderable) HasPassenger(e uint64) bool {
	for _, pe := range p.Passengers {
		if pe == e {
			return true
		}
	}
	return false
}

var PonderableComponent = NewComponent[Ponderable]()
