package component

// DeathRequest notifies gameplay that a playable body touched a hazard this
// tick. Source is the hazard entity, or zero for map geometry.
type DeathRequest struct {
	Source uint64
	X      float64
	Y      float64
}

var DeathRequestComponent = NewComponent[DeathRequest]()
