package component

// PlayerTag marks a playable actor: only playable bodies warp between maps
// or die on hazards.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()
