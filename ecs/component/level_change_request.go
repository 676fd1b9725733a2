package component

// LevelChangeRequest is a one-shot request emitted when a playable body
// crosses a warp edge. The outer game loop consumes it after the tick, loads
// TargetLevel and places Entity at EntryX/EntryY.
//
// The entry position is computed against the current map's size at the edge
// opposite Edge; the loader re-anchors it when the target map differs in size.
type LevelChangeRequest struct {
	TargetLevel string
	Entity      uint64
	EntryX      float64
	EntryY      float64
	// Edge is the edge of the current map that was crossed.
	Edge Direction
}

var LevelChangeRequestComponent = NewComponent[LevelChangeRequest]()
