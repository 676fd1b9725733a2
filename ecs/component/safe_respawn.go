package component

// SafeRespawn stores where a playable body re-enters the simulation after a
// death. Level loading seeds it with the spawn point.
type SafeRespawn struct {
	X           float64
	Y           float64
	Initialized bool
}

var SafeRespawnComponent = NewComponent[SafeRespawn]()
