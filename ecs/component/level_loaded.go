package component

// LevelLoaded is added once a level and its entities have been built.
// Sequence increases with every load so observers can tell reloads apart.
type LevelLoaded struct {
	Name     string
	Sequence uint64
}

var LevelLoadedComponent = NewComponent[LevelLoaded]()
