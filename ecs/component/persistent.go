package component

// Persistent marks an entity that survives a world reload. ID keeps one
// entity per role when a reload would otherwise build a duplicate.
type Persistent struct {
	ID                string
	KeepOnLevelChange bool
	KeepOnReload      bool
}

var PersistentComponent = NewComponent[Persistent]()
