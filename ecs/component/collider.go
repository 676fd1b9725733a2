package component

// Collider makes a body visible to other bodies' sweeps.
type Collider struct {
	Surface    SurfaceType
	Collidable bool
}

var ColliderComponent = NewComponent[Collider]()

// EventCollider attaches behavior to a SurfaceEvent collider. OnCollide is
// called with the mover and the collider (both ecs.Entity values) once the
// mover's tick has been committed. Script names a prefab script that
// EventScriptSystem binds into OnCollide when OnCollide is nil.
type EventCollider struct {
	Script    string
	OnCollide func(mover, collider uint64)
}

var EventColliderComponent = NewComponent[EventCollider]()
