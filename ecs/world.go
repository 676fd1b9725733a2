package ecs

import "github.com/milk9111/ponder/ecs/component"

// World owns entities, component stores, and the per-frame event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]store
	schedule Scheduler
	events   EventQueue

	destroyHooks []func(w *World, e Entity)
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]store)}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity runs the destroy hooks, drops every component of e and
// invalidates the handle. It reports whether e was alive.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, hook := range w.destroyHooks {
		hook(w, e)
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity in ascending slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// OnDestroy registers fn to run before an entity's components are dropped.
func (w *World) OnDestroy(fn func(w *World, e Entity)) {
	if w == nil || fn == nil {
		return
	}
	w.destroyHooks = append(w.destroyHooks, fn)
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil {
		return
	}
	w.schedule.Add(s)
}

// Update runs all systems once, then clears the event queue.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.schedule.Update(w)
	w.events.flush()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// First returns the first live entity in kind's store.
func (w *World) First(kind component.Kind) (Entity, bool) {
	if w == nil || kind == nil {
		return 0, false
	}
	s, ok := w.stores[kind.ID()]
	if !ok {
		return 0, false
	}
	for _, id := range s.ids() {
		if e, ok := w.entities.handle(id); ok {
			return e, true
		}
	}
	return 0, false
}

// Query returns the live entities present in every listed store, sorted by
// handle so callers get a stable order.
func (w *World) Query(kinds ...component.Kind) []Entity {
	return Query(w, kinds...)
}

func (w *World) storeFor(id component.ComponentID) (store, bool) {
	if w == nil || w.stores == nil {
		return nil, false
	}
	s, ok := w.stores[id]
	return s, ok
}
