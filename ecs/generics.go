package ecs

import (
	"slices"

	"github.com/milk9111/ponder/ecs/component"
)

func typedStore[T any](w *World, kind component.ComponentKind[T], create bool) *SparseSet[T] {
	if w == nil {
		return nil
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]store)
	}
	s, ok := w.stores[kind.ID()]
	if !ok {
		if !create {
			return nil
		}
		typed := newSparseSet[T]()
		w.stores[kind.ID()] = typed
		return typed
	}
	typed, ok := s.(*SparseSet[T])
	if !ok {
		return nil
	}
	return typed
}

// Add attaches value to e, replacing any existing component of the same kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	s := typedStore(w, kind, true)
	if s == nil {
		return component.ErrInvalidComponentKind
	}
	s.set(e.id(), value)
	return nil
}

// Get returns the stored pointer for e's component of kind.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	return typedStore(w, kind, false).get(e.id())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	return typedStore(w, kind, false).has(e.id())
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	s := typedStore(w, kind, false)
	if s == nil {
		return false
	}
	return s.remove(e.id())
}

// First returns the first live entity holding kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	return w.First(kind)
}

// Query returns live entities present in every listed store, sorted by handle.
func Query(w *World, kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	stores := make([]store, 0, len(kinds))
	for _, k := range kinds {
		if k == nil {
			return nil
		}
		s, ok := w.storeFor(k.ID())
		if !ok {
			return nil
		}
		stores = append(stores, s)
	}
	ids := intersect(stores)
	out := make([]Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := w.entities.handle(id); ok {
			out = append(out, e)
		}
	}
	slices.Sort(out)
	return out
}

// intersect iterates the smallest store and keeps ids present in all others.
func intersect(stores []store) []entityID {
	if len(stores) == 0 {
		return nil
	}
	smallest := 0
	for i, s := range stores {
		if s.len() < stores[smallest].len() {
			smallest = i
		}
	}
	var out []entityID
	for _, id := range stores[smallest].ids() {
		inAll := true
		for i, s := range stores {
			if i != smallest && !s.has(id) {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, id)
		}
	}
	return out
}

func ForEach[A any](w *World, ka component.ComponentKind[A], fn func(Entity, *A)) {
	sa := typedStore(w, ka, false)
	if sa == nil || fn == nil {
		return
	}
	for _, id := range sa.ids() {
		e, ok := w.entities.handle(id)
		if !ok {
			continue
		}
		a, ok := sa.get(id)
		if !ok {
			continue
		}
		fn(e, a)
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa := typedStore(w, ka, false)
	sb := typedStore(w, kb, false)
	if sa == nil || sb == nil || fn == nil {
		return
	}
	for _, id := range intersect([]store{sa, sb}) {
		e, ok := w.entities.handle(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		if !okA || !okB {
			continue
		}
		fn(e, a, b)
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sa := typedStore(w, ka, false)
	sb := typedStore(w, kb, false)
	sc := typedStore(w, kc, false)
	if sa == nil || sb == nil || sc == nil || fn == nil {
		return
	}
	for _, id := range intersect([]store{sa, sb, sc}) {
		e, ok := w.entities.handle(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		c, okC := sc.get(id)
		if !okA || !okB || !okC {
			continue
		}
		fn(e, a, b, c)
	}
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	sa := typedStore(w, ka, false)
	sb := typedStore(w, kb, false)
	sc := typedStore(w, kc, false)
	sd := typedStore(w, kd, false)
	if sa == nil || sb == nil || sc == nil || sd == nil || fn == nil {
		return
	}
	for _, id := range intersect([]store{sa, sb, sc, sd}) {
		e, ok := w.entities.handle(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		c, okC := sc.get(id)
		d, okD := sd.get(id)
		if !okA || !okB || !okC || !okD {
			continue
		}
		fn(e, a, b, c, d)
	}
}
