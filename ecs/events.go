package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// EventTypeCollision is the Event.Type used for CollisionEvent payloads.
const EventTypeCollision = "collision"

// CollisionEventKind identifies collision event types.
type CollisionEventKind string

const (
	CollisionEventGrounded  CollisionEventKind = "grounded"
	CollisionEventHitHazard CollisionEventKind = "hazard"
	CollisionEventBlocked   CollisionEventKind = "blocked"
	CollisionEventFerried   CollisionEventKind = "ferried"
	CollisionEventUnferried CollisionEventKind = "unferried"
	CollisionEventWrapped   CollisionEventKind = "wrapped"
	CollisionEventWarp      CollisionEventKind = "warp"
	CollisionEventDropped   CollisionEventKind = "dropped"
	CollisionEventTrigger   CollisionEventKind = "trigger"
)

// CollisionEvent is emitted when collision state changes. Other is the
// collider involved, or zero for map geometry.
type CollisionEvent struct {
	Entity Entity
	Other  Entity
	Kind   CollisionEventKind
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// PushCollision queues a CollisionEvent.
func (q *EventQueue) PushCollision(evt CollisionEvent) {
	q.Push(Event{Type: EventTypeCollision, Data: evt})
}

// Each visits queued events without consuming them.
func (q *EventQueue) Each(fn func(Event)) {
	if q == nil || fn == nil {
		return
	}
	for _, evt := range q.items {
		fn(evt)
	}
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
