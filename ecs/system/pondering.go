package system

import (
	"time"

	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
)

const (
	defaultTickRate         = 60.0
	defaultGravity          = 900.0
	defaultTerminalVelocity = 600.0

	// maxFerryDepth bounds passenger recursion. Passenger graphs are forests,
	// so hitting it means the relation was corrupted.
	maxFerryDepth = 64
)

// PonderingConfig tunes the fixed-timestep integrator.
type PonderingConfig struct {
	// TickRate is the number of simulation steps per second; dt = 1/TickRate.
	TickRate float64
	// Gravity is the downward acceleration applied to freefalling bodies.
	Gravity float64
	// TerminalVelocity caps the downward speed of freefalling bodies.
	TerminalVelocity float64
}

func (c PonderingConfig) withDefaults() PonderingConfig {
	if c.TickRate <= 0 {
		c.TickRate = defaultTickRate
	}
	if c.Gravity == 0 {
		c.Gravity = defaultGravity
	}
	if c.TerminalVelocity <= 0 {
		c.TerminalVelocity = defaultTerminalVelocity
	}
	return c
}

// PonderingStats describes the most recent tick.
type PonderingStats struct {
	Bodies   int
	Duration time.Duration
}

// PonderingSystem advances every active body by one fixed tick: integrate,
// sweep the horizontal then the vertical axis against map boundaries and
// other bodies, commit, then carry passengers along.
type PonderingSystem struct {
	cfg      PonderingConfig
	dt       float64
	attached *ecs.World
	stats    PonderingStats
}

func NewPonderingSystem(cfg PonderingConfig) *PonderingSystem {
	cfg = cfg.withDefaults()
	return &PonderingSystem{cfg: cfg, dt: 1 / cfg.TickRate}
}

// DT returns the fixed timestep in seconds.
func (ps *PonderingSystem) DT() float64 {
	if ps == nil {
		return 0
	}
	return ps.dt
}

// Stats returns counters for the most recent Update.
func (ps *PonderingSystem) Stats() PonderingStats {
	if ps == nil {
		return PonderingStats{}
	}
	return ps.stats
}

// Attach registers the destroy hook that keeps the passenger relation
// consistent when a body is destroyed. Update attaches lazily.
func (ps *PonderingSystem) Attach(w *ecs.World) {
	if ps == nil || w == nil || ps.attached == w {
		return
	}
	w.OnDestroy(ReleaseBody)
	ps.attached = w
}

func (ps *PonderingSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.Attach(w)
	start := time.Now()

	tk := newTick(ps, w)
	tk.expireDrops()

	processed := 0
	for _, e := range ecs.Query(w, component.PonderableComponent.Kind(), component.TransformComponent.Kind()) {
		p, _ := ecs.Get(w, e, component.PonderableComponent.Kind())
		if !p.Active || tk.integrated[e] {
			continue
		}
		if p.Ferried {
			if carrierActive(w, ecs.Entity(p.Ferry)) {
				continue
			}
			unferry(w, e)
		}
		tk.move(e, zeroShift, 0)
		processed++
	}

	tk.publish()
	ps.stats = PonderingStats{Bodies: processed, Duration: time.Since(start)}
}

// tick holds the state of one Update: the collider snapshot, which bodies
// already integrated, and the side effects to publish once every body has
// been resolved.
type tick struct {
	ps  *PonderingSystem
	w   *ecs.World
	geo *component.MapGeometry

	colliders  []ecs.Entity
	integrated map[ecs.Entity]bool

	deaths   map[ecs.Entity]component.DeathRequest
	warps    map[ecs.Entity]component.LevelChangeRequest
	drops    map[ecs.Entity]struct{}
	order    []ecs.Entity
	triggers []trigger
	events   []ecs.CollisionEvent
}

type trigger struct {
	mover    ecs.Entity
	collider ecs.Entity
}

func newTick(ps *PonderingSystem, w *ecs.World) *tick {
	tk := &tick{
		ps:         ps,
		w:          w,
		integrated: make(map[ecs.Entity]bool),
		deaths:     make(map[ecs.Entity]component.DeathRequest),
		warps:      make(map[ecs.Entity]component.LevelChangeRequest),
		drops:      make(map[ecs.Entity]struct{}),
	}
	if geoEnt, ok := w.First(component.MapGeometryComponent.Kind()); ok {
		tk.geo, _ = ecs.Get(w, geoEnt, component.MapGeometryComponent.Kind())
	}
	for _, e := range ecs.Query(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind()) {
		c, _ := ecs.Get(w, e, component.ColliderComponent.Kind())
		if !c.Collidable {
			continue
		}
		if p, ok := ecs.Get(w, e, component.PonderableComponent.Kind()); ok && !p.Active {
			continue
		}
		tk.colliders = append(tk.colliders, e)
	}
	return tk
}

// expireDrops clears drop acknowledgements from the previous tick.
func (tk *tick) expireDrops() {
	ecs.ForEach(tk.w, component.DropComponent.Kind(), func(_ ecs.Entity, d *component.Drop) {
		if d.State == component.DropUsed {
			d.State = component.DropNone
		}
	})
}

// record files a committed body's effects with the tick. A death discards any
// warp the same body raised this tick.
func (tk *tick) record(e ecs.Entity, effects []effect) {
	for _, ef := range effects {
		switch ef.kind {
		case effectDeath:
			if _, dup := tk.deaths[e]; !dup {
				tk.deaths[e] = ef.death
				tk.note(e)
			}
			delete(tk.warps, e)
			tk.events = append(tk.events, ecs.CollisionEvent{Entity: e, Other: ef.other, Kind: ecs.CollisionEventHitHazard})
		case effectHazard:
			tk.events = append(tk.events, ecs.CollisionEvent{Entity: e, Other: ef.other, Kind: ecs.CollisionEventHitHazard})
		case effectWarp:
			if _, dead := tk.deaths[e]; dead {
				continue
			}
			tk.warps[e] = ef.warp
			tk.note(e)
		case effectDrop:
			tk.drops[e] = struct{}{}
			tk.note(e)
		case effectWrap:
			tk.events = append(tk.events, ecs.CollisionEvent{Entity: e, Kind: ecs.CollisionEventWrapped})
		case effectTrigger:
			tk.triggers = append(tk.triggers, trigger{mover: e, collider: ef.other})
		case effectBlocked:
			tk.events = append(tk.events, ecs.CollisionEvent{Entity: e, Other: ef.other, Kind: ecs.CollisionEventBlocked})
		}
	}
}

func (tk *tick) note(e ecs.Entity) {
	for _, seen := range tk.order {
		if seen == e {
			return
		}
	}
	tk.order = append(tk.order, e)
}

// publish hands the tick's side effects to the systems that consume them.
func (tk *tick) publish() {
	w := tk.w
	for _, e := range tk.order {
		if d, ok := tk.deaths[e]; ok {
			req := d
			_ = ecs.Add(w, e, component.DeathRequestComponent.Kind(), &req)
		}
		if wr, ok := tk.warps[e]; ok {
			req := wr
			reqEnt := ecs.CreateEntity(w)
			_ = ecs.Add(w, reqEnt, component.LevelChangeRequestComponent.Kind(), &req)
			tk.events = append(tk.events, ecs.CollisionEvent{Entity: e, Kind: ecs.CollisionEventWarp})
		}
		if _, ok := tk.drops[e]; ok {
			if d, ok := ecs.Get(w, e, component.DropComponent.Kind()); ok {
				d.State = component.DropUsed
			}
			tk.events = append(tk.events, ecs.CollisionEvent{Entity: e, Kind: ecs.CollisionEventDropped})
		}
	}

	for _, evt := range tk.events {
		w.Events().PushCollision(evt)
	}

	for _, tr := range tk.triggers {
		ev, ok := ecs.Get(w, tr.collider, component.EventColliderComponent.Kind())
		if ok && ev.OnCollide != nil && ecs.IsAlive(w, tr.mover) {
			ev.OnCollide(uint64(tr.mover), uint64(tr.collider))
		}
		w.Events().PushCollision(ecs.CollisionEvent{Entity: tr.mover, Other: tr.collider, Kind: ecs.CollisionEventTrigger})
	}
}
