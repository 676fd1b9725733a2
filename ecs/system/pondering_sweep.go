package system

import (
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
)

var zeroShift = cp.Vector{}

// sweepDir fixes, for one direction, which axis is swept and what "closer"
// means: ascending sweeps (Right/Down) treat smaller coordinates as closer,
// descending sweeps (Left/Up) larger ones.
type sweepDir struct {
	dir  component.Direction
	axis int
	asc  bool
}

func newSweepDir(d component.Direction) sweepDir {
	axis := 1
	if d.Horizontal() {
		axis = 0
	}
	return sweepDir{dir: d, axis: axis, asc: d.Ascending()}
}

func (s sweepDir) perp() int { return 1 - s.axis }

func (s sweepDir) get(v cp.Vector) float64 {
	if s.axis == 0 {
		return v.X
	}
	return v.Y
}

func (s sweepDir) set(v *cp.Vector, x float64) {
	if s.axis == 0 {
		v.X = x
		return
	}
	v.Y = x
}

// leading is the mover's edge that faces the direction of travel.
func (s sweepDir) leading(r rect) float64 {
	if s.asc {
		return r.max[s.axis]
	}
	return r.min[s.axis]
}

// near is a collider's edge that faces an incoming mover.
func (s sweepDir) near(r rect) float64 {
	if s.asc {
		return r.min[s.axis]
	}
	return r.max[s.axis]
}

func (s sweepDir) closer(a, b float64) bool {
	if s.asc {
		return a < b
	}
	return a > b
}

// crosses reports whether a surface at axis lies on the path from lead
// (inclusive, so a resting contact is found again) to candLead (exclusive).
func (s sweepDir) crosses(axis, lead, candLead float64) bool {
	if s.asc {
		return lead <= axis && axis < candLead
	}
	return candLead < axis && axis <= lead
}

// flush returns the top-left coordinate that puts the leading edge on near.
func (s sweepDir) flush(near float64, size [2]float64) float64 {
	if s.asc {
		return near - size[s.axis]
	}
	return near
}

type rect struct {
	min [2]float64
	max [2]float64
}

func rectAt(pos cp.Vector, size [2]float64) rect {
	return rect{
		min: [2]float64{pos.X, pos.Y},
		max: [2]float64{pos.X + size[0], pos.Y + size[1]},
	}
}

// overlaps is strict: rectangles that only touch do not overlap.
func (r rect) overlaps(o rect, axis int) bool {
	return r.min[axis] < o.max[axis] && o.min[axis] < r.max[axis]
}

func sizeOf(t *component.Transform) [2]float64 {
	return [2]float64{float64(t.Width), float64(t.Height)}
}

// motion is one body's planned move for this tick. Planning never writes to
// components; commit does.
type motion struct {
	e     ecs.Entity
	t     *component.Transform
	p     *component.Ponderable
	depth int

	// origin is the committed position before the move, start is where the
	// ferry shift left it, pos is the working position.
	origin cp.Vector
	start  cp.Vector
	pos    cp.Vector
	vel    cp.Vector

	// carrier is skipped by the entity scan while the ferry shift is swept.
	carrier  ecs.Entity
	carrying bool

	// overrides replaces collider positions during a dry run.
	overrides map[ecs.Entity]cp.Vector

	vertical bool
	grounded bool
	ground   ecs.Entity
	stopped  bool
	effects  []effect
}

func (m *motion) size() [2]float64 {
	return sizeOf(m.t)
}

type axisOutcome struct {
	coord   float64
	blocked bool
	stop    bool
	ground  ecs.Entity
	effects []effect
}

type entityHit struct {
	e       ecs.Entity
	near    float64
	surface component.SurfaceType
}

func (tk *tick) mustBody(e ecs.Entity) (*component.Transform, *component.Ponderable) {
	t, ok := ecs.Get(tk.w, e, component.TransformComponent.Kind())
	if !ok {
		panic(fmt.Sprintf("pondering: entity %v has no transform", e))
	}
	p, ok := ecs.Get(tk.w, e, component.PonderableComponent.Kind())
	if !ok {
		panic(fmt.Sprintf("pondering: entity %v has no ponderable", e))
	}
	return t, p
}

// move plans and commits e's move, carried first by its ferry's delta.
func (tk *tick) move(e ecs.Entity, shift cp.Vector, depth int) {
	tk.commit(tk.plan(e, shift, depth, nil))
}

// plan computes e's move for this tick: sweep the ferry shift, integrate
// (once per tick), then resolve the horizontal axis and, unless that stopped
// processing, the vertical one.
func (tk *tick) plan(e ecs.Entity, shift cp.Vector, depth int, overrides map[ecs.Entity]cp.Vector) *motion {
	if depth > maxFerryDepth {
		panic(fmt.Sprintf("pondering: passenger chain deeper than %d at entity %v", maxFerryDepth, e))
	}
	t, p := tk.mustBody(e)
	m := &motion{e: e, t: t, p: p, depth: depth, overrides: overrides}
	m.origin = t.Position()
	m.pos = m.origin
	m.vel = p.Velocity
	if p.Ferried {
		m.carrier = ecs.Entity(p.Ferry)
	}
	stopped := tk.carry(m, shift)
	m.start = m.pos
	if stopped {
		m.stopped = true
		return m
	}

	cand := m.start
	if !p.Frozen && !tk.integrated[e] {
		m.vel = tk.ps.integrate(p)
		cand = m.start.Add(m.vel.Mult(tk.ps.dt))
	}

	if cand.X != m.start.X {
		dir := component.DirRight
		if cand.X < m.start.X {
			dir = component.DirLeft
		}
		s := newSweepDir(dir)
		out := tk.sweep(m, s, cp.Vector{X: cand.X, Y: m.pos.Y})
		m.apply(s, out)
		if out.stop {
			m.stopped = true
			return m
		}
	}

	if cand.Y != m.start.Y {
		dir := component.DirDown
		if cand.Y < m.start.Y {
			dir = component.DirUp
		}
		s := newSweepDir(dir)
		out := tk.sweep(m, s, cp.Vector{X: m.pos.X, Y: cand.Y})
		m.apply(s, out)
		m.vertical = true
		m.grounded = dir == component.DirDown && out.blocked
		if m.grounded {
			m.ground = out.ground
		}
		m.stopped = out.stop
	}
	return m
}

// carry sweeps m along its ferry's delta, horizontal then vertical, so a
// passenger is stopped by anything its ferry clears. It reports whether a
// surface stopped processing.
func (tk *tick) carry(m *motion, shift cp.Vector) bool {
	m.carrying = true
	defer func() { m.carrying = false }()

	if shift.X != 0 {
		dir := component.DirRight
		if shift.X < 0 {
			dir = component.DirLeft
		}
		s := newSweepDir(dir)
		out := tk.sweep(m, s, cp.Vector{X: m.pos.X + shift.X, Y: m.pos.Y})
		s.set(&m.pos, out.coord)
		m.effects = append(m.effects, out.effects...)
		if out.stop {
			return true
		}
	}
	if shift.Y != 0 {
		dir := component.DirDown
		if shift.Y < 0 {
			dir = component.DirUp
		}
		s := newSweepDir(dir)
		out := tk.sweep(m, s, cp.Vector{X: m.pos.X, Y: m.pos.Y + shift.Y})
		s.set(&m.pos, out.coord)
		m.effects = append(m.effects, out.effects...)
		if out.stop {
			return true
		}
	}
	return false
}

func (m *motion) apply(s sweepDir, out axisOutcome) {
	s.set(&m.pos, out.coord)
	if out.blocked {
		s.set(&m.vel, 0)
	}
	m.effects = append(m.effects, out.effects...)
}

// sweep resolves m's move along one direction from m.pos to dest and returns
// the resolved coordinate on that axis.
func (tk *tick) sweep(m *motion, s sweepDir, dest cp.Vector) axisOutcome {
	size := m.size()
	from := rectAt(m.pos, size)
	to := rectAt(dest, size)
	lead, candLead := s.leading(from), s.leading(to)
	perp := s.perp()
	out := axisOutcome{coord: s.get(dest)}

	// Closest boundary on the path whose extent overlaps the destination.
	var wall *component.Boundary
	if tk.geo != nil {
		list := tk.geo.Boundaries[s.dir]
		for i := tk.geo.LowerBound(s.dir, lead); i < len(list); i++ {
			b := &list[i]
			if !s.crosses(b.Axis, lead, candLead) {
				break
			}
			if b.Lower < to.max[perp] && to.min[perp] < b.Upper {
				wall = b
				break
			}
		}
	}

	pre := tk.preResolve(m, s, dest)

	var hits []entityHit
	for _, c := range tk.colliders {
		if c == m.e || (m.carrying && c == m.carrier) {
			continue
		}
		ct, ok := ecs.Get(tk.w, c, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		pos := ct.Position()
		if m.p.HasPassenger(uint64(c)) {
			pp, ok := pre[c]
			if !ok {
				continue
			}
			pos = pp
		} else if op, ok := m.overrides[c]; ok {
			pos = op
		}
		r := rectAt(pos, sizeOf(ct))
		if from.overlaps(r, s.axis) || !to.overlaps(r, s.axis) || !to.overlaps(r, perp) {
			continue
		}
		near := s.near(r)
		if wall != nil && s.closer(wall.Axis, near) {
			continue
		}
		col, _ := ecs.Get(tk.w, c, component.ColliderComponent.Kind())
		hits = append(hits, entityHit{e: c, near: near, surface: col.Surface})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].near != hits[j].near {
			return s.closer(hits[i].near, hits[j].near)
		}
		return hits[i].e < hits[j].e
	})

	for _, h := range hits {
		ct := tk.resolveSurface(m, s, surfaceHit{surface: h.surface, other: h.e}, out.coord)
		out.effects = append(out.effects, ct.effects...)
		if ct.stop {
			out.stop = true
			return out
		}
		if ct.blocked {
			out.blocked = true
			out.coord = s.flush(h.near, size)
			out.ground = h.e
			out.effects = append(out.effects, effect{kind: effectBlocked, other: h.e})
			return out
		}
	}

	if wall == nil {
		return out
	}
	ct := tk.resolveSurface(m, s, surfaceHit{surface: wall.Surface, boundary: true}, out.coord)
	out.effects = append(out.effects, ct.effects...)
	switch {
	case ct.stop:
		out.stop = true
	case ct.blocked:
		out.blocked = true
		out.coord = s.flush(wall.Axis, size)
		out.effects = append(out.effects, effect{kind: effectBlocked})
	case ct.relocated:
		out.coord = ct.coord
	}
	return out
}

// preResolve dry-runs the passengers that sit in m's path so the entity scan
// tests against where the carry leaves them rather than where they are now.
// A passenger the carry cannot move stops m instead of being overrun.
func (tk *tick) preResolve(m *motion, s sweepDir, dest cp.Vector) map[ecs.Entity]cp.Vector {
	if len(m.p.Passengers) == 0 {
		return nil
	}
	delta := dest.Sub(m.origin)
	var pre map[ecs.Entity]cp.Vector
	for _, pe := range m.p.Passengers {
		pent := ecs.Entity(pe)
		pp, ok := ecs.Get(tk.w, pent, component.PonderableComponent.Kind())
		// FerrySide names the side of the passenger that its ferry is on.
		if !ok || pp.FerrySide != s.dir.Opposite() {
			continue
		}
		overrides := make(map[ecs.Entity]cp.Vector, len(m.overrides)+1)
		for k, v := range m.overrides {
			overrides[k] = v
		}
		overrides[m.e] = dest
		pm := tk.plan(pent, delta, m.depth+1, overrides)
		if pre == nil {
			pre = make(map[ecs.Entity]cp.Vector)
		}
		pre[pent] = pm.start
	}
	return pre
}
