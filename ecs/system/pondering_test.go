package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPonderWorld(tickRate float64) (*ecs.World, *PonderingSystem) {
	w := ecs.NewWorld()
	ps := NewPonderingSystem(PonderingConfig{TickRate: tickRate})
	ps.Attach(w)
	return w, ps
}

func addGeometry(t *testing.T, w *ecs.World, geo *component.MapGeometry) {
	t.Helper()
	geo.Sort()
	require.NoError(t, ecs.Add(w, ecs.CreateEntity(w), component.MapGeometryComponent.Kind(), geo))
}

func wallEdges() [4]component.Adjacency {
	var edges [4]component.Adjacency
	for _, d := range component.Directions {
		edges[d] = component.Adjacency{Type: component.AdjacencyWall}
	}
	return edges
}

type bodyOpts struct {
	x, y, w, h float64
	vel        cp.Vector
	kind       component.PonderKind
	surface    component.SurfaceType
	frozen     bool
	player     bool
}

func addBody(t *testing.T, w *ecs.World, o bodyOpts) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: o.x, Y: o.y, Width: int(o.w), Height: int(o.h)}))
	require.NoError(t, ecs.Add(w, e, component.PonderableComponent.Kind(), &component.Ponderable{
		Velocity: o.vel,
		Kind:     o.kind,
		Active:   true,
		Frozen:   o.frozen,
	}))
	require.NoError(t, ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Surface: o.surface, Collidable: true}))
	if o.player {
		require.NoError(t, ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	}
	return e
}

func addStatic(t *testing.T, w *ecs.World, x, y, width, height float64, surface component.SurfaceType) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, Width: int(width), Height: int(height)}))
	require.NoError(t, ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Surface: surface, Collidable: true}))
	return e
}

func body(t *testing.T, w *ecs.World, e ecs.Entity) (*component.Transform, *component.Ponderable) {
	t.Helper()
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	p, ok := ecs.Get(w, e, component.PonderableComponent.Kind())
	require.True(t, ok)
	return tr, p
}

func collisionKinds(w *ecs.World, e ecs.Entity) []ecs.CollisionEventKind {
	var kinds []ecs.CollisionEventKind
	w.Events().Each(func(evt ecs.Event) {
		ce, ok := evt.Data.(ecs.CollisionEvent)
		if ok && ce.Entity == e {
			kinds = append(kinds, ce.Kind)
		}
	})
	return kinds
}

// assertFerryConsistent checks both sides of the passenger relation.
func assertFerryConsistent(t *testing.T, w *ecs.World) {
	t.Helper()
	ecs.ForEach(w, component.PonderableComponent.Kind(), func(e ecs.Entity, p *component.Ponderable) {
		if p.Ferried {
			c, ok := ecs.Get(w, ecs.Entity(p.Ferry), component.PonderableComponent.Kind())
			if assert.True(t, ok, "ferry of %v missing", e) {
				assert.True(t, c.HasPassenger(uint64(e)), "ferry of %v does not list it", e)
			}
		}
		for _, pe := range p.Passengers {
			pp, ok := ecs.Get(w, ecs.Entity(pe), component.PonderableComponent.Kind())
			if assert.True(t, ok, "passenger %d of %v missing", pe, e) {
				assert.True(t, pp.Ferried, "passenger %d not ferried", pe)
				assert.Equal(t, uint64(e), pp.Ferry)
			}
		}
	})
}

func TestPonderingWallStop(t *testing.T) {
	w, ps := newPonderWorld(100)
	geo := component.NewMapGeometry("walls", 1000, 1000, wallEdges())
	geo.Add(component.DirRight, component.Boundary{Axis: 110, Lower: 0, Upper: 50, Surface: component.SurfaceWall})
	addGeometry(t, w, geo)

	e := addBody(t, w, bodyOpts{x: 100, y: 10, w: 10, h: 10, vel: cp.Vector{X: 90}})
	ps.Update(w)

	tr, p := body(t, w, e)
	assert.Equal(t, 100.0, tr.X)
	assert.Equal(t, 10.0, tr.Y)
	assert.Equal(t, 0.0, p.Velocity.X)
	assert.Contains(t, collisionKinds(w, e), ecs.CollisionEventBlocked)
}

func TestPonderingBoundaryOutsideExtentIgnored(t *testing.T) {
	w, ps := newPonderWorld(100)
	geo := component.NewMapGeometry("walls", 1000, 1000, wallEdges())
	geo.Add(component.DirRight, component.Boundary{Axis: 110, Lower: 0, Upper: 50, Surface: component.SurfaceWall})
	addGeometry(t, w, geo)

	// Rests exactly on the extent's lower end: touching is not overlapping.
	e := addBody(t, w, bodyOpts{x: 100, y: 50, w: 10, h: 10, vel: cp.Vector{X: 90}})
	ps.Update(w)

	tr, p := body(t, w, e)
	assert.InDelta(t, 100.9, tr.X, 1e-9)
	assert.Equal(t, 90.0, p.Velocity.X)
}

func TestPonderingTerminalVelocity(t *testing.T) {
	w, ps := newPonderWorld(60)
	e := addBody(t, w, bodyOpts{x: 0, y: 0, w: 10, h: 10, kind: component.PonderFreefalling})
	_, p := body(t, w, e)
	p.Acceleration = cp.Vector{Y: 300}

	for i := 0; i < 400; i++ {
		ps.Update(w)
		require.LessOrEqual(t, p.Velocity.Y, defaultTerminalVelocity, "tick %d", i)
	}
	assert.Equal(t, defaultTerminalVelocity, p.Velocity.Y)
}

func TestPonderingVacuumedIgnoresGravity(t *testing.T) {
	w, ps := newPonderWorld(60)
	e := addBody(t, w, bodyOpts{x: 0, y: 0, w: 10, h: 10, vel: cp.Vector{Y: 900}})

	ps.Update(w)
	_, p := body(t, w, e)
	assert.Equal(t, 900.0, p.Velocity.Y)
}

func TestPonderingRestIsIdempotent(t *testing.T) {
	w, ps := newPonderWorld(60)
	geo := component.NewMapGeometry("floor", 1000, 1000, wallEdges())
	geo.Add(component.DirDown, component.Boundary{Axis: 100, Lower: 0, Upper: 200, Surface: component.SurfaceWall})
	addGeometry(t, w, geo)

	e := addBody(t, w, bodyOpts{x: 20, y: 90, w: 10, h: 10, kind: component.PonderFreefalling})
	for i := 0; i < 30; i++ {
		ps.Update(w)
		tr, p := body(t, w, e)
		require.Equal(t, 90.0, tr.Y, "tick %d", i)
		require.Equal(t, 20.0, tr.X, "tick %d", i)
		require.True(t, p.Grounded, "tick %d", i)
		require.Zero(t, p.Ground)
		require.Equal(t, 0.0, p.Velocity.Y)
	}
}

func TestPonderingNoPenetrationAgainstEntities(t *testing.T) {
	w, ps := newPonderWorld(60)
	far := addStatic(t, w, 40, 0, 10, 10, component.SurfaceWall)
	near := addStatic(t, w, 25, 0, 20, 10, component.SurfaceWall)
	e := addBody(t, w, bodyOpts{x: 0, y: 0, w: 10, h: 10, vel: cp.Vector{X: 2280}})

	ps.Update(w)
	tr, p := body(t, w, e)
	assert.Equal(t, 15.0, tr.X)
	assert.Equal(t, 0.0, p.Velocity.X)

	var blockedBy []ecs.Entity
	w.Events().Each(func(evt ecs.Event) {
		ce := evt.Data.(ecs.CollisionEvent)
		if ce.Entity == e && ce.Kind == ecs.CollisionEventBlocked {
			blockedBy = append(blockedBy, ce.Other)
		}
	})
	assert.Equal(t, []ecs.Entity{near}, blockedBy)
	assert.NotContains(t, blockedBy, far)
}

func TestPonderingBoundaryCloserThanEntity(t *testing.T) {
	w, ps := newPonderWorld(60)
	geo := component.NewMapGeometry("walls", 1000, 1000, wallEdges())
	geo.Add(component.DirRight, component.Boundary{Axis: 20, Lower: 0, Upper: 100, Surface: component.SurfaceWall})
	addGeometry(t, w, geo)
	addStatic(t, w, 30, 0, 30, 10, component.SurfaceWall)

	e := addBody(t, w, bodyOpts{x: 0, y: 0, w: 10, h: 10, vel: cp.Vector{X: 3000}})
	ps.Update(w)

	tr, _ := body(t, w, e)
	assert.Equal(t, 10.0, tr.X)
}

func TestPonderingWrap(t *testing.T) {
	w, ps := newPonderWorld(60)
	edges := wallEdges()
	edges[component.DirLeft] = component.Adjacency{Type: component.AdjacencyWrap}
	addGeometry(t, w, component.NewMapGeometry("wrap", 200, 200, edges))

	e := addBody(t, w, bodyOpts{x: 5, y: 50, w: 10, h: 10, vel: cp.Vector{X: -600}})
	ps.Update(w)

	tr, p := body(t, w, e)
	assert.Equal(t, 190.0, tr.X)
	assert.Equal(t, 50.0, tr.Y)
	assert.Equal(t, -600.0, p.Velocity.X)
	assert.Contains(t, collisionKinds(w, e), ecs.CollisionEventWrapped)
}

func TestPonderingReverseEdgeIsInert(t *testing.T) {
	w, ps := newPonderWorld(60)
	edges := wallEdges()
	edges[component.DirRight] = component.Adjacency{Type: component.AdjacencyReverse, Target: "b"}
	addGeometry(t, w, component.NewMapGeometry("rev", 200, 200, edges))

	e := addBody(t, w, bodyOpts{x: 185, y: 50, w: 10, h: 10, vel: cp.Vector{X: 600}, player: true})
	ps.Update(w)

	tr, p := body(t, w, e)
	assert.InDelta(t, 195.0, tr.X, 1e-9)
	assert.Equal(t, 50.0, tr.Y)
	assert.Equal(t, cp.Vector{X: 600}, p.Velocity)
	kinds := collisionKinds(w, e)
	assert.NotContains(t, kinds, ecs.CollisionEventWrapped)
	assert.NotContains(t, kinds, ecs.CollisionEventWarp)
	assert.NotContains(t, kinds, ecs.CollisionEventBlocked)
	assert.Empty(t, ecs.Query(w, component.LevelChangeRequestComponent.Kind()))
}

func TestPonderingEdgeWallBlocks(t *testing.T) {
	w, ps := newPonderWorld(60)
	addGeometry(t, w, component.NewMapGeometry("box", 200, 200, wallEdges()))

	e := addBody(t, w, bodyOpts{x: 185, y: 50, w: 10, h: 10, vel: cp.Vector{X: 600}})
	ps.Update(w)

	tr, p := body(t, w, e)
	assert.Equal(t, 190.0, tr.X)
	assert.Equal(t, 0.0, p.Velocity.X)
}

func TestPonderingWarpRequestsLevelChange(t *testing.T) {
	w, ps := newPonderWorld(100)
	edges := wallEdges()
	edges[component.DirRight] = component.Adjacency{Type: component.AdjacencyWarp, Target: "b"}
	addGeometry(t, w, component.NewMapGeometry("a", 100, 1000, edges))

	player := addBody(t, w, bodyOpts{x: 85, y: 40, w: 10, h: 10, vel: cp.Vector{X: 1000}, player: true})
	ps.Update(w)

	reqs := ecs.Query(w, component.LevelChangeRequestComponent.Kind())
	require.Len(t, reqs, 1)
	req, _ := ecs.Get(w, reqs[0], component.LevelChangeRequestComponent.Kind())
	assert.Equal(t, "b", req.TargetLevel)
	assert.Equal(t, uint64(player), req.Entity)
	assert.Equal(t, 0.0, req.EntryX)
	assert.Equal(t, 40.0, req.EntryY)
	assert.Equal(t, component.DirRight, req.Edge)

	tr, _ := body(t, w, player)
	assert.InDelta(t, 95.0, tr.X, 1e-9)
}

func TestPonderingWarpIgnoresNonPlayable(t *testing.T) {
	w, ps := newPonderWorld(100)
	edges := wallEdges()
	edges[component.DirRight] = component.Adjacency{Type: component.AdjacencyWarp, Target: "b"}
	addGeometry(t, w, component.NewMapGeometry("a", 100, 1000, edges))

	addBody(t, w, bodyOpts{x: 85, y: 40, w: 10, h: 10, vel: cp.Vector{X: 1000}})
	ps.Update(w)

	assert.Empty(t, ecs.Query(w, component.LevelChangeRequestComponent.Kind()))
}

func TestPonderingDangerKillsAndCancelsWarp(t *testing.T) {
	w, ps := newPonderWorld(100)
	edges := wallEdges()
	edges[component.DirRight] = component.Adjacency{Type: component.AdjacencyWarp, Target: "b"}
	geo := component.NewMapGeometry("a", 100, 1000, edges)
	geo.Add(component.DirDown, component.Boundary{Axis: 96, Lower: 0, Upper: 200, Surface: component.SurfaceDanger})
	addGeometry(t, w, geo)

	player := addBody(t, w, bodyOpts{x: 85, y: 85, w: 10, h: 10, vel: cp.Vector{X: 1000, Y: 200}, player: true})
	ps.Update(w)

	assert.Empty(t, ecs.Query(w, component.LevelChangeRequestComponent.Kind()))
	deaths := ecs.Query(w, component.DeathRequestComponent.Kind())
	require.Equal(t, []ecs.Entity{player}, deaths)
	death, _ := ecs.Get(w, player, component.DeathRequestComponent.Kind())
	assert.Zero(t, death.Source)
	assert.InDelta(t, 95.0, death.X, 1e-9)
	assert.InDelta(t, 87.0, death.Y, 1e-9)
}

func TestPonderingDangerStopsNonPlayable(t *testing.T) {
	w, ps := newPonderWorld(100)
	spikes := addStatic(t, w, 0, 100, 50, 10, component.SurfaceDanger)
	e := addBody(t, w, bodyOpts{x: 10, y: 89, w: 10, h: 10, vel: cp.Vector{Y: 200}})
	ps.Update(w)

	tr, p := body(t, w, e)
	assert.InDelta(t, 91.0, tr.Y, 1e-9)
	assert.Equal(t, 200.0, p.Velocity.Y)
	assert.False(t, ecs.Has(w, e, component.DeathRequestComponent.Kind()))

	var hazardFrom []ecs.Entity
	w.Events().Each(func(evt ecs.Event) {
		ce := evt.Data.(ecs.CollisionEvent)
		if ce.Kind == ecs.CollisionEventHitHazard {
			hazardFrom = append(hazardFrom, ce.Other)
		}
	})
	assert.Equal(t, []ecs.Entity{spikes}, hazardFrom)
}

func TestPonderingPlatformIsOneWay(t *testing.T) {
	w, ps := newPonderWorld(60)
	addStatic(t, w, 0, 100, 100, 10, component.SurfacePlatform)
	e := addBody(t, w, bodyOpts{x: 10, y: 115, w: 10, h: 10, vel: cp.Vector{Y: -600}})

	ps.Update(w)
	tr, p := body(t, w, e)
	assert.InDelta(t, 105.0, tr.Y, 1e-9)
	assert.Equal(t, -600.0, p.Velocity.Y)
}

func TestPonderingDropThroughPlatform(t *testing.T) {
	w, ps := newPonderWorld(60)
	geo := component.NewMapGeometry("ledge", 1000, 1000, wallEdges())
	geo.Add(component.DirDown, component.Boundary{Axis: 100, Lower: 0, Upper: 200, Surface: component.SurfacePlatform})
	addGeometry(t, w, geo)

	e := addBody(t, w, bodyOpts{x: 20, y: 90, w: 10, h: 10, kind: component.PonderFreefalling, player: true})
	drop := &component.Drop{}
	require.NoError(t, ecs.Add(w, e, component.DropComponent.Kind(), drop))

	ps.Update(w)
	tr, p := body(t, w, e)
	require.Equal(t, 90.0, tr.Y)
	require.True(t, p.Grounded)

	drop.State = component.DropRequested
	ps.Update(w)
	assert.InDelta(t, 90.0+15.0/60.0, tr.Y, 1e-9)
	assert.False(t, p.Grounded)
	assert.Equal(t, component.DropUsed, drop.State)
	assert.Contains(t, collisionKinds(w, e), ecs.CollisionEventDropped)

	ps.Update(w)
	assert.Equal(t, component.DropNone, drop.State)
	assert.Greater(t, tr.Y, 90.25)
}

func TestPonderingEventColliderTriggersAfterTick(t *testing.T) {
	w, ps := newPonderWorld(60)
	sensor := addStatic(t, w, 15, 0, 10, 10, component.SurfaceEvent)
	e := addBody(t, w, bodyOpts{x: 0, y: 0, w: 10, h: 10, vel: cp.Vector{X: 600}})

	var calls [][2]uint64
	require.NoError(t, ecs.Add(w, sensor, component.EventColliderComponent.Kind(), &component.EventCollider{
		OnCollide: func(mover, collider uint64) {
			tr, _ := ecs.Get(w, ecs.Entity(mover), component.TransformComponent.Kind())
			assert.InDelta(t, 10.0, tr.X, 1e-9, "callback must see the committed position")
			calls = append(calls, [2]uint64{mover, collider})
		},
	}))

	ps.Update(w)
	assert.Equal(t, [][2]uint64{{uint64(e), uint64(sensor)}}, calls)
}

func TestPonderingFrozenBodyDoesNotIntegrate(t *testing.T) {
	w, ps := newPonderWorld(60)
	e := addBody(t, w, bodyOpts{x: 5, y: 5, w: 10, h: 10, vel: cp.Vector{X: 600, Y: 60}, kind: component.PonderFreefalling, frozen: true})

	ps.Update(w)
	tr, p := body(t, w, e)
	assert.Equal(t, 5.0, tr.X)
	assert.Equal(t, 5.0, tr.Y)
	assert.Equal(t, cp.Vector{X: 600, Y: 60}, p.Velocity)
}

func TestPonderingInactiveBodiesSkipped(t *testing.T) {
	w, ps := newPonderWorld(60)
	ghost := addBody(t, w, bodyOpts{x: 15, y: 0, w: 10, h: 10, vel: cp.Vector{X: 600}})
	_, gp := body(t, w, ghost)
	gp.Active = false
	e := addBody(t, w, bodyOpts{x: 0, y: 0, w: 10, h: 10, vel: cp.Vector{X: 600}})

	ps.Update(w)
	gt, _ := body(t, w, ghost)
	assert.Equal(t, 15.0, gt.X)
	tr, _ := body(t, w, e)
	assert.InDelta(t, 10.0, tr.X, 1e-9)
	assert.Equal(t, 1, ps.Stats().Bodies)
}

func TestPonderingLandingFerriesOntoBody(t *testing.T) {
	w, ps := newPonderWorld(60)
	lift := addBody(t, w, bodyOpts{x: 0, y: 100, w: 50, h: 10, vel: cp.Vector{X: 60}})
	rider := addBody(t, w, bodyOpts{x: 10, y: 90, w: 10, h: 10, kind: component.PonderFreefalling})

	ps.Update(w)
	_, rp := body(t, w, rider)
	require.True(t, rp.Grounded)
	require.True(t, rp.Ferried)
	assert.Equal(t, uint64(lift), rp.Ferry)
	assert.Equal(t, uint64(lift), rp.Ground)
	assert.Equal(t, component.DirDown, rp.FerrySide)
	assert.Contains(t, collisionKinds(w, rider), ecs.CollisionEventFerried)
	assertFerryConsistent(t, w)

	rt, _ := body(t, w, rider)
	for i := 1; i <= 10; i++ {
		ps.Update(w)
		lt, _ := body(t, w, lift)
		require.InDelta(t, float64(1+i), lt.X, 1e-9)
		require.InDelta(t, 10.0+float64(i), rt.X, 1e-9)
		require.Equal(t, 90.0, rt.Y)
		assertFerryConsistent(t, w)
	}
}

func TestPonderingLiftCarriesRiderUpward(t *testing.T) {
	w, ps := newPonderWorld(60)
	lift := addBody(t, w, bodyOpts{x: 0, y: 100, w: 50, h: 10, vel: cp.Vector{Y: -60}})
	rider := addBody(t, w, bodyOpts{x: 10, y: 90, w: 10, h: 10, kind: component.PonderFreefalling})
	_, rp := body(t, w, rider)
	rp.Grounded = true
	rp.Ground = uint64(lift)
	ferry(w, rider, lift, component.DirDown)

	lt, _ := body(t, w, lift)
	rt, _ := body(t, w, rider)
	for i := 1; i <= 20; i++ {
		ps.Update(w)
		require.InDelta(t, 100.0-float64(i), lt.Y, 1e-9, "tick %d", i)
		require.InDelta(t, 90.0-float64(i), rt.Y, 1e-9, "tick %d", i)
		require.True(t, rp.Ferried, "tick %d", i)
		require.True(t, rp.Grounded, "tick %d", i)
	}
	assertFerryConsistent(t, w)
}

func TestPonderingRiderCarriedIntoWallIsStopped(t *testing.T) {
	w, ps := newPonderWorld(60)
	geo := component.NewMapGeometry("ledge", 1000, 1000, wallEdges())
	// Spans the rider's height only, so the lift passes underneath.
	geo.Add(component.DirRight, component.Boundary{Axis: 50, Lower: 80, Upper: 100, Surface: component.SurfaceWall})
	addGeometry(t, w, geo)

	lift := addBody(t, w, bodyOpts{x: 0, y: 100, w: 50, h: 10, vel: cp.Vector{X: 60}})
	rider := addBody(t, w, bodyOpts{x: 30, y: 90, w: 10, h: 10, kind: component.PonderFreefalling})
	_, rp := body(t, w, rider)
	rp.Grounded = true
	rp.Ground = uint64(lift)
	ferry(w, rider, lift, component.DirDown)

	lt, _ := body(t, w, lift)
	rt, _ := body(t, w, rider)
	for i := 1; i <= 20; i++ {
		ps.Update(w)
		require.InDelta(t, float64(i), lt.X, 1e-9, "tick %d", i)
		require.LessOrEqual(t, rt.X+10, 50.0+1e-9, "tick %d", i)
		require.Equal(t, 90.0, rt.Y, "tick %d", i)
	}
	assert.InDelta(t, 40.0, rt.X, 1e-9)
	assert.True(t, rp.Ferried)
	assert.True(t, rp.Grounded)
	assert.Contains(t, collisionKinds(w, rider), ecs.CollisionEventBlocked)

	// Once the lift has slid out from under it, the rider falls off.
	for i := 0; i < 40; i++ {
		ps.Update(w)
		require.LessOrEqual(t, rt.X+10, 50.0+1e-9)
	}
	assert.False(t, rp.Ferried)
	assert.Greater(t, rt.Y, 90.0)
	assertFerryConsistent(t, w)
}

func TestPonderingRiderCarriedIntoCeilingStopsLift(t *testing.T) {
	w, ps := newPonderWorld(60)
	geo := component.NewMapGeometry("shaft", 1000, 1000, wallEdges())
	geo.Add(component.DirUp, component.Boundary{Axis: 80, Lower: 0, Upper: 100, Surface: component.SurfaceWall})
	addGeometry(t, w, geo)

	lift := addBody(t, w, bodyOpts{x: 0, y: 100, w: 50, h: 10, vel: cp.Vector{Y: -60}})
	rider := addBody(t, w, bodyOpts{x: 10, y: 90, w: 10, h: 10, kind: component.PonderFreefalling})
	_, rp := body(t, w, rider)
	rp.Grounded = true
	rp.Ground = uint64(lift)
	ferry(w, rider, lift, component.DirDown)

	lt, lp := body(t, w, lift)
	rt, _ := body(t, w, rider)
	for i := 1; i <= 20; i++ {
		ps.Update(w)
		require.GreaterOrEqual(t, rt.Y, 80.0-1e-9, "tick %d", i)
		require.GreaterOrEqual(t, lt.Y, rt.Y+10-1e-9, "tick %d", i)
	}
	assert.InDelta(t, 80.0, rt.Y, 1e-9)
	assert.InDelta(t, 90.0, lt.Y, 1e-9)
	assert.Equal(t, 0.0, lp.Velocity.Y)
	assert.True(t, rp.Ferried)
	assert.Contains(t, collisionKinds(w, lift), ecs.CollisionEventBlocked)
	assertFerryConsistent(t, w)
}

func TestPonderingRiderCarriedOntoLedgeStaysAbove(t *testing.T) {
	w, ps := newPonderWorld(60)
	geo := component.NewMapGeometry("ledge", 1000, 1000, wallEdges())
	// Clear of the lift, under the part of the rider that overhangs it.
	geo.Add(component.DirDown, component.Boundary{Axis: 105, Lower: 32, Upper: 60, Surface: component.SurfaceWall})
	addGeometry(t, w, geo)

	lift := addBody(t, w, bodyOpts{x: 0, y: 100, w: 30, h: 10, vel: cp.Vector{Y: 60}})
	rider := addBody(t, w, bodyOpts{x: 25, y: 90, w: 10, h: 10, kind: component.PonderFreefalling})
	_, rp := body(t, w, rider)
	rp.Grounded = true
	rp.Ground = uint64(lift)
	ferry(w, rider, lift, component.DirDown)

	lt, _ := body(t, w, lift)
	rt, _ := body(t, w, rider)
	for i := 1; i <= 20; i++ {
		ps.Update(w)
		require.LessOrEqual(t, rt.Y+10, 105.0+1e-9, "tick %d", i)
		assertFerryConsistent(t, w)
	}
	assert.InDelta(t, 120.0, lt.Y, 1e-9)
	assert.InDelta(t, 95.0, rt.Y, 1e-9)
	assert.True(t, rp.Grounded)
	assert.Zero(t, rp.Ground)
	// Still grounded, so it keeps its ferry until it next leaves the ground.
	assert.True(t, rp.Ferried)
}

func TestPonderingPassengerChain(t *testing.T) {
	w, ps := newPonderWorld(60)
	base := addBody(t, w, bodyOpts{x: 0, y: 100, w: 60, h: 10, vel: cp.Vector{X: 60}})
	crate := addBody(t, w, bodyOpts{x: 10, y: 80, w: 20, h: 20, kind: component.PonderFreefalling})
	top := addBody(t, w, bodyOpts{x: 15, y: 70, w: 10, h: 10, kind: component.PonderFreefalling})
	ferry(w, crate, base, component.DirDown)
	ferry(w, top, crate, component.DirDown)

	ps.Update(w)
	ct, _ := body(t, w, crate)
	tt, _ := body(t, w, top)
	assert.InDelta(t, 11.0, ct.X, 1e-9)
	assert.InDelta(t, 16.0, tt.X, 1e-9)
	assert.Equal(t, 80.0, ct.Y)
	assert.Equal(t, 70.0, tt.Y)
	assert.Equal(t, 1, ps.Stats().Bodies)
	assertFerryConsistent(t, w)
}

func TestPonderingWalkOffUnferries(t *testing.T) {
	w, ps := newPonderWorld(60)
	lift := addBody(t, w, bodyOpts{x: 0, y: 100, w: 20, h: 10})
	rider := addBody(t, w, bodyOpts{x: 15, y: 90, w: 10, h: 10, vel: cp.Vector{X: 600}, kind: component.PonderFreefalling})
	_, rp := body(t, w, rider)
	rp.Grounded = true
	ferry(w, rider, lift, component.DirDown)

	ps.Update(w)
	assert.False(t, rp.Ferried)
	assert.False(t, rp.Grounded)
	_, lp := body(t, w, lift)
	assert.Empty(t, lp.Passengers)
	assert.Contains(t, collisionKinds(w, rider), ecs.CollisionEventUnferried)
	assertFerryConsistent(t, w)
}

func TestPonderingNoFerryCycles(t *testing.T) {
	w := ecs.NewWorld()
	a := ecs.CreateEntity(w)
	b := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, a, component.PonderableComponent.Kind(), &component.Ponderable{Active: true}))
	require.NoError(t, ecs.Add(w, b, component.PonderableComponent.Kind(), &component.Ponderable{Active: true}))
	ferry(w, b, a, component.DirDown)

	assert.True(t, carries(w, a, b))
	assert.True(t, carries(w, a, a))
	assert.False(t, carries(w, b, a))
}

func TestReleaseBodyOnDestroy(t *testing.T) {
	w, ps := newPonderWorld(60)
	lift := addBody(t, w, bodyOpts{x: 0, y: 100, w: 50, h: 10})
	rider := addBody(t, w, bodyOpts{x: 10, y: 90, w: 10, h: 10, kind: component.PonderFreefalling})
	ps.Update(w)
	_, rp := body(t, w, rider)
	require.True(t, rp.Ferried)

	require.True(t, ecs.DestroyEntity(w, lift))
	assert.False(t, rp.Ferried)
	assert.False(t, rp.Grounded)
	assert.Zero(t, rp.Ground)
	assertFerryConsistent(t, w)

	assert.NotPanics(t, func() { ps.Update(w) })
	rt, _ := body(t, w, rider)
	assert.Greater(t, rt.Y, 90.0)
}

func TestPonderingDeactivatedFerryReleasesRider(t *testing.T) {
	w, ps := newPonderWorld(60)
	lift := addBody(t, w, bodyOpts{x: 0, y: 100, w: 50, h: 10})
	rider := addBody(t, w, bodyOpts{x: 10, y: 90, w: 10, h: 10, kind: component.PonderFreefalling})
	ps.Update(w)
	_, lp := body(t, w, lift)
	lp.Active = false

	ps.Update(w)
	_, rp := body(t, w, rider)
	assert.False(t, rp.Ferried)
	assert.Empty(t, lp.Passengers)
	rt, _ := body(t, w, rider)
	assert.Greater(t, rt.Y, 90.0)
}

func TestResetContacts(t *testing.T) {
	w, ps := newPonderWorld(60)
	lift := addBody(t, w, bodyOpts{x: 0, y: 100, w: 50, h: 10})
	rider := addBody(t, w, bodyOpts{x: 10, y: 90, w: 10, h: 10, kind: component.PonderFreefalling})
	ps.Update(w)

	ResetContacts(w, rider)
	_, rp := body(t, w, rider)
	_, lp := body(t, w, lift)
	assert.False(t, rp.Ferried)
	assert.False(t, rp.Grounded)
	assert.Empty(t, lp.Passengers)
}

func TestPonderingMissingComponentsPanic(t *testing.T) {
	w, ps := newPonderWorld(60)
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Width: 1, Height: 1}))

	tk := newTick(ps, w)
	assert.Panics(t, func() { tk.move(e, zeroShift, 0) })
	assert.Panics(t, func() { tk.plan(e, zeroShift, maxFerryDepth+1, nil) })
}

func TestPonderingConfigDefaults(t *testing.T) {
	ps := NewPonderingSystem(PonderingConfig{})
	assert.InDelta(t, 1.0/60.0, ps.DT(), 1e-12)
	assert.Equal(t, defaultGravity, ps.cfg.Gravity)
	assert.Equal(t, defaultTerminalVelocity, ps.cfg.TerminalVelocity)

	var nilSystem *PonderingSystem
	assert.Zero(t, nilSystem.DT())
	assert.NotPanics(t, func() { nilSystem.Update(ecs.NewWorld()) })
}
