package system

import (
	"fmt"

	"github.com/milk9111/ponder/ecs"
	"github.com/milk9111/ponder/ecs/component"
)

type effectKind uint8

const (
	effectBlocked effectKind = iota
	effectDeath
	effectHazard
	effectWarp
	effectWrap
	effectDrop
	effectTrigger
)

// effect is a side effect requested by a surface. Effects are collected while
// a body is planned and only take hold when the plan is committed, so a dry
// run (passenger pre-resolution) never leaks them.
type effect struct {
	kind  effectKind
	other ecs.Entity
	death component.DeathRequest
	warp  component.LevelChangeRequest
}

// contact is the outcome of touching one surface.
type contact struct {
	blocked bool
	stop    bool

	relocated bool
	coord     float64

	effects []effect
}

// surfaceHit identifies what was touched: an entity collider (other != 0) or
// a map boundary.
type surfaceHit struct {
	surface  component.SurfaceType
	other    ecs.Entity
	boundary bool
}

// resolveSurface maps a surface to its effect on m moving in dir.
func (tk *tick) resolveSurface(m *motion, s sweepDir, hit surfaceHit, cand float64) contact {
	switch hit.surface {
	case component.SurfaceWall:
		return contact{blocked: true}

	case component.SurfacePlatform:
		if s.dir != component.DirDown {
			return contact{}
		}
		if tk.dropActive(m.e) {
			return contact{effects: []effect{{kind: effectDrop, other: hit.other}}}
		}
		return contact{blocked: true}

	case component.SurfaceAdjacency:
		if !hit.boundary || tk.geo == nil {
			return contact{}
		}
		switch tk.geo.Edge(s.dir).Type {
		case component.AdjacencyWall:
			return contact{blocked: true}
		case component.AdjacencyWrap:
			return contact{
				relocated: true,
				coord:     tk.oppositeEdge(s, m.size()),
				effects:   []effect{{kind: effectWrap}},
			}
		case component.AdjacencyWarp:
			if !tk.playable(m.e) {
				return contact{}
			}
			entry := m.pos
			s.set(&entry, tk.oppositeEdge(s, m.size()))
			return contact{effects: []effect{{
				kind: effectWarp,
				warp: component.LevelChangeRequest{
					TargetLevel: tk.geo.Edge(s.dir).Target,
					Entity:      uint64(m.e),
					EntryX:      entry.X,
					EntryY:      entry.Y,
					Edge:        s.dir,
				},
			}}}
		case component.AdjacencyReverse:
			return contact{}
		}
		return contact{}

	case component.SurfaceDanger:
		if !tk.playable(m.e) {
			return contact{stop: true, effects: []effect{{kind: effectHazard, other: hit.other}}}
		}
		at := m.pos
		s.set(&at, cand)
		return contact{stop: true, effects: []effect{{
			kind:  effectDeath,
			other: hit.other,
			death: component.DeathRequest{Source: uint64(hit.other), X: at.X, Y: at.Y},
		}}}

	case component.SurfaceEvent:
		if hit.boundary {
			return contact{}
		}
		return contact{effects: []effect{{kind: effectTrigger, other: hit.other}}}
	}
	panic(fmt.Sprintf("pondering: unknown surface type %v", hit.surface))
}

// oppositeEdge is the swept coordinate that places a body of the given size
// flush against the map edge opposite the one faced in s.dir.
func (tk *tick) oppositeEdge(s sweepDir, size [2]float64) float64 {
	switch s.dir {
	case component.DirLeft:
		return tk.geo.Width - size[0]
	case component.DirUp:
		return tk.geo.Height - size[1]
	default:
		return 0
	}
}

func (tk *tick) playable(e ecs.Entity) bool {
	return ecs.Has(tk.w, e, component.PlayerTagComponent.Kind())
}

func (tk *tick) dropActive(e ecs.Entity) bool {
	d, ok := ecs.Get(tk.w, e, component.DropComponent.Kind())
	if !ok {
		return false
	}
	return d.State == component.DropRequested || d.State == component.DropUsed
}
