package component

import (
	"fmt"
	"strings"
)

// SurfaceType is what a collider or boundary presents to a body that hits it.
type SurfaceType uint8

const (
	SurfaceWall SurfaceType = iota
	SurfacePlatform
	SurfaceAdjacency
	SurfaceDanger
	SurfaceEvent
)

func (s SurfaceType) String() string {
	switch s {
	case SurfaceWall:
		return "wall"
	case SurfacePlatform:
		return "platform"
	case SurfaceAdjacency:
		return "adjacency"
	case SurfaceDanger:
		return "danger"
	case SurfaceEvent:
		return "event"
	default:
		return fmt.Sprintf("surface(%d)", uint8(s))
	}
}

func ParseSurfaceType(s string) (SurfaceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wall", "solid":
		return SurfaceWall, nil
	case "platform":
		return SurfacePlatform, nil
	case "adjacency":
		return SurfaceAdjacency, nil
	case "danger", "hazard":
		return SurfaceDanger, nil
	case "event":
		return SurfaceEvent, nil
	}
	return 0, fmt.Errorf("component: unknown surface type %q", s)
}

// AdjacencyType governs what happens when a body crosses a map edge.
type AdjacencyType uint8

const (
	AdjacencyWall AdjacencyType = iota
	AdjacencyWrap
	AdjacencyWarp
	// AdjacencyReverse is accepted by the loader but has no behavior.
	AdjacencyReverse
)

func (a AdjacencyType) String() string {
	switch a {
	case AdjacencyWall:
		return "wall"
	case AdjacencyWrap:
		return "wrap"
	case AdjacencyWarp:
		return "warp"
	case AdjacencyReverse:
		return "reverse"
	default:
		return fmt.Sprintf("adjacency(%d)", uint8(a))
	}
}

func ParseAdjacencyType(s string) (AdjacencyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wall":
		return AdjacencyWall, nil
	case "wrap":
		return AdjacencyWrap, nil
	case "warp":
		return AdjacencyWarp, nil
	case "reverse":
		return AdjacencyReverse, nil
	}
	return 0, fmt.Errorf("component: unknown adjacency type %q", s)
}
