package component

import (
	"fmt"
	"strings"
)

// Direction is one of the four sweep directions. Screen coordinates are used:
// +X points right and +Y points down.
type Direction uint8

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// Directions lists every direction in index order.
var Directions = [4]Direction{DirLeft, DirRight, DirUp, DirDown}

// Horizontal reports whether d sweeps the X axis.
func (d Direction) Horizontal() bool {
	return d == DirLeft || d == DirRight
}

// Ascending reports whether moving in d increases the swept coordinate.
func (d Direction) Ascending() bool {
	return d == DirRight || d == DirDown
}

func (d Direction) Opposite() Direction {
	switch d {
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	case DirUp:
		return DirDown
	default:
		return DirUp
	}
}

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	}
	return 0, fmt.Errorf("component: unknown direction %q", s)
}
