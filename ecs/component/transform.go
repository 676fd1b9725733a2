package component

import "github.com/jakecoffman/cp"

// Transform is an axis-aligned rectangle: X/Y is the top-left corner.
type Transform struct {
	X      float64
	Y      float64
	Width  int
	Height int
}

func (t Transform) Position() cp.Vector {
	return cp.Vector{X: t.X, Y: t.Y}
}

func (t *Transform) SetPosition(p cp.Vector) {
	t.X = p.X
	t.Y = p.Y
}

// Bounds returns the rectangle as a Chipmunk bounding box. Y grows downward,
// so B holds the top edge and T the bottom one.
func (t Transform) Bounds() cp.BB {
	return cp.BB{L: t.X, B: t.Y, R: t.X + float64(t.Width), T: t.Y + float64(t.Height)}
}

var TransformComponent = NewComponent[Transform]()
