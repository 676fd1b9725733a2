package component

import "image/color"

// Tint is the fill color the debug viewer draws a body with.
type Tint struct {
	Color color.Color
}

var TintComponent = NewComponent[Tint]()
