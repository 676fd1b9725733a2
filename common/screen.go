package common

// Logical resolution of the viewer. The window scales to fit.
const (
	BaseWidth  = 1280
	BaseHeight = 720
)
