package component

// Camera is the viewer's window onto the map. X/Y is its top-left corner in
// world coordinates.
type Camera struct {
	X          float64
	Y          float64
	Zoom       float64
	Smoothness float64
}

var CameraComponent = NewComponent[Camera]()
