package component

// Input stores per-frame input state for an entity.
type Input struct {
	MoveX       float64
	Jump        bool
	JumpPressed bool
	// Drop asks to fall through the platform currently stood on.
	Drop bool
}

var InputComponent = NewComponent[Input]()
