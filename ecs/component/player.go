package component

// Player holds the tuning the player controller applies to a playable body.
type Player struct {
	MoveSpeed    float64
	JumpSpeed    float64
	CoyoteFrames int
	// Coyote counts down the frames since the body was last grounded.
	Coyote int
}

var PlayerComponent = NewComponent[Player]()
