package component

// DropState tracks a request to fall through one-way platforms.
type DropState uint8

const (
	DropNone DropState = iota
	DropRequested
	// DropUsed acknowledges that a platform was passed through this tick.
	DropUsed
)

type Drop struct {
	State DropState
}

var DropComponent = NewComponent[Drop]()

func (s DropState) String() string {
	switch s {
	case DropNone:
		return "none"
	case DropRequested:
		return "requested"
	case DropUsed:
		return "used"
	}
	return "unknown"
}
