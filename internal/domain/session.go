package domain

// SessionState is the position of an instruction session.
type SessionState int

const (
	StateAnnouncing SessionState = iota
	StateDeliveringStep
	StateAwaitingAdvance
	StateCompleted
	StateStopped
	// StateUnavailable is reported when the injury is unknown or has no steps.
	StateUnavailable
)

func (s SessionState) String() string {
	switch s {
	case StateAnnouncing:
		return "announcing"
	case StateDeliveringStep:
		return "delivering_step"
	case StateAwaitingAdvance:
		return "awaiting_advance"
	case StateCompleted:
		return "completed"
	case StateStopped:
		return "stopped"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s SessionState) Terminal() bool {
	return s == StateCompleted || s == StateStopped || s == StateUnavailable
}

// SessionResult summarises a finished instruction session.
type SessionResult struct {
	Injury    string
	State     SessionState
	Delivered int
	// Reason is set when State is StateUnavailable: ErrUnknownInjury or
	// ErrNoInstructions.
	Reason error
}
