package blockingdeque

import "fmt"

// State is the lifecycle stage of a Deque. Transitions only move forward:
// Running, then optionally Draining, then Closed.
type State int32

const (
	// Running accepts pushes and serves pops.
	Running State = iota
	// Draining rejects pushes but keeps serving queued elements. The deque
	// moves to Closed as soon as the last element is removed.
	Draining
	// Closed rejects pushes and fails every pop with ErrClosed.
	Closed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}
