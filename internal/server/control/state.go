package control

import "sync/atomic"

// State is the lifecycle state of the server.
type State int32

const (
	// StateStarting: port bound, state record not yet published.
	StateStarting State = iota
	// StateRunning: draining the queue on every tick.
	StateRunning
	// StateStopping: a stop was requested; teardown is in progress.
	StateStopping
	// StateTerminated is terminal: control files have been removed.
	StateTerminated
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// lifecycle only moves forward; transitions are compare-and-swap.
type lifecycle struct {
	v atomic.Int32
}

func (l *lifecycle) load() State {
	return State(l.v.Load())
}

func (l *lifecycle) transition(from, to State) bool {
	if to <= from {
		return false
	}
	return l.v.CompareAndSwap(int32(from), int32(to))
}

// advance moves to 'to' from any earlier state and reports whether this
// call performed the move.
func (l *lifecycle) advance(to State) bool {
	for {
		cur := l.load()
		if cur >= to {
			return false
		}
		if l.v.CompareAndSwap(int32(cur), int32(to)) {
			return true
		}
	}
}
