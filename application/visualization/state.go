package visualization

import "encoding/json"

// State is the lifecycle state of a session
type State int

const (
	// StateUninitialized is a session that has not run Initialize yet
	StateUninitialized State = iota
	// StateEmpty means there are no active entries to draw
	StateEmpty
	// StateReady means a graph is built and laid out
	StateReady
	// StateUnavailable means the rendering surface could not be set up
	StateUnavailable
	// StateClosed is a torn-down session; Initialize reopens it
	StateClosed
)

var stateNames = map[State]string{
	StateUninitialized: "uninitialized",
	StateEmpty:         "empty",
	StateReady:         "ready",
	StateUnavailable:   "unavailable",
	StateClosed:        "closed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON writes the state by name
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
