package valueobjects

// PinState says whether a node is under layout control or held in place by
// the user. The zero value is Free.
type PinState struct {
	pinned bool
	at     Position
}

// Free returns the unpinned state
func Free() PinState {
	return PinState{}
}

// PinnedAt returns a state holding the node at p
func PinnedAt(p Position) PinState {
	return PinState{pinned: true, at: p}
}

// IsPinned reports whether the node is held in place
func (s PinState) IsPinned() bool {
	return s.pinned
}

// At returns the pinned position; ok is false for a free node
func (s PinState) At() (Position, bool) {
	return s.at, s.pinned
}

// String returns "free" or "pinned"
func (s PinState) String() string {
	if s.pinned {
		return "pinned"
	}
	return "free"
}
