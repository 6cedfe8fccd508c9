package playback

// State describes the relationship between the read and write cursors.
type State uint8

const (
	// Live: read follows write at the base delay offset, corrected every cycle.
	Live State = iota
	// Paused: write continues, read is frozen, the buffer fills up.
	Paused
	// TimeShifted: both advance, read behind write by a user-controlled amount.
	TimeShifted
)

// stateFromOrdinal decodes an atomically stored state, defaulting to Live
// for out-of-range values.
func stateFromOrdinal(v uint32) State {
	if v > uint32(TimeShifted) {
		return Live
	}
	return State(v)
}

// Label returns the display name for the state.
func (s State) Label() string {
	switch s {
	case Paused:
		return "PAUSED"
	case TimeShifted:
		return "TIME-SHIFTED"
	default:
		return "LIVE"
	}
}

// Symbol returns the two-character transport indicator for the state.
func (s State) Symbol() string {
	switch s {
	case Paused:
		return "||"
	case TimeShifted:
		return "> "
	default:
		return ">>"
	}
}

func (s State) String() string {
	return s.Label()
}
