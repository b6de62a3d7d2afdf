package pipeline

// State identifies where a clip is in its lifecycle. The pipeline moves
// a clip Pending -> Ranged -> Rendering -> Transcribing -> Done, landing
// in Skipped or PartiallyFailed when something goes wrong.
type State string

const (
	StatePending         State = "Pending"
	StateRanged          State = "Ranged"
	StateRendering       State = "Rendering"
	StateTranscribing    State = "Transcribing"
	StateDone            State = "Done"
	StateSkipped         State = "Skipped"
	StatePartiallyFailed State = "PartiallyFailed"
)

// Terminal reports whether the state ends a clip's processing.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateSkipped, StatePartiallyFailed:
		return true
	}
	return false
}

func (s State) String() string { return string(s) }
