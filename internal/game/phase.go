package game

// Phase is the top-level game state. Transitions run strictly forward
// until the terminal reset back to the lobby.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseIntro
	PhaseRound1
	PhaseRound2
	PhaseFinal
	PhaseResults
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseIntro:
		return "intro"
	case PhaseRound1:
		return "round1"
	case PhaseRound2:
		return "round2"
	case PhaseFinal:
		return "final"
	case PhaseResults:
		return "results"
	default:
		return "unknown"
	}
}

// boardPhase reports whether cell selection is possible in this phase.
func (p Phase) boardPhase() bool {
	return p == PhaseRound1 || p == PhaseRound2
}

// FinalStage is the sub-state of the final round.
type FinalStage int

const (
	FinalStageWager FinalStage = iota
	FinalStageAnswer
	FinalStageResults
)

// String returns the string representation of the final round stage
func (fs FinalStage) String() string {
	switch fs {
	case FinalStageWager:
		return "wager"
	case FinalStageAnswer:
		return "answer"
	case FinalStageResults:
		return "results"
	default:
		return "unknown"
	}
}
