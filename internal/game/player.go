package game

// PlayerKind distinguishes humans from AI contestants. The core never
// branches on kind for legality or scoring, only bot timing policy does.
type PlayerKind int

const (
	Human PlayerKind = iota
	AI
)

// String returns the string representation of the player kind
func (pk PlayerKind) String() string {
	switch pk {
	case Human:
		return "human"
	case AI:
		return "ai"
	default:
		return "unknown"
	}
}

// Player is a contestant in a single game. Scores and statistics live in
// the Ledger, keyed by Player.ID; the roster itself is owned by Game and
// survives a post-game reset.
type Player struct {
	ID   string
	Name string
	Kind PlayerKind
}
