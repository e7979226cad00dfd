package game

import "errors"

// Validation and legality errors. These are local rejections: they never
// mutate game state and are surfaced at most as a notice to the offending
// player.
var (
	ErrEmptyAnswer   = errors.New("answer is empty")
	ErrAnswerTooLong = errors.New("answer exceeds maximum length")
	ErrAnswerNotText = errors.New("answer has no alphabetic content")

	ErrUnknownPlayer = errors.New("unknown player")
	ErrGameFull      = errors.New("game is full")
	ErrNameTaken     = errors.New("player name already taken")

	ErrInvalidPosition = errors.New("invalid cell position")
	ErrCellUsed        = errors.New("cell already used")
	ErrClueActive      = errors.New("a clue is already active")
	ErrNoClueActive    = errors.New("no clue is active")

	ErrWagerTooLow  = errors.New("wager below minimum")
	ErrWagerTooHigh = errors.New("wager exceeds maximum")
	ErrWagerSet     = errors.New("wager already submitted")

	ErrWrongPhase  = errors.New("action not legal in current phase")
	ErrNotPicker   = errors.New("player does not have board control")
	ErrNotAnswerer = errors.New("player may not answer this clue")
)
