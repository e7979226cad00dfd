package game

import "time"

// PlayerSnapshot is one contestant's public state in a snapshot.
type PlayerSnapshot struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Kind           string        `json:"kind"`
	Score          int           `json:"score"`
	CorrectCount   int           `json:"correctCount"`
	IncorrectCount int           `json:"incorrectCount"`
	BuzzWinCount   int           `json:"buzzWinCount"`
	CurrentStreak  int           `json:"currentStreak"`
	AvgBuzzLatency time.Duration `json:"avgBuzzLatency"`
}

// CategorySnapshot is one board column as clients see it: remaining cell
// values, with consumed cells zeroed.
type CategorySnapshot struct {
	Name   string `json:"name"`
	Values []int  `json:"values"`
}

// ClueSnapshot is the public view of the in-play clue. Reference answers
// never appear here; the wager appears only once it is set.
type ClueSnapshot struct {
	Key          CellKey  `json:"key"`
	CategoryName string   `json:"categoryName"`
	Value        int      `json:"value"`
	Prompt       string   `json:"prompt,omitempty"`
	Choices      []string `json:"choices,omitempty"`
	DailyDouble  bool     `json:"dailyDouble"`
	PickerID     string   `json:"pickerId,omitempty"`
	Wager        int      `json:"wager,omitempty"`
}

// Snapshot is the full authoritative game state broadcast after every
// state-changing action. Humans and bots receive the identical shape.
type Snapshot struct {
	GameID     string             `json:"gameId"`
	Phase      string             `json:"phase"`
	Round      int                `json:"round"`
	PickerID   string             `json:"pickerId"`
	Players    []PlayerSnapshot   `json:"players"`
	Categories []CategorySnapshot `json:"categories"`
	UsedCells  []CellKey          `json:"usedCells"`
	Current    *ClueSnapshot      `json:"currentClue,omitempty"`
	FinalStage string             `json:"finalStage,omitempty"`
}
