package game

import (
	"time"

	"github.com/charmbracelet/log"
)

// Board dimensions are fixed by the game format.
const (
	BoardCategories  = 6
	CluesPerCategory = 5
	BaseClueValue    = 100
	MinDailyDoubles  = 1
	MaxDailyDoubles  = 3
	MaxBoardRounds   = 2
)

// Clue is a single question cell, immutable once loaded from a pack.
// Choices, when present, carry exactly four options for multiple-choice
// judging; CorrectChoice indexes into it.
type Clue struct {
	Value         int      `json:"value"`
	Prompt        string   `json:"prompt"`
	Answer        string   `json:"answer"`
	Choices       []string `json:"choices,omitempty"`
	CorrectChoice int      `json:"correctChoice,omitempty"`
}

// HasChoices reports whether the clue carries multiple-choice data.
func (c Clue) HasChoices() bool {
	return len(c.Choices) == 4
}

// Category is one board column.
type Category struct {
	Name  string `json:"name"`
	Clues []Clue `json:"clues"`
}

// CellKey addresses a board cell by (category, clue) index.
type CellKey struct {
	Category int `json:"category"`
	Index    int `json:"index"`
}

// Pack is a validated trivia pack: the board source plus the final round
// clue. Board values are the round 1 ladder; round 2 doubles them.
type Pack struct {
	Title         string     `json:"title"`
	Categories    []Category `json:"categories"`
	DailyDoubles  []CellKey  `json:"dailyDoubles"`
	FinalCategory string     `json:"finalCategory"`
	FinalClue     Clue       `json:"finalClue"`
}

// CurrentClue is the transient in-play clue. At most one exists at a time;
// the board owns it exclusively and other components read it via the
// orchestrator.
type CurrentClue struct {
	Key          CellKey
	CategoryName string
	Clue         Clue
	DailyDouble  bool
	// PickerID is set only for daily doubles: the picker alone may wager
	// and answer.
	PickerID   string
	Wager      int
	WagerSet   bool
	RevealedAt time.Time
}

// Board owns clue consumption, daily double placement and round
// transitions. Values for round 2 are always recomputed from the original
// pack so doubling never compounds.
type Board struct {
	pack         *Pack
	categories   []Category
	round        int
	used         map[CellKey]bool
	remaining    int
	dailyDoubles map[CellKey]bool
	current      *CurrentClue
	logger       *log.Logger
}

// NewBoard builds the round 1 board from a validated pack.
func NewBoard(pack *Pack, logger *log.Logger) *Board {
	b := &Board{
		pack:   pack,
		logger: logger.WithPrefix("board"),
	}
	b.loadRound(1)
	return b
}

// loadRound rebuilds categories, used cells and daily doubles for the
// given round from the original pack values.
func (b *Board) loadRound(round int) {
	multiplier := 1
	if round >= 2 {
		multiplier = 2
	}

	b.round = round
	b.categories = make([]Category, len(b.pack.Categories))
	for i, cat := range b.pack.Categories {
		clues := make([]Clue, len(cat.Clues))
		for j, clue := range cat.Clues {
			clue.Value = cat.Clues[j].Value * multiplier
			clues[j] = clue
		}
		b.categories[i] = Category{Name: cat.Name, Clues: clues}
	}

	b.used = make(map[CellKey]bool)
	b.remaining = len(b.categories) * CluesPerCategory
	b.dailyDoubles = make(map[CellKey]bool, len(b.pack.DailyDoubles))
	for _, key := range b.pack.DailyDoubles {
		b.dailyDoubles[key] = true
	}
	b.current = nil
}

// SelectCell consumes a cell and makes it the current clue. The picker id
// is stamped onto daily doubles, since only the picker may wager and
// answer those.
func (b *Board) SelectCell(category, index int, pickerID string, now time.Time) (*CurrentClue, error) {
	if category < 0 || category >= len(b.categories) || index < 0 || index >= CluesPerCategory {
		return nil, ErrInvalidPosition
	}
	key := CellKey{Category: category, Index: index}
	if b.used[key] {
		return nil, ErrCellUsed
	}
	if b.current != nil {
		return nil, ErrClueActive
	}

	b.used[key] = true
	b.remaining--

	cat := b.categories[category]
	current := &CurrentClue{
		Key:          key,
		CategoryName: cat.Name,
		Clue:         cat.Clues[index],
		DailyDouble:  b.dailyDoubles[key],
		RevealedAt:   now,
	}
	if current.DailyDouble {
		current.PickerID = pickerID
	}
	b.current = current

	b.logger.Debug("Cell selected",
		"category", cat.Name,
		"value", current.Clue.Value,
		"dailyDouble", current.DailyDouble,
		"remaining", b.remaining)

	return current, nil
}

// Current returns the in-play clue, nil if none.
func (b *Board) Current() *CurrentClue {
	return b.current
}

// ClearCurrent drops the transient clue after judging or timeout.
func (b *Board) ClearCurrent() {
	b.current = nil
}

// RoundComplete reports whether every cell has been consumed.
func (b *Board) RoundComplete() bool {
	return b.remaining == 0
}

// Remaining returns the count of unconsumed cells.
func (b *Board) Remaining() int {
	return b.remaining
}

// Round returns the current board round (1 or 2).
func (b *Board) Round() int {
	return b.round
}

// AdvanceRound moves the board to round 2: every value becomes exactly
// twice its original pack value and the used-cell tracking resets. Daily
// double positions carry over. Idempotent against the original board, so
// a duplicate call cannot compound values.
func (b *Board) AdvanceRound() {
	b.loadRound(2)
	b.logger.Info("Advanced to round 2", "cells", b.remaining)
}

// UsedCells returns the consumed cell keys for state snapshots.
func (b *Board) UsedCells() []CellKey {
	out := make([]CellKey, 0, len(b.used))
	for i := range b.categories {
		for j := 0; j < CluesPerCategory; j++ {
			key := CellKey{Category: i, Index: j}
			if b.used[key] {
				out = append(out, key)
			}
		}
	}
	return out
}

// Categories returns the board columns at current round values.
func (b *Board) Categories() []Category {
	return b.categories
}
