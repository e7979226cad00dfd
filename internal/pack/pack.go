// Package pack loads and validates trivia packs. A pack supplies the
// board (6 categories of 5 clues on the 100..500 value ladder), 1-3 daily
// double positions and the final round clue. The game core treats a load
// failure as fatal to the game-start attempt, never as a crash.
package pack

import (
	"fmt"

	"github.com/lox/triviaforbots/internal/fileutil"
	"github.com/lox/triviaforbots/internal/game"
)

// Load reads and validates a pack from a JSON file.
func Load(filename string) (*game.Pack, error) {
	var p game.Pack
	if err := fileutil.ReadJSON(filename, &p); err != nil {
		return nil, fmt.Errorf("failed to load pack: %w", err)
	}
	if err := Validate(&p); err != nil {
		return nil, fmt.Errorf("invalid pack %q: %w", filename, err)
	}
	return &p, nil
}

// Validate checks the structural invariants the game core relies on.
func Validate(p *game.Pack) error {
	if len(p.Categories) != game.BoardCategories {
		return fmt.Errorf("expected %d categories, got %d", game.BoardCategories, len(p.Categories))
	}

	for i, cat := range p.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category %d has no name", i)
		}
		if len(cat.Clues) != game.CluesPerCategory {
			return fmt.Errorf("category %q: expected %d clues, got %d", cat.Name, game.CluesPerCategory, len(cat.Clues))
		}
		for j, clue := range cat.Clues {
			expected := game.BaseClueValue * (j + 1)
			if clue.Value != expected {
				return fmt.Errorf("category %q clue %d: expected value %d, got %d", cat.Name, j, expected, clue.Value)
			}
			if err := validateClue(clue); err != nil {
				return fmt.Errorf("category %q clue %d: %w", cat.Name, j, err)
			}
		}
	}

	if len(p.DailyDoubles) < game.MinDailyDoubles || len(p.DailyDoubles) > game.MaxDailyDoubles {
		return fmt.Errorf("expected %d-%d daily doubles, got %d", game.MinDailyDoubles, game.MaxDailyDoubles, len(p.DailyDoubles))
	}
	seen := make(map[game.CellKey]bool)
	for _, key := range p.DailyDoubles {
		if key.Category < 0 || key.Category >= game.BoardCategories || key.Index < 0 || key.Index >= game.CluesPerCategory {
			return fmt.Errorf("daily double position (%d,%d) out of range", key.Category, key.Index)
		}
		if seen[key] {
			return fmt.Errorf("duplicate daily double position (%d,%d)", key.Category, key.Index)
		}
		seen[key] = true
	}

	if p.FinalCategory == "" {
		return fmt.Errorf("missing final category")
	}
	if err := validateClue(p.FinalClue); err != nil {
		return fmt.Errorf("final clue: %w", err)
	}

	return nil
}

func validateClue(clue game.Clue) error {
	if clue.Prompt == "" {
		return fmt.Errorf("missing prompt")
	}
	if clue.Answer == "" {
		return fmt.Errorf("missing answer")
	}
	if len(clue.Choices) != 0 && len(clue.Choices) != 4 {
		return fmt.Errorf("choices must be exactly 4 options, got %d", len(clue.Choices))
	}
	if len(clue.Choices) == 4 && (clue.CorrectChoice < 0 || clue.CorrectChoice > 3) {
		return fmt.Errorf("correct choice index %d out of range", clue.CorrectChoice)
	}
	return nil
}
