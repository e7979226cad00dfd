package pack

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/triviaforbots/internal/game"
)

func TestSampleIsValid(t *testing.T) {
	require.NoError(t, Validate(Sample()))
}

func TestLoadRoundTrip(t *testing.T) {
	data, err := json.Marshal(Sample())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pack.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "General Knowledge", p.Title)
	assert.Len(t, p.Categories, game.BoardCategories)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadRejectsInvalidPack(t *testing.T) {
	p := Sample()
	p.Categories = p.Categories[:3]
	data, err := json.Marshal(p)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Load(path)
	assert.ErrorContains(t, err, "invalid pack")
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *game.Pack)
		wantErr string
	}{
		{
			name:    "too few categories",
			mutate:  func(p *game.Pack) { p.Categories = p.Categories[:5] },
			wantErr: "expected 6 categories",
		},
		{
			name:    "unnamed category",
			mutate:  func(p *game.Pack) { p.Categories[2].Name = "" },
			wantErr: "has no name",
		},
		{
			name:    "short category",
			mutate:  func(p *game.Pack) { p.Categories[0].Clues = p.Categories[0].Clues[:4] },
			wantErr: "expected 5 clues",
		},
		{
			name:    "broken value ladder",
			mutate:  func(p *game.Pack) { p.Categories[0].Clues[1].Value = 250 },
			wantErr: "expected value 200",
		},
		{
			name:    "missing prompt",
			mutate:  func(p *game.Pack) { p.Categories[1].Clues[0].Prompt = "" },
			wantErr: "missing prompt",
		},
		{
			name:    "missing answer",
			mutate:  func(p *game.Pack) { p.Categories[1].Clues[0].Answer = "" },
			wantErr: "missing answer",
		},
		{
			name:    "no daily doubles",
			mutate:  func(p *game.Pack) { p.DailyDoubles = nil },
			wantErr: "daily doubles",
		},
		{
			name: "too many daily doubles",
			mutate: func(p *game.Pack) {
				p.DailyDoubles = []game.CellKey{
					{Category: 0, Index: 0}, {Category: 1, Index: 1},
					{Category: 2, Index: 2}, {Category: 3, Index: 3},
				}
			},
			wantErr: "daily doubles",
		},
		{
			name: "daily double off the board",
			mutate: func(p *game.Pack) {
				p.DailyDoubles = []game.CellKey{{Category: 6, Index: 0}}
			},
			wantErr: "out of range",
		},
		{
			name: "duplicate daily double",
			mutate: func(p *game.Pack) {
				p.DailyDoubles = []game.CellKey{
					{Category: 1, Index: 1}, {Category: 1, Index: 1},
				}
			},
			wantErr: "duplicate daily double",
		},
		{
			name:    "missing final category",
			mutate:  func(p *game.Pack) { p.FinalCategory = "" },
			wantErr: "missing final category",
		},
		{
			name:    "empty final clue",
			mutate:  func(p *game.Pack) { p.FinalClue.Answer = "" },
			wantErr: "final clue",
		},
		{
			name: "wrong choice count",
			mutate: func(p *game.Pack) {
				p.Categories[0].Clues[0].Choices = []string{"A", "B", "C"}
			},
			wantErr: "exactly 4 options",
		},
		{
			name: "correct choice out of range",
			mutate: func(p *game.Pack) {
				p.Categories[0].Clues[0].Choices = []string{"A", "B", "C", "D"}
				p.Categories[0].Clues[0].CorrectChoice = 7
			},
			wantErr: "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Sample()
			tt.mutate(p)
			err := Validate(p)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
