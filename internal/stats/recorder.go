// Package stats persists finished-game records and maintains a running
// per-player summary across server uptime. It implements game.Recorder;
// a persistence failure is logged and degraded, never surfaced into the
// game state.
package stats

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/triviaforbots/internal/fileutil"
	"github.com/lox/triviaforbots/internal/game"
)

// PlayerSummary aggregates one player's results across games, keyed by
// display name so humans keep their totals across reconnects.
type PlayerSummary struct {
	Name           string `json:"name"`
	GamesPlayed    int    `json:"gamesPlayed"`
	GamesWon       int    `json:"gamesWon"`
	TotalScore     int    `json:"totalScore"`
	BestScore      int    `json:"bestScore"`
	CorrectCount   int    `json:"correctCount"`
	IncorrectCount int    `json:"incorrectCount"`
	BuzzWinCount   int    `json:"buzzWinCount"`
}

// FileRecorder writes one JSON file per finished game plus a rolling
// summary file, all under a base directory.
type FileRecorder struct {
	dir    string
	logger *log.Logger

	mu        sync.Mutex
	summaries map[string]*PlayerSummary
}

// NewFileRecorder creates the base directory and loads any existing
// summary so totals survive a server restart.
func NewFileRecorder(dir string, logger *log.Logger) (*FileRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create stats directory: %w", err)
	}
	r := &FileRecorder{
		dir:       dir,
		logger:    logger.WithPrefix("stats"),
		summaries: make(map[string]*PlayerSummary),
	}

	var existing []*PlayerSummary
	if err := fileutil.ReadJSON(r.summaryPath(), &existing); err == nil {
		for _, s := range existing {
			r.summaries[s.Name] = s
		}
	} else if !os.IsNotExist(err) {
		r.logger.Warn("Could not load existing summary, starting fresh", "error", err)
	}
	return r, nil
}

// RecordGame implements game.Recorder. The per-game record and each
// player's summary are persisted independently: one failure must not
// block the rest or the end of the game.
func (r *FileRecorder) RecordGame(record game.GameRecord) error {
	var g errgroup.Group

	g.Go(func() error {
		path := filepath.Join(r.dir, record.GameID+".json")
		if err := fileutil.WriteJSONAtomic(path, record, 0o644); err != nil {
			return fmt.Errorf("game record: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		r.applyToSummaries(record)
		if err := fileutil.WriteJSONAtomic(r.summaryPath(), r.summarySlice(), 0o644); err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		r.logger.Error("Failed to persist statistics", "game", record.GameID, "error", err)
		return err
	}
	r.logger.Info("Game statistics persisted", "game", record.GameID, "players", len(record.Players))
	return nil
}

// Summary returns the aggregate for one player name, nil if unseen.
func (r *FileRecorder) Summary(name string) *PlayerSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.summaries[name]; ok {
		copied := *s
		return &copied
	}
	return nil
}

func (r *FileRecorder) applyToSummaries(record game.GameRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	winners := make(map[string]bool, len(record.Winners))
	for _, name := range record.Winners {
		winners[name] = true
	}

	for _, p := range record.Players {
		s := r.summaries[p.Name]
		if s == nil {
			s = &PlayerSummary{Name: p.Name}
			r.summaries[p.Name] = s
		}
		s.GamesPlayed++
		if winners[p.Name] {
			s.GamesWon++
		}
		s.TotalScore += p.Score
		if p.Score > s.BestScore {
			s.BestScore = p.Score
		}
		s.CorrectCount += p.CorrectCount
		s.IncorrectCount += p.IncorrectCount
		s.BuzzWinCount += p.BuzzWinCount
	}
}

func (r *FileRecorder) summarySlice() []*PlayerSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*PlayerSummary, 0, len(r.summaries))
	for _, s := range r.summaries {
		out = append(out, s)
	}
	return out
}

func (r *FileRecorder) summaryPath() string {
	return filepath.Join(r.dir, "summary.json")
}
