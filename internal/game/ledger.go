package game

import (
	"time"

	"github.com/coder/quartz"
)

// ScoreRecord tracks one contestant's running score and per-game
// statistics. Records are created on join and finalized on game end.
type ScoreRecord struct {
	PlayerID       string
	DisplayName    string
	Score          int
	CorrectCount   int
	IncorrectCount int
	BuzzWinCount   int
	CurrentStreak  int

	buzzLatencyTotal time.Duration
	buzzLatencySeen  int
}

// AverageBuzzLatency returns the mean time-into-window of this player's
// winning buzzes, zero if they never won a buzz.
func (r *ScoreRecord) AverageBuzzLatency() time.Duration {
	if r.buzzLatencySeen == 0 {
		return 0
	}
	return r.buzzLatencyTotal / time.Duration(r.buzzLatencySeen)
}

// AuditEntry is an immutable record of one score mutation, kept for
// statistics and debugging.
type AuditEntry struct {
	PlayerID string
	OldScore int
	NewScore int
	Delta    int
	Reason   string
	At       time.Time
}

// Ledger owns every contestant's score record and is the only component
// allowed to mutate them. Each mutation appends an audit entry.
type Ledger struct {
	minWager int
	clock    quartz.Clock
	records  map[string]*ScoreRecord
	order    []string
	history  []AuditEntry
}

// NewLedger creates a ledger with the given minimum wager floor.
func NewLedger(minWager int, clock quartz.Clock) *Ledger {
	return &Ledger{
		minWager: minWager,
		clock:    clock,
		records:  make(map[string]*ScoreRecord),
	}
}

// AddPlayer creates a zeroed score record for a contestant.
func (l *Ledger) AddPlayer(playerID, displayName string) {
	if _, exists := l.records[playerID]; exists {
		return
	}
	l.records[playerID] = &ScoreRecord{PlayerID: playerID, DisplayName: displayName}
	l.order = append(l.order, playerID)
}

// RemovePlayer drops a contestant's record.
func (l *Ledger) RemovePlayer(playerID string) {
	delete(l.records, playerID)
	for i, id := range l.order {
		if id == playerID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Record returns the score record for a player, nil if unknown.
func (l *Ledger) Record(playerID string) *ScoreRecord {
	return l.records[playerID]
}

// Records returns all score records in join order.
func (l *Ledger) Records() []*ScoreRecord {
	out := make([]*ScoreRecord, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.records[id])
	}
	return out
}

// ApplyCorrect credits a correct answer and returns the applied delta:
// the wager for a daily double, the clue's face value otherwise.
func (l *Ledger) ApplyCorrect(playerID string, clueValue int, dailyDouble bool, wager int) int {
	rec := l.records[playerID]
	if rec == nil {
		return 0
	}
	delta := clueValue
	if dailyDouble {
		delta = wager
	}
	l.apply(rec, delta, "correct")
	rec.CorrectCount++
	rec.CurrentStreak++
	return delta
}

// ApplyIncorrect debits an incorrect answer and returns the (negative)
// applied delta. Resets the player's streak.
func (l *Ledger) ApplyIncorrect(playerID string, clueValue int, dailyDouble bool, wager int) int {
	rec := l.records[playerID]
	if rec == nil {
		return 0
	}
	delta := -clueValue
	if dailyDouble {
		delta = -wager
	}
	l.apply(rec, delta, "incorrect")
	rec.IncorrectCount++
	rec.CurrentStreak = 0
	return delta
}

// ApplyFinal settles one contestant's final round outcome.
func (l *Ledger) ApplyFinal(playerID string, wager int, correct bool) int {
	rec := l.records[playerID]
	if rec == nil {
		return 0
	}
	delta := wager
	reason := "final_correct"
	if !correct {
		delta = -wager
		reason = "final_incorrect"
	}
	l.apply(rec, delta, reason)
	if correct {
		rec.CorrectCount++
	} else {
		rec.IncorrectCount++
	}
	return delta
}

// RecordBuzzWin tracks buzz statistics for a winning buzz.
func (l *Ledger) RecordBuzzWin(playerID string, latency time.Duration) {
	rec := l.records[playerID]
	if rec == nil {
		return
	}
	rec.BuzzWinCount++
	rec.buzzLatencyTotal += latency
	rec.buzzLatencySeen++
}

// MaxWager returns the largest legal wager for a player: the greater of
// the clue's face value and the player's bankroll, never below the
// configured floor.
func (l *Ledger) MaxWager(playerID string, clueValue int) int {
	max := clueValue
	if rec := l.records[playerID]; rec != nil && rec.Score > max {
		max = rec.Score
	}
	if max < l.minWager {
		max = l.minWager
	}
	return max
}

// ValidateWager checks a wager against the floor and MaxWager bounds.
func (l *Ledger) ValidateWager(playerID string, wager, clueValue int) error {
	if l.records[playerID] == nil {
		return ErrUnknownPlayer
	}
	if wager < l.minWager {
		return ErrWagerTooLow
	}
	if wager > l.MaxWager(playerID, clueValue) {
		return ErrWagerTooHigh
	}
	return nil
}

// Winners returns every contestant holding the maximum score. Ties
// produce multiple winners.
func (l *Ledger) Winners() []*ScoreRecord {
	var winners []*ScoreRecord
	for _, id := range l.order {
		rec := l.records[id]
		switch {
		case len(winners) == 0 || rec.Score > winners[0].Score:
			winners = []*ScoreRecord{rec}
		case rec.Score == winners[0].Score:
			winners = append(winners, rec)
		}
	}
	return winners
}

// History returns the append-only audit log.
func (l *Ledger) History() []AuditEntry {
	return l.history
}

// ResetScores zeroes every record and clears the audit log while keeping
// the roster, used when a finished game cycles back to the lobby.
func (l *Ledger) ResetScores() {
	for _, rec := range l.records {
		*rec = ScoreRecord{PlayerID: rec.PlayerID, DisplayName: rec.DisplayName}
	}
	l.history = nil
}

func (l *Ledger) apply(rec *ScoreRecord, delta int, reason string) {
	old := rec.Score
	rec.Score += delta
	l.history = append(l.history, AuditEntry{
		PlayerID: rec.PlayerID,
		OldScore: old,
		NewScore: rec.Score,
		Delta:    delta,
		Reason:   reason,
		At:       l.clock.Now(),
	})
}
