package game

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// BuzzReject identifies why a buzz attempt was refused.
type BuzzReject string

const (
	BuzzRejectWindowClosed BuzzReject = "window_closed"
	BuzzRejectRateLimited  BuzzReject = "rate_limited"
	BuzzRejectPlayerLocked BuzzReject = "player_locked"
	BuzzRejectAlreadyWon   BuzzReject = "already_won"
	BuzzRejectTooEarly     BuzzReject = "too_early"
	BuzzRejectTooLate      BuzzReject = "too_late"
)

// BuzzOutcome is the result of processing one buzz attempt.
type BuzzOutcome struct {
	Accepted bool
	Reject   BuzzReject
	WinnerID string        // set on acceptance, and on already_won rejections
	BuzzTime time.Duration // time into the open window, statistics only
}

// BuzzerConfig holds the timing constants for buzz arbitration.
type BuzzerConfig struct {
	// Lockout is the mandatory delay after clue reveal during which all
	// buzzes are rejected, blocking reflex/anticipation cheating.
	Lockout time.Duration
	// Window is how long buzzing stays open after the lockout ends.
	Window time.Duration
	// MinGap is the minimum interval between successive buzz attempts
	// from the same player.
	MinGap time.Duration
	// MaxPerSecond caps buzz attempts per player in a rolling one-second
	// bucket. Together with MinGap this blunts programmatic spam without
	// punishing legitimately fast reflexes.
	MaxPerSecond int
}

// Buzzer arbitrates the "who may answer" contest for a single clue.
//
// Fairness does not depend on timestamps supplied by clients: attempts are
// evaluated strictly in the order the server processes them, and the first
// attempt that survives the rejection rules wins. Client timestamps are
// recorded for analytics only.
type Buzzer struct {
	cfg    BuzzerConfig
	clock  quartz.Clock
	logger *log.Logger

	active       bool
	startTime    time.Time
	lockoutUntil time.Time
	windowEnd    time.Time
	winnerID     string
	locked       map[string]bool

	lastAttempt map[string]time.Time
	recent      map[string][]time.Time
}

// NewBuzzer creates a buzz arbitrator.
func NewBuzzer(cfg BuzzerConfig, clock quartz.Clock, logger *log.Logger) *Buzzer {
	return &Buzzer{
		cfg:         cfg,
		clock:       clock,
		logger:      logger.WithPrefix("buzzer"),
		locked:      make(map[string]bool),
		lastAttempt: make(map[string]time.Time),
		recent:      make(map[string][]time.Time),
	}
}

// StartWindow opens a fresh buzz contest: lockout begins now, the window
// opens when the lockout ends. Any previous winner and lock set are
// discarded.
func (b *Buzzer) StartWindow() {
	now := b.clock.Now()
	b.active = true
	b.startTime = now
	b.lockoutUntil = now.Add(b.cfg.Lockout)
	b.windowEnd = b.lockoutUntil.Add(b.cfg.Window)
	b.winnerID = ""
	b.locked = make(map[string]bool)

	b.logger.Debug("Buzz window opened",
		"lockout", b.cfg.Lockout,
		"window", b.cfg.Window)
}

// ProcessBuzz evaluates one buzz attempt. Rules are applied in a fixed
// order; the first matching rule decides the outcome. clientTimestamp is
// whatever the client claims and is never used for the decision.
func (b *Buzzer) ProcessBuzz(playerID string, clientTimestamp int64) BuzzOutcome {
	now := b.clock.Now()

	if !b.active {
		return BuzzOutcome{Reject: BuzzRejectWindowClosed}
	}

	if b.rateLimited(playerID, now) {
		b.logger.Debug("Buzz rate limited", "player", playerID)
		return BuzzOutcome{Reject: BuzzRejectRateLimited}
	}

	if b.locked[playerID] {
		return BuzzOutcome{Reject: BuzzRejectPlayerLocked}
	}

	if b.winnerID != "" {
		return BuzzOutcome{Reject: BuzzRejectAlreadyWon, WinnerID: b.winnerID}
	}

	if now.Before(b.lockoutUntil) {
		b.logger.Debug("Buzz during lockout", "player", playerID, "clientTimestamp", clientTimestamp)
		return BuzzOutcome{Reject: BuzzRejectTooEarly}
	}

	if now.After(b.windowEnd) {
		b.active = false
		return BuzzOutcome{Reject: BuzzRejectTooLate}
	}

	// Only winning buzzes count against the min-gap and the per-second
	// bucket. A rejected attempt costs the player nothing, so buzzing
	// during the lockout can never forfeit the retry once it lifts.
	b.recordAttempt(playerID, now)
	b.winnerID = playerID
	buzzTime := now.Sub(b.lockoutUntil)
	b.logger.Info("Buzz accepted",
		"player", playerID,
		"buzzTime", buzzTime,
		"clientTimestamp", clientTimestamp)

	return BuzzOutcome{Accepted: true, WinnerID: playerID, BuzzTime: buzzTime}
}

// LockPlayer bars a player from re-buzzing for the current clue, called
// after they answer incorrectly. The lock set only grows within a window.
func (b *Buzzer) LockPlayer(playerID string) {
	b.locked[playerID] = true
}

// ReopenAfterWrongAnswer clears the winner so remaining unlocked players
// may buzz again. No fresh lockout applies: the clue has been visible
// since the original reveal, so the anti-anticipation guard has no
// further work to do.
func (b *Buzzer) ReopenAfterWrongAnswer() {
	b.winnerID = ""
}

// CloseWindow deactivates the contest.
func (b *Buzzer) CloseWindow() {
	b.active = false
}

// Active reports whether a contest is open.
func (b *Buzzer) Active() bool {
	return b.active
}

// WindowEnd returns the instant the current window closes.
func (b *Buzzer) WindowEnd() time.Time {
	return b.windowEnd
}

// WindowExpired reports whether the open window has passed its deadline.
func (b *Buzzer) WindowExpired() bool {
	return b.clock.Now().After(b.windowEnd)
}

// WinnerID returns the recorded winner, empty if none.
func (b *Buzzer) WinnerID() string {
	return b.winnerID
}

// LockedPlayers returns the ids locked out of the current clue.
func (b *Buzzer) LockedPlayers() []string {
	out := make([]string, 0, len(b.locked))
	for id := range b.locked {
		out = append(out, id)
	}
	return out
}

// LockedCount returns how many players are locked for the current clue.
func (b *Buzzer) LockedCount() int {
	return len(b.locked)
}

// IsLocked reports whether a player is barred from the current clue.
func (b *Buzzer) IsLocked(playerID string) bool {
	return b.locked[playerID]
}

// Reset clears all per-game tracking, including rate limit counters.
func (b *Buzzer) Reset() {
	b.active = false
	b.winnerID = ""
	b.locked = make(map[string]bool)
	b.lastAttempt = make(map[string]time.Time)
	b.recent = make(map[string][]time.Time)
}

// rateTrackerMaxAge bounds how long rate limit entries for idle players
// are kept. Entries older than this are dropped each time a fresh buzz
// window opens.
const rateTrackerMaxAge = 5 * time.Minute

// PruneStale drops rate limit entries older than maxAge, so departed
// players' counters do not accumulate over a long-running game.
func (b *Buzzer) PruneStale(maxAge time.Duration) {
	cutoff := b.clock.Now().Add(-maxAge)
	for id, at := range b.lastAttempt {
		if at.Before(cutoff) {
			delete(b.lastAttempt, id)
			delete(b.recent, id)
		}
	}
}

func (b *Buzzer) rateLimited(playerID string, now time.Time) bool {
	if last, ok := b.lastAttempt[playerID]; ok && now.Sub(last) < b.cfg.MinGap {
		return true
	}
	return b.recentAttempts(playerID, now) >= b.cfg.MaxPerSecond
}

func (b *Buzzer) recordAttempt(playerID string, now time.Time) {
	b.lastAttempt[playerID] = now
	b.recent[playerID] = append(b.recent[playerID], now)
}

// recentAttempts counts attempts within the rolling one-second bucket and
// drops entries that have aged out.
func (b *Buzzer) recentAttempts(playerID string, now time.Time) int {
	cutoff := now.Add(-time.Second)
	attempts := b.recent[playerID]
	kept := attempts[:0]
	for _, at := range attempts {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(b.recent, playerID)
	} else {
		b.recent[playerID] = kept
	}
	return len(kept)
}
