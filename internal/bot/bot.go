// Package bot implements AI contestants. Bots are policy only: they
// subscribe to the same state snapshots every client receives and submit
// decisions through the same game.HandleAction entry point a human's
// network connection uses. The core applies identical legality and
// scoring rules to them; only their timing and accuracy are artificial.
package bot

import (
	"fmt"
	"sync"
	"time"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/triviaforbots/internal/game"
	"github.com/lox/triviaforbots/internal/randutil"
)

// Config tunes one bot's behavior.
type Config struct {
	Name string
	// Accuracy is the chance the bot produces the correct answer when it
	// gets to answer.
	Accuracy float64
	// BuzzChance is the chance the bot contests any given clue at all.
	BuzzChance float64
	// ReactionBase/ReactionSpread shape the artificial thinking delay
	// before every action.
	ReactionBase   time.Duration
	ReactionSpread time.Duration
	// WagerBoldness scales wagers as a fraction of the legal maximum.
	WagerBoldness float64

	Seed int64
}

// Preset returns a named bot personality. Unknown names fall back to
// "steady".
func Preset(name, strategy string) Config {
	cfg := Config{
		Name:           name,
		Accuracy:       0.7,
		BuzzChance:     0.8,
		ReactionBase:   900 * time.Millisecond,
		ReactionSpread: 1500 * time.Millisecond,
		WagerBoldness:  0.4,
		Seed:           time.Now().UnixNano(),
	}
	switch strategy {
	case "reckless":
		cfg.Accuracy = 0.5
		cfg.BuzzChance = 0.95
		cfg.ReactionBase = 400 * time.Millisecond
		cfg.ReactionSpread = 700 * time.Millisecond
		cfg.WagerBoldness = 1.0
	case "scholar":
		cfg.Accuracy = 0.9
		cfg.BuzzChance = 0.6
		cfg.ReactionBase = 1500 * time.Millisecond
		cfg.ReactionSpread = 2 * time.Second
		cfg.WagerBoldness = 0.25
	}
	return cfg
}

// Option configures a Bot at construction time.
type Option func(*Bot)

// WithClock injects a clock for deterministic delay testing.
func WithClock(clock quartz.Clock) Option {
	return func(b *Bot) { b.clock = clock }
}

// Bot is one AI contestant attached to a game.
type Bot struct {
	cfg    Config
	g      *game.Game
	pack   *game.Pack
	clock  quartz.Clock
	rng    *rand.Rand
	logger *log.Logger

	mu       sync.Mutex
	player   *game.Player
	snapshot game.Snapshot
	// Final round stages already acted on, so a repeated event cannot
	// double-submit.
	finalWagered  bool
	finalAnswered bool
}

// New creates a bot for a game. The bot holds the pack so its accuracy
// roll can decide between the reference answer and a plausible miss; the
// game core itself grants it no privileged access.
func New(cfg Config, g *game.Game, pk *game.Pack, logger *log.Logger, opts ...Option) *Bot {
	b := &Bot{
		cfg:    cfg,
		g:      g,
		pack:   pk,
		clock:  quartz.NewReal(),
		logger: logger.WithPrefix("bot").With("bot", cfg.Name),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.rng = randutil.New(cfg.Seed)
	return b
}

// Join adds the bot to the game roster and subscribes it to events.
func (b *Bot) Join() error {
	player, err := b.g.AddPlayer(b.cfg.Name, game.AI)
	if err != nil {
		return fmt.Errorf("bot %s could not join: %w", b.cfg.Name, err)
	}
	b.mu.Lock()
	b.player = player
	b.mu.Unlock()
	b.g.Bus().Subscribe(b)
	b.logger.Info("Bot joined game")
	return nil
}

// OnEvent implements game.EventSubscriber.
func (b *Bot) OnEvent(event game.GameEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.player == nil {
		return
	}

	switch e := event.(type) {
	case game.GameStateEvent:
		b.snapshot = e.Snapshot
		b.considerBoard(e.Snapshot)
	case game.ClueRevealEvent:
		b.considerClue(e)
	case game.BuzzResultEvent:
		if e.WinnerID == b.player.ID {
			b.scheduleAnswer()
		}
	case game.JudgeEvent:
		// Another player missed: the window may be open again, try our
		// luck. An illegal attempt just comes back as a notice.
		if !e.Correct && !e.TimedOut && e.PlayerID != b.player.ID {
			b.maybeBuzz(0)
		}
	case game.FinalRoundEvent:
		b.considerFinal(e)
	}
}

// considerBoard selects a cell when the bot holds board control.
func (b *Bot) considerBoard(snap game.Snapshot) {
	if snap.PickerID != b.player.ID || snap.Current != nil {
		return
	}
	if snap.Phase != game.PhaseRound1.String() && snap.Phase != game.PhaseRound2.String() {
		return
	}

	cell, ok := b.pickCell(snap)
	if !ok {
		return
	}
	b.after(b.thinkTime(), func(playerID string) {
		b.g.HandleAction(playerID, cell)
	})
}

// pickCell chooses a random remaining cell from the public snapshot.
func (b *Bot) pickCell(snap game.Snapshot) (game.SelectCell, bool) {
	var open []game.SelectCell
	for i, cat := range snap.Categories {
		for j, value := range cat.Values {
			if value > 0 {
				open = append(open, game.SelectCell{Category: i, Index: j})
			}
		}
	}
	if len(open) == 0 {
		return game.SelectCell{}, false
	}
	return open[b.rng.IntN(len(open))], true
}

func (b *Bot) considerClue(e game.ClueRevealEvent) {
	if e.Clue.DailyDouble {
		if e.Clue.PickerID != b.player.ID {
			return
		}
		if e.Clue.Prompt == "" {
			// Wager request: commit a fraction of the allowed maximum.
			wager := int(float64(e.MaxWager) * b.cfg.WagerBoldness)
			if wager < 5 {
				wager = 5
			}
			b.after(b.thinkTime(), func(playerID string) {
				b.g.HandleAction(playerID, game.SubmitWager{Amount: wager})
			})
			return
		}
		b.scheduleAnswer()
		return
	}

	if !randutil.Chance(b.rng, b.cfg.BuzzChance) {
		return
	}
	b.maybeBuzz(e.Lockout)
}

// maybeBuzz schedules a buzz attempt after the lockout plus reaction
// jitter.
func (b *Bot) maybeBuzz(lockout time.Duration) {
	delay := lockout + randutil.Jitter(b.rng, b.cfg.ReactionBase, b.cfg.ReactionSpread)
	b.after(delay, func(playerID string) {
		b.g.HandleAction(playerID, game.Buzz{ClientTimestamp: b.clock.Now().UnixMilli()})
	})
}

func (b *Bot) scheduleAnswer() {
	snap := b.snapshot
	if snap.Current == nil {
		return
	}
	answer := b.composeAnswer(snap.Current)
	b.after(b.thinkTime(), func(playerID string) {
		b.g.HandleAction(playerID, answer)
	})
}

// composeAnswer rolls accuracy and produces either the reference answer
// or a plausible miss, using the choice index when the clue offers one.
func (b *Bot) composeAnswer(current *game.ClueSnapshot) game.SubmitAnswer {
	clue, ok := b.lookupClue(current.Key)
	correct := randutil.Chance(b.rng, b.cfg.Accuracy)

	if len(current.Choices) == 4 && ok {
		idx := clue.CorrectChoice
		if !correct {
			idx = (clue.CorrectChoice + 1 + b.rng.IntN(3)) % 4
		}
		return game.SubmitAnswer{ChoiceIndex: &idx}
	}

	if correct && ok {
		return game.SubmitAnswer{Text: "What is " + clue.Answer}
	}
	return game.SubmitAnswer{Text: wrongAnswers[b.rng.IntN(len(wrongAnswers))]}
}

func (b *Bot) considerFinal(e game.FinalRoundEvent) {
	switch e.Stage {
	case game.FinalStageWager.String():
		if b.finalWagered {
			return
		}
		b.finalWagered = true
		wager := b.finalWagerAmount(e.ClueValue)
		b.after(b.thinkTime(), func(playerID string) {
			b.g.HandleAction(playerID, game.SubmitFinalWager{Amount: wager})
		})
	case game.FinalStageAnswer.String():
		if b.finalAnswered {
			return
		}
		b.finalAnswered = true
		text := wrongAnswers[b.rng.IntN(len(wrongAnswers))]
		if randutil.Chance(b.rng, b.cfg.Accuracy) {
			text = "What is " + b.pack.FinalClue.Answer
		}
		b.after(b.thinkTime(), func(playerID string) {
			b.g.HandleAction(playerID, game.SubmitFinalAnswer{Text: text})
		})
	case game.FinalStageResults.String():
		b.finalWagered = false
		b.finalAnswered = false
	}
}

// finalWagerAmount mirrors the ledger's bound: the greater of the final
// clue value and our own score, scaled by boldness and floored at the
// table minimum.
func (b *Bot) finalWagerAmount(clueValue int) int {
	max := clueValue
	for _, p := range b.snapshot.Players {
		if p.ID == b.player.ID && p.Score > max {
			max = p.Score
		}
	}
	wager := int(float64(max) * b.cfg.WagerBoldness)
	if wager < 5 {
		wager = 5
	}
	return wager
}

func (b *Bot) lookupClue(key game.CellKey) (game.Clue, bool) {
	if key.Category < 0 || key.Category >= len(b.pack.Categories) {
		return game.Clue{}, false
	}
	cat := b.pack.Categories[key.Category]
	if key.Index < 0 || key.Index >= len(cat.Clues) {
		return game.Clue{}, false
	}
	return cat.Clues[key.Index], true
}

func (b *Bot) thinkTime() time.Duration {
	return randutil.Jitter(b.rng, b.cfg.ReactionBase, b.cfg.ReactionSpread)
}

// after schedules an action on the bot's clock. The player id is captured
// eagerly; the game rejects the action if it is no longer legal by the
// time the delay elapses.
func (b *Bot) after(d time.Duration, fn func(playerID string)) {
	playerID := b.player.ID
	b.clock.AfterFunc(d, func() { fn(playerID) })
}

// wrongAnswers are the throwaway guesses a bot submits when its accuracy
// roll fails on a free-text clue.
var wrongAnswers = []string{
	"What is the obvious answer",
	"Who is that famous person",
	"What is the thing everyone knows",
	"Where is that one place",
	"What is forty two",
}
