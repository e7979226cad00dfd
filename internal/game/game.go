package game

import (
	"sort"
	"sync"
	"time"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/triviaforbots/internal/gameid"
	"github.com/lox/triviaforbots/internal/randutil"
)

// Config holds the tunable rules and deadlines for one game.
type Config struct {
	MinPlayers int
	MaxPlayers int

	Lockout          time.Duration
	BuzzWindow       time.Duration
	AnswerTimeout    time.Duration
	WagerTimeout     time.Duration
	FinalWagerTime   time.Duration
	FinalAnswerTime  time.Duration
	IntroDelay       time.Duration
	ResultsCooldown  time.Duration
	BuzzMinGap       time.Duration
	BuzzMaxPerSecond int

	MinWager       int
	FinalClueValue int
	FuzzyBudget    int

	Seed int64
}

// DefaultConfig returns the standard ruleset.
func DefaultConfig() Config {
	return Config{
		MinPlayers:       3,
		MaxPlayers:       3,
		Lockout:          300 * time.Millisecond,
		BuzzWindow:       12 * time.Second,
		AnswerTimeout:    15 * time.Second,
		WagerTimeout:     20 * time.Second,
		FinalWagerTime:   20 * time.Second,
		FinalAnswerTime:  30 * time.Second,
		IntroDelay:       3 * time.Second,
		ResultsCooldown:  20 * time.Second,
		BuzzMinGap:       600 * time.Millisecond,
		BuzzMaxPerSecond: 3,
		MinWager:         5,
		FinalClueValue:   1000,
		FuzzyBudget:      1,
		Seed:             time.Now().UnixNano(),
	}
}

// GameRecord is the finished-game summary handed to the persistence
// collaborator.
type GameRecord struct {
	GameID      string           `json:"gameId"`
	CompletedAt time.Time        `json:"completedAt"`
	Winners     []string         `json:"winners"`
	Players     []PlayerSnapshot `json:"players"`
	Audit       []AuditEntry     `json:"audit"`
}

// Recorder persists finished games. A recorder failure must never affect
// game state; errors are logged and dropped.
type Recorder interface {
	RecordGame(record GameRecord) error
}

// Option configures a Game at construction time.
type Option func(*Game)

// WithClock injects a clock, quartz.NewMock(t) in tests.
func WithClock(clock quartz.Clock) Option {
	return func(g *Game) { g.clock = clock }
}

// WithRecorder attaches a finished-game persistence collaborator.
func WithRecorder(recorder Recorder) Option {
	return func(g *Game) { g.recorder = recorder }
}

// Game is the top-level orchestrator: the sole mutator of the phase and
// picker, sequencing the board, buzzer and ledger in response to actions.
// Every handler runs to completion under one mutex, so racing inputs are
// processed in a strict serial order.
type Game struct {
	mu         sync.Mutex
	cfg        Config
	clock      quartz.Clock
	rng        *rand.Rand
	baseLogger *log.Logger
	logger     *log.Logger
	bus        EventBus
	recorder   Recorder

	id       string
	phase    Phase
	players  []*Player
	ledger   *Ledger
	board    *Board
	buzzer   *Buzzer
	pack     *Pack
	pickerID string
	final    *finalRound

	// epoch invalidates timers scheduled before a reset; a stale firing
	// is discarded instead of mutating the reinitialized game.
	epoch  uint64
	timers map[timerPurpose]*quartz.Timer
}

// finalRound is the transient final round sub-state.
type finalRound struct {
	stage   FinalStage
	wagers  map[string]int
	answers map[string]string
}

// New creates a game in the lobby phase from a validated pack.
func New(cfg Config, pack *Pack, logger *log.Logger, opts ...Option) *Game {
	g := &Game{
		cfg:    cfg,
		clock:  quartz.NewReal(),
		bus:    NewEventBus(),
		id:     gameid.Generate(),
		phase:  PhaseLobby,
		pack:   pack,
		timers: make(map[timerPurpose]*quartz.Timer),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.baseLogger = logger.WithPrefix("game")
	g.logger = g.baseLogger.With("game", g.id[:8])
	g.rng = randutil.New(cfg.Seed)
	g.ledger = NewLedger(cfg.MinWager, g.clock)
	g.buzzer = NewBuzzer(BuzzerConfig{
		Lockout:      cfg.Lockout,
		Window:       cfg.BuzzWindow,
		MinGap:       cfg.BuzzMinGap,
		MaxPerSecond: cfg.BuzzMaxPerSecond,
	}, g.clock, g.logger)
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.id
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Bus returns the event bus for subscribing to game events.
func (g *Game) Bus() EventBus {
	return g.bus
}

// Players returns the roster in join order.
func (g *Game) Players() []*Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Player, len(g.players))
	copy(out, g.players)
	return out
}

// AddPlayer adds a contestant to the lobby. The game auto-starts once the
// configured minimum is reached.
func (g *Game) AddPlayer(name string, kind PlayerKind) (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseLobby {
		return nil, ErrWrongPhase
	}
	if len(g.players) >= g.cfg.MaxPlayers {
		return nil, ErrGameFull
	}
	for _, p := range g.players {
		if p.Name == name {
			return nil, ErrNameTaken
		}
	}

	player := &Player{ID: uuid.NewString(), Name: name, Kind: kind}
	g.players = append(g.players, player)
	g.ledger.AddPlayer(player.ID, player.Name)
	g.logger.Info("Player joined", "player", name, "kind", kind, "players", len(g.players))

	g.publishSnapshot()
	if len(g.players) >= g.cfg.MinPlayers {
		g.startGame()
	}
	return player, nil
}

// RemovePlayer drops a contestant from the roster. If they were required
// to act on the current clue, the clue resolves as unanswered; if the
// final round was waiting only on them, it advances.
func (g *Game) RemovePlayer(playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := -1
	for i, p := range g.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	name := g.players[idx].Name
	g.players = append(g.players[:idx], g.players[idx+1:]...)
	g.ledger.RemovePlayer(playerID)
	g.logger.Info("Player left", "player", name, "players", len(g.players))

	if current := g.currentClue(); current != nil {
		answerer := g.buzzer.WinnerID()
		if current.DailyDouble {
			answerer = current.PickerID
		}
		if answerer == playerID {
			g.resolveClueUnanswered()
		}
	}
	if g.pickerID == playerID {
		g.advancePicker()
	}
	if g.phase == PhaseFinal && g.final != nil {
		delete(g.final.wagers, playerID)
		delete(g.final.answers, playerID)
		switch g.final.stage {
		case FinalStageWager:
			if len(g.final.wagers) == len(g.players) {
				g.beginFinalAnswers()
			}
		case FinalStageAnswer:
			if len(g.final.answers) == len(g.final.wagers) {
				g.scoreFinalRound()
			}
		}
	}
	g.publishSnapshot()
}

// Start force-starts the game from the lobby, bypassing the minimum
// player auto-start (used by the host to begin short-handed).
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhaseLobby {
		return ErrWrongPhase
	}
	if len(g.players) == 0 {
		return ErrUnknownPlayer
	}
	g.startGame()
	return nil
}

// Reset cancels every outstanding timer and returns the game to the
// lobby, clearing boards, scores and buzz state while preserving the
// connected roster.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetToLobby()
}

// Snapshot returns the current authoritative state.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// HandleAction is the single serialized entry point for every external
// action and internal timer firing. Illegal or malformed actions are
// rejected with at most a notice to the sender; they never crash the
// state machine or leak to other players.
func (g *Game) HandleAction(playerID string, action Action) {
	g.mu.Lock()
	defer g.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("Recovered from action handler panic", "action", action.actionType(), "panic", r)
		}
	}()

	switch a := action.(type) {
	case SelectCell:
		g.handleSelectCell(playerID, a)
	case Buzz:
		g.handleBuzz(playerID, a)
	case SubmitAnswer:
		g.handleSubmitAnswer(playerID, a)
	case SubmitWager:
		g.handleSubmitWager(playerID, a)
	case SubmitFinalWager:
		g.handleSubmitFinalWager(playerID, a)
	case SubmitFinalAnswer:
		g.handleSubmitFinalAnswer(playerID, a)
	case timerFired:
		g.handleTimer(a)
	default:
		g.logger.Warn("Ignoring unknown action", "type", action.actionType())
	}
}

// --- action handlers (mutex held) ---

func (g *Game) handleSelectCell(playerID string, a SelectCell) {
	if !g.phase.boardPhase() {
		g.notice(playerID, "wrong_phase", "No board is in play")
		return
	}
	if playerID != g.pickerID {
		g.notice(playerID, "not_picker", "You do not have control of the board")
		return
	}
	if g.board.Current() != nil {
		g.notice(playerID, "clue_active", "A clue is already in play")
		return
	}

	current, err := g.board.SelectCell(a.Category, a.Index, playerID, g.clock.Now())
	if err != nil {
		code := "invalid_position"
		if err == ErrCellUsed {
			code = "cell_used"
		}
		g.notice(playerID, code, "That cell cannot be selected")
		return
	}

	if current.DailyDouble {
		// The prompt stays hidden until the picker commits a wager.
		g.publish(ClueRevealEvent{
			Clue:      g.clueSnapshot(current),
			MaxWager:  g.ledger.MaxWager(playerID, current.Clue.Value),
			timestamp: g.clock.Now(),
		})
		g.startTimer(timerWager, g.cfg.WagerTimeout)
	} else {
		g.buzzer.PruneStale(rateTrackerMaxAge)
		g.buzzer.StartWindow()
		g.publish(ClueRevealEvent{
			Clue:      g.clueSnapshot(current),
			Lockout:   g.cfg.Lockout,
			Window:    g.cfg.BuzzWindow,
			timestamp: g.clock.Now(),
		})
		g.startTimer(timerBuzzWindow, g.cfg.Lockout+g.cfg.BuzzWindow)
	}
	g.publishSnapshot()
}

func (g *Game) handleBuzz(playerID string, a Buzz) {
	current := g.currentClue()
	if current == nil || current.DailyDouble {
		g.notice(playerID, string(BuzzRejectWindowClosed), "Nothing to buzz for")
		return
	}
	if g.playerByID(playerID) == nil {
		return
	}

	outcome := g.buzzer.ProcessBuzz(playerID, a.ClientTimestamp)
	if !outcome.Accepted {
		msg := "Buzz rejected"
		if outcome.Reject == BuzzRejectAlreadyWon {
			msg = "Buzz already won by " + g.playerName(outcome.WinnerID)
		}
		g.notice(playerID, string(outcome.Reject), msg)
		if outcome.Reject == BuzzRejectTooLate {
			g.resolveClueUnanswered()
		}
		return
	}

	g.stopTimer(timerBuzzWindow)
	g.ledger.RecordBuzzWin(playerID, outcome.BuzzTime)
	g.publish(BuzzResultEvent{
		WinnerID:   playerID,
		WinnerName: g.playerName(playerID),
		BuzzTime:   outcome.BuzzTime,
		Locked:     g.buzzer.LockedPlayers(),
		timestamp:  g.clock.Now(),
	})
	g.startTimer(timerAnswer, g.cfg.AnswerTimeout)
	g.publishSnapshot()
}

func (g *Game) handleSubmitWager(playerID string, a SubmitWager) {
	current := g.currentClue()
	if current == nil || !current.DailyDouble {
		g.notice(playerID, "no_wager_due", "No wager is expected")
		return
	}
	if playerID != current.PickerID {
		g.notice(playerID, "not_picker", "Only the picker wagers on a daily double")
		return
	}
	if current.WagerSet {
		g.notice(playerID, "wager_set", "Wager already submitted")
		return
	}
	if err := g.ledger.ValidateWager(playerID, a.Amount, current.Clue.Value); err != nil {
		g.notice(playerID, "invalid_wager", "Invalid wager")
		return
	}

	current.Wager = a.Amount
	current.WagerSet = true
	g.stopTimer(timerWager)
	g.logger.Info("Daily double wager placed", "player", g.playerName(playerID), "wager", a.Amount)

	// Wager locked in, now the prompt may be shown.
	g.publish(ClueRevealEvent{Clue: g.clueSnapshot(current), timestamp: g.clock.Now()})
	g.startTimer(timerAnswer, g.cfg.AnswerTimeout)
	g.publishSnapshot()
}

func (g *Game) handleSubmitAnswer(playerID string, a SubmitAnswer) {
	current := g.currentClue()
	if current == nil {
		g.notice(playerID, "no_clue", "No clue is in play")
		return
	}

	if current.DailyDouble {
		if playerID != current.PickerID {
			g.notice(playerID, "not_answerer", "Only the picker answers a daily double")
			return
		}
		if !current.WagerSet {
			g.notice(playerID, "wager_required", "Wager before answering")
			return
		}
	} else if playerID != g.buzzer.WinnerID() || playerID == "" {
		g.notice(playerID, "not_answerer", "You have not won the buzz")
		return
	}

	correct, confidence, submitted, ok := g.judge(current, a)
	if !ok {
		g.notice(playerID, "invalid_answer", "Answer could not be judged")
		return
	}

	if correct {
		g.applyCorrectAnswer(playerID, current, submitted, confidence)
	} else {
		g.applyIncorrectAnswer(playerID, current, submitted, confidence)
	}
}

// judge determines correctness: the multiple-choice index wins when the
// clue offers choices and the submission includes one, otherwise the
// free-text match runs. ok is false when the submission is malformed.
func (g *Game) judge(current *CurrentClue, a SubmitAnswer) (correct bool, confidence float64, submitted string, ok bool) {
	if current.Clue.HasChoices() && a.ChoiceIndex != nil {
		idx := *a.ChoiceIndex
		if idx < 0 || idx >= len(current.Clue.Choices) {
			return false, 0, "", false
		}
		return idx == current.Clue.CorrectChoice, 1.0, current.Clue.Choices[idx], true
	}

	if err := ValidateAnswer(a.Text); err != nil {
		return false, 0, "", false
	}
	match := CheckMatchBudget(a.Text, current.Clue.Answer, g.cfg.FuzzyBudget)
	return match.IsMatch, match.Confidence, a.Text, true
}

func (g *Game) applyCorrectAnswer(playerID string, current *CurrentClue, submitted string, confidence float64) {
	delta := g.ledger.ApplyCorrect(playerID, current.Clue.Value, current.DailyDouble, current.Wager)
	g.stopTimer(timerAnswer)
	g.stopTimer(timerBuzzWindow)
	g.buzzer.CloseWindow()

	rec := g.ledger.Record(playerID)
	g.logger.Info("Correct answer",
		"player", g.playerName(playerID),
		"delta", delta,
		"score", rec.Score)
	g.publish(JudgeEvent{
		PlayerID:   playerID,
		PlayerName: g.playerName(playerID),
		Submitted:  submitted,
		Correct:    true,
		Reference:  current.Clue.Answer,
		Delta:      delta,
		NewScore:   rec.Score,
		Confidence: confidence,
		timestamp:  g.clock.Now(),
	})

	g.board.ClearCurrent()
	g.pickerID = playerID // correct answer earns board control
	g.publishSnapshot()
	g.checkRoundComplete()
}

func (g *Game) applyIncorrectAnswer(playerID string, current *CurrentClue, submitted string, confidence float64) {
	delta := g.ledger.ApplyIncorrect(playerID, current.Clue.Value, current.DailyDouble, current.Wager)
	rec := g.ledger.Record(playerID)
	g.logger.Info("Incorrect answer",
		"player", g.playerName(playerID),
		"delta", delta,
		"score", rec.Score)
	g.publish(JudgeEvent{
		PlayerID:   playerID,
		PlayerName: g.playerName(playerID),
		Submitted:  submitted,
		Correct:    false,
		Reference:  current.Clue.Answer,
		Delta:      delta,
		NewScore:   rec.Score,
		Confidence: confidence,
		timestamp:  g.clock.Now(),
	})

	g.stopTimer(timerAnswer)

	if current.DailyDouble {
		// A missed daily double ends the clue immediately.
		g.board.ClearCurrent()
		g.advancePicker()
		g.publishSnapshot()
		g.checkRoundComplete()
		return
	}

	g.buzzer.LockPlayer(playerID)
	g.buzzer.ReopenAfterWrongAnswer()

	if g.unlockedPlayersRemain() && !g.buzzer.WindowExpired() {
		// Remaining players may re-buzz immediately for the rest of the
		// original window.
		remaining := g.buzzer.WindowEnd().Sub(g.clock.Now())
		g.startTimer(timerBuzzWindow, remaining)
		g.publishSnapshot()
		return
	}

	g.resolveClueUnanswered()
}

func (g *Game) handleSubmitFinalWager(playerID string, a SubmitFinalWager) {
	if g.phase != PhaseFinal || g.final == nil || g.final.stage != FinalStageWager {
		g.notice(playerID, "wrong_phase", "No final wager is due")
		return
	}
	if _, done := g.final.wagers[playerID]; done {
		return // second submission is ignored
	}
	if g.playerByID(playerID) == nil {
		return
	}
	if err := g.ledger.ValidateWager(playerID, a.Amount, g.cfg.FinalClueValue); err != nil {
		g.notice(playerID, "invalid_wager", "Invalid wager")
		return
	}

	g.final.wagers[playerID] = a.Amount
	g.logger.Info("Final wager received", "player", g.playerName(playerID), "received", len(g.final.wagers))

	if len(g.final.wagers) == len(g.players) {
		g.beginFinalAnswers()
	}
}

func (g *Game) handleSubmitFinalAnswer(playerID string, a SubmitFinalAnswer) {
	if g.phase != PhaseFinal || g.final == nil || g.final.stage != FinalStageAnswer {
		g.notice(playerID, "wrong_phase", "No final answer is due")
		return
	}
	if _, wagered := g.final.wagers[playerID]; !wagered {
		// Players who never wagered are excluded from answer collection.
		g.notice(playerID, "no_wager", "You did not wager")
		return
	}
	if _, done := g.final.answers[playerID]; done {
		return // second submission is ignored
	}
	if err := ValidateAnswer(a.Text); err != nil {
		g.notice(playerID, "invalid_answer", "Answer could not be judged")
		return
	}

	g.final.answers[playerID] = a.Text
	g.logger.Info("Final answer received", "player", g.playerName(playerID), "received", len(g.final.answers))

	if len(g.final.answers) == len(g.final.wagers) {
		g.scoreFinalRound()
	}
}

// --- timers (mutex held) ---

// startTimer schedules a deadline. Each purpose owns one live timer;
// scheduling cancels its predecessor so a purpose can never double fire.
func (g *Game) startTimer(purpose timerPurpose, d time.Duration) {
	if t := g.timers[purpose]; t != nil {
		t.Stop()
	}
	epoch := g.epoch
	g.timers[purpose] = g.clock.AfterFunc(d, func() {
		g.HandleAction("", timerFired{purpose: purpose, epoch: epoch})
	})
}

func (g *Game) stopTimer(purpose timerPurpose) {
	if t := g.timers[purpose]; t != nil {
		t.Stop()
		delete(g.timers, purpose)
	}
}

func (g *Game) stopAllTimers() {
	for purpose, t := range g.timers {
		t.Stop()
		delete(g.timers, purpose)
	}
}

func (g *Game) handleTimer(a timerFired) {
	if a.epoch != g.epoch {
		g.logger.Debug("Discarding stale timer", "purpose", a.purpose, "epoch", a.epoch)
		return
	}
	delete(g.timers, a.purpose)

	switch a.purpose {
	case timerIntro:
		if g.phase == PhaseIntro {
			g.beginRound(PhaseRound1)
		}
	case timerBuzzWindow:
		if current := g.currentClue(); current != nil && !current.DailyDouble && g.buzzer.WinnerID() == "" {
			g.resolveClueUnanswered()
		}
	case timerAnswer:
		if g.currentClue() != nil {
			g.resolveClueUnanswered()
		}
	case timerWager:
		g.handleWagerTimeout()
	case timerFinalWager:
		if g.phase == PhaseFinal && g.final != nil && g.final.stage == FinalStageWager {
			g.beginFinalAnswers()
		}
	case timerFinalAnswer:
		if g.phase == PhaseFinal && g.final != nil && g.final.stage == FinalStageAnswer {
			g.scoreFinalRound()
		}
	case timerCooldown:
		if g.phase == PhaseResults {
			g.resetToLobby()
		}
	}
}

// handleWagerTimeout defaults a stalled daily double to a face-value
// wager, which is always within MaxWager bounds.
func (g *Game) handleWagerTimeout() {
	current := g.currentClue()
	if current == nil || !current.DailyDouble || current.WagerSet {
		return
	}
	current.Wager = current.Clue.Value
	current.WagerSet = true
	g.logger.Info("Daily double wager timed out, using face value",
		"player", g.playerName(current.PickerID),
		"wager", current.Wager)

	g.publish(ClueRevealEvent{Clue: g.clueSnapshot(current), timestamp: g.clock.Now()})
	g.startTimer(timerAnswer, g.cfg.AnswerTimeout)
	g.publishSnapshot()
}

// --- phase transitions (mutex held) ---

func (g *Game) startGame() {
	g.phase = PhaseIntro
	g.board = NewBoard(g.pack, g.logger)
	g.buzzer.Reset()
	g.pickerID = g.players[g.rng.IntN(len(g.players))].ID
	g.logger.Info("Game starting",
		"players", len(g.players),
		"picker", g.playerName(g.pickerID),
		"pack", g.pack.Title)
	g.publishSnapshot()
	g.startTimer(timerIntro, g.cfg.IntroDelay)
}

func (g *Game) beginRound(phase Phase) {
	g.phase = phase
	g.logger.Info("Round started", "phase", phase)
	g.publishSnapshot()
}

func (g *Game) checkRoundComplete() {
	if g.board == nil || !g.board.RoundComplete() {
		return
	}
	switch g.phase {
	case PhaseRound1:
		g.board.AdvanceRound()
		g.beginRound(PhaseRound2)
	case PhaseRound2:
		g.beginFinalRound()
	}
}

func (g *Game) beginFinalRound() {
	g.phase = PhaseFinal
	g.final = &finalRound{
		stage:   FinalStageWager,
		wagers:  make(map[string]int),
		answers: make(map[string]string),
	}
	g.logger.Info("Final round", "category", g.pack.FinalCategory)
	g.publish(FinalRoundEvent{
		Stage:     FinalStageWager.String(),
		Category:  g.pack.FinalCategory,
		ClueValue: g.cfg.FinalClueValue,
		TimeLimit: g.cfg.FinalWagerTime,
		timestamp: g.clock.Now(),
	})
	g.publishSnapshot()
	g.startTimer(timerFinalWager, g.cfg.FinalWagerTime)
}

func (g *Game) beginFinalAnswers() {
	g.stopTimer(timerFinalWager)
	if len(g.final.wagers) == 0 {
		g.scoreFinalRound()
		return
	}
	g.final.stage = FinalStageAnswer
	g.publish(FinalRoundEvent{
		Stage:     FinalStageAnswer.String(),
		Category:  g.pack.FinalCategory,
		Prompt:    g.pack.FinalClue.Prompt,
		TimeLimit: g.cfg.FinalAnswerTime,
		timestamp: g.clock.Now(),
	})
	g.publishSnapshot()
	g.startTimer(timerFinalAnswer, g.cfg.FinalAnswerTime)
}

// scoreFinalRound settles every contestant simultaneously. A missing
// answer scores as incorrect against the submitted wager; a contestant
// who never wagered appears in the reveal with a zero wager and delta.
func (g *Game) scoreFinalRound() {
	g.stopTimer(timerFinalWager)
	g.stopTimer(timerFinalAnswer)
	g.final.stage = FinalStageResults

	results := make([]FinalResult, 0, len(g.players))
	for _, p := range g.players {
		wager, wagered := g.final.wagers[p.ID]
		answer := g.final.answers[p.ID]
		correct := false
		delta := 0
		if wagered {
			if answer != "" {
				correct = CheckMatchBudget(answer, g.pack.FinalClue.Answer, g.cfg.FuzzyBudget).IsMatch
			}
			delta = g.ledger.ApplyFinal(p.ID, wager, correct)
		}
		results = append(results, FinalResult{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Wager:      wager,
			Answer:     answer,
			Correct:    correct,
			Delta:      delta,
			FinalScore: g.ledger.Record(p.ID).Score,
		})
	}
	sortFinalResults(results)

	g.publish(FinalRevealEvent{
		Reference: g.pack.FinalClue.Answer,
		Results:   results,
		timestamp: g.clock.Now(),
	})
	g.completeGame()
}

func (g *Game) completeGame() {
	g.phase = PhaseResults

	winners := g.ledger.Winners()
	winnerSnaps := make([]PlayerSnapshot, len(winners))
	winnerNames := make([]string, len(winners))
	for i, rec := range winners {
		winnerSnaps[i] = playerSnapshot(rec, g.playerKind(rec.PlayerID))
		winnerNames[i] = rec.DisplayName
	}
	g.logger.Info("Game complete", "winners", winnerNames)

	g.publish(GameCompleteEvent{
		GameID:    g.id,
		Winners:   winnerSnaps,
		Players:   g.playerSnapshots(),
		timestamp: g.clock.Now(),
	})
	g.publishSnapshot()

	if g.recorder != nil {
		record := GameRecord{
			GameID:      g.id,
			CompletedAt: g.clock.Now(),
			Winners:     winnerNames,
			Players:     g.playerSnapshots(),
			Audit:       append([]AuditEntry(nil), g.ledger.History()...),
		}
		// Persistence happens off the event path; a slow or failing store
		// must not stall action processing.
		go func() {
			if err := g.recorder.RecordGame(record); err != nil {
				g.logger.Error("Failed to record finished game", "error", err)
			}
		}()
	}

	g.startTimer(timerCooldown, g.cfg.ResultsCooldown)
}

func (g *Game) resetToLobby() {
	g.epoch++
	g.stopAllTimers()
	g.phase = PhaseLobby
	g.board = nil
	g.final = nil
	g.pickerID = ""
	g.buzzer.Reset()
	g.ledger.ResetScores()
	g.id = gameid.Generate()
	g.logger = g.baseLogger.With("game", g.id[:8])
	g.logger.Info("Reset to lobby", "players", len(g.players))
	g.publishSnapshot()

	if len(g.players) >= g.cfg.MinPlayers {
		g.startGame()
	}
}

// resolveClueUnanswered reveals the clue with zero score change, advances
// the picker and runs the round-complete check. Used for every deadline
// expiry and for the nobody-left-to-buzz case.
func (g *Game) resolveClueUnanswered() {
	current := g.currentClue()
	if current == nil {
		return
	}
	g.stopTimer(timerBuzzWindow)
	g.stopTimer(timerAnswer)
	g.stopTimer(timerWager)
	g.buzzer.CloseWindow()

	g.logger.Info("Clue unanswered", "category", current.CategoryName, "value", current.Clue.Value)
	g.publish(JudgeEvent{
		Reference: current.Clue.Answer,
		TimedOut:  true,
		timestamp: g.clock.Now(),
	})

	g.board.ClearCurrent()
	g.advancePicker()
	g.publishSnapshot()
	g.checkRoundComplete()
}

// advancePicker hands board control to the next player in join order.
func (g *Game) advancePicker() {
	if len(g.players) == 0 {
		g.pickerID = ""
		return
	}
	idx := 0
	for i, p := range g.players {
		if p.ID == g.pickerID {
			idx = (i + 1) % len(g.players)
			break
		}
	}
	g.pickerID = g.players[idx].ID
}

// --- helpers (mutex held) ---

func (g *Game) currentClue() *CurrentClue {
	if g.board == nil {
		return nil
	}
	return g.board.Current()
}

func (g *Game) playerByID(playerID string) *Player {
	for _, p := range g.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (g *Game) playerName(playerID string) string {
	if p := g.playerByID(playerID); p != nil {
		return p.Name
	}
	return playerID
}

func (g *Game) playerKind(playerID string) PlayerKind {
	if p := g.playerByID(playerID); p != nil {
		return p.Kind
	}
	return Human
}

// unlockedPlayersRemain reports whether anyone can still buzz for the
// current clue.
func (g *Game) unlockedPlayersRemain() bool {
	for _, p := range g.players {
		if !g.buzzer.IsLocked(p.ID) {
			return true
		}
	}
	return false
}

func (g *Game) notice(playerID, code, message string) {
	if playerID == "" {
		return
	}
	g.logger.Debug("Action rejected", "player", g.playerName(playerID), "code", code)
	g.publish(NoticeEvent{
		PlayerID:  playerID,
		Code:      code,
		Message:   message,
		timestamp: g.clock.Now(),
	})
}

func (g *Game) publish(event GameEvent) {
	g.bus.Publish(event)
}

func (g *Game) publishSnapshot() {
	g.publish(GameStateEvent{Snapshot: g.snapshotLocked(), timestamp: g.clock.Now()})
}

func (g *Game) roundNumber() int {
	switch g.phase {
	case PhaseRound1:
		return 1
	case PhaseRound2:
		return 2
	case PhaseFinal, PhaseResults:
		return 3
	default:
		return 0
	}
}

// clueSnapshot builds the public view of the in-play clue. Daily double
// prompts stay hidden until the wager is committed, and reference answers
// never appear.
func (g *Game) clueSnapshot(current *CurrentClue) ClueSnapshot {
	snap := ClueSnapshot{
		Key:          current.Key,
		CategoryName: current.CategoryName,
		Value:        current.Clue.Value,
		DailyDouble:  current.DailyDouble,
		PickerID:     current.PickerID,
	}
	if !current.DailyDouble || current.WagerSet {
		snap.Prompt = current.Clue.Prompt
		snap.Choices = current.Clue.Choices
	}
	if current.WagerSet {
		snap.Wager = current.Wager
	}
	return snap
}

func playerSnapshot(rec *ScoreRecord, kind PlayerKind) PlayerSnapshot {
	return PlayerSnapshot{
		ID:             rec.PlayerID,
		Name:           rec.DisplayName,
		Kind:           kind.String(),
		Score:          rec.Score,
		CorrectCount:   rec.CorrectCount,
		IncorrectCount: rec.IncorrectCount,
		BuzzWinCount:   rec.BuzzWinCount,
		CurrentStreak:  rec.CurrentStreak,
		AvgBuzzLatency: rec.AverageBuzzLatency(),
	}
}

func (g *Game) playerSnapshots() []PlayerSnapshot {
	out := make([]PlayerSnapshot, 0, len(g.players))
	for _, p := range g.players {
		if rec := g.ledger.Record(p.ID); rec != nil {
			out = append(out, playerSnapshot(rec, p.Kind))
		}
	}
	return out
}

func (g *Game) snapshotLocked() Snapshot {
	snap := Snapshot{
		GameID:   g.id,
		Phase:    g.phase.String(),
		Round:    g.roundNumber(),
		PickerID: g.pickerID,
		Players:  g.playerSnapshots(),
	}
	if g.board != nil {
		used := make(map[CellKey]bool)
		for _, key := range g.board.UsedCells() {
			used[key] = true
		}
		snap.UsedCells = g.board.UsedCells()
		for i, cat := range g.board.Categories() {
			values := make([]int, len(cat.Clues))
			for j, clue := range cat.Clues {
				if !used[CellKey{Category: i, Index: j}] {
					values[j] = clue.Value
				}
			}
			snap.Categories = append(snap.Categories, CategorySnapshot{Name: cat.Name, Values: values})
		}
		if current := g.board.Current(); current != nil {
			cs := g.clueSnapshot(current)
			snap.Current = &cs
		}
	}
	if g.final != nil {
		snap.FinalStage = g.final.stage.String()
	}
	return snap
}

// sortFinalResults orders by final score descending, name ascending for
// stable display.
func sortFinalResults(results []FinalResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		return results[i].PlayerName < results[j].PlayerName
	})
}
