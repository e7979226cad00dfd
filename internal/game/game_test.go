package game

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture records every published event for assertions.
type capture struct {
	mu     sync.Mutex
	events []GameEvent
}

func (c *capture) OnEvent(event GameEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// last returns the most recent event of the given type, nil if none.
func (c *capture) last(et EventType) GameEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].EventType() == et {
			return c.events[i]
		}
	}
	return nil
}

func (c *capture) count(et EventType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.EventType() == et {
			n++
		}
	}
	return n
}

// lastNotice returns the most recent notice code sent to a player.
func (c *capture) lastNotice(playerID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.events) - 1; i >= 0; i-- {
		if n, ok := c.events[i].(NoticeEvent); ok && n.PlayerID == playerID {
			return n.Code
		}
	}
	return ""
}

func testGameConfig() Config {
	cfg := DefaultConfig()
	cfg.MinPlayers = 2
	cfg.MaxPlayers = 3
	cfg.Seed = 1
	return cfg
}

func newTestGame(t *testing.T) (*Game, *quartz.Mock, *capture) {
	t.Helper()
	clock := quartz.NewMock(t)
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	g := New(testGameConfig(), testPack(), logger, WithClock(clock))

	rec := &capture{}
	g.Bus().Subscribe(rec)
	return g, clock, rec
}

func advance(t *testing.T, clock *quartz.Mock, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	clock.Advance(d).MustWait(ctx)
}

// startedGame returns a game in round 1 with two seated players, with p1
// holding board control.
func startedGame(t *testing.T) (*Game, *quartz.Mock, *capture, *Player, *Player) {
	t.Helper()
	g, clock, rec := newTestGame(t)

	p1, err := g.AddPlayer("Alice", Human)
	require.NoError(t, err)
	p2, err := g.AddPlayer("Bob", Human)
	require.NoError(t, err)
	require.Equal(t, PhaseIntro, g.Phase())

	advance(t, clock, g.cfg.IntroDelay)
	require.Equal(t, PhaseRound1, g.Phase())

	g.mu.Lock()
	g.pickerID = p1.ID
	g.mu.Unlock()

	return g, clock, rec, p1, p2
}

func TestAddPlayerRules(t *testing.T) {
	g, _, _ := newTestGame(t)

	_, err := g.AddPlayer("Alice", Human)
	require.NoError(t, err)

	_, err = g.AddPlayer("Alice", Human)
	assert.ErrorIs(t, err, ErrNameTaken)

	_, err = g.AddPlayer("Bob", Human)
	require.NoError(t, err)

	// Auto-started at MinPlayers, so the lobby is closed
	assert.Equal(t, PhaseIntro, g.Phase())
	_, err = g.AddPlayer("Carol", Human)
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestFullClueFlow(t *testing.T) {
	g, clock, rec, p1, p2 := startedGame(t)

	g.HandleAction(p1.ID, SelectCell{Category: 0, Index: 0})
	reveal, ok := rec.last(EventTypeClueReveal).(ClueRevealEvent)
	require.True(t, ok)
	assert.Equal(t, "Prompt 0-0", reveal.Clue.Prompt)
	assert.Equal(t, 100, reveal.Clue.Value)

	// Buzzing during the lockout is rejected
	g.HandleAction(p2.ID, Buzz{})
	assert.Equal(t, string(BuzzRejectTooEarly), rec.lastNotice(p2.ID))

	advance(t, clock, 700*time.Millisecond)
	g.HandleAction(p2.ID, Buzz{})
	buzz, ok := rec.last(EventTypeBuzzResult).(BuzzResultEvent)
	require.True(t, ok)
	assert.Equal(t, p2.ID, buzz.WinnerID)
	assert.Equal(t, "Bob", buzz.WinnerName)

	// Only the buzz winner may answer
	g.HandleAction(p1.ID, SubmitAnswer{Text: "What is Answer 0 0"})
	assert.Equal(t, "not_answerer", rec.lastNotice(p1.ID))

	g.HandleAction(p2.ID, SubmitAnswer{Text: "What is Answer 0 0"})
	judge, ok := rec.last(EventTypeJudge).(JudgeEvent)
	require.True(t, ok)
	assert.True(t, judge.Correct)
	assert.Equal(t, 100, judge.Delta)
	assert.Equal(t, 100, judge.NewScore)

	// Correct answer earns board control
	snap := g.Snapshot()
	assert.Equal(t, p2.ID, snap.PickerID)
	assert.Nil(t, snap.Current)
	assert.Equal(t, 100, snap.Players[1].Score)
}

func TestRateTrackingPrunedBetweenClues(t *testing.T) {
	g, clock, _, p1, p2 := startedGame(t)

	g.HandleAction(p1.ID, SelectCell{Category: 0, Index: 0})
	advance(t, clock, 700*time.Millisecond)
	g.HandleAction(p2.ID, Buzz{})
	g.HandleAction(p2.ID, SubmitAnswer{Text: "What is Answer 0 0"})

	g.mu.Lock()
	_, tracked := g.buzzer.lastAttempt[p2.ID]
	g.mu.Unlock()
	require.True(t, tracked)

	// The board sits idle waiting for a pick; once one opens a new buzz
	// window, counters older than the tracker age are dropped.
	advance(t, clock, rateTrackerMaxAge+time.Minute)
	g.HandleAction(p2.ID, SelectCell{Category: 0, Index: 1})

	g.mu.Lock()
	_, tracked = g.buzzer.lastAttempt[p2.ID]
	g.mu.Unlock()
	assert.False(t, tracked)
}

func TestWrongAnswerReopensWindow(t *testing.T) {
	g, clock, rec, p1, p2 := startedGame(t)

	g.HandleAction(p1.ID, SelectCell{Category: 0, Index: 0})
	advance(t, clock, 700*time.Millisecond)

	g.HandleAction(p2.ID, Buzz{})
	g.HandleAction(p2.ID, SubmitAnswer{Text: "completely wrong"})
	judge := rec.last(EventTypeJudge).(JudgeEvent)
	assert.False(t, judge.Correct)
	assert.Equal(t, -100, judge.Delta)

	// The other player may re-buzz immediately, no fresh lockout
	g.HandleAction(p1.ID, Buzz{})
	buzz := rec.last(EventTypeBuzzResult).(BuzzResultEvent)
	assert.Equal(t, p1.ID, buzz.WinnerID)
	assert.Contains(t, buzz.Locked, p2.ID)

	// The locked player cannot steal the answer back
	g.HandleAction(p2.ID, SubmitAnswer{Text: "What is Answer 0 0"})
	assert.Equal(t, "not_answerer", rec.lastNotice(p2.ID))

	g.HandleAction(p1.ID, SubmitAnswer{Text: "Answer 0 0"})
	judge = rec.last(EventTypeJudge).(JudgeEvent)
	assert.True(t, judge.Correct)
	assert.Equal(t, 100, judge.NewScore)
}

func TestAllPlayersWrongResolvesUnanswered(t *testing.T) {
	g, clock, rec, p1, p2 := startedGame(t)

	g.HandleAction(p1.ID, SelectCell{Category: 0, Index: 0})
	advance(t, clock, 700*time.Millisecond)

	g.HandleAction(p2.ID, Buzz{})
	g.HandleAction(p2.ID, SubmitAnswer{Text: "wrong one"})
	g.HandleAction(p1.ID, Buzz{})
	g.HandleAction(p1.ID, SubmitAnswer{Text: "wrong two"})

	judge := rec.last(EventTypeJudge).(JudgeEvent)
	assert.True(t, judge.TimedOut)
	assert.Equal(t, "Answer 0 0", judge.Reference)
	assert.Nil(t, g.Snapshot().Current)
}

func TestBuzzWindowTimeout(t *testing.T) {
	g, clock, rec, p1, p2 := startedGame(t)

	g.HandleAction(p1.ID, SelectCell{Category: 0, Index: 0})
	advance(t, clock, g.cfg.Lockout+g.cfg.BuzzWindow)

	judge := rec.last(EventTypeJudge).(JudgeEvent)
	assert.True(t, judge.TimedOut)
	assert.Equal(t, 0, judge.Delta)

	// An unanswered clue hands control to the next player
	assert.Equal(t, p2.ID, g.Snapshot().PickerID)
}

func TestAnswerTimeout(t *testing.T) {
	g, clock, rec, p1, p2 := startedGame(t)

	g.HandleAction(p1.ID, SelectCell{Category: 0, Index: 0})
	advance(t, clock, 700*time.Millisecond)
	g.HandleAction(p2.ID, Buzz{})

	advance(t, clock, g.cfg.AnswerTimeout)
	judge := rec.last(EventTypeJudge).(JudgeEvent)
	assert.True(t, judge.TimedOut)

	// No score change on a silent timeout
	snap := g.Snapshot()
	assert.Equal(t, 0, snap.Players[0].Score)
	assert.Equal(t, 0, snap.Players[1].Score)
}

func TestMalformedAnswerDoesNotResolveClue(t *testing.T) {
	g, clock, rec, p1, p2 := startedGame(t)

	g.HandleAction(p1.ID, SelectCell{Category: 0, Index: 0})
	advance(t, clock, 700*time.Millisecond)
	g.HandleAction(p2.ID, Buzz{})

	g.HandleAction(p2.ID, SubmitAnswer{Text: "!!!"})
	assert.Equal(t, "invalid_answer", rec.lastNotice(p2.ID))

	// The clue is still live and judgable
	g.HandleAction(p2.ID, SubmitAnswer{Text: "Answer 0 0"})
	judge := rec.last(EventTypeJudge).(JudgeEvent)
	assert.True(t, judge.Correct)
}

func TestDailyDoubleFlow(t *testing.T) {
	g, _, rec, p1, p2 := startedGame(t)

	g.HandleAction(p1.ID, SelectCell{Category: 1, Index: 2})
	reveal := rec.last(EventTypeClueReveal).(ClueRevealEvent)
	assert.True(t, reveal.Clue.DailyDouble)
	assert.Empty(t, reveal.Clue.Prompt) // hidden until the wager is in
	assert.Equal(t, 300, reveal.MaxWager)

	// Buzzing is meaningless on a daily double
	g.HandleAction(p2.ID, Buzz{})
	assert.Equal(t, string(BuzzRejectWindowClosed), rec.lastNotice(p2.ID))

	// Only the picker wagers
	g.HandleAction(p2.ID, SubmitWager{Amount: 100})
	assert.Equal(t, "not_picker", rec.lastNotice(p2.ID))

	// Out-of-bounds wager
	g.HandleAction(p1.ID, SubmitWager{Amount: 400})
	assert.Equal(t, "invalid_wager", rec.lastNotice(p1.ID))

	// Answering before wagering
	g.HandleAction(p1.ID, SubmitAnswer{Text: "Answer 1 2"})
	assert.Equal(t, "wager_required", rec.lastNotice(p1.ID))

	g.HandleAction(p1.ID, SubmitWager{Amount: 250})
	reveal = rec.last(EventTypeClueReveal).(ClueRevealEvent)
	assert.Equal(t, "Prompt 1-2", reveal.Clue.Prompt)
	assert.Equal(t, 250, reveal.Clue.Wager)

	// Wager locked in, a second wager is rejected
	g.HandleAction(p1.ID, SubmitWager{Amount: 100})
	assert.Equal(t, "wager_set", rec.lastNotice(p1.ID))

	g.HandleAction(p1.ID, SubmitAnswer{Text: "Answer 1 2"})
	judge := rec.last(EventTypeJudge).(JudgeEvent)
	assert.True(t, judge.Correct)
	assert.Equal(t, 250, judge.Delta)
}

func TestDailyDoubleWrongAnswerEndsClue(t *testing.T) {
	g, _, rec, p1, p2 := startedGame(t)

	g.HandleAction(p1.ID, SelectCell{Category: 1, Index: 2})
	g.HandleAction(p1.ID, SubmitWager{Amount: 300})
	g.HandleAction(p1.ID, SubmitAnswer{Text: "wrong answer"})

	judge := rec.last(EventTypeJudge).(JudgeEvent)
	assert.False(t, judge.Correct)
	assert.Equal(t, -300, judge.Delta)

	// No steal on a daily double: the clue ends and control moves on
	snap := g.Snapshot()
	assert.Nil(t, snap.Current)
	assert.Equal(t, p2.ID, snap.PickerID)
}

func TestDailyDoubleWagerTimeout(t *testing.T) {
	g, clock, rec, p1, _ := startedGame(t)

	g.HandleAction(p1.ID, SelectCell{Category: 1, Index: 2})
	advance(t, clock, g.cfg.WagerTimeout)

	// A stalled wager defaults to the clue's face value
	reveal := rec.last(EventTypeClueReveal).(ClueRevealEvent)
	assert.Equal(t, "Prompt 1-2", reveal.Clue.Prompt)
	assert.Equal(t, 300, reveal.Clue.Wager)

	g.HandleAction(p1.ID, SubmitAnswer{Text: "Answer 1 2"})
	judge := rec.last(EventTypeJudge).(JudgeEvent)
	assert.True(t, judge.Correct)
	assert.Equal(t, 300, judge.Delta)
}

func TestSelectCellRules(t *testing.T) {
	g, _, rec, p1, p2 := startedGame(t)

	g.HandleAction(p2.ID, SelectCell{Category: 0, Index: 0})
	assert.Equal(t, "not_picker", rec.lastNotice(p2.ID))

	g.HandleAction(p1.ID, SelectCell{Category: 9, Index: 0})
	assert.Equal(t, "invalid_position", rec.lastNotice(p1.ID))

	g.HandleAction(p1.ID, SelectCell{Category: 0, Index: 0})
	g.HandleAction(p1.ID, SelectCell{Category: 0, Index: 1})
	assert.Equal(t, "clue_active", rec.lastNotice(p1.ID))
}

func TestRemoveAnswererResolvesClue(t *testing.T) {
	g, clock, rec, p1, p2 := startedGame(t)

	g.HandleAction(p1.ID, SelectCell{Category: 0, Index: 0})
	advance(t, clock, 700*time.Millisecond)
	g.HandleAction(p2.ID, Buzz{})

	g.RemovePlayer(p2.ID)

	judge := rec.last(EventTypeJudge).(JudgeEvent)
	assert.True(t, judge.TimedOut)
	assert.Nil(t, g.Snapshot().Current)
	assert.Len(t, g.Players(), 1)
}

// playOutBoard lets every remaining clue expire unanswered, advancing
// through one full board round.
func playOutBoard(t *testing.T, g *Game, clock *quartz.Mock) {
	t.Helper()
	for i := 0; i < 2; i++ {
		for j := 0; j < CluesPerCategory; j++ {
			pickerID := g.Snapshot().PickerID
			g.HandleAction(pickerID, SelectCell{Category: i, Index: j})

			snap := g.Snapshot()
			require.NotNil(t, snap.Current)
			if snap.Current.DailyDouble {
				advance(t, clock, g.cfg.WagerTimeout)
				advance(t, clock, g.cfg.AnswerTimeout)
			} else {
				advance(t, clock, g.cfg.Lockout+g.cfg.BuzzWindow)
			}
		}
	}
}

func TestFullGameToFinalRound(t *testing.T) {
	g, clock, rec, p1, p2 := startedGame(t)

	playOutBoard(t, g, clock)
	require.Equal(t, PhaseRound2, g.Phase())

	playOutBoard(t, g, clock)
	require.Equal(t, PhaseFinal, g.Phase())

	final := rec.last(EventTypeFinalRound).(FinalRoundEvent)
	assert.Equal(t, FinalStageWager.String(), final.Stage)
	assert.Equal(t, "Space", final.Category)
	assert.Empty(t, final.Prompt)

	// Wagers from both players move the round to answer collection
	g.HandleAction(p1.ID, SubmitFinalWager{Amount: 100})
	g.HandleAction(p2.ID, SubmitFinalWager{Amount: 200})

	final = rec.last(EventTypeFinalRound).(FinalRoundEvent)
	require.Equal(t, FinalStageAnswer.String(), final.Stage)
	assert.Equal(t, "First person to walk on the Moon", final.Prompt)

	g.HandleAction(p1.ID, SubmitFinalAnswer{Text: "Who is Neil Armstrong?"})
	g.HandleAction(p2.ID, SubmitFinalAnswer{Text: "Buzz Lightyear"})

	reveal := rec.last(EventTypeFinalReveal).(FinalRevealEvent)
	require.Len(t, reveal.Results, 2)
	assert.Equal(t, "Neil Armstrong", reveal.Reference)

	// Sorted by final score descending
	assert.Equal(t, "Alice", reveal.Results[0].PlayerName)
	assert.True(t, reveal.Results[0].Correct)
	assert.Equal(t, 100, reveal.Results[0].FinalScore)
	assert.Equal(t, "Bob", reveal.Results[1].PlayerName)
	assert.False(t, reveal.Results[1].Correct)
	assert.Equal(t, -200, reveal.Results[1].FinalScore)

	complete := rec.last(EventTypeGameComplete).(GameCompleteEvent)
	require.Len(t, complete.Winners, 1)
	assert.Equal(t, "Alice", complete.Winners[0].Name)
	assert.Equal(t, PhaseResults, g.Phase())
}

func TestTiedWinners(t *testing.T) {
	g, clock, rec, p1, p2 := startedGame(t)
	playOutBoard(t, g, clock)
	playOutBoard(t, g, clock)
	require.Equal(t, PhaseFinal, g.Phase())

	g.HandleAction(p1.ID, SubmitFinalWager{Amount: 100})
	g.HandleAction(p2.ID, SubmitFinalWager{Amount: 100})
	g.HandleAction(p1.ID, SubmitFinalAnswer{Text: "Neil Armstrong"})
	g.HandleAction(p2.ID, SubmitFinalAnswer{Text: "neil armstrong"})

	complete := rec.last(EventTypeGameComplete).(GameCompleteEvent)
	require.Len(t, complete.Winners, 2)
	assert.Equal(t, "Alice", complete.Winners[0].Name)
	assert.Equal(t, "Bob", complete.Winners[1].Name)
}

func TestFinalRoundDuplicateSubmissionsIgnored(t *testing.T) {
	g, clock, rec, p1, p2 := startedGame(t)
	playOutBoard(t, g, clock)
	playOutBoard(t, g, clock)
	require.Equal(t, PhaseFinal, g.Phase())

	g.HandleAction(p1.ID, SubmitFinalWager{Amount: 100})
	g.HandleAction(p1.ID, SubmitFinalWager{Amount: 999}) // ignored
	g.HandleAction(p2.ID, SubmitFinalWager{Amount: 50})

	g.HandleAction(p1.ID, SubmitFinalAnswer{Text: "Neil Armstrong"})
	g.HandleAction(p2.ID, SubmitFinalAnswer{Text: "Neil Armstrong"})

	reveal := rec.last(EventTypeFinalReveal).(FinalRevealEvent)
	for _, r := range reveal.Results {
		if r.PlayerName == "Alice" {
			assert.Equal(t, 100, r.Wager)
		}
	}
}

func TestFinalRoundTimeouts(t *testing.T) {
	g, clock, rec, p1, _ := startedGame(t)
	playOutBoard(t, g, clock)
	playOutBoard(t, g, clock)
	require.Equal(t, PhaseFinal, g.Phase())

	// Only Alice wagers before the deadline
	g.HandleAction(p1.ID, SubmitFinalWager{Amount: 100})
	advance(t, clock, g.cfg.FinalWagerTime)

	final := rec.last(EventTypeFinalRound).(FinalRoundEvent)
	require.Equal(t, FinalStageAnswer.String(), final.Stage)

	// Nobody answers: wagered players score as incorrect, and the reveal
	// still carries an entry for Bob, who never wagered.
	advance(t, clock, g.cfg.FinalAnswerTime)
	reveal := rec.last(EventTypeFinalReveal).(FinalRevealEvent)
	require.Len(t, reveal.Results, 2)
	assert.Equal(t, "Bob", reveal.Results[0].PlayerName)
	assert.Equal(t, 0, reveal.Results[0].Wager)
	assert.False(t, reveal.Results[0].Correct)
	assert.Equal(t, 0, reveal.Results[0].Delta)
	assert.Equal(t, "Alice", reveal.Results[1].PlayerName)
	assert.False(t, reveal.Results[1].Correct)
	assert.Equal(t, -100, reveal.Results[1].Delta)
	assert.Equal(t, PhaseResults, g.Phase())
}

func TestRemovePlayerDuringFinalWager(t *testing.T) {
	g, clock, rec, p1, p2 := startedGame(t)
	playOutBoard(t, g, clock)
	playOutBoard(t, g, clock)
	require.Equal(t, PhaseFinal, g.Phase())

	// Alice has wagered; once Bob leaves, hers is the only wager owed and
	// the answer stage begins without waiting out the deadline.
	g.HandleAction(p1.ID, SubmitFinalWager{Amount: 100})
	g.RemovePlayer(p2.ID)

	final := rec.last(EventTypeFinalRound).(FinalRoundEvent)
	require.Equal(t, FinalStageAnswer.String(), final.Stage)

	g.HandleAction(p1.ID, SubmitFinalAnswer{Text: "Neil Armstrong"})
	assert.Equal(t, PhaseResults, g.Phase())
}

func TestRemovePlayerDuringFinalAnswer(t *testing.T) {
	g, clock, rec, p1, p2 := startedGame(t)
	playOutBoard(t, g, clock)
	playOutBoard(t, g, clock)
	g.HandleAction(p1.ID, SubmitFinalWager{Amount: 100})
	g.HandleAction(p2.ID, SubmitFinalWager{Amount: 100})
	g.HandleAction(p1.ID, SubmitFinalAnswer{Text: "Neil Armstrong"})
	require.Equal(t, PhaseFinal, g.Phase())

	// Bob was the last outstanding answer; his departure settles the round
	g.RemovePlayer(p2.ID)

	reveal := rec.last(EventTypeFinalReveal).(FinalRevealEvent)
	require.Len(t, reveal.Results, 1)
	assert.Equal(t, "Alice", reveal.Results[0].PlayerName)
	assert.True(t, reveal.Results[0].Correct)
	assert.Equal(t, 100, reveal.Results[0].Delta)
	assert.Equal(t, PhaseResults, g.Phase())
}

func TestResultsCooldownRestartsGame(t *testing.T) {
	g, clock, rec, p1, p2 := startedGame(t)
	playOutBoard(t, g, clock)
	playOutBoard(t, g, clock)
	g.HandleAction(p1.ID, SubmitFinalWager{Amount: 100})
	g.HandleAction(p2.ID, SubmitFinalWager{Amount: 100})
	g.HandleAction(p1.ID, SubmitFinalAnswer{Text: "Neil Armstrong"})
	g.HandleAction(p2.ID, SubmitFinalAnswer{Text: "Neil Armstrong"})
	require.Equal(t, PhaseResults, g.Phase())

	oldID := g.ID()
	advance(t, clock, g.cfg.ResultsCooldown)

	// Enough players remain seated, so a fresh game starts straight away
	assert.Equal(t, PhaseIntro, g.Phase())
	assert.NotEqual(t, oldID, g.ID())
	for _, p := range g.Snapshot().Players {
		assert.Equal(t, 0, p.Score)
	}
	assert.Greater(t, rec.count(EventTypeGameComplete), 0)
}

func TestResetMidClue(t *testing.T) {
	g, clock, _, p1, _ := startedGame(t)

	g.HandleAction(p1.ID, SelectCell{Category: 0, Index: 0})
	g.Reset()

	// Reset returns to the lobby; with enough players seated the next
	// game starts immediately
	assert.Equal(t, PhaseIntro, g.Phase())
	assert.Nil(t, g.Snapshot().Current)

	// Timers from the abandoned game must not fire into the new one
	advance(t, clock, g.cfg.IntroDelay)
	assert.Equal(t, PhaseRound1, g.Phase())
	advance(t, clock, time.Hour)
	assert.Equal(t, PhaseRound1, g.Phase())
}

func TestRecorderReceivesFinishedGame(t *testing.T) {
	clock := quartz.NewMock(t)
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	recorder := &stubRecorder{done: make(chan GameRecord, 1)}
	g := New(testGameConfig(), testPack(), logger, WithClock(clock), WithRecorder(recorder))

	p1, err := g.AddPlayer("Alice", Human)
	require.NoError(t, err)
	p2, err := g.AddPlayer("Bob", Human)
	require.NoError(t, err)
	advance(t, clock, g.cfg.IntroDelay)

	playOutBoard(t, g, clock)
	playOutBoard(t, g, clock)
	g.HandleAction(p1.ID, SubmitFinalWager{Amount: 100})
	g.HandleAction(p2.ID, SubmitFinalWager{Amount: 100})
	g.HandleAction(p1.ID, SubmitFinalAnswer{Text: "Neil Armstrong"})
	g.HandleAction(p2.ID, SubmitFinalAnswer{Text: "wrong"})

	select {
	case record := <-recorder.done:
		assert.Equal(t, []string{"Alice"}, record.Winners)
		assert.Len(t, record.Players, 2)
		assert.NotEmpty(t, record.Audit)
	case <-time.After(5 * time.Second):
		t.Fatal("recorder was not invoked")
	}
}

type stubRecorder struct {
	done chan GameRecord
}

func (r *stubRecorder) RecordGame(record GameRecord) error {
	r.done <- record
	return nil
}
