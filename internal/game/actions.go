package game

// Action is the tagged union of every external input a contestant can
// send. The network decoder and the bot policy layer construct the same
// types and submit them through Game.HandleAction, so the core never
// distinguishes how an action arrived.
type Action interface {
	actionType() string
}

// SelectCell picks a board cell. Legal only for the current picker during
// a board round with no clue active.
type SelectCell struct {
	Category int
	Index    int
}

func (SelectCell) actionType() string { return "select_cell" }

// Buzz attempts to win the right to answer the active clue. The client
// timestamp is recorded for analytics and never used for arbitration.
type Buzz struct {
	ClientTimestamp int64
}

func (Buzz) actionType() string { return "buzz" }

// SubmitAnswer answers the active clue, either as free text or as a
// multiple-choice index when the clue offers choices.
type SubmitAnswer struct {
	Text        string
	ChoiceIndex *int
}

func (SubmitAnswer) actionType() string { return "submit_answer" }

// SubmitWager sets the daily double wager. Legal only for the picker,
// once per clue.
type SubmitWager struct {
	Amount int
}

func (SubmitWager) actionType() string { return "daily_double_wager" }

// SubmitFinalWager sets a contestant's final round wager.
type SubmitFinalWager struct {
	Amount int
}

func (SubmitFinalWager) actionType() string { return "final_wager" }

// SubmitFinalAnswer submits a contestant's final round answer.
type SubmitFinalAnswer struct {
	Text string
}

func (SubmitFinalAnswer) actionType() string { return "final_answer" }

// timerPurpose identifies which deadline a scheduled firing belongs to.
// Each purpose owns at most one live timer.
type timerPurpose int

const (
	timerIntro timerPurpose = iota
	timerBuzzWindow
	timerAnswer
	timerWager
	timerFinalWager
	timerFinalAnswer
	timerCooldown
)

// String returns the string representation of the timer purpose
func (tp timerPurpose) String() string {
	switch tp {
	case timerIntro:
		return "intro"
	case timerBuzzWindow:
		return "buzz_window"
	case timerAnswer:
		return "answer"
	case timerWager:
		return "wager"
	case timerFinalWager:
		return "final_wager"
	case timerFinalAnswer:
		return "final_answer"
	case timerCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// timerFired is the internal action a deadline injects into the same
// serialized handler path as player actions, so a timer firing and a
// racing player action can never interleave mid-mutation. The epoch guards
// against firings scheduled before a reset.
type timerFired struct {
	purpose timerPurpose
	epoch   uint64
}

func (timerFired) actionType() string { return "timer_fired" }
