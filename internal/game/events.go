package game

import "time"

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeGameState    EventType = "game_state"
	EventTypeClueReveal   EventType = "clue_reveal"
	EventTypeBuzzResult   EventType = "buzz_result"
	EventTypeJudge        EventType = "judge"
	EventTypeFinalRound   EventType = "final_round"
	EventTypeFinalReveal  EventType = "final_reveal"
	EventTypeGameComplete EventType = "game_complete"
	EventTypeNotice       EventType = "notice"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event emitted by the game core
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// GameStateEvent carries the full authoritative snapshot, broadcast after
// every state-changing action.
type GameStateEvent struct {
	Snapshot  Snapshot
	timestamp time.Time
}

func (e GameStateEvent) EventType() EventType { return EventTypeGameState }
func (e GameStateEvent) Timestamp() time.Time { return e.timestamp }

// ClueRevealEvent is published when a clue becomes active, and again for a
// daily double once the wager is in and the prompt may be shown.
type ClueRevealEvent struct {
	Clue      ClueSnapshot
	MaxWager  int // daily doubles only: the picker's wager ceiling
	Lockout   time.Duration
	Window    time.Duration
	timestamp time.Time
}

func (e ClueRevealEvent) EventType() EventType { return EventTypeClueReveal }
func (e ClueRevealEvent) Timestamp() time.Time { return e.timestamp }

// BuzzResultEvent is published when a buzz contest produces a winner.
type BuzzResultEvent struct {
	WinnerID   string
	WinnerName string
	BuzzTime   time.Duration
	Locked     []string
	timestamp  time.Time
}

func (e BuzzResultEvent) EventType() EventType { return EventTypeBuzzResult }
func (e BuzzResultEvent) Timestamp() time.Time { return e.timestamp }

// JudgeEvent is published when an answer is judged, including timeout
// resolutions where no answer arrived.
type JudgeEvent struct {
	PlayerID   string
	PlayerName string
	Submitted  string
	Correct    bool
	Reference  string
	Delta      int
	NewScore   int
	Confidence float64
	TimedOut   bool
	timestamp  time.Time
}

func (e JudgeEvent) EventType() EventType { return EventTypeJudge }
func (e JudgeEvent) Timestamp() time.Time { return e.timestamp }

// FinalRoundEvent announces a final round sub-phase. The prompt is only
// populated once every wager is in.
type FinalRoundEvent struct {
	Stage     string
	Category  string
	Prompt    string
	ClueValue int
	TimeLimit time.Duration
	timestamp time.Time
}

func (e FinalRoundEvent) EventType() EventType { return EventTypeFinalRound }
func (e FinalRoundEvent) Timestamp() time.Time { return e.timestamp }

// FinalResult is one contestant's final round outcome.
type FinalResult struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Wager      int    `json:"wager"`
	Answer     string `json:"answer"`
	Correct    bool   `json:"correct"`
	Delta      int    `json:"delta"`
	FinalScore int    `json:"finalScore"`
}

// FinalRevealEvent carries every final round result, sorted by final
// score descending.
type FinalRevealEvent struct {
	Reference string
	Results   []FinalResult
	timestamp time.Time
}

func (e FinalRevealEvent) EventType() EventType { return EventTypeFinalReveal }
func (e FinalRevealEvent) Timestamp() time.Time { return e.timestamp }

// GameCompleteEvent is published once when the game reaches results.
type GameCompleteEvent struct {
	GameID    string
	Winners   []PlayerSnapshot
	Players   []PlayerSnapshot
	timestamp time.Time
}

func (e GameCompleteEvent) EventType() EventType { return EventTypeGameComplete }
func (e GameCompleteEvent) Timestamp() time.Time { return e.timestamp }

// NoticeEvent is a rejection notice addressed to a single player. Other
// players never see it.
type NoticeEvent struct {
	PlayerID  string
	Code      string
	Message   string
	timestamp time.Time
}

func (e NoticeEvent) EventType() EventType { return EventTypeNotice }
func (e NoticeEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{subscribers: make([]EventSubscriber, 0)}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers. A failing subscriber cannot
// stop delivery to the rest; panics are contained per subscriber.
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		func() {
			defer func() { _ = recover() }()
			subscriber.OnEvent(event)
		}()
	}
}
