package server

import (
	"encoding/json"
	"time"

	"github.com/lox/triviaforbots/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type AuthData struct {
	PlayerName string `json:"playerName"`
	Token      string `json:"token,omitempty"`
}

type JoinGameData struct {
	GameID string `json:"gameId"`
}

type LeaveGameData struct {
	GameID string `json:"gameId"`
}

type SelectCellData struct {
	GameID   string `json:"gameId"`
	Category int    `json:"category"`
	Index    int    `json:"index"`
}

type BuzzData struct {
	GameID string `json:"gameId"`
	// ClientTimestamp is the sender's clock in unix milliseconds. It is
	// recorded for latency analytics only; arbitration uses server
	// processing order.
	ClientTimestamp int64 `json:"clientTimestamp,omitempty"`
}

type SubmitAnswerData struct {
	GameID      string `json:"gameId"`
	Text        string `json:"text,omitempty"`
	ChoiceIndex *int   `json:"choiceIndex,omitempty"`
}

type WagerData struct {
	GameID string `json:"gameId"`
	Amount int    `json:"amount"`
}

type FinalWagerData struct {
	GameID string `json:"gameId"`
	Amount int    `json:"amount"`
}

type FinalAnswerData struct {
	GameID string `json:"gameId"`
	Text   string `json:"text"`
}

type AddBotData struct {
	GameID   string `json:"gameId"`
	Strategy string `json:"strategy,omitempty"`
	Count    int    `json:"count,omitempty"` // Number of bots to add, default 1
}

type KickBotData struct {
	GameID  string `json:"gameId"`
	BotName string `json:"botName"`
}

// Server → Client Messages

type AuthResponseData struct {
	Success    bool   `json:"success"`
	PlayerName string `json:"playerName,omitempty"`
	Error      string `json:"error,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type GameInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PackTitle   string `json:"packTitle"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	Phase       string `json:"phase"`
}

type GameListData struct {
	Games []GameInfo `json:"games"`
}

type GameJoinedData struct {
	GameID   string                `json:"gameId"`
	PlayerID string                `json:"playerId"`
	Players  []game.PlayerSnapshot `json:"players"`
}

type GameLeftData struct {
	GameID string `json:"gameId"`
}

// ClueRevealData announces an active clue. Durations are wire-encoded in
// milliseconds. For a daily double wager request the prompt is absent and
// MaxWager carries the picker's ceiling.
type ClueRevealData struct {
	Clue      game.ClueSnapshot `json:"clue"`
	MaxWager  int               `json:"maxWager,omitempty"`
	LockoutMs int64             `json:"lockoutMs,omitempty"`
	WindowMs  int64             `json:"windowMs,omitempty"`
}

type BuzzResultData struct {
	WinnerID   string   `json:"winnerId"`
	WinnerName string   `json:"winnerName"`
	BuzzMs     int64    `json:"buzzMs"`
	Locked     []string `json:"locked,omitempty"`
}

type JudgeData struct {
	PlayerID   string  `json:"playerId,omitempty"`
	PlayerName string  `json:"playerName,omitempty"`
	Submitted  string  `json:"submitted,omitempty"`
	Correct    bool    `json:"correct"`
	Reference  string  `json:"reference,omitempty"`
	Delta      int     `json:"delta"`
	NewScore   int     `json:"newScore"`
	Confidence float64 `json:"confidence,omitempty"`
	TimedOut   bool    `json:"timedOut,omitempty"`
}

type FinalRoundData struct {
	Stage       string `json:"stage"`
	Category    string `json:"category"`
	Prompt      string `json:"prompt,omitempty"`
	ClueValue   int    `json:"clueValue"`
	TimeLimitMs int64  `json:"timeLimitMs"`
}

type FinalRevealData struct {
	Reference string             `json:"reference"`
	Results   []game.FinalResult `json:"results"`
}

type GameCompleteData struct {
	GameID  string                `json:"gameId"`
	Winners []game.PlayerSnapshot `json:"winners"`
	Players []game.PlayerSnapshot `json:"players"`
}

type NoticeData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type BotAddedData struct {
	GameID   string   `json:"gameId"`
	BotNames []string `json:"botNames"`
	Message  string   `json:"message"`
}

type BotKickedData struct {
	GameID  string `json:"gameId"`
	BotName string `json:"botName"`
	Message string `json:"message"`
}
