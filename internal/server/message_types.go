package server

// Note: Game events (game_state, judge, etc.) originate in
// internal/game/events.go and are forwarded as WebSocket messages

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
// These are used for client-server communication protocol
const (
	// Client to server messages
	MessageTypeAuth        MessageType = "auth"
	MessageTypeJoinGame    MessageType = "join_game"
	MessageTypeLeaveGame   MessageType = "leave_game"
	MessageTypeListGames   MessageType = "list_games"
	MessageTypeSelectCell  MessageType = "select_cell"
	MessageTypeBuzz        MessageType = "buzz"
	MessageTypeAnswer      MessageType = "submit_answer"
	MessageTypeWager       MessageType = "daily_double_wager"
	MessageTypeFinalWager  MessageType = "final_wager"
	MessageTypeFinalAnswer MessageType = "final_answer"
	MessageTypeAddBot      MessageType = "add_bot"
	MessageTypeKickBot     MessageType = "kick_bot"

	// Server to client messages
	MessageTypeAuthResponse MessageType = "auth_response"
	MessageTypeGameJoined   MessageType = "game_joined"
	MessageTypeGameLeft     MessageType = "game_left"
	MessageTypeGameList     MessageType = "game_list"
	MessageTypeGameState    MessageType = "game_state"
	MessageTypeClueReveal   MessageType = "clue_reveal"
	MessageTypeBuzzResult   MessageType = "buzz_result"
	MessageTypeJudge        MessageType = "judge"
	MessageTypeFinalRound   MessageType = "final_round"
	MessageTypeFinalReveal  MessageType = "final_reveal"
	MessageTypeGameComplete MessageType = "game_complete"
	MessageTypeNotice       MessageType = "notice"
	MessageTypeBotAdded     MessageType = "bot_added"
	MessageTypeBotKicked    MessageType = "bot_kicked"
	MessageTypeError        MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
