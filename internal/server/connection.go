package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/triviaforbots/internal/game"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn        *websocket.Conn
	send        chan *Message
	playerName  string
	playerID    string
	gameID      string
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.RWMutex
	closeOnce   sync.Once
	gameService *GameService
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, gameService *GameService) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:        conn,
		send:        make(chan *Message, 256),
		logger:      logger.WithPrefix("conn"),
		ctx:         ctx,
		cancel:      cancel,
		gameService: gameService,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			// Log at debug level to avoid spam during tests
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

// SetName associates this connection with an authenticated player name
func (c *Connection) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerName = name
}

// GetName returns the authenticated player name
func (c *Connection) GetName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerName
}

// SetPlayerID associates this connection with an in-game player ID
func (c *Connection) SetPlayerID(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
}

// GetPlayerID returns the associated in-game player ID
func (c *Connection) GetPlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// SetGame associates this connection with a game
func (c *Connection) SetGame(gameID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameID = gameID
}

// GetGame returns the associated game ID
func (c *Connection) GetGame() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.GetName())

	switch msg.Type {
	case MessageTypeAuth:
		var data AuthData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse auth data")
			return
		}
		c.handleAuth(data)

	case MessageTypeJoinGame:
		var data JoinGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join game data")
			return
		}
		c.handleJoinGame(data)

	case MessageTypeLeaveGame:
		var data LeaveGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse leave game data")
			return
		}
		c.handleLeaveGame(data)

	case MessageTypeListGames:
		c.handleListGames()

	case MessageTypeSelectCell:
		var data SelectCellData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse select cell data")
			return
		}
		c.dispatchAction(data.GameID, game.SelectCell{Category: data.Category, Index: data.Index})

	case MessageTypeBuzz:
		var data BuzzData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse buzz data")
			return
		}
		c.dispatchAction(data.GameID, game.Buzz{ClientTimestamp: data.ClientTimestamp})

	case MessageTypeAnswer:
		var data SubmitAnswerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse answer data")
			return
		}
		c.dispatchAction(data.GameID, game.SubmitAnswer{Text: data.Text, ChoiceIndex: data.ChoiceIndex})

	case MessageTypeWager:
		var data WagerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse wager data")
			return
		}
		c.dispatchAction(data.GameID, game.SubmitWager{Amount: data.Amount})

	case MessageTypeFinalWager:
		var data FinalWagerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse final wager data")
			return
		}
		c.dispatchAction(data.GameID, game.SubmitFinalWager{Amount: data.Amount})

	case MessageTypeFinalAnswer:
		var data FinalAnswerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse final answer data")
			return
		}
		c.dispatchAction(data.GameID, game.SubmitFinalAnswer{Text: data.Text})

	case MessageTypeAddBot:
		var data AddBotData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse add bot data")
			return
		}
		c.handleAddBot(data)

	case MessageTypeKickBot:
		var data KickBotData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse kick bot data")
			return
		}
		c.handleKickBot(data)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg) // Ignore send errors during error handling
}

func (c *Connection) handleAuth(data AuthData) {
	c.logger.Info("Auth request", "playerName", data.PlayerName)

	// Simple authentication - just accept any player name
	if data.PlayerName == "" {
		c.sendError("invalid_auth", "Player name required")
		return
	}

	c.SetName(data.PlayerName)

	response, _ := NewMessage(MessageTypeAuthResponse, AuthResponseData{
		Success:    true,
		PlayerName: data.PlayerName,
	})
	_ = c.SendMessage(response) // Ignore send errors
}

func (c *Connection) handleJoinGame(data JoinGameData) {
	c.logger.Info("Join game request", "gameId", data.GameID, "player", c.GetName())

	if c.gameService == nil {
		c.sendError("service_unavailable", "Game service not available")
		return
	}

	playerName := c.GetName()
	if playerName == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}

	player, err := c.gameService.JoinGame(data.GameID, playerName)
	if err != nil {
		c.sendError("join_failed", err.Error())
		return
	}

	// Game and player associations route broadcasts and notices here
	c.SetGame(data.GameID)
	c.SetPlayerID(player.ID)

	response, _ := NewMessage(MessageTypeGameJoined, GameJoinedData{
		GameID:   data.GameID,
		PlayerID: player.ID,
		Players:  c.gameService.GamePlayers(data.GameID),
	})
	_ = c.SendMessage(response) // Ignore send errors
}

func (c *Connection) handleLeaveGame(data LeaveGameData) {
	c.logger.Info("Leave game request", "gameId", data.GameID, "player", c.GetName())

	if c.gameService == nil {
		c.sendError("service_unavailable", "Game service not available")
		return
	}

	playerID := c.GetPlayerID()
	if playerID == "" {
		c.sendError("not_joined", "Not in a game")
		return
	}

	err := c.gameService.LeaveGame(data.GameID, playerID)
	if err != nil {
		c.sendError("leave_failed", err.Error())
		return
	}

	// Clear game association
	c.SetGame("")
	c.SetPlayerID("")

	response, _ := NewMessage(MessageTypeGameLeft, GameLeftData{GameID: data.GameID})
	_ = c.SendMessage(response) // Ignore send errors
}

func (c *Connection) handleListGames() {
	c.logger.Info("List games request", "player", c.GetName())

	if c.gameService == nil {
		c.sendError("service_unavailable", "Game service not available")
		return
	}

	games := c.gameService.ListGames()
	response, _ := NewMessage(MessageTypeGameList, GameListData{
		Games: games,
	})
	_ = c.SendMessage(response) // Ignore send errors
}

// dispatchAction routes a gameplay action into the game core. Rejections
// come back asynchronously as notice events; no synchronous response is
// needed.
func (c *Connection) dispatchAction(gameID string, action game.Action) {
	if c.gameService == nil {
		c.sendError("service_unavailable", "Game service not available")
		return
	}

	playerID := c.GetPlayerID()
	if playerID == "" {
		c.sendError("not_joined", "Must join a game first")
		return
	}
	if gameID == "" {
		gameID = c.GetGame()
	}

	if err := c.gameService.HandleGameAction(gameID, playerID, action); err != nil {
		c.sendError("action_failed", err.Error())
	}
}

func (c *Connection) handleAddBot(data AddBotData) {
	c.logger.Info("Add bot request", "gameId", data.GameID, "player", c.GetName())

	if c.gameService == nil {
		c.sendError("service_unavailable", "Game service not available")
		return
	}

	names, err := c.gameService.AddBots(data.GameID, data.Strategy, data.Count)
	if err != nil {
		c.sendError("add_bot_failed", err.Error())
		return
	}

	response, _ := NewMessage(MessageTypeBotAdded, BotAddedData{
		GameID:   data.GameID,
		BotNames: names,
		Message:  "Bots added",
	})
	_ = c.SendMessage(response) // Ignore send errors
}

func (c *Connection) handleKickBot(data KickBotData) {
	c.logger.Info("Kick bot request", "gameId", data.GameID, "botName", data.BotName, "player", c.GetName())

	if c.gameService == nil {
		c.sendError("service_unavailable", "Game service not available")
		return
	}

	if err := c.gameService.KickBot(data.GameID, data.BotName); err != nil {
		c.sendError("kick_bot_failed", err.Error())
		return
	}

	response, _ := NewMessage(MessageTypeBotKicked, BotKickedData{
		GameID:  data.GameID,
		BotName: data.BotName,
		Message: "Bot removed",
	})
	_ = c.SendMessage(response) // Ignore send errors
}
