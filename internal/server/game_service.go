package server

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/triviaforbots/internal/bot"
	"github.com/lox/triviaforbots/internal/game"
)

// GameRoom is one trivia game hosted by the server. The room ID is the
// stable wire-level address; the game core mints a fresh internal game ID
// each time it resets to the lobby.
type GameRoom struct {
	ID       string
	Name     string
	game     *game.Game
	pack     *game.Pack
	cfg      game.Config
	bots     map[string]*bot.Bot // bot name -> Bot
	logger   *log.Logger
	eventSub *RoomEventSubscriber
}

// RoomEventSubscriber forwards game events to connected clients
type RoomEventSubscriber struct {
	room   *GameRoom
	server *Server
	logger *log.Logger
}

// OnEvent implements the game.EventSubscriber interface
func (res *RoomEventSubscriber) OnEvent(event game.GameEvent) {
	res.logger.Debug("Processing game event", "type", event.EventType(), "room", res.room.ID)

	switch e := event.(type) {
	case game.GameStateEvent:
		res.broadcast(MessageTypeGameState, e.Snapshot)
	case game.ClueRevealEvent:
		res.broadcast(MessageTypeClueReveal, ClueRevealData{
			Clue:      e.Clue,
			MaxWager:  e.MaxWager,
			LockoutMs: e.Lockout.Milliseconds(),
			WindowMs:  e.Window.Milliseconds(),
		})
	case game.BuzzResultEvent:
		res.broadcast(MessageTypeBuzzResult, BuzzResultData{
			WinnerID:   e.WinnerID,
			WinnerName: e.WinnerName,
			BuzzMs:     e.BuzzTime.Milliseconds(),
			Locked:     e.Locked,
		})
	case game.JudgeEvent:
		res.broadcast(MessageTypeJudge, JudgeData{
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
			Submitted:  e.Submitted,
			Correct:    e.Correct,
			Reference:  e.Reference,
			Delta:      e.Delta,
			NewScore:   e.NewScore,
			Confidence: e.Confidence,
			TimedOut:   e.TimedOut,
		})
	case game.FinalRoundEvent:
		res.broadcast(MessageTypeFinalRound, FinalRoundData{
			Stage:       e.Stage,
			Category:    e.Category,
			Prompt:      e.Prompt,
			ClueValue:   e.ClueValue,
			TimeLimitMs: e.TimeLimit.Milliseconds(),
		})
	case game.FinalRevealEvent:
		res.broadcast(MessageTypeFinalReveal, FinalRevealData{
			Reference: e.Reference,
			Results:   e.Results,
		})
	case game.GameCompleteEvent:
		res.broadcast(MessageTypeGameComplete, GameCompleteData{
			GameID:  e.GameID,
			Winners: e.Winners,
			Players: e.Players,
		})
	case game.NoticeEvent:
		res.sendNotice(e)
	}
}

func (res *RoomEventSubscriber) broadcast(msgType MessageType, data interface{}) {
	msg, err := NewMessage(msgType, data)
	if err != nil {
		res.logger.Error("Failed to create message", "type", msgType, "error", err)
		return
	}
	res.server.BroadcastToGame(res.room.ID, msg)
}

// sendNotice delivers a rejection to one player only. The target may be a
// bot with no connection; that is not an error.
func (res *RoomEventSubscriber) sendNotice(e game.NoticeEvent) {
	msg, err := NewMessage(MessageTypeNotice, NoticeData{
		Code:    e.Code,
		Message: e.Message,
	})
	if err != nil {
		res.logger.Error("Failed to create notice message", "error", err)
		return
	}
	_ = res.server.SendToPlayer(e.PlayerID, msg) // Ignore unreachable players
}

// GameService manages the trivia game rooms
type GameService struct {
	rooms    map[string]*GameRoom // roomID -> GameRoom
	server   *Server
	recorder game.Recorder
	logger   *log.Logger
	mu       sync.RWMutex
}

// NewGameService creates a new game service. The recorder may be nil when
// stats persistence is disabled.
func NewGameService(server *Server, recorder game.Recorder, logger *log.Logger) *GameService {
	return &GameService{
		rooms:    make(map[string]*GameRoom),
		server:   server,
		recorder: recorder,
		logger:   logger.WithPrefix("game-service"),
	}
}

// CreateRoom creates a new game room hosting one game
func (gs *GameService) CreateRoom(name string, cfg game.Config, pk *game.Pack) (*GameRoom, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if _, exists := gs.rooms[name]; exists {
		return nil, fmt.Errorf("room already exists: %s", name)
	}

	room := &GameRoom{
		ID:     name,
		Name:   name,
		pack:   pk,
		cfg:    cfg,
		bots:   make(map[string]*bot.Bot),
		logger: gs.logger.WithPrefix("room").With("id", name),
	}

	var opts []game.Option
	if gs.recorder != nil {
		opts = append(opts, game.WithRecorder(gs.recorder))
	}
	room.game = game.New(cfg, pk, room.logger, opts...)

	room.eventSub = &RoomEventSubscriber{
		room:   room,
		server: gs.server,
		logger: room.logger.WithPrefix("events"),
	}
	room.game.Bus().Subscribe(room.eventSub)

	gs.rooms[name] = room
	gs.logger.Info("Created new room", "id", name, "pack", pk.Title)

	return room, nil
}

// GetRoom returns a room by ID
func (gs *GameService) GetRoom(roomID string) *GameRoom {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.rooms[roomID]
}

// ListGames returns all available game rooms
func (gs *GameService) ListGames() []GameInfo {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	var games []GameInfo
	for _, room := range gs.rooms {
		games = append(games, GameInfo{
			ID:          room.ID,
			Name:        room.Name,
			PackTitle:   room.pack.Title,
			PlayerCount: len(room.game.Players()),
			MaxPlayers:  room.cfg.MaxPlayers,
			Phase:       room.game.Phase().String(),
		})
	}

	return games
}

// JoinGame adds a human player to a room
func (gs *GameService) JoinGame(roomID, playerName string) (*game.Player, error) {
	gs.mu.RLock()
	room := gs.rooms[roomID]
	gs.mu.RUnlock()
	if room == nil {
		return nil, fmt.Errorf("game not found: %s", roomID)
	}

	player, err := room.game.AddPlayer(playerName, game.Human)
	if err != nil {
		return nil, err
	}

	room.logger.Info("Player joined game", "player", playerName, "players", len(room.game.Players()))
	return player, nil
}

// LeaveGame removes a player from a room
func (gs *GameService) LeaveGame(roomID, playerID string) error {
	gs.mu.RLock()
	room := gs.rooms[roomID]
	gs.mu.RUnlock()
	if room == nil {
		return fmt.Errorf("game not found: %s", roomID)
	}

	room.game.RemovePlayer(playerID)
	room.logger.Info("Player left game", "player", playerID, "remaining", len(room.game.Players()))
	return nil
}

// GamePlayers returns the public roster of a room
func (gs *GameService) GamePlayers(roomID string) []game.PlayerSnapshot {
	gs.mu.RLock()
	room := gs.rooms[roomID]
	gs.mu.RUnlock()
	if room == nil {
		return nil
	}
	return room.game.Snapshot().Players
}

// HandleGameAction routes a gameplay action into a room's game core.
// Legality is judged there; illegal actions come back to the sender as
// notice events.
func (gs *GameService) HandleGameAction(roomID, playerID string, action game.Action) error {
	gs.mu.RLock()
	room := gs.rooms[roomID]
	gs.mu.RUnlock()
	if room == nil {
		return fmt.Errorf("game not found: %s", roomID)
	}

	room.game.HandleAction(playerID, action)
	return nil
}

// botNames are handed out round-robin as bots join a room.
var botNames = []string{"Ada", "Blaise", "Curie", "Darwin", "Euler", "Fermi", "Grace", "Hopper"}

// AddBots creates count bots with the given strategy and joins them to
// the room. Unknown strategies fall back to "steady".
func (gs *GameService) AddBots(roomID, strategy string, count int) ([]string, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	room := gs.rooms[roomID]
	if room == nil {
		return nil, fmt.Errorf("game not found: %s", roomID)
	}
	if count <= 0 {
		count = 1
	}
	if strategy == "" {
		strategy = "steady"
	}

	var names []string
	for i := 0; i < count; i++ {
		name := gs.nextBotName(room)
		b := bot.New(bot.Preset(name, strategy), room.game, room.pack, room.logger)
		if err := b.Join(); err != nil {
			return names, err
		}
		room.bots[name] = b
		names = append(names, name)
	}

	room.logger.Info("Bots added to game", "strategy", strategy, "names", names)
	return names, nil
}

// AddConfiguredBot joins one bot with explicit settings, as declared in
// the server config file.
func (gs *GameService) AddConfiguredBot(roomID string, bc bot.Config) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	room := gs.rooms[roomID]
	if room == nil {
		return fmt.Errorf("game not found: %s", roomID)
	}

	b := bot.New(bc, room.game, room.pack, room.logger)
	if err := b.Join(); err != nil {
		return err
	}
	room.bots[bc.Name] = b
	return nil
}

// KickBot removes a bot from a room
func (gs *GameService) KickBot(roomID, botName string) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	room := gs.rooms[roomID]
	if room == nil {
		return fmt.Errorf("game not found: %s", roomID)
	}

	b := room.bots[botName]
	if b == nil {
		return fmt.Errorf("bot not found: %s", botName)
	}

	room.game.Bus().Unsubscribe(b)
	for _, p := range room.game.Players() {
		if p.Name == botName {
			room.game.RemovePlayer(p.ID)
			break
		}
	}
	delete(room.bots, botName)

	room.logger.Info("Bot removed from game", "bot", botName)
	return nil
}

// nextBotName returns the first roster name not already seated in the room.
func (gs *GameService) nextBotName(room *GameRoom) string {
	taken := make(map[string]bool)
	for _, p := range room.game.Players() {
		taken[p.Name] = true
	}
	for _, name := range botNames {
		if !taken[name] {
			return name
		}
	}
	return fmt.Sprintf("Bot-%d", len(room.game.Players())+1)
}
