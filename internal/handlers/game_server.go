// internal/handlers/game_server.go
package handlers

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/overflow-online/overflow-server/internal/game"
)

// outMessage is one outgoing frame: {"event": name, "data": payload}.
type outMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Client is one live websocket connection. Its ID doubles as the player's
// opaque identity everywhere in the engine.
type Client struct {
	ID string

	out    chan outMessage
	cancel context.CancelFunc

	mu    sync.Mutex
	lobby string // lobby code this connection joined, empty until create/join
}

// Write queues a frame non-blockingly; a full or closed queue drops the
// frame rather than stalling the engine.
func (c *Client) Write(msg outMessage) {
	select {
	case c.out <- msg:
	default:
	}
}

// setLobby records the room this connection belongs to.
func (c *Client) setLobby(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lobby = code
}

// Lobby returns the room this connection belongs to.
func (c *Client) Lobby() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lobby
}

// GameServer owns the live connections and routes engine events to them.
type GameServer struct {
	Coordinator *game.Coordinator
	Logger      *logrus.Logger

	mu      sync.Mutex
	clients map[string]*Client            // playerID -> connection
	rooms   map[string]map[string]*Client // lobby code -> playerID -> connection
}

func NewGameServer(coord *game.Coordinator, logger *logrus.Logger) *GameServer {
	return &GameServer{
		Coordinator: coord,
		Logger:      logger,
		clients:     make(map[string]*Client),
		rooms:       make(map[string]map[string]*Client),
	}
}

// Register adds a freshly accepted connection.
func (s *GameServer) Register(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ID] = c
}

// Unregister drops the connection and its room entry, and cancels the
// connection's context so its pumps wind down.
func (s *GameServer) Unregister(c *Client) {
	s.mu.Lock()
	delete(s.clients, c.ID)
	if code := c.Lobby(); code != "" {
		if room, ok := s.rooms[code]; ok {
			delete(room, c.ID)
			if len(room) == 0 {
				delete(s.rooms, code)
			}
		}
	}
	s.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// joinRoom subscribes the connection to its lobby's broadcasts.
func (s *GameServer) joinRoom(code string, c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		room = make(map[string]*Client)
		s.rooms[code] = room
	}
	room[c.ID] = c
	c.setLobby(code)
}

// broadcastRoom fans a frame out to every connection in the room.
func (s *GameServer) broadcastRoom(code string, msg outMessage) {
	s.mu.Lock()
	conns := make([]*Client, 0, len(s.rooms[code]))
	for _, c := range s.rooms[code] {
		conns = append(conns, c)
	}
	s.mu.Unlock()
	for _, c := range conns {
		c.Write(msg)
	}
}

// toPlayer delivers a frame to one player's connection, if present.
func (s *GameServer) toPlayer(playerID string, msg outMessage) {
	s.mu.Lock()
	c, ok := s.clients[playerID]
	s.mu.Unlock()
	if ok {
		c.Write(msg)
	}
}

// deliver routes one engine event queue. Events are delivered in order;
// persistence already happened inside the coordinator before the queue was
// returned.
func (s *GameServer) deliver(c *Client, code string, events []game.Event) {
	for _, ev := range events {
		msg := outMessage{Event: ev.Name, Data: ev.Payload}
		switch ev.Target {
		case game.TargetSender:
			c.Write(msg)
		case game.TargetRoom:
			s.broadcastRoom(code, msg)
		case game.TargetPlayer:
			s.toPlayer(ev.PlayerID, msg)
		}
	}
}

// Dispatch executes one decoded command for the connection. Domain and
// infrastructure failures alike come back to the sender as a structured
// failure response; nothing propagates to the transport as a fault.
func (s *GameServer) Dispatch(ctx context.Context, c *Client, cmd Command) {
	var (
		events []game.Event
		err    error
		code   string
	)

	switch cmd := cmd.(type) {
	case SetNameCmd:
		events, err = s.Coordinator.SetName(ctx, c.ID, cmd.DisplayName)
	case CreateLobbyCmd:
		code = cmd.LobbyCode
		events, err = s.Coordinator.CreateLobby(ctx, code, c.ID)
		if err == nil {
			s.joinRoom(code, c)
		}
	case JoinLobbyCmd:
		code = cmd.LobbyCode
		events, err = s.Coordinator.JoinLobby(ctx, code, c.ID)
		if err == nil {
			s.joinRoom(code, c)
		}
	case GetPlayersCmd:
		code = cmd.LobbyCode
		events, err = s.Coordinator.GetPlayers(ctx, code)
	case KickPlayerCmd:
		code = cmd.LobbyCode
		events, err = s.Coordinator.KickPlayer(ctx, code, cmd.PlayerID)
	case StartGameCmd:
		code = cmd.LobbyCode
		events, err = s.Coordinator.StartGame(ctx, code)
	case GetGameDataCmd:
		code = cmd.LobbyCode
		events, err = s.Coordinator.GetGameData(ctx, code, c.ID)
	case PlayCardCmd:
		code = cmd.LobbyCode
		events, err = s.Coordinator.PlayCard(ctx, code, cmd.PlayerID, cmd.CardIndex)
		if err == nil {
			s.deliver(c, code, events)
			s.advanceTurn(ctx, c, code, cmd.PlayerID)
			return
		}
	case DrawCardsCmd:
		code = cmd.LobbyCode
		events, err = s.Coordinator.DrawCards(ctx, code, cmd.PlayerID, cmd.CardsToDraw)
		if err == nil {
			s.deliver(c, code, events)
			s.advanceTurn(ctx, c, code, cmd.PlayerID)
			return
		}
	}

	if err != nil {
		c.Write(s.failureFrame(cmd, err))
		return
	}
	s.deliver(c, code, events)
}

// advanceTurn hands the action to the next player once a play or draw has
// fully persisted.
func (s *GameServer) advanceTurn(ctx context.Context, c *Client, code, playerID string) {
	events, err := s.Coordinator.AdvanceTurn(ctx, code, playerID)
	if err != nil {
		s.Logger.WithError(err).WithField("lobby", code).Error("turn advancement failed")
		return
	}
	s.deliver(c, code, events)
}

// HandleDisconnect runs the engine's disconnect cleanup for a closed
// connection and broadcasts whatever it returns to the connection's room.
func (s *GameServer) HandleDisconnect(ctx context.Context, c *Client) {
	code := c.Lobby()
	events, err := s.Coordinator.Disconnect(ctx, c.ID, code)
	if err != nil {
		s.Logger.WithError(err).WithField("player", c.ID).Error("disconnect cleanup failed")
	}
	if code != "" {
		s.deliver(c, code, events)
	}
	s.Unregister(c)
}

// failureFrame shapes any command error into the {result:false, message}
// response for that command.
func (s *GameServer) failureFrame(cmd Command, err error) outMessage {
	ev := game.FailureEvent(s.Logger, cmd.responseName(), err)
	return outMessage{Event: ev.Name, Data: ev.Payload}
}
