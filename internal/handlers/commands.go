// internal/handlers/commands.go
package handlers

import (
	"encoding/json"
	"fmt"
)

// Command is the closed set of client-issued commands. Incoming frames are
// {"event": name, "data": payload}; decodeCommand maps each known event name
// to its typed command and rejects everything else, so dispatch is an
// exhaustive type switch rather than a string lookup per handler.
type Command interface {
	isCommand()
	// responseName is the event used for this command's failure response.
	responseName() string
}

// envelope is the raw incoming frame.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type SetNameCmd struct {
	DisplayName string
}

type CreateLobbyCmd struct {
	LobbyCode string
}

type JoinLobbyCmd struct {
	LobbyCode string
}

type GetPlayersCmd struct {
	LobbyCode string
}

type KickPlayerCmd struct {
	LobbyCode string `json:"lobbyCode"`
	PlayerID  string `json:"playerId"`
}

type StartGameCmd struct {
	LobbyCode string
}

type GetGameDataCmd struct {
	LobbyCode string
}

type PlayCardCmd struct {
	LobbyCode string `json:"lobbyCode"`
	PlayerID  string `json:"playerId"`
	CardIndex int    `json:"cardIndex"`
}

type DrawCardsCmd struct {
	LobbyCode   string `json:"lobbyCode"`
	CardsToDraw int    `json:"cardsToDraw"`
	PlayerID    string `json:"playerId"`
}

func (SetNameCmd) isCommand()     {}
func (CreateLobbyCmd) isCommand() {}
func (JoinLobbyCmd) isCommand()   {}
func (GetPlayersCmd) isCommand()  {}
func (KickPlayerCmd) isCommand()  {}
func (StartGameCmd) isCommand()   {}
func (GetGameDataCmd) isCommand() {}
func (PlayCardCmd) isCommand()    {}
func (DrawCardsCmd) isCommand()   {}

func (SetNameCmd) responseName() string     { return "setNameResponse" }
func (CreateLobbyCmd) responseName() string { return "createLobbyResponse" }
func (JoinLobbyCmd) responseName() string   { return "joinLobbyResponse" }
func (GetPlayersCmd) responseName() string  { return "getPlayersResponse" }
func (KickPlayerCmd) responseName() string  { return "kickPlayerResponse" }
func (StartGameCmd) responseName() string   { return "startGameResponse" }
func (GetGameDataCmd) responseName() string { return "getGameDataResponse" }
func (PlayCardCmd) responseName() string    { return "playCardResponse" }
func (DrawCardsCmd) responseName() string   { return "drawCardsResponse" }

// decodeString accepts the protocol's bare-string payloads.
func decodeString(data json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", fmt.Errorf("expected string payload: %w", err)
	}
	return s, nil
}

// decoders maps event names to payload decoders. The table is the single
// place a new command is registered.
var decoders = map[string]func(json.RawMessage) (Command, error){
	"setName": func(d json.RawMessage) (Command, error) {
		s, err := decodeString(d)
		return SetNameCmd{DisplayName: s}, err
	},
	"createLobby": func(d json.RawMessage) (Command, error) {
		s, err := decodeString(d)
		return CreateLobbyCmd{LobbyCode: s}, err
	},
	"joinLobby": func(d json.RawMessage) (Command, error) {
		s, err := decodeString(d)
		return JoinLobbyCmd{LobbyCode: s}, err
	},
	"getPlayers": func(d json.RawMessage) (Command, error) {
		s, err := decodeString(d)
		return GetPlayersCmd{LobbyCode: s}, err
	},
	"kickPlayer": func(d json.RawMessage) (Command, error) {
		var c KickPlayerCmd
		err := json.Unmarshal(d, &c)
		return c, err
	},
	"startGame": func(d json.RawMessage) (Command, error) {
		s, err := decodeString(d)
		return StartGameCmd{LobbyCode: s}, err
	},
	"getGameData": func(d json.RawMessage) (Command, error) {
		s, err := decodeString(d)
		return GetGameDataCmd{LobbyCode: s}, err
	},
	"playCard": func(d json.RawMessage) (Command, error) {
		var c PlayCardCmd
		err := json.Unmarshal(d, &c)
		return c, err
	},
	"drawCards": func(d json.RawMessage) (Command, error) {
		var c DrawCardsCmd
		err := json.Unmarshal(d, &c)
		return c, err
	},
}

// decodeCommand parses one frame into its typed command. Unknown event names
// fail closed.
func decodeCommand(frame []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	decode, ok := decoders[env.Event]
	if !ok {
		return nil, fmt.Errorf("unknown event %q", env.Event)
	}
	data := env.Data
	if len(data) == 0 {
		data = json.RawMessage(`null`)
	}
	cmd, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Event, err)
	}
	return cmd, nil
}
