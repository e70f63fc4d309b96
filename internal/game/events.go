// internal/game/events.go
package game

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/overflow-online/overflow-server/internal/models"
)

// EventTarget selects who receives an event.
type EventTarget int

const (
	// TargetSender delivers only to the connection that issued the command.
	TargetSender EventTarget = iota
	// TargetRoom broadcasts to every connection in the lobby's room.
	TargetRoom
	// TargetPlayer delivers to one specific player's connection.
	TargetPlayer
)

// Event is one ordered entry in a command's broadcast queue. The coordinator
// only returns events describing state that has already been persisted.
type Event struct {
	Name     string
	Target   EventTarget
	PlayerID string // set when Target == TargetPlayer
	Payload  any
}

// Event names on the wire.
const (
	EvtSetNameResponse     = "setNameResponse"
	EvtCreateLobbyResponse = "createLobbyResponse"
	EvtJoinLobbyResponse   = "joinLobbyResponse"
	EvtPlayerJoin          = "playerJoin"
	EvtGetPlayersResponse  = "getPlayersResponse"
	EvtKick                = "kickEvent"
	EvtGameStart           = "gameStartEvent"
	EvtStartGameResponse   = "startGameResponse"
	EvtGetGameDataResponse = "getGameDataResponse"
	EvtActionGiven         = "actionGiven"
	EvtCardPlayed          = "cardPlayed"
	EvtPlayerScored        = "playerScored"
	EvtBoardUpdated        = "boardUpdated"
	EvtCardsDrawn          = "cardsDrawn"
)

// Result is the generic {result, message} response body.
type Result struct {
	Result  bool   `json:"result"`
	Message string `json:"message"`
}

// PlayerJoinPayload announces a new member to the lobby room.
type PlayerJoinPayload struct {
	DisplayName string `json:"displayName"`
	PlayerID    string `json:"playerId"`
}

// PlayersPayload carries an ordered member list.
type PlayersPayload struct {
	Players []models.PlayerInfo `json:"players"`
}

// KickPayload names the removed player.
type KickPayload struct {
	PlayerID string `json:"playerId"`
}

// GameDataPayload is the private game snapshot for one player.
type GameDataPayload struct {
	Players []models.PlayerInfo `json:"players"`
	Hand    []string            `json:"hand"`
}

// CardPlayedPayload announces a resolved play.
type CardPlayedPayload struct {
	PlayerID string `json:"playerId"`
	CardID   string `json:"cardId"`
	HandSize int    `json:"handSize"`
}

// BoardUpdatedPayload carries the post-play board score.
type BoardUpdatedPayload struct {
	NewScore int `json:"newScore"`
}

// CardsDrawnPayload announces a draw without revealing the drawn cards.
type CardsDrawnPayload struct {
	PlayerID   string `json:"playerId"`
	CardsDrawn int    `json:"cardsDrawn"`
	HandSize   int    `json:"handSize"`
}

func response(name string, result bool, msg string) Event {
	return Event{Name: name, Target: TargetSender, Payload: Result{Result: result, Message: msg}}
}

func broadcast(name string, payload any) Event {
	return Event{Name: name, Target: TargetRoom, Payload: payload}
}

func direct(playerID, name string, payload any) Event {
	return Event{Name: name, Target: TargetPlayer, PlayerID: playerID, Payload: payload}
}

// FailureEvent converts a command error into the structured failure response
// for responseName. Domain errors keep their message; infrastructure faults
// are logged and downgraded to a generic message so no raw fault crosses
// into the transport layer.
func FailureEvent(logger *logrus.Logger, responseName string, err error) Event {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return response(responseName, false, cmdErr.Message)
	}
	if logger != nil {
		logger.WithError(err).WithField("response", responseName).Error("command failed")
	}
	return response(responseName, false, "There was an error")
}
