// internal/handlers/commands_test.go
package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStringPayloadCommands(t *testing.T) {
	tests := []struct {
		frame string
		want  Command
	}{
		{`{"event":"setName","data":"Alice"}`, SetNameCmd{DisplayName: "Alice"}},
		{`{"event":"createLobby","data":"ABCD"}`, CreateLobbyCmd{LobbyCode: "ABCD"}},
		{`{"event":"joinLobby","data":"ABCD"}`, JoinLobbyCmd{LobbyCode: "ABCD"}},
		{`{"event":"getPlayers","data":"ABCD"}`, GetPlayersCmd{LobbyCode: "ABCD"}},
		{`{"event":"startGame","data":"ABCD"}`, StartGameCmd{LobbyCode: "ABCD"}},
		{`{"event":"getGameData","data":"ABCD"}`, GetGameDataCmd{LobbyCode: "ABCD"}},
	}
	for _, tc := range tests {
		cmd, err := decodeCommand([]byte(tc.frame))
		require.NoError(t, err, tc.frame)
		assert.Equal(t, tc.want, cmd)
	}
}

func TestDecodeStructPayloadCommands(t *testing.T) {
	cmd, err := decodeCommand([]byte(`{"event":"kickPlayer","data":{"lobbyCode":"ABCD","playerId":"P2"}}`))
	require.NoError(t, err)
	assert.Equal(t, KickPlayerCmd{LobbyCode: "ABCD", PlayerID: "P2"}, cmd)

	cmd, err = decodeCommand([]byte(`{"event":"playCard","data":{"lobbyCode":"ABCD","playerId":"P2","cardIndex":3}}`))
	require.NoError(t, err)
	assert.Equal(t, PlayCardCmd{LobbyCode: "ABCD", PlayerID: "P2", CardIndex: 3}, cmd)

	cmd, err = decodeCommand([]byte(`{"event":"drawCards","data":{"lobbyCode":"ABCD","cardsToDraw":2,"playerId":"P2"}}`))
	require.NoError(t, err)
	assert.Equal(t, DrawCardsCmd{LobbyCode: "ABCD", CardsToDraw: 2, PlayerID: "P2"}, cmd)
}

func TestDecodeUnknownEventFailsClosed(t *testing.T) {
	_, err := decodeCommand([]byte(`{"event":"hackTheGibson","data":"x"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event")
}

func TestDecodeMalformedFrame(t *testing.T) {
	_, err := decodeCommand([]byte(`not json`))
	require.Error(t, err)

	_, err = decodeCommand([]byte(`{"event":"playCard","data":"not an object"}`))
	require.Error(t, err)
}

func TestDecodeMissingData(t *testing.T) {
	// A frame with no data still decodes; the command carries zero values
	// and fails validation downstream, not here.
	cmd, err := decodeCommand([]byte(`{"event":"createLobby"}`))
	require.NoError(t, err)
	assert.Equal(t, CreateLobbyCmd{}, cmd)
}

func TestEveryCommandHasResponseName(t *testing.T) {
	cmds := []Command{
		SetNameCmd{}, CreateLobbyCmd{}, JoinLobbyCmd{}, GetPlayersCmd{},
		KickPlayerCmd{}, StartGameCmd{}, GetGameDataCmd{}, PlayCardCmd{}, DrawCardsCmd{},
	}
	for _, cmd := range cmds {
		assert.NotEmpty(t, cmd.responseName())
	}
}
