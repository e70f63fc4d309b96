// internal/game/directory_test.go
package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLobbyWritesAllKeys(t *testing.T) {
	coord, mr := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, coord.Directory.Create(ctx, "ABCD", "H1"))

	exists, err := coord.Directory.Exists(ctx, "ABCD")
	require.NoError(t, err)
	assert.True(t, exists)

	members, err := coord.Directory.MemberIDs(ctx, "ABCD")
	require.NoError(t, err)
	assert.Equal(t, []string{"H1"}, members)

	host, err := coord.Directory.Host(ctx, "ABCD")
	require.NoError(t, err)
	assert.Equal(t, "H1", host)

	backRef, err := mr.Get(hostKey("H1"))
	require.NoError(t, err)
	assert.Equal(t, "ABCD", backRef)

	active, err := coord.Directory.Active(ctx, "ABCD")
	require.NoError(t, err)
	assert.False(t, active, "a fresh lobby is Forming, not Active")
}

func TestCreateLobbyBlankCode(t *testing.T) {
	coord, _ := newTestEngine(t)
	ctx := context.Background()

	err := coord.Directory.Create(ctx, "   ", "H1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "Lobby Code cannot be empty", cmdErr.Message)
}

func TestCreateLobbyCodeInUse(t *testing.T) {
	coord, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, coord.Directory.Create(ctx, "ABCD", "H1"))

	err := coord.Directory.Create(ctx, "ABCD", "H2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "Lobby Code in use", cmdErr.Message)

	// The pre-existing lobby record is untouched.
	host, err := coord.Directory.Host(ctx, "ABCD")
	require.NoError(t, err)
	assert.Equal(t, "H1", host)
	members, err := coord.Directory.MemberIDs(ctx, "ABCD")
	require.NoError(t, err)
	assert.Equal(t, []string{"H1"}, members)
}

func TestJoinLobbyMissing(t *testing.T) {
	coord, mr := newTestEngine(t)
	ctx := context.Background()

	err := coord.Directory.Join(ctx, "NOPE", "P2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "Lobby does not exist", cmdErr.Message)

	// Membership untouched.
	assert.False(t, mr.Exists(playersKey("NOPE")))
}

func TestJoinAppendsInOrder(t *testing.T) {
	coord, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, coord.Directory.Create(ctx, "ABCD", "H1"))
	require.NoError(t, coord.Directory.Join(ctx, "ABCD", "P2"))
	require.NoError(t, coord.Directory.Join(ctx, "ABCD", "P3"))

	members, err := coord.Directory.MemberIDs(ctx, "ABCD")
	require.NoError(t, err)
	assert.Equal(t, []string{"H1", "P2", "P3"}, members)
}

func TestKickRemovesEveryOccurrence(t *testing.T) {
	coord, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, coord.Directory.Create(ctx, "ABCD", "H1"))
	// Duplicate joins append duplicates.
	require.NoError(t, coord.Directory.Join(ctx, "ABCD", "P2"))
	require.NoError(t, coord.Directory.Join(ctx, "ABCD", "P2"))

	require.NoError(t, coord.Directory.Kick(ctx, "ABCD", "P2"))

	members, err := coord.Directory.MemberIDs(ctx, "ABCD")
	require.NoError(t, err)
	assert.Equal(t, []string{"H1"}, members)
	assert.NotContains(t, members, "P2")

	// Kicking an absent player is a no-op.
	require.NoError(t, coord.Directory.Kick(ctx, "ABCD", "P9"))
}

func TestMembersResolvesDisplayNames(t *testing.T) {
	coord, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, coord.Directory.Create(ctx, "ABCD", "H1"))
	require.NoError(t, coord.Directory.Join(ctx, "ABCD", "P2"))
	require.NoError(t, coord.Registry.SetName(ctx, "H1", "Alice"))

	members, err := coord.Directory.Members(ctx, "ABCD", coord.Registry)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "H1", members[0].PlayerID)
	assert.Equal(t, "Alice", members[0].DisplayName)
	assert.Equal(t, "P2", members[1].PlayerID)
	assert.Equal(t, "", members[1].DisplayName, "unnamed member resolves to empty name")
}
