// internal/game/players_test.go
package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetNameRejectsBlank(t *testing.T) {
	coord, mr := newTestEngine(t)
	ctx := context.Background()

	err := coord.Registry.SetName(ctx, "P1", "  \t ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "Username cannot be blank", cmdErr.Message)

	// No mutation on rejection.
	assert.False(t, mr.Exists(nameKey("P1")))
}

func TestSetNameOverwrites(t *testing.T) {
	coord, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, coord.Registry.SetName(ctx, "P1", "Alice"))
	require.NoError(t, coord.Registry.SetName(ctx, "P1", "Bob"))

	name, ok, err := coord.Registry.Name(ctx, "P1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bob", name)
}

func TestNameAbsentIsNotEmptyString(t *testing.T) {
	coord, _ := newTestEngine(t)
	ctx := context.Background()

	name, ok, err := coord.Registry.Name(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", name)
}
