// internal/game/turns_test.go
package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnRotation(t *testing.T) {
	var seq TurnSequencer
	members := []string{"H1", "P2", "P3"}

	next, err := seq.Next(members, "H1")
	require.NoError(t, err)
	assert.Equal(t, "P2", next)

	next, err = seq.Next(members, "P2")
	require.NoError(t, err)
	assert.Equal(t, "P3", next)

	// Wraps around to the first member.
	next, err = seq.Next(members, "P3")
	require.NoError(t, err)
	assert.Equal(t, "H1", next)
}

func TestTurnSoloMember(t *testing.T) {
	var seq TurnSequencer
	next, err := seq.Next([]string{"H1"}, "H1")
	require.NoError(t, err)
	assert.Equal(t, "H1", next)
}

func TestTurnCurrentNotMember(t *testing.T) {
	var seq TurnSequencer
	_, err := seq.Next([]string{"H1", "P2"}, "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTurnEmptyMembership(t *testing.T) {
	var seq TurnSequencer
	_, err := seq.Next(nil, "H1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}
