// internal/game/engine_test.go
package game

import (
	"context"
	"io"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/overflow-online/overflow-server/internal/catalog"
	"github.com/overflow-online/overflow-server/internal/models"
)

// newTestEngine spins up an in-process redis and a coordinator wired to the
// built-in static deck. Deals are made deterministic by fixing the card pick.
func newTestEngine(t *testing.T) (*Coordinator, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	coord := NewCoordinator(rdb, catalog.New(catalog.StaticLoader{}), logger)
	return coord, mr
}

// fixPick pins every deal to the card with the given value. The static deck
// indexes cards 0..8 by value, so the index doubles as the card id.
func fixPick(c *Coordinator, value int) {
	c.Hands.pick = func(int) int { return value }
}

func staticDeck(t *testing.T) []models.Card {
	t.Helper()
	cards, err := catalog.StaticLoader{}.FindAll(context.Background())
	if err != nil {
		t.Fatalf("static deck: %v", err)
	}
	return cards
}

// setBoardScore writes the board score directly, bypassing the engine.
func setBoardScore(t *testing.T, mr *miniredis.Miniredis, code string, score int) {
	t.Helper()
	mr.HSet(gameKey(code), fieldScore, strconv.Itoa(score))
}

// setTurn hands the turn to a player directly, bypassing the engine.
func setTurn(t *testing.T, mr *miniredis.Miniredis, code, playerID string) {
	t.Helper()
	mr.HSet(gameKey(code), fieldTurn, playerID)
}

// eventNames flattens an event queue for order assertions.
func eventNames(events []Event) []string {
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = ev.Name
	}
	return names
}
