// internal/game/hands.go
package game

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/redis/go-redis/v9"

	"github.com/overflow-online/overflow-server/internal/models"
)

// HandStore keeps each player's ordered hand for one lobby.
type HandStore struct {
	rdb *redis.Client

	// pick chooses a catalog index for each dealt card. Swapped out in tests
	// for deterministic deals.
	pick func(n int) int
}

func NewHandStore(rdb *redis.Client) *HandStore {
	return &HandStore{rdb: rdb, pick: rand.IntN}
}

// Sample draws n card ids uniformly with replacement from the catalog.
// Each card is an independent draw, so duplicates within and across hands
// are expected. Pure sampling, nothing is written.
func (h *HandStore) Sample(n int, cards []models.Card) ([]string, error) {
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: card catalog is empty", ErrDataIntegrity)
	}
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, cards[h.pick(len(cards))].ID)
	}
	return ids, nil
}

// stageDeal queues the RPush for a sampled hand on the caller's pipeline.
func (h *HandStore) stageDeal(ctx context.Context, pipe redis.Pipeliner, code, playerID string, ids []string) {
	if len(ids) == 0 {
		return
	}
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	pipe.RPush(ctx, handKey(code, playerID), args...)
}

// Deal samples n cards and appends them to the player's hand in one store
// command. Returns the dealt card ids in order.
func (h *HandStore) Deal(ctx context.Context, code, playerID string, n int, cards []models.Card) ([]string, error) {
	ids, err := h.Sample(n, cards)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	if err := h.rdb.RPush(ctx, handKey(code, playerID), args...).Err(); err != nil {
		return nil, storeErr("deal cards", err)
	}
	return ids, nil
}

// Get returns the player's hand in order.
func (h *HandStore) Get(ctx context.Context, code, playerID string) ([]string, error) {
	hand, err := h.rdb.LRange(ctx, handKey(code, playerID), 0, -1).Result()
	if err != nil {
		return nil, storeErr("read hand", err)
	}
	return hand, nil
}

// Count returns the hand length.
func (h *HandStore) Count(ctx context.Context, code, playerID string) (int, error) {
	n, err := h.rdb.LLen(ctx, handKey(code, playerID)).Result()
	if err != nil {
		return 0, storeErr("count hand", err)
	}
	return int(n), nil
}

// PlanRemoval reads the hand and splits out the card at index without
// touching the store. Callers hold the lobby lock across the read and the
// eventual overwrite. Returns the card id and the remaining hand.
func (h *HandStore) PlanRemoval(ctx context.Context, code, playerID string, index int) (string, []string, error) {
	hand, err := h.Get(ctx, code, playerID)
	if err != nil {
		return "", nil, err
	}
	if index < 0 || index >= len(hand) {
		return "", nil, notFound("Card index out of range")
	}
	cardID := hand[index]
	rest := make([]string, 0, len(hand)-1)
	rest = append(rest, hand[:index]...)
	rest = append(rest, hand[index+1:]...)
	return cardID, rest, nil
}

// stageOverwrite queues a full hand rewrite on the caller's pipeline. The
// store has no splice primitive, so the remainder replaces the whole list.
func (h *HandStore) stageOverwrite(ctx context.Context, pipe redis.Pipeliner, code, playerID string, rest []string) {
	pipe.Del(ctx, handKey(code, playerID))
	if len(rest) > 0 {
		args := make([]interface{}, len(rest))
		for i, id := range rest {
			args[i] = id
		}
		pipe.RPush(ctx, handKey(code, playerID), args...)
	}
}

// RemoveAt pops the card at index, preserving the relative order of the rest,
// committing the overwrite in one transaction.
func (h *HandStore) RemoveAt(ctx context.Context, code, playerID string, index int) (string, []string, error) {
	cardID, rest, err := h.PlanRemoval(ctx, code, playerID, index)
	if err != nil {
		return "", nil, err
	}
	pipe := h.rdb.TxPipeline()
	h.stageOverwrite(ctx, pipe, code, playerID, rest)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", nil, storeErr("overwrite hand", err)
	}
	return cardID, rest, nil
}

// Delete drops the hand key entirely.
func (h *HandStore) Delete(ctx context.Context, code, playerID string) error {
	if err := h.rdb.Del(ctx, handKey(code, playerID)).Err(); err != nil {
		return storeErr("delete hand", err)
	}
	return nil
}
