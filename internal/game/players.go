// internal/game/players.go
package game

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

// PlayerRegistry maps connection identities to display names.
type PlayerRegistry struct {
	rdb *redis.Client
}

func NewPlayerRegistry(rdb *redis.Client) *PlayerRegistry {
	return &PlayerRegistry{rdb: rdb}
}

// SetName stores the display name, overwriting any prior value. A name that
// trims to empty is rejected without mutation.
func (r *PlayerRegistry) SetName(ctx context.Context, playerID, name string) error {
	if strings.TrimSpace(name) == "" {
		return invalidInput("Username cannot be blank")
	}
	if err := r.rdb.Set(ctx, nameKey(playerID), name, 0).Err(); err != nil {
		return storeErr("set display name", err)
	}
	return nil
}

// Name returns the stored display name. The bool distinguishes a missing
// entry from a stored empty string; the two are never conflated.
func (r *PlayerRegistry) Name(ctx context.Context, playerID string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, nameKey(playerID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeErr("get display name", err)
	}
	return v, true, nil
}

// Delete drops the display name mapping.
func (r *PlayerRegistry) Delete(ctx context.Context, playerID string) error {
	if err := r.rdb.Del(ctx, nameKey(playerID)).Err(); err != nil {
		return storeErr("delete display name", err)
	}
	return nil
}
