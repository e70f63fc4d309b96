// internal/game/lock.go
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// lobbyLock serializes compound mutations for one lobby with a short redis
// lease. Locks for different lobbies never contend, so cross-lobby deadlock
// is impossible; within a lobby, acquisition retries until the context
// deadline and then fails with a retryable error instead of blocking.
type lobbyLock struct {
	rdb   *redis.Client
	ttl   time.Duration
	retry time.Duration
}

const (
	lockTTL   = 3 * time.Second
	lockRetry = 25 * time.Millisecond
)

func newLobbyLock(rdb *redis.Client) *lobbyLock {
	return &lobbyLock{rdb: rdb, ttl: lockTTL, retry: lockRetry}
}

// releaseScript deletes the lease only if the caller still owns it, so a
// slow command cannot release a lease that already expired and was re-taken.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Acquire takes the lobby lease, returning a release func. The ctx deadline
// bounds the wait; on timeout the command fails retryable.
func (l *lobbyLock) Acquire(ctx context.Context, code string) (func(), error) {
	token := uuid.NewString()
	key := lockKey(code)
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, storeErr("acquire lobby lock", err)
		}
		if ok {
			return func() {
				relCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				// Best effort; an unreleased lease expires with its TTL.
				_ = releaseScript.Run(relCtx, l.rdb, []string{key}, token).Err()
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: lobby %s is busy", ErrStoreUnavailable, code)
		case <-time.After(l.retry):
		}
	}
}
