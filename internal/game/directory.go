// internal/game/directory.go
package game

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/overflow-online/overflow-server/internal/models"
)

// SessionDirectory owns lobby existence, membership order and host tracking.
type SessionDirectory struct {
	rdb *redis.Client
}

func NewSessionDirectory(rdb *redis.Client) *SessionDirectory {
	return &SessionDirectory{rdb: rdb}
}

// Exists reports whether a lobby record is present for code.
func (d *SessionDirectory) Exists(ctx context.Context, code string) (bool, error) {
	n, err := d.rdb.Exists(ctx, gameKey(code)).Result()
	if err != nil {
		return false, storeErr("check lobby existence", err)
	}
	return n == 1, nil
}

// Create writes the lobby record, the host's membership entry and the host
// back-reference in one pipelined transaction so a mid-batch failure leaves
// no partial lobby visible.
func (d *SessionDirectory) Create(ctx context.Context, code, hostID string) error {
	if strings.TrimSpace(code) == "" {
		return invalidInput("Lobby Code cannot be empty")
	}
	exists, err := d.Exists(ctx, code)
	if err != nil {
		return err
	}
	if exists {
		return conflict("Lobby Code in use")
	}

	pipe := d.rdb.TxPipeline()
	pipe.HSet(ctx, gameKey(code),
		fieldHost, hostID,
		fieldCode, code,
		fieldActive, "0",
		fieldScore, "0",
	)
	pipe.RPush(ctx, playersKey(code), hostID)
	pipe.Set(ctx, hostKey(hostID), code, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr("create lobby", err)
	}
	return nil
}

// Join appends playerID to the membership list. Duplicate joins append
// duplicates; callers must not double-submit.
func (d *SessionDirectory) Join(ctx context.Context, code, playerID string) error {
	if strings.TrimSpace(code) == "" {
		return invalidInput("Lobby Code cannot be empty")
	}
	exists, err := d.Exists(ctx, code)
	if err != nil {
		return err
	}
	if !exists {
		return notFound("Lobby does not exist")
	}
	if err := d.rdb.RPush(ctx, playersKey(code), playerID).Err(); err != nil {
		return storeErr("join lobby", err)
	}
	return nil
}

// Kick removes every occurrence of playerID from the membership list.
// Removing an absent player is a no-op.
func (d *SessionDirectory) Kick(ctx context.Context, code, playerID string) error {
	if err := d.rdb.LRem(ctx, playersKey(code), 0, playerID).Err(); err != nil {
		return storeErr("kick player", err)
	}
	return nil
}

// MemberIDs returns the membership list in insertion (turn) order.
func (d *SessionDirectory) MemberIDs(ctx context.Context, code string) ([]string, error) {
	ids, err := d.rdb.LRange(ctx, playersKey(code), 0, -1).Result()
	if err != nil {
		return nil, storeErr("list members", err)
	}
	return ids, nil
}

// MemberCount returns the membership list length.
func (d *SessionDirectory) MemberCount(ctx context.Context, code string) (int, error) {
	n, err := d.rdb.LLen(ctx, playersKey(code)).Result()
	if err != nil {
		return 0, storeErr("count members", err)
	}
	return int(n), nil
}

// Members resolves every member id through the registry, preserving order.
// Players who never set a name get an empty display name.
func (d *SessionDirectory) Members(ctx context.Context, code string, reg *PlayerRegistry) ([]models.PlayerInfo, error) {
	ids, err := d.MemberIDs(ctx, code)
	if err != nil {
		return nil, err
	}
	members := make([]models.PlayerInfo, 0, len(ids))
	for _, id := range ids {
		name, _, err := reg.Name(ctx, id)
		if err != nil {
			return nil, err
		}
		members = append(members, models.PlayerInfo{PlayerID: id, DisplayName: name})
	}
	return members, nil
}

// Host returns the lobby's host id.
func (d *SessionDirectory) Host(ctx context.Context, code string) (string, error) {
	host, err := d.rdb.HGet(ctx, gameKey(code), fieldHost).Result()
	if err == redis.Nil {
		return "", notFound("Lobby does not exist")
	}
	if err != nil {
		return "", storeErr("get lobby host", err)
	}
	return host, nil
}

// HostedLobby returns the code of the lobby playerID hosts, if any.
func (d *SessionDirectory) HostedLobby(ctx context.Context, playerID string) (string, bool, error) {
	code, err := d.rdb.Get(ctx, hostKey(playerID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeErr("get hosted lobby", err)
	}
	return code, true, nil
}

// Active reports whether the lobby's game has started.
func (d *SessionDirectory) Active(ctx context.Context, code string) (bool, error) {
	v, err := d.rdb.HGet(ctx, gameKey(code), fieldActive).Result()
	if err == redis.Nil {
		return false, notFound("Lobby does not exist")
	}
	if err != nil {
		return false, storeErr("get lobby state", err)
	}
	return v == "1", nil
}

// Activate queues the flip to the active state on the caller's pipeline:
// active flag on, board score reset, first turn to the host.
func (d *SessionDirectory) Activate(ctx context.Context, pipe redis.Pipeliner, code, hostID string) {
	pipe.HSet(ctx, gameKey(code),
		fieldActive, "1",
		fieldScore, "0",
		fieldTurn, hostID,
	)
}

// Turn returns the id of the player currently holding the turn, empty before
// the game starts.
func (d *SessionDirectory) Turn(ctx context.Context, code string) (string, error) {
	v, err := d.rdb.HGet(ctx, gameKey(code), fieldTurn).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", storeErr("get turn holder", err)
	}
	return v, nil
}

// SetTurn persists the turn holder.
func (d *SessionDirectory) SetTurn(ctx context.Context, code, playerID string) error {
	if err := d.rdb.HSet(ctx, gameKey(code), fieldTurn, playerID).Err(); err != nil {
		return storeErr("set turn holder", err)
	}
	return nil
}

// Destroy deletes every key scoped to the lobby: record, membership, score
// hash, each member's hand and the host back-reference. One pipelined batch
// so a partially deleted lobby is never observable.
func (d *SessionDirectory) Destroy(ctx context.Context, code, hostID string, memberIDs []string) error {
	pipe := d.rdb.TxPipeline()
	pipe.Del(ctx, gameKey(code))
	pipe.Del(ctx, playersKey(code))
	pipe.Del(ctx, scoreKey(code))
	pipe.Del(ctx, hostKey(hostID))
	for _, id := range memberIDs {
		pipe.Del(ctx, handKey(code, id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr("destroy lobby", err)
	}
	return nil
}

// RemovePlayer removes one departing player's lobby-scoped state: all
// membership occurrences, their hand and their score entry.
func (d *SessionDirectory) RemovePlayer(ctx context.Context, code, playerID string) error {
	pipe := d.rdb.TxPipeline()
	pipe.LRem(ctx, playersKey(code), 0, playerID)
	pipe.Del(ctx, handKey(code, playerID))
	pipe.HDel(ctx, scoreKey(code), playerID)
	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr("remove player", err)
	}
	return nil
}
