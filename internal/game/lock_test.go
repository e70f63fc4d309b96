// internal/game/lock_test.go
package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockMutualExclusion(t *testing.T) {
	coord, _ := newTestEngine(t)

	release, err := coord.lock.Acquire(context.Background(), "ABCD")
	require.NoError(t, err)

	// A second acquirer waits out its deadline and fails retryable.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = coord.lock.Acquire(ctx, "ABCD")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))

	release()

	// After release the lease is free again.
	release2, err := coord.lock.Acquire(context.Background(), "ABCD")
	require.NoError(t, err)
	release2()
}

func TestLockIndependentLobbies(t *testing.T) {
	coord, _ := newTestEngine(t)

	releaseA, err := coord.lock.Acquire(context.Background(), "AAAA")
	require.NoError(t, err)
	defer releaseA()

	// Holding one lobby's lease never blocks another lobby.
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	releaseB, err := coord.lock.Acquire(ctx, "BBBB")
	require.NoError(t, err)
	releaseB()
}

func TestLockLeaseExpires(t *testing.T) {
	coord, mr := newTestEngine(t)

	_, err := coord.lock.Acquire(context.Background(), "ABCD")
	require.NoError(t, err)

	// A crashed holder never releases; the TTL frees the lobby.
	mr.FastForward(lockTTL + time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	release, err := coord.lock.Acquire(ctx, "ABCD")
	require.NoError(t, err)
	release()
}

func TestStaleReleaseKeepsNewLease(t *testing.T) {
	coord, mr := newTestEngine(t)

	releaseOld, err := coord.lock.Acquire(context.Background(), "ABCD")
	require.NoError(t, err)

	mr.FastForward(lockTTL + time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	releaseNew, err := coord.lock.Acquire(ctx, "ABCD")
	require.NoError(t, err)

	// The expired holder's release must not delete the new lease.
	releaseOld()
	assert.True(t, mr.Exists(lockKey("ABCD")))
	releaseNew()
}
