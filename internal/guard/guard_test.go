package guard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisGuard(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return NewRedis(client, ttl, zap.NewNop()), mr
}

func guards(t *testing.T) map[string]Guard {
	g, _ := newRedisGuard(t, time.Minute)
	return map[string]Guard{"local": NewLocal(), "redis": g}
}

func TestGuard_ExclusiveUntilReleased(t *testing.T) {
	for name, g := range guards(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			release, err := g.Acquire(ctx, "user@test.com")
			require.NoError(t, err)

			_, err = g.Acquire(ctx, "user@test.com")
			assert.ErrorIs(t, err, ErrBusy)

			other, err := g.Acquire(ctx, "other@test.com")
			require.NoError(t, err, "keys are independent")
			other()

			release()
			release() // second call is a no-op

			again, err := g.Acquire(ctx, "user@test.com")
			require.NoError(t, err)
			again()
		})
	}
}

func TestGuard_ConcurrentAcquireHasOneWinner(t *testing.T) {
	for name, g := range guards(t) {
		t.Run(name, func(t *testing.T) {
			var winners int32
			var wg sync.WaitGroup
			start := make(chan struct{})
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					if _, err := g.Acquire(context.Background(), "race@test.com"); err == nil {
						atomic.AddInt32(&winners, 1)
					}
				}()
			}
			close(start)
			wg.Wait()
			assert.Equal(t, int32(1), winners)
		})
	}
}

func TestRedisGuard_ExpiredLockIsNotReleasedByOldHolder(t *testing.T) {
	g, mr := newRedisGuard(t, time.Second)
	ctx := context.Background()

	staleRelease, err := g.Acquire(ctx, "user@test.com")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	freshRelease, err := g.Acquire(ctx, "user@test.com")
	require.NoError(t, err, "lock expired, a new holder may take it")

	staleRelease()
	assert.True(t, mr.Exists(redisKeyPrefix+"user@test.com"), "stale release must not drop the new holder's lock")

	freshRelease()
	assert.False(t, mr.Exists(redisKeyPrefix+"user@test.com"))
}
