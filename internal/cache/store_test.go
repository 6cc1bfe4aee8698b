package cache

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactory builds a fresh store plus a function that moves its clock forward.
type storeFactory func(t *testing.T) (Store, func(time.Duration))

func memoryFactory(t *testing.T) (Store, func(time.Duration)) {
	var (
		mu  sync.Mutex
		now = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	)
	store := NewMemoryStoreWithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	})
	return store, func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}
}

func redisFactory(t *testing.T) (Store, func(time.Duration)) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb), mr.FastForward
}

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": memoryFactory,
		"redis":  redisFactory,
	}
}

func TestStore_PutGetForget(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store, _ := factory(t)

			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Put(ctx, "k", []byte("v1"), time.Minute))
			got, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), got)

			require.NoError(t, store.Forget(ctx, "k"))
			_, err = store.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)

			// forgetting an absent key is not an error
			assert.NoError(t, store.Forget(ctx, "k"))
		})
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store, advance := factory(t)

			require.NoError(t, store.Put(ctx, "k", []byte("v"), 30*time.Minute))

			advance(29 * time.Minute)
			_, err := store.Get(ctx, "k")
			require.NoError(t, err)

			// re-put resets the window from now
			require.NoError(t, store.Put(ctx, "k", []byte("v"), 30*time.Minute))
			advance(29 * time.Minute)
			_, err = store.Get(ctx, "k")
			require.NoError(t, err)

			advance(2 * time.Minute)
			_, err = store.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_Increment(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store, advance := factory(t)

			for want := int64(1); want <= 3; want++ {
				got, err := store.Increment(ctx, "counter", time.Hour)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}

			// expiry resets the counter
			advance(2 * time.Hour)
			got, err := store.Increment(ctx, "counter", time.Hour)
			require.NoError(t, err)
			assert.Equal(t, int64(1), got)
		})
	}
}

func TestStore_IncrementConcurrent(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store, _ := factory(t)

			const callers = 50
			results := make([]int64, callers)
			var wg sync.WaitGroup
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					v, err := store.Increment(ctx, "counter", time.Hour)
					assert.NoError(t, err)
					results[i] = v
				}(i)
			}
			wg.Wait()

			sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
			for i, v := range results {
				assert.Equal(t, int64(i+1), v)
			}
		})
	}
}

func TestStore_ScanPrefix(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store, advance := factory(t)

			require.NoError(t, store.Put(ctx, "presence:w1:a", []byte("a"), time.Hour))
			require.NoError(t, store.Put(ctx, "presence:w1:b", []byte("b"), time.Minute))
			require.NoError(t, store.Put(ctx, "presence:w2:c", []byte("c"), time.Hour))

			values, err := store.ScanPrefix(ctx, "presence:w1:")
			require.NoError(t, err)
			assert.ElementsMatch(t, [][]byte{[]byte("a"), []byte("b")}, values)

			keys, err := store.Keys(ctx, "presence:")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"presence:w1:a", "presence:w1:b", "presence:w2:c"}, keys)

			advance(2 * time.Minute)
			values, err = store.ScanPrefix(ctx, "presence:w1:")
			require.NoError(t, err)
			assert.Equal(t, [][]byte{[]byte("a")}, values)

			values, err = store.ScanPrefix(ctx, "presence:w9:")
			require.NoError(t, err)
			assert.Empty(t, values)
		})
	}
}

func TestStore_Lists(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store, _ := factory(t)

			items, err := store.ListRange(ctx, "activity")
			require.NoError(t, err)
			assert.Empty(t, items)

			for _, v := range []string{"1", "2", "3", "4"} {
				require.NoError(t, store.ListAppend(ctx, "activity", []byte(v), 3, time.Hour))
			}

			items, err = store.ListRange(ctx, "activity")
			require.NoError(t, err)
			assert.Equal(t, [][]byte{[]byte("2"), []byte("3"), []byte("4")}, items)

			require.NoError(t, store.ListTrim(ctx, "activity", 2))
			items, err = store.ListRange(ctx, "activity")
			require.NoError(t, err)
			assert.Equal(t, [][]byte{[]byte("3"), []byte("4")}, items)
		})
	}
}

func TestRedisStore_UnavailableWrapsError(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	store := NewRedisStore(rdb)

	mr.Close()

	ctx := context.Background()
	_, err := store.Get(ctx, "k")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.False(t, errors.Is(err, ErrNotFound))

	assert.ErrorIs(t, store.Put(ctx, "k", []byte("v"), time.Minute), ErrUnavailable)
	assert.ErrorIs(t, store.Ping(ctx), ErrUnavailable)
}
