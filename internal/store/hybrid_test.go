package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dgraph-io/badger/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHybridStore_Set_And_Get(t *testing.T) {
	// Setup Mock Redis
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := NewHybridStore(Options{RedisAddr: mr.Addr(), InMemory: true}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	payload := []byte(`{"id":"1","username":"Администратор"}`)

	err = store.Set(ctx, "user:abc", payload)
	require.NoError(t, err)

	// Redis mirror holds the same bytes
	val, err := mr.Get("user:abc")
	require.NoError(t, err)
	assert.Equal(t, string(payload), val)

	// Badger holds the durable copy
	err = store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:abc"))
		if err != nil {
			return err
		}
		got, _ := item.ValueCopy(nil)
		assert.Equal(t, payload, got)
		return nil
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, "user:abc")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestHybridStore_Get_BackfillsRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := NewHybridStore(Options{RedisAddr: mr.Addr(), InMemory: true}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "user:xyz", []byte("v1")))

	// Simulate an evicted mirror entry
	mr.Del("user:xyz")
	assert.False(t, mr.Exists("user:xyz"))

	got, err := store.Get(ctx, "user:xyz")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)
	assert.True(t, mr.Exists("user:xyz"), "Get should back-fill the redis mirror")
}

func TestHybridStore_Delete(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := NewHybridStore(Options{RedisAddr: mr.Addr(), InMemory: true}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "user:gone", []byte("v")))
	require.NoError(t, store.Delete(ctx, "user:gone"))

	assert.False(t, mr.Exists("user:gone"))
	_, err = store.Get(ctx, "user:gone")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting twice is fine
	assert.NoError(t, store.Delete(ctx, "user:gone"))
}

func TestHybridStore_BadgerOnly(t *testing.T) {
	store, err := NewHybridStore(Options{BadgerPath: t.TempDir()}, nil)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestHybridStore_RedisOnly(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := NewHybridStore(Options{RedisAddr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestNewHybridStore_NoBackend(t *testing.T) {
	_, err := NewHybridStore(Options{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNoBackend)
}

func TestNewHybridStore_RedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewHybridStore(Options{RedisAddr: addr, InMemory: true}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

// refuseSet fails every Redis SET.
type refuseSet struct{}

func (refuseSet) DialHook(next redis.DialHook) redis.DialHook { return next }

func (refuseSet) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "set" {
			err := errors.New("set refused")
			cmd.SetErr(err)
			return err
		}
		return next(ctx, cmd)
	}
}

func (refuseSet) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestHybridStore_Set_MirrorFailureServesBadger(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := NewHybridStore(Options{RedisAddr: mr.Addr(), InMemory: true}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "user:abc", []byte("v1")))
	require.True(t, mr.Exists("user:abc"))

	store.rdb.AddHook(refuseSet{})
	require.NoError(t, store.Set(ctx, "user:abc", []byte("v2")))
	assert.False(t, mr.Exists("user:abc"), "old mirror entry must not survive")

	got, err := store.Get(ctx, "user:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestHybridStore_Set_RedisDownKeepsOldValue(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := NewHybridStore(Options{RedisAddr: mr.Addr(), InMemory: true}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "user:abc", []byte("v1")))

	mr.SetError("ERR unavailable")
	assert.Error(t, store.Set(ctx, "user:abc", []byte("v2")))
	mr.SetError("")

	// Nothing changed, so both copies still agree.
	got, err := store.Get(ctx, "user:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)
}
