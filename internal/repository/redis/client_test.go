package redis

import (
	"context"
	"testing"
	"time"

	"github.com/Rrens/storefront-assistant/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptions(t *testing.T) {
	opts := newOptions(config.RedisConfig{Host: "cache.local", Port: 6380, Password: "pw", DB: 2})

	assert.Equal(t, "cache.local:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, clientName, opts.ClientName)
	assert.Equal(t, 4, opts.PoolSize)
}

func TestNewClient_UnreachableFailsFast(t *testing.T) {
	start := time.Now()
	_, err := NewClient(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping 127.0.0.1:1")
	assert.Less(t, time.Since(start), pingTimeout+2*time.Second)
}

func TestSessionStore_ClearCountsOnlyPrefixedKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	other := NewSessionStore(store.client, store.prefix+"other:")
	require.NoError(t, other.Set(ctx, "token", "keep"))
	t.Cleanup(func() { other.Clear(ctx) })

	require.NoError(t, store.Set(ctx, "token", "abc"))
	removed, err := store.client.deleteMatching(ctx, store.prefix+"token")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	val, ok, err := other.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "keep", val)
}
