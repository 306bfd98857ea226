package redis

import (
	"context"
	"net"
	"os"
	"strconv"
	"testing"

	"github.com/Rrens/storefront-assistant/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set - run as integration test")
	}

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err, "REDIS_ADDR must be host:port")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	client, err := NewClient(context.Background(), config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	store := NewSessionStore(client, "test:"+uuid.NewString()+":")
	t.Cleanup(func() { store.Clear(context.Background()) })
	return store
}

func TestSessionStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "token", "abc"))
	val, ok, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", val)

	require.NoError(t, store.Delete(ctx, "token"))
	_, ok, err = store.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_Clear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "token", "abc"))
	require.NoError(t, store.Set(ctx, "user", "{}"))
	require.NoError(t, store.Clear(ctx))

	for _, key := range []string{"token", "user"} {
		_, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}
