package authstate

import (
	"context"
	"testing"
	"time"

	"github.com/Rrens/storefront-assistant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IsAuthenticated(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), nil)

	assert.False(t, m.IsAuthenticated(ctx), "no token stored")

	for _, token := range []string{"x", "not-a-jwt", "eyJhbGciOiJub25lIn0.e30."} {
		require.NoError(t, m.SignIn(ctx, token, nil))
		assert.True(t, m.IsAuthenticated(ctx), "token %q", token)
	}

	require.NoError(t, m.SignOut(ctx))
	assert.False(t, m.IsAuthenticated(ctx))
}

func TestManager_SignInRejectsEmptyToken(t *testing.T) {
	m := NewManager(NewMemoryStore(), nil)
	assert.Error(t, m.SignIn(context.Background(), "", nil))
}

func TestManager_CurrentUser(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), nil)

	user, err := m.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, m.SignIn(ctx, "tok", &domain.User{ID: "u1", Email: "ada@example.com"}))

	user, err = m.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestManager_CurrentUserCorrupt(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, domain.KeyUser, "{not json"))

	_, err := NewManager(store, nil).CurrentUser(ctx)
	assert.Error(t, err)
}

func TestManager_PublishesEvents(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), nil)

	events, unsubscribe := m.Notifier().Subscribe()
	defer unsubscribe()

	require.NoError(t, m.SignIn(ctx, "tok", &domain.User{ID: "u1"}))
	ev := <-events
	assert.Equal(t, EventLogin, ev.Kind)
	assert.Equal(t, "u1", ev.User.ID)

	require.NoError(t, m.SignOut(ctx))
	ev = <-events
	assert.Equal(t, EventLogout, ev.Kind)
}

func TestManager_RecentChatSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), nil)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	_, ok := m.RecentChatSession(ctx, 30*time.Minute)
	assert.False(t, ok)

	require.NoError(t, m.MarkChatSession(ctx, "s1"))

	id, ok := m.RecentChatSession(ctx, 30*time.Minute)
	assert.True(t, ok)
	assert.Equal(t, "s1", id)

	now = now.Add(31 * time.Minute)
	_, ok = m.RecentChatSession(ctx, 30*time.Minute)
	assert.False(t, ok)
}

func TestManager_SignOutClearsChatFlags(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store, nil)

	require.NoError(t, m.SignIn(ctx, "tok", nil))
	require.NoError(t, m.MarkChatSession(ctx, "s1"))
	require.NoError(t, m.SignOut(ctx))

	for _, key := range []string{domain.KeyRecentChatSession, domain.KeyChatSessionID, domain.KeyLastChatTime} {
		_, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}
