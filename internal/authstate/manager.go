// Package authstate keeps the bearer token, the signed-in user and the
// recent-chat flags in an injected session store, and announces login and
// logout transitions to subscribers.
package authstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Rrens/storefront-assistant/internal/domain"
	"github.com/rs/zerolog/log"
)

// Manager exposes the auth helpers over a session store
type Manager struct {
	store    domain.SessionStore
	notifier *Notifier
	now      func() time.Time
}

// NewManager creates a manager. A nil notifier gets a private one.
func NewManager(store domain.SessionStore, notifier *Notifier) *Manager {
	if notifier == nil {
		notifier = NewNotifier()
	}
	return &Manager{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// Notifier returns the event channel login and logout are published on
func (m *Manager) Notifier() *Notifier {
	return m.notifier
}

// Token returns the stored bearer token, or "" when signed out
func (m *Manager) Token(ctx context.Context) (string, error) {
	token, _, err := m.store.Get(ctx, domain.KeyToken)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}

// IsAuthenticated reports whether a token is stored. The token is not validated.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	token, err := m.Token(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read auth token")
		return false
	}
	return token != ""
}

// CurrentUser returns the stored profile, or nil when none is stored
func (m *Manager) CurrentUser(ctx context.Context) (*domain.User, error) {
	raw, ok, err := m.store.Get(ctx, domain.KeyUser)
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("failed to decode stored user: %w", err)
	}
	return &user, nil
}

// SignIn stores the token and profile and publishes a login event
func (m *Manager) SignIn(ctx context.Context, token string, user *domain.User) error {
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if err := m.store.Set(ctx, domain.KeyToken, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if user != nil {
		if err := m.UpdateUser(ctx, user); err != nil {
			return err
		}
	}

	m.notifier.Publish(Event{Kind: EventLogin, User: user})
	return nil
}

// UpdateUser replaces the stored profile
func (m *Manager) UpdateUser(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := m.store.Set(ctx, domain.KeyUser, string(data)); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

// SignOut removes the token, profile and chat flags and publishes a logout event
func (m *Manager) SignOut(ctx context.Context) error {
	for _, key := range []string{
		domain.KeyToken,
		domain.KeyUser,
		domain.KeyRecentChatSession,
		domain.KeyChatSessionID,
		domain.KeyLastChatTime,
	} {
		if err := m.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}

	m.notifier.Publish(Event{Kind: EventLogout})
	return nil
}

// MarkChatSession records that a chat session was just active
func (m *Manager) MarkChatSession(ctx context.Context, sessionID string) error {
	values := map[string]string{
		domain.KeyRecentChatSession: "true",
		domain.KeyChatSessionID:     sessionID,
		domain.KeyLastChatTime:      m.now().UTC().Format(time.RFC3339),
	}
	for k, v := range values {
		if err := m.store.Set(ctx, k, v); err != nil {
			return fmt.Errorf("failed to store %s: %w", k, err)
		}
	}
	return nil
}

// RecentChatSession reports the remembered session id when the last chat
// happened within window of now
func (m *Manager) RecentChatSession(ctx context.Context, window time.Duration) (string, bool) {
	flag, _, err := m.store.Get(ctx, domain.KeyRecentChatSession)
	if err != nil || flag != "true" {
		return "", false
	}

	sessionID, _, err := m.store.Get(ctx, domain.KeyChatSessionID)
	if err != nil || sessionID == "" {
		return "", false
	}

	raw, _, err := m.store.Get(ctx, domain.KeyLastChatTime)
	if err != nil {
		return "", false
	}
	last, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return "", false
	}

	if m.now().Sub(last) > window {
		return "", false
	}
	return sessionID, true
}
