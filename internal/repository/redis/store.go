package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/storefront-assistant/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SessionStore keeps client storage keys in Redis under a shared prefix,
// so several terminals can share one signed-in state.
type SessionStore struct {
	client *Client
	prefix string
}

var _ domain.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a new Redis-backed session store
func NewSessionStore(client *Client, prefix string) *SessionStore {
	return &SessionStore{client: client, prefix: prefix}
}

func (s *SessionStore) key(k string) string {
	return s.prefix + k
}

// Get returns the value stored under key
func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.rdb.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores value under key without expiry
func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (s *SessionStore) Delete(ctx context.Context, key string) error {
	if err := s.client.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Clear removes every key under the store prefix
func (s *SessionStore) Clear(ctx context.Context) error {
	removed, err := s.client.deleteMatching(ctx, s.prefix+"*")
	if err != nil {
		return err
	}
	log.Debug().Int("keys", removed).Str("prefix", s.prefix).Msg("Cleared session store")
	return nil
}
