// Package session provides Valkey-backed storage for editing sessions.
// Sessions are stored as JSON in Valkey with automatic TTL expiry, so an
// abandoned editor tab costs nothing once the TTL passes.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sitebuilder/internal/editor"
)

const (
	// DefaultTTL is how long an idle session lives in Valkey before automatic expiry.
	DefaultTTL = 2 * time.Hour

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "editor:"
)

// Store keeps editing sessions in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

var _ editor.SessionStore = (*Store)(nil)

// NewStore creates a session store backed by the given Valkey client. A
// zero ttl means DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

// Get retrieves a session. Returns nil if it does not exist or expired.
func (s *Store) Get(ctx context.Context, id string) (*editor.Session, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data editor.Session
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &data, nil
}

// Save writes the session and resets its TTL.
func (s *Store) Save(ctx context.Context, data *editor.Session) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+data.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

// TTL returns the remaining lifetime of a session, or 0 when it is gone.
func (s *Store) TTL(ctx context.Context, id string) (time.Duration, error) {
	d, err := s.client.TTL(ctx, keyPrefix+id).Result()
	if err != nil {
		return 0, fmt.Errorf("session ttl: %w", err)
	}
	if d < 0 {
		return 0, nil
	}
	return d, nil
}
