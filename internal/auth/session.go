package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Session is what is remembered about a signed-in user between requests.
type Session struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Cache keeps sessions keyed by user. Entries expire with their token and
// are removed explicitly on logout.
type Cache interface {
	Get(ctx context.Context, userID uuid.UUID) (*Session, bool, error)
	Set(ctx context.Context, s *Session) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type MemoryCache struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]Session
	now      func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		sessions: make(map[uuid.UUID]Session),
		now:      time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, userID uuid.UUID) (*Session, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[userID]
	if !ok {
		return nil, false, nil
	}

	if !c.now().Before(s.ExpiresAt) {
		delete(c.sessions, userID)
		return nil, false, nil
	}

	return &s, true, nil
}

func (c *MemoryCache) Set(_ context.Context, s *Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sessions[s.UserID] = *s

	return nil
}

func (c *MemoryCache) Delete(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.sessions, userID)

	return nil
}

const sessionKeyPrefix = "ecokpi:session:"

// RedisCache shares sessions between API instances.
type RedisCache struct {
	client redis.UniversalClient
}

func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

func sessionKey(userID uuid.UUID) string {
	return sessionKeyPrefix + userID.String()
}

func (c *RedisCache) Get(ctx context.Context, userID uuid.UUID) (*Session, bool, error) {
	val, err := c.client.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("getting session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, false, fmt.Errorf("decoding session: %w", err)
	}

	return &s, true, nil
}

func (c *RedisCache) Set(ctx context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	buf, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := c.client.Set(ctx, sessionKey(s.UserID), buf, ttl).Err(); err != nil {
		return fmt.Errorf("setting session: %w", err)
	}

	return nil
}

func (c *RedisCache) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	return nil
}
