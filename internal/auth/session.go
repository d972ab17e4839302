package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "rollcall:session:"

// Session is the server-side state a cookie token points at. Deleting it
// revokes the session immediately, whatever the token's remaining lifetime.
type Session struct {
	ID       string
	UserID   string
	Username string
	Role     Role
}

// SessionStore is the abstraction over session backends.
type SessionStore interface {
	Create(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// RedisSessionStore keeps sessions as Redis hashes with a TTL.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore builds a store on an existing client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Create stores the session and sets its expiry.
func (s *RedisSessionStore) Create(ctx context.Context, sess Session, ttl time.Duration) error {
	key := sessionKeyPrefix + sess.ID
	fields := map[string]interface{}{
		"user_id":  sess.UserID,
		"username": sess.Username,
		"role":     sess.Role.String(),
	}
	if err := s.client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("expire session: %w", err)
	}
	return nil
}

// Get returns the session or (nil, nil) when it is absent or expired.
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	role, err := ParseRole(fields["role"])
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	return &Session{
		ID:       id,
		UserID:   fields["user_id"],
		Username: fields["username"],
		Role:     role,
	}, nil
}

// Delete removes the session. Deleting an absent session is not an error.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}

// MemorySessionStore is a map-backed store for dev and tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
}

type memorySession struct {
	session Session
	expires time.Time
}

// NewMemorySessionStore creates an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memorySession)}
}

// Create stores the session.
func (s *MemorySessionStore) Create(_ context.Context, sess Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = memorySession{session: sess, expires: time.Now().Add(ttl)}
	return nil
}

// Get returns the session or (nil, nil) when absent or expired.
func (s *MemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expires) {
		delete(s.sessions, id)
		return nil, nil
	}
	sess := entry.session
	return &sess, nil
}

// Delete removes the session.
func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
