package booking

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

// SessionStore persists booking sessions between visitor requests
type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// AcquireSubmitLock returns false when a submit or toggle of the session holds the lock
	AcquireSubmitLock(ctx context.Context, id uuid.UUID) (bool, error)
	ReleaseSubmitLock(ctx context.Context, id uuid.UUID) error
}

// redisClient is the subset of *redis.Client the session store needs
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisSessionStore struct {
	client  redisClient
	ttl     time.Duration
	lockTTL time.Duration
}

// NewSessionStore returns a Redis-backed store, or an in-process one when client is nil
func NewSessionStore(client *redis.Client, ttl, lockTTL time.Duration) SessionStore {
	if client == nil {
		return NewMemorySessionStore(ttl, lockTTL)
	}
	return &redisSessionStore{client: client, ttl: ttl, lockTTL: lockTTL}
}

func sessionKey(id uuid.UUID) string {
	return fmt.Sprintf("booking_session:%s", id)
}

func submitLockKey(id uuid.UUID) string {
	return fmt.Sprintf("booking_session:%s:submit", id)
}

func (s *redisSessionStore) Save(ctx context.Context, sess *Session) error {
	sess.ExpiresAt = time.Now().Add(s.ttl).UTC()
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(sess.ID), data, s.ttl).Err()
}

func (s *redisSessionStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	val, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

func (s *redisSessionStore) AcquireSubmitLock(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.client.SetNX(ctx, submitLockKey(id), "1", s.lockTTL).Result()
}

func (s *redisSessionStore) ReleaseSubmitLock(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, submitLockKey(id)).Err()
}

// MemorySessionStore keeps sessions in process memory.
// Used when Redis is not configured; sessions do not survive restarts or span replicas.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	lockTTL  time.Duration
	sessions map[uuid.UUID]memoryEntry
	locks    map[uuid.UUID]time.Time
	now      func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemorySessionStore(ttl, lockTTL time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		lockTTL:  lockTTL,
		sessions: make(map[uuid.UUID]memoryEntry),
		locks:    make(map[uuid.UUID]time.Time),
		now:      time.Now,
	}
}

func (m *MemorySessionStore) Save(ctx context.Context, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	sess.ExpiresAt = now.Add(m.ttl).UTC()
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	m.sessions[sess.ID] = memoryEntry{data: data, expiresAt: sess.ExpiresAt}
	m.sweep(now)
	return nil
}

func (m *MemorySessionStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok || !m.now().Before(entry.expiresAt) {
		delete(m.sessions, id)
		return nil, ErrSessionNotFound
	}
	var sess Session
	if err := json.Unmarshal(entry.data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemorySessionStore) AcquireSubmitLock(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if until, held := m.locks[id]; held && now.Before(until) {
		return false, nil
	}
	m.locks[id] = now.Add(m.lockTTL)
	return true, nil
}

func (m *MemorySessionStore) ReleaseSubmitLock(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, id)
	return nil
}

// sweep drops expired entries; mu must be held
func (m *MemorySessionStore) sweep(now time.Time) {
	for id, e := range m.sessions {
		if !now.Before(e.expiresAt) {
			delete(m.sessions, id)
		}
	}
	for id, until := range m.locks {
		if !now.Before(until) {
			delete(m.locks, id)
		}
	}
}
