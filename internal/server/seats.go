package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/gravitas-games/nectar/internal/config"
)

// SeatStore records which seats of a session have been handed out and
// which seat tokens were revoked.
type SeatStore interface {
	// Claim reserves seat for tokenID. It reports false if the seat is taken.
	Claim(ctx context.Context, sessionID string, seat int, tokenID string, ttl time.Duration) (bool, error)
	// Release frees a seat.
	Release(ctx context.Context, sessionID string, seat int) error
	// Revoke blacklists a token until ttl passes.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	// IsRevoked reports whether tokenID was revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Close() error
}

// NewSeatStore picks redis when an address is configured, memory otherwise.
func NewSeatStore(ctx context.Context, cfg config.RedisConfig) (SeatStore, error) {
	if cfg.Address == "" {
		return NewMemorySeatStore(), nil
	}
	return NewRedisSeatStore(ctx, cfg)
}

// RedisSeatStore keeps seats and the revocation list in Redis so several
// server processes can share them.
type RedisSeatStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSeatStore connects and pings Redis.
func NewRedisSeatStore(ctx context.Context, cfg config.RedisConfig) (*RedisSeatStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisSeatStore{client: client, prefix: cfg.KeyPrefix}, nil
}

func (s *RedisSeatStore) seatKey(sessionID string, seat int) string {
	return fmt.Sprintf("%sseat:%s:%d", s.prefix, sessionID, seat)
}

func (s *RedisSeatStore) revokedKey(tokenID string) string {
	return s.prefix + "revoked:" + tokenID
}

func (s *RedisSeatStore) Claim(ctx context.Context, sessionID string, seat int, tokenID string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.seatKey(sessionID, seat), tokenID, ttl).Result()
}

func (s *RedisSeatStore) Release(ctx context.Context, sessionID string, seat int) error {
	return s.client.Del(ctx, s.seatKey(sessionID, seat)).Err()
}

func (s *RedisSeatStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, s.revokedKey(tokenID), 1, ttl).Err()
}

func (s *RedisSeatStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisSeatStore) Close() error { return s.client.Close() }

// MemorySeatStore is the single-process SeatStore.
type MemorySeatStore struct {
	mu      sync.Mutex
	seats   map[string]memoryEntry
	revoked map[string]time.Time
	now     func() time.Time
}

type memoryEntry struct {
	tokenID string
	expires time.Time
}

// NewMemorySeatStore creates an empty store.
func NewMemorySeatStore() *MemorySeatStore {
	return &MemorySeatStore{
		seats:   make(map[string]memoryEntry),
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemorySeatStore) Claim(_ context.Context, sessionID string, seat int, tokenID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf("%s:%d", sessionID, seat)
	if e, ok := s.seats[key]; ok && s.now().Before(e.expires) {
		return false, nil
	}
	s.seats[key] = memoryEntry{tokenID: tokenID, expires: s.now().Add(ttl)}
	return true, nil
}

func (s *MemorySeatStore) Release(_ context.Context, sessionID string, seat int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seats, fmt.Sprintf("%s:%d", sessionID, seat))
	return nil
}

func (s *MemorySeatStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = s.now().Add(ttl)
	return nil
}

func (s *MemorySeatStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.revoked[tokenID]
	return ok && s.now().Before(until), nil
}

func (s *MemorySeatStore) Close() error { return nil }
