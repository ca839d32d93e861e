package cart

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of redis.Client the store uses. Tests swap in
// an in-memory fake.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store persists session carts in Redis with a sliding TTL. The cart's
// lifecycle is bounded by a browsing session: it expires on inactivity and
// is deleted on checkout success.
type Store struct {
	rdb RedisClient
	ttl time.Duration
}

// NewStore creates a cart store around an existing Redis client.
func NewStore(rdb RedisClient, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// NewCartID generates a random 32-hex-char session cart ID.
func NewCartID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func cartKey(id string) string {
	return "cart:" + id
}

// Get loads the cart for id, returning a fresh empty cart when none is
// stored (expired or never created).
func (s *Store) Get(ctx context.Context, id string) (*Cart, error) {
	val, err := s.rdb.Get(ctx, cartKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return New(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart store: get: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(val), &c); err != nil {
		return nil, fmt.Errorf("cart store: decode: %w", err)
	}
	return &c, nil
}

// Save writes the cart back and renews its TTL.
func (s *Store) Save(ctx context.Context, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("cart store: encode: %w", err)
	}
	if err := s.rdb.Set(ctx, cartKey(c.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("cart store: set: %w", err)
	}
	return nil
}

// Delete discards the cart, typically after a successful checkout.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, cartKey(id)).Err(); err != nil {
		return fmt.Errorf("cart store: del: %w", err)
	}
	return nil
}
