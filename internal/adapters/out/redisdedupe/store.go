// Package redisdedupe implements the notification dedupe index on Redis.
// SET NX with a TTL gives the atomic claim-once semantics the dispatcher
// needs across replicas.
package redisdedupe

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "notif:dedupe:"

// Store implements ports.DedupeStore on a Redis client.
type Store struct {
	client *redis.Client
}

// NewStore creates a dedupe store over the given client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Reserve atomically claims a key for the TTL. Returns true when this caller
// made the claim, false when the key was already reserved by an earlier call.
func (s *Store) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, keyPrefix+key, 1, ttl).Result()
}
