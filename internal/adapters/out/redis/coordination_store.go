// Package redis implements the coordination store on a Redis backend. The
// sweep's cross-process gate lives here, so the compare-and-swap must be a
// single server-side operation.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// casScript swaps a key's value only when it currently holds ARGV[1]. An
// absent key counts as holding the empty string. ARGV[3] is the TTL in
// milliseconds; zero means no expiry.
const casScript = `
local current = redis.call('GET', KEYS[1])
if current == false then
	current = ''
end
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`

// CoordinationStore implements ports.CoordinationStore on a Redis client.
type CoordinationStore struct {
	client *redis.Client
	cas    *redis.Script
}

// NewCoordinationStore creates a coordination store backed by the given client.
func NewCoordinationStore(client *redis.Client) *CoordinationStore {
	return &CoordinationStore{
		client: client,
		cas:    redis.NewScript(casScript),
	}
}

// Get returns the value for a key; found is false when the key is absent or
// expired.
func (s *CoordinationStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}

	return value, true, nil
}

// Set writes a key. A zero ttl means the key does not expire.
func (s *CoordinationStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// CompareAndSwap writes newValue only when the key currently holds oldValue.
// An absent key matches an empty oldValue.
func (s *CoordinationStore) CompareAndSwap(
	ctx context.Context, key, oldValue, newValue string, ttl time.Duration,
) (bool, error) {
	swapped, err := s.cas.Run(ctx, s.client,
		[]string{key}, oldValue, newValue, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}

	return swapped == 1, nil
}
