package core

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SecretStoreKey is the well-known key under which the signing secret lives.
const SecretStoreKey = "taskgate:jwt_secret"

// SecretStore is the minimal key-value interface the auth subsystem needs for
// process-durable secrets. Values are written once at startup and read-only
// afterwards.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// NewRedisClient returns a configured go-redis client from URL (e.g., redis://localhost:6379/0).
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("empty redis url")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// RedisSecretStore implements SecretStore on top of go-redis.
type RedisSecretStore struct {
	client *redis.Client
}

func NewRedisSecretStore(client *redis.Client) *RedisSecretStore {
	return &RedisSecretStore{client: client}
}

// Get returns the stored value and whether the key exists.
func (s *RedisSecretStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores the value without expiry; secrets live for the deployment, not a TTL.
func (s *RedisSecretStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}
