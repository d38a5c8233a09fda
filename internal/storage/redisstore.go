package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces the snapshot keys so the store can share a redis
// database with other applications.
const keyPrefix = "ridetogether:"

// RedisStore keeps snapshots in redis. It implements the same whole-snapshot
// contract as FileStore; values never expire.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects and verifies the server with a short ping. Callers
// should fall back to another backend when this fails; snapshot storage is
// best effort by design.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (r *RedisStore) Write(ctx context.Context, key string, data []byte) error {
	return r.client.Set(ctx, keyPrefix+key, data, 0).Err()
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, keyPrefix+key).Err()
}

// Close releases the underlying redis connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
