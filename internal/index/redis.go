package index

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each domain in a sorted set with every score at zero, so
// Redis orders members lexicographically just like the in-memory index.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// NewRedisStore creates a store whose keys are "<prefix>:<domain>".
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "connexion:index"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(d Domain) string {
	return s.prefix + ":" + string(d)
}

// Load returns the domain members in lexicographic order.
func (s *RedisStore) Load(ctx context.Context, d Domain) ([]string, error) {
	keys, err := s.rdb.ZRangeByLex(ctx, s.key(d), &redis.ZRangeBy{Min: "-", Max: "+"}).Result()
	if err != nil {
		return nil, &StoreError{Domain: d, Message: "ZRANGEBYLEX failed", Cause: err}
	}
	return keys, nil
}

// Save replaces the sorted set inside one MULTI/EXEC transaction.
func (s *RedisStore) Save(ctx context.Context, d Domain, keys []string) error {
	key := s.key(d)
	members := make([]redis.Z, 0, len(keys))
	for _, k := range keys {
		members = append(members, redis.Z{Score: 0, Member: k})
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(members) > 0 {
			pipe.ZAdd(ctx, key, members...)
		}
		return nil
	})
	if err != nil {
		return &StoreError{Domain: d, Message: "replace failed", Cause: err}
	}
	return nil
}
