package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"postboard/utils"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "postboard:page:"
	clearBatch     = 100
)

// RedisCache shares pages between several server processes
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: redisKeyPrefix,
	}
}

func (r *RedisCache) key(key string) string {
	return r.prefix + key
}

func (r *RedisCache) Get(ctx context.Context, key string) (Entry, bool) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.Logger.WithError(err).WithField("key", key).Warn("page cache read failed")
		}
		return Entry{}, false
	}
	entry := Entry{}
	if err = json.Unmarshal(data, &entry); err != nil {
		utils.Logger.WithError(err).WithField("key", key).Warn("page cache entry is corrupted")
		return Entry{}, false
	}
	return entry, true
}

func (r *RedisCache) Set(ctx context.Context, key string, entry Entry, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err = r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		utils.Logger.WithError(err).WithField("key", key).Warn("page cache write failed")
	}
}

func (r *RedisCache) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		utils.Logger.WithError(err).WithField("key", key).Warn("page cache delete failed")
	}
}

// Clear removes every page written by this cache, other keys in the database are left alone
func (r *RedisCache) Clear(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", clearBatch).Iterator()
	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == clearBatch {
			r.del(ctx, keys)
			keys = keys[:0]
		}
	}
	if len(keys) > 0 {
		r.del(ctx, keys)
	}
	if err := iter.Err(); err != nil {
		utils.Logger.WithError(err).Warn("page cache clear failed")
	}
}

func (r *RedisCache) del(ctx context.Context, keys []string) {
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		utils.Logger.WithError(err).WithField("keys", len(keys)).Warn("page cache clear failed")
	}
}
