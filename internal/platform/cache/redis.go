package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	perr "assistify/internal/platform/errors"
)

// Redis is a Cache on a shared redis; Take uses GETDEL so only one replica can claim a key
type Redis struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedis wraps an existing client; prefix namespaces every key
func NewRedis(rdb redis.UniversalClient, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) key(k string) string { return r.prefix + k }

// Put implements Cache with SET NX
func (r *Redis) Put(ctx context.Context, key string, val []byte, ttl time.Duration) (bool, error) {
	ok, err := r.rdb.SetNX(ctx, r.key(key), val, ttl).Result()
	if err != nil {
		return false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "redis setnx")
	}
	return ok, nil
}

// Get implements Cache
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	return hit(b, err, "redis get")
}

// Take implements Cache with GETDEL
func (r *Redis) Take(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.rdb.GetDel(ctx, r.key(key)).Bytes()
	return hit(b, err, "redis getdel")
}

// Delete implements Cache
func (r *Redis) Delete(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Del(ctx, r.key(key)).Result()
	if err != nil {
		return false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "redis del")
	}
	return n > 0, nil
}

func hit(b []byte, err error, op string) ([]byte, bool, error) {
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s", op)
	}
	return b, true, nil
}
