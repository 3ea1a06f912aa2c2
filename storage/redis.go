package storage

import (
	"context"

	"github.com/pkg/errors"
	redis "github.com/redis/go-redis/v9"
)

// Redis stores keys in a redis database, optionally under a prefix such as "cart:<device>:".
type Redis struct {
	rdb    *redis.Client
	prefix string
}

func NewRedis(rdb *redis.Client, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

// DialRedis connects to addr and checks the connection with a ping.
func DialRedis(ctx context.Context, addr string, db int, prefix string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, errors.Wrapf(err, "ping redis %s", addr)
	}
	return NewRedis(rdb, prefix), nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.prefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "redis get %s", key)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return errors.Wrapf(r.rdb.Set(ctx, r.prefix+key, value, 0).Err(), "redis set %s", key)
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return errors.Wrapf(r.rdb.Del(ctx, r.prefix+key).Err(), "redis del %s", key)
}

func (r *Redis) Close() error { return r.rdb.Close() }
