package redis

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/findmyfood/internal/db"
)

// exec runs cmd and tags any failure with op.
func (s *Store) exec(ctx context.Context, op string, cmd rueidis.Completed) error {
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: op, Err: err}
	}
	return nil
}

// Get returns db.ErrKeyNotFound for missing or expired keys.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).AsBytes()
	switch {
	case err == nil:
		return data, nil
	case rueidis.IsRedisNil(err):
		return nil, db.ErrKeyNotFound
	default:
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores value with EX seconds. A non-positive ttl stores without expiry.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	set := s.client.B().Set().Key(key).Value(rueidis.BinaryString(value))
	if ttl <= 0 {
		return s.exec(ctx, db.OpSet, set.Build())
	}
	return s.exec(ctx, db.OpSet, set.Ex(ttl).Build())
}

// Del is a no-op for missing keys.
func (s *Store) Del(ctx context.Context, key string) error {
	return s.exec(ctx, db.OpDel, s.client.B().Del().Key(key).Build())
}

// IncrBy creates the counter at zero when absent.
func (s *Store) IncrBy(ctx context.Context, key string, val int64) error {
	return s.exec(ctx, db.OpIncrBy, s.client.B().Incrby().Key(key).Increment(val).Build())
}

// Expire sets a TTL in whole seconds. With nx it only applies to keys that have none (EXPIRE NX),
// so repeated budget writes keep the first retention window.
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error {
	expire := s.client.B().Expire().Key(key).Seconds(int64(ttl / time.Second))
	if nx {
		return s.exec(ctx, db.OpExpire, expire.Nx().Build())
	}
	return s.exec(ctx, db.OpExpire, expire.Build())
}
