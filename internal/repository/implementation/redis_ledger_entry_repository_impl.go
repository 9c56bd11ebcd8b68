package implementation

import (
	"context"
	"errors"

	"project-ledger-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

// RedisLedgerEntryRepositoryImpl keeps entries as plain string keys under a prefix
// so several deployments can share one redis.
type RedisLedgerEntryRepositoryImpl struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisLedgerEntryRepository(rdb *redis.Client, prefix string) contract.LedgerEntryRepository {
	return &RedisLedgerEntryRepositoryImpl{
		rdb:    rdb,
		prefix: prefix,
	}
}

func (r *RedisLedgerEntryRepositoryImpl) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.rdb.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisLedgerEntryRepositoryImpl) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *RedisLedgerEntryRepositoryImpl) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.prefix+key).Err()
}
