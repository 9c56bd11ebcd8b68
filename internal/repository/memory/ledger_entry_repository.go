package memory

import (
	"context"

	"project-ledger-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// LedgerEntryRepository keeps entries for the life of the process. It backs the
// ledger when no external storage is configured, and the tests.
type LedgerEntryRepository struct {
	cache *cache.Cache
}

func NewLedgerEntryRepository() *LedgerEntryRepository {
	// entries never expire, so the janitor is disabled
	c := cache.New(cache.NoExpiration, 0)
	return &LedgerEntryRepository{
		cache: c,
	}
}

var _ contract.LedgerEntryRepository = (*LedgerEntryRepository)(nil)

func (r *LedgerEntryRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if x, found := r.cache.Get(key); found {
		return x.(string), true, nil
	}
	return "", false, nil
}

func (r *LedgerEntryRepository) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.cache.Set(key, value, cache.NoExpiration)
	return nil
}

func (r *LedgerEntryRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.cache.Delete(key)
	return nil
}
