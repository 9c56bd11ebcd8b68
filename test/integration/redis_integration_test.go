package integration

import (
	"context"
	"os"
	"testing"

	"project-ledger-be/internal/repository/implementation"
	"project-ledger-be/pkg/ledger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLedgerEntryRepository(t *testing.T) {
	_ = godotenv.Load("../../.env")

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}

	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping integration test: redis unreachable: %v", err)
	}

	prefix := "ledger-it:" + uuid.NewString() + ":"
	repo := implementation.NewRedisLedgerEntryRepository(rdb, prefix)
	t.Cleanup(func() { _ = repo.Delete(ctx, ledger.DefaultStorageKey) })

	_, found, err := repo.Get(ctx, ledger.DefaultStorageKey)
	require.NoError(t, err)
	assert.False(t, found)

	store := ledger.NewStore(repo)
	require.NoError(t, store.Load(ctx))
	_, err = store.Restore(ctx, []byte(`{"notebooks":[{"id":"bridge","title":"Bridge"}],"notes":[]}`))
	require.NoError(t, err)
	store.Flush()

	raw, found, err := repo.Get(ctx, ledger.DefaultStorageKey)
	require.NoError(t, err)
	require.True(t, found)

	snap, err := ledger.Deserialize(raw)
	require.NoError(t, err)
	assert.Equal(t, store.Snapshot(), snap)

	stored, err := rdb.Exists(ctx, prefix+ledger.DefaultStorageKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored)
}
