package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"STORAGE_BACKEND", "LEDGER_STORAGE_KEY", "LEDGER_REVISION_RETENTION", "NATS_ENABLED", "LLM_PROVIDER_ORDER", "OTEL_ENABLED"} {
		t.Setenv(key, "") // restores the original value on cleanup
		os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
	assert.Equal(t, "steno_ledger_integrated_v1", cfg.Storage.LedgerKey)
	assert.Equal(t, 20, cfg.Storage.RevisionRetention)
	assert.Equal(t, "gemini,ollama", cfg.Ai.ProviderOrder)
	assert.False(t, cfg.App.NatsEnabled)
	assert.False(t, cfg.Otel.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Postgres")
	t.Setenv("LEDGER_REVISION_RETENTION", "5")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("LLM_PROVIDER_ORDER", "ollama")
	t.Setenv("GO_ENV", "production")

	cfg := Load()

	assert.Equal(t, StoragePostgres, cfg.Storage.Backend)
	assert.Equal(t, 5, cfg.Storage.RevisionRetention)
	assert.True(t, cfg.App.NatsEnabled)
	assert.Equal(t, "ollama", cfg.Ai.ProviderOrder)
	assert.True(t, cfg.IsProduction())
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("FLAG_YES", "1")
	t.Setenv("FLAG_BAD", "maybe")

	assert.True(t, getEnvAsBool("FLAG_YES", false))
	assert.True(t, getEnvAsBool("FLAG_BAD", true))
	assert.False(t, getEnvAsBool("FLAG_UNSET_FOR_TEST", false))
}

func TestGetEnv_Fallback(t *testing.T) {
	assert.Equal(t, "steno_ledger_integrated_v1", getEnv("LEDGER_STORAGE_KEY_UNSET_FOR_TEST", "steno_ledger_integrated_v1"))
}
