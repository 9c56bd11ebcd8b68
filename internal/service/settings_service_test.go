package service

import (
	"context"
	"testing"

	"project-ledger-be/internal/constant"
	"project-ledger-be/internal/dto"
	"project-ledger-be/internal/pkg/logger"
	"project-ledger-be/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_OverrideTakesPrecedence(t *testing.T) {
	entries := memory.NewLedgerEntryRepository()
	svc := NewSettingsService(entries, "env-key-1234", logger.NewNopLogger())
	ctx := context.Background()

	key, err := svc.ResolveGeminiKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "env-key-1234", key)

	status, err := svc.SetAPIKey(ctx, &dto.SetAPIKeyRequest{APIKey: "  user-key-9876 "})
	require.NoError(t, err)
	assert.True(t, status.Configured)
	assert.Equal(t, KeySourceOverride, status.Source)
	assert.Equal(t, "****9876", status.Masked)

	stored, found, err := entries.Get(ctx, constant.APIKeyOverrideKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "user-key-9876", stored)

	key, err = svc.ResolveGeminiKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-key-9876", key)
}

func TestSettingsService_ClearRemovesEntry(t *testing.T) {
	entries := memory.NewLedgerEntryRepository()
	svc := NewSettingsService(entries, "", logger.NewNopLogger())
	ctx := context.Background()

	_, err := svc.SetAPIKey(ctx, &dto.SetAPIKeyRequest{APIKey: "user-key-9876"})
	require.NoError(t, err)

	status, err := svc.ClearAPIKey(ctx)
	require.NoError(t, err)
	assert.False(t, status.Configured)
	assert.Equal(t, KeySourceNone, status.Source)
	assert.Empty(t, status.Masked)

	_, found, err := entries.Get(ctx, constant.APIKeyOverrideKey)
	require.NoError(t, err)
	assert.False(t, found, "the entry is absent, not empty")

	key, err := svc.ResolveGeminiKey(ctx)
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestSettingsService_BlankKeyClearsOverride(t *testing.T) {
	entries := memory.NewLedgerEntryRepository()
	svc := NewSettingsService(entries, "env-key-1234", logger.NewNopLogger())
	ctx := context.Background()

	_, err := svc.SetAPIKey(ctx, &dto.SetAPIKeyRequest{APIKey: "user-key-9876"})
	require.NoError(t, err)

	status, err := svc.SetAPIKey(ctx, &dto.SetAPIKeyRequest{APIKey: "            "})
	require.NoError(t, err)
	assert.Equal(t, KeySourceEnvironment, status.Source)

	_, found, err := entries.Get(ctx, constant.APIKeyOverrideKey)
	require.NoError(t, err)
	assert.False(t, found, "a blank key is never stored")
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "", maskKey(""))
	assert.Equal(t, "****", maskKey("abc"))
	assert.Equal(t, "****defg", maskKey("abcdefg"))
}
