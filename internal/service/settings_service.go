package service

import (
	"context"
	"strings"

	"project-ledger-be/internal/constant"
	"project-ledger-be/internal/dto"
	"project-ledger-be/internal/pkg/logger"
	"project-ledger-be/internal/repository/contract"
)

const (
	KeySourceOverride    = "override"
	KeySourceEnvironment = "environment"
	KeySourceNone        = "none"
)

type ISettingsService interface {
	GetAPIKeyStatus(ctx context.Context) (*dto.APIKeyStatusResponse, error)
	SetAPIKey(ctx context.Context, req *dto.SetAPIKeyRequest) (*dto.APIKeyStatusResponse, error)
	ClearAPIKey(ctx context.Context) (*dto.APIKeyStatusResponse, error)
	// ResolveGeminiKey prefers the user override and falls back to the environment key.
	ResolveGeminiKey(ctx context.Context) (string, error)
}

type settingsService struct {
	entries contract.LedgerEntryRepository
	envKey  string
	logger  logger.ILogger
}

func NewSettingsService(entries contract.LedgerEntryRepository, envKey string, log logger.ILogger) ISettingsService {
	return &settingsService{
		entries: entries,
		envKey:  strings.TrimSpace(envKey),
		logger:  log,
	}
}

func (s *settingsService) resolve(ctx context.Context) (string, string, error) {
	override, found, err := s.entries.Get(ctx, constant.APIKeyOverrideKey)
	if err != nil {
		return "", "", err
	}
	if override = strings.TrimSpace(override); found && override != "" {
		return override, KeySourceOverride, nil
	}
	if s.envKey != "" {
		return s.envKey, KeySourceEnvironment, nil
	}
	return "", KeySourceNone, nil
}

func (s *settingsService) ResolveGeminiKey(ctx context.Context) (string, error) {
	key, _, err := s.resolve(ctx)
	return key, err
}

func (s *settingsService) GetAPIKeyStatus(ctx context.Context) (*dto.APIKeyStatusResponse, error) {
	key, source, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.APIKeyStatusResponse{
		Configured: key != "",
		Source:     source,
		Masked:     maskKey(key),
	}, nil
}

// SetAPIKey stores the trimmed key. A key that trims to nothing clears the
// override instead of storing an empty entry.
func (s *settingsService) SetAPIKey(ctx context.Context, req *dto.SetAPIKeyRequest) (*dto.APIKeyStatusResponse, error) {
	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		return s.ClearAPIKey(ctx)
	}
	if err := s.entries.Set(ctx, constant.APIKeyOverrideKey, key); err != nil {
		return nil, err
	}
	s.logger.Info("SETTINGS", "API key override stored", nil)
	return s.GetAPIKeyStatus(ctx)
}

// ClearAPIKey removes the override entry entirely rather than storing an empty value.
func (s *settingsService) ClearAPIKey(ctx context.Context) (*dto.APIKeyStatusResponse, error) {
	if err := s.entries.Delete(ctx, constant.APIKeyOverrideKey); err != nil {
		return nil, err
	}
	s.logger.Info("SETTINGS", "API key override removed", nil)
	return s.GetAPIKeyStatus(ctx)
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	runes := []rune(key)
	if len(runes) <= 4 {
		return "****"
	}
	return "****" + string(runes[len(runes)-4:])
}
