package factory

import (
	"fmt"
	"strings"

	"project-ledger-be/internal/pkg/logger"
	"project-ledger-be/pkg/llm"
	"project-ledger-be/pkg/llm/gemini"
	"project-ledger-be/pkg/llm/ollama"
)

type Config struct {
	GeminiKey        gemini.KeyFunc
	GeminiModel      string
	GeminiImageModel string
	GeminiBaseURL    string // empty for the public endpoint

	OllamaBaseURL string
	OllamaModel   string
}

func NewLLMProvider(providerType string, cfg Config) (llm.LLMProvider, error) {
	switch strings.ToLower(strings.TrimSpace(providerType)) {
	case "gemini":
		p := gemini.NewGeminiProvider(cfg.GeminiKey, cfg.GeminiModel, cfg.GeminiImageModel)
		if cfg.GeminiBaseURL != "" {
			p.BaseURL = cfg.GeminiBaseURL
		}
		return p, nil
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}

// NewChain builds the providers named in order, e.g. "gemini,ollama".
func NewChain(order string, cfg Config, log logger.ILogger) (*llm.Chain, error) {
	var providers []llm.LLMProvider
	seen := make(map[string]bool)
	for _, name := range strings.Split(order, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		p, err := NewLLMProvider(name, cfg)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no LLM provider configured in %q", order)
	}
	return llm.NewChain(log, providers...), nil
}
