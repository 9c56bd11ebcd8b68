package llm

import (
	"context"
	"errors"
	"fmt"

	"project-ledger-be/internal/pkg/logger"
)

// Chain tries capability-equivalent providers in order. The first success wins;
// a failure moves on to the next provider and nothing is retried.
type Chain struct {
	providers []LLMProvider
	logger    logger.ILogger
}

func NewChain(log logger.ILogger, providers ...LLMProvider) *Chain {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Chain{providers: providers, logger: log}
}

// Providers returns the provider names in the order they are tried.
func (c *Chain) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

func (c *Chain) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	return run(ctx, c, "generate", func(p LLMProvider) (string, error) {
		return p.Generate(ctx, prompt, opts...)
	})
}

func (c *Chain) Chat(ctx context.Context, history []Message, opts ...Option) (string, error) {
	return run(ctx, c, "chat", func(p LLMProvider) (string, error) {
		return p.Chat(ctx, history, opts...)
	})
}

// GenerateGrounded prefers web-grounded answers. A provider that cannot ground
// still answers, without sources.
func (c *Chain) GenerateGrounded(ctx context.Context, prompt string, opts ...Option) (GroundedResponse, error) {
	return run(ctx, c, "grounded", func(p LLMProvider) (GroundedResponse, error) {
		if g, ok := p.(Grounder); ok {
			return g.GenerateGrounded(ctx, prompt, opts...)
		}
		text, err := p.Generate(ctx, prompt, opts...)
		return GroundedResponse{Text: text}, err
	})
}

func (c *Chain) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return run(ctx, c, "image", func(p LLMProvider) (string, error) {
		g, ok := p.(ImageGenerator)
		if !ok {
			return "", fmt.Errorf("%s: %w", p.Name(), ErrUnsupported)
		}
		return g.GenerateImage(ctx, prompt)
	})
}

func run[T any](ctx context.Context, c *Chain, op string, call func(LLMProvider) (T, error)) (T, error) {
	var zero T
	var causes []error

	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		res, err := call(p)
		if err == nil {
			return res, nil
		}
		if ctx.Err() != nil {
			return zero, err
		}

		causes = append(causes, err)
		c.logger.Warn("LLM", "Provider failed, trying next", map[string]interface{}{
			"op":       op,
			"provider": p.Name(),
			"error":    err.Error(),
		})
	}
	return zero, chainError(causes)
}

func chainError(causes []error) error {
	if len(causes) == 0 {
		return ErrProviderUnavailable
	}
	sentinel := ErrProviderUnavailable
	for _, err := range causes {
		if !unavailable(err) {
			sentinel = ErrProviderFailed
			break
		}
	}
	return fmt.Errorf("%w: %w", sentinel, errors.Join(causes...))
}
