package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name  string
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Chat(ctx context.Context, history []Message, opts ...Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	return f.Chat(ctx, []Message{{Role: "user", Content: prompt}}, opts...)
}

type fakeGrounder struct {
	fakeProvider
	urls []string
}

func (f *fakeGrounder) GenerateGrounded(ctx context.Context, prompt string, opts ...Option) (GroundedResponse, error) {
	f.calls++
	return GroundedResponse{Text: f.reply, URLs: f.urls}, f.err
}

func (f *fakeGrounder) GenerateImage(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return "data:image/png;base64,AAAA", f.err
}

func TestChain_FirstSuccessWins(t *testing.T) {
	first := &fakeProvider{name: "first", reply: "one"}
	second := &fakeProvider{name: "second", reply: "two"}
	chain := NewChain(nil, first, second)

	out, err := chain.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "one", out)
	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls)
}

func TestChain_FallsBackWithoutRetry(t *testing.T) {
	first := &fakeProvider{name: "first", err: &ProviderError{Provider: "first", StatusCode: 500}}
	second := &fakeProvider{name: "second", reply: "two"}
	chain := NewChain(nil, first, second)

	out, err := chain.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "two", out)
	assert.Equal(t, 1, first.calls, "a failed provider is not retried")
	assert.Equal(t, 1, second.calls)
}

func TestChain_ErrorClassification(t *testing.T) {
	keyless := func(name string) *fakeProvider {
		return &fakeProvider{name: name, err: ErrAPIKeyMissing}
	}
	broken := func(name string) *fakeProvider {
		return &fakeProvider{name: name, err: &ProviderError{Provider: name, StatusCode: 503, Message: "overloaded"}}
	}

	tests := []struct {
		name      string
		chain     *Chain
		sentinel  error
		keyMissed bool
	}{
		{name: "no providers", chain: NewChain(nil), sentinel: ErrProviderUnavailable},
		{name: "every key missing", chain: NewChain(nil, keyless("a"), keyless("b")), sentinel: ErrProviderUnavailable, keyMissed: true},
		{name: "one failure among missing keys", chain: NewChain(nil, keyless("a"), broken("b")), sentinel: ErrProviderFailed, keyMissed: true},
		{name: "every provider failed", chain: NewChain(nil, broken("a"), broken("b")), sentinel: ErrProviderFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.chain.Generate(context.Background(), "hi")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			assert.Equal(t, tt.keyMissed, errors.Is(err, ErrAPIKeyMissing))
		})
	}
}

func TestChain_ProviderErrorIsReachable(t *testing.T) {
	chain := NewChain(nil, &fakeProvider{name: "a", err: &ProviderError{Provider: "a", StatusCode: 429, Message: "slow down"}})

	_, err := chain.Generate(context.Background(), "hi")

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 429, perr.StatusCode)
	assert.Contains(t, err.Error(), "slow down")
}

func TestChain_GroundedFallsBackToPlainAnswer(t *testing.T) {
	grounder := &fakeGrounder{fakeProvider: fakeProvider{name: "g", err: ErrAPIKeyMissing}}
	plain := &fakeProvider{name: "p", reply: "plain answer"}
	chain := NewChain(nil, grounder, plain)

	res, err := chain.GenerateGrounded(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "plain answer", res.Text)
	assert.Empty(t, res.URLs)

	ok := &fakeGrounder{fakeProvider: fakeProvider{name: "g", reply: "cited"}, urls: []string{"https://a"}}
	res, err = NewChain(nil, ok, plain).GenerateGrounded(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a"}, res.URLs)
}

func TestChain_ImageNeedsCapability(t *testing.T) {
	_, err := NewChain(nil, &fakeProvider{name: "text-only"}).GenerateImage(context.Background(), "a cat")
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
	assert.True(t, errors.Is(err, ErrUnsupported))

	img, err := NewChain(nil, &fakeProvider{name: "text-only"}, &fakeGrounder{fakeProvider: fakeProvider{name: "g"}}).
		GenerateImage(context.Background(), "a cat")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", img)
}

func TestChain_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	first := &fakeProvider{name: "first", reply: "x"}

	_, err := NewChain(nil, first).Generate(ctx, "hi")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, first.calls)
}
