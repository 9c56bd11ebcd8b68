package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrAPIKeyMissing means the provider has no credential configured.
	ErrAPIKeyMissing = errors.New("API_KEY_MISSING")

	// ErrUnsupported means the provider lacks the requested capability.
	ErrUnsupported = errors.New("capability not supported")

	// ErrProviderUnavailable is returned by a chain when no provider could even be
	// tried: none configured, no credentials, or no provider with the capability.
	ErrProviderUnavailable = errors.New("no AI provider available")

	// ErrProviderFailed is returned by a chain when at least one provider was
	// tried and every attempt failed.
	ErrProviderFailed = errors.New("all AI providers failed")
)

// ProviderError is a failed call to a provider that was reachable and configured.
type ProviderError struct {
	Provider   string
	StatusCode int // zero for transport failures
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", e.Provider, msg)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewStatusError builds a ProviderError from a non-2xx response, keeping at most
// the first 512 bytes of the body.
func NewStatusError(provider string, status int, body []byte) *ProviderError {
	const max = 512
	if len(body) > max {
		body = body[:max]
	}
	return &ProviderError{Provider: provider, StatusCode: status, Message: string(body)}
}

// unavailable reports whether err means the provider could not be tried at all.
func unavailable(err error) bool {
	return errors.Is(err, ErrAPIKeyMissing) || errors.Is(err, ErrUnsupported)
}
