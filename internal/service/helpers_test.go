package service

import (
	"context"
	"sync"
	"testing"

	"project-ledger-be/internal/repository/memory"
	"project-ledger-be/pkg/ledger"
	"project-ledger-be/pkg/llm"

	"github.com/stretchr/testify/require"
)

func newReadyStore(t *testing.T) (*ledger.Store, *memory.LedgerEntryRepository) {
	t.Helper()
	medium := memory.NewLedgerEntryRepository()
	store := ledger.NewStore(medium)
	require.NoError(t, store.Load(context.Background()))
	t.Cleanup(store.Flush)
	return store, medium
}

// fakeModel records the prompts it receives and answers from its fields.
type fakeModel struct {
	mu sync.Mutex

	chatReply string
	grounded  llm.GroundedResponse
	image     string
	err       error

	histories [][]llm.Message
	prompts   []string
	options   []llm.Options
}

func (f *fakeModel) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histories = append(f.histories, history)
	f.options = append(f.options, llm.ApplyOptions(llm.Options{}, opts...))
	return f.chatReply, f.err
}

func (f *fakeModel) GenerateGrounded(ctx context.Context, prompt string, opts ...llm.Option) (llm.GroundedResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.grounded, f.err
}

func (f *fakeModel) GenerateImage(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.image, f.err
}
