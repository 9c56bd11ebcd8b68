package contract

import "context"

// LedgerEntryRepository is the key-value medium the ledger store persists into.
// Get reports found=false for a missing key rather than an error.
type LedgerEntryRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
