package unitofwork

import (
	"context"

	"project-ledger-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	LedgerEntryRepository() contract.LedgerEntryRepository
	RevisionRepository() contract.RevisionRepository
}
