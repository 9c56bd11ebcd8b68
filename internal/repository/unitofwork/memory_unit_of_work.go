package unitofwork

import (
	"context"
	"fmt"
	"sync"

	"project-ledger-be/internal/repository/contract"
	"project-ledger-be/internal/repository/memory"
)

// MemoryRepositoryFactory hands out units of work over one shared set of
// in-process repositories.
type MemoryRepositoryFactory struct {
	mu        sync.Mutex
	entries   *memory.LedgerEntryRepository
	revisions *memory.RevisionRepository
}

func NewMemoryRepositoryFactory() *MemoryRepositoryFactory {
	return &MemoryRepositoryFactory{
		entries:   memory.NewLedgerEntryRepository(),
		revisions: memory.NewRevisionRepository(),
	}
}

func (f *MemoryRepositoryFactory) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return &memoryUnitOfWork{factory: f}
}

// memoryUnitOfWork serializes transactions with the factory mutex. Writes apply
// immediately, so Rollback only releases the lock.
type memoryUnitOfWork struct {
	factory *MemoryRepositoryFactory
	active  bool
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return fmt.Errorf("transaction already started")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.factory.mu.Lock()
	u.active = true
	return nil
}

func (u *memoryUnitOfWork) Commit() error {
	if !u.active {
		return fmt.Errorf("no transaction to commit")
	}
	u.active = false
	u.factory.mu.Unlock()
	return nil
}

func (u *memoryUnitOfWork) Rollback() error {
	if !u.active {
		return fmt.Errorf("no transaction to rollback")
	}
	u.active = false
	u.factory.mu.Unlock()
	return nil
}

func (u *memoryUnitOfWork) LedgerEntryRepository() contract.LedgerEntryRepository {
	return u.factory.entries
}

func (u *memoryUnitOfWork) RevisionRepository() contract.RevisionRepository {
	return u.factory.revisions
}
