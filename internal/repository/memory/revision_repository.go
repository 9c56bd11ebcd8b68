package memory

import (
	"context"
	"sort"
	"sync"

	"project-ledger-be/internal/entity"
	"project-ledger-be/internal/repository/contract"

	"github.com/google/uuid"
)

type RevisionRepository struct {
	mu        sync.RWMutex
	revisions []entity.Revision
}

func NewRevisionRepository() *RevisionRepository {
	return &RevisionRepository{}
}

var _ contract.RevisionRepository = (*RevisionRepository)(nil)

func (r *RevisionRepository) Create(ctx context.Context, revision *entity.Revision) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if revision.Id == uuid.Nil {
		revision.Id = uuid.New()
	}
	r.mu.Lock()
	r.revisions = append(r.revisions, *revision)
	r.mu.Unlock()
	return nil
}

// newestFirst returns a sorted copy. Caller holds at least the read lock.
func (r *RevisionRepository) newestFirst() []entity.Revision {
	sorted := make([]entity.Revision, len(r.revisions))
	copy(sorted, r.revisions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].SavedAt.Equal(sorted[j].SavedAt) {
			return sorted[i].SavedAt.After(sorted[j].SavedAt)
		}
		return sorted[i].Seq > sorted[j].Seq
	})
	return sorted
}

func (r *RevisionRepository) Latest(ctx context.Context) (*entity.Revision, error) {
	recent, err := r.FindRecent(ctx, 1)
	if err != nil || len(recent) == 0 {
		return nil, err
	}
	return recent[0], nil
}

func (r *RevisionRepository) FindRecent(ctx context.Context, limit int) ([]*entity.Revision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	sorted := r.newestFirst()
	r.mu.RUnlock()

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]*entity.Revision, len(sorted))
	for i := range sorted {
		out[i] = &sorted[i]
	}
	return out, nil
}

func (r *RevisionRepository) Prune(ctx context.Context, keep int) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if keep <= 0 {
		return 0, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.revisions) <= keep {
		return 0, nil
	}
	sorted := r.newestFirst()
	removed := int64(len(sorted) - keep)
	r.revisions = sorted[:keep]
	return removed, nil
}

func (r *RevisionRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.revisions)), nil
}
