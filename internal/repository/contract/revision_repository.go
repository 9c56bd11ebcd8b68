package contract

import (
	"context"

	"project-ledger-be/internal/entity"
)

type RevisionRepository interface {
	Create(ctx context.Context, revision *entity.Revision) error
	// Latest returns nil when no revision exists.
	Latest(ctx context.Context) (*entity.Revision, error)
	// FindRecent returns up to limit revisions, newest first.
	FindRecent(ctx context.Context, limit int) ([]*entity.Revision, error)
	// Prune keeps the newest keep revisions and deletes the rest.
	Prune(ctx context.Context, keep int) (int64, error)
	Count(ctx context.Context) (int64, error)
}
