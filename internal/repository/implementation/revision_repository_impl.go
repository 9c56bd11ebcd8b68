package implementation

import (
	"context"
	"errors"

	"project-ledger-be/internal/entity"
	"project-ledger-be/internal/mapper"
	"project-ledger-be/internal/model"
	"project-ledger-be/internal/repository/contract"
	"project-ledger-be/internal/repository/specification"

	"gorm.io/gorm"
)

type RevisionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RevisionMapper
}

func NewRevisionRepository(db *gorm.DB) contract.RevisionRepository {
	return &RevisionRepositoryImpl{
		db:     db,
		mapper: mapper.NewRevisionMapper(),
	}
}

func (r *RevisionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RevisionRepositoryImpl) Create(ctx context.Context, revision *entity.Revision) error {
	m := r.mapper.ToModel(revision)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*revision = *r.mapper.ToEntity(m)
	return nil
}

func (r *RevisionRepositoryImpl) Latest(ctx context.Context) (*entity.Revision, error) {
	var m model.LedgerRevision
	query := r.applySpecifications(r.db.WithContext(ctx), specification.NewestFirst{})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RevisionRepositoryImpl) FindRecent(ctx context.Context, limit int) ([]*entity.Revision, error) {
	var models []*model.LedgerRevision
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.NewestFirst{},
		specification.Pagination{Limit: limit},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *RevisionRepositoryImpl) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	newest := r.applySpecifications(
		r.db.WithContext(ctx).Model(&model.LedgerRevision{}).Select("id"),
		specification.NewestFirst{},
		specification.Pagination{Limit: keep},
	)
	res := r.db.WithContext(ctx).Where("id NOT IN (?)", newest).Delete(&model.LedgerRevision{})
	return res.RowsAffected, res.Error
}

func (r *RevisionRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.LedgerRevision{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
