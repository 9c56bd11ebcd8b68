package implementation

import (
	"context"
	"errors"

	"project-ledger-be/internal/model"
	"project-ledger-be/internal/repository/contract"
	"project-ledger-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerEntryRepositoryImpl struct {
	db *gorm.DB
}

func NewLedgerEntryRepository(db *gorm.DB) contract.LedgerEntryRepository {
	return &LedgerEntryRepositoryImpl{
		db: db,
	}
}

func (r *LedgerEntryRepositoryImpl) Get(ctx context.Context, key string) (string, bool, error) {
	var m model.LedgerEntry
	query := specification.ByKey{Key: key}.Apply(r.db.WithContext(ctx))
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return m.Value, true, nil
}

func (r *LedgerEntryRepositoryImpl) Set(ctx context.Context, key, value string) error {
	m := model.LedgerEntry{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&m).Error
}

func (r *LedgerEntryRepositoryImpl) Delete(ctx context.Context, key string) error {
	query := specification.ByKey{Key: key}.Apply(r.db.WithContext(ctx))
	return query.Delete(&model.LedgerEntry{}).Error
}
