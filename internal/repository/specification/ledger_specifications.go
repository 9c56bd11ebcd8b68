package specification

import "gorm.io/gorm"

// ByKey selects a ledger entry.
type ByKey struct {
	Key string
}

func (s ByKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("key = ?", s.Key)
}

// NewestFirst orders revisions by save time, then by sequence for revisions
// saved within the same clock tick.
type NewestFirst struct{}

func (s NewestFirst) Apply(db *gorm.DB) *gorm.DB {
	db = OrderBy{Field: "saved_at", Desc: true}.Apply(db)
	return OrderBy{Field: "seq", Desc: true}.Apply(db)
}
