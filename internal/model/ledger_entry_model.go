package model

import "time"

// LedgerEntry is one key of the key-value medium when the ledger is kept in postgres.
type LedgerEntry struct {
	Key       string    `gorm:"type:varchar(255);primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
