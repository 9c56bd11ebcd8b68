package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LedgerRevision keeps the snapshot as json and not jsonb so the canonical
// string comes back byte for byte.
type LedgerRevision struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Seq           int64          `gorm:"not null"`
	Fingerprint   string         `gorm:"type:varchar(8);not null;index"`
	Snapshot      datatypes.JSON `gorm:"type:json;not null"`
	NotebookCount int            `gorm:"not null;default:0"`
	NoteCount     int            `gorm:"not null;default:0"`
	SavedAt       time.Time      `gorm:"not null;index"`
}

func (LedgerRevision) TableName() string {
	return "ledger_revisions"
}
