package entity

import (
	"time"

	"github.com/google/uuid"
)

// Revision is one saved snapshot together with the fingerprint computed for it.
type Revision struct {
	Id            uuid.UUID
	Seq           uint64
	Fingerprint   string
	Snapshot      string
	NotebookCount int
	NoteCount     int
	SavedAt       time.Time
}
