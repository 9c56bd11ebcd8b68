package dto

import (
	"time"

	"github.com/google/uuid"
)

type VersionResponse struct {
	Fingerprint   string `json:"fingerprint"`
	Seq           uint64 `json:"seq"`
	State         string `json:"state"`
	NotebookCount int    `json:"notebook_count"`
	NoteCount     int    `json:"note_count"`
}

type ImportResponse struct {
	Changed       bool   `json:"changed"`
	Seq           uint64 `json:"seq"`
	NotebookCount int    `json:"notebook_count"`
	NoteCount     int    `json:"note_count"`
}

type RevisionListQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

type RevisionResponse struct {
	Id            uuid.UUID `json:"id"`
	Seq           uint64    `json:"seq"`
	Fingerprint   string    `json:"fingerprint"`
	NotebookCount int       `json:"notebook_count"`
	NoteCount     int       `json:"note_count"`
	SavedAt       time.Time `json:"saved_at"`
}

// LedgerEventMessage is the payload of a store event on the in-process bus.
type LedgerEventMessage struct {
	Type          string    `json:"type"`
	Seq           uint64    `json:"seq"`
	Fingerprint   string    `json:"fingerprint,omitempty"`
	Snapshot      string    `json:"snapshot,omitempty"`
	NotebookCount int       `json:"notebook_count"`
	NoteCount     int       `json:"note_count"`
	OccurredAt    time.Time `json:"occurred_at"`
}
