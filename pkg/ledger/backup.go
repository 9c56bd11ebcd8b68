package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"project-ledger-be/internal/entity"
)

// SchemaVersion tags export documents.
const SchemaVersion = 1

// isoLayout matches the millisecond UTC form browsers produce for ISO-8601 timestamps.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Document is the downloadable backup: the canonical snapshot plus a schema
// version and an export timestamp.
type Document struct {
	Notebooks  []entity.Notebook `json:"notebooks"`
	Notes      []entity.Note     `json:"notes"`
	Version    int               `json:"version"`
	ExportedAt string            `json:"exportedAt"`
}

func Export(s Snapshot, now time.Time) Document {
	s = s.Clone().normalized()
	return Document{
		Notebooks:  s.Notebooks,
		Notes:      s.Notes,
		Version:    SchemaVersion,
		ExportedAt: now.UTC().Format(isoLayout),
	}
}

// Timestamp parses ExportedAt.
func (d Document) Timestamp() (time.Time, error) {
	return time.Parse(isoLayout, d.ExportedAt)
}

// ExportFilename is ledger-backup-<ISO date>.json.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("ledger-backup-%s.json", now.UTC().Format("2006-01-02"))
}

func MarshalDocument(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Restore validates an uploaded document and returns the collections it holds.
// Both the export format and the bare canonical format are accepted; extra fields
// are ignored. A document without notebooks and notes arrays fails with
// ErrMalformedBackup.
func Restore(data []byte) (Snapshot, error) {
	s, err := decodeCollections(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}
	return s, nil
}
