package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"project-ledger-be/internal/entity"
)

// Snapshot is the unit of persistence, hashing, export and import.
type Snapshot struct {
	Notebooks []entity.Notebook `json:"notebooks"`
	Notes     []entity.Note     `json:"notes"`
}

var errShape = errors.New("top-level notebooks and notes arrays are required")

// Serialize produces the canonical string of a snapshot. Field order is fixed by
// the struct definitions and collection order is preserved, so equal snapshots
// always serialize to equal strings.
func Serialize(s Snapshot) (string, error) {
	raw, err := json.Marshal(s.normalized())
	if err != nil {
		return "", fmt.Errorf("serialize snapshot: %w", err)
	}
	return string(raw), nil
}

// Deserialize parses a canonical string. It fails with ErrMalformedSnapshot unless
// the document carries both a notebooks and a notes array.
func Deserialize(canonical string) (Snapshot, error) {
	s, err := decodeCollections([]byte(canonical))
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return s, nil
}

// decodeCollections accepts any JSON object with notebooks and notes arrays;
// other top-level fields are ignored.
func decodeCollections(data []byte) (Snapshot, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return Snapshot{}, err
	}
	if !isArray(top["notebooks"]) || !isArray(top["notes"]) {
		return Snapshot{}, errShape
	}

	var s Snapshot
	if err := json.Unmarshal(top["notebooks"], &s.Notebooks); err != nil {
		return Snapshot{}, fmt.Errorf("notebooks: %w", err)
	}
	if err := json.Unmarshal(top["notes"], &s.Notes); err != nil {
		return Snapshot{}, fmt.Errorf("notes: %w", err)
	}
	return s.normalized(), nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// normalized replaces nil collections with empty ones so they encode as [] and not null.
func (s Snapshot) normalized() Snapshot {
	if s.Notebooks == nil {
		s.Notebooks = []entity.Notebook{}
	}
	if s.Notes == nil {
		s.Notes = []entity.Note{}
	}
	return s
}
