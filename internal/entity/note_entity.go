package entity

import (
	"encoding/json"
	"fmt"
)

// NoteType decides which views display a note.
type NoteType string

const (
	NoteTypeLedger   NoteType = "ledger"
	NoteTypeResearch NoteType = "research"
	NoteTypeRaw      NoteType = "raw"
	NoteTypeOutline  NoteType = "outline"
	NoteTypeSource   NoteType = "source"
)

func (t NoteType) Valid() bool {
	switch t {
	case NoteTypeLedger, NoteTypeResearch, NoteTypeRaw, NoteTypeOutline, NoteTypeSource:
		return true
	}
	return false
}

type Note struct {
	Id         string
	NotebookId string
	Content    string
	Type       NoteType
	Timestamp  int64 // epoch milliseconds

	Title    string
	Question string
	Tags     []string
	Metadata NoteMetadata
	Position *CanvasMetadata
}

// noteWire fixes the JSON key order of a note. Metadata is encoded separately
// because it is a tagged union that also carries the position.
type noteWire struct {
	Id         string          `json:"id"`
	NotebookId string          `json:"notebookId"`
	Content    string          `json:"content"`
	Type       NoteType        `json:"type"`
	Timestamp  int64           `json:"timestamp"`
	Title      string          `json:"title,omitempty"`
	Question   string          `json:"question,omitempty"`
	Tags       []string        `json:"tags"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

func (n Note) MarshalJSON() ([]byte, error) {
	w := noteWire{
		Id:         n.Id,
		NotebookId: n.NotebookId,
		Content:    n.Content,
		Type:       n.Type,
		Timestamp:  n.Timestamp,
		Title:      n.Title,
		Question:   n.Question,
		Tags:       n.Tags,
	}
	if n.Metadata != nil || n.Position != nil {
		raw, err := EncodeNoteMetadata(n.Metadata, n.Position)
		if err != nil {
			return nil, fmt.Errorf("encode metadata of note %s: %w", n.Id, err)
		}
		w.Metadata = raw
	}
	return json.Marshal(w)
}

func (n *Note) UnmarshalJSON(data []byte) error {
	var w noteWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	meta, pos, err := DecodeNoteMetadata(w.Metadata)
	if err != nil {
		return fmt.Errorf("decode metadata of note %s: %w", w.Id, err)
	}
	*n = Note{
		Id:         w.Id,
		NotebookId: w.NotebookId,
		Content:    w.Content,
		Type:       w.Type,
		Timestamp:  w.Timestamp,
		Title:      w.Title,
		Question:   w.Question,
		Tags:       w.Tags,
		Metadata:   meta,
		Position:   pos,
	}
	return nil
}

// Clone returns a copy that shares no slices with n.
func (n Note) Clone() Note {
	c := n
	if n.Tags != nil {
		c.Tags = append([]string{}, n.Tags...)
	}
	if n.Metadata != nil {
		c.Metadata = n.Metadata.clone()
	}
	if n.Position != nil {
		p := *n.Position
		c.Position = &p
	}
	return c
}
