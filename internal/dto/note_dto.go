package dto

import "encoding/json"

type ListNotesQuery struct {
	NotebookId string `query:"notebook_id"`
	Type       string `query:"type" validate:"omitempty,oneof=ledger research raw outline source"`
}

type CreateNoteRequest struct {
	NotebookId string          `json:"notebook_id" validate:"required"`
	Content    string          `json:"content"`
	Type       string          `json:"type" validate:"required,oneof=ledger research raw outline source"`
	Title      string          `json:"title" validate:"max=200"`
	Question   string          `json:"question" validate:"max=2000"`
	Tags       []string        `json:"tags" validate:"max=32,dive,min=1,max=64"`
	Metadata   json.RawMessage `json:"metadata"`
}

// UpdateNoteRequest only touches the fields that are present. A metadata value
// of null clears the metadata.
type UpdateNoteRequest struct {
	Id       string          `json:"-"`
	Content  *string         `json:"content"`
	Type     *string         `json:"type" validate:"omitempty,oneof=ledger research raw outline source"`
	Title    *string         `json:"title" validate:"omitempty,max=200"`
	Question *string         `json:"question" validate:"omitempty,max=2000"`
	Tags     *[]string       `json:"tags" validate:"omitempty,max=32,dive,min=1,max=64"`
	Metadata json.RawMessage `json:"metadata"`
}

type MoveNoteRequest struct {
	Id         string `json:"-"`
	NotebookId string `json:"notebook_id" validate:"required"`
}

type NoteResponse struct {
	Id         string          `json:"id"`
	NotebookId string          `json:"notebook_id"`
	Content    string          `json:"content"`
	Type       string          `json:"type"`
	Timestamp  int64           `json:"timestamp"`
	Title      string          `json:"title,omitempty"`
	Question   string          `json:"question,omitempty"`
	Tags       []string        `json:"tags"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

type DeleteNoteResponse struct {
	Id string `json:"id"`
}
