package mapper

import (
	"encoding/json"
	"fmt"

	"project-ledger-be/internal/dto"
	"project-ledger-be/internal/entity"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToResponse(n entity.Note) (*dto.NoteResponse, error) {
	res := &dto.NoteResponse{
		Id:         n.Id,
		NotebookId: n.NotebookId,
		Content:    n.Content,
		Type:       string(n.Type),
		Timestamp:  n.Timestamp,
		Title:      n.Title,
		Question:   n.Question,
		Tags:       n.Tags,
	}
	if res.Tags == nil {
		res.Tags = []string{}
	}
	if n.Metadata != nil || n.Position != nil {
		raw, err := entity.EncodeNoteMetadata(n.Metadata, n.Position)
		if err != nil {
			return nil, fmt.Errorf("encode metadata of note %s: %w", n.Id, err)
		}
		res.Metadata = raw
	}
	return res, nil
}

func (m *NoteMapper) ToResponses(notes []entity.Note) ([]*dto.NoteResponse, error) {
	result := make([]*dto.NoteResponse, 0, len(notes))
	for _, n := range notes {
		res, err := m.ToResponse(n)
		if err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	return result, nil
}

// ToMetadata decodes request metadata and the canvas position it carries.
// Both the tagged form and the legacy untyped bag are accepted.
func (m *NoteMapper) ToMetadata(raw json.RawMessage) (entity.NoteMetadata, *entity.CanvasMetadata, error) {
	meta, pos, err := entity.DecodeNoteMetadata(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", entity.ErrInvalidMetadata, err)
	}
	return meta, pos, nil
}
