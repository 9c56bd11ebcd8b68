package mapper

import (
	"project-ledger-be/internal/dto"
	"project-ledger-be/internal/entity"
)

type NotebookMapper struct{}

func NewNotebookMapper() *NotebookMapper {
	return &NotebookMapper{}
}

func (m *NotebookMapper) ToResponse(nb entity.Notebook, noteCount int) *dto.NotebookResponse {
	return &dto.NotebookResponse{
		Id:          nb.Id,
		Title:       nb.Title,
		Color:       nb.Color,
		CreatedAt:   nb.CreatedAt,
		CoreConcept: nb.CoreConcept,
		IsDefault:   nb.IsDefault(),
		NoteCount:   noteCount,
	}
}
