package mapper

import (
	"project-ledger-be/internal/dto"
	"project-ledger-be/internal/entity"
	"project-ledger-be/internal/model"

	"gorm.io/datatypes"
)

type RevisionMapper struct{}

func NewRevisionMapper() *RevisionMapper {
	return &RevisionMapper{}
}

func (m *RevisionMapper) ToEntity(r *model.LedgerRevision) *entity.Revision {
	if r == nil {
		return nil
	}
	return &entity.Revision{
		Id:            r.Id,
		Seq:           uint64(r.Seq),
		Fingerprint:   r.Fingerprint,
		Snapshot:      string(r.Snapshot),
		NotebookCount: r.NotebookCount,
		NoteCount:     r.NoteCount,
		SavedAt:       r.SavedAt,
	}
}

func (m *RevisionMapper) ToModel(r *entity.Revision) *model.LedgerRevision {
	if r == nil {
		return nil
	}
	return &model.LedgerRevision{
		Id:            r.Id,
		Seq:           int64(r.Seq),
		Fingerprint:   r.Fingerprint,
		Snapshot:      datatypes.JSON(r.Snapshot),
		NotebookCount: r.NotebookCount,
		NoteCount:     r.NoteCount,
		SavedAt:       r.SavedAt,
	}
}

func (m *RevisionMapper) ToEntities(revisions []*model.LedgerRevision) []*entity.Revision {
	entities := make([]*entity.Revision, len(revisions))
	for i, r := range revisions {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

func (m *RevisionMapper) ToResponse(r *entity.Revision) *dto.RevisionResponse {
	return &dto.RevisionResponse{
		Id:            r.Id,
		Seq:           r.Seq,
		Fingerprint:   r.Fingerprint,
		NotebookCount: r.NotebookCount,
		NoteCount:     r.NoteCount,
		SavedAt:       r.SavedAt,
	}
}
