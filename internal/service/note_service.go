package service

import (
	"context"
	"time"

	"project-ledger-be/internal/dto"
	"project-ledger-be/internal/entity"
	"project-ledger-be/internal/mapper"
	"project-ledger-be/pkg/ledger"

	"github.com/google/uuid"
)

type INoteService interface {
	List(ctx context.Context, query *dto.ListNotesQuery) ([]*dto.NoteResponse, error)
	Show(ctx context.Context, id string) (*dto.NoteResponse, error)
	Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Update(ctx context.Context, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Move(ctx context.Context, req *dto.MoveNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, id string) error
}

type noteService struct {
	store  *ledger.Store
	mapper *mapper.NoteMapper
}

func NewNoteService(store *ledger.Store) INoteService {
	return &noteService{
		store:  store,
		mapper: mapper.NewNoteMapper(),
	}
}

func (c *noteService) List(ctx context.Context, query *dto.ListNotesQuery) ([]*dto.NoteResponse, error) {
	snap := c.store.Snapshot()
	if query.NotebookId != "" {
		if _, ok := snap.FindNotebook(query.NotebookId); !ok {
			return nil, ledger.ErrNotebookNotFound
		}
	}

	notes := make([]entity.Note, 0, len(snap.Notes))
	for _, n := range snap.Notes {
		if query.NotebookId != "" && n.NotebookId != query.NotebookId {
			continue
		}
		if query.Type != "" && string(n.Type) != query.Type {
			continue
		}
		notes = append(notes, n)
	}
	return c.mapper.ToResponses(notes)
}

func (c *noteService) Show(ctx context.Context, id string) (*dto.NoteResponse, error) {
	n, ok := c.store.Snapshot().FindNote(id)
	if !ok {
		return nil, ledger.ErrNoteNotFound
	}
	return c.mapper.ToResponse(n)
}

func (c *noteService) Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	meta, pos, err := c.mapper.ToMetadata(req.Metadata)
	if err != nil {
		return nil, err
	}

	note := entity.Note{
		Id:         uuid.NewString(),
		NotebookId: req.NotebookId,
		Content:    req.Content,
		Type:       entity.NoteType(req.Type),
		Timestamp:  time.Now().UnixMilli(),
		Title:      req.Title,
		Question:   req.Question,
		Tags:       req.Tags,
		Metadata:   meta,
		Position:   pos,
	}

	_, err = c.store.Mutate(ctx, func(snap *ledger.Snapshot) error {
		return snap.AddNote(note)
	})
	if err != nil {
		return nil, err
	}
	return c.mapper.ToResponse(note)
}

func (c *noteService) Update(ctx context.Context, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	var (
		meta     entity.NoteMetadata
		pos      *entity.CanvasMetadata
		metaSent = req.Metadata != nil
	)
	if metaSent {
		var err error
		if meta, pos, err = c.mapper.ToMetadata(req.Metadata); err != nil {
			return nil, err
		}
	}

	var updated entity.Note
	_, err := c.store.Mutate(ctx, func(snap *ledger.Snapshot) error {
		err := snap.UpdateNote(req.Id, func(n *entity.Note) {
			if req.Content != nil {
				n.Content = *req.Content
			}
			if req.Type != nil {
				n.Type = entity.NoteType(*req.Type)
			}
			if req.Title != nil {
				n.Title = *req.Title
			}
			if req.Question != nil {
				n.Question = *req.Question
			}
			if req.Tags != nil {
				n.Tags = *req.Tags
			}
			if metaSent {
				n.Metadata = meta
				n.Position = pos
			}
		})
		if err != nil {
			return err
		}
		updated, _ = snap.FindNote(req.Id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.mapper.ToResponse(updated)
}

func (c *noteService) Move(ctx context.Context, req *dto.MoveNoteRequest) (*dto.NoteResponse, error) {
	var moved entity.Note
	_, err := c.store.Mutate(ctx, func(snap *ledger.Snapshot) error {
		if err := snap.MoveNote(req.Id, req.NotebookId); err != nil {
			return err
		}
		moved, _ = snap.FindNote(req.Id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.mapper.ToResponse(moved)
}

func (c *noteService) Delete(ctx context.Context, id string) error {
	_, err := c.store.Mutate(ctx, func(snap *ledger.Snapshot) error {
		return snap.DeleteNote(id)
	})
	return err
}
