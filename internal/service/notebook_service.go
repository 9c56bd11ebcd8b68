package service

import (
	"context"
	"strings"
	"time"

	"project-ledger-be/internal/dto"
	"project-ledger-be/internal/entity"
	"project-ledger-be/internal/mapper"
	"project-ledger-be/pkg/ledger"

	"github.com/google/uuid"
)

type INotebookService interface {
	GetAll(ctx context.Context) ([]*dto.NotebookResponse, error)
	Show(ctx context.Context, id string) (*dto.NotebookResponse, error)
	Create(ctx context.Context, req *dto.CreateNotebookRequest) (*dto.NotebookResponse, error)
	Update(ctx context.Context, req *dto.UpdateNotebookRequest) (*dto.NotebookResponse, error)
	Delete(ctx context.Context, id string) (*dto.DeleteNotebookResponse, error)
}

type notebookService struct {
	store  *ledger.Store
	mapper *mapper.NotebookMapper
}

func NewNotebookService(store *ledger.Store) INotebookService {
	return &notebookService{
		store:  store,
		mapper: mapper.NewNotebookMapper(),
	}
}

func (c *notebookService) GetAll(ctx context.Context) ([]*dto.NotebookResponse, error) {
	snap := c.store.Snapshot()

	counts := make(map[string]int, len(snap.Notebooks))
	for _, n := range snap.Notes {
		counts[n.NotebookId]++
	}

	result := make([]*dto.NotebookResponse, 0, len(snap.Notebooks))
	for _, nb := range snap.Notebooks {
		result = append(result, c.mapper.ToResponse(nb, counts[nb.Id]))
	}
	return result, nil
}

func (c *notebookService) Show(ctx context.Context, id string) (*dto.NotebookResponse, error) {
	snap := c.store.Snapshot()
	nb, ok := snap.FindNotebook(id)
	if !ok {
		return nil, ledger.ErrNotebookNotFound
	}
	return c.mapper.ToResponse(nb, len(snap.NotesIn(id))), nil
}

func (c *notebookService) Create(ctx context.Context, req *dto.CreateNotebookRequest) (*dto.NotebookResponse, error) {
	nb := entity.Notebook{
		Id:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Color:       req.Color,
		CreatedAt:   time.Now().UnixMilli(),
		CoreConcept: req.CoreConcept,
	}
	if nb.Color == "" {
		nb.Color = entity.DefaultNotebookColor
	}

	_, err := c.store.Mutate(ctx, func(snap *ledger.Snapshot) error {
		return snap.AddNotebook(nb)
	})
	if err != nil {
		return nil, err
	}
	return c.mapper.ToResponse(nb, 0), nil
}

func (c *notebookService) Update(ctx context.Context, req *dto.UpdateNotebookRequest) (*dto.NotebookResponse, error) {
	var (
		updated   entity.Notebook
		noteCount int
	)
	_, err := c.store.Mutate(ctx, func(snap *ledger.Snapshot) error {
		err := snap.UpdateNotebook(req.Id, func(nb *entity.Notebook) {
			if req.Title != nil {
				nb.Title = strings.TrimSpace(*req.Title)
			}
			if req.Color != nil {
				nb.Color = *req.Color
			}
			if req.CoreConcept != nil {
				nb.CoreConcept = *req.CoreConcept
			}
		})
		if err != nil {
			return err
		}
		updated, _ = snap.FindNotebook(req.Id)
		noteCount = len(snap.NotesIn(req.Id))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.mapper.ToResponse(updated, noteCount), nil
}

// Delete removes a notebook and its notes. Deleting the default notebook, or one
// that does not exist, changes nothing and reports Deleted false.
func (c *notebookService) Delete(ctx context.Context, id string) (*dto.DeleteNotebookResponse, error) {
	res := &dto.DeleteNotebookResponse{Id: id}
	_, err := c.store.Mutate(ctx, func(snap *ledger.Snapshot) error {
		res.RemovedNotes, res.Deleted = snap.DeleteNotebook(id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
