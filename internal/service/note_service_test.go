package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"project-ledger-be/internal/dto"
	"project-ledger-be/internal/entity"
	"project-ledger-be/pkg/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteService_CreateWithMetadata(t *testing.T) {
	store, _ := newReadyStore(t)
	svc := NewNoteService(store)
	ctx := context.Background()

	res, err := svc.Create(ctx, &dto.CreateNoteRequest{
		NotebookId: entity.DefaultNotebookId,
		Type:       "ledger",
		Content:    "pinned",
		Metadata:   json.RawMessage(`{"x":12,"y":40}`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"canvas","x":12,"y":40}`, string(res.Metadata))
	assert.Equal(t, []string{}, res.Tags)

	n, ok := store.Snapshot().FindNote(res.Id)
	require.True(t, ok)
	assert.Nil(t, n.Metadata)
	assert.Equal(t, &entity.CanvasMetadata{X: 12, Y: 40}, n.Position)
}

func TestNoteService_CreateRejects(t *testing.T) {
	store, _ := newReadyStore(t)
	svc := NewNoteService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, &dto.CreateNoteRequest{NotebookId: "missing", Type: "ledger"})
	assert.True(t, errors.Is(err, ledger.ErrNotebookNotFound))

	_, err = svc.Create(ctx, &dto.CreateNoteRequest{
		NotebookId: entity.DefaultNotebookId,
		Type:       "ledger",
		Metadata:   json.RawMessage(`[1,2]`),
	})
	assert.True(t, errors.Is(err, entity.ErrInvalidMetadata))
	assert.Empty(t, store.Snapshot().Notes)
}

func TestNoteService_ListFilters(t *testing.T) {
	store, _ := newReadyStore(t)
	svc := NewNoteService(store)
	ctx := context.Background()

	proj, err := NewNotebookService(store).Create(ctx, &dto.CreateNotebookRequest{Title: "p"})
	require.NoError(t, err)

	for _, req := range []dto.CreateNoteRequest{
		{NotebookId: entity.DefaultNotebookId, Type: "ledger", Content: "a"},
		{NotebookId: entity.DefaultNotebookId, Type: "research", Content: "b"},
		{NotebookId: proj.Id, Type: "research", Content: "c"},
	} {
		req := req
		_, err := svc.Create(ctx, &req)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, &dto.ListNotesQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Content, "newest first")

	inDefault, err := svc.List(ctx, &dto.ListNotesQuery{NotebookId: entity.DefaultNotebookId})
	require.NoError(t, err)
	assert.Len(t, inDefault, 2)

	research, err := svc.List(ctx, &dto.ListNotesQuery{Type: "research"})
	require.NoError(t, err)
	assert.Len(t, research, 2)

	_, err = svc.List(ctx, &dto.ListNotesQuery{NotebookId: "missing"})
	assert.True(t, errors.Is(err, ledger.ErrNotebookNotFound))
}

func TestNoteService_UpdateMoveDelete(t *testing.T) {
	store, _ := newReadyStore(t)
	svc := NewNoteService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateNoteRequest{
		NotebookId: entity.DefaultNotebookId,
		Type:       "research",
		Content:    "draft",
		Metadata:   json.RawMessage(`{"urls":["https://a"]}`),
	})
	require.NoError(t, err)

	content := "final"
	tags := []string{"done"}
	updated, err := svc.Update(ctx, &dto.UpdateNoteRequest{Id: created.Id, Content: &content, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)
	assert.Equal(t, []string{"done"}, updated.Tags)
	assert.Equal(t, created.Timestamp, updated.Timestamp)
	assert.JSONEq(t, string(created.Metadata), string(updated.Metadata), "metadata kept when absent")

	cleared, err := svc.Update(ctx, &dto.UpdateNoteRequest{Id: created.Id, Metadata: json.RawMessage(`null`)})
	require.NoError(t, err)
	assert.Empty(t, cleared.Metadata)

	proj, err := NewNotebookService(store).Create(ctx, &dto.CreateNotebookRequest{Title: "p"})
	require.NoError(t, err)
	moved, err := svc.Move(ctx, &dto.MoveNoteRequest{Id: created.Id, NotebookId: proj.Id})
	require.NoError(t, err)
	assert.Equal(t, proj.Id, moved.NotebookId)

	_, err = svc.Move(ctx, &dto.MoveNoteRequest{Id: created.Id, NotebookId: "missing"})
	assert.True(t, errors.Is(err, ledger.ErrNotebookNotFound))

	require.NoError(t, svc.Delete(ctx, created.Id))
	_, err = svc.Show(ctx, created.Id)
	assert.True(t, errors.Is(err, ledger.ErrNoteNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, created.Id), ledger.ErrNoteNotFound))
}
