package ledger

import (
	"errors"
	"testing"

	"project-ledger-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_DeleteNotebookCascades(t *testing.T) {
	s := sampleSnapshot()

	removed, deleted := s.DeleteNotebook("proj1")

	assert.True(t, deleted)
	assert.Equal(t, 3, removed)
	_, found := s.FindNotebook("proj1")
	assert.False(t, found)
	for _, n := range s.Notes {
		assert.NotEqual(t, "proj1", n.NotebookId)
	}
	require.Len(t, s.Notes, 1)
	assert.Equal(t, "n2", s.Notes[0].Id)
}

func TestSnapshot_DefaultNotebookIsUndeletable(t *testing.T) {
	s := sampleSnapshot()
	before := s.Clone()

	removed, deleted := s.DeleteNotebook(entity.DefaultNotebookId)

	assert.False(t, deleted)
	assert.Zero(t, removed)
	assert.Equal(t, before, s)
}

func TestSnapshot_DeleteUnknownNotebook(t *testing.T) {
	s := sampleSnapshot()
	_, deleted := s.DeleteNotebook("missing")
	assert.False(t, deleted)
	assert.Len(t, s.Notebooks, 2)
}

func TestSnapshot_EnsureDefault(t *testing.T) {
	s := Snapshot{Notebooks: []entity.Notebook{{Id: "x", Title: "X"}}}

	assert.True(t, s.EnsureDefault(42))
	require.Len(t, s.Notebooks, 2)
	assert.Equal(t, entity.DefaultNotebookId, s.Notebooks[0].Id)
	assert.Equal(t, int64(42), s.Notebooks[0].CreatedAt)

	assert.False(t, s.EnsureDefault(43))
	assert.Len(t, s.Notebooks, 2)
}

func TestSnapshot_AddNote(t *testing.T) {
	s := DefaultSnapshot(1)

	err := s.AddNote(entity.Note{Id: "a", NotebookId: entity.DefaultNotebookId, Type: entity.NoteTypeLedger})
	require.NoError(t, err)
	err = s.AddNote(entity.Note{Id: "b", NotebookId: entity.DefaultNotebookId, Type: entity.NoteTypeLedger})
	require.NoError(t, err)

	assert.Equal(t, "b", s.Notes[0].Id, "new notes go first")

	err = s.AddNote(entity.Note{Id: "a", NotebookId: entity.DefaultNotebookId})
	assert.True(t, errors.Is(err, ErrDuplicateId))

	err = s.AddNote(entity.Note{Id: "c", NotebookId: "nowhere"})
	assert.True(t, errors.Is(err, ErrNotebookNotFound))
}

func TestSnapshot_UpdateKeepsIdentity(t *testing.T) {
	s := sampleSnapshot()

	err := s.UpdateNote("n1", func(n *entity.Note) {
		n.Id = "hijack"
		n.NotebookId = entity.DefaultNotebookId
		n.Timestamp = 0
		n.Content = "edited"
	})
	require.NoError(t, err)

	n, ok := s.FindNote("n1")
	require.True(t, ok)
	assert.Equal(t, "edited", n.Content)
	assert.Equal(t, "proj1", n.NotebookId)
	assert.Equal(t, int64(1700000002000), n.Timestamp)

	err = s.UpdateNotebook("proj1", func(nb *entity.Notebook) {
		nb.Id = "other"
		nb.CreatedAt = 0
		nb.Title = "Renamed"
	})
	require.NoError(t, err)
	nb, ok := s.FindNotebook("proj1")
	require.True(t, ok)
	assert.Equal(t, "Renamed", nb.Title)
	assert.Equal(t, int64(1700000001000), nb.CreatedAt)
}

func TestSnapshot_MoveAndDeleteNote(t *testing.T) {
	s := sampleSnapshot()

	require.NoError(t, s.MoveNote("n1", entity.DefaultNotebookId))
	assert.Len(t, s.NotesIn(entity.DefaultNotebookId), 2)

	assert.True(t, errors.Is(s.MoveNote("n1", "missing"), ErrNotebookNotFound))
	assert.True(t, errors.Is(s.MoveNote("missing", entity.DefaultNotebookId), ErrNoteNotFound))

	require.NoError(t, s.DeleteNote("n1"))
	_, ok := s.FindNote("n1")
	assert.False(t, ok)
	assert.True(t, errors.Is(s.DeleteNote("n1"), ErrNoteNotFound))
}

func TestSnapshot_CloneIsDeep(t *testing.T) {
	s := sampleSnapshot()
	c := s.Clone()

	c.Notes[0].Tags[0] = "changed"
	c.Notes[0].Metadata.(entity.ResearchMetadata).URLs[0] = "changed"
	c.Notebooks[0].Title = "changed"
	c.Notes[1].Position.X = 0

	assert.Equal(t, "history", s.Notes[0].Tags[0])
	assert.Equal(t, "https://example.org/a", s.Notes[0].Metadata.(entity.ResearchMetadata).URLs[0])
	assert.Equal(t, entity.DefaultNotebookTitle, s.Notebooks[0].Title)
	assert.Equal(t, 120.5, s.Notes[1].Position.X)
}
