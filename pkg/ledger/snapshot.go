package ledger

import (
	"fmt"

	"project-ledger-be/internal/entity"
)

// DefaultSnapshot is the state of a ledger that has never been saved: the default
// notebook and no notes.
func DefaultSnapshot(createdAt int64) Snapshot {
	return Snapshot{
		Notebooks: []entity.Notebook{entity.NewDefaultNotebook(createdAt)},
		Notes:     []entity.Note{},
	}
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Notebooks: make([]entity.Notebook, len(s.Notebooks)),
		Notes:     make([]entity.Note, len(s.Notes)),
	}
	copy(c.Notebooks, s.Notebooks)
	for i, n := range s.Notes {
		c.Notes[i] = n.Clone()
	}
	return c
}

// EnsureDefault prepends the default notebook when it is missing and reports whether it did.
func (s *Snapshot) EnsureDefault(createdAt int64) bool {
	if s.notebookIndex(entity.DefaultNotebookId) >= 0 {
		return false
	}
	s.Notebooks = append([]entity.Notebook{entity.NewDefaultNotebook(createdAt)}, s.Notebooks...)
	return true
}

func (s Snapshot) notebookIndex(id string) int {
	for i := range s.Notebooks {
		if s.Notebooks[i].Id == id {
			return i
		}
	}
	return -1
}

func (s Snapshot) noteIndex(id string) int {
	for i := range s.Notes {
		if s.Notes[i].Id == id {
			return i
		}
	}
	return -1
}

func (s Snapshot) FindNotebook(id string) (entity.Notebook, bool) {
	if i := s.notebookIndex(id); i >= 0 {
		return s.Notebooks[i], true
	}
	return entity.Notebook{}, false
}

func (s Snapshot) FindNote(id string) (entity.Note, bool) {
	if i := s.noteIndex(id); i >= 0 {
		return s.Notes[i].Clone(), true
	}
	return entity.Note{}, false
}

// NotesIn returns copies of the notes owned by a notebook, in collection order.
func (s Snapshot) NotesIn(notebookId string) []entity.Note {
	notes := make([]entity.Note, 0)
	for _, n := range s.Notes {
		if n.NotebookId == notebookId {
			notes = append(notes, n.Clone())
		}
	}
	return notes
}

func (s *Snapshot) AddNotebook(nb entity.Notebook) error {
	if s.notebookIndex(nb.Id) >= 0 {
		return fmt.Errorf("%w: notebook %s", ErrDuplicateId, nb.Id)
	}
	s.Notebooks = append(s.Notebooks, nb)
	return nil
}

// UpdateNotebook applies fn to the notebook with the given id. Id and CreatedAt are immutable.
func (s *Snapshot) UpdateNotebook(id string, fn func(nb *entity.Notebook)) error {
	i := s.notebookIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotebookNotFound, id)
	}
	nb := s.Notebooks[i]
	fn(&nb)
	nb.Id = s.Notebooks[i].Id
	nb.CreatedAt = s.Notebooks[i].CreatedAt
	s.Notebooks[i] = nb
	return nil
}

// DeleteNotebook removes a notebook and every note it owns. Deleting the default
// notebook or an unknown id changes nothing. It returns the number of notes removed
// and whether the notebook was deleted.
func (s *Snapshot) DeleteNotebook(id string) (int, bool) {
	if id == entity.DefaultNotebookId {
		return 0, false
	}
	i := s.notebookIndex(id)
	if i < 0 {
		return 0, false
	}
	s.Notebooks = append(s.Notebooks[:i:i], s.Notebooks[i+1:]...)

	kept := make([]entity.Note, 0, len(s.Notes))
	for _, n := range s.Notes {
		if n.NotebookId != id {
			kept = append(kept, n)
		}
	}
	removed := len(s.Notes) - len(kept)
	s.Notes = kept
	return removed, true
}

// AddNote inserts a note at the front of the collection. Its notebook must exist.
func (s *Snapshot) AddNote(n entity.Note) error {
	if s.notebookIndex(n.NotebookId) < 0 {
		return fmt.Errorf("%w: %s", ErrNotebookNotFound, n.NotebookId)
	}
	if s.noteIndex(n.Id) >= 0 {
		return fmt.Errorf("%w: note %s", ErrDuplicateId, n.Id)
	}
	s.Notes = append([]entity.Note{n}, s.Notes...)
	return nil
}

// UpdateNote applies fn to the note with the given id. Id, NotebookId and Timestamp
// are immutable here; use MoveNote to change ownership.
func (s *Snapshot) UpdateNote(id string, fn func(n *entity.Note)) error {
	i := s.noteIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	n := s.Notes[i]
	fn(&n)
	n.Id = s.Notes[i].Id
	n.NotebookId = s.Notes[i].NotebookId
	n.Timestamp = s.Notes[i].Timestamp
	s.Notes[i] = n
	return nil
}

func (s *Snapshot) MoveNote(id, notebookId string) error {
	i := s.noteIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	if s.notebookIndex(notebookId) < 0 {
		return fmt.Errorf("%w: %s", ErrNotebookNotFound, notebookId)
	}
	s.Notes[i].NotebookId = notebookId
	return nil
}

func (s *Snapshot) DeleteNote(id string) error {
	i := s.noteIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	s.Notes = append(s.Notes[:i:i], s.Notes[i+1:]...)
	return nil
}
