package dto

type CreateNotebookRequest struct {
	Title       string `json:"title" validate:"required,max=120"`
	Color       string `json:"color" validate:"omitempty,max=32"`
	CoreConcept string `json:"core_concept" validate:"max=4000"`
}

// UpdateNotebookRequest only touches the fields that are present.
type UpdateNotebookRequest struct {
	Id          string  `json:"-"`
	Title       *string `json:"title" validate:"omitempty,min=1,max=120"`
	Color       *string `json:"color" validate:"omitempty,max=32"`
	CoreConcept *string `json:"core_concept" validate:"omitempty,max=4000"`
}

type NotebookResponse struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	Color       string `json:"color"`
	CreatedAt   int64  `json:"created_at"`
	CoreConcept string `json:"core_concept"`
	IsDefault   bool   `json:"is_default"`
	NoteCount   int    `json:"note_count"`
}

type DeleteNotebookResponse struct {
	Id           string `json:"id"`
	Deleted      bool   `json:"deleted"`
	RemovedNotes int    `json:"removed_notes"`
}
