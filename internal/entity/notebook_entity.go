package entity

// DefaultNotebookId is the fixed id of the primary notebook. It always exists and cannot be deleted.
const DefaultNotebookId = "general"

const (
	DefaultNotebookTitle = "General Ledger"
	DefaultNotebookColor = "slate"
)

type Notebook struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	Color       string `json:"color"`
	CreatedAt   int64  `json:"createdAt"` // epoch milliseconds
	CoreConcept string `json:"coreConcept"`
}

func (n Notebook) IsDefault() bool {
	return n.Id == DefaultNotebookId
}

func NewDefaultNotebook(createdAt int64) Notebook {
	return Notebook{
		Id:        DefaultNotebookId,
		Title:     DefaultNotebookTitle,
		Color:     DefaultNotebookColor,
		CreatedAt: createdAt,
	}
}
