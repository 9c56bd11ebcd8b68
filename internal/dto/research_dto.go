package dto

type AskRequest struct {
	NotebookId string `json:"notebook_id" validate:"required"`
	Question   string `json:"question" validate:"required,max=2000"`
}

type AskResponse struct {
	Text string        `json:"text"`
	URLs []string      `json:"urls"`
	Note *NoteResponse `json:"note"`
}

type WeaveRequest struct {
	NotebookId string `json:"notebook_id" validate:"required"`
}

type WeaveResponse struct {
	Text string        `json:"text"`
	Note *NoteResponse `json:"note"`
}

type ShredRequest struct {
	NotebookId string `json:"notebook_id" validate:"required"`
	Text       string `json:"text" validate:"required,max=100000"`
}

type ShredResponse struct {
	Notes []*NoteResponse `json:"notes"`
}

type ImageRequest struct {
	NotebookId string `json:"notebook_id" validate:"required"`
	Prompt     string `json:"prompt" validate:"required,max=1000"`
}

type ImageResponse struct {
	ImageData string        `json:"image_data"`
	Note      *NoteResponse `json:"note"`
}
