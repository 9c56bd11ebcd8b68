package dto

type SetAPIKeyRequest struct {
	APIKey string `json:"api_key" validate:"required,min=8,max=256"`
}

type APIKeyStatusResponse struct {
	Configured bool   `json:"configured"`
	Source     string `json:"source"` // override, environment or none
	Masked     string `json:"masked,omitempty"`
}
