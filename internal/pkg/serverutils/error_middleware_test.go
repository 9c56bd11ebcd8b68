package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"project-ledger-be/pkg/ledger"
	"project-ledger-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createThing struct {
	Title string `json:"title" validate:"required,max=5"`
	Color string `json:"color" validate:"omitempty,oneof=red blue"`
}

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		contains string
	}{
		{name: "malformed backup", err: fmt.Errorf("restore: %w", ledger.ErrMalformedBackup), status: 400, code: CodeInvalidBackup, contains: "invalid backup file"},
		{name: "note not found", err: ledger.ErrNoteNotFound, status: 404, code: CodeNotFound},
		{name: "duplicate", err: ledger.ErrDuplicateId, status: 409, code: CodeConflict},
		{name: "ledger unreadable", err: fmt.Errorf("%w: connection reset", ledger.ErrStorageRead), status: 503, code: CodeStorage},
		{name: "validation", err: &ValidationError{Fields: map[string]string{"title": "required"}}, status: 422, code: CodeValidation, contains: "title failed on required"},
		{
			name:   "key missing",
			err:    fmt.Errorf("%w: %w", llm.ErrProviderUnavailable, llm.ErrAPIKeyMissing),
			status: 503, code: CodeAPIKeyMissing,
		},
		{name: "no provider", err: llm.ErrProviderUnavailable, status: 503, code: CodeProviderUnavailable},
		{
			name:   "provider failed wins over key missing",
			err:    fmt.Errorf("%w: %w", llm.ErrProviderFailed, errors.Join(llm.ErrAPIKeyMissing, &llm.ProviderError{Provider: "ollama", StatusCode: 500})),
			status: 502, code: CodeProviderError,
		},
		{name: "fiber error", err: fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big"), status: 413, contains: "too big"},
		{name: "anything else", err: errors.New("boom"), status: 500, contains: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(ErrorHandlerMiddleware())
			app.Get("/", func(*fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body BaseResponse[any]
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.status, body.Code)
			assert.Equal(t, tt.code, body.ErrorCode)
			if tt.contains != "" {
				assert.Contains(t, body.Message, tt.contains)
			}
		})
	}
}

func TestErrorHandlerMiddleware_PassesSuccess(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("ok", map[string]int{"n": 1}))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body BaseResponse[map[string]int]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Data["n"])
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(createThing{Title: "abc"}))

	err := ValidateRequest(createThing{Title: "", Color: "green"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "required", verr.Fields["title"])
	assert.Equal(t, "oneof=red blue", verr.Fields["color"])
	assert.Equal(t, "validation error: color failed on oneof=red blue; title failed on required", verr.Error())
}
