package serverutils

import (
	"errors"

	"project-ledger-be/internal/entity"
	"project-ledger-be/pkg/ledger"
	"project-ledger-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeAPIKeyMissing       = "API_KEY_MISSING"
	CodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	CodeProviderError       = "PROVIDER_ERROR"
	CodeInvalidBackup       = "INVALID_BACKUP"
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeStorage             = "STORAGE_ERROR"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the response envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		status, code, message := classify(err)
		return ctx.Status(status).JSON(ErrorResponseWithCode(status, code, message))
	}
}

// classify maps an error to an HTTP status. A chain failure can wrap both a
// provider error and a missing key, so ErrProviderFailed is checked first.
func classify(err error) (int, string, string) {
	var (
		fiberErr *fiber.Error
		valErr   *ValidationError
	)

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, "", fiberErr.Message
	case errors.As(err, &valErr):
		return fiber.StatusUnprocessableEntity, CodeValidation, valErr.Error()
	case errors.Is(err, entity.ErrInvalidMetadata):
		return fiber.StatusUnprocessableEntity, CodeValidation, err.Error()
	case errors.Is(err, ledger.ErrMalformedBackup), errors.Is(err, ledger.ErrMalformedSnapshot):
		return fiber.StatusBadRequest, CodeInvalidBackup, "invalid backup file"
	case errors.Is(err, ledger.ErrNotebookNotFound), errors.Is(err, ledger.ErrNoteNotFound):
		return fiber.StatusNotFound, CodeNotFound, err.Error()
	case errors.Is(err, ledger.ErrDuplicateId):
		return fiber.StatusConflict, CodeConflict, err.Error()
	case errors.Is(err, ledger.ErrNotReady), errors.Is(err, ledger.ErrStorageRead):
		return fiber.StatusServiceUnavailable, CodeStorage, err.Error()
	case errors.Is(err, ledger.ErrStorageWrite):
		return fiber.StatusInternalServerError, CodeStorage, err.Error()
	case errors.Is(err, llm.ErrProviderFailed):
		return fiber.StatusBadGateway, CodeProviderError, err.Error()
	case errors.Is(err, llm.ErrAPIKeyMissing):
		return fiber.StatusServiceUnavailable, CodeAPIKeyMissing, "API key is missing, add one in settings"
	case errors.Is(err, llm.ErrProviderUnavailable):
		return fiber.StatusServiceUnavailable, CodeProviderUnavailable, err.Error()
	}
	return fiber.StatusInternalServerError, "", err.Error()
}
