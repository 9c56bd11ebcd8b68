package controller

import (
	"strings"

	"project-ledger-be/internal/dto"
	"project-ledger-be/internal/pkg/serverutils"
	"project-ledger-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISettingsController interface {
	RegisterRoutes(r fiber.Router)
	GetAPIKey(ctx *fiber.Ctx) error
	SetAPIKey(ctx *fiber.Ctx) error
	ClearAPIKey(ctx *fiber.Ctx) error
}

type settingsController struct {
	service service.ISettingsService
}

func NewSettingsController(service service.ISettingsService) ISettingsController {
	return &settingsController{service: service}
}

func (c *settingsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/settings/v1")
	h.Get("api-key", c.GetAPIKey)
	h.Put("api-key", c.SetAPIKey)
	h.Delete("api-key", c.ClearAPIKey)
}

func (c *settingsController) GetAPIKey(ctx *fiber.Ctx) error {
	res, err := c.service.GetAPIKeyStatus(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get api key status", res))
}

func (c *settingsController) SetAPIKey(ctx *fiber.Ctx) error {
	var req dto.SetAPIKeyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	req.APIKey = strings.TrimSpace(req.APIKey)
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SetAPIKey(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set api key", res))
}

func (c *settingsController) ClearAPIKey(ctx *fiber.Ctx) error {
	res, err := c.service.ClearAPIKey(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear api key", res))
}
