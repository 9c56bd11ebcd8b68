package controller

import (
	"fmt"
	"io"
	"strings"

	"project-ledger-be/internal/dto"
	"project-ledger-be/internal/pkg/serverutils"
	"project-ledger-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILedgerController interface {
	RegisterRoutes(r fiber.Router)
	Version(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
	Import(ctx *fiber.Ctx) error
	Revisions(ctx *fiber.Ctx) error
}

type ledgerController struct {
	service service.ILedgerService
}

func NewLedgerController(service service.ILedgerService) ILedgerController {
	return &ledgerController{service: service}
}

func (c *ledgerController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ledger/v1")
	h.Get("version", c.Version)
	h.Get("export", c.Export)
	h.Post("import", c.Import)
	h.Get("revisions", c.Revisions)
}

func (c *ledgerController) Version(ctx *fiber.Ctx) error {
	res, err := c.service.Version(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get ledger version", res))
}

func (c *ledgerController) Export(ctx *fiber.Ctx) error {
	data, filename, err := c.service.Export(ctx.UserContext())
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Send(data)
}

// Import accepts the backup either as the raw JSON body or as a multipart upload
// in the "file" field.
func (c *ledgerController) Import(ctx *fiber.Ctx) error {
	var data []byte
	if strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fh, err := ctx.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "missing backup file in field \"file\"")
		}
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()

		if data, err = io.ReadAll(f); err != nil {
			return err
		}
	} else {
		data = ctx.Body()
	}

	res, err := c.service.Import(ctx.UserContext(), data)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success import ledger", res))
}

func (c *ledgerController) Revisions(ctx *fiber.Ctx) error {
	var query dto.RevisionListQuery
	if err := ctx.QueryParser(&query); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.service.Revisions(ctx.UserContext(), query.Limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get ledger revisions", res))
}
