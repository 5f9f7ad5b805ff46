package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	applog "menuqr/internal/log"
	"menuqr/internal/services"
	"menuqr/internal/storage"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	return c.Render(tmpl, data)
}

// fail maps the service error taxonomy onto HTTP. Validation keeps its field
// messages; scoping failures stay indistinguishable from missing rows.
func fail(c *fiber.Ctx, err error) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		applog.Security(c, "validation.fail", map[string]any{"fields": ve.Fields})
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": ve.Fields})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, services.ErrStatusFinal):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "order already finalized"})
	default:
		applog.Error(c, "request.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
	}
}

// formFile pulls an optional multipart upload into memory (the body cap is
// enforced globally in main).
func formFile(c *fiber.Ctx, field string) (*storage.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil // absent field, not an error
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &storage.File{Name: fh.Filename, Data: data}, nil
}
