package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "menuqr/internal/log"
	"menuqr/internal/services"
	"menuqr/internal/validate"
)

type TableHandler struct {
	Tables *services.TableService
}

func (h *TableHandler) Create(c *fiber.Ctx) error {
	capacity, ok := validate.Capacity(c.FormValue("capacity"))
	if !ok {
		return fail(c, &services.ValidationError{Fields: map[string]string{"capacity": "capacity must be a positive integer"}})
	}
	t, err := h.Tables.Create(c.Context(), StoreFromCtx(c), c.FormValue("name"), capacity)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "table.create", map[string]any{"table_id": t.ID, "qr_pending": t.QRCode == ""})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"table": t})
}

func (h *TableHandler) Update(c *fiber.Ctx) error {
	capacity, ok := validate.Capacity(c.FormValue("capacity"))
	if !ok {
		return fail(c, &services.ValidationError{Fields: map[string]string{"capacity": "capacity must be a positive integer"}})
	}
	t, err := h.Tables.Update(c.Context(), StoreFromCtx(c), c.Params("id"), c.FormValue("name"), capacity)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "table.update", map[string]any{"table_id": t.ID})
	return c.JSON(fiber.Map{"table": t})
}

// RegenerateQR retries the artifact pipeline for a table stuck without a QR.
func (h *TableHandler) RegenerateQR(c *fiber.Ctx) error {
	t, err := h.Tables.RegenerateQR(c.Context(), StoreFromCtx(c), c.Params("id"))
	if err != nil {
		if _, ok := err.(*services.ValidationError); !ok && err != services.ErrNotFound {
			applog.Upstream(c, "table.qr.retry.fail", err, map[string]any{"table_id": c.Params("id")})
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "could not generate QR code, try again"})
		}
		return fail(c, err)
	}
	applog.Audit(c, "table.qr.regenerate", map[string]any{"table_id": t.ID})
	return c.JSON(fiber.Map{"table": t})
}

func (h *TableHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Tables.Delete(StoreFromCtx(c), id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "table.delete", map[string]any{"table_id": id})
	return c.JSON(fiber.Map{"ok": true})
}
