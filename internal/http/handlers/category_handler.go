package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "menuqr/internal/log"
	"menuqr/internal/services"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) input(c *fiber.Ctx) (services.CategoryInput, error) {
	img, err := formFile(c, "image")
	if err != nil {
		return services.CategoryInput{}, err
	}
	pos, _ := strconv.Atoi(c.FormValue("position", "0"))
	return services.CategoryInput{
		NameEN:   c.FormValue("name_en"),
		NameAR:   c.FormValue("name_ar"),
		Position: pos,
		Image:    img,
	}, nil
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	in, err := h.input(c)
	if err != nil {
		return fail(c, err)
	}
	cat, err := h.Catalog.CreateCategory(c.Context(), StoreFromCtx(c), in)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "category.create", map[string]any{"category_id": cat.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"category": cat})
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	in, err := h.input(c)
	if err != nil {
		return fail(c, err)
	}
	cat, err := h.Catalog.UpdateCategory(c.Context(), StoreFromCtx(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "category.update", map[string]any{"category_id": cat.ID})
	return c.JSON(fiber.Map{"category": cat})
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.DeleteCategory(StoreFromCtx(c), id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "category.delete", map[string]any{"category_id": id})
	return c.JSON(fiber.Map{"ok": true})
}
