package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "menuqr/internal/log"
	"menuqr/internal/services"
)

type MealHandler struct {
	Catalog *services.CatalogService
}

func (h *MealHandler) input(c *fiber.Ctx) (services.MealInput, error) {
	img, err := formFile(c, "image")
	if err != nil {
		return services.MealInput{}, err
	}
	price, _ := strconv.ParseFloat(c.FormValue("price", "0"), 64)
	sale, _ := strconv.ParseFloat(c.FormValue("sale_price", "0"), 64)

	// attributes arrives as a JSON object: {"<attribute_id>":"<value_id>"}
	attrs := map[string]string{}
	if raw := c.FormValue("attributes"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
			return services.MealInput{}, err
		}
	}

	return services.MealInput{
		CategoryID:    c.FormValue("category_id"),
		NameEN:        c.FormValue("name_en"),
		NameAR:        c.FormValue("name_ar"),
		DescriptionEN: c.FormValue("description_en"),
		DescriptionAR: c.FormValue("description_ar"),
		Price:         price,
		SalePrice:     sale,
		Image:         img,
		Attributes:    attrs,
	}, nil
}

func (h *MealHandler) Create(c *fiber.Ctx) error {
	in, err := h.input(c)
	if err != nil {
		return fail(c, err)
	}
	meal, err := h.Catalog.CreateMeal(c.Context(), StoreFromCtx(c), in)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "meal.create", map[string]any{"meal_id": meal.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"meal": meal})
}

func (h *MealHandler) Update(c *fiber.Ctx) error {
	in, err := h.input(c)
	if err != nil {
		return fail(c, err)
	}
	meal, err := h.Catalog.UpdateMeal(c.Context(), StoreFromCtx(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "meal.update", map[string]any{"meal_id": meal.ID})
	return c.JSON(fiber.Map{"meal": meal})
}

func (h *MealHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.DeleteMeal(StoreFromCtx(c), id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "meal.delete", map[string]any{"meal_id": id})
	return c.JSON(fiber.Map{"ok": true})
}
