package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "menuqr/internal/log"
	"menuqr/internal/repos"
	"menuqr/internal/services"
)

// StoreHandler covers registration and the owner dashboard.
type StoreHandler struct {
	Registry  *services.RegistryService
	Catalog   *services.CatalogService
	Countries *repos.CountryRepo
}

// RegisterPage supplies the registration form's reference data.
func (h *StoreHandler) RegisterPage(c *fiber.Ctx) error {
	countries, err := h.Countries.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"countries": countries})
}

// Register handles the multipart store+owner signup and logs the new owner in.
func (h *StoreHandler) Register(c *fiber.Ctx) error {
	logo, err := formFile(c, "image")
	if err != nil {
		return fail(c, err)
	}
	banner, err := formFile(c, "banner")
	if err != nil {
		return fail(c, err)
	}

	in := services.RegisterStoreInput{
		Name:             c.FormValue("name"),
		Email:            c.FormValue("email"),
		Password:         c.FormValue("password"),
		StoreName:        c.FormValue("store_name"),
		StoreEmail:       c.FormValue("store_email"),
		StorePhone:       c.FormValue("store_phone"),
		StoreAddress:     c.FormValue("store_address"),
		StoreDescription: c.FormValue("store_description"),
		CountryID:        c.FormValue("country_id"),
		Logo:             logo,
		Banner:           banner,
	}

	user, store, err := h.Registry.Register(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}

	// Session established for the fresh owner account
	sid := ensureSID(c)
	if err := h.Registry.Users.BindSession(sid, user.ID); err != nil {
		return fail(c, err)
	}

	applog.Audit(c, "store.register", map[string]any{"store_id": store.ID, "user_id": user.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "store": store})
}

// Dashboard returns the owner's store; the heavy payload lives on /data.
func (h *StoreHandler) Dashboard(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"store": StoreFromCtx(c)})
}

// DashboardData bundles categories, meals, tables, orders and stats.
func (h *StoreHandler) DashboardData(c *fiber.Ctx) error {
	view, err := h.Catalog.DashboardData(StoreFromCtx(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(view)
}
