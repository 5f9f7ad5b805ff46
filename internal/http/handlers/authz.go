package handlers

import (
	"github.com/gofiber/fiber/v2"

	"menuqr/internal/domain"
	applog "menuqr/internal/log"
	"menuqr/internal/repos"
	"menuqr/internal/services"
)

// RequireUser enforces a logged-in session.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireOwner resolves session -> user -> store once per request and stows
// the store as the authorization context. Handlers read it back with
// StoreFromCtx and never trust a client-supplied store id for mutations.
func RequireOwner(auth *services.AuthService, stores *repos.StoreRepo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		store, err := stores.ByOwner(u.ID)
		if err != nil {
			applog.Security(c, "access.denied.store", map[string]any{"user_id": u.ID})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "no store for this account"})
		}
		c.Locals("user", u)
		c.Locals("store", store)
		return c.Next()
	}
}

func StoreFromCtx(c *fiber.Ctx) domain.Store {
	store, _ := c.Locals("store").(domain.Store)
	return store
}
