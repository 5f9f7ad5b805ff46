package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"menuqr/internal/services"
	"menuqr/internal/validate"
)

// MenuHandler serves the anonymous store menu reached from a table QR scan
// or a shared link.
type MenuHandler struct {
	Catalog *services.CatalogService
}

// Home handles /store/home/:store_name/:store_id/:table?. The store name in
// the path is cosmetic; the id is authoritative. The optional trailing
// segment is the table context a QR scan carries.
func (h *MenuHandler) Home(c *fiber.Ctx) error {
	storeID, ok := validate.ID(c.Params("store_id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Store not found"})
	}
	table := c.Params("table")

	view, err := h.Catalog.Menu(storeID, table)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Store not found"})
	}

	if strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON) {
		return c.JSON(view)
	}
	return render(c, "menu", fiber.Map{"Menu": view})
}
