package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "menuqr/internal/log"
	"menuqr/internal/services"
)

type OrderHandler struct {
	Orders *services.OrderService
	Auth   *services.AuthService
}

// createOrderBody tolerates the page-bridge payload quirks: `order` may be a
// JSON array or a JSON-stringified array, `total` a number or a string.
type createOrderBody struct {
	StoreID    string          `json:"store_id"`
	TableID    string          `json:"table_id"`
	TableLabel string          `json:"table"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Address    string          `json:"address"`
	Location   string          `json:"location"`
	Note       string          `json:"note"`
	Order      json.RawMessage `json:"order"`
	Total      json.RawMessage `json:"total"`
}

func decodeCart(raw json.RawMessage) ([]services.CartLineInput, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		raw = json.RawMessage(s)
	}
	var lines []services.CartLineInput
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func decodeMoney(raw json.RawMessage) float64 {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// Create accepts a cart from the public menu page: a table order (QR scan)
// or a delivery order with contact info. The placing user is optional.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var body createOrderBody
	if err := c.BodyParser(&body); err != nil {
		applog.Security(c, "order.body.malformed", map[string]any{"err": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed payload"})
	}
	cart, err := decodeCart(body.Order)
	if err != nil {
		applog.Security(c, "order.cart.malformed", map[string]any{"err": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed cart"})
	}

	userID := ""
	if sid := c.Cookies("sid"); sid != "" {
		if u, err := h.Auth.CurrentUser(sid); err == nil && u != nil {
			userID = u.ID
		}
	}

	in := services.CreateOrderInput{
		TableID:     body.TableID,
		TableLabel:  body.TableLabel,
		Name:        body.Name,
		Phone:       body.Phone,
		Address:     body.Address,
		Location:    body.Location,
		Note:        body.Note,
		Cart:        cart,
		ClientTotal: decodeMoney(body.Total),
	}

	o, err := h.Orders.Create(body.StoreID, userID, in)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id":     o.ID,
		"store_id":     o.StoreID,
		"table":        o.IsTableOrder(),
		"server_total": o.Total,
		"client_total": in.ClientTotal,
		"mismatch":     o.Total != in.ClientTotal,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order": o})
}

// UpdateStatus moves one of the owner's pending orders to a terminal state.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	o, err := h.Orders.UpdateStatus(StoreFromCtx(c), c.Params("id"), c.FormValue("status"))
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "order.status.update", map[string]any{"order_id": o.ID, "status": o.Status})
	return c.JSON(fiber.Map{"order": o})
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	o, err := h.Orders.Get(StoreFromCtx(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	lines, err := h.Orders.Lines(o)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"order": o, "items": lines})
}
