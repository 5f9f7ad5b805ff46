package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"math"

	"github.com/google/uuid"

	"menuqr/internal/domain"
	"menuqr/internal/repos"
	"menuqr/internal/validate"
)

// OrderService classifies incoming carts as table or delivery orders,
// recomputes the total from persisted prices, and applies guarded status
// transitions.
type OrderService struct {
	Orders *repos.OrderRepo
	Meals  *repos.MealRepo
	Attrs  *repos.AttributeRepo
	Stores *repos.StoreRepo
}

type SelectedAttributeInput struct {
	AttributeID      string `json:"attribute_id"`
	AttributeValueID string `json:"attribute_value_id"`
}

type CartLineInput struct {
	ID                 string                   `json:"id"`
	Quantity           int                      `json:"quantity"`
	SelectedAttributes []SelectedAttributeInput `json:"selectedAttributes"`
}

type CreateOrderInput struct {
	TableID    string
	TableLabel string

	Name     string
	Phone    string
	Address  string
	Location string
	Note     string

	Cart []CartLineInput
	// ClientTotal is what the client claims; logged for mismatch auditing,
	// never persisted.
	ClientTotal float64
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// classify applies the dispatch rules in order, first match wins. It zeroes
// the fields of the losing branch so exactly one shape ever persists.
func classify(in *CreateOrderInput) error {
	if in.TableID != "" || in.TableLabel != "" {
		in.Name, in.Phone, in.Address, in.Location = "", "", "", ""
		return nil
	}
	if in.Name != "" && in.Phone != "" && in.Address != "" {
		in.TableID, in.TableLabel = "", ""
		var ok bool
		if in.Name, ok = validate.Text(in.Name, 255); !ok {
			return invalid("name", "name is required")
		}
		if in.Phone, ok = validate.Phone(in.Phone); !ok {
			return invalid("phone", "invalid phone")
		}
		if in.Address, ok = validate.Text(in.Address, 500); !ok {
			return invalid("address", "address is required")
		}
		return nil
	}
	return invalid("order", "must supply either a table or full delivery info")
}

// priceLine resolves one cart line against the live catalog and freezes the
// snapshot: names and unit price as of now, modifiers included.
func (s *OrderService) priceLine(storeID string, line CartLineInput) (domain.CartLine, error) {
	meal, err := s.Meals.Get(storeID, line.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CartLine{}, invalid("order", "cart references an unknown meal")
	} else if err != nil {
		return domain.CartLine{}, err
	}

	unit := meal.UnitPrice()
	snap := domain.CartLine{
		ID:       meal.ID,
		NameEN:   meal.NameEN,
		NameAR:   meal.NameAR,
		Quantity: validate.Qty(line.Quantity),
	}
	for _, sel := range line.SelectedAttributes {
		v, err := s.Attrs.Value(sel.AttributeValueID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && v.AttributeID != sel.AttributeID) {
			return domain.CartLine{}, invalid("order", "cart references an unknown attribute value")
		} else if err != nil {
			return domain.CartLine{}, err
		}
		unit += v.PriceModifier
		snap.SelectedAttributes = append(snap.SelectedAttributes, domain.CartLineSelected{
			AttributeID:      v.AttributeID,
			AttributeValueID: v.ID,
			ValueEN:          v.ValueEN,
			ValueAR:          v.ValueAR,
			PriceModifier:    v.PriceModifier,
		})
	}
	snap.Price = round2(unit)
	return snap, nil
}

// Create persists a new pending order. Nothing is written when validation
// fails; the total is server-authoritative.
func (s *OrderService) Create(storeID, userID string, in CreateOrderInput) (domain.Order, error) {
	if _, err := s.Stores.ByID(storeID); errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	} else if err != nil {
		return domain.Order{}, err
	}
	if err := classify(&in); err != nil {
		return domain.Order{}, err
	}
	if len(in.Cart) == 0 {
		return domain.Order{}, invalid("order", "cart is empty")
	}

	total := 0.0
	lines := make([]domain.CartLine, 0, len(in.Cart))
	for _, l := range in.Cart {
		snap, err := s.priceLine(storeID, l)
		if err != nil {
			return domain.Order{}, err
		}
		lines = append(lines, snap)
		total += snap.Price * float64(snap.Quantity)
	}
	cart, err := json.Marshal(lines)
	if err != nil {
		return domain.Order{}, err
	}

	o := domain.Order{
		ID:         uuid.NewString(),
		StoreID:    storeID,
		UserID:     userID,
		TableID:    in.TableID,
		TableLabel: in.TableLabel,
		Name:       in.Name,
		Phone:      in.Phone,
		Address:    in.Address,
		Location:   in.Location,
		Note:       in.Note,
		CartJSON:   string(cart),
		Total:      round2(total),
		Status:     domain.OrderPending,
	}
	if err := s.Orders.Create(o); err != nil {
		return domain.Order{}, err
	}
	return s.Orders.Get(storeID, o.ID)
}

// UpdateStatus moves a pending order to completed or cancelled. Terminal
// orders are left untouched and the caller gets ErrStatusFinal.
func (s *OrderService) UpdateStatus(store domain.Store, orderID, status string) (domain.Order, error) {
	status, ok := validate.OrderStatus(status)
	if !ok {
		return domain.Order{}, invalid("status", "status must be completed or cancelled")
	}

	n, err := s.Orders.UpdateStatusFromPending(store.ID, orderID, status)
	if err != nil {
		return domain.Order{}, err
	}
	if n == 0 {
		// Either not ours/missing, or already terminal; tell them apart.
		if _, err := s.Orders.Get(store.ID, orderID); errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, ErrNotFound
		} else if err != nil {
			return domain.Order{}, err
		}
		return domain.Order{}, ErrStatusFinal
	}
	return s.Orders.Get(store.ID, orderID)
}

func (s *OrderService) Get(store domain.Store, id string) (domain.Order, error) {
	o, err := s.Orders.Get(store.ID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	}
	return o, err
}

func (s *OrderService) List(store domain.Store, limit int) ([]domain.Order, error) {
	return s.Orders.ListByStore(store.ID, limit)
}

// Lines decodes an order's frozen cart snapshot.
func (s *OrderService) Lines(o domain.Order) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	err := json.Unmarshal([]byte(o.CartJSON), &lines)
	return lines, err
}
