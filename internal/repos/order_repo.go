package repos

import (
	"github.com/jmoiron/sqlx"

	"menuqr/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `id, store_id, user_id, table_id, table_label, name, phone,
  address, location, note, cart_json, total, status, created_at`

func (r *OrderRepo) Create(o domain.Order) error {
	_, err := r.db.Exec(`
	  INSERT INTO orders
	    (id, store_id, user_id, table_id, table_label, name, phone, address, location, note, cart_json, total, status, created_at)
	  VALUES
	    (?,  ?,        ?,       ?,        ?,           ?,    ?,     ?,       ?,        ?,    ?,         ?,     ?, CURRENT_TIMESTAMP)
	`, o.ID, o.StoreID, o.UserID, o.TableID, o.TableLabel, o.Name, o.Phone, o.Address, o.Location, o.Note, o.CartJSON, o.Total, o.Status)
	return err
}

func (r *OrderRepo) Get(storeID, id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE store_id = ? AND id = ?`, storeID, id)
	return o, err
}

func (r *OrderRepo) ListByStore(storeID string, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	err := r.db.Select(&out, `
	  SELECT `+orderCols+`
	  FROM orders
	  WHERE store_id = ?
	  ORDER BY datetime(created_at) DESC, id
	  LIMIT ?
	`, storeID, limit)
	return out, err
}

// UpdateStatusFromPending applies the terminal transition only when the order
// is still pending; rows affected tells the caller whether it happened.
func (r *OrderRepo) UpdateStatusFromPending(storeID, id, status string) (int64, error) {
	res, err := r.db.Exec(`
	  UPDATE orders SET status=?
	  WHERE store_id=? AND id=? AND status='pending'
	`, status, storeID, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type OrderStats struct {
	Total     int     `db:"total" json:"total"`
	Pending   int     `db:"pending" json:"pending"`
	Completed int     `db:"completed" json:"completed"`
	Cancelled int     `db:"cancelled" json:"cancelled"`
	Revenue   float64 `db:"revenue" json:"revenue"`
}

// Stats aggregates the dashboard counters; revenue counts completed orders only.
func (r *OrderRepo) Stats(storeID string) (OrderStats, error) {
	var s OrderStats
	err := r.db.Get(&s, `
	  SELECT
	    COUNT(*) AS total,
	    COALESCE(SUM(CASE WHEN status='pending'   THEN 1 ELSE 0 END),0) AS pending,
	    COALESCE(SUM(CASE WHEN status='completed' THEN 1 ELSE 0 END),0) AS completed,
	    COALESCE(SUM(CASE WHEN status='cancelled' THEN 1 ELSE 0 END),0) AS cancelled,
	    COALESCE(SUM(CASE WHEN status='completed' THEN total ELSE 0 END),0) AS revenue
	  FROM orders
	  WHERE store_id = ?
	`, storeID)
	return s, err
}
