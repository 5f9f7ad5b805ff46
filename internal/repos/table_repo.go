package repos

import (
	"github.com/jmoiron/sqlx"

	"menuqr/internal/domain"
)

type TableRepo struct{ db *sqlx.DB }

func NewTableRepo(db *sqlx.DB) *TableRepo { return &TableRepo{db: db} }

const tableCols = `id, store_id, name, capacity, qr_code,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *TableRepo) Create(t domain.Table) error {
	_, err := r.db.Exec(`
	  INSERT INTO tables(id,store_id,name,capacity,qr_code)
	  VALUES(?,?,?,?,?)
	`, t.ID, t.StoreID, t.Name, t.Capacity, t.QRCode)
	return err
}

func (r *TableRepo) Get(storeID, id string) (domain.Table, error) {
	var t domain.Table
	err := r.db.Get(&t, `SELECT `+tableCols+` FROM tables WHERE store_id = ? AND id = ?`, storeID, id)
	return t, err
}

func (r *TableRepo) ListByStore(storeID string) ([]domain.Table, error) {
	out := []domain.Table{}
	err := r.db.Select(&out, `
	  SELECT `+tableCols+`
	  FROM tables
	  WHERE store_id = ?
	  ORDER BY name, id
	`, storeID)
	return out, err
}

func (r *TableRepo) Update(t domain.Table) error {
	_, err := r.db.Exec(`
	  UPDATE tables SET name=?, capacity=?, updated_at=CURRENT_TIMESTAMP
	  WHERE store_id=? AND id=?
	`, t.Name, t.Capacity, t.StoreID, t.ID)
	return err
}

// SetQRCode is the enrich step of the two-phase create: the row exists first,
// the artifact URL lands whenever generation/upload succeeds.
func (r *TableRepo) SetQRCode(storeID, id, url string) error {
	_, err := r.db.Exec(`
	  UPDATE tables SET qr_code=?, updated_at=CURRENT_TIMESTAMP
	  WHERE store_id=? AND id=?
	`, url, storeID, id)
	return err
}

func (r *TableRepo) Delete(storeID, id string) error {
	_, err := r.db.Exec(`DELETE FROM tables WHERE store_id=? AND id=?`, storeID, id)
	return err
}
