package repos

import (
	"github.com/jmoiron/sqlx"

	"menuqr/internal/domain"
)

type StoreRepo struct{ db *sqlx.DB }

func NewStoreRepo(db *sqlx.DB) *StoreRepo { return &StoreRepo{db: db} }

const storeCols = `id, user_id, name, slug, email, phone, address, description,
  image, banner, country_id, created_at`

func (r *StoreRepo) CreateTx(tx *sqlx.Tx, s domain.Store) error {
	_, err := tx.Exec(`
	  INSERT INTO stores(id,user_id,name,slug,email,phone,address,description,image,banner,country_id)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?)
	`, s.ID, s.UserID, s.Name, s.Slug, s.Email, s.Phone, s.Address, s.Description, s.Image, s.Banner, s.CountryID)
	return err
}

func (r *StoreRepo) ByID(id string) (domain.Store, error) {
	var s domain.Store
	err := r.db.Get(&s, `SELECT `+storeCols+` FROM stores WHERE id = ?`, id)
	return s, err
}

// ByOwner resolves the owner's single store; used once per request to build
// the authorization context.
func (r *StoreRepo) ByOwner(userID string) (domain.Store, error) {
	var s domain.Store
	err := r.db.Get(&s, `SELECT `+storeCols+` FROM stores WHERE user_id = ?`, userID)
	return s, err
}

func (r *StoreRepo) NameExists(name string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM stores WHERE LOWER(name)=LOWER(?)`, name); err != nil {
		return false, err
	}
	return n > 0, nil
}
