package repos

import (
	"github.com/jmoiron/sqlx"

	"menuqr/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryCols = `id, store_id, name_en, name_ar, image, position,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *CategoryRepo) Create(c domain.Category) error {
	_, err := r.db.Exec(`
	  INSERT INTO categories(id,store_id,name_en,name_ar,image,position)
	  VALUES(?,?,?,?,?,?)
	`, c.ID, c.StoreID, c.NameEN, c.NameAR, c.Image, c.Position)
	return err
}

// Get is store-scoped: a wrong store id behaves exactly like a missing row.
func (r *CategoryRepo) Get(storeID, id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT `+categoryCols+` FROM categories WHERE store_id = ? AND id = ?`, storeID, id)
	return c, err
}

func (r *CategoryRepo) ListByStore(storeID string) ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `
	  SELECT `+categoryCols+`
	  FROM categories
	  WHERE store_id = ?
	  ORDER BY position, name_en
	`, storeID)
	return out, err
}

func (r *CategoryRepo) Update(c domain.Category) error {
	_, err := r.db.Exec(`
	  UPDATE categories
	  SET name_en=?, name_ar=?, image=?, position=?, updated_at=CURRENT_TIMESTAMP
	  WHERE store_id=? AND id=?
	`, c.NameEN, c.NameAR, c.Image, c.Position, c.StoreID, c.ID)
	return err
}

func (r *CategoryRepo) Delete(storeID, id string) error {
	_, err := r.db.Exec(`DELETE FROM categories WHERE store_id=? AND id=?`, storeID, id)
	return err
}

func (r *CategoryRepo) MealCount(id string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM meals WHERE category_id=?`, id)
	return n, err
}
