package repos

import (
	"github.com/jmoiron/sqlx"

	"menuqr/internal/domain"
)

type MealRepo struct{ db *sqlx.DB }

func NewMealRepo(db *sqlx.DB) *MealRepo { return &MealRepo{db: db} }

const mealCols = `id, store_id, category_id, name_en, name_ar,
  description_en, description_ar, image, price, sale_price,
  created_at, COALESCE(updated_at,'') AS updated_at`

// CreateWithSelections inserts the meal and its attribute selections in one
// transaction so a bad selection leaves nothing behind.
func (r *MealRepo) CreateWithSelections(m domain.Meal, sel []domain.MealAttribute) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO meals(id,store_id,category_id,name_en,name_ar,description_en,description_ar,image,price,sale_price)
	  VALUES(?,?,?,?,?,?,?,?,?,?)
	`, m.ID, m.StoreID, m.CategoryID, m.NameEN, m.NameAR, m.DescriptionEN, m.DescriptionAR, m.Image, m.Price, m.SalePrice); err != nil {
		return err
	}
	if err := insertSelections(tx, m.ID, sel); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateWithSelections rewrites the meal row and replaces its attribute
// selections wholesale (sync-by-replace, never incremental diffing).
func (r *MealRepo) UpdateWithSelections(m domain.Meal, sel []domain.MealAttribute) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  UPDATE meals
	  SET category_id=?, name_en=?, name_ar=?, description_en=?, description_ar=?,
	      image=?, price=?, sale_price=?, updated_at=CURRENT_TIMESTAMP
	  WHERE store_id=? AND id=?
	`, m.CategoryID, m.NameEN, m.NameAR, m.DescriptionEN, m.DescriptionAR, m.Image, m.Price, m.SalePrice, m.StoreID, m.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM meal_attributes WHERE meal_id=?`, m.ID); err != nil {
		return err
	}
	if err := insertSelections(tx, m.ID, sel); err != nil {
		return err
	}
	return tx.Commit()
}

func insertSelections(tx *sqlx.Tx, mealID string, sel []domain.MealAttribute) error {
	for _, s := range sel {
		if _, err := tx.Exec(`
		  INSERT INTO meal_attributes(meal_id,attribute_id,attribute_value_id)
		  VALUES(?,?,?)
		`, mealID, s.AttributeID, s.AttributeValueID); err != nil {
			return err
		}
	}
	return nil
}

func (r *MealRepo) Get(storeID, id string) (domain.Meal, error) {
	var m domain.Meal
	err := r.db.Get(&m, `SELECT `+mealCols+` FROM meals WHERE store_id = ? AND id = ?`, storeID, id)
	return m, err
}

func (r *MealRepo) ListByStore(storeID string) ([]domain.Meal, error) {
	out := []domain.Meal{}
	err := r.db.Select(&out, `
	  SELECT `+mealCols+`
	  FROM meals
	  WHERE store_id = ?
	  ORDER BY name_en, id
	`, storeID)
	return out, err
}

func (r *MealRepo) ListByCategory(storeID, categoryID string) ([]domain.Meal, error) {
	out := []domain.Meal{}
	err := r.db.Select(&out, `
	  SELECT `+mealCols+`
	  FROM meals
	  WHERE store_id = ? AND category_id = ?
	  ORDER BY name_en, id
	`, storeID, categoryID)
	return out, err
}

func (r *MealRepo) Delete(storeID, id string) error {
	_, err := r.db.Exec(`DELETE FROM meals WHERE store_id=? AND id=?`, storeID, id)
	return err
}

// Selections returns the display view of a meal's pinned attribute values.
func (r *MealRepo) Selections(mealID string) ([]domain.MealAttributeView, error) {
	out := []domain.MealAttributeView{}
	err := r.db.Select(&out, `
	  SELECT ma.meal_id, ma.attribute_id, a.name_en AS attribute_name_en, a.name_ar AS attribute_name_ar,
	         ma.attribute_value_id, v.value_en, v.value_ar, v.price_modifier
	  FROM meal_attributes ma
	  JOIN attributes a ON a.id = ma.attribute_id
	  JOIN attribute_values v ON v.id = ma.attribute_value_id
	  WHERE ma.meal_id = ?
	  ORDER BY a.sort_order, a.name_en
	`, mealID)
	return out, err
}
