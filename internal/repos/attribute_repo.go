package repos

import (
	"github.com/jmoiron/sqlx"

	"menuqr/internal/domain"
)

type AttributeRepo struct{ db *sqlx.DB }

func NewAttributeRepo(db *sqlx.DB) *AttributeRepo { return &AttributeRepo{db: db} }

func (r *AttributeRepo) List() ([]domain.Attribute, error) {
	out := []domain.Attribute{}
	err := r.db.Select(&out, `
	  SELECT id, name_en, name_ar, type, is_required, sort_order
	  FROM attributes
	  ORDER BY sort_order, name_en
	`)
	return out, err
}

func (r *AttributeRepo) Values(attributeID string) ([]domain.AttributeValue, error) {
	out := []domain.AttributeValue{}
	err := r.db.Select(&out, `
	  SELECT id, attribute_id, value_en, value_ar, price_modifier, sort_order
	  FROM attribute_values
	  WHERE attribute_id = ?
	  ORDER BY sort_order, value_en
	`, attributeID)
	return out, err
}

func (r *AttributeRepo) Value(id string) (domain.AttributeValue, error) {
	var v domain.AttributeValue
	err := r.db.Get(&v, `
	  SELECT id, attribute_id, value_en, value_ar, price_modifier, sort_order
	  FROM attribute_values
	  WHERE id = ?
	`, id)
	return v, err
}
