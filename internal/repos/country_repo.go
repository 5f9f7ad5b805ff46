package repos

import (
	"github.com/jmoiron/sqlx"

	"menuqr/internal/domain"
)

type CountryRepo struct{ db *sqlx.DB }

func NewCountryRepo(db *sqlx.DB) *CountryRepo { return &CountryRepo{db: db} }

func (r *CountryRepo) List() ([]domain.Country, error) {
	var out []domain.Country
	err := r.db.Select(&out, `
	  SELECT id, name_en, name_ar, currency_en, currency_ar, code
	  FROM countries
	  ORDER BY name_en
	`)
	return out, err
}

func (r *CountryRepo) ByID(id string) (domain.Country, error) {
	var c domain.Country
	err := r.db.Get(&c, `
	  SELECT id, name_en, name_ar, currency_en, currency_ar, code
	  FROM countries
	  WHERE id = ?
	`, id)
	return c, err
}
