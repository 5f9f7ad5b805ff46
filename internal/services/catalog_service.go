package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"

	"github.com/google/uuid"

	"menuqr/internal/domain"
	"menuqr/internal/repos"
	"menuqr/internal/storage"
	"menuqr/internal/validate"
)

// CatalogService owns category and meal CRUD plus the public menu read.
// Every mutating call takes the resolved store context; client-supplied
// store ids are never trusted.
type CatalogService struct {
	Cats      *repos.CategoryRepo
	Meals     *repos.MealRepo
	Attrs     *repos.AttributeRepo
	Stores    *repos.StoreRepo
	Countries *repos.CountryRepo
	Tables    *repos.TableRepo
	Orders    *repos.OrderRepo
	Files     storage.Uploader
}

type CategoryInput struct {
	NameEN   string
	NameAR   string
	Position int
	Image    *storage.File
}

type MealInput struct {
	CategoryID    string
	NameEN        string
	NameAR        string
	DescriptionEN string
	DescriptionAR string
	Price         float64
	SalePrice     float64
	Image         *storage.File
	// Attributes maps attribute id -> attribute value id; the set replaces
	// any prior selections wholesale.
	Attributes map[string]string
}

func (s *CatalogService) uploadImage(ctx context.Context, folder string, f *storage.File) (string, error) {
	return s.Files.Upload(ctx, folder, uuid.NewString()+filepath.Ext(f.Name), f.Data)
}

func validBilingual(ve *ValidationError, en, ar *string) {
	var ok bool
	if *en, ok = validate.Text(*en, 255); !ok {
		ve.add("name_en", "english name is required")
	}
	if *ar, ok = validate.Text(*ar, 255); !ok {
		ve.add("name_ar", "arabic name is required")
	}
}

func validImage(ve *ValidationError, field string, f *storage.File, required bool) {
	if f == nil || len(f.Data) == 0 {
		if required {
			ve.add(field, "image is required")
		}
		return
	}
	if !validate.ImageExt(filepath.Ext(f.Name)) {
		ve.add(field, "image must be jpeg, png, gif or webp")
	}
}

// ---------- Categories ----------

func (s *CatalogService) CreateCategory(ctx context.Context, store domain.Store, in CategoryInput) (domain.Category, error) {
	ve := &ValidationError{}
	validBilingual(ve, &in.NameEN, &in.NameAR)
	validImage(ve, "image", in.Image, true)
	if err := ve.orNil(); err != nil {
		return domain.Category{}, err
	}

	img, err := s.uploadImage(ctx, "categories", in.Image)
	if err != nil {
		return domain.Category{}, err
	}
	c := domain.Category{
		ID:       uuid.NewString(),
		StoreID:  store.ID,
		NameEN:   in.NameEN,
		NameAR:   in.NameAR,
		Image:    img,
		Position: in.Position,
	}
	if err := s.Cats.Create(c); err != nil {
		return domain.Category{}, err
	}
	return s.Cats.Get(store.ID, c.ID)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, store domain.Store, id string, in CategoryInput) (domain.Category, error) {
	c, err := s.Cats.Get(store.ID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, ErrNotFound
	} else if err != nil {
		return domain.Category{}, err
	}

	ve := &ValidationError{}
	validBilingual(ve, &in.NameEN, &in.NameAR)
	validImage(ve, "image", in.Image, false)
	if err := ve.orNil(); err != nil {
		return domain.Category{}, err
	}

	// Image optional on update; keep the existing artifact otherwise.
	if in.Image != nil && len(in.Image.Data) > 0 {
		img, err := s.uploadImage(ctx, "categories", in.Image)
		if err != nil {
			return domain.Category{}, err
		}
		c.Image = img
	}
	c.NameEN, c.NameAR, c.Position = in.NameEN, in.NameAR, in.Position
	if err := s.Cats.Update(c); err != nil {
		return domain.Category{}, err
	}
	return s.Cats.Get(store.ID, id)
}

// DeleteCategory blocks while meals still reference the category.
func (s *CatalogService) DeleteCategory(store domain.Store, id string) error {
	if _, err := s.Cats.Get(store.ID, id); errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	n, err := s.Cats.MealCount(id)
	if err != nil {
		return err
	}
	if n > 0 {
		return invalid("category", "category still has meals; move or delete them first")
	}
	return s.Cats.Delete(store.ID, id)
}

// ---------- Meals ----------

func (s *CatalogService) validateMeal(store domain.Store, in *MealInput, requireImage bool) ([]domain.MealAttribute, error) {
	ve := &ValidationError{}
	validBilingual(ve, &in.NameEN, &in.NameAR)
	validImage(ve, "image", in.Image, requireImage)
	if !validate.Money(in.Price) {
		ve.add("price", "invalid price")
	}
	if in.SalePrice != 0 && !validate.Money(in.SalePrice) {
		ve.add("sale_price", "invalid sale price")
	}
	if in.SalePrice > in.Price {
		ve.add("sale_price", "sale price cannot exceed price")
	}
	if _, err := s.Cats.Get(store.ID, in.CategoryID); errors.Is(err, sql.ErrNoRows) {
		ve.add("category_id", "unknown category")
	} else if err != nil {
		return nil, err
	}

	sel := make([]domain.MealAttribute, 0, len(in.Attributes))
	for attrID, valueID := range in.Attributes {
		v, err := s.Attrs.Value(valueID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && v.AttributeID != attrID) {
			ve.add("attributes", "attribute value does not belong to attribute")
			continue
		} else if err != nil {
			return nil, err
		}
		sel = append(sel, domain.MealAttribute{AttributeID: attrID, AttributeValueID: valueID})
	}

	return sel, ve.orNil()
}

func (s *CatalogService) CreateMeal(ctx context.Context, store domain.Store, in MealInput) (domain.Meal, error) {
	sel, err := s.validateMeal(store, &in, true)
	if err != nil {
		return domain.Meal{}, err
	}
	img, err := s.uploadImage(ctx, "meals", in.Image)
	if err != nil {
		return domain.Meal{}, err
	}
	m := domain.Meal{
		ID:            uuid.NewString(),
		StoreID:       store.ID,
		CategoryID:    in.CategoryID,
		NameEN:        in.NameEN,
		NameAR:        in.NameAR,
		DescriptionEN: in.DescriptionEN,
		DescriptionAR: in.DescriptionAR,
		Image:         img,
		Price:         in.Price,
		SalePrice:     in.SalePrice,
	}
	for i := range sel {
		sel[i].MealID = m.ID
	}
	if err := s.Meals.CreateWithSelections(m, sel); err != nil {
		return domain.Meal{}, err
	}
	return s.Meals.Get(store.ID, m.ID)
}

func (s *CatalogService) UpdateMeal(ctx context.Context, store domain.Store, id string, in MealInput) (domain.Meal, error) {
	m, err := s.Meals.Get(store.ID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Meal{}, ErrNotFound
	} else if err != nil {
		return domain.Meal{}, err
	}

	sel, err := s.validateMeal(store, &in, false)
	if err != nil {
		return domain.Meal{}, err
	}
	if in.Image != nil && len(in.Image.Data) > 0 {
		img, err := s.uploadImage(ctx, "meals", in.Image)
		if err != nil {
			return domain.Meal{}, err
		}
		m.Image = img
	}
	m.CategoryID = in.CategoryID
	m.NameEN, m.NameAR = in.NameEN, in.NameAR
	m.DescriptionEN, m.DescriptionAR = in.DescriptionEN, in.DescriptionAR
	m.Price, m.SalePrice = in.Price, in.SalePrice
	for i := range sel {
		sel[i].MealID = m.ID
	}
	if err := s.Meals.UpdateWithSelections(m, sel); err != nil {
		return domain.Meal{}, err
	}
	return s.Meals.Get(store.ID, id)
}

func (s *CatalogService) DeleteMeal(store domain.Store, id string) error {
	if _, err := s.Meals.Get(store.ID, id); errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return s.Meals.Delete(store.ID, id)
}

// ---------- Reads ----------

type MealView struct {
	domain.Meal
	Attributes []domain.MealAttributeView `json:"attributes"`
}

type MenuCategory struct {
	domain.Category
	Meals []MealView `json:"meals"`
}

type MenuView struct {
	Store      domain.Store   `json:"store"`
	Currency   string         `json:"currency"`
	CurrencyAR string         `json:"currency_ar"`
	Categories []MenuCategory `json:"categories"`
	Table      string         `json:"table,omitempty"`
}

// Menu assembles the anonymous read model for a store's public page.
func (s *CatalogService) Menu(storeID, table string) (MenuView, error) {
	store, err := s.Stores.ByID(storeID)
	if errors.Is(err, sql.ErrNoRows) {
		return MenuView{}, ErrNotFound
	} else if err != nil {
		return MenuView{}, err
	}

	view := MenuView{Store: store, Table: table}
	if store.CountryID != "" {
		if country, err := s.Countries.ByID(store.CountryID); err == nil {
			view.Currency = country.CurrencyEN
			view.CurrencyAR = country.CurrencyAR
		}
	}

	cats, err := s.Cats.ListByStore(store.ID)
	if err != nil {
		return MenuView{}, err
	}
	for _, c := range cats {
		meals, err := s.Meals.ListByCategory(store.ID, c.ID)
		if err != nil {
			return MenuView{}, err
		}
		mc := MenuCategory{Category: c, Meals: make([]MealView, 0, len(meals))}
		for _, m := range meals {
			attrs, err := s.Meals.Selections(m.ID)
			if err != nil {
				return MenuView{}, err
			}
			mc.Meals = append(mc.Meals, MealView{Meal: m, Attributes: attrs})
		}
		view.Categories = append(view.Categories, mc)
	}
	return view, nil
}

type DashboardView struct {
	Store      domain.Store      `json:"store"`
	Categories []domain.Category `json:"categories"`
	Meals      []MealView        `json:"meals"`
	Tables     []domain.Table    `json:"tables"`
	Orders     []domain.Order    `json:"orders"`
	Stats      repos.OrderStats  `json:"stats"`
}

// DashboardData gathers everything the owner dashboard shows in one call.
func (s *CatalogService) DashboardData(store domain.Store) (DashboardView, error) {
	view := DashboardView{Store: store}
	var err error

	if view.Categories, err = s.Cats.ListByStore(store.ID); err != nil {
		return DashboardView{}, err
	}
	meals, err := s.Meals.ListByStore(store.ID)
	if err != nil {
		return DashboardView{}, err
	}
	view.Meals = make([]MealView, 0, len(meals))
	for _, m := range meals {
		attrs, err := s.Meals.Selections(m.ID)
		if err != nil {
			return DashboardView{}, err
		}
		view.Meals = append(view.Meals, MealView{Meal: m, Attributes: attrs})
	}
	if view.Tables, err = s.Tables.ListByStore(store.ID); err != nil {
		return DashboardView{}, err
	}
	if view.Orders, err = s.Orders.ListByStore(store.ID, 100); err != nil {
		return DashboardView{}, err
	}
	if view.Stats, err = s.Orders.Stats(store.ID); err != nil {
		return DashboardView{}, err
	}
	return view, nil
}
