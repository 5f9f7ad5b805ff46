package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"menuqr/internal/domain"
	"menuqr/internal/repos"
	"menuqr/internal/services"
	"menuqr/internal/storage"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeUploader records uploads; optionally fails to simulate a dead CDN.
type fakeUploader struct {
	fail    bool
	uploads []string
	last    []byte
}

func (f *fakeUploader) Upload(ctx context.Context, folder, name string, data []byte) (string, error) {
	if f.fail {
		return "", errors.New("upstream unavailable")
	}
	url := "https://cdn.test/" + folder + "/" + name
	f.uploads = append(f.uploads, url)
	f.last = data
	return url, nil
}

func seedStore(t *testing.T, db *sqlx.DB, suffix string) domain.Store {
	t.Helper()
	userID := "u-owner-" + suffix
	storeID := "s-" + suffix
	db.MustExec(`INSERT INTO users(id,email,name,password_hash,role) VALUES(?,?,?,?,'OWNER')`,
		userID, "owner-"+suffix+"@test.dev", "Owner "+suffix, "x")
	db.MustExec(`INSERT INTO stores(id,user_id,name,slug,image,country_id) VALUES(?,?,?,?,?,?)`,
		storeID, userID, "Store "+suffix, "store-"+suffix, "https://cdn.test/logo.png", "country-ae")
	s, err := repos.NewStoreRepo(db).ByID(storeID)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func newCatalog(db *sqlx.DB, files storage.Uploader) *services.CatalogService {
	return &services.CatalogService{
		Cats:      repos.NewCategoryRepo(db),
		Meals:     repos.NewMealRepo(db),
		Attrs:     repos.NewAttributeRepo(db),
		Stores:    repos.NewStoreRepo(db),
		Countries: repos.NewCountryRepo(db),
		Tables:    repos.NewTableRepo(db),
		Orders:    repos.NewOrderRepo(db),
		Files:     files,
	}
}

func newOrders(db *sqlx.DB) *services.OrderService {
	return &services.OrderService{
		Orders: repos.NewOrderRepo(db),
		Meals:  repos.NewMealRepo(db),
		Attrs:  repos.NewAttributeRepo(db),
		Stores: repos.NewStoreRepo(db),
	}
}

func png() *storage.File {
	return &storage.File{Name: "pic.png", Data: []byte{0x89, 'P', 'N', 'G'}}
}

func mustCategory(t *testing.T, svc *services.CatalogService, store domain.Store, nameEN string) domain.Category {
	t.Helper()
	cat, err := svc.CreateCategory(context.Background(), store, services.CategoryInput{
		NameEN: nameEN, NameAR: "تصنيف", Image: png(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func mustMeal(t *testing.T, svc *services.CatalogService, store domain.Store, catID string, price float64, attrs map[string]string) domain.Meal {
	t.Helper()
	m, err := svc.CreateMeal(context.Background(), store, services.MealInput{
		CategoryID: catID, NameEN: "Falafel Plate", NameAR: "صحن فلافل",
		Price: price, Image: png(), Attributes: attrs,
	})
	if err != nil {
		t.Fatal(err)
	}
	return m
}
