package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"testing"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"menuqr/internal/config"
	"menuqr/internal/domain"
	"menuqr/internal/http/handlers"
	"menuqr/internal/repos"
	"menuqr/internal/services"
)

// stubUploader keeps artifacts out of the filesystem during handler tests.
type stubUploader struct {
	fail bool
}

func (s *stubUploader) Upload(ctx context.Context, folder, name string, data []byte) (string, error) {
	if s.fail {
		return "", errors.New("upstream unavailable")
	}
	return "https://cdn.test/" + folder + "/" + name, nil
}

// newApp wires the real handlers over an in-memory database, mirroring the
// production route table minus the throttles.
func newApp(t *testing.T) (*fiber.App, *sqlx.DB, *handlers.Deps) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{Port: "8080", BaseURL: "https://menuqr.test"}
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	deps := handlers.NewDeps(db, cfg, authSvc, &stubUploader{})
	owner := handlers.RequireOwner(authSvc, deps.StoreRepo)

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})

	app.Get("/store/home/:store_name/:store_id/:table?", deps.MenuHandler.Home)
	app.Get("/register/store", deps.StoreHandler.RegisterPage)
	app.Post("/register/store", deps.StoreHandler.Register)
	app.Get("/store/dashboard", owner, deps.StoreHandler.Dashboard)
	app.Get("/store/dashboard/data", owner, deps.StoreHandler.DashboardData)
	app.Post("/store/categories", owner, deps.CategoryHandler.Create)
	app.Put("/store/categories/:id", owner, deps.CategoryHandler.Update)
	app.Delete("/store/categories/:id", owner, deps.CategoryHandler.Delete)
	app.Post("/store/meals", owner, deps.MealHandler.Create)
	app.Post("/store/tables", owner, deps.TableHandler.Create)
	app.Post("/store/create/order", deps.OrderHandler.Create)
	app.Post("/store/order/:id/status", owner, deps.OrderHandler.UpdateStatus)
	app.Get("/store/order/:id", owner, deps.OrderHandler.View)

	return app, db, deps
}

// seedOwner inserts an owner, their store and a live session, returning the
// store and the sid cookie value that authenticates as them.
func seedOwner(t *testing.T, db *sqlx.DB, suffix string) (domain.Store, string) {
	t.Helper()
	userID := "u-owner-" + suffix
	storeID := "s-" + suffix
	sid := "sid-" + suffix
	db.MustExec(`INSERT INTO users(id,email,name,password_hash,role) VALUES(?,?,?,?,'OWNER')`,
		userID, "owner-"+suffix+"@test.dev", "Owner "+suffix, "x")
	db.MustExec(`INSERT INTO stores(id,user_id,name,slug,image,country_id) VALUES(?,?,?,?,?,?)`,
		storeID, userID, "Store "+suffix, "store-"+suffix, "https://cdn.test/logo.png", "country-ae")
	db.MustExec(`INSERT INTO sessions(id,user_id) VALUES(?,?)`, sid, userID)

	store, err := repos.NewStoreRepo(db).ByID(storeID)
	if err != nil {
		t.Fatal(err)
	}
	return store, sid
}

// multipartBody builds form bodies the way the dashboard submits them.
type multipartBody struct {
	buf bytes.Buffer
	w   *multipart.Writer
}

func (m *multipartBody) writer() *multipart.Writer {
	if m.w == nil {
		m.w = multipart.NewWriter(&m.buf)
	}
	return m.w
}

func (m *multipartBody) field(t *testing.T, name, value string) {
	t.Helper()
	if err := m.writer().WriteField(name, value); err != nil {
		t.Fatal(err)
	}
}

func (m *multipartBody) file(t *testing.T, field, name string, data []byte) {
	t.Helper()
	fw, err := m.writer().CreateFormFile(field, name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatal(err)
	}
}

func (m *multipartBody) contentType() string { return m.writer().FormDataContentType() }

func (m *multipartBody) reader() io.Reader {
	_ = m.writer().Close()
	return &m.buf
}

// placeOrderInput is a minimal valid table order for one meal.
func placeOrderInput(mealID string) services.CreateOrderInput {
	return services.CreateOrderInput{
		TableID: "t-1",
		Cart:    []services.CartLineInput{{ID: mealID, Quantity: 1}},
	}
}

// seedMeal puts one category and one meal into the store, bypassing uploads.
func seedMeal(t *testing.T, db *sqlx.DB, storeID string, price float64) domain.Meal {
	t.Helper()
	catID := "c-" + storeID
	mealID := "m-" + storeID
	db.MustExec(`INSERT INTO categories(id,store_id,name_en,name_ar,image) VALUES(?,?,?,?,?)`,
		catID, storeID, "Mains", "أطباق رئيسية", "https://cdn.test/cat.png")
	db.MustExec(`INSERT INTO meals(id,store_id,category_id,name_en,name_ar,image,price) VALUES(?,?,?,?,?,?,?)`,
		mealID, storeID, catID, "Falafel Plate", "صحن فلافل", "https://cdn.test/meal.png", price)
	m, err := repos.NewMealRepo(db).Get(storeID, mealID)
	if err != nil {
		t.Fatal(err)
	}
	return m
}
