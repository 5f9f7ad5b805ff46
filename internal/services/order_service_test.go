package services_test

import (
	"context"
	"errors"
	"testing"

	"menuqr/internal/domain"
	"menuqr/internal/services"
)

func TestCreateOrderTableDispatch(t *testing.T) {
	db := memdb(t)
	store := seedStore(t, db, "a")
	cat := mustCategory(t, newCatalog(db, &fakeUploader{}), store, "Mains")
	meal := mustMeal(t, newCatalog(db, &fakeUploader{}), store, cat.ID, 10, nil)

	svc := newOrders(db)
	o, err := svc.Create(store.ID, "", services.CreateOrderInput{
		TableID:    "t-1",
		TableLabel: "Table 1",
		// Delivery fields smuggled alongside must not survive
		Name:    "Mallory",
		Phone:   "+971500000000",
		Address: "somewhere",
		Cart: []services.CartLineInput{
			{ID: meal.ID, Quantity: 2},
		},
		ClientTotal: 5, // wrong on purpose
	})
	if err != nil {
		t.Fatal(err)
	}
	if !o.IsTableOrder() {
		t.Fatal("expected a table order")
	}
	if o.Name != "" || o.Phone != "" || o.Address != "" || o.Location != "" {
		t.Fatalf("delivery fields leaked into table order: %+v", o)
	}
	if o.Status != domain.OrderPending {
		t.Fatalf("status = %q, want pending", o.Status)
	}
	if o.Total != 20 {
		t.Fatalf("total = %v, want 20 (server-side recompute)", o.Total)
	}
}

func TestCreateOrderDeliveryDispatch(t *testing.T) {
	db := memdb(t)
	store := seedStore(t, db, "a")
	catalog := newCatalog(db, &fakeUploader{})
	cat := mustCategory(t, catalog, store, "Mains")
	meal := mustMeal(t, catalog, store, cat.ID, 12.5, nil)

	svc := newOrders(db)
	o, err := svc.Create(store.ID, "", services.CreateOrderInput{
		Name:    "Huda",
		Phone:   "+971501234567",
		Address: "Villa 5, Street 12",
		Note:    "ring the bell",
		Cart:    []services.CartLineInput{{ID: meal.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if o.IsTableOrder() {
		t.Fatal("expected a delivery order")
	}
	if o.TableID != "" || o.TableLabel != "" {
		t.Fatalf("table fields leaked into delivery order: %+v", o)
	}
	if o.Name != "Huda" || o.Note != "ring the bell" {
		t.Fatalf("delivery fields lost: %+v", o)
	}
	if o.Total != 12.5 {
		t.Fatalf("total = %v, want 12.5", o.Total)
	}
}

func TestCreateOrderNeitherShapeRejected(t *testing.T) {
	db := memdb(t)
	store := seedStore(t, db, "a")
	catalog := newCatalog(db, &fakeUploader{})
	cat := mustCategory(t, catalog, store, "Mains")
	meal := mustMeal(t, catalog, store, cat.ID, 10, nil)

	svc := newOrders(db)
	// Partial delivery info: name+phone without address
	_, err := svc.Create(store.ID, "", services.CreateOrderInput{
		Name:  "Huda",
		Phone: "+971501234567",
		Cart:  []services.CartLineInput{{ID: meal.ID, Quantity: 1}},
	})
	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want validation error", err)
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("rejected order was persisted, count = %d", n)
	}
}

func TestCreateOrderEmptyCartRejected(t *testing.T) {
	db := memdb(t)
	store := seedStore(t, db, "a")

	svc := newOrders(db)
	_, err := svc.Create(store.ID, "", services.CreateOrderInput{TableID: "t-1"})
	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCreateOrderUnknownStore(t *testing.T) {
	db := memdb(t)
	svc := newOrders(db)
	_, err := svc.Create("s-nope", "", services.CreateOrderInput{TableID: "t-1"})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateOrderUnknownMealRejected(t *testing.T) {
	db := memdb(t)
	storeA := seedStore(t, db, "a")
	storeB := seedStore(t, db, "b")
	catalog := newCatalog(db, &fakeUploader{})
	cat := mustCategory(t, catalog, storeB, "Mains")
	foreign := mustMeal(t, catalog, storeB, cat.ID, 10, nil)

	svc := newOrders(db)
	// Another store's meal id must look unknown, not just mispriced
	_, err := svc.Create(storeA.ID, "", services.CreateOrderInput{
		TableID: "t-1",
		Cart:    []services.CartLineInput{{ID: foreign.ID, Quantity: 1}},
	})
	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCreateOrderAttributeModifiersAndSalePrice(t *testing.T) {
	db := memdb(t)
	store := seedStore(t, db, "a")
	catalog := newCatalog(db, &fakeUploader{})
	cat := mustCategory(t, catalog, store, "Mains")

	meal, err := catalog.CreateMeal(context.Background(), store, services.MealInput{
		CategoryID: cat.ID, NameEN: "Shawarma", NameAR: "شاورما",
		Price: 10, SalePrice: 8, Image: png(),
		Attributes: map[string]string{"attr-size": "size-medium"},
	})
	if err != nil {
		t.Fatal(err)
	}

	svc := newOrders(db)
	o, err := svc.Create(store.ID, "", services.CreateOrderInput{
		TableID: "t-1",
		Cart: []services.CartLineInput{{
			ID: meal.ID, Quantity: 2,
			SelectedAttributes: []services.SelectedAttributeInput{
				{AttributeID: "attr-size", AttributeValueID: "size-medium"},
			},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	// Sale price wins over price, then the +3 size modifier: (8+3)*2
	if o.Total != 22 {
		t.Fatalf("total = %v, want 22", o.Total)
	}

	lines, err := svc.Lines(o)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].Price != 11 {
		t.Fatalf("snapshot lines = %+v, want one line at unit 11", lines)
	}
	if len(lines[0].SelectedAttributes) != 1 || lines[0].SelectedAttributes[0].ValueEN != "Medium" {
		t.Fatalf("snapshot selections = %+v", lines[0].SelectedAttributes)
	}
}

func TestCreateOrderMismatchedAttributeValueRejected(t *testing.T) {
	db := memdb(t)
	store := seedStore(t, db, "a")
	catalog := newCatalog(db, &fakeUploader{})
	cat := mustCategory(t, catalog, store, "Mains")
	meal := mustMeal(t, catalog, store, cat.ID, 10, nil)

	svc := newOrders(db)
	_, err := svc.Create(store.ID, "", services.CreateOrderInput{
		TableID: "t-1",
		Cart: []services.CartLineInput{{
			ID: meal.ID, Quantity: 1,
			SelectedAttributes: []services.SelectedAttributeInput{
				// spice-hot belongs to attr-spice, not attr-size
				{AttributeID: "attr-size", AttributeValueID: "spice-hot"},
			},
		}},
	})
	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestOrderSnapshotSurvivesMealEdits(t *testing.T) {
	db := memdb(t)
	store := seedStore(t, db, "a")
	catalog := newCatalog(db, &fakeUploader{})
	cat := mustCategory(t, catalog, store, "Mains")
	meal := mustMeal(t, catalog, store, cat.ID, 10, nil)

	svc := newOrders(db)
	o, err := svc.Create(store.ID, "", services.CreateOrderInput{
		TableID: "t-1",
		Cart:    []services.CartLineInput{{ID: meal.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	db.MustExec(`UPDATE meals SET price = 99, name_en = 'Renamed' WHERE id = ?`, meal.ID)

	got, err := svc.Get(store, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	lines, err := svc.Lines(got)
	if err != nil {
		t.Fatal(err)
	}
	if lines[0].Price != 10 || lines[0].NameEN != "Falafel Plate" {
		t.Fatalf("snapshot mutated with the catalog: %+v", lines[0])
	}
	if got.Total != 10 {
		t.Fatalf("total mutated with the catalog: %v", got.Total)
	}
}

func TestUpdateStatusGuards(t *testing.T) {
	db := memdb(t)
	store := seedStore(t, db, "a")
	other := seedStore(t, db, "b")
	catalog := newCatalog(db, &fakeUploader{})
	cat := mustCategory(t, catalog, store, "Mains")
	meal := mustMeal(t, catalog, store, cat.ID, 10, nil)

	svc := newOrders(db)
	o, err := svc.Create(store.ID, "", services.CreateOrderInput{
		TableID: "t-1",
		Cart:    []services.CartLineInput{{ID: meal.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.UpdateStatus(store, o.ID, "preparing"); err == nil {
		t.Fatal("bad status value accepted")
	}
	if _, err := svc.UpdateStatus(other, o.ID, "completed"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("cross-store transition: err = %v, want ErrNotFound", err)
	}

	got, err := svc.UpdateStatus(store, o.ID, "completed")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.OrderCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}

	// Terminal orders stay terminal
	if _, err := svc.UpdateStatus(store, o.ID, "cancelled"); !errors.Is(err, services.ErrStatusFinal) {
		t.Fatalf("err = %v, want ErrStatusFinal", err)
	}
	got, err = svc.Get(store, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.OrderCompleted {
		t.Fatalf("terminal status changed to %q", got.Status)
	}
}
