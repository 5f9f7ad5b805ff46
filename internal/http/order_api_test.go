package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"menuqr/internal/domain"
)

func postJSON(t *testing.T, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeOrder(t *testing.T, resp *http.Response) domain.Order {
	t.Helper()
	var payload struct {
		Order domain.Order `json:"order"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatal(err)
	}
	return payload.Order
}

// The public order endpoint accepts the page-bridge shape: the cart arrives
// as a JSON-stringified array and the total as a string.
func TestOrderEndpointTableFlow(t *testing.T) {
	app, db, _ := newApp(t)
	store, _ := seedOwner(t, db, "a")
	meal := seedMeal(t, db, store.ID, 10)

	body := `{
		"store_id": "` + store.ID + `",
		"table_id": "t-1",
		"table": "Table 1",
		"order": "[{\"id\":\"` + meal.ID + `\",\"quantity\":2}]",
		"total": "5"
	}`
	resp, err := app.Test(postJSON(t, "/store/create/order", body))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	o := decodeOrder(t, resp)
	if !o.IsTableOrder() || o.Status != domain.OrderPending {
		t.Fatalf("order = %+v", o)
	}
	if o.Total != 20 {
		t.Fatalf("total = %v, want 20 (client total ignored)", o.Total)
	}
}

func TestOrderEndpointDeliveryFlow(t *testing.T) {
	app, db, _ := newApp(t)
	store, _ := seedOwner(t, db, "a")
	meal := seedMeal(t, db, store.ID, 12)

	body := `{
		"store_id": "` + store.ID + `",
		"name": "Huda",
		"phone": "+971501234567",
		"address": "Villa 5, Street 12",
		"order": [{"id": "` + meal.ID + `", "quantity": 1}],
		"total": 12
	}`
	resp, err := app.Test(postJSON(t, "/store/create/order", body))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	o := decodeOrder(t, resp)
	if o.IsTableOrder() || o.Name != "Huda" {
		t.Fatalf("order = %+v", o)
	}
}

func TestOrderEndpointRejectsPartialDelivery(t *testing.T) {
	app, db, _ := newApp(t)
	store, _ := seedOwner(t, db, "a")
	meal := seedMeal(t, db, store.ID, 10)

	body := `{
		"store_id": "` + store.ID + `",
		"name": "Huda",
		"order": [{"id": "` + meal.ID + `", "quantity": 1}]
	}`
	resp, err := app.Test(postJSON(t, "/store/create/order", body))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("rejected order persisted, count = %d", n)
	}
}

func TestOrderEndpointMalformedCart(t *testing.T) {
	app, db, _ := newApp(t)
	store, _ := seedOwner(t, db, "a")

	body := `{"store_id": "` + store.ID + `", "table_id": "t-1", "order": "not a json array"}`
	resp, err := app.Test(postJSON(t, "/store/create/order", body))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestOrderStatusRequiresOwner(t *testing.T) {
	app, db, deps := newApp(t)
	store, sid := seedOwner(t, db, "a")
	_, otherSID := seedOwner(t, db, "b")
	meal := seedMeal(t, db, store.ID, 10)

	o, err := deps.OrderHandler.Orders.Create(store.ID, "", placeOrderInput(meal.ID))
	if err != nil {
		t.Fatal(err)
	}

	// No session
	req := httptest.NewRequest("POST", "/store/order/"+o.ID+"/status", strings.NewReader("status=completed"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	// A different owner can't see the order at all
	req = httptest.NewRequest("POST", "/store/order/"+o.ID+"/status", strings.NewReader("status=completed"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "sid", Value: otherSID})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("cross-store status = %d, want 404", resp.StatusCode)
	}

	// The owner completes it
	req = httptest.NewRequest("POST", "/store/order/"+o.ID+"/status", strings.NewReader("status=completed"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	// Terminal orders answer 409 on a second transition
	req = httptest.NewRequest("POST", "/store/order/"+o.ID+"/status", strings.NewReader("status=cancelled"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestOrderViewDecodesSnapshot(t *testing.T) {
	app, db, deps := newApp(t)
	store, sid := seedOwner(t, db, "a")
	meal := seedMeal(t, db, store.ID, 10)

	o, err := deps.OrderHandler.Orders.Create(store.ID, "", placeOrderInput(meal.ID))
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/store/order/"+o.ID, nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var payload struct {
		Order domain.Order      `json:"order"`
		Items []domain.CartLine `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Items) != 1 || payload.Items[0].NameEN != "Falafel Plate" {
		t.Fatalf("items = %+v", payload.Items)
	}
}
