package shop_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"MiniShop/internal/cart"
	"MiniShop/internal/catalog"
	"MiniShop/internal/customer"
	"MiniShop/internal/shop"
)

func newShopTS(t *testing.T) *httptest.Server {
	t.Helper()

	log := zap.NewNop()
	catalogStore := catalog.NewMemStore(catalog.SeedProducts())
	customers := customer.NewMemStore()
	carts := cart.NewMemStore(customers, catalogStore)

	h := shop.NewHandler(&shop.App{
		Catalog:   &catalog.Server{Store: catalogStore, Log: log},
		Customers: &customer.Server{Registry: customers, Log: log},
		Carts:     &cart.Server{Store: carts, Log: log},
	}, shop.HTTPDeps{
		Log:     log,
		Service: "shop-api",
		// Registry: nil
	})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	return v
}

func createCustomer(t *testing.T, baseURL string, body any) customer.Customer {
	t.Helper()

	resp, raw := doJSON(t, http.MethodPost, baseURL+"/api/customers", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create customer status=%d body=%s", resp.StatusCode, raw)
	}
	return decode[customer.Customer](t, raw)
}

func TestAPI_Health(t *testing.T) {
	ts := newShopTS(t)

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/api/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status=%d", resp.StatusCode)
	}

	body := decode[map[string]any](t, raw)
	if body["status"] != "healthy" {
		t.Fatalf("health body=%s", raw)
	}
	if body["timestamp"] == nil {
		t.Fatalf("health missing timestamp: %s", raw)
	}
}

func TestAPI_Customers(t *testing.T) {
	ts := newShopTS(t)

	c1 := createCustomer(t, ts.URL, map[string]any{"name": "Alice", "email": "alice@example.com"})
	if c1.ID == "" || c1.Name != "Alice" || c1.Email != "alice@example.com" {
		t.Fatalf("unexpected customer: %+v", c1)
	}

	// Defaults kick in for an empty body.
	c2 := createCustomer(t, ts.URL, map[string]any{})
	if c2.Name != "John Doe" {
		t.Fatalf("default name: %+v", c2)
	}
	if c2.Email != "user"+c2.ID[:8]+"@example.com" {
		t.Fatalf("default email: %+v", c2)
	}
	if c1.ID == c2.ID {
		t.Fatalf("ids must be unique")
	}

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/api/customers/"+c1.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get customer status=%d", resp.StatusCode)
	}
	if got := decode[customer.Customer](t, raw); got.ID != c1.ID {
		t.Fatalf("get customer mismatch: %+v", got)
	}

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/api/customers/unknown", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing customer status=%d", resp.StatusCode)
	}
	if body := decode[map[string]string](t, raw); body["error"] != "Customer not found" {
		t.Fatalf("missing customer body=%s", raw)
	}
}

func TestAPI_Products(t *testing.T) {
	ts := newShopTS(t)

	type listResp struct {
		Products []catalog.Product `json:"products"`
		Total    int               `json:"total"`
		Page     int               `json:"page"`
		Limit    int               `json:"limit"`
	}

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/api/products?page=1&limit=3", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status=%d", resp.StatusCode)
	}
	page1 := decode[listResp](t, raw)
	if len(page1.Products) != 3 || page1.Total != 10 || page1.Page != 1 || page1.Limit != 3 {
		t.Fatalf("page1=%+v", page1)
	}

	_, raw = doJSON(t, http.MethodGet, ts.URL+"/api/products?page=2&limit=3", nil)
	page2 := decode[listResp](t, raw)
	if len(page2.Products) != 3 {
		t.Fatalf("page2=%+v", page2)
	}
	for _, a := range page1.Products {
		for _, b := range page2.Products {
			if a.ID == b.ID {
				t.Fatalf("pages overlap on product %d", a.ID)
			}
		}
	}

	// Category filter is case-insensitive.
	_, raw = doJSON(t, http.MethodGet, ts.URL+"/api/products?category=electronics", nil)
	lower := decode[listResp](t, raw)
	_, raw = doJSON(t, http.MethodGet, ts.URL+"/api/products?category=Electronics", nil)
	upper := decode[listResp](t, raw)
	if lower.Total != 2 || upper.Total != 2 || len(lower.Products) != len(upper.Products) {
		t.Fatalf("category filter lower=%+v upper=%+v", lower, upper)
	}

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/api/products/1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get product status=%d", resp.StatusCode)
	}
	if p := decode[catalog.Product](t, raw); p.ID != 1 {
		t.Fatalf("get product=%+v", p)
	}

	for _, path := range []string{"/api/products/999", "/api/products/abc"} {
		resp, raw = doJSON(t, http.MethodGet, ts.URL+path, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s status=%d", path, resp.StatusCode)
		}
		if body := decode[map[string]string](t, raw); body["error"] != "Product not found" {
			t.Fatalf("%s body=%s", path, raw)
		}
	}
}

func TestAPI_Search(t *testing.T) {
	ts := newShopTS(t)

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/api/search?q=pro", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status=%d", resp.StatusCode)
	}

	// The response is a bare array, not an envelope.
	hits := decode[[]catalog.Product](t, raw)
	found := map[string]bool{}
	for _, p := range hits {
		found[p.Name] = true
	}
	if !found["iPhone 15 Pro"] || !found["MacBook Pro M3"] {
		t.Fatalf("search hits=%v", found)
	}

	_, raw = doJSON(t, http.MethodGet, ts.URL+"/api/search?q=pro&category=computers", nil)
	hits = decode[[]catalog.Product](t, raw)
	if len(hits) != 1 || hits[0].Name != "MacBook Pro M3" {
		t.Fatalf("filtered search hits=%+v", hits)
	}

	_, raw = doJSON(t, http.MethodGet, ts.URL+"/api/search", nil)
	if hits = decode[[]catalog.Product](t, raw); len(hits) != 10 {
		t.Fatalf("empty query should match all, got %d", len(hits))
	}
}

func TestAPI_CartAdd(t *testing.T) {
	ts := newShopTS(t)
	c := createCustomer(t, ts.URL, nil)

	type addResp struct {
		Message string          `json:"message"`
		Cart    []cart.LineItem `json:"cart"`
	}

	// snake_case fields.
	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/cart", map[string]any{
		"customer_id": c.ID,
		"product_id":  1,
		"quantity":    2,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add status=%d body=%s", resp.StatusCode, raw)
	}
	added := decode[addResp](t, raw)
	if added.Message != "Item added to cart" || len(added.Cart) != 1 || added.Cart[0].Quantity != 2 {
		t.Fatalf("add resp=%+v", added)
	}

	// camelCase variant merges into the same line.
	_, raw = doJSON(t, http.MethodPost, ts.URL+"/api/cart", map[string]any{
		"customerId": c.ID,
		"productId":  1,
	})
	added = decode[addResp](t, raw)
	if len(added.Cart) != 1 || added.Cart[0].Quantity != 3 {
		t.Fatalf("merge resp=%+v", added)
	}

	// Missing ids.
	resp, raw = doJSON(t, http.MethodPost, ts.URL+"/api/cart", map[string]any{"quantity": 1})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing fields status=%d", resp.StatusCode)
	}
	if body := decode[map[string]string](t, raw); body["error"] != "customer_id and product_id are required" {
		t.Fatalf("missing fields body=%s", raw)
	}

	// Unknown customer / product.
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/cart", map[string]any{
		"customer_id": "nobody", "product_id": 1,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown customer status=%d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/cart", map[string]any{
		"customer_id": c.ID, "product_id": 999,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown product status=%d", resp.StatusCode)
	}

	// Over-stock add fails and leaves the cart as it was.
	resp, raw = doJSON(t, http.MethodPost, ts.URL+"/api/cart", map[string]any{
		"customer_id": c.ID, "product_id": 3, "quantity": 26,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("overstock status=%d", resp.StatusCode)
	}
	if body := decode[map[string]string](t, raw); body["error"] != "Insufficient stock" {
		t.Fatalf("overstock body=%s", raw)
	}

	_, raw = doJSON(t, http.MethodGet, ts.URL+"/api/cart/"+c.ID, nil)
	sum := decode[cart.Summary](t, raw)
	if sum.ItemCount != 1 || sum.Items[0].Quantity != 3 {
		t.Fatalf("cart after failed add=%+v", sum)
	}
}

func TestAPI_CartGetAndCheckout(t *testing.T) {
	ts := newShopTS(t)
	c := createCustomer(t, ts.URL, nil)

	// Cart for an unknown customer is 404, not an empty cart.
	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/cart/nobody", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown cart status=%d", resp.StatusCode)
	}

	// Checkout with nothing in the cart.
	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/cart/"+c.ID+"/checkout", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty checkout status=%d", resp.StatusCode)
	}
	if body := decode[map[string]string](t, raw); body["error"] != "Cart is empty" {
		t.Fatalf("empty checkout body=%s", raw)
	}

	for _, add := range []map[string]any{
		{"customer_id": c.ID, "product_id": 5, "quantity": 2},
		{"customer_id": c.ID, "product_id": 7},
	} {
		if resp, raw = doJSON(t, http.MethodPost, ts.URL+"/api/cart", add); resp.StatusCode != http.StatusOK {
			t.Fatalf("add status=%d body=%s", resp.StatusCode, raw)
		}
	}

	_, raw = doJSON(t, http.MethodGet, ts.URL+"/api/cart/"+c.ID, nil)
	sum := decode[cart.Summary](t, raw)
	wantTotal := 2*399.99 + 129.99
	if sum.ItemCount != 2 || sum.Total != wantTotal {
		t.Fatalf("cart summary=%+v", sum)
	}

	resp, raw = doJSON(t, http.MethodPost, ts.URL+"/api/cart/"+c.ID+"/checkout", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("checkout status=%d body=%s", resp.StatusCode, raw)
	}
	receipt := decode[cart.Receipt](t, raw)
	if receipt.OrderID == "" || receipt.CustomerID != c.ID || receipt.Total != wantTotal || receipt.Status != "completed" {
		t.Fatalf("receipt=%+v", receipt)
	}

	// Checkout emptied the cart.
	_, raw = doJSON(t, http.MethodGet, ts.URL+"/api/cart/"+c.ID, nil)
	if sum = decode[cart.Summary](t, raw); sum.ItemCount != 0 || sum.Total != 0 {
		t.Fatalf("cart after checkout=%+v", sum)
	}
}
