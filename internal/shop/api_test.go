package shop

import (
	"context"
	"net/http"
	"testing"
)

func TestAPIRoutes(t *testing.T) {
	var method, path, query string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path, query = r.Method, r.URL.Path, r.URL.RawQuery
		_, _ = w.Write([]byte(`{}`))
	})
	api := NewAPI(c)
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func() error
		method string
		path   string
		query  string
	}{
		{"list", func() error { _, err := api.ListProducts(ctx, 3); return err }, "GET", "/api/products", "page=3"},
		{"add", func() error { return api.AddToCart(ctx, 9) }, "POST", "/api/cart/add/9", ""},
		{"cart", func() error { _, err := api.GetCart(ctx); return err }, "GET", "/api/cart", ""},
		{"plus", func() error { return api.PlusItem(ctx, 4) }, "POST", "/api/cart/plus/4", ""},
		{"minus", func() error { return api.MinusItem(ctx, 4) }, "POST", "/api/cart/minus/4", ""},
		{"discard", func() error { return api.DiscardItem(ctx, 4) }, "DELETE", "/api/cart/discard/4", ""},
		{"checkout", func() error { return api.Checkout(ctx) }, "POST", "/api/cart/checkout", ""},
	}
	for _, tc := range tests {
		if err := tc.call(); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if method != tc.method || path != tc.path || query != tc.query {
			t.Fatalf("%s: got %s %s?%s, want %s %s?%s", tc.name, method, path, query, tc.method, tc.path, tc.query)
		}
	}
}

func TestProductPageCursors(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":1,"name":"Milk","price":15000,"stock":2,"image":"m.jpg","code":"PRD-1"}],"current_page":2,"prev_page_url":"/api/products?page=1","next_page_url":null}`))
	})
	page, err := NewAPI(c).ListProducts(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !page.HasPrev() {
		t.Fatalf("expected a previous page")
	}
	if page.HasNext() {
		t.Fatalf("null next_page_url must mean no next page")
	}
	if page.CurrentPage != 2 || len(page.Data) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestCartEmpty(t *testing.T) {
	if !(Cart{}).Empty() {
		t.Fatalf("zero-value cart must be empty")
	}
	if (Cart{Items: []CartItem{{ID: 1}}}).Empty() {
		t.Fatalf("cart with an item must not be empty")
	}
}
