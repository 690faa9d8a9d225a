package stubshop

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/supermarket-poc-v1/client/internal/cart"
	"github.com/supermarket-poc-v1/client/internal/catalog"
	errx "github.com/supermarket-poc-v1/client/internal/core/error"
	"github.com/supermarket-poc-v1/client/internal/notify"
	"github.com/supermarket-poc-v1/client/internal/shop"
)

const never = time.Hour

func newAPI(t *testing.T, srv *Server) *shop.API {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	cfg := shop.Config{BaseURL: ts.URL, Timeout: 5}
	return shop.NewAPI(cfg.New())
}

func seedOne(srv *Server, name string, price, stock int64) {
	srv.Seed(shop.Product{Name: name, Price: price, Stock: stock, Image: name + ".jpg"})
}

func TestListingPaginatesAndHidesOutOfStock(t *testing.T) {
	srv := New()
	for i := 0; i < 7; i++ {
		seedOne(srv, "produk", 1000, 2)
	}
	seedOne(srv, "habis", 1000, 0)
	api := newAPI(t, srv)
	ctx := context.Background()

	p1, err := api.ListProducts(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p1.Data) != 5 || !p1.HasNext() || p1.HasPrev() {
		t.Fatalf("unexpected first page: %+v", p1)
	}

	p2, err := api.ListProducts(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p2.Data) != 2 || p2.HasNext() || !p2.HasPrev() {
		t.Fatalf("unexpected last page: %+v", p2)
	}
	for _, p := range append(p1.Data, p2.Data...) {
		if p.Stock == 0 {
			t.Fatalf("out-of-stock product leaked into the listing: %+v", p)
		}
		if p.Code == "" {
			t.Fatalf("seeded product must get a code")
		}
	}
}

func TestCreateProductValidation(t *testing.T) {
	srv := New()
	api := newAPI(t, srv)

	img := filepath.Join(t.TempDir(), "img.jpg")
	if err := os.WriteFile(img, []byte("jpeg"), 0o600); err != nil {
		t.Fatal(err)
	}

	// Missing name and non-numeric price are both reported per field.
	err := api.CreateProduct(context.Background(), shop.ProductForm{Price: "abc", Stock: "1", Image: img})
	e, ok := errx.From(err)
	if !ok || !e.Validation() {
		t.Fatalf("expected 422, got %v", err)
	}
	if len(e.Fields["name"]) == 0 || len(e.Fields["price"]) == 0 {
		t.Fatalf("expected per-field messages, got %+v", e.Fields)
	}
}

func TestCreateThenListRoundTrip(t *testing.T) {
	srv := New()
	api := newAPI(t, srv)
	ctx := context.Background()

	img := filepath.Join(t.TempDir(), "milk.jpg")
	if err := os.WriteFile(img, []byte("jpeg"), 0o600); err != nil {
		t.Fatal(err)
	}
	form := shop.ProductForm{Name: "Susu", Price: "15000", Stock: "3", Image: img}
	if err := api.CreateProduct(ctx, form); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page, err := api.ListProducts(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Name != "Susu" || page.Data[0].Price != 15000 {
		t.Fatalf("created product missing from listing: %+v", page)
	}
}

func TestCartArithmeticIsServerSide(t *testing.T) {
	srv := New()
	seedOne(srv, "Susu", 15000, 3)
	api := newAPI(t, srv)
	ctx := context.Background()

	if err := api.AddToCart(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, err := api.GetCart(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].Quantity != 1 || c.Total != 15000 {
		t.Fatalf("unexpected cart: %+v", c)
	}

	if err := api.PlusItem(ctx, c.Items[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, _ = api.GetCart(ctx)
	if c.Items[0].Subtotal != 30000 || c.Total != 30000 {
		t.Fatalf("server must compute subtotal and total: %+v", c)
	}
}

func TestPlusBeyondStockFailsWith400(t *testing.T) {
	srv := New()
	seedOne(srv, "Susu", 15000, 1)
	api := newAPI(t, srv)
	ctx := context.Background()

	if err := api.AddToCart(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, _ := api.GetCart(ctx)

	err := api.PlusItem(ctx, c.Items[0].ID)
	if err == nil {
		t.Fatalf("expected failure once stock is exhausted")
	}
}

func TestEndToEndThroughControllers(t *testing.T) {
	srv := New()
	seedOne(srv, "Susu", 15000, 2)
	api := newAPI(t, srv)
	ctx := context.Background()

	catNotes := notify.NewWithTTL(never, never)
	defer catNotes.Close()
	cat := catalog.New(api, catNotes)
	defer cat.Close()

	cat.FetchPage(ctx, 1)
	if len(cat.Page().Data) != 1 {
		t.Fatalf("expected the seeded product: %+v", cat.Page())
	}
	cat.AddToCart(ctx, cat.Page().Data[0].ID)
	if !catNotes.Visible(notify.Success) {
		t.Fatalf("add to cart should have succeeded")
	}

	crtNotes := notify.NewWithTTL(never, never)
	defer crtNotes.Close()
	crt := cart.New(api, crtNotes)
	defer crt.Close()

	crt.FetchCart(ctx)
	if crt.Empty() || crt.Cart().Total != 15000 {
		t.Fatalf("unexpected cart state: %+v", crt.Cart())
	}
	itemID := crt.Cart().Items[0].ID

	// One unit of stock left: the first increment succeeds, the second
	// hits the dedicated insufficient-stock message.
	crt.Increment(ctx, itemID)
	if got := crt.Cart().Total; got != 30000 {
		t.Fatalf("expected the refetched server total, got %d", got)
	}
	crt.Increment(ctx, itemID)
	if got := crtNotes.Message(notify.Error); got != "Stok tidak mencukupi." {
		t.Fatalf("expected the stock message, got %q", got)
	}

	if !crt.Checkout(ctx) {
		t.Fatalf("checkout must be accepted")
	}
	if !crt.Empty() {
		t.Fatalf("checkout must clear the cart: %+v", crt.Cart())
	}
}

func TestMinusRemovesLineAtZero(t *testing.T) {
	srv := New()
	seedOne(srv, "Susu", 15000, 3)
	api := newAPI(t, srv)
	ctx := context.Background()

	_ = api.AddToCart(ctx, 1)
	c, _ := api.GetCart(ctx)
	if err := api.MinusItem(ctx, c.Items[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, _ = api.GetCart(ctx)
	if !c.Empty() {
		t.Fatalf("line at quantity zero must disappear: %+v", c)
	}

	// The unit went back to stock.
	page, _ := api.ListProducts(ctx, 1)
	if page.Data[0].Stock != 3 {
		t.Fatalf("expected stock restored, got %d", page.Data[0].Stock)
	}
}

func TestDiscardRestoresStock(t *testing.T) {
	srv := New()
	seedOne(srv, "Susu", 15000, 2)
	api := newAPI(t, srv)
	ctx := context.Background()

	_ = api.AddToCart(ctx, 1)
	_ = api.AddToCart(ctx, 1)
	c, _ := api.GetCart(ctx)
	if c.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %+v", c)
	}
	if err := api.DiscardItem(ctx, c.Items[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	page, _ := api.ListProducts(ctx, 1)
	if page.Data[0].Stock != 2 {
		t.Fatalf("expected full stock restored, got %d", page.Data[0].Stock)
	}
}
