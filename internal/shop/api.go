package shop

import (
	"context"
	"fmt"
)

// API binds the service's endpoints to typed requests and responses.
type API struct {
	c *Client
}

// NewAPI wraps a transport client.
func NewAPI(c *Client) *API {
	return &API{c: c}
}

// Client exposes the underlying transport, for image URL derivation.
func (a *API) Client() *Client {
	return a.c
}

// ListProducts fetches one page of the catalog.
func (a *API) ListProducts(ctx context.Context, page int) (ProductPage, error) {
	var p ProductPage
	err := a.c.Get(ctx, fmt.Sprintf("/products?page=%d", page), &p)
	return p, err
}

// CreateProduct uploads a new product as a multipart form.
func (a *API) CreateProduct(ctx context.Context, form ProductForm) error {
	fields := map[string]string{
		"name":  form.Name,
		"price": form.Price,
		"stock": form.Stock,
	}
	return a.c.Upload(ctx, "/products", fields, "image", form.Image, nil)
}

// AddToCart puts one unit of the product into the cart.
func (a *API) AddToCart(ctx context.Context, productID int64) error {
	return a.c.Post(ctx, fmt.Sprintf("/cart/add/%d", productID), nil, nil)
}

// GetCart fetches the authoritative cart state.
func (a *API) GetCart(ctx context.Context) (Cart, error) {
	var cart Cart
	err := a.c.Get(ctx, "/cart", &cart)
	return cart, err
}

// PlusItem increments a cart line's quantity.
func (a *API) PlusItem(ctx context.Context, itemID int64) error {
	return a.c.Post(ctx, fmt.Sprintf("/cart/plus/%d", itemID), nil, nil)
}

// MinusItem decrements a cart line's quantity.
func (a *API) MinusItem(ctx context.Context, itemID int64) error {
	return a.c.Post(ctx, fmt.Sprintf("/cart/minus/%d", itemID), nil, nil)
}

// DiscardItem removes a cart line entirely.
func (a *API) DiscardItem(ctx context.Context, itemID int64) error {
	return a.c.Delete(ctx, fmt.Sprintf("/cart/discard/%d", itemID), nil)
}

// Checkout submits the current cart.
func (a *API) Checkout(ctx context.Context) error {
	return a.c.Post(ctx, "/cart/checkout", nil, nil)
}
