// Package catalog owns the product-list view state: the current page,
// the create-product form, and the add-to-cart action.
package catalog

import (
	"context"
	"sync"

	errx "github.com/supermarket-poc-v1/client/internal/core/error"
	"github.com/supermarket-poc-v1/client/internal/notify"
	"github.com/supermarket-poc-v1/client/internal/shop"
)

const (
	msgFetchFailed  = "Gagal memuat produk."
	msgUploadOK     = "Barang berhasil diupload!"
	msgUploadFailed = "Gagal mengupload produk. Coba lagi nanti."
	msgAddOK        = "Barang ditambahkan ke cart!"
	msgAddFailed    = "Gagal menambahkan barang ke cart."
)

// Controller synchronises the catalog view against the server. One
// instance belongs to exactly one active view.
type Controller struct {
	api   *shop.API
	notes *notify.Notifier

	mu       sync.Mutex
	page     shop.ProductPage
	form     shop.ProductForm
	fields   map[string][]string
	fetching bool
	busy     bool
	fetchSeq uint64
	closed   bool
}

// New builds a controller for one view activation.
func New(api *shop.API, notes *notify.Notifier) *Controller {
	return &Controller{api: api, notes: notes}
}

// FetchPage loads one catalog page and replaces the page state wholesale.
// A completion that has been superseded by a newer fetch, or that arrives
// after Close, is discarded without touching any state.
func (c *Controller) FetchPage(ctx context.Context, page int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.fetchSeq++
	seq := c.fetchSeq
	c.fetching = true
	c.mu.Unlock()

	c.notes.Dismiss(notify.Error)

	p, err := c.api.ListProducts(ctx, page)

	c.mu.Lock()
	if c.closed || seq != c.fetchSeq {
		c.mu.Unlock()
		return
	}
	c.fetching = false
	if err == nil {
		c.page = p
	}
	c.mu.Unlock()

	if err != nil {
		c.notes.Show(notify.Error, errx.ServerMessage(err, msgFetchFailed))
	}
}

// SubmitProduct uploads the current form. It reports false when another
// mutation is already in flight, in which case nothing is sent. On success
// the form resets and the page current at call time is refetched so the
// new product appears.
func (c *Controller) SubmitProduct(ctx context.Context) bool {
	c.mu.Lock()
	if c.closed || c.busy {
		c.mu.Unlock()
		return false
	}
	c.busy = true
	c.fields = nil
	form := c.form
	page := c.currentPageLocked()
	c.mu.Unlock()
	defer c.release()

	c.notes.Dismiss(notify.Success)
	c.notes.Dismiss(notify.Error)

	if err := c.api.CreateProduct(ctx, form); err != nil {
		e, ok := errx.From(err)
		switch {
		case ok && e.Validation():
			// Field-level feedback is sufficient; no banner.
			c.mu.Lock()
			c.fields = e.Fields
			c.mu.Unlock()
		case ok && e.Message != "":
			c.notes.Show(notify.Error, e.Message)
		default:
			c.notes.Show(notify.Error, msgUploadFailed)
		}
		return true
	}

	c.notes.Show(notify.Success, msgUploadOK)
	c.mu.Lock()
	c.form = shop.ProductForm{}
	c.mu.Unlock()
	c.FetchPage(ctx, page)
	return true
}

// AddToCart puts one unit of the product into the cart and, on success,
// refetches the page that was current when the call was made, so products
// whose stock ran out drop out of view. It does not take the catalog's
// mutation lock; adding to the cart is a cart-side action.
func (c *Controller) AddToCart(ctx context.Context, productID int64) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	page := c.currentPageLocked()
	c.mu.Unlock()

	c.notes.Dismiss(notify.Success)
	c.notes.Dismiss(notify.Error)

	if err := c.api.AddToCart(ctx, productID); err != nil {
		c.notes.Show(notify.Error, errx.ServerMessage(err, msgAddFailed))
		return
	}
	c.notes.Show(notify.Success, msgAddOK)
	c.FetchPage(ctx, page)
}

// Page returns the most recent successfully fetched page.
func (c *Controller) Page() shop.ProductPage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Form returns the current create-product form values.
func (c *Controller) Form() shop.ProductForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// SetForm replaces the create-product form values.
func (c *Controller) SetForm(f shop.ProductForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = f
}

// FieldErrors returns the per-field validation messages of the last
// rejected submit, keyed by field name.
func (c *Controller) FieldErrors() map[string][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

// Fetching reports whether a page load is in flight. It does not gate
// mutations; that is the mutation lock's job.
func (c *Controller) Fetching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetching
}

// Busy reports whether a mutation holds the lock.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Close detaches the controller from its view. Late fetch completions are
// discarded and new operations become no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *Controller) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func (c *Controller) currentPageLocked() int {
	if c.page.CurrentPage < 1 {
		return 1
	}
	return c.page.CurrentPage
}
