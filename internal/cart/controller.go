// Package cart owns the shopping-cart view state and its mutations. Every
// mutation is followed by a full cart refetch so the view always shows the
// server's arithmetic, never a locally computed total.
package cart

import (
	"context"
	"net/http"
	"sync"

	errx "github.com/supermarket-poc-v1/client/internal/core/error"
	"github.com/supermarket-poc-v1/client/internal/notify"
	"github.com/supermarket-poc-v1/client/internal/shop"
)

const (
	msgFetchFailed    = "Gagal memuat keranjang dari server."
	msgPlusOK         = "Jumlah barang berhasil ditambah."
	msgPlusFailed     = "Gagal menambah jumlah barang."
	msgStockShort     = "Stok tidak mencukupi."
	msgMinusOK        = "Jumlah barang berhasil dikurangi."
	msgMinusFailed    = "Gagal mengurangi barang."
	msgDiscardOK      = "Barang dihapus dari keranjang."
	msgDiscardFailed  = "Gagal menghapus barang."
	msgCheckoutOK     = "Checkout berhasil!"
	msgCheckoutFailed = "Checkout gagal. Coba lagi nanti."
)

// Controller synchronises the cart view against the server. One instance
// belongs to exactly one active view.
type Controller struct {
	api   *shop.API
	notes *notify.Notifier

	mu       sync.Mutex
	cart     shop.Cart
	fetching bool
	busy     bool
	fetchSeq uint64
	closed   bool
}

// New builds a controller for one view activation.
func New(api *shop.API, notes *notify.Notifier) *Controller {
	return &Controller{api: api, notes: notes}
}

// FetchCart loads the authoritative cart state and replaces the local copy
// wholesale. Superseded or post-Close completions are discarded.
func (c *Controller) FetchCart(ctx context.Context) {
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

	cart, err := c.api.GetCart(ctx)

	c.mu.Lock()
	if c.closed || seq != c.fetchSeq {
		c.mu.Unlock()
		return
	}
	c.fetching = false
	if err == nil {
		c.cart = cart
	}
	c.mu.Unlock()

	if err != nil {
		c.notes.Show(notify.Error, errx.ServerMessage(err, msgFetchFailed))
	}
}

// Increment raises a line's quantity by one. HTTP 400 means the server has
// no stock left and maps to the dedicated message.
func (c *Controller) Increment(ctx context.Context, itemID int64) bool {
	return c.mutate(ctx, func(ctx context.Context) error {
		return c.api.PlusItem(ctx, itemID)
	}, msgPlusOK, func(err error) string {
		if e, ok := errx.From(err); ok && e.Status == http.StatusBadRequest {
			return msgStockShort
		}
		return msgPlusFailed
	})
}

// Decrement lowers a line's quantity by one.
func (c *Controller) Decrement(ctx context.Context, itemID int64) bool {
	return c.mutate(ctx, func(ctx context.Context) error {
		return c.api.MinusItem(ctx, itemID)
	}, msgMinusOK, func(error) string { return msgMinusFailed })
}

// Remove deletes a line from the cart.
func (c *Controller) Remove(ctx context.Context, itemID int64) bool {
	return c.mutate(ctx, func(ctx context.Context) error {
		return c.api.DiscardItem(ctx, itemID)
	}, msgDiscardOK, func(error) string { return msgDiscardFailed })
}

// Checkout submits the cart. Emptiness is a view-level guard; the server
// remains the authority on whether checkout is possible.
func (c *Controller) Checkout(ctx context.Context) bool {
	return c.mutate(ctx, func(ctx context.Context) error {
		return c.api.Checkout(ctx)
	}, msgCheckoutOK, func(error) string { return msgCheckoutFailed })
}

// mutate runs one mutation under the lock: clear both notification slots,
// perform the call, surface the outcome, and on success chain the
// authoritative refetch. It reports false when the lock was already held,
// in which case no network call is made.
func (c *Controller) mutate(ctx context.Context, call func(context.Context) error, success string, failMsg func(error) string) bool {
	c.mu.Lock()
	if c.closed || c.busy {
		c.mu.Unlock()
		return false
	}
	c.busy = true
	c.mu.Unlock()
	defer c.release()

	c.notes.Dismiss(notify.Success)
	c.notes.Dismiss(notify.Error)

	if err := call(ctx); err != nil {
		c.notes.Show(notify.Error, failMsg(err))
		return true
	}

	c.notes.Show(notify.Success, success)
	c.FetchCart(ctx)
	return true
}

// Cart returns the most recent successfully fetched cart state.
func (c *Controller) Cart() shop.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart
}

// Empty reports whether the cart has no items.
func (c *Controller) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.Empty()
}

// Fetching reports whether a cart load is in flight.
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

// Close detaches the controller from its view.
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
