// Package view renders the catalog and cart states for the terminal. It
// is presentation only: everything it prints comes from controller state,
// never from its own arithmetic.
package view

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/supermarket-poc-v1/client/internal/notify"
	"github.com/supermarket-poc-v1/client/internal/shop"
)

const (
	emptyCatalogMsg = "Belum ada produk tersedia."
	emptyCartMsg    = "🛒 Keranjang kosong — silakan tambahkan barang dari halaman utama."
)

// FormatRupiah renders an integer rupiah amount with dot-grouped
// thousands, e.g. 30000 -> "Rp 30.000".
func FormatRupiah(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	out := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}
	if neg {
		return "Rp -" + string(out)
	}
	return "Rp " + string(out)
}

// RenderNotifications prints the visible banner messages, error first.
func RenderNotifications(w io.Writer, n *notify.Notifier) {
	if msg := n.Message(notify.Error); msg != "" {
		fmt.Fprintf(w, "[!] %s\n", msg)
	}
	if msg := n.Message(notify.Success); msg != "" {
		fmt.Fprintf(w, "[ok] %s\n", msg)
	}
}

// RenderFieldErrors prints inline validation errors, one line per field,
// first message only.
func RenderFieldErrors(w io.Writer, fields map[string][]string) {
	if len(fields) == 0 {
		return
	}
	names := make([]string, 0, len(fields))
	for name, msgs := range fields {
		if len(msgs) == 0 {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, fields[name][0])
	}
}

// RenderProducts prints the product table for one catalog page, plus the
// pagination hints. Prev/Next appear only when the corresponding cursor
// exists, so a page beyond the last can never be requested from here.
func RenderProducts(w io.Writer, c *shop.Client, page shop.ProductPage) {
	if len(page.Data) == 0 {
		fmt.Fprintln(w, emptyCatalogMsg)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "No\tNama\tHarga\tStok\tGambar\tKode")
	for i, p := range page.Data {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
			i+1, p.Name, FormatRupiah(p.Price), p.Stock, c.ImageURL(p.Image), p.Code)
	}
	tw.Flush()

	fmt.Fprintf(w, "Halaman %d", page.CurrentPage)
	if page.HasPrev() {
		fmt.Fprint(w, "  [p] Prev")
	}
	if page.HasNext() {
		fmt.Fprint(w, "  [n] Next")
	}
	fmt.Fprintln(w)
}

// RenderCart prints the cart table with the server-computed subtotals and
// total, or the empty-cart message.
func RenderCart(w io.Writer, cart shop.Cart) {
	if cart.Empty() {
		fmt.Fprintln(w, emptyCartMsg)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNama\tHarga\tQty\tSubtotal")
	for _, item := range cart.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
			item.ID, item.Product.Name, FormatRupiah(item.Product.Price),
			item.Quantity, FormatRupiah(item.Subtotal))
	}
	tw.Flush()
	fmt.Fprintf(w, "Total: %s\n", FormatRupiah(cart.Total))
}
