// Package shop holds the data model of the catalog/cart service and the
// HTTP client used to reach it.
package shop

// Product is a catalog entry as reported by the server. The client never
// modifies one except through the create workflow.
type Product struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Stock int64  `json:"stock"`
	Image string `json:"image"`
	Code  string `json:"code"`
}

// ProductPage is one page of the catalog listing. It is replaced wholesale
// on every successful fetch, never merged with an earlier page.
type ProductPage struct {
	Data        []Product `json:"data"`
	CurrentPage int       `json:"current_page"`
	PrevPageURL *string   `json:"prev_page_url"`
	NextPageURL *string   `json:"next_page_url"`
}

// HasPrev reports whether a previous page exists.
func (p ProductPage) HasPrev() bool {
	return p.PrevPageURL != nil
}

// HasNext reports whether a next page exists.
func (p ProductPage) HasNext() bool {
	return p.NextPageURL != nil
}

// CartItem is one cart line. Subtotal is computed by the server and
// trusted as-is.
type CartItem struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int64   `json:"quantity"`
	Subtotal int64   `json:"subtotal"`
}

// Cart is the full cart state. Total is server-computed; the client does
// no arithmetic of its own.
type Cart struct {
	Items []CartItem `json:"items"`
	Total int64      `json:"total"`
}

// Empty reports whether the cart holds no items. It drives the empty-state
// display and the checkout guard.
func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

// ProductForm carries the create-product input fields. Numeric fields stay
// strings: the server is the validation authority and reports per-field
// errors for anything it rejects. Image is a path to the file to upload.
type ProductForm struct {
	Name  string
	Price string
	Stock string
	Image string
}
