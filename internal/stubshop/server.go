// Package stubshop is an in-memory stand-in for the remote catalog/cart
// service. It implements the full HTTP contract the client speaks, for
// local runs and integration tests.
package stubshop

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/supermarket-poc-v1/client/internal/shop"
)

const pageSize = 5

type cartLine struct {
	id        int64
	productID int64
	quantity  int64
}

// Server holds the in-memory catalog and cart behind a mux router.
type Server struct {
	mu       sync.Mutex
	products []shop.Product
	cart     []*cartLine
	images   map[string][]byte
	nextProd int64
	nextItem int64
	router   *mux.Router
}

// New builds an empty stub service.
func New() *Server {
	s := &Server{
		images:   make(map[string][]byte),
		nextProd: 1,
		nextItem: 1,
	}
	r := mux.NewRouter()
	r.HandleFunc("/api/products", s.listProducts).Methods("GET")
	r.HandleFunc("/api/products", s.createProduct).Methods("POST")
	r.HandleFunc("/api/cart", s.getCart).Methods("GET")
	r.HandleFunc("/api/cart/add/{id:[0-9]+}", s.addToCart).Methods("POST")
	r.HandleFunc("/api/cart/plus/{id:[0-9]+}", s.plusItem).Methods("POST")
	r.HandleFunc("/api/cart/minus/{id:[0-9]+}", s.minusItem).Methods("POST")
	r.HandleFunc("/api/cart/discard/{id:[0-9]+}", s.discardItem).Methods("DELETE")
	r.HandleFunc("/api/cart/checkout", s.checkout).Methods("POST")
	r.HandleFunc("/storage/products/{file}", s.serveImage).Methods("GET")
	s.router = r
	return s
}

// Handler returns the HTTP handler of the stub service.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Seed inserts products directly, assigning IDs and codes.
func (s *Server) Seed(products ...shop.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		p.ID = s.nextProd
		s.nextProd++
		if p.Code == "" {
			p.Code = newCode()
		}
		s.products = append(s.products, p)
	}
}

func newCode() string {
	return "PRD-" + strings.ToUpper(uuid.NewString()[:8])
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func pathID(r *http.Request) int64 {
	n, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return n
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	s.mu.Lock()
	var inStock []shop.Product
	for _, p := range s.products {
		if p.Stock > 0 {
			inStock = append(inStock, p)
		}
	}
	s.mu.Unlock()

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(inStock) {
		start = len(inStock)
	}
	if end > len(inStock) {
		end = len(inStock)
	}

	resp := shop.ProductPage{
		Data:        inStock[start:end],
		CurrentPage: page,
	}
	if page > 1 {
		u := fmt.Sprintf("/api/products?page=%d", page-1)
		resp.PrevPageURL = &u
	}
	if end < len(inStock) {
		u := fmt.Sprintf("/api/products?page=%d", page+1)
		resp.NextPageURL = &u
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	fieldErrs := map[string][]string{}
	name := r.FormValue("name")
	if name == "" {
		fieldErrs["name"] = append(fieldErrs["name"], "The name field is required.")
	}
	price := requirePositiveInt(fieldErrs, "price", r.FormValue("price"))
	stock := requirePositiveInt(fieldErrs, "stock", r.FormValue("stock"))

	file, hdr, err := r.FormFile("image")
	if err != nil {
		fieldErrs["image"] = append(fieldErrs["image"], "The image field is required.")
	}

	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors":  fieldErrs,
		})
		return
	}

	data, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	s.mu.Lock()
	p := shop.Product{
		ID:    s.nextProd,
		Name:  name,
		Price: price,
		Stock: stock,
		Image: fmt.Sprintf("%d-%s", s.nextProd, hdr.Filename),
		Code:  newCode(),
	}
	s.nextProd++
	s.images[p.Image] = data
	s.products = append(s.products, p)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, p)
}

func requirePositiveInt(fieldErrs map[string][]string, field, v string) int64 {
	if v == "" {
		fieldErrs[field] = append(fieldErrs[field], fmt.Sprintf("The %s field is required.", field))
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		fieldErrs[field] = append(fieldErrs[field], fmt.Sprintf("The %s must be a number.", field))
		return 0
	}
	if n < 1 {
		fieldErrs[field] = append(fieldErrs[field], fmt.Sprintf("The %s must be at least 1.", field))
		return 0
	}
	return n
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findProduct(id)
	if p == nil {
		writeMessage(w, http.StatusNotFound, "Barang tidak ditemukan.")
		return
	}
	if p.Stock < 1 {
		writeMessage(w, http.StatusBadRequest, "Stok barang habis.")
		return
	}
	p.Stock--

	for _, line := range s.cart {
		if line.productID == id {
			line.quantity++
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}
	}
	s.cart = append(s.cart, &cartLine{id: s.nextItem, productID: id, quantity: 1})
	s.nextItem++
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := shop.Cart{Items: []shop.CartItem{}}
	for _, line := range s.cart {
		p := s.findProduct(line.productID)
		if p == nil {
			continue
		}
		sub := p.Price * line.quantity
		resp.Items = append(resp.Items, shop.CartItem{
			ID:       line.id,
			Product:  *p,
			Quantity: line.quantity,
			Subtotal: sub,
		})
		resp.Total += sub
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) plusItem(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	line := s.findLine(id)
	if line == nil {
		writeMessage(w, http.StatusNotFound, "Item tidak ditemukan.")
		return
	}
	p := s.findProduct(line.productID)
	if p == nil || p.Stock < 1 {
		writeMessage(w, http.StatusBadRequest, "Stok tidak mencukupi.")
		return
	}
	p.Stock--
	line.quantity++
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) minusItem(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	line := s.findLine(id)
	if line == nil {
		writeMessage(w, http.StatusNotFound, "Item tidak ditemukan.")
		return
	}
	line.quantity--
	if p := s.findProduct(line.productID); p != nil {
		p.Stock++
	}
	if line.quantity < 1 {
		s.removeLine(id)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) discardItem(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	line := s.findLine(id)
	if line == nil {
		writeMessage(w, http.StatusNotFound, "Item tidak ditemukan.")
		return
	}
	if p := s.findProduct(line.productID); p != nil {
		p.Stock += line.quantity
	}
	s.removeLine(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cart) == 0 {
		writeMessage(w, http.StatusBadRequest, "Keranjang kosong.")
		return
	}
	s.cart = nil
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) serveImage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["file"]
	s.mu.Lock()
	data, ok := s.images[name]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write(data)
}

func (s *Server) findProduct(id int64) *shop.Product {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i]
		}
	}
	return nil
}

func (s *Server) findLine(id int64) *cartLine {
	for _, line := range s.cart {
		if line.id == id {
			return line
		}
	}
	return nil
}

func (s *Server) removeLine(id int64) {
	for i, line := range s.cart {
		if line.id == id {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return
		}
	}
}
