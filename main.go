package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/supermarket-poc-v1/client/internal/cart"
	"github.com/supermarket-poc-v1/client/internal/catalog"
	"github.com/supermarket-poc-v1/client/internal/core"
	"github.com/supermarket-poc-v1/client/internal/notify"
	"github.com/supermarket-poc-v1/client/internal/shop"
	"github.com/supermarket-poc-v1/client/internal/stubshop"
	"github.com/supermarket-poc-v1/client/internal/view"
	logx "github.com/supermarket-poc-v1/client/pkg/logger"
)

// AppConfig defines all configurable parameters of the client, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Stub runs the client against an in-process stand-in service
	// instead of a remote one.
	Stub bool `envconfig:"SHOP_STUB" default:"false"`

	Shop shop.Config
}

func main() {
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}
	logx.Init(core.ParseEnvironment(cfg.Environment))

	if cfg.Stub {
		base, err := startStub()
		if err != nil {
			log.Fatalf("Failed to start stub service: %v", err)
		}
		cfg.Shop.BaseURL = base
		logx.Info().Str("base_url", base).Msg("running against in-process stub service")
	}

	api := shop.NewAPI(cfg.Shop.New())
	runSession(context.Background(), api, os.Stdin, os.Stdout)
}

// startStub serves a seeded stubshop on a loopback port and returns its
// base URL.
func startStub() (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	srv := stubshop.New()
	srv.Seed(
		shop.Product{Name: "Susu UHT 1L", Price: 15000, Stock: 12, Image: "susu.jpg"},
		shop.Product{Name: "Beras Premium 5kg", Price: 78000, Stock: 4, Image: "beras.jpg"},
		shop.Product{Name: "Minyak Goreng 2L", Price: 34000, Stock: 9, Image: "minyak.jpg"},
	)
	go func() {
		_ = http.Serve(ln, srv.Handler())
	}()
	return "http://" + ln.Addr().String(), nil
}

func runSession(ctx context.Context, api *shop.API, in *os.File, out *os.File) {
	sc := bufio.NewScanner(in)
	current := "home"
	for {
		switch current {
		case "home":
			current = homeView(ctx, api, sc, out)
		case "cart":
			current = cartView(ctx, api, sc, out)
		default:
			return
		}
	}
}

// homeView runs one activation of the catalog view: a fresh controller
// and notifier, one initial fetch, then the command loop.
func homeView(ctx context.Context, api *shop.API, sc *bufio.Scanner, out *os.File) string {
	notes := notify.New()
	defer notes.Close()
	ctl := catalog.New(api, notes)
	defer ctl.Close()

	ctl.FetchPage(ctx, 1)

	for {
		fmt.Fprintln(out, "\n🛒 Supermarket - Upload Produk")
		view.RenderNotifications(out, notes)
		view.RenderFieldErrors(out, ctl.FieldErrors())
		view.RenderProducts(out, api.Client(), ctl.Page())
		fmt.Fprintln(out, "Perintah: [n]ext [p]rev [b <id>] beli, [u <nama> <harga> <stok> <gambar>] upload, [c]art, [q]uit")
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			return "quit"
		}
		args := strings.Fields(sc.Text())
		if len(args) == 0 {
			continue
		}
		page := ctl.Page()
		switch args[0] {
		case "n":
			if page.HasNext() {
				ctl.FetchPage(ctx, page.CurrentPage+1)
			}
		case "p":
			if page.HasPrev() {
				ctl.FetchPage(ctx, page.CurrentPage-1)
			}
		case "b":
			if id, ok := parseID(args); ok {
				ctl.AddToCart(ctx, id)
			}
		case "u":
			if len(args) == 5 && !ctl.Busy() {
				ctl.SetForm(shop.ProductForm{Name: args[1], Price: args[2], Stock: args[3], Image: args[4]})
				ctl.SubmitProduct(ctx)
			}
		case "c":
			return "cart"
		case "q":
			return "quit"
		}
	}
}

// cartView runs one activation of the cart view.
func cartView(ctx context.Context, api *shop.API, sc *bufio.Scanner, out *os.File) string {
	notes := notify.New()
	defer notes.Close()
	ctl := cart.New(api, notes)
	defer ctl.Close()

	ctl.FetchCart(ctx)

	for {
		fmt.Fprintln(out, "\n🛍 Shopping Cart")
		view.RenderNotifications(out, notes)
		view.RenderCart(out, ctl.Cart())
		fmt.Fprintln(out, "Perintah: [+ <id>] [- <id>] [x <id>] hapus, [co] checkout, [h]ome, [q]uit")
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			return "quit"
		}
		args := strings.Fields(sc.Text())
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "+":
			if id, ok := parseID(args); ok {
				ctl.Increment(ctx, id)
			}
		case "-":
			if id, ok := parseID(args); ok {
				ctl.Decrement(ctx, id)
			}
		case "x":
			if id, ok := parseID(args); ok {
				ctl.Remove(ctx, id)
			}
		case "co":
			// Checkout stays disabled while the cart is empty or a
			// mutation is settling.
			if !ctl.Empty() && !ctl.Busy() {
				ctl.Checkout(ctx)
			}
		case "h":
			return "home"
		case "q":
			return "quit"
		}
	}
}

func parseID(args []string) (int64, bool) {
	if len(args) < 2 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
