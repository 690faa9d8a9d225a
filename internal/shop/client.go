package shop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	errx "github.com/supermarket-poc-v1/client/internal/core/error"
	logx "github.com/supermarket-poc-v1/client/pkg/logger"
)

// Config holds the connection settings for the shop service.
type Config struct {
	BaseURL string `envconfig:"SHOP_API_URL" default:"http://127.0.0.1:8000"`
	Timeout int    `envconfig:"SHOP_HTTP_TIMEOUT" default:"15"`
}

// New builds a Client from the config. The API lives under /api and
// product images under /storage/products/ of the base URL.
func (c *Config) New() *Client {
	base := strings.TrimRight(c.BaseURL, "/")
	return &Client{
		apiBase:     base + "/api",
		storageBase: base + "/storage/products/",
		http:        &http.Client{Timeout: time.Duration(c.Timeout) * time.Second},
	}
}

// Client performs the HTTP round trips against the shop service. It is
// stateless; every call is a single round trip with no retry.
type Client struct {
	apiBase     string
	storageBase string
	http        *http.Client
}

// errorBody is the error payload shape the server uses for non-2xx
// responses.
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// Get fetches path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+path, nil)
	if err != nil {
		return errx.NewTransport(err)
	}
	return c.do(req, out)
}

// Post sends body (may be nil) as JSON to path and decodes the response
// into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	buf := &bytes.Buffer{}
	if body != nil {
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return errx.NewTransport(err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+path, buf)
	if err != nil {
		return errx.NewTransport(err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// Delete issues a DELETE against path and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.apiBase+path, nil)
	if err != nil {
		return errx.NewTransport(err)
	}
	return c.do(req, out)
}

// Upload sends a multipart form to path: fields as plain form values plus
// the file at filePath under fileField. The response is decoded into out.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, fileField, filePath string, out any) error {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return errx.NewTransport(err)
		}
	}
	f, err := os.Open(filePath)
	if err != nil {
		return errx.NewTransport(err)
	}
	defer f.Close()
	fw, err := mw.CreateFormFile(fileField, filepath.Base(filePath))
	if err != nil {
		return errx.NewTransport(err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return errx.NewTransport(err)
	}
	if err := mw.Close(); err != nil {
		return errx.NewTransport(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+path, buf)
	if err != nil {
		return errx.NewTransport(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, out)
}

// ImageURL derives the public URL of a product image file. No network call.
func (c *Client) ImageURL(file string) string {
	return c.storageBase + file
}

func (c *Client) do(req *http.Request, out any) error {
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		logx.Debug().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Str("request_id", reqID).
			Err(err).
			Msg("shop request failed")
		return errx.NewTransport(err)
	}
	defer res.Body.Close()

	logx.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", res.StatusCode).
		Dur("latency", time.Since(start)).
		Str("request_id", reqID).
		Msg("shop request")

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return errx.NewTransport(err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var eb errorBody
		if err := json.Unmarshal(raw, &eb); err != nil {
			return errx.NewTransport(fmt.Errorf("status %d with unreadable body: %w", res.StatusCode, err))
		}
		return errx.NewService(res.StatusCode, eb.Message, eb.Errors)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errx.NewTransport(err)
	}
	return nil
}
