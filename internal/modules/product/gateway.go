package product

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	// ErrNotFound is returned when the remote catalog has no such product.
	ErrNotFound = errors.New("product not found")
	// ErrFetchFailed covers transport failures and non-2xx responses.
	ErrFetchFailed = errors.New("fetch failed")
)

// CategorySearchPrefix marks a search term that is really a category filter.
const CategorySearchPrefix = "category:"

// Gateway is the boundary to the remote product catalog.
type Gateway interface {
	// List returns the plain listing, a text search, or a category listing
	// depending on the filter.
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	Get(ctx context.Context, id int) (*Product, error)
	// Create and Update are acknowledged by the demo service but not persisted.
	Create(ctx context.Context, in ProductInput) (*Product, error)
	Update(ctx context.Context, id int, patch ProductPatch) (*Product, error)
	// Delete does not surface a remote 404, so repeated deletes are safe.
	Delete(ctx context.Context, id int) error
	// CategoryList returns the remote category slugs.
	CategoryList(ctx context.Context) ([]string, error)
}

// ── DummyJSON Adapter ─────────────────────────────────────────────────────────
// API docs: https://dummyjson.com/docs/products

type dummyJSONGateway struct {
	baseURL string
	client  *http.Client
}

// NewDummyJSONGateway builds a gateway against baseURL (for example
// https://dummyjson.com). Outgoing calls are traced through otelhttp.
func NewDummyJSONGateway(baseURL string, timeout time.Duration) Gateway {
	return &dummyJSONGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (g *dummyJSONGateway) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	path := "/products"
	category := filter.Category
	if category == "" && strings.HasPrefix(filter.Search, CategorySearchPrefix) {
		category = strings.TrimSpace(strings.TrimPrefix(filter.Search, CategorySearchPrefix))
	}

	switch {
	case category != "":
		path = "/products/category/" + url.PathEscape(category)
	case filter.Search != "":
		path = "/products/search?q=" + url.QueryEscape(filter.Search)
	default:
		q := url.Values{}
		if filter.Limit > 0 {
			q.Set("limit", strconv.Itoa(filter.Limit))
		}
		if filter.Skip > 0 {
			q.Set("skip", strconv.Itoa(filter.Skip))
		}
		if len(q) > 0 {
			path += "?" + q.Encode()
		}
	}

	var out ListResult
	if err := g.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Products == nil {
		out.Products = []Product{}
	}
	return &out, nil
}

func (g *dummyJSONGateway) Get(ctx context.Context, id int) (*Product, error) {
	var p Product
	if err := g.do(ctx, http.MethodGet, productPath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (g *dummyJSONGateway) Create(ctx context.Context, in ProductInput) (*Product, error) {
	var p Product
	if err := g.do(ctx, http.MethodPost, "/products/add", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (g *dummyJSONGateway) Update(ctx context.Context, id int, patch ProductPatch) (*Product, error) {
	var p Product
	if err := g.do(ctx, http.MethodPut, productPath(id), patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (g *dummyJSONGateway) Delete(ctx context.Context, id int) error {
	err := g.do(ctx, http.MethodDelete, productPath(id), nil, nil)
	if errors.Is(err, ErrNotFound) {
		slog.Debug("remote product already gone", "id", id)
		return nil
	}
	return err
}

func (g *dummyJSONGateway) CategoryList(ctx context.Context) ([]string, error) {
	var slugs []string
	if err := g.do(ctx, http.MethodGet, "/products/category-list", nil, &slugs); err != nil {
		return nil, err
	}
	return slugs, nil
}

func productPath(id int) string {
	return "/products/" + strconv.Itoa(id)
}

// do sends one JSON request. A 404 maps to ErrNotFound, any other non-2xx or
// transport error to ErrFetchFailed. out may be nil.
func (g *dummyJSONGateway) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrFetchFailed, method, path, err)
	}
	defer resp.Body.Close()

	slog.Debug("catalog request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s %s: status %d", ErrFetchFailed, method, path, resp.StatusCode)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: decode: %w", ErrFetchFailed, method, path, err)
	}
	return nil
}
