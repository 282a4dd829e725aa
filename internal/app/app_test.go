package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/catalog-admin/internal/config"
	"github.com/georgemunganga/catalog-admin/internal/modules/category"
	"github.com/georgemunganga/catalog-admin/internal/pagination"
	"github.com/georgemunganga/catalog-admin/internal/slot"
)

func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/category-list", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]string{"beauty", "home-decoration"})
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products":[{"id":1,"title":"Mascara"}],"total":1,"skip":0,"limit":10}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL, driver string) *config.Config {
	return &config.Config{
		Port:           "0",
		CatalogBaseURL: baseURL,
		CatalogTimeout: 5 * time.Second,
		PageSize:       10,
		StoreDriver:    driver,
		RedisPrefix:    slot.DefaultRedisPrefix,
		CategorySlot:   category.DefaultSlot,
	}
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), testConfig("http://x", "etcd"))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestNewWithSQLiteSeedsFromUpstream(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(upstream(t).URL, config.DriverSQLite)
	cfg.SQLitePath = filepath.Join(t.TempDir(), "catalog.db")

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.Relay)

	res, err := a.Categories.List(ctx, pagination.Page{})
	require.NoError(t, err)
	require.Len(t, res.Categories, 2)
	assert.Equal(t, "Home decoration", res.Categories[1].Name)

	r := chi.NewRouter()
	a.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mascara")
}

func TestNewWithRedisRelaysEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mr := miniredis.RunT(t)
	cfg := testConfig(upstream(t).URL, config.DriverRedis)
	cfg.RedisURL = "redis://" + mr.Addr() + "/0"

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.Relay)

	go a.RunRelay(ctx)

	events, unsubscribe := a.Broker.Subscribe()
	defer unsubscribe()

	_, err = a.Categories.Create(ctx, category.CategoryInput{Name: "Garden Tools"})
	require.NoError(t, err)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-events:
			if e.Type != category.EventCreated {
				continue
			}
			assert.Equal(t, "garden-tools", e.Category.Slug)
			return
		case <-deadline:
			t.Fatal("no created event")
		}
	}
}
