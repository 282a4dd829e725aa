// Package app wires configuration into the stores, gateway and services used
// by both the API server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/catalog-admin/internal/config"
	"github.com/georgemunganga/catalog-admin/internal/modules/category"
	"github.com/georgemunganga/catalog-admin/internal/modules/product"
	"github.com/georgemunganga/catalog-admin/internal/slot"
)

const eventBuffer = 16

// App holds the assembled components. Relay is nil unless the store driver is
// redis.
type App struct {
	Config     *config.Config
	Store      slot.Store
	Gateway    product.Gateway
	Products   product.Service
	Categories category.Service
	Broker     *category.Broker
	Relay      *category.RedisRelay
}

// OpenStore opens the category slot backend selected by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg *config.Config) (slot.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return slot.NewMemoryStore(), nil
	case config.DriverSQLite:
		return slot.NewSQLiteStore(ctx, cfg.SQLitePath)
	case config.DriverPostgres:
		return slot.NewPostgresStore(ctx, cfg.DatabaseURL)
	case config.DriverRedis:
		return slot.DialRedis(ctx, cfg.RedisURL, slot.WithPrefix(cfg.RedisPrefix))
	default:
		return nil, fmt.Errorf("%w: unknown STORE_DRIVER %q", config.ErrInvalidConfig, cfg.StoreDriver)
	}
}

// New builds every component from cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("category store opened", "driver", cfg.StoreDriver, "slot", cfg.CategorySlot)

	gateway := product.NewDummyJSONGateway(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	broker := category.NewBroker(eventBuffer)

	a := &App{
		Config:   cfg,
		Store:    store,
		Gateway:  gateway,
		Products: product.NewService(gateway, cfg.PageSize),
		Broker:   broker,
	}

	var publisher category.Publisher = broker
	if rs, ok := store.(*slot.RedisStore); ok {
		a.Relay = category.NewRedisRelay(rs.Client(), cfg.RedisPrefix+"events:"+cfg.CategorySlot, broker)
		publisher = a.Relay
	}

	a.Categories = category.NewService(store, gateway,
		category.WithSlot(cfg.CategorySlot),
		category.WithPublisher(publisher),
	)
	return a, nil
}

// RunRelay forwards events from other processes until ctx is done. It returns
// immediately when there is no relay.
func (a *App) RunRelay(ctx context.Context) {
	if a.Relay == nil {
		return
	}
	if err := a.Relay.Run(ctx, nil); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("category event relay stopped", "error", err)
	}
}

// RegisterRoutes mounts the product and category endpoints.
func (a *App) RegisterRoutes(r *chi.Mux) {
	product.NewHandler(a.Products).RegisterRoutes(r)
	category.NewHandler(a.Categories, a.Broker).RegisterRoutes(r)
}

func (a *App) Close() error {
	return a.Store.Close()
}
