package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/sayur5/storefront/internal/adapter/catalog"
	"github.com/sayur5/storefront/internal/adapter/handler"
	"github.com/sayur5/storefront/internal/adapter/storage"
	"github.com/sayur5/storefront/internal/config"
	"github.com/sayur5/storefront/internal/core/domain"
	"github.com/sayur5/storefront/internal/core/service"
	"github.com/sayur5/storefront/internal/port"
	"github.com/sayur5/storefront/pkg/logging"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New()

	var (
		store   port.KVStore
		cleanup func()
	)
	switch cfg.StorageDriver {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		logger.Info("connected to redis", "addr", cfg.RedisAddr)
		store = storage.NewRedisAdapter(rdb)
		cleanup = func() { rdb.Close() }

	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatalf("failed to connect mysql: %v", err)
		}
		db.SetMaxOpenConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("failed to ping mysql: %v", err)
		}
		adapter := storage.NewMySQLAdapter(db)
		if err := adapter.EnsureSchema(ctx); err != nil {
			log.Fatalf("failed to ensure schema: %v", err)
		}
		logger.Info("connected to mysql")
		store = adapter
		cleanup = func() { db.Close() }

	default:
		logger.Info("using in-memory storage; state is lost on exit")
		store = storage.NewMemoryAdapter()
		cleanup = func() {}
	}
	defer cleanup()

	var source port.CatalogSource
	if cfg.CatalogURL != "" {
		source = catalog.NewHTTPSource(cfg.CatalogURL)
	}

	slots := service.Slots{Prefix: cfg.KeyPrefix}
	cat := service.NewCatalog(store, source, slots, logger)
	cart := service.NewCart(cat)
	ledger := service.NewOrderLedger(store, slots)
	settings := service.NewSettings(store, slots, domain.ShippingConfig{
		FreeThreshold: cfg.FreeShippingMin,
		FlatFee:       cfg.ShippingFee,
	})
	admins := service.NewAdminDirectory(store, slots, logger)
	checkout := service.NewCheckout(cat, cart, ledger, settings, store, slots)

	if err := cat.Load(ctx); err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}
	if err := ledger.Load(ctx); err != nil {
		log.Fatalf("failed to load orders: %v", err)
	}
	if err := settings.Load(ctx); err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}
	if err := admins.Load(ctx); err != nil {
		log.Fatalf("failed to load admins: %v", err)
	}
	if err := admins.EnsureSeed(ctx, cfg.AdminUser, cfg.AdminPIN); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	logger.Info("stores loaded",
		"products", len(cat.Products()),
		"orders", ledger.Len(),
	)

	h := handler.NewHTTPHandler(cat, cart, ledger, admins, settings, checkout, logger, cfg.WhatsAppNumber)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: h.Routes(),
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	logger.Info("HTTP server stopped")
}
