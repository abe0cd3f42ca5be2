package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/bootstrap"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/config"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/database"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/handler"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/optimizer"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/pricecache"
	"github.com/NicolasMarafetti/bitcraft-optimizer/internal/server"
)

const (
	dbMaxConns       = 10
	dbMaxIdleTime    = 5 * time.Minute
	dbMaxLifetime    = 30 * time.Minute
	shutdownDeadline = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)
	handler.InitValidator()

	connString := cfg.GetDBConnString()
	if err := database.Migrate(context.Background(), connString); err != nil {
		slog.Error("Migrations failed", "error", err)
		os.Exit(1)
	}

	dbPool, err := database.NewPool(connString, dbMaxConns, dbMaxIdleTime, dbMaxLifetime)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	repos := bootstrap.InitializeRepositories(dbPool)
	priceCache := pricecache.New(repos.Price, cfg.PriceCacheTTL)
	optimizerService := optimizer.NewService(repos.Item, priceCache, cfg.CatalogCacheSize, cfg.CatalogCacheTTL)

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, server.Deps{
		DBPool:     dbPool,
		ItemRepo:   repos.Item,
		PriceRepo:  repos.Price,
		RecipeRepo: repos.Recipe,
		PriceCache: priceCache,
		Optimizer:  optimizerService,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-stop:
		slog.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownDeadline)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server: srv,
		DBPool: dbPool,
	})
}
