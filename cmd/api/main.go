package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lakeview-kitchen/ordering-api/internal/handlers"
	"github.com/lakeview-kitchen/ordering-api/internal/platform/cache"
	"github.com/lakeview-kitchen/ordering-api/internal/platform/config"
	"github.com/lakeview-kitchen/ordering-api/internal/platform/observability"
	"github.com/lakeview-kitchen/ordering-api/internal/repositories"
	"github.com/lakeview-kitchen/ordering-api/internal/services"
	"github.com/lakeview-kitchen/ordering-api/internal/square"
)

func main() {
	startedAt := time.Now().UTC()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")

	cfg, err := config.Load()
	if err != nil {
		var validation *config.ValidationError
		if errors.As(err, &validation) {
			logger.Fatal("invalid configuration", zap.Strings("fields", validation.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	squareClient, err := square.NewClient(square.ClientConfig{
		AccessToken: cfg.Square.AccessToken,
		BaseURL:     cfg.Square.BaseURL,
		Version:     cfg.Square.Version,
		Timeout:     cfg.Square.Timeout,
		Logger:      zapEventLogger(logger.Named("square")),
	})
	if err != nil {
		logger.Fatal("failed to initialise square client", zap.Error(err))
	}

	cacheStore := cache.NewStore()

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	var sweepWG sync.WaitGroup
	sweepTicker := time.NewTicker(cfg.Cache.SweepInterval)
	sweepWG.Add(1)
	go func() {
		defer sweepWG.Done()
		sweepLogger := logger.Named("cache")
		for {
			select {
			case <-sweepTicker.C:
				removed := cacheStore.Sweep(cfg.Cache.SweepCeiling)
				if removed > 0 {
					sweepLogger.Info("cache sweep removed entries", zap.Int("count", removed))
				}
			case <-sweepCtx.Done():
				return
			}
		}
	}()

	catalogService, err := services.NewCatalogService(services.CatalogServiceDeps{
		Square: squareClient,
		Cache:  cacheStore,
		TTLs:   cfg.Cache,
	})
	if err != nil {
		logger.Fatal("failed to initialise catalog service", zap.Error(err))
	}

	checkoutService, err := services.NewCheckoutService(services.CheckoutServiceDeps{
		Square:         squareClient,
		LocationID:     cfg.Square.LocationID,
		PickupTimezone: cfg.Store.PickupTimezone,
	})
	if err != nil {
		logger.Fatal("failed to initialise checkout service", zap.Error(err))
	}

	orderService, err := services.NewOrderService(services.OrderServiceDeps{
		Square:         squareClient,
		LocationID:     cfg.Square.LocationID,
		Online:         func() bool { return cfg.Store.Online },
		OfflineMessage: cfg.Store.OfflineMessage,
	})
	if err != nil {
		logger.Fatal("failed to initialise order service", zap.Error(err))
	}

	healthRepo, err := repositories.NewDependencyHealthRepository([]repositories.DependencyCheck{
		{
			Name:    "square",
			Timeout: 5 * time.Second,
			Check: func(ctx context.Context) error {
				_, err := squareClient.ListLocations(ctx)
				return err
			},
		},
		{
			Name:    "cache",
			Timeout: time.Second,
			Check: func(context.Context) error {
				return probeCache(cacheStore)
			},
		},
	})
	if err != nil {
		logger.Fatal("failed to initialise health repository", zap.Error(err))
	}

	systemService, err := services.NewSystemService(services.SystemServiceDeps{
		HealthRepository: healthRepo,
		Build: services.BuildInfo{
			Version:     buildVersion(),
			Environment: cfg.Square.Environment,
			StartedAt:   startedAt,
		},
	})
	if err != nil {
		logger.Fatal("failed to initialise system service", zap.Error(err))
	}

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger),
		observability.TraceMiddleware(),
		observability.RecoveryMiddleware(logger),
		observability.RequestLoggerMiddleware(),
	}

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(handlers.NewHealthHandlers(systemService, cacheStore, cfg)),
		handlers.WithStoreHandlers(handlers.NewStoreHandlers(orderService)),
		handlers.WithCatalogRoutes(handlers.NewCatalogHandlers(catalogService).Routes),
		handlers.WithOrderRoutes(handlers.NewOrderHandlers(orderService, checkoutService).Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("ordering api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	sweepTicker.Stop()
	sweepCancel()
	sweepWG.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// zapEventLogger adapts the square client's event logger to zap.
func zapEventLogger(logger *zap.Logger) square.Logger {
	return func(_ context.Context, event string, fields map[string]any) {
		zapFields := make([]zap.Field, 0, len(fields))
		for key, value := range fields {
			zapFields = append(zapFields, zap.Any(key, value))
		}
		logger.Info(event, zapFields...)
	}
}

// probeCache verifies a write/read/delete round trip against the response cache.
func probeCache(store *cache.Store) error {
	const key = "healthcheck:probe"
	store.Set(key, []byte(`{"ok":true}`))
	if _, ok := store.Get(key, time.Minute); !ok {
		return errors.New("cache probe: written entry not readable")
	}
	store.Delete(key)
	return nil
}

func buildVersion() string {
	if v := os.Getenv("BUILD_VERSION"); v != "" {
		return v
	}
	return "dev"
}
