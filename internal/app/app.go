package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-inventory-tracker/internal/config"
	"go-inventory-tracker/internal/database"
	"go-inventory-tracker/internal/handler"
	"go-inventory-tracker/internal/middleware"
	"go-inventory-tracker/internal/repository"
	"go-inventory-tracker/internal/router"
	"go-inventory-tracker/internal/service"
)

type App struct {
	server       *http.Server
	db           *database.DB
	tokenJanitor func(ctx context.Context)
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	if cfg.SeedDatabase {
		if err := db.Seed(context.Background()); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	inventoryRepo := repository.NewInventoryRepository(pool)
	transactionRepo := repository.NewTransactionRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	warehouseRepo := repository.NewWarehouseRepository(pool)
	slog.Info("database ready")

	authService, err := service.NewAuthService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, userRepo, tokenRepo, warehouseRepo)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)

	inventoryService := service.NewInventoryService(inventoryRepo, transactionRepo, categoryRepo, warehouseRepo, cfg.DefaultCurrency)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)

	catalogService := service.NewCatalogService(categoryRepo, warehouseRepo)
	catalogHandler := handler.NewCatalogHandler(catalogService)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:      authHandler,
		Inventory: inventoryHandler,
		Catalog:   catalogHandler,
		Health:    db.Health,
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		db:           db,
		tokenJanitor: expiredTokenJanitor(tokenRepo),
		cleanupFuncs: []func(){
			func() {
				db.Close()
			},
		},
	}, nil
}

// expiredTokenJanitor sweeps expired refresh tokens hourly until the context
// is cancelled.
func expiredTokenJanitor(tokens *repository.TokenRepository) func(ctx context.Context) {
	return func(ctx context.Context) {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := tokens.CleanExpired(ctx)
				if err != nil {
					slog.Warn("expired token cleanup failed", "error", err)
					continue
				}
				if removed > 0 {
					slog.Info("expired refresh tokens removed", "count", removed)
				}
			}
		}
	}
}

func (a *App) Run() error {
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go a.tokenJanitor(janitorCtx)

	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.shutdown(ctx); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}

// shutdown drains in-flight requests before releasing shared resources, so
// handlers never lose the database pool mid-request.
func (a *App) shutdown(ctx context.Context) error {
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}
	return nil
}
