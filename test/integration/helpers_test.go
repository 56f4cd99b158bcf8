//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-inventory-tracker/internal/config"
	"go-inventory-tracker/internal/database"
	"go-inventory-tracker/internal/handler"
	"go-inventory-tracker/internal/middleware"
	"go-inventory-tracker/internal/repository"
	"go-inventory-tracker/internal/router"
	"go-inventory-tracker/internal/service"
	"go-inventory-tracker/pkg/client"
	"go-inventory-tracker/pkg/model"
)

// testDatabaseURL picks the throwaway database these tests run against.
// Without one the whole package is skipped.
func testDatabaseURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return url
}

func testConfig(url string) *config.Config {
	return &config.Config{
		ServerPort:       "0",
		RequestTimeout:   10 * time.Second,
		DatabaseURL:      url,
		DBMaxConns:       4,
		DBMinConns:       0,
		JWTSecret:        "integration-test-secret",
		JWTAccessTTL:     15 * time.Minute,
		JWTRefreshTTL:    24 * time.Hour,
		CORSOrigins:      []string{"*"},
		// Zero disables rate limiting so tests never trip the auth bucket.
		RateLimitRPM:     0,
		AuthRateLimitRPM: 0,
		SeedDatabase:     true,
		DefaultCurrency:  "IDR",
	}
}

// newTestServer wires the full stack against a real database, seeds the
// default accounts, and returns an httptest server plus an SDK client bound
// to it with an in-memory session.
func newTestServer(t *testing.T) (*httptest.Server, *client.Client) {
	t.Helper()

	ctx := context.Background()
	cfg := testConfig(testDatabaseURL(t))

	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))
	require.NoError(t, db.Seed(ctx))

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	inventoryRepo := repository.NewInventoryRepository(pool)
	transactionRepo := repository.NewTransactionRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	warehouseRepo := repository.NewWarehouseRepository(pool)

	authService, err := service.NewAuthService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL,
		userRepo, tokenRepo, warehouseRepo)
	require.NoError(t, err)

	inventoryService := service.NewInventoryService(inventoryRepo, transactionRepo,
		categoryRepo, warehouseRepo, cfg.DefaultCurrency)
	catalogService := service.NewCatalogService(categoryRepo, warehouseRepo)

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Catalog:   handler.NewCatalogHandler(catalogService),
	}

	server := httptest.NewServer(router.New(cfg, middleware.NewAuthMiddleware(authService), h))
	t.Cleanup(server.Close)

	return server, client.New(server.URL, client.NewMemorySessionStore())
}

// loginAs signs in through the SDK with one of the seeded accounts.
func loginAs(t *testing.T, c *client.Client, username string, password string) *model.SessionUser {
	t.Helper()
	user, err := client.NewAuthService(c).Login(context.Background(), model.LoginRequest{
		Username: username,
		Password: password,
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// postRefresh hits the refresh endpoint directly. It returns the rotated pair,
// or nil when the server rejects the token.
func postRefresh(t *testing.T, baseURL string, refreshToken string) *model.TokenPair {
	t.Helper()

	payload, err := json.Marshal(model.RefreshRequest{RefreshToken: refreshToken})
	require.NoError(t, err)

	resp, err := http.Post(baseURL+"/api/v1/auth/refresh", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var env struct {
		Data model.TokenPair `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return &env.Data
}
