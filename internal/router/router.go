package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-inventory-tracker/internal/config"
	"go-inventory-tracker/internal/handler"
	"go-inventory-tracker/internal/middleware"
	"go-inventory-tracker/pkg/model"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Inventory *handler.InventoryHandler
	Catalog   *handler.CatalogHandler

	// Health checks the backing database; nil means always healthy.
	Health func(ctx context.Context) error
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if h.Health != nil {
			if err := h.Health(req.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unhealthy"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Post("/register", h.Auth.Register)
			auth.Post("/refresh", h.Auth.Refresh)
			auth.With(authMiddleware.RequireAuth).Post("/logout", h.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
			auth.With(authMiddleware.RequireAuth).Post("/change-password", h.Auth.ChangePassword)
		})

		api.Route("/inventory", func(inv chi.Router) {
			inv.Use(authMiddleware.RequireAuth)

			inv.Get("/", h.Inventory.List)
			inv.Get("/low-stock", h.Inventory.LowStock)
			inv.Get("/out-of-stock", h.Inventory.OutOfStock)
			inv.Get("/summary", h.Inventory.Summary)
			inv.Get("/value", h.Inventory.Value)
			inv.With(authMiddleware.RequireRoles(model.RoleGudang)).Post("/", h.Inventory.Create)
			inv.Get("/{item_id}", h.Inventory.Get)
			inv.Put("/{item_id}", h.Inventory.Update)
			inv.Delete("/{item_id}", h.Inventory.Delete)
			inv.Post("/{item_id}/stock", h.Inventory.AdjustStock)
			inv.Get("/{item_id}/transactions", h.Inventory.Transactions)
		})

		api.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleSuperAdmin, model.RoleManajer)).Get("/users", h.Auth.ListUsers)

		api.With(authMiddleware.RequireAuth).Get("/categories", h.Catalog.ListCategories)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleSuperAdmin, model.RoleManajer)).Post("/categories", h.Catalog.CreateCategory)
		api.With(authMiddleware.RequireAuth).Get("/warehouses", h.Catalog.ListWarehouses)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleSuperAdmin)).Post("/warehouses", h.Catalog.CreateWarehouse)
	})

	return r
}
