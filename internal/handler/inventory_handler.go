package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-inventory-tracker/internal/middleware"
	"go-inventory-tracker/internal/service"
	"go-inventory-tracker/pkg/apierror"
	"go-inventory-tracker/pkg/model"
)

type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	q := r.URL.Query()
	query := service.ListQuery{
		Page:  queryInt(q.Get("page"), 1),
		Limit: queryInt(q.Get("limit"), 10),
		Filters: model.InventoryFilters{
			CategoryID:  strings.TrimSpace(q.Get("category_id")),
			WarehouseID: strings.TrimSpace(q.Get("warehouse_id")),
			MinStock:    queryIntPtr(q.Get("min_stock")),
			MaxStock:    queryIntPtr(q.Get("max_stock")),
			Search:      strings.TrimSpace(q.Get("search")),
			IsActive:    queryBoolPtr(q.Get("is_active")),
		},
	}

	page, err := h.service.List(r.Context(), claims, query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page, nil)
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())

	item, err := h.service.Get(r.Context(), claims, chi.URLParam(r, "item_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, item, nil)
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	item, err := h.service.Create(r.Context(), claims, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, item, nil)
}

func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	item, err := h.service.Update(r.Context(), claims, chi.URLParam(r, "item_id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, item, nil)
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	if err := h.service.Delete(r.Context(), claims, chi.URLParam(r, "item_id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"message": "Item deleted successfully"}, nil)
}

func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.StockAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	result, err := h.service.AdjustStock(r.Context(), claims, chi.URLParam(r, "item_id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())

	items, err := h.service.LowStock(r.Context(), claims)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, items, nil)
}

func (h *InventoryHandler) OutOfStock(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())

	items, err := h.service.OutOfStock(r.Context(), claims, strings.TrimSpace(r.URL.Query().Get("warehouse_id")))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, items, nil)
}

func (h *InventoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())

	summary, err := h.service.Summary(r.Context(), claims, strings.TrimSpace(r.URL.Query().Get("warehouse_id")))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, summary, nil)
}

func (h *InventoryHandler) Value(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())

	value, err := h.service.TotalValue(r.Context(), claims, strings.TrimSpace(r.URL.Query().Get("warehouse_id")))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, value, nil)
}

func (h *InventoryHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())

	q := r.URL.Query()
	txs, err := h.service.Transactions(r.Context(), claims, chi.URLParam(r, "item_id"),
		queryInt(q.Get("skip"), 0), queryInt(q.Get("limit"), 100))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, txs, nil)
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func queryIntPtr(raw string) *int {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func queryBoolPtr(raw string) *bool {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
