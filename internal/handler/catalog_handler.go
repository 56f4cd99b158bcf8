package handler

import (
	"encoding/json"
	"net/http"

	"go-inventory-tracker/internal/service"
	"go-inventory-tracker/pkg/apierror"
	"go-inventory-tracker/pkg/model"
)

type CatalogHandler struct {
	service *service.CatalogService
}

func NewCatalogHandler(service *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, categories, nil)
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	category, err := h.service.CreateCategory(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, category, nil)
}

func (h *CatalogHandler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.service.Warehouses(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, warehouses, nil)
}

func (h *CatalogHandler) CreateWarehouse(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.WarehouseInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	warehouse, err := h.service.CreateWarehouse(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, warehouse, nil)
}
