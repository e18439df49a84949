package handlers

import (
	"net/http"

	"shiftstock/internal/models"
	"shiftstock/internal/services"

	"github.com/labstack/echo/v4"
)

// StoreHandlers handles store management HTTP requests
type StoreHandlers struct {
	storeService services.StoreService
}

func NewStoreHandlers(storeService services.StoreService) *StoreHandlers {
	return &StoreHandlers{storeService: storeService}
}

// CreateStoreRequest represents the store creation payload
type CreateStoreRequest struct {
	ID                   string                   `json:"id"`
	Name                 string                   `json:"name"`
	TemperatureEquipment []models.EquipmentConfig `json:"temperature_equipment"`
}

func (h *StoreHandlers) CreateStore(c echo.Context) error {
	var req CreateStoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	store := &models.Store{
		ID:                   req.ID,
		Name:                 req.Name,
		TemperatureEquipment: req.TemperatureEquipment,
	}

	created, err := h.storeService.Create(c.Request().Context(), store)
	if err != nil {
		return serviceError(err, "Failed to create store")
	}

	return c.JSON(http.StatusCreated, created)
}

func (h *StoreHandlers) GetStore(c echo.Context) error {
	store, err := h.storeService.GetByID(c.Request().Context(), c.Param("storeID"))
	if err != nil {
		return serviceError(err, "Failed to get store")
	}
	return c.JSON(http.StatusOK, store)
}

// UpdateStoreRequest represents the store update payload
type UpdateStoreRequest struct {
	Name                 string                   `json:"name"`
	IsActive             *bool                    `json:"is_active"`
	TemperatureEquipment []models.EquipmentConfig `json:"temperature_equipment"`
}

func (h *StoreHandlers) UpdateStore(c echo.Context) error {
	var req UpdateStoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	ctx := c.Request().Context()
	store, err := h.storeService.GetByID(ctx, c.Param("storeID"))
	if err != nil {
		return serviceError(err, "Failed to get store")
	}

	store.Name = req.Name
	store.TemperatureEquipment = req.TemperatureEquipment
	if req.IsActive != nil {
		store.IsActive = *req.IsActive
	}

	if err := h.storeService.Update(ctx, store); err != nil {
		return serviceError(err, "Failed to update store")
	}
	return c.JSON(http.StatusOK, store)
}

func (h *StoreHandlers) ListStores(c echo.Context) error {
	includeInactive := c.QueryParam("include_inactive") == "true"
	stores, err := h.storeService.List(c.Request().Context(), includeInactive)
	if err != nil {
		return serviceError(err, "Failed to list stores")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"stores": stores})
}

func (h *StoreHandlers) DeactivateStore(c echo.Context) error {
	if err := h.storeService.Deactivate(c.Request().Context(), c.Param("storeID")); err != nil {
		return serviceError(err, "Failed to deactivate store")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deactivated"})
}
