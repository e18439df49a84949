package handlers

import (
	"net/http"

	"shiftstock/internal/common"
	"shiftstock/internal/models"
	"shiftstock/internal/services"

	"github.com/labstack/echo/v4"
)

// ItemHandlers handles item catalog HTTP requests
type ItemHandlers struct {
	itemService services.ItemService
}

func NewItemHandlers(itemService services.ItemService) *ItemHandlers {
	return &ItemHandlers{itemService: itemService}
}

// CreateItemRequest represents the item creation payload
type CreateItemRequest struct {
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	CategoryOrder     int      `json:"category_order"`
	DefaultUnit       string   `json:"default_unit"`
	LowStockThreshold *float64 `json:"low_stock_threshold"`
}

func (h *ItemHandlers) CreateItem(c echo.Context) error {
	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	item := &models.Item{
		StoreID:           c.Param("storeID"),
		Name:              req.Name,
		Category:          req.Category,
		CategoryOrder:     req.CategoryOrder,
		DefaultUnit:       req.DefaultUnit,
		LowStockThreshold: req.LowStockThreshold,
	}

	created, err := h.itemService.Create(c.Request().Context(), item)
	if err != nil {
		return serviceError(err, "Failed to create item")
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *ItemHandlers) GetItem(c echo.Context) error {
	itemID, err := common.ValidateUUID(c.Param("itemID"), "item id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.itemService.GetByID(c.Request().Context(), c.Param("storeID"), itemID)
	if err != nil {
		return serviceError(err, "Failed to get item")
	}
	return c.JSON(http.StatusOK, item)
}

// UpdateItemRequest represents the item update payload
type UpdateItemRequest struct {
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	CategoryOrder     int      `json:"category_order"`
	DefaultUnit       string   `json:"default_unit"`
	LowStockThreshold *float64 `json:"low_stock_threshold"`
	SortOrder         *int     `json:"sort_order"`
	IsActive          *bool    `json:"is_active"`
}

func (h *ItemHandlers) UpdateItem(c echo.Context) error {
	itemID, err := common.ValidateUUID(c.Param("itemID"), "item id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	ctx := c.Request().Context()
	item, err := h.itemService.GetByID(ctx, c.Param("storeID"), itemID)
	if err != nil {
		return serviceError(err, "Failed to get item")
	}

	item.Name = req.Name
	item.Category = req.Category
	item.CategoryOrder = req.CategoryOrder
	item.DefaultUnit = req.DefaultUnit
	item.LowStockThreshold = req.LowStockThreshold
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := h.itemService.Update(ctx, item); err != nil {
		return serviceError(err, "Failed to update item")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandlers) ListItems(c echo.Context) error {
	includeInactive := c.QueryParam("include_inactive") == "true"
	items, err := h.itemService.ListByStore(c.Request().Context(), c.Param("storeID"), includeInactive)
	if err != nil {
		return serviceError(err, "Failed to list items")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": items})
}

func (h *ItemHandlers) DeactivateItem(c echo.Context) error {
	itemID, err := common.ValidateUUID(c.Param("itemID"), "item id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.itemService.Deactivate(c.Request().Context(), c.Param("storeID"), itemID); err != nil {
		return serviceError(err, "Failed to deactivate item")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deactivated"})
}

// DeleteItem removes the item permanently. Deactivation is the normal path;
// this one is for catalog mistakes.
func (h *ItemHandlers) DeleteItem(c echo.Context) error {
	itemID, err := common.ValidateUUID(c.Param("itemID"), "item id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.itemService.Delete(c.Request().Context(), c.Param("storeID"), itemID); err != nil {
		return serviceError(err, "Failed to delete item")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
