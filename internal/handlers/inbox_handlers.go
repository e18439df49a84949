package handlers

import (
	"net/http"
	"time"

	"shiftstock/internal/common"
	"shiftstock/internal/services"

	"github.com/labstack/echo/v4"
)

// InboxHandlers handles admin inbox and dashboard HTTP requests
type InboxHandlers struct {
	signalService services.SignalService
}

func NewInboxHandlers(signalService services.SignalService) *InboxHandlers {
	return &InboxHandlers{signalService: signalService}
}

func (h *InboxHandlers) GetBadges(c echo.Context) error {
	counts, err := h.signalService.UnreadCounts(c.Request().Context(), c.Param("storeID"))
	if err != nil {
		return serviceError(err, "Failed to get badge counts")
	}
	return c.JSON(http.StatusOK, counts)
}

func (h *InboxHandlers) GetNeedsReview(c echo.Context) error {
	counts, err := h.signalService.NeedsReviewCounts(c.Request().Context(), c.Param("storeID"))
	if err != nil {
		return serviceError(err, "Failed to get review counts")
	}
	return c.JSON(http.StatusOK, counts)
}

func (h *InboxHandlers) GetInbox(c echo.Context) error {
	entries, err := h.signalService.Inbox(c.Request().Context(), c.Param("storeID"))
	if err != nil {
		return serviceError(err, "Failed to get inbox")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"entries": entries})
}

// MarkReadRequest represents the mark-read payload
type MarkReadRequest struct {
	Kind string `json:"kind"`
	Date string `json:"date"`
}

func (h *InboxHandlers) MarkRead(c echo.Context) error {
	var req MarkReadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateDayKey(req.Date, "date"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.signalService.MarkRead(c.Request().Context(), c.Param("storeID"), req.Kind, req.Date); err != nil {
		return serviceError(err, "Failed to mark read")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "read"})
}

func (h *InboxHandlers) Confirm(c echo.Context) error {
	var req MarkReadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateDayKey(req.Date, "date"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.signalService.Confirm(c.Request().Context(), c.Param("storeID"), req.Kind, req.Date, time.Now()); err != nil {
		return serviceError(err, "Failed to confirm")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "confirmed"})
}

// GetDashboard bundles today's equipment alert rows with the current low and
// out-of-stock items.
func (h *InboxHandlers) GetDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	storeID := c.Param("storeID")

	alerts, err := h.signalService.TodayAlertRows(ctx, storeID, time.Now())
	if err != nil {
		return serviceError(err, "Failed to get alert rows")
	}

	lowOut, err := h.signalService.LowOutRows(ctx, storeID)
	if err != nil {
		return serviceError(err, "Failed to get stock rows")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"alerts":  alerts,
		"low_out": lowOut,
	})
}
