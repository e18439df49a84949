package handlers

import (
	"net/http"
	"time"

	"shiftstock/internal/common"
	"shiftstock/internal/middleware"
	"shiftstock/internal/services"

	"github.com/labstack/echo/v4"
)

// TemperatureHandlers handles temperature check HTTP requests
type TemperatureHandlers struct {
	temperatureService services.TemperatureService
}

func NewTemperatureHandlers(temperatureService services.TemperatureService) *TemperatureHandlers {
	return &TemperatureHandlers{temperatureService: temperatureService}
}

// SaveCheckRequest represents the temperature check payload
type SaveCheckRequest struct {
	Date     string                               `json:"date"`
	Readings map[string]services.TemperatureEntry `json:"readings"`
}

// SaveCheck records a slot's temperature readings for a store.
func (h *TemperatureHandlers) SaveCheck(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing session")
	}

	var req SaveCheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	now := time.Now()
	date := req.Date
	if date == "" {
		date = common.DayKey(now)
	}
	if err := common.ValidateDayKey(date, "date"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	check, err := h.temperatureService.SaveCheck(c.Request().Context(), user, c.Param("storeID"), date, c.Param("slot"), req.Readings, now)
	if err != nil {
		return serviceError(err, "Failed to save check")
	}
	return c.JSON(http.StatusOK, check)
}

// AdminUpdateCheck lets an admin correct any store's slot readings.
func (h *TemperatureHandlers) AdminUpdateCheck(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing session")
	}

	var req SaveCheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	date := c.Param("date")
	if err := common.ValidateDayKey(date, "date"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	check, err := h.temperatureService.AdminUpdateCheck(c.Request().Context(), user, c.Param("storeID"), date, c.Param("slot"), req.Readings, time.Now())
	if err != nil {
		return serviceError(err, "Failed to update check")
	}
	return c.JSON(http.StatusOK, check)
}

func (h *TemperatureHandlers) GetDay(c echo.Context) error {
	date := c.Param("date")
	if err := common.ValidateDayKey(date, "date"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	day, err := h.temperatureService.GetDay(c.Request().Context(), c.Param("storeID"), date)
	if err != nil {
		return serviceError(err, "Failed to get temperature day")
	}
	return c.JSON(http.StatusOK, day)
}

func (h *TemperatureHandlers) ListChecks(c echo.Context) error {
	date := c.Param("date")
	if err := common.ValidateDayKey(date, "date"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	checks, err := h.temperatureService.ListChecks(c.Request().Context(), c.Param("storeID"), date)
	if err != nil {
		return serviceError(err, "Failed to list checks")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"checks": checks})
}

// ListRecentDays serves the trailing 90-day compliance history.
func (h *TemperatureHandlers) ListRecentDays(c echo.Context) error {
	days, err := h.temperatureService.ListRecentDays(c.Request().Context(), c.Param("storeID"), time.Now())
	if err != nil {
		return serviceError(err, "Failed to list temperature days")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"days": days})
}
