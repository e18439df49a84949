package handlers

import (
	"fmt"
	"net/http"
	"time"

	"shiftstock/internal/caching"
	"shiftstock/internal/common"
	"shiftstock/internal/middleware"
	"shiftstock/internal/services"

	"github.com/labstack/echo/v4"
)

// SubmissionHandlers handles daily stock submission HTTP requests
type SubmissionHandlers struct {
	submissionService services.SubmissionService
	cacheService      caching.CacheService
}

func NewSubmissionHandlers(submissionService services.SubmissionService, cacheService caching.CacheService) *SubmissionHandlers {
	return &SubmissionHandlers{
		submissionService: submissionService,
		cacheService:      cacheService,
	}
}

// SubmitStockRequest represents the stock submission payload
type SubmitStockRequest struct {
	Date  string                             `json:"date"`
	Items map[string]services.SubmittedEntry `json:"items"`
}

// SubmitStock records or edits the day's stock count for a store.
func (h *SubmissionHandlers) SubmitStock(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing session")
	}

	var req SubmitStockRequest
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

	sub, err := h.submissionService.Submit(c.Request().Context(), user, c.Param("storeID"), date, req.Items, now)
	if err != nil {
		return serviceError(err, "Failed to save submission")
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *SubmissionHandlers) GetDay(c echo.Context) error {
	date := c.Param("date")
	if err := common.ValidateDayKey(date, "date"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sub, err := h.submissionService.GetByDay(c.Request().Context(), c.Param("storeID"), date)
	if err != nil {
		return serviceError(err, "Failed to get submission")
	}
	return c.JSON(http.StatusOK, sub)
}

// ListSubmissionsRequest represents query parameters for listing submissions
type ListSubmissionsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func (h *SubmissionHandlers) ListSubmissions(c echo.Context) error {
	var req ListSubmissionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	subs, err := h.submissionService.ListByStore(c.Request().Context(), c.Param("storeID"), limit, offset)
	if err != nil {
		return serviceError(err, "Failed to list submissions")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"submissions": subs,
		"limit":       limit,
		"offset":      offset,
	})
}

func (h *SubmissionHandlers) ListRevisions(c echo.Context) error {
	date := c.Param("date")
	if err := common.ValidateDayKey(date, "date"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	revs, err := h.submissionService.ListRevisions(c.Request().Context(), c.Param("storeID"), date)
	if err != nil {
		return serviceError(err, "Failed to list revisions")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"revisions": revs})
}

func (h *SubmissionHandlers) GetCurrentStock(c echo.Context) error {
	stock, err := h.submissionService.CurrentStock(c.Request().Context(), c.Param("storeID"))
	if err != nil {
		return serviceError(err, "Failed to get current stock")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"stock": stock})
}

// StreamChanges pushes change notifications for a store as server-sent
// events until the client disconnects.
func (h *SubmissionHandlers) StreamChanges(c echo.Context) error {
	storeID := c.Param("storeID")
	ctx := c.Request().Context()

	sub := h.cacheService.Subscribe(ctx, storeID)
	defer sub.Close()

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Flush()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintf(c.Response(), "data: %s\n\n", msg.Payload); err != nil {
				return nil
			}
			c.Response().Flush()
		}
	}
}
