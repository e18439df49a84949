package handlers

import (
	"net/http"

	"shiftstock/internal/services"

	"github.com/labstack/echo/v4"
)

// ReportHandlers handles report HTTP requests
type ReportHandlers struct {
	reportService services.ReportService
}

func NewReportHandlers(reportService services.ReportService) *ReportHandlers {
	return &ReportHandlers{reportService: reportService}
}

// ReportRequest represents query parameters for report generation
type ReportRequest struct {
	Mode   string `query:"mode"`
	Anchor string `query:"anchor"`
}

func (h *ReportHandlers) GetSummary(c echo.Context) error {
	var req ReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	startDate, endDate, err := h.reportService.DateRange(req.Mode, req.Anchor)
	if err != nil {
		return serviceError(err, "Failed to resolve report window")
	}

	summary, err := h.reportService.Summarize(c.Request().Context(), c.Param("storeID"), startDate, endDate)
	if err != nil {
		return serviceError(err, "Failed to summarize")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"start":   startDate,
		"end":     endDate,
		"summary": summary,
	})
}

// DownloadCSV streams the requested CSV variant straight to the client.
func (h *ReportHandlers) DownloadCSV(c echo.Context) error {
	var req ReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	startDate, endDate, err := h.reportService.DateRange(req.Mode, req.Anchor)
	if err != nil {
		return serviceError(err, "Failed to resolve report window")
	}

	ctx := c.Request().Context()
	storeID := c.Param("storeID")
	variant := c.Param("variant")

	var data []byte
	switch variant {
	case "summary":
		data, err = h.reportService.SummaryCSV(ctx, storeID, startDate, endDate)
	case "detailed":
		data, err = h.reportService.DetailedCSV(ctx, storeID, startDate, endDate)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown report variant")
	}
	if err != nil {
		return serviceError(err, "Failed to render report")
	}

	filename := "report_" + storeID + "_" + req.Mode + "_" + startDate + "_to_" + endDate + "_" + variant + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}

// ArchiveRequest represents the archive payload
type ArchiveRequest struct {
	Mode    string `json:"mode"`
	Anchor  string `json:"anchor"`
	Variant string `json:"variant"`
}

// Archive stores the report CSV in the object store and returns a download
// link.
func (h *ReportHandlers) Archive(c echo.Context) error {
	var req ArchiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	url, err := h.reportService.Archive(c.Request().Context(), c.Param("storeID"), req.Mode, req.Anchor, req.Variant)
	if err != nil {
		return serviceError(err, "Failed to archive report")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
