package handlers

import (
	"errors"
	"net/http"

	"shiftstock/internal/services"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
)

// serviceError maps the service-layer sentinel errors onto HTTP responses so
// every handler translates them the same way.
func serviceError(err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrStoreAccess):
		return echo.NewHTTPError(http.StatusForbidden, "Store access denied")
	case errors.Is(err, services.ErrBadCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many attempts, try again shortly")
	case errors.Is(err, pgx.ErrNoRows):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case isUniqueViolation(err):
		return echo.NewHTTPError(http.StatusConflict, "Already exists")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fallback)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
