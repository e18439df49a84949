package handlers

import (
	"net/http"

	"shiftstock/internal/middleware"
	"shiftstock/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles login and session endpoints
type AuthHandlers struct {
	userService services.UserService
}

func NewAuthHandlers(userService services.UserService) *AuthHandlers {
	return &AuthHandlers{userService: userService}
}

// LoginRequest represents the login payload
type LoginRequest struct {
	EmployeeID string `json:"employee_id"`
	PIN        string `json:"pin"`
}

// Login exchanges an employee id and PIN for a bearer token.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	result, err := h.userService.Login(c.Request().Context(), req.EmployeeID, req.PIN)
	if err != nil {
		return serviceError(err, "Login failed")
	}

	return c.JSON(http.StatusOK, result)
}

// Me returns the authenticated user's own record.
func (h *AuthHandlers) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing session")
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePINRequest represents the PIN change payload
type ChangePINRequest struct {
	PIN string `json:"pin"`
}

// ChangePIN lets the authenticated user rotate their own PIN.
func (h *AuthHandlers) ChangePIN(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing session")
	}

	var req ChangePINRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.userService.ChangePIN(c.Request().Context(), user.ID, req.PIN); err != nil {
		return serviceError(err, "Failed to change PIN")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}
