package handlers

import (
	"net/http"

	"shiftstock/internal/common"
	"shiftstock/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers handles user administration HTTP requests
type UserHandlers struct {
	userService services.UserService
}

func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

// CreateEmployeeRequest represents the employee provisioning payload
type CreateEmployeeRequest struct {
	Name       string   `json:"name"`
	EmployeeID string   `json:"employee_id"`
	PIN        string   `json:"pin"`
	Role       string   `json:"role"`
	StoreIDs   []string `json:"store_ids"`
}

func (h *UserHandlers) CreateEmployee(c echo.Context) error {
	var req CreateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	user, err := h.userService.CreateEmployee(c.Request().Context(), req.Name, req.EmployeeID, req.PIN, req.Role, req.StoreIDs)
	if err != nil {
		return serviceError(err, "Failed to create employee")
	}
	return c.JSON(http.StatusCreated, user)
}

// ListUsersRequest represents query parameters for listing users
type ListUsersRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func (h *UserHandlers) ListUsers(c echo.Context) error {
	var req ListUsersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	users, err := h.userService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return serviceError(err, "Failed to list users")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"users":  users,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *UserHandlers) GetUser(c echo.Context) error {
	userID, err := common.ValidateUUID(c.Param("userID"), "user id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.GetByID(c.Request().Context(), userID)
	if err != nil {
		return serviceError(err, "Failed to get user")
	}
	return c.JSON(http.StatusOK, user)
}

// GrantStoresRequest represents the store grant payload
type GrantStoresRequest struct {
	StoreIDs       []string `json:"store_ids"`
	DefaultStoreID string   `json:"default_store_id"`
}

func (h *UserHandlers) GrantStores(c echo.Context) error {
	userID, err := common.ValidateUUID(c.Param("userID"), "user id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req GrantStoresRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	user, err := h.userService.GrantStores(c.Request().Context(), userID, req.StoreIDs, req.DefaultStoreID)
	if err != nil {
		return serviceError(err, "Failed to grant stores")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) DeactivateUser(c echo.Context) error {
	userID, err := common.ValidateUUID(c.Param("userID"), "user id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.Deactivate(c.Request().Context(), userID); err != nil {
		return serviceError(err, "Failed to deactivate user")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deactivated"})
}
