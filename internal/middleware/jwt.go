package middleware

import (
	"context"
	"net/http"

	"shiftstock/internal/common"
	"shiftstock/internal/models"
	"shiftstock/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTCustomClaims carries the session identity. Store grants are resolved
// from the user record on every request so revoking a store takes effect
// immediately, not at token expiry.
type JWTCustomClaims struct {
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
	Name       string `json:"name"`
	EmployeeID string `json:"employee_id"`
	jwt.RegisteredClaims
}

const currentUserKey = "current_user"

// JWTConfig builds the echo-jwt configuration for bearer token validation.
func JWTConfig(jwtSecret string) echojwt.Config {
	return echojwt.Config{
		SigningKey: []byte(jwtSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(JWTCustomClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}
}

// LoadUser resolves the token claims set by echo-jwt into a live user record
// on the echo context. Deactivated users are rejected even with a valid token.
func LoadUser(userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			claims, ok := token.Claims.(*JWTCustomClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token not valid")
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user_id format")
			}

			user, err := userRepo.GetByID(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
			}
			if !user.IsActive {
				return echo.NewHTTPError(http.StatusUnauthorized, "User is deactivated")
			}

			c.Set(currentUserKey, user)

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
			ctx = context.WithValue(ctx, common.RoleKey, user.Role)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// CurrentUser returns the user loaded by LoadUser, or nil outside it.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(currentUserKey).(*models.User)
	return user
}

// RequireAdmin rejects non-admin callers.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil || user.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Admin role required")
		}
		return next(c)
	}
}

// RequireStoreAccess rejects callers not granted the store named by the
// :storeID path parameter. Admins pass for any store.
func RequireStoreAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing session")
		}
		storeID := c.Param("storeID")
		if user.Role != models.RoleAdmin && !user.HasStore(storeID) {
			return echo.NewHTTPError(http.StatusForbidden, "Store access denied")
		}
		return next(c)
	}
}
