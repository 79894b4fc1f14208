package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/repositories"
)

// RequireAdmin gates a route group to users holding the admin role. Must run
// after JWTAuthMiddleware.
func RequireAdmin(roles repositories.RoleRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := UserIDFrom(c)
			if err != nil {
				return err
			}

			isAdmin, err := roles.HasRole(userID, models.RoleAdmin)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check role")
			}
			if !isAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}

// BlockSuspended rejects requests from suspended accounts. Must run after
// JWTAuthMiddleware.
func BlockSuspended(profiles repositories.ProfileRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := UserIDFrom(c)
			if err != nil {
				return err
			}

			profile, err := profiles.GetByUserID(userID)
			if err == nil && profile.IsSuspended {
				return echo.NewHTTPError(http.StatusForbidden, "Account suspended")
			}
			return next(c)
		}
	}
}
