package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/uniconnect-hub/backend/internal/middleware"
	"github.com/uniconnect-hub/backend/internal/viewmodel"
)

// FollowHandler handles HTTP requests related to the follow graph
type FollowHandler struct {
	follows *viewmodel.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows *viewmodel.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.Follow)
	g.DELETE("/users/:id/follow", h.Unfollow)
	g.GET("/users/:id/followers", h.Followers)
	g.GET("/users/:id/following", h.Following)
}

// Follow creates a follow edge to another user
func (h *FollowHandler) Follow(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	if err := h.follows.FollowUser(userID, targetID); err != nil {
		if err.Error() == "cannot follow yourself" {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusConflict, "Already following or user not found")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true})
}

// Unfollow removes a follow edge
func (h *FollowHandler) Unfollow(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	if err := h.follows.UnfollowUser(userID, targetID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Not following this user")
	}
	return c.NoContent(http.StatusNoContent)
}

// Followers lists the profiles following a user
func (h *FollowHandler) Followers(c echo.Context) error {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	profiles, err := h.follows.FollowersOf(targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": profiles})
}

// Following lists the profiles a user follows
func (h *FollowHandler) Following(c echo.Context) error {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	profiles, err := h.follows.FollowingOf(targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": profiles})
}
