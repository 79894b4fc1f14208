package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/uniconnect-hub/backend/internal/middleware"
	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/repositories"
	"github.com/uniconnect-hub/backend/internal/viewmodel"
)

// AdminHandler handles user management, broadcasts and the audit trail
type AdminHandler struct {
	profileRepository repositories.ProfileRepository
	auditRepository   repositories.AuditRepository
	notifications     *viewmodel.NotificationsViewModel
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	profileRepo repositories.ProfileRepository,
	auditRepo repositories.AuditRepository,
	notifications *viewmodel.NotificationsViewModel,
) *AdminHandler {
	return &AdminHandler{
		profileRepository: profileRepo,
		auditRepository:   auditRepo,
		notifications:     notifications,
	}
}

// RegisterAdminRoutes registers admin-only routes
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/users", h.ListUsers)
	g.PUT("/users/:id/suspend", h.SuspendUser)
	g.PUT("/users/:id/unsuspend", h.UnsuspendUser)
	g.POST("/broadcast", h.Broadcast)
	g.GET("/audit-logs", h.AuditLogs)
}

// ListUsers returns every profile for the admin dashboard
func (h *AdminHandler) ListUsers(c echo.Context) error {
	profiles, err := h.profileRepository.GetAll()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": profiles})
}

// SuspendUser suspends an account and audits the action
func (h *AdminHandler) SuspendUser(c echo.Context) error {
	return h.setSuspended(c, true, models.AuditSuspendUser)
}

// UnsuspendUser lifts a suspension and audits the action
func (h *AdminHandler) UnsuspendUser(c echo.Context) error {
	return h.setSuspended(c, false, models.AuditUnsuspendUser)
}

func (h *AdminHandler) setSuspended(c echo.Context, suspended bool, action string) error {
	adminID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}
	if targetID == adminID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot suspend your own account")
	}

	if err := h.profileRepository.SetSuspended(targetID, suspended); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.auditRepository.Record(action, adminID, &targetID, "user", nil); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Suspension applied but audit write failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "suspended": suspended})
}

// Broadcast fans a notification out to every user and audits the action
func (h *AdminHandler) Broadcast(c echo.Context) error {
	adminID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	var req models.BroadcastRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.notifications.Broadcast(req.Title, req.Message)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.auditRepository.Record(models.AuditBroadcast, adminID, nil, "notification",
		map[string]any{"title": req.Title, "recipients": created}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Broadcast sent but audit write failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "recipients": created})
}

// AuditLogs returns the most recent admin actions
func (h *AdminHandler) AuditLogs(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	logs, err := h.auditRepository.GetRecent(limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": logs})
}
