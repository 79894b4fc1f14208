package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/uniconnect-hub/backend/internal/middleware"
	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/viewmodel"
)

// ConfessionHandler handles HTTP requests related to the confession board
type ConfessionHandler struct {
	confessions *viewmodel.ConfessionService
}

// NewConfessionHandler creates a new ConfessionHandler
func NewConfessionHandler(confessions *viewmodel.ConfessionService) *ConfessionHandler {
	return &ConfessionHandler{confessions: confessions}
}

// RegisterConfessionRoutes registers public confession routes
func (h *ConfessionHandler) RegisterConfessionRoutes(g *echo.Group) {
	g.GET("/confessions", h.GetApproved)
	g.POST("/confessions", h.Submit)
}

// RegisterAdminConfessionRoutes registers moderation routes
func (h *ConfessionHandler) RegisterAdminConfessionRoutes(g *echo.Group) {
	g.GET("/confessions/pending", h.GetPending)
	g.PUT("/confessions/:id/approve", h.Approve)
	g.PUT("/confessions/:id/reject", h.Reject)
}

// GetApproved returns the public confession board
func (h *ConfessionHandler) GetApproved(c echo.Context) error {
	confessions, err := h.confessions.Approved()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": confessions})
}

// Submit queues an anonymous confession for moderation
func (h *ConfessionHandler) Submit(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	var req models.SubmitConfessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	confession, err := h.confessions.Submit(userID, req.Content)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{
		"id":     confession.ID,
		"status": confession.Status,
	}})
}

// GetPending returns the moderation queue
func (h *ConfessionHandler) GetPending(c echo.Context) error {
	confessions, err := h.confessions.Pending()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": confessions})
}

// Approve publishes a pending confession
func (h *ConfessionHandler) Approve(c echo.Context) error {
	adminID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	confessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid confession id")
	}

	if err := h.confessions.Approve(adminID, confessionID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Reject discards a pending confession
func (h *ConfessionHandler) Reject(c echo.Context) error {
	adminID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	confessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid confession id")
	}

	if err := h.confessions.Reject(adminID, confessionID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
