package handlers

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/uniconnect-hub/backend/internal/middleware"
	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/viewmodel"
)

// VerificationHandler handles HTTP requests related to verified badges
type VerificationHandler struct {
	verification *viewmodel.VerificationService
}

// NewVerificationHandler creates a new VerificationHandler
func NewVerificationHandler(verification *viewmodel.VerificationService) *VerificationHandler {
	return &VerificationHandler{verification: verification}
}

// RegisterVerificationRoutes registers user-facing verification routes
func (h *VerificationHandler) RegisterVerificationRoutes(g *echo.Group) {
	g.POST("/verification", h.Apply)
	g.GET("/verification", h.Status)
}

// RegisterAdminVerificationRoutes registers review routes
func (h *VerificationHandler) RegisterAdminVerificationRoutes(g *echo.Group) {
	g.GET("/verification/requests", h.All)
	g.PUT("/verification/requests/:id/approve", h.Approve)
	g.PUT("/verification/requests/:id/reject", h.Reject)
}

// Apply submits a verification application
func (h *VerificationHandler) Apply(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	var req models.ApplyVerificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	request, err := h.verification.Apply(userID, req)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": request})
}

// Status returns the user's verification application state
func (h *VerificationHandler) Status(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	request, err := h.verification.StatusFor(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": request})
}

// All returns every verification application
func (h *VerificationHandler) All(c echo.Context) error {
	requests, err := h.verification.All()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": requests})
}

// Approve grants the verified badge
func (h *VerificationHandler) Approve(c echo.Context) error {
	adminID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request id")
	}

	var req models.ReviewVerificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.verification.Approve(adminID, requestID, req.Notes); err != nil {
		if strings.Contains(err.Error(), "already reviewed") {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Reject declines a verification application
func (h *VerificationHandler) Reject(c echo.Context) error {
	adminID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request id")
	}

	var req models.ReviewVerificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.verification.Reject(adminID, requestID, req.Notes); err != nil {
		if strings.Contains(err.Error(), "already reviewed") {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
