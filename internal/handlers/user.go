package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/uniconnect-hub/backend/internal/middleware"
	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/repositories"
	"github.com/uniconnect-hub/backend/internal/storage"
	"github.com/uniconnect-hub/backend/internal/viewmodel"
)

// UserHandler handles profile-related HTTP requests
type UserHandler struct {
	profileRepository repositories.ProfileRepository
	follows           *viewmodel.FollowService
	store             storage.ObjectStore
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(profileRepo repositories.ProfileRepository, follows *viewmodel.FollowService, store storage.ObjectStore) *UserHandler {
	return &UserHandler{profileRepository: profileRepo, follows: follows, store: store}
}

// RegisterUserRoutes registers profile-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/profile", h.GetOwnProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.POST("/profile/avatar", h.UploadAvatar)
	g.POST("/profile/online", h.SetOnline)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetProfile)
}

// GetOwnProfile returns the authenticated user's profile
func (h *UserHandler) GetOwnProfile(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	profile, err := h.profileRepository.GetByUserID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates the authenticated user's own profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fields := map[string]any{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Bio != "" {
		fields["bio"] = req.Bio
	}
	if req.University != "" {
		fields["university"] = req.University
	}
	if req.Course != "" {
		fields["course"] = req.Course
	}
	if req.YearOfStudy != 0 {
		fields["year_of_study"] = req.YearOfStudy
	}
	if len(fields) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No fields to update")
	}

	if err := h.profileRepository.UpdateProfile(userID, fields); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	profile, err := h.profileRepository.GetByUserID(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, profile)
}

// UploadAvatar replaces the authenticated user's avatar image
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	header, err := c.FormFile("avatar")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing avatar file")
	}
	if err := storage.ValidateFile(header, storage.ImageConstraints); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	file, err := header.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read avatar file")
	}
	defer file.Close()

	path := fmt.Sprintf("%s/%d%s", userID, time.Now().UnixMilli(), strings.ToLower(filepath.Ext(header.Filename)))
	if err := h.store.Upload(c.Request().Context(), path, file, header.Header.Get("Content-Type")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store avatar")
	}

	avatarURL := h.store.PublicURL(path)
	if err := h.profileRepository.UpdateProfile(userID, map[string]any{"avatar_url": avatarURL}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"avatar_url": avatarURL})
}

// SetOnline flips the authenticated user's presence flag
func (h *UserHandler) SetOnline(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	var req struct {
		Online bool `json:"online"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.profileRepository.SetOnline(userID, req.Online); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"online": req.Online})
}

// GetProfile returns another user's profile with follow stats
func (h *UserHandler) GetProfile(c echo.Context) error {
	viewer, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	profile, err := h.profileRepository.GetByUserID(targetID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	stats, err := h.follows.StatsFor(viewer, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"profile": profile, "follow_stats": stats})
}

// SearchUsers searches profiles by username or name
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	profiles, err := h.profileRepository.SearchProfiles(query, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]models.ProfileCompact, len(profiles))
	for i := range profiles {
		results[i] = profiles[i].ToCompact()
	}
	return c.JSON(http.StatusOK, results)
}
