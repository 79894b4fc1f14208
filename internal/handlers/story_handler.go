package handlers

import (
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/uniconnect-hub/backend/internal/middleware"
	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/storage"
	"github.com/uniconnect-hub/backend/internal/viewmodel"
)

// StoryHandler handles HTTP requests related to stories
type StoryHandler struct {
	stories *viewmodel.StoriesViewModel
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(stories *viewmodel.StoriesViewModel) *StoryHandler {
	return &StoryHandler{stories: stories}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.GET("/stories", h.GetStories)
	g.POST("/stories", h.CreateStory)
	g.DELETE("/stories/:id", h.DeleteStory)
	g.POST("/stories/:id/like", h.ToggleLike)
}

// GetStories returns the active stories grouped per author
func (h *StoryHandler) GetStories(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": h.stories.StoriesByUserFor(userID)})
}

// CreateStory creates a story from a multipart form with an optional media file
func (h *StoryHandler) CreateStory(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	req := models.CreateStoryRequest{Content: c.FormValue("content")}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var upload *viewmodel.MediaUpload
	if header, err := c.FormFile("media"); err == nil {
		if err := storage.ValidateFile(header, storage.ImageConstraints, storage.VideoConstraints); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		src, err := header.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read upload")
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read upload")
		}
		upload = &viewmodel.MediaUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	story, err := h.stories.CreateStory(c.Request().Context(), userID, req, upload)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": story})
}

// DeleteStory deletes the user's own story
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story id")
	}

	if err := h.stories.DeleteStory(userID, storyID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found or not yours")
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleLike likes or unlikes a story depending on current state
func (h *StoryHandler) ToggleLike(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story id")
	}

	liked, err := h.stories.LikeStory(userID, storyID)
	if err != nil {
		if err.Error() == "story not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Story not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "liked": liked})
}
