package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/uniconnect-hub/backend/internal/middleware"
	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/storage"
	"github.com/uniconnect-hub/backend/internal/viewmodel"
)

// PostHandler handles HTTP requests related to the feed
type PostHandler struct {
	posts *viewmodel.PostsViewModel
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *viewmodel.PostsViewModel) *PostHandler {
	return &PostHandler{posts: posts}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetFeed)
	g.POST("/posts", h.CreatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/like", h.ToggleLike)
	g.POST("/posts/:id/comments", h.CreateComment)
	g.POST("/posts/:id/save", h.SavePost)
	g.DELETE("/posts/:id/save", h.UnsavePost)
	g.GET("/hashtags/trending", h.TrendingHashtags)
}

// GetFeed returns the assembled feed for the authenticated user
func (h *PostHandler) GetFeed(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	feed, err := h.posts.PostsFor(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": feed})
}

// CreatePost creates a post from a multipart form: text fields plus optional
// media files under the "media" key.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	req := models.CreatePostRequest{
		Content:    c.FormValue("content"),
		Visibility: c.FormValue("visibility"),
	}
	if tags := c.FormValue("hashtags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				req.Hashtags = append(req.Hashtags, t)
			}
		}
	}
	if req.Visibility == "" {
		req.Visibility = models.VisibilityPublic
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var files []viewmodel.MediaUpload
	if form, err := c.MultipartForm(); err == nil {
		for _, header := range form.File["media"] {
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
			files = append(files, viewmodel.MediaUpload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}

	post, skipped := h.posts.CreatePost(c.Request().Context(), userID, req, files)
	if post == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, skipped[0].Error())
	}

	resp := echo.Map{"success": true, "data": post}
	if len(skipped) > 0 {
		msgs := make([]string, len(skipped))
		for i, e := range skipped {
			msgs[i] = e.Error()
		}
		resp["skipped_media"] = msgs
	}
	return c.JSON(http.StatusCreated, resp)
}

// DeletePost deletes the user's own post
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}

	if err := h.posts.DeletePost(userID, postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found or not yours")
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleLike likes or unlikes a post depending on current state
func (h *PostHandler) ToggleLike(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}

	liked, err := h.posts.LikePost(userID, postID)
	if err != nil {
		if err.Error() == "post not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "liked": liked})
}

// CreateComment adds a comment to a post
func (h *PostHandler) CreateComment(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.posts.CommentOnPost(userID, postID, req.Content)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": comment})
}

// SavePost bookmarks a post
func (h *PostHandler) SavePost(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}

	if err := h.posts.SavePost(userID, postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UnsavePost removes a bookmark
func (h *PostHandler) UnsavePost(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post id")
	}

	if err := h.posts.UnsavePost(userID, postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// TrendingHashtags returns the most used hashtags
func (h *PostHandler) TrendingHashtags(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": h.posts.TrendingHashtags(limit)})
}
