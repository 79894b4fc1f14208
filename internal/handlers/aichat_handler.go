package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/uniconnect-hub/backend/internal/aichat"
	"github.com/uniconnect-hub/backend/internal/middleware"
	"github.com/uniconnect-hub/backend/internal/models"
	"github.com/uniconnect-hub/backend/internal/repositories"
)

// AIChatHandler handles assistant conversations
type AIChatHandler struct {
	service        *aichat.Service
	roleRepository repositories.RoleRepository
}

// NewAIChatHandler creates a new AIChatHandler
func NewAIChatHandler(service *aichat.Service, roleRepo repositories.RoleRepository) *AIChatHandler {
	return &AIChatHandler{service: service, roleRepository: roleRepo}
}

// RegisterAIChatRoutes registers assistant routes
func (h *AIChatHandler) RegisterAIChatRoutes(g *echo.Group) {
	g.POST("/ai/chat", h.Chat)
	g.GET("/ai/transcripts", h.Transcripts)
	g.GET("/ai/transcripts/:id", h.Transcript)
}

// Chat streams the assistant's reply as SSE. The persona follows the caller's
// role; an optional transcript_id query continues an existing conversation.
func (h *AIChatHandler) Chat(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	var req models.ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role := models.RoleStudent
	if isAdmin, err := h.roleRepository.HasRole(userID, models.RoleAdmin); err == nil && isAdmin {
		role = models.RoleAdmin
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	onDelta := func(delta string) error {
		chunk, err := json.Marshal(echo.Map{"delta": delta})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", chunk); err != nil {
			return err
		}
		w.Flush()
		return nil
	}

	transcriptID, _, err := h.service.StreamReply(
		c.Request().Context(), userID, role, c.QueryParam("transcript_id"), req.Messages, onDelta)
	if err != nil {
		// headers are gone; deliver the failure as an SSE error event
		status := http.StatusInternalServerError
		if errors.Is(err, aichat.ErrRateLimited) {
			status = http.StatusTooManyRequests
		} else if errors.Is(err, aichat.ErrQuotaExhausted) {
			status = http.StatusPaymentRequired
		}
		payload, _ := json.Marshal(echo.Map{"error": err.Error(), "status": status})
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", payload)
		w.Flush()
		return nil
	}

	done, _ := json.Marshal(echo.Map{"transcript_id": transcriptID})
	fmt.Fprintf(w, "event: done\ndata: %s\n\n", done)
	fmt.Fprint(w, "data: [DONE]\n\n")
	w.Flush()
	return nil
}

// Transcripts returns the user's recent assistant conversations
func (h *AIChatHandler) Transcripts(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	transcripts, err := h.service.TranscriptsFor(c.Request().Context(), userID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": transcripts})
}

// Transcript returns one of the user's conversations
func (h *AIChatHandler) Transcript(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	transcript, err := h.service.Transcript(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, aichat.ErrForbidden) {
			return echo.NewHTTPError(http.StatusForbidden, "Not your transcript")
		}
		return echo.NewHTTPError(http.StatusNotFound, "Transcript not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": transcript})
}
