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

// MessageHandler handles HTTP requests related to conversations and messages
type MessageHandler struct {
	messages *viewmodel.MessagesViewModel
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messages *viewmodel.MessagesViewModel) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// RegisterMessageRoutes registers messaging-related routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/conversations", h.GetConversations)
	g.POST("/conversations", h.StartConversation)
	g.POST("/conversations/group", h.CreateGroupChat)
	g.GET("/conversations/:id/messages", h.OpenConversation)
	g.POST("/conversations/:id/messages", h.SendMessage)
	g.GET("/messages/unread", h.UnreadTotal)
}

// GetConversations returns the user's conversation list with unread counts
func (h *MessageHandler) GetConversations(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": h.messages.ConversationsFor(userID)})
}

// StartConversation finds or creates a direct conversation with another user
func (h *MessageHandler) StartConversation(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	var req models.StartConversationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conv, err := h.messages.StartConversation(userID, req.UserID)
	if err != nil {
		if err.Error() == "cannot start a conversation with yourself" {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": conv})
}

// CreateGroupChat creates a named group conversation
func (h *MessageHandler) CreateGroupChat(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	var req models.CreateGroupChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conv, err := h.messages.CreateGroupChat(userID, req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": conv})
}

// OpenConversation returns a conversation's history and marks it read
func (h *MessageHandler) OpenConversation(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	convID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid conversation id")
	}

	msgs, err := h.messages.OpenConversation(userID, convID)
	if err != nil {
		if err.Error() == "not a participant of this conversation" {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": msgs})
}

// SendMessage appends a message to a conversation
func (h *MessageHandler) SendMessage(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}

	convID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid conversation id")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.messages.SendMessage(userID, convID, req.Content)
	if err != nil {
		if err.Error() == "not a participant of this conversation" {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": msg})
}

// UnreadTotal returns the user's unread message count across conversations
func (h *MessageHandler) UnreadTotal(c echo.Context) error {
	userID, err := middleware.UserIDFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "unread": h.messages.UnreadTotalFor(userID)})
}
