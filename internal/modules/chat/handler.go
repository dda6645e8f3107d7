package chat

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"txunajob/internal/database"
	"txunajob/internal/middleware"
	"txunajob/internal/pkg/access"
	"txunajob/internal/pkg/response"
)

type Handler struct {
	service *Service
	log     *logrus.Logger
}

func NewHandler(service *Service, log *logrus.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterClientRoutes expects a group already restricted to clients.
func (h *Handler) RegisterClientRoutes(client *gin.RouterGroup) {
	client.POST("/chats", h.Open)
	client.GET("/chats/:id/messages", h.GetMessages)
}

// RegisterRoutes mounts the participant routes under the protected group.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	chats := protected.Group("/chats")
	{
		chats.GET("/:id/messages", h.GetMessages)
		chats.POST("/:id/messages", h.Send)
		chats.POST("/:id/read", h.MarkRead)
	}
}

// Open starts or resumes the caller's chat with a professional.
//
// @Summary		Open chat
// @Tags		Chat
// @Accept		json
// @Produce		json
// @Security	BearerAuth
// @Param		request	body	OpenChatRequest	true	"professional and optional first message"
// @Success		201	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{} "professional not found"
// @Router		/client/chats [POST]
func (h *Handler) Open(c *gin.Context) {
	var req OpenChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	chat, msg, err := h.service.Open(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := gin.H{"chat": ToChatResponse(chat)}
	if msg != nil {
		out["initial_message"] = ToMessageResponse(msg)
	}
	response.Success(c, http.StatusCreated, out)
}

// GetMessages lists a chat's messages oldest first.
//
// @Summary		Chat messages
// @Tags		Chat
// @Produce		json
// @Security	BearerAuth
// @Param		id		path	int	true	"Chat ID"
// @Param		limit	query	int	false	"max messages"	default(50)
// @Success		200	{object}	map[string]interface{}
// @Failure		403	{object}	map[string]interface{} "not a participant"
// @Router		/chats/{id}/messages [GET]
func (h *Handler) GetMessages(c *gin.Context) {
	id, ok := chatID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	msgs, err := h.service.Messages(c.Request.Context(), middleware.CurrentActor(c), id, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"messages": ToMessageResponses(msgs)})
}

// Send posts a message into a chat the caller takes part in.
//
// @Summary		Send message
// @Tags		Chat
// @Accept		json
// @Produce		json
// @Security	BearerAuth
// @Param		id		path	int					true	"Chat ID"
// @Param		request	body	SendMessageRequest	true	"message content"
// @Success		201	{object}	map[string]interface{}
// @Router		/chats/{id}/messages [POST]
func (h *Handler) Send(c *gin.Context) {
	id, ok := chatID(c)
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Message content is required")
		return
	}

	msg, err := h.service.Send(c.Request.Context(), middleware.CurrentActor(c), id, req.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": ToMessageResponse(msg)})
}

// MarkRead marks the other participant's messages as read.
//
// @Summary		Mark chat read
// @Tags		Chat
// @Security	BearerAuth
// @Param		id	path	int	true	"Chat ID"
// @Success		200	{object}	map[string]interface{}
// @Router		/chats/{id}/read [POST]
func (h *Handler) MarkRead(c *gin.Context) {
	id, ok := chatID(c)
	if !ok {
		return
	}

	count, err := h.service.MarkRead(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked_count": count})
}

func chatID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid chat id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrChatNotFound):
		response.Error(c, http.StatusNotFound, "CHAT_NOT_FOUND", "Chat not found")
	case errors.Is(err, ErrRecipientNotFound):
		response.Error(c, http.StatusNotFound, "PROFESSIONAL_NOT_FOUND", "Professional not found")
	case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrContentTooLong):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, access.ErrUnauthenticated):
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
	case errors.Is(err, access.ErrNotOwner):
		response.Error(c, http.StatusForbidden, "NOT_OWNER", "You are not a participant of this chat")
	case errors.Is(err, access.ErrRoleMismatch):
		response.Error(c, http.StatusForbidden, "ROLE_MISMATCH", "Access denied: insufficient permissions")
	case database.IsUnavailable(err):
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Service temporarily unavailable, try again later")
	default:
		h.log.WithError(err).Error("chat request failed")
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
