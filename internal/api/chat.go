package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/fitcoach/backend/internal/service"
)

// ChatReplier answers a coaching question.
type ChatReplier interface {
	Reply(ctx context.Context, message string) (string, error)
}

// ChatRequest represents the request body for the coaching chat
type ChatRequest struct {
	Message string `json:"message"`
}

type ChatHandler struct {
	chat   ChatReplier
	logger *zap.Logger
}

func NewChatHandler(chat ChatReplier, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger.Named("chat_handler")}
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/chat", h.Chat)
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	reply, err := h.chat.Reply(c.Request.Context(), req.Message)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
			return
		}
		h.logger.Error("chat request failed", zap.Error(err))
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": reply})
}
