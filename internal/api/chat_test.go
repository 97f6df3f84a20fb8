package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/pageza/fitcoach/backend/internal/service"
)

func chatRouter(chat ChatReplier) *gin.Engine {
	r := gin.New()
	NewChatHandler(chat, zap.NewNop()).RegisterRoutes(r.Group("/api"))
	return r
}

func TestChat(t *testing.T) {
	chat := &fakeChat{reply: "Try three full-body sessions a week."}

	w := performJSON(t, chatRouter(chat), http.MethodPost, "/api/chat", gin.H{"message": "How often should I train?"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"Try three full-body sessions a week."}`, w.Body.String())
	assert.Equal(t, "How often should I train?", chat.message)
}

func TestChatEmptyMessage(t *testing.T) {
	chat := &fakeChat{err: service.ErrEmptyMessage}

	w := performJSON(t, chatRouter(chat), http.MethodPost, "/api/chat", gin.H{"message": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(t, chatRouter(chat), http.MethodPost, "/api/chat", "{", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatModelFailure(t *testing.T) {
	chat := &fakeChat{err: fmt.Errorf("chat reply: %w: %w", service.ErrModelUnavailable, errors.New("quota"))}

	w := performJSON(t, chatRouter(chat), http.MethodPost, "/api/chat", gin.H{"message": "hi"}, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to process chat request"}`, w.Body.String())
}
