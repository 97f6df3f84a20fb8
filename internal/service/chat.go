package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/fitcoach/backend/internal/metrics"
)

const (
	taskChat            = "chat"
	chatMaxOutputTokens = 200
)

// ChatService answers free-form fitness questions.
type ChatService struct {
	generator ContentGenerator
	model     string
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewChatService creates a new ChatService instance. An empty model uses the
// generator's default.
func NewChatService(generator ContentGenerator, model string, m *metrics.Metrics, logger *zap.Logger) *ChatService {
	return &ChatService{
		generator: generator,
		model:     model,
		metrics:   m,
		logger:    logger.Named("chat"),
	}
}

// Reply sends the user's message with the coaching context prepended and
// returns the model's answer.
func (s *ChatService) Reply(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	start := time.Now()
	text, err := s.generator.GenerateContent(ctx, GenerateRequest{
		Prompt:          coachPrompt + message,
		Model:           s.model,
		MaxOutputTokens: chatMaxOutputTokens,
	})
	s.metrics.RecordModelCall(taskChat, err, time.Since(start))
	if err != nil {
		s.logger.Error("chat model call failed", zap.Error(err))
		return "", fmt.Errorf("chat reply: %w: %w", ErrModelUnavailable, err)
	}

	return text, nil
}
