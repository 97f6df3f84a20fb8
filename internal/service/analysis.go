package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/fitcoach/backend/internal/analysis"
	"github.com/pageza/fitcoach/backend/internal/metrics"
	"github.com/pageza/fitcoach/backend/internal/model"
)

const (
	TaskFood    = "food"
	TaskPosture = "posture"

	// sourceFailed labels analyses answered with the call-failure default.
	sourceFailed = "failed"
)

// AnalysisService runs the image analysis pipelines: model call, structured
// extraction and normalization. The cache and archive are optional.
type AnalysisService struct {
	generator ContentGenerator
	cache     ResultCache
	archive   ImageArchiver
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewAnalysisService creates a new AnalysisService instance. cache and
// archive may be nil.
func NewAnalysisService(generator ContentGenerator, cache ResultCache, archive ImageArchiver, m *metrics.Metrics, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		generator: generator,
		cache:     cache,
		archive:   archive,
		metrics:   m,
		logger:    logger.Named("analysis"),
	}
}

// AnalyzeFood estimates the nutrition of the food in a base64 image. When the
// model cannot be reached the call-failure default is returned together with
// an error wrapping ErrModelUnavailable.
func (s *AnalysisService) AnalyzeFood(ctx context.Context, image string) (model.NutritionResult, error) {
	return runAnalysis(ctx, s, TaskFood, foodPrompt, image, analysis.ParseNutrition, model.FailedNutrition)
}

// AnalyzePosture assesses the posture shown in a base64 image. Failure
// handling matches AnalyzeFood.
func (s *AnalysisService) AnalyzePosture(ctx context.Context, image string) (model.PostureResult, error) {
	return runAnalysis(ctx, s, TaskPosture, posturePrompt, image, analysis.ParsePosture, model.FailedPosture)
}

func runAnalysis[T any](
	ctx context.Context,
	s *AnalysisService,
	task, prompt, image string,
	parse func(string) (T, analysis.Source),
	failed func() T,
) (T, error) {
	var zero T

	data, mimeType, err := decodeImage(image)
	if err != nil {
		return zero, err
	}

	key := analysisCacheKey(task, data)
	if cached, ok := cachedResult[T](ctx, s, task, key); ok {
		return cached, nil
	}

	start := time.Now()
	text, err := s.generator.GenerateContent(ctx, GenerateRequest{
		Prompt:   prompt,
		Image:    data,
		MimeType: mimeType,
	})
	s.metrics.RecordModelCall(task, err, time.Since(start))
	if err != nil {
		s.logger.Error("model call failed", zap.String("task", task), zap.Error(err))
		s.metrics.RecordAnalysis(task, sourceFailed)
		return failed(), fmt.Errorf("analyze %s image: %w: %w", task, ErrModelUnavailable, err)
	}

	result, source := parse(text)
	s.metrics.RecordAnalysis(task, string(source))
	if source != analysis.SourceJSON {
		s.logger.Debug("model answer was not valid JSON",
			zap.String("task", task),
			zap.String("source", string(source)),
			zap.Int("answer_length", len(text)),
		)
	}

	// Defaulted answers are not cached; a retry calls the model again.
	if source != analysis.SourceDefault {
		s.storeResult(ctx, task, key, result)
	}
	s.archiveImage(ctx, task, data, mimeType)

	return result, nil
}

func cachedResult[T any](ctx context.Context, s *AnalysisService, task, key string) (T, bool) {
	var result T
	if s.cache == nil {
		return result, false
	}

	data, err := s.cache.Get(ctx, key)
	switch {
	case errors.Is(err, ErrCacheMiss):
		s.metrics.RecordCache(task, "miss")
		return result, false
	case err != nil:
		s.metrics.RecordCache(task, "error")
		s.logger.Warn("cache lookup failed", zap.String("task", task), zap.Error(err))
		return result, false
	}

	if err := json.Unmarshal(data, &result); err != nil {
		s.metrics.RecordCache(task, "error")
		s.logger.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		return result, false
	}
	s.metrics.RecordCache(task, "hit")
	return result, true
}

func (s *AnalysisService) storeResult(ctx context.Context, task, key string, result any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("failed to marshal result for cache", zap.String("task", task), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		s.logger.Warn("failed to cache result", zap.String("task", task), zap.Error(err))
	}
}

func (s *AnalysisService) archiveImage(ctx context.Context, task string, data []byte, mimeType string) {
	if s.archive == nil {
		return
	}
	location, err := s.archive.Archive(ctx, task, data, mimeType)
	if err != nil {
		s.logger.Warn("failed to archive image", zap.String("task", task), zap.Error(err))
		return
	}
	s.logger.Debug("image archived", zap.String("task", task), zap.String("location", location))
}

// decodeImage reads a base64 image, with or without a data URL prefix, and
// reports its MIME type. Unknown types default to image/jpeg.
func decodeImage(image string) ([]byte, string, error) {
	image = strings.TrimSpace(image)
	declared := ""
	if strings.HasPrefix(image, "data:") {
		comma := strings.IndexByte(image, ',')
		if comma < 0 {
			return nil, "", ErrInvalidImage
		}
		header := image[len("data:"):comma]
		declared, _, _ = strings.Cut(header, ";")
		image = image[comma+1:]
	}
	if image == "" {
		return nil, "", ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(image, "="))
	}
	if err != nil || len(data) == 0 {
		return nil, "", ErrInvalidImage
	}

	mimeType := declared
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}
