package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/fitcoach/backend/internal/model"
	"github.com/pageza/fitcoach/backend/internal/service"
)

// Analyzer turns base64 photos into nutrition and posture results.
type Analyzer interface {
	AnalyzeFood(ctx context.Context, image string) (model.NutritionResult, error)
	AnalyzePosture(ctx context.Context, image string) (model.PostureResult, error)
}

// AnalyzeImageRequest is the body of both analyze endpoints. Image is
// base64 with or without a data URL prefix.
type AnalyzeImageRequest struct {
	Image string `json:"image"`
}

type AnalysisHandler struct {
	analyzer Analyzer
	logger   *zap.Logger
}

func NewAnalysisHandler(analyzer Analyzer, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		logger:   logger.Named("analysis_handler"),
	}
}

func (h *AnalysisHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/food/analyze", h.AnalyzeFood)
	router.POST("/posture/analyze", h.AnalyzePosture)
}

// bindImage reads the image from the request body. It writes the 400
// response and returns false when the image is missing.
func bindImage(c *gin.Context) (string, bool) {
	var req AnalyzeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Image) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image data is required"})
		return "", false
	}
	return req.Image, true
}

// AnalyzeFood handles POST /api/food/analyze.
func (h *AnalysisHandler) AnalyzeFood(c *gin.Context) {
	image, ok := bindImage(c)
	if !ok {
		return
	}

	result, err := h.analyzer.AnalyzeFood(c.Request.Context(), image)
	if err != nil {
		if errors.Is(err, service.ErrInvalidImage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image data is required"})
			return
		}
		h.logger.Error("food analysis failed", zap.Error(err))
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":          model.FoodCallFailureMessage,
			"calorie_data":   result.CalorieData,
			"total_calories": result.TotalCalories,
			"analysis":       result.Analysis,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// AnalyzePosture handles POST /api/posture/analyze.
func (h *AnalysisHandler) AnalyzePosture(c *gin.Context) {
	image, ok := bindImage(c)
	if !ok {
		return
	}

	result, err := h.analyzer.AnalyzePosture(c.Request.Context(), image)
	if err != nil {
		if errors.Is(err, service.ErrInvalidImage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image data is required"})
			return
		}
		h.logger.Error("posture analysis failed", zap.Error(err))
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":           model.PostureCallFailureMessage,
			"posture_score":   result.PostureScore,
			"posture_issues":  result.PostureIssues,
			"recommendations": result.Recommendations,
			"analysis":        result.Analysis,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
