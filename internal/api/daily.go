package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/fitcoach/backend/internal/analysis"
	"github.com/pageza/fitcoach/backend/internal/middleware"
	"github.com/pageza/fitcoach/backend/internal/model"
	"github.com/pageza/fitcoach/backend/internal/service"
)

// AnonymousUserID owns workout updates sent without any identity.
const AnonymousUserID = "anonymous"

// DailyLogger stores per-day workout and consumption records.
type DailyLogger interface {
	UpdateWorkout(ctx context.Context, userID, date string, completed bool, notes string) ([]model.WorkoutLog, error)
	Workouts(ctx context.Context, userID string) ([]model.WorkoutLog, error)
	UpdateConsumption(ctx context.Context, userID, date string, items map[string]model.FoodMacros) (*model.ConsumptionLog, error)
	Consumption(ctx context.Context, userID, date string) (*model.ConsumptionLog, error)
	Metrics(ctx context.Context, userID, date string) (*model.DailyMetrics, error)
}

// UpdateWorkoutStatusRequest is the dashboard's workout toggle. Date and
// Completed must both be present.
type UpdateWorkoutStatusRequest struct {
	Date      *string `json:"date"`
	Completed *bool   `json:"completed"`
	Notes     string  `json:"notes"`
}

// UpdateWorkoutRequest is the daily update form's workout entry.
type UpdateWorkoutRequest struct {
	UID             string `json:"uid"`
	HaveDoneWorkout *bool  `json:"have_done_workout"`
	Notes           string `json:"notes"`
	Date            string `json:"date"`
}

// UpdateConsumptionRequest is the daily update form's meal entry.
// CalorieData has the shape of a food analysis calorie_data map.
type UpdateConsumptionRequest struct {
	UID         string          `json:"uid"`
	CalorieData json.RawMessage `json:"calorie_data"`
	Date        string          `json:"date"`
}

type DailyLogHandler struct {
	logs   DailyLogger
	logger *zap.Logger
}

func NewDailyLogHandler(logs DailyLogger, logger *zap.Logger) *DailyLogHandler {
	return &DailyLogHandler{logs: logs, logger: logger.Named("daily_handler")}
}

func (h *DailyLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/user/update_workout_status", h.UpdateWorkoutStatus)

	daily := router.Group("/daily")
	{
		daily.POST("/update_workout", h.UpdateWorkout)
		daily.POST("/update_consumption", h.UpdateConsumption)
		daily.GET("/:uid/workouts", h.ListWorkouts)
		daily.GET("/:uid/consumption", h.GetConsumption)
		daily.GET("/metrics", h.GetMetrics)
	}
}

// resolveUser returns the identity a request acts for. A verified token
// wins; naming a different user alongside it is refused.
func resolveUser(c *gin.Context, requested string) (string, bool) {
	requested = strings.TrimSpace(requested)
	authID, ok := middleware.UserID(c)
	if !ok {
		return requested, true
	}
	if requested != "" && requested != authID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot modify another user's records"})
		return "", false
	}
	return authID, true
}

// UpdateWorkoutStatus handles POST /api/user/update_workout_status.
func (h *DailyLogHandler) UpdateWorkoutStatus(c *gin.Context) {
	var req UpdateWorkoutStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Date == nil || req.Completed == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date and completed status are required"})
		return
	}

	userID, ok := resolveUser(c, c.GetHeader("X-User-ID"))
	if !ok {
		return
	}
	if userID == "" {
		userID = AnonymousUserID
	}

	logs, err := h.logs.UpdateWorkout(c.Request.Context(), userID, *req.Date, *req.Completed, req.Notes)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update workout status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Workout status updated successfully",
		"logs":    logs,
	})
}

// UpdateWorkout handles POST /api/daily/update_workout.
func (h *DailyLogHandler) UpdateWorkout(c *gin.Context) {
	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.HaveDoneWorkout == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid and have_done_workout are required"})
		return
	}

	userID, ok := resolveUser(c, req.UID)
	if !ok {
		return
	}

	logs, err := h.logs.UpdateWorkout(c.Request.Context(), userID, req.Date, *req.HaveDoneWorkout, req.Notes)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update workout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Workout updated successfully",
		"logs":    logs,
	})
}

// UpdateConsumption handles POST /api/daily/update_consumption.
func (h *DailyLogHandler) UpdateConsumption(c *gin.Context) {
	var req UpdateConsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.CalorieData) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid and calorie_data are required"})
		return
	}

	items, err := analysis.FoodItemsFromJSON(req.CalorieData)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "calorie_data must be an object of food items"})
		return
	}

	userID, ok := resolveUser(c, req.UID)
	if !ok {
		return
	}

	log, err := h.logs.UpdateConsumption(c.Request.Context(), userID, req.Date, items)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update consumption")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Consumption updated successfully",
		"log":     log,
	})
}

// ListWorkouts handles GET /api/daily/:uid/workouts.
func (h *DailyLogHandler) ListWorkouts(c *gin.Context) {
	userID, ok := resolveUser(c, c.Param("uid"))
	if !ok {
		return
	}

	logs, err := h.logs.Workouts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load workouts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// GetConsumption handles GET /api/daily/:uid/consumption?date=YYYY-MM-DD.
func (h *DailyLogHandler) GetConsumption(c *gin.Context) {
	userID, ok := resolveUser(c, c.Param("uid"))
	if !ok {
		return
	}

	log, err := h.logs.Consumption(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load consumption")
		return
	}

	c.JSON(http.StatusOK, log)
}

// GetMetrics handles GET /api/daily/metrics?uid=&date=YYYY-MM-DD.
func (h *DailyLogHandler) GetMetrics(c *gin.Context) {
	userID, ok := resolveUser(c, c.Query("uid"))
	if !ok {
		return
	}

	metrics, err := h.logs.Metrics(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load daily metrics")
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// respondError maps service errors to status codes. Unexpected errors get
// the generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error, message string) {
	switch {
	case errors.Is(err, service.ErrMissingUser),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrEmptyConsumption),
		errors.Is(err, service.ErrInvalidProfile):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No records found"})
	default:
		logger.Error(message, zap.Error(err))
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
