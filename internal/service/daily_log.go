package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/fitcoach/backend/internal/analysis"
	"github.com/pageza/fitcoach/backend/internal/model"
)

// DailyLogRepository persists per-day workout and consumption records. At
// most one record of each kind exists per user and date.
type DailyLogRepository interface {
	UpsertWorkout(ctx context.Context, log *model.WorkoutLog) error
	GetWorkout(ctx context.Context, userID, date string) (*model.WorkoutLog, error)
	ListWorkouts(ctx context.Context, userID string) ([]model.WorkoutLog, error)
	MergeConsumption(ctx context.Context, userID, date string, merge func(log *model.ConsumptionLog)) (*model.ConsumptionLog, error)
	GetConsumption(ctx context.Context, userID, date string) (*model.ConsumptionLog, error)
}

// GormDailyLogRepository is the GORM implementation of DailyLogRepository.
type GormDailyLogRepository struct {
	db *gorm.DB
}

// Ensure GormDailyLogRepository implements DailyLogRepository
var _ DailyLogRepository = (*GormDailyLogRepository)(nil)

// NewGormDailyLogRepository creates a new GormDailyLogRepository instance
func NewGormDailyLogRepository(db *gorm.DB) *GormDailyLogRepository {
	return &GormDailyLogRepository{db: db}
}

// UpsertWorkout inserts or replaces the workout record for log's user and
// date, then reloads log from the stored row.
func (r *GormDailyLogRepository) UpsertWorkout(ctx context.Context, log *model.WorkoutLog) error {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "notes", "updated_at"}),
	}).Create(log).Error
	if err != nil {
		return fmt.Errorf("failed to save workout log: %w", err)
	}

	// The conflict path keeps the existing row's id, so reload by natural key.
	var stored model.WorkoutLog
	if err := db.Where("user_id = ? AND date = ?", log.UserID, log.Date).First(&stored).Error; err != nil {
		return fmt.Errorf("failed to reload workout log: %w", err)
	}
	*log = stored
	return nil
}

// GetWorkout returns ErrNotFound when the user has no record for date.
func (r *GormDailyLogRepository) GetWorkout(ctx context.Context, userID, date string) (*model.WorkoutLog, error) {
	var log model.WorkoutLog
	err := r.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workout log: %w", err)
	}
	return &log, nil
}

// ListWorkouts returns the user's workout records, newest date first.
func (r *GormDailyLogRepository) ListWorkouts(ctx context.Context, userID string) ([]model.WorkoutLog, error) {
	logs := []model.WorkoutLog{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("date DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list workout logs: %w", err)
	}
	return logs, nil
}

// MergeConsumption runs merge on the user's record for date inside a
// transaction and saves the result. A missing record starts out empty.
// Concurrent merges for the same day are applied one after the other.
func (r *GormDailyLogRepository) MergeConsumption(ctx context.Context, userID, date string, merge func(log *model.ConsumptionLog)) (*model.ConsumptionLog, error) {
	var log model.ConsumptionLog
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Seed the row so concurrent first writes also queue on its lock.
		seed := &model.ConsumptionLog{UserID: userID, Date: date, CalorieData: model.CalorieData{}}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).Create(seed).Error
		if err != nil {
			return fmt.Errorf("failed to create consumption log: %w", err)
		}

		query := tx.Where("user_id = ? AND date = ?", userID, date)
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&log).Error; err != nil {
			return fmt.Errorf("failed to lock consumption log: %w", err)
		}

		merge(&log)
		if err := tx.Save(&log).Error; err != nil {
			return fmt.Errorf("failed to save consumption log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// GetConsumption returns ErrNotFound when the user has no record for date.
func (r *GormDailyLogRepository) GetConsumption(ctx context.Context, userID, date string) (*model.ConsumptionLog, error) {
	var log model.ConsumptionLog
	err := r.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get consumption log: %w", err)
	}
	return &log, nil
}

// DailyLogService records daily workout completion and food consumption.
type DailyLogService struct {
	repo          DailyLogRepository
	calorieTarget float64
	logger        *zap.Logger
	now           func() time.Time
}

// NewDailyLogService creates a new DailyLogService instance. calorieTarget
// is the daily goal reported by Metrics; a non-positive value selects
// model.DefaultCalorieTarget.
func NewDailyLogService(repo DailyLogRepository, calorieTarget float64, logger *zap.Logger) *DailyLogService {
	if calorieTarget <= 0 {
		calorieTarget = model.DefaultCalorieTarget
	}
	return &DailyLogService{
		repo:          repo,
		calorieTarget: calorieTarget,
		logger:        logger.Named("daily_log"),
		now:           time.Now,
	}
}

// UpdateWorkout stores the workout status for one day and returns all of the
// user's workout records, newest first. An empty date means today.
func (s *DailyLogService) UpdateWorkout(ctx context.Context, userID, date string, completed bool, notes string) ([]model.WorkoutLog, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}

	log := &model.WorkoutLog{
		UserID:    userID,
		Date:      day,
		Completed: completed,
		Notes:     strings.TrimSpace(notes),
	}
	if err := s.repo.UpsertWorkout(ctx, log); err != nil {
		return nil, err
	}
	s.logger.Info("workout status updated",
		zap.String("user_id", userID),
		zap.String("date", day),
		zap.Bool("completed", completed),
	)

	return s.repo.ListWorkouts(ctx, userID)
}

// Workouts returns the user's workout records, newest first.
func (s *DailyLogService) Workouts(ctx context.Context, userID string) ([]model.WorkoutLog, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}
	return s.repo.ListWorkouts(ctx, userID)
}

// UpdateConsumption merges the given food items into the user's record for
// the day. Items with the same name are replaced. The stored items pass
// through the nutrition normalizer and the total is their calorie sum.
func (s *DailyLogService) UpdateConsumption(ctx context.Context, userID, date string, items map[string]model.FoodMacros) (*model.ConsumptionLog, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}

	incoming := make(map[string]model.FoodMacros, len(items))
	for name, m := range items {
		if name = strings.TrimSpace(name); name != "" {
			incoming[name] = m
		}
	}
	if len(incoming) == 0 {
		return nil, ErrEmptyConsumption
	}

	log, err := s.repo.MergeConsumption(ctx, userID, day, func(stored *model.ConsumptionLog) {
		merged := make(map[string]model.FoodMacros, len(stored.CalorieData)+len(incoming))
		for name, m := range stored.CalorieData {
			merged[name] = m
		}
		for name, m := range incoming {
			merged[name] = m
		}

		normalized := analysis.NormalizeNutrition(model.NutritionResult{CalorieData: merged})
		var total float64
		for _, m := range normalized.CalorieData {
			total += m.Calories
		}
		stored.CalorieData = normalized.CalorieData
		stored.TotalCalories = total
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("consumption updated",
		zap.String("user_id", userID),
		zap.String("date", day),
		zap.Int("items", len(log.CalorieData)),
		zap.Float64("total_calories", log.TotalCalories),
	)
	return log, nil
}

// Consumption returns the user's food record for one day.
func (s *DailyLogService) Consumption(ctx context.Context, userID, date string) (*model.ConsumptionLog, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}
	return s.repo.GetConsumption(ctx, userID, day)
}

// Metrics summarizes one day for the dashboard. A day without records
// reports no workout and zero calories.
func (s *DailyLogService) Metrics(ctx context.Context, userID, date string) (*model.DailyMetrics, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}

	metrics := &model.DailyMetrics{Date: day, CalorieTarget: s.calorieTarget}

	workout, err := s.repo.GetWorkout(ctx, userID, day)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return nil, err
	default:
		metrics.WorkoutCompleted = workout.Completed
	}

	consumption, err := s.repo.GetConsumption(ctx, userID, day)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return nil, err
	default:
		metrics.TotalCalories = consumption.TotalCalories
	}

	return metrics, nil
}

// parseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the
// calendar day. An empty value is today in UTC.
func (s *DailyLogService) parseDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.now().UTC().Format(model.DateLayout), nil
	}
	if t, err := time.Parse(model.DateLayout, date); err == nil {
		return t.Format(model.DateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t.Format(model.DateLayout), nil
	}
	return "", fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidDate, date)
}
