package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/fitcoach/backend/internal/model"
)

// ProfileRepository persists one onboarding profile per user.
type ProfileRepository interface {
	UpsertProfile(ctx context.Context, profile *model.UserProfile) error
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
}

// GormProfileRepository is the GORM implementation of ProfileRepository.
type GormProfileRepository struct {
	db *gorm.DB
}

var _ ProfileRepository = (*GormProfileRepository)(nil)

func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

var profileColumns = []string{
	"name", "email", "age", "height", "weight", "bmi", "body_type", "goal",
	"meal_pref", "allergies", "exercise", "push_up", "pull_up", "updated_at",
}

// UpsertProfile inserts or replaces the profile of profile.UserID, then
// reloads profile from the stored row.
func (r *GormProfileRepository) UpsertProfile(ctx context.Context, profile *model.UserProfile) error {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(profileColumns),
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	stored, err := r.GetProfile(ctx, profile.UserID)
	if err != nil {
		return fmt.Errorf("failed to reload profile: %w", err)
	}
	*profile = *stored
	return nil
}

// GetProfile returns ErrNotFound when the user has no profile.
func (r *GormProfileRepository) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// ProfileService stores the onboarding profile and derives its BMI.
type ProfileService struct {
	repo   ProfileRepository
	logger *zap.Logger
}

// NewProfileService creates a new ProfileService instance
func NewProfileService(repo ProfileRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{repo: repo, logger: logger.Named("profile")}
}

// UpdateProfile replaces the profile of userID with p. The stored BMI is
// computed from height and weight and any value in p is ignored.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, p model.UserProfile) (*model.UserProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}
	switch {
	case p.Age < 0:
		return nil, fmt.Errorf("%w: age must not be negative", ErrInvalidProfile)
	case p.Height < 0 || math.IsNaN(p.Height):
		return nil, fmt.Errorf("%w: height must not be negative", ErrInvalidProfile)
	case p.Weight < 0 || math.IsNaN(p.Weight):
		return nil, fmt.Errorf("%w: weight must not be negative", ErrInvalidProfile)
	}

	profile := &model.UserProfile{
		UserID:    userID,
		Name:      strings.TrimSpace(p.Name),
		Email:     strings.TrimSpace(p.Email),
		Age:       p.Age,
		Height:    p.Height,
		Weight:    p.Weight,
		BMI:       bodyMassIndex(p.Height, p.Weight),
		BodyType:  strings.TrimSpace(p.BodyType),
		Goal:      strings.TrimSpace(p.Goal),
		MealPref:  strings.TrimSpace(p.MealPref),
		Allergies: uniqueTrimmed(p.Allergies),
		Exercise:  strings.TrimSpace(p.Exercise),
		PushUp:    p.PushUp,
		PullUp:    p.PullUp,
	}
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Info("profile updated", zap.String("user_id", userID))
	return profile, nil
}

// Profile returns the stored profile of userID.
func (s *ProfileService) Profile(ctx context.Context, userID string) (*model.UserProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}
	return s.repo.GetProfile(ctx, userID)
}

// bodyMassIndex returns weight over height squared, to one decimal place,
// or 0 when either measurement is missing.
func bodyMassIndex(heightCM, weightKG float64) float64 {
	if heightCM <= 0 || weightKG <= 0 {
		return 0
	}
	m := heightCM / 100
	return math.Round(weightKG/(m*m)*10) / 10
}

func uniqueTrimmed(in []string) model.StringList {
	out := model.StringList{}
	seen := map[string]bool{}
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
