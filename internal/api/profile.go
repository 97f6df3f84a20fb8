package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/fitcoach/backend/internal/middleware"
	"github.com/pageza/fitcoach/backend/internal/model"
)

// Profiles stores the onboarding profile of each user.
type Profiles interface {
	UpdateProfile(ctx context.Context, userID string, p model.UserProfile) (*model.UserProfile, error)
	Profile(ctx context.Context, userID string) (*model.UserProfile, error)
}

// UpdateUserRequest is the onboarding form. Without a bearer token the
// email identifies the user. A client-computed bmi is ignored.
type UpdateUserRequest struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Age       int      `json:"age"`
	Height    float64  `json:"height"`
	Weight    float64  `json:"weight"`
	BodyType  string   `json:"body_type"`
	Goal      string   `json:"goal"`
	MealPref  string   `json:"meal_pref"`
	Allergies []string `json:"allergies"`
	Exercise  string   `json:"exercise"`
	PushUp    *int     `json:"push_up"`
	PullUp    *int     `json:"pull_up"`
}

type ProfileHandler struct {
	profiles Profiles
	logger   *zap.Logger
}

func NewProfileHandler(profiles Profiles, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger.Named("profile_handler")}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	user := router.Group("/user")
	{
		user.POST("/update_user", h.UpdateUser)
		user.GET("/current", h.CurrentUser)
	}
}

// UpdateUser handles POST /api/user/update_user.
func (h *ProfileHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile data"})
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		userID = strings.TrimSpace(req.Email)
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), userID, model.UserProfile{
		Name:      req.Name,
		Email:     req.Email,
		Age:       req.Age,
		Height:    req.Height,
		Weight:    req.Weight,
		BodyType:  req.BodyType,
		Goal:      req.Goal,
		MealPref:  req.MealPref,
		Allergies: req.Allergies,
		Exercise:  req.Exercise,
		PushUp:    req.PushUp,
		PullUp:    req.PullUp,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"user":    profile,
	})
}

// CurrentUser handles GET /api/user/current. The user comes from the bearer
// token, the X-User-ID header or the uid query parameter, in that order.
func (h *ProfileHandler) CurrentUser(c *gin.Context) {
	requested := c.GetHeader("X-User-ID")
	if requested == "" {
		requested = c.Query("uid")
	}
	userID, ok := resolveUser(c, requested)
	if !ok {
		return
	}

	profile, err := h.profiles.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, profile)
}
