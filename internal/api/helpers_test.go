package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/fitcoach/backend/internal/database"
	"github.com/pageza/fitcoach/backend/internal/model"
	"github.com/pageza/fitcoach/backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAnalyzer struct {
	food    model.NutritionResult
	posture model.PostureResult
	err     error
	image   string
}

func (f *fakeAnalyzer) AnalyzeFood(_ context.Context, image string) (model.NutritionResult, error) {
	f.image = image
	return f.food, f.err
}

func (f *fakeAnalyzer) AnalyzePosture(_ context.Context, image string) (model.PostureResult, error) {
	f.image = image
	return f.posture, f.err
}

type fakeChat struct {
	reply   string
	err     error
	message string
}

func (f *fakeChat) Reply(_ context.Context, message string) (string, error) {
	f.message = message
	return f.reply, f.err
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func newDailyLogService(t *testing.T) *service.DailyLogService {
	t.Helper()
	return service.NewDailyLogService(service.NewGormDailyLogRepository(newTestDB(t)), 0, zap.NewNop())
}

func newProfileService(t *testing.T) *service.ProfileService {
	t.Helper()
	return service.NewProfileService(service.NewGormProfileRepository(newTestDB(t)), zap.NewNop())
}

func performJSON(t *testing.T, r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
